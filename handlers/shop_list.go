package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"lkrpricing/services"
)

// HandleShopList returns shops newest first with calculation aggregates.
// Optional ?q= filters by shop name.
func HandleShopList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		shops, err := services.ListShops(app, e.Request.URL.Query().Get("q"))
		if err != nil {
			return ServerError(e, "shop_list", "Failed to fetch shops", err)
		}
		return e.JSON(http.StatusOK, shops)
	}
}

// HandleShopCreate creates a shop from {shop_name}.
func HandleShopCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req services.ShopRequest
		if ok, err := bindBody(e, &req); !ok {
			return err
		}
		req.Normalize()
		if err := req.Validate(); err != nil {
			return ValidationError(e, err)
		}

		rec, err := services.SaveShop(app, nil, req)
		if err != nil {
			return ServerError(e, "shop_create", "Failed to save shop", err)
		}

		app.Logger().Info("shop created", "component", "shop_create", "id", rec.Id)
		notifyChanged(e, "Shop created")
		return e.JSON(http.StatusOK, services.ShopFromRecord(rec))
	}
}
