package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"lkrpricing/services"
)

// HandleShopUpdate renames a shop.
func HandleShopUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		shopID := e.Request.PathValue("id")
		if shopID == "" {
			return JSONError(e, http.StatusBadRequest, "Shop ID is required")
		}

		var req services.ShopRequest
		if ok, err := bindBody(e, &req); !ok {
			return err
		}
		req.Normalize()
		if err := req.Validate(); err != nil {
			return ValidationError(e, err)
		}

		rec, err := services.FindShop(app, shopID)
		if err != nil {
			return NotFoundOr(e, "shop_edit", "Failed to update shop", err)
		}

		rec, err = services.SaveShop(app, rec, req)
		if err != nil {
			return ServerError(e, "shop_edit", "Failed to update shop", err)
		}
		notifyChanged(e, "Shop updated")
		return e.JSON(http.StatusOK, services.ShopFromRecord(rec))
	}
}
