package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"lkrpricing/services"
)

type shopDetail struct {
	Shop         services.Shop          `json:"shop"`
	Calculations []services.Calculation `json:"calculations"`
}

// HandleShopView returns one shop and its calculations, newest first.
func HandleShopView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		shopID := e.Request.PathValue("id")
		if shopID == "" {
			return JSONError(e, http.StatusBadRequest, "Shop ID is required")
		}

		rec, err := services.FindShop(app, shopID)
		if err != nil {
			return NotFoundOr(e, "shop_view", "Failed to fetch shop details", err)
		}

		calcs, err := services.ShopCalculations(app, rec)
		if err != nil {
			return ServerError(e, "shop_view", "Failed to fetch shop calculations", err)
		}

		return e.JSON(http.StatusOK, shopDetail{
			Shop:         services.ShopFromRecord(rec),
			Calculations: calcs,
		})
	}
}
