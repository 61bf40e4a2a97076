package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"lkrpricing/services"
)

// HandleShopDelete deletes a shop and, through the cascading relation, all
// of its calculations. The id comes from the path or from ?id=.
func HandleShopDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		shopID := e.Request.PathValue("id")
		if shopID == "" {
			shopID = e.Request.URL.Query().Get("id")
		}
		if shopID == "" {
			return JSONError(e, http.StatusBadRequest, "Shop ID is required")
		}

		rec, err := services.FindShop(app, shopID)
		if err != nil {
			return NotFoundOr(e, "shop_delete", "Failed to delete shop", err)
		}

		if err := app.Delete(rec); err != nil {
			return ServerError(e, "shop_delete", "Failed to delete shop", err)
		}

		if sel := GetSelectedShop(e.Request); sel != nil && sel.ID == shopID {
			clearLastShopCookie(e)
		}

		app.Logger().Info("shop deleted", "component", "shop_delete", "id", shopID)
		notifyChanged(e, "Shop deleted successfully")
		return e.JSON(http.StatusOK, map[string]string{"message": "Shop deleted successfully"})
	}
}
