package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"lkrpricing/services"
)

// HandleShopSelect remembers the shop in the last_shop cookie (30 days).
func HandleShopSelect(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := services.FindShop(app, e.Request.PathValue("id"))
		if err != nil {
			return NotFoundOr(e, "shop_select", "Failed to select shop", err)
		}

		setLastShopCookie(e, rec.Id)
		return e.JSON(http.StatusOK, map[string]*SelectedShop{
			"shop": {ID: rec.Id, Name: rec.GetString("shop_name")},
		})
	}
}

// HandleShopSelected returns the remembered shop, or {"shop": null}.
func HandleShopSelected() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.JSON(http.StatusOK, map[string]*SelectedShop{"shop": GetSelectedShop(e.Request)})
	}
}

// HandleShopDeselect forgets the remembered shop.
func HandleShopDeselect() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		clearLastShopCookie(e)
		return e.NoContent(http.StatusNoContent)
	}
}
