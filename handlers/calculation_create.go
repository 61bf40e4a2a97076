package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"lkrpricing/config"
	"lkrpricing/metrics"
	"lkrpricing/services"
)

// HandleCalculationCreate validates the inputs, computes the derived values
// and stores a new calculation. Without shop_id the last selected shop is
// used; without exchange_rate the current stored rate is.
func HandleCalculationCreate(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req services.CalculationRequest
		if ok, err := bindBody(e, &req); !ok {
			return err
		}
		req.Normalize()

		if req.ShopID == "" {
			if sel := GetSelectedShop(e.Request); sel != nil {
				req.ShopID = sel.ID
			}
		}
		req.ExchangeRate = services.ResolveExchangeRate(app, req.ExchangeRate, cfg.DefaultExchangeRate)

		if err := req.Validate(); err != nil {
			return ValidationError(e, err)
		}
		if handled, err := checkShopExists(e, app, req.ShopID); handled {
			return err
		}

		col, err := app.FindCollectionByNameOrId("calculations")
		if err != nil {
			return ServerError(e, "calculation_create", "Failed to save calculation", err)
		}

		rec := core.NewRecord(col)
		services.ApplyRequest(rec, req)
		if err := app.Save(rec); err != nil {
			return ServerError(e, "calculation_create", "Failed to save calculation", err)
		}
		metrics.IncCalculationWrite("create")

		app.ExpandRecord(rec, []string{"shop"}, nil)
		app.Logger().Info("calculation created", "component", "calculation_create", "id", rec.Id, "shop", req.ShopID)
		notifyChanged(e, "Calculation saved")
		return e.JSON(http.StatusOK, services.CalculationFromRecord(rec))
	}
}

// checkShopExists writes a 400 when shopID does not reference a shop. The
// bool reports whether a response was written.
func checkShopExists(e *core.RequestEvent, app core.App, shopID string) (bool, error) {
	_, err := services.FindShop(app, shopID)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, services.ErrShopNotFound) {
		return true, e.JSON(http.StatusBadRequest, errorBody{
			Error:   "Invalid input data",
			Details: map[string]string{"shop_id": "Selected shop does not exist"},
		})
	}
	return true, ServerError(e, "calculation", "Failed to load shop", err)
}
