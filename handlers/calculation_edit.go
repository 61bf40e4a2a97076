package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"lkrpricing/metrics"
	"lkrpricing/services"
)

// HandleCalculationUpdate recomputes and saves an existing calculation. The
// id comes from the path, or from the body's "id" for PUT /api/calculations.
// A missing shop_id or exchange_rate keeps the stored value.
func HandleCalculationUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req services.CalculationRequest
		if ok, err := bindBody(e, &req); !ok {
			return err
		}
		req.Normalize()

		id := e.Request.PathValue("id")
		if id == "" {
			id = req.ID
		}
		if id == "" {
			return JSONError(e, http.StatusBadRequest, "Calculation ID is required")
		}

		rec, err := services.FindCalculation(app, id)
		if err != nil {
			return NotFoundOr(e, "calculation_edit", "Failed to update calculation", err)
		}

		if req.ShopID == "" {
			req.ShopID = rec.GetString("shop")
		}
		if req.ExchangeRate == 0 {
			req.ExchangeRate = rec.GetFloat("exchange_rate")
		}

		if err := req.Validate(); err != nil {
			return ValidationError(e, err)
		}
		if handled, err := checkShopExists(e, app, req.ShopID); handled {
			return err
		}

		services.ApplyRequest(rec, req)
		if err := app.Save(rec); err != nil {
			return ServerError(e, "calculation_edit", "Failed to update calculation", err)
		}
		metrics.IncCalculationWrite("update")

		app.ExpandRecord(rec, []string{"shop"}, nil)
		notifyChanged(e, "Calculation updated")
		return e.JSON(http.StatusOK, services.CalculationFromRecord(rec))
	}
}
