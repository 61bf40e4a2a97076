package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"lkrpricing/config"
	"lkrpricing/services"
)

type previewResponse struct {
	ExchangeRate float64 `json:"exchange_rate"`
	services.PricingBreakdown
}

// HandleCalculationPreview validates the pricing inputs and returns the
// breakdown without saving anything. Item name and shop are not required.
func HandleCalculationPreview(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req services.CalculationRequest
		if ok, err := bindBody(e, &req); !ok {
			return err
		}
		req.Normalize()
		req.ExchangeRate = services.ResolveExchangeRate(app, req.ExchangeRate, cfg.DefaultExchangeRate)

		if err := req.ValidateInputs(); err != nil {
			return ValidationError(e, err)
		}

		return e.JSON(http.StatusOK, previewResponse{
			ExchangeRate:     req.ExchangeRate,
			PricingBreakdown: services.Calculate(req.PricingInput()),
		})
	}
}
