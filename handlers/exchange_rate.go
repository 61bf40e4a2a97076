package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"

	"lkrpricing/collections"
	"lkrpricing/config"
	"lkrpricing/metrics"
	"lkrpricing/services"
)

// HandleExchangeRateGet returns the current rate, or the configured default
// when none has been stored.
func HandleExchangeRateGet(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		info, err := services.CurrentRate(app, cfg.DefaultExchangeRate)
		if err != nil {
			return ServerError(e, "exchange_rate", "Failed to fetch exchange rate", err)
		}
		return e.JSON(http.StatusOK, info)
	}
}

// HandleExchangeRateSet stores a manual rate from {rate}.
func HandleExchangeRateSet(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req services.RateRequest
		if ok, err := bindBody(e, &req); !ok {
			return err
		}
		if err := req.Validate(); err != nil {
			return ValidationError(e, err)
		}

		info, err := services.SaveRate(app, req.Rate, collections.RateSourceManual)
		if err != nil {
			return ServerError(e, "exchange_rate", "Failed to save exchange rate", err)
		}
		app.Logger().Info("exchange rate set", "component", "exchange_rate", "rate", info.Rate)
		notifyChanged(e, "Exchange rate updated")
		return e.JSON(http.StatusOK, info)
	}
}

// HandleExchangeRateHistory returns stored rates newest first (?limit=).
func HandleExchangeRateHistory(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		limit := cast.ToInt(e.Request.URL.Query().Get("limit"))
		history, err := services.RateHistory(app, limit)
		if err != nil {
			return ServerError(e, "exchange_rate", "Failed to fetch exchange rate history", err)
		}
		return e.JSON(http.StatusOK, history)
	}
}

type liveRateError struct {
	Error string  `json:"error"`
	Rate  float64 `json:"rate"`
}

// HandleExchangeRateLive fetches the CNY->LKR rate from the FX API. On any
// failure it answers 500 with the fallback rate so the form stays usable.
func HandleExchangeRateLive(app *pocketbase.PocketBase, fx *services.FXClient) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		q, err := fx.LiveRate(e.Request.Context(), app)
		if err != nil {
			metrics.IncFXFetch(metrics.ResultError)
			level := app.Logger().Error
			if errors.Is(err, services.ErrRateLimited) {
				level = app.Logger().Warn
			}
			level("exchange rate fetch failed",
				"component", "exchange_rate",
				"request_id", RequestID(e.Request),
				"error", err,
			)
			return e.JSON(http.StatusInternalServerError, liveRateError{
				Error: "Failed to fetch exchange rate",
				Rate:  fx.Fallback(),
			})
		}

		metrics.IncFXFetch(metrics.ResultSuccess)
		return e.JSON(http.StatusOK, q)
	}
}
