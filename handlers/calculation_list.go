package handlers

import (
	"net/http"
	"strconv"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"lkrpricing/services"
)

// HandleCalculationList returns calculations filtered by ?q= and ?shop=,
// sorted by ?sort= / ?order=, optionally paged with ?page= / ?per_page=.
// X-Total-Count always carries the unpaged total.
func HandleCalculationList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		params := services.ParseListParams(e.Request.URL.Query())

		page, err := services.ListCalculations(app, params)
		if err != nil {
			return ServerError(e, "calculation_list", "Failed to fetch calculations", err)
		}

		e.Response.Header().Set("X-Total-Count", strconv.Itoa(page.Total))
		return e.JSON(http.StatusOK, page.Items)
	}
}

// HandleCalculationView returns a single calculation.
func HandleCalculationView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := services.FindCalculation(app, e.Request.PathValue("id"))
		if err != nil {
			return NotFoundOr(e, "calculation_view", "Failed to fetch calculation", err)
		}
		return e.JSON(http.StatusOK, services.CalculationFromRecord(rec))
	}
}
