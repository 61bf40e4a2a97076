package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"lkrpricing/metrics"
	"lkrpricing/services"
)

// HandleCalculationDelete deletes one calculation by path id or ?id=.
func HandleCalculationDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			id = e.Request.URL.Query().Get("id")
		}
		if id == "" {
			return JSONError(e, http.StatusBadRequest, "Calculation ID is required")
		}

		rec, err := services.FindCalculation(app, id)
		if err != nil {
			return NotFoundOr(e, "calculation_delete", "Failed to delete calculation", err)
		}
		if err := app.Delete(rec); err != nil {
			return ServerError(e, "calculation_delete", "Failed to delete calculation", err)
		}
		metrics.IncCalculationWrite("delete")
		notifyChanged(e, "Calculation deleted successfully")

		return e.JSON(http.StatusOK, map[string]string{"message": "Calculation deleted successfully"})
	}
}
