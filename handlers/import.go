package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"

	"lkrpricing/config"
	"lkrpricing/metrics"
	"lkrpricing/services"
)

// HandleCalculationImport validates an uploaded .xlsx/.csv file and, unless
// dry_run is set or a row failed, stores its calculations.
// Route: POST /api/calculations/import
func HandleCalculationImport(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		e.Request.Body = http.MaxBytesReader(e.Response, e.Request.Body, cfg.ImportMaxBytes)
		if err := e.Request.ParseMultipartForm(cfg.ImportMaxBytes); err != nil {
			return JSONError(e, http.StatusBadRequest, "File too large or invalid form data")
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return JSONError(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		name := strings.ToLower(header.Filename)
		if !strings.HasSuffix(name, ".xlsx") && !strings.HasSuffix(name, ".csv") {
			return JSONError(e, http.StatusBadRequest, "Only .xlsx and .csv files are supported")
		}

		fallback, err := services.CurrentRate(app, cfg.DefaultExchangeRate)
		if err != nil {
			return ServerError(e, "import", "Failed to fetch exchange rate", err)
		}

		report, err := services.ImportCalculations(app, file, header.Filename, services.ImportOptions{
			DryRun:       cast.ToBool(e.Request.FormValue("dry_run")),
			ChunkSize:    cfg.ImportChunkSize,
			FallbackRate: fallback.Rate,
		})
		if err != nil && report != nil {
			return ServerError(e, "import", "Failed to save imported rows", err)
		}
		if err != nil {
			// parse failures (bad workbook, missing columns) are the caller's fault
			app.Logger().Warn("import rejected",
				"component", "import",
				"request_id", RequestID(e.Request),
				"file", header.Filename,
				"error", err,
			)
			return JSONError(e, http.StatusBadRequest, err.Error())
		}

		metrics.AddImportRows(report.Created, report.ErrorRows)
		app.Logger().Info("import finished",
			"component", "import",
			"file", report.FileName,
			"dry_run", report.DryRun,
			"rows", report.TotalRows,
			"created", report.Created,
			"errors", report.ErrorRows,
		)

		if report.ErrorRows > 0 {
			SetToast(e, "error", fmt.Sprintf("%d rows have errors", report.ErrorRows))
			return e.JSON(http.StatusBadRequest, report)
		}
		if report.Created > 0 {
			notifyChanged(e, fmt.Sprintf("%d calculations imported", report.Created))
		}
		return e.JSON(http.StatusOK, report)
	}
}

// HandleImportTemplate downloads an empty import workbook with one example row.
// Route: GET /api/calculations/import/template
func HandleImportTemplate() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		xlsxBytes, err := services.GenerateImportTemplate()
		if err != nil {
			return ServerError(e, "import_template", "Failed to generate template", err)
		}
		return writeAttachment(e, xlsxContentType, "calculations_import_template.xlsx", xlsxBytes)
	}
}
