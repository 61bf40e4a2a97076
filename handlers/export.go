package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"lkrpricing/config"
	"lkrpricing/metrics"
	"lkrpricing/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// buildExportData loads the calculations matching the list filters of the
// request and groups them by shop.
func buildExportData(app *pocketbase.PocketBase, cfg *config.Config, e *core.RequestEvent, now time.Time) (services.ExportData, error) {
	params := services.ParseListParams(e.Request.URL.Query())
	page, err := services.ListCalculations(app, params)
	if err != nil {
		return services.ExportData{}, err
	}
	return services.BuildExportData(cfg.ReportTitle, page.Items, now), nil
}

func writeAttachment(e *core.RequestEvent, contentType, filename string, body []byte) error {
	e.Response.Header().Set("Content-Type", contentType)
	e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	e.Response.WriteHeader(http.StatusOK)
	_, err := e.Response.Write(body)
	return err
}

// HandleExportExcel downloads the grouped items report as xlsx.
func HandleExportExcel(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		now := time.Now()
		data, err := buildExportData(app, cfg, e, now)
		if err != nil {
			metrics.IncExport("xlsx", metrics.ResultError)
			return ServerError(e, "export_excel", "Failed to fetch calculations", err)
		}

		xlsxBytes, err := services.GenerateExcel(data)
		if err != nil {
			metrics.IncExport("xlsx", metrics.ResultError)
			return ServerError(e, "export_excel", "Failed to generate Excel file", err)
		}

		metrics.IncExport("xlsx", metrics.ResultSuccess)
		return writeAttachment(e, xlsxContentType, services.ExportFilename(now, "xlsx"), xlsxBytes)
	}
}

// HandleExportPDF downloads the grouped items report as PDF.
func HandleExportPDF(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		now := time.Now()
		data, err := buildExportData(app, cfg, e, now)
		if err != nil {
			metrics.IncExport("pdf", metrics.ResultError)
			return ServerError(e, "export_pdf", "Failed to fetch calculations", err)
		}

		pdfBytes, err := services.GeneratePDF(data)
		if err != nil {
			metrics.IncExport("pdf", metrics.ResultError)
			return ServerError(e, "export_pdf", "Failed to generate PDF file", err)
		}

		metrics.IncExport("pdf", metrics.ResultSuccess)
		return writeAttachment(e, "application/pdf", services.ExportFilename(now, "pdf"), pdfBytes)
	}
}
