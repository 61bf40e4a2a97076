package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"lkrpricing/config"
	"lkrpricing/services"
	"lkrpricing/templates"
)

// HandleSummary returns the dashboard figures as JSON.
// Route: GET /api/summary
func HandleSummary(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		summary, err := services.LoadSummary(e.Request.Context(), app)
		if err != nil {
			return ServerError(e, "summary", "Failed to load summary", err)
		}
		return e.JSON(http.StatusOK, summary)
	}
}

// HandleDashboard renders the summary page.
// Route: GET /
func HandleDashboard(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		summary, err := services.LoadSummary(e.Request.Context(), app)
		if err != nil {
			return ServerError(e, "dashboard", "Failed to load summary", err)
		}
		rate, err := services.CurrentRate(app, cfg.DefaultExchangeRate)
		if err != nil {
			return ServerError(e, "dashboard", "Failed to fetch exchange rate", err)
		}

		data := buildDashboardData(summary, rate)
		if sel := GetSelectedShop(e.Request); sel != nil {
			data.SelectedShopName = sel.Name
		}

		e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
		if e.Request.Header.Get("HX-Request") == "true" {
			return templates.DashboardContent(data).Render(e.Request.Context(), e.Response)
		}
		return templates.DashboardPage(data).Render(e.Request.Context(), e.Response)
	}
}

func buildDashboardData(s services.Summary, rate services.RateInfo) templates.DashboardData {
	shops := make([]templates.DashboardShop, 0, len(s.PerShop))
	for _, st := range s.PerShop {
		shops = append(shops, templates.DashboardShop{
			ID:         st.ShopID,
			Name:       st.ShopName,
			Items:      st.Items,
			FinalValue: services.FormatLKR(st.TotalFinalValue),
		})
	}

	return templates.DashboardData{
		Title:           "RMB to LKR Pricing",
		ShopsCount:      s.ShopsCount,
		UniqueItems:     s.UniqueItems,
		Calculations:    s.Calculations,
		TotalFinalValue: services.FormatCompactLKR(s.TotalFinalValue),
		TotalRMBAmount:  services.FormatRMB(s.TotalRMBAmount),
		ExchangeRate:    services.FormatRate(rate.Rate),
		RateSource:      rate.Source,
		Shops:           shops,
	}
}
