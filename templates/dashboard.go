// Package templates holds the server-rendered dashboard components.
package templates

// DashboardShop is one row of the per-shop table, values preformatted.
type DashboardShop struct {
	ID         string
	Name       string
	Items      int
	FinalValue string
}

// DashboardData is everything the dashboard renders.
type DashboardData struct {
	Title            string
	ShopsCount       int
	UniqueItems      int
	Calculations     int
	TotalFinalValue  string
	TotalRMBAmount   string
	ExchangeRate     string
	RateSource       string
	SelectedShopName string
	Shops            []DashboardShop
}
