package services

import (
	"sort"
	"time"
)

// NoShopLabel groups calculations that are not linked to any shop.
const NoShopLabel = "No Shop"

// ExportHeaders are the item columns, in order, shared by the Excel and PDF
// reports and the import template.
var ExportHeaders = []string{
	"Item Name",
	"Date",
	"Quantity",
	"RMB Price",
	"RMB Amount",
	"LKR Amount",
	"CMB Rate",
	"CMB Amount",
	"CMB Value",
	"Extra Tax",
	"Final Value",
	"Unit Price",
	"Exchange Rate",
}

// ExportRow is one calculation line in the report.
type ExportRow struct {
	ItemName     string
	Date         string
	Qty          float64
	RMBPrice     float64
	RMBAmount    float64
	LKRAmount    float64
	CMBRate      float64
	CMBAmount    float64
	CMBValue     float64
	ExtraTax     float64
	FinalValue   float64
	UnitPrice    float64
	ExchangeRate float64
}

// ExportGroup is one shop section of the report.
type ExportGroup struct {
	ShopName        string
	Rows            []ExportRow
	TotalFinalValue float64
}

// ExportData holds all data needed for export.
type ExportData struct {
	Title       string
	CreatedDate string
	Groups      []ExportGroup
	TotalItems  int
}

// BuildExportData groups calculations by shop name, shops sorted by name and
// rows kept in the order given.
func BuildExportData(reportTitle string, calcs []Calculation, now time.Time) ExportData {
	byShop := make(map[string]*ExportGroup)
	for _, c := range calcs {
		name := c.ShopName
		if name == "" {
			name = NoShopLabel
		}
		g, ok := byShop[name]
		if !ok {
			g = &ExportGroup{ShopName: name}
			byShop[name] = g
		}
		g.Rows = append(g.Rows, exportRow(c))
		g.TotalFinalValue += c.FinalValue
	}

	names := make([]string, 0, len(byShop))
	for name := range byShop {
		names = append(names, name)
	}
	sort.Strings(names)

	data := ExportData{
		Title:       reportTitle + " - " + now.Format("2006-01-02"),
		CreatedDate: now.Format("02 Jan 2006"),
		Groups:      make([]ExportGroup, 0, len(names)),
		TotalItems:  len(calcs),
	}
	for _, name := range names {
		data.Groups = append(data.Groups, *byShop[name])
	}
	return data
}

func exportRow(c Calculation) ExportRow {
	date := ""
	if !c.CreatedAt.IsZero() {
		date = c.CreatedAt.Format("02 Jan 2006, 15:04")
	}
	return ExportRow{
		ItemName:     c.ItemName,
		Date:         date,
		Qty:          c.Qty,
		RMBPrice:     c.RMBPrice,
		RMBAmount:    c.RMBAmount,
		LKRAmount:    c.LKRAmount,
		CMBRate:      c.CMBRate,
		CMBAmount:    c.CMBAmount,
		CMBValue:     c.CMBValue,
		ExtraTax:     c.ExtraTax,
		FinalValue:   c.FinalValue,
		UnitPrice:    c.UnitPrice,
		ExchangeRate: c.ExchangeRate,
	}
}

// values returns the numeric cells after Item Name and Date, in header order.
func (r ExportRow) values() []float64 {
	return []float64{
		r.Qty, r.RMBPrice, r.RMBAmount, r.LKRAmount, r.CMBRate, r.CMBAmount,
		r.CMBValue, r.ExtraTax, r.FinalValue, r.UnitPrice, r.ExchangeRate,
	}
}

// ExportFilename is the download name for a report generated on day.
func ExportFilename(day time.Time, ext string) string {
	return "items_by_shop_" + day.Format("2006-01-02") + "." + ext
}
