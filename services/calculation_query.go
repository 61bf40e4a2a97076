package services

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"
)

// Sortable columns exposed to clients, mapped to collection fields.
var sortColumns = map[string]string{
	"created_at":  "created",
	"final_value": "final_value",
	"qty":         "qty",
	"item_name":   "item_name",
}

const (
	defaultSort  = "created_at"
	defaultOrder = "desc"
	maxPerPage   = 500
)

// ListParams are the filters accepted by the calculation list and export
// endpoints. Page and PerPage of 0 mean "return everything".
type ListParams struct {
	Query   string
	ShopID  string
	Sort    string
	Order   string
	Page    int
	PerPage int
}

// ParseListParams reads list filters from a query string. Unknown sort keys
// and orders fall back to newest first; bad numbers are treated as absent.
func ParseListParams(q url.Values) ListParams {
	p := ListParams{
		Query:  strings.TrimSpace(q.Get("q")),
		ShopID: strings.TrimSpace(q.Get("shop")),
		Sort:   strings.ToLower(strings.TrimSpace(q.Get("sort"))),
		Order:  strings.ToLower(strings.TrimSpace(q.Get("order"))),
	}
	if _, ok := sortColumns[p.Sort]; !ok {
		p.Sort = defaultSort
	}
	if p.Order != "asc" && p.Order != "desc" {
		p.Order = defaultOrder
	}

	p.Page = cast.ToInt(q.Get("page"))
	p.PerPage = cast.ToInt(q.Get("per_page"))
	if p.Page < 0 {
		p.Page = 0
	}
	if p.PerPage < 0 {
		p.PerPage = 0
	}
	if p.PerPage > maxPerPage {
		p.PerPage = maxPerPage
	}
	if p.PerPage > 0 && p.Page == 0 {
		p.Page = 1
	}
	return p
}

// Filter builds the PocketBase filter expression and its bound params.
func (p ListParams) Filter() (string, map[string]any) {
	var clauses []string
	params := map[string]any{}

	if p.Query != "" {
		clauses = append(clauses, "(item_name ~ {:q} || shop.shop_name ~ {:q} || legacy_shop_name ~ {:q})")
		params["q"] = p.Query
	}
	if p.ShopID != "" {
		clauses = append(clauses, "shop = {:shop}")
		params["shop"] = p.ShopID
	}
	return strings.Join(clauses, " && "), params
}

// SortExpr returns the PocketBase sort expression, with the record id as a
// stable tiebreak.
func (p ListParams) SortExpr() string {
	field, ok := sortColumns[p.Sort]
	if !ok {
		field = sortColumns[defaultSort]
	}
	if p.Order == "asc" {
		return field + ",id"
	}
	return "-" + field + ",-id"
}

// CalculationPage is one page of a filtered list plus the unpaged total.
type CalculationPage struct {
	Items []Calculation
	Total int
}

// ListCalculations returns the calculations matching p with the shop
// relation expanded.
func ListCalculations(app core.App, p ListParams) (CalculationPage, error) {
	filter, params := p.Filter()

	records, err := app.FindRecordsByFilter("calculations", filter, p.SortExpr(), 0, 0, params)
	if err != nil {
		return CalculationPage{}, fmt.Errorf("list calculations: %w", err)
	}

	page := CalculationPage{Total: len(records)}

	if p.PerPage > 0 {
		start := (p.Page - 1) * p.PerPage
		if start > len(records) {
			start = len(records)
		}
		end := start + p.PerPage
		if end > len(records) {
			end = len(records)
		}
		records = records[start:end]
	}

	if errs := app.ExpandRecords(records, []string{"shop"}, nil); len(errs) > 0 {
		app.Logger().Warn("expand shop relation failed", "component", "calculations", "errors", errs)
	}

	page.Items = make([]Calculation, 0, len(records))
	for _, rec := range records {
		page.Items = append(page.Items, CalculationFromRecord(rec))
	}
	return page, nil
}

// FindCalculation loads one calculation with its shop expanded.
func FindCalculation(app core.App, id string) (*core.Record, error) {
	rec, err := app.FindRecordById("calculations", id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCalculationNotFound, id)
	}
	app.ExpandRecord(rec, []string{"shop"}, nil)
	return rec, nil
}
