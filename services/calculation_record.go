package services

import (
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// Shop is the JSON shape of a shops record.
type Shop struct {
	ID        string    `json:"id"`
	ShopName  string    `json:"shop_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Aggregates filled by ListShops only.
	CalculationCount int     `json:"calculation_count"`
	TotalFinalValue  float64 `json:"total_final_value"`
}

// Calculation is the JSON shape of a calculations record. ShopName comes from
// the expanded shop relation, or the legacy free-text name for old rows.
type Calculation struct {
	ID               string             `json:"id"`
	ShopID           string             `json:"shop_id"`
	ShopName         string             `json:"shop_name"`
	ItemName         string             `json:"item_name"`
	Qty              float64            `json:"qty"`
	RMBPrice         float64            `json:"rmb_price"`
	CMBRate          float64            `json:"cmb_rate"`
	CMBAmount        float64            `json:"cmb_amount"`
	ExtraTax         float64            `json:"extra_tax"`
	ExchangeRate     float64            `json:"exchange_rate"`
	RMBAmount        float64            `json:"rmb_amount"`
	LKRAmount        float64            `json:"lkr_amount"`
	CMBValue         float64            `json:"cmb_value"`
	FinalValue       float64            `json:"final_value"`
	UnitPrice        float64            `json:"unit_price"`
	ShopDistribution []ShopDistribution `json:"shop_distribution"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

func ShopFromRecord(rec *core.Record) Shop {
	return Shop{
		ID:        rec.Id,
		ShopName:  rec.GetString("shop_name"),
		CreatedAt: rec.GetDateTime("created").Time(),
		UpdatedAt: rec.GetDateTime("updated").Time(),
	}
}

// CalculationFromRecord maps a calculations record. Expand "shop" beforehand
// to get the shop name filled in.
func CalculationFromRecord(rec *core.Record) Calculation {
	c := Calculation{
		ID:           rec.Id,
		ShopID:       rec.GetString("shop"),
		ItemName:     rec.GetString("item_name"),
		Qty:          rec.GetFloat("qty"),
		RMBPrice:     rec.GetFloat("rmb_price"),
		CMBRate:      rec.GetFloat("cmb_rate"),
		CMBAmount:    rec.GetFloat("cmb_amount"),
		ExtraTax:     rec.GetFloat("extra_tax"),
		ExchangeRate: rec.GetFloat("exchange_rate"),
		RMBAmount:    rec.GetFloat("rmb_amount"),
		LKRAmount:    rec.GetFloat("lkr_amount"),
		CMBValue:     rec.GetFloat("cmb_value"),
		FinalValue:   rec.GetFloat("final_value"),
		UnitPrice:    rec.GetFloat("unit_price"),
		CreatedAt:    rec.GetDateTime("created").Time(),
		UpdatedAt:    rec.GetDateTime("updated").Time(),
	}

	if shop := rec.ExpandedOne("shop"); shop != nil {
		c.ShopName = shop.GetString("shop_name")
	}
	if c.ShopName == "" {
		c.ShopName = rec.GetString("legacy_shop_name")
	}

	var dist []ShopDistribution
	if err := rec.UnmarshalJSONField("shop_distribution", &dist); err == nil {
		c.ShopDistribution = dist
	}
	return c
}

// ApplyRequest copies the request inputs onto rec and recomputes the derived
// columns. Client-supplied derived values are never read.
func ApplyRequest(rec *core.Record, req CalculationRequest) PricingBreakdown {
	rec.Set("shop", req.ShopID)
	rec.Set("item_name", req.ItemName)
	rec.Set("qty", req.Qty)
	rec.Set("rmb_price", req.RMBPrice)
	rec.Set("cmb_rate", req.CMBRate)
	rec.Set("cmb_amount", req.CMBAmount)
	rec.Set("extra_tax", req.ExtraTax)
	rec.Set("exchange_rate", req.ExchangeRate)
	if req.ShopDistribution != nil {
		rec.Set("shop_distribution", req.ShopDistribution)
	}

	b := Calculate(req.PricingInput())
	ApplyBreakdown(rec, b)
	return b
}

// ApplyBreakdown writes the derived pricing columns.
func ApplyBreakdown(rec *core.Record, b PricingBreakdown) {
	rec.Set("rmb_amount", b.RMBAmount)
	rec.Set("lkr_amount", b.LKRAmount)
	rec.Set("cmb_value", b.CMBValue)
	rec.Set("final_value", b.FinalValue)
	rec.Set("unit_price", b.UnitPrice)
}
