package services

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ShopDistribution is an optional per-shop split stored with a calculation.
type ShopDistribution struct {
	ShopName       string  `json:"shop_name"`
	Qty            float64 `json:"qty"`
	ShopFinalValue float64 `json:"shop_final_value"`
	ShopUnitPrice  float64 `json:"shop_unit_price"`
}

func (d ShopDistribution) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.ShopName, validation.Required.Error("Shop name is required")),
		validation.Field(&d.Qty, validation.Min(0.0).Error("Quantity must be non-negative")),
	)
}

// CalculationRequest is the body accepted by the create, update and preview
// endpoints. ExchangeRate of 0 means "not supplied".
type CalculationRequest struct {
	ID               string             `json:"id" form:"id"`
	ShopID           string             `json:"shop_id" form:"shop_id"`
	ItemName         string             `json:"item_name" form:"item_name"`
	Qty              float64            `json:"qty" form:"qty"`
	RMBPrice         float64            `json:"rmb_price" form:"rmb_price"`
	CMBRate          float64            `json:"cmb_rate" form:"cmb_rate"`
	CMBAmount        float64            `json:"cmb_amount" form:"cmb_amount"`
	ExtraTax         float64            `json:"extra_tax" form:"extra_tax"`
	ExchangeRate     float64            `json:"exchange_rate" form:"exchange_rate"`
	ShopDistribution []ShopDistribution `json:"shop_distribution,omitempty" form:"-"`
}

// Normalize trims the text fields in place.
func (r *CalculationRequest) Normalize() {
	r.ID = strings.TrimSpace(r.ID)
	r.ShopID = strings.TrimSpace(r.ShopID)
	r.ItemName = strings.TrimSpace(r.ItemName)
	for i := range r.ShopDistribution {
		r.ShopDistribution[i].ShopName = strings.TrimSpace(r.ShopDistribution[i].ShopName)
	}
}

func (r CalculationRequest) PricingInput() PricingInput {
	return PricingInput{
		Qty:          r.Qty,
		RMBPrice:     r.RMBPrice,
		CMBRate:      r.CMBRate,
		CMBAmount:    r.CMBAmount,
		ExtraTax:     r.ExtraTax,
		ExchangeRate: r.ExchangeRate,
	}
}

// Validate checks every field including the shop selection.
func (r CalculationRequest) Validate() error {
	return validation.ValidateStruct(&r, r.rules(true, true)...)
}

// ValidatePricing checks the item and numeric fields only. Imports resolve
// shops by name and validate that separately.
func (r CalculationRequest) ValidatePricing() error {
	return validation.ValidateStruct(&r, r.rules(false, true)...)
}

// ValidateInputs checks the numeric formula inputs only, for previews.
func (r CalculationRequest) ValidateInputs() error {
	return validation.ValidateStruct(&r, r.rules(false, false)...)
}

// rules must be called on the same value passed to ValidateStruct, since
// field rules are matched by pointer.
func (r *CalculationRequest) rules(requireShop, requireItem bool) []*validation.FieldRules {
	nonNegative := func(msg string) validation.Rule {
		return validation.Min(0.0).Error(msg)
	}

	rules := []*validation.FieldRules{
		// Required rejects zero, Min rejects negatives.
		validation.Field(&r.Qty,
			validation.Required.Error("Quantity must be positive"),
			validation.Min(0.0).Exclusive().Error("Quantity must be positive"),
		),
		validation.Field(&r.RMBPrice, nonNegative("RMB price must be non-negative")),
		validation.Field(&r.CMBRate, nonNegative("CBM rate must be non-negative")),
		validation.Field(&r.CMBAmount, nonNegative("CBM amount must be non-negative")),
		validation.Field(&r.ExtraTax, nonNegative("Extra tax must be non-negative")),
		validation.Field(&r.ExchangeRate,
			validation.Required.Error("Exchange rate must be greater than 0"),
			validation.Min(0.0).Exclusive().Error("Exchange rate must be greater than 0"),
		),
		validation.Field(&r.ShopDistribution),
	}
	if requireItem {
		rules = append(rules, validation.Field(&r.ItemName, validation.Required.Error("Item name is required")))
	}
	if requireShop {
		rules = append(rules, validation.Field(&r.ShopID, validation.Required.Error("Shop selection is required")))
	}
	return rules
}

// ShopRequest is the body for creating or renaming a shop.
type ShopRequest struct {
	ShopName string `json:"shop_name" form:"shop_name"`
}

// Normalize trims the shop name in place.
func (r *ShopRequest) Normalize() {
	r.ShopName = strings.TrimSpace(r.ShopName)
}

// Validate rejects blank names, whitespace included.
func (r ShopRequest) Validate() error {
	r.Normalize()
	return validation.ValidateStruct(&r,
		validation.Field(&r.ShopName, validation.Required.Error("Shop name is required")),
	)
}

// RateRequest is the body for setting the exchange rate manually.
type RateRequest struct {
	Rate float64 `json:"rate" form:"rate"`
}

func (r RateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Rate,
			validation.Required.Error("Exchange rate must be greater than 0"),
			validation.Min(0.0).Exclusive().Error("Exchange rate must be greater than 0"),
		),
	)
}

// FieldErrors flattens ozzo validation errors into field -> message. Nested
// errors (shop_distribution entries) are joined with a dot. The second
// return value is false when err is not a validation error.
func FieldErrors(err error) (map[string]string, bool) {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return nil, false
	}
	out := make(map[string]string, len(verrs))
	flattenErrors("", verrs, out)
	return out, true
}

func flattenErrors(prefix string, verrs validation.Errors, out map[string]string) {
	for field, ferr := range verrs {
		key := field
		if prefix != "" {
			key = prefix + "." + field
		}
		var nested validation.Errors
		if errors.As(ferr, &nested) {
			flattenErrors(key, nested, out)
			continue
		}
		out[key] = ferr.Error()
	}
}
