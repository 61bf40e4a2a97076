// Package services provides the RMB to LKR pricing formula and the record,
// export and import plumbing built around it.
package services

// PricingInput holds the user-entered values for one item.
type PricingInput struct {
	Qty          float64
	RMBPrice     float64
	CMBRate      float64
	CMBAmount    float64
	ExtraTax     float64
	ExchangeRate float64
}

// PricingBreakdown holds the derived values, one per step of the formula.
type PricingBreakdown struct {
	RMBAmount  float64 `json:"rmb_amount"`
	LKRAmount  float64 `json:"lkr_amount"`
	CMBValue   float64 `json:"cmb_value"`
	FinalValue float64 `json:"final_value"`
	UnitPrice  float64 `json:"unit_price"`
}

func CalcRMBAmount(qty, rmbPrice float64) float64 {
	return qty * rmbPrice
}

func CalcLKRAmount(rmbAmount, exchangeRate float64) float64 {
	return rmbAmount * exchangeRate
}

func CalcCMBValue(cmbRate, cmbAmount float64) float64 {
	return cmbRate * cmbAmount
}

func CalcFinalValue(lkrAmount, cmbValue, extraTax float64) float64 {
	return lkrAmount + cmbValue + extraTax
}

// CalcUnitPrice returns 0 for a zero quantity.
func CalcUnitPrice(finalValue, qty float64) float64 {
	if qty == 0 {
		return 0
	}
	return finalValue / qty
}

// Calculate runs the five steps in order. Every write path (create, update,
// preview, import) goes through here.
func Calculate(in PricingInput) PricingBreakdown {
	rmbAmount := CalcRMBAmount(in.Qty, in.RMBPrice)
	lkrAmount := CalcLKRAmount(rmbAmount, in.ExchangeRate)
	cmbValue := CalcCMBValue(in.CMBRate, in.CMBAmount)
	finalValue := CalcFinalValue(lkrAmount, cmbValue, in.ExtraTax)

	return PricingBreakdown{
		RMBAmount:  rmbAmount,
		LKRAmount:  lkrAmount,
		CMBValue:   cmbValue,
		FinalValue: finalValue,
		UnitPrice:  CalcUnitPrice(finalValue, in.Qty),
	}
}
