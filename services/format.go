package services

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// FormatLKR formats an amount as rupees with thousands separators and
// exactly 2 decimals, e.g. Rs 1,234.50 or -Rs 20.00.
func FormatLKR(amount float64) string {
	return formatMoney("Rs ", amount)
}

// FormatRMB formats an amount in yuan, e.g. ¥1,250.00.
func FormatRMB(amount float64) string {
	return formatMoney("¥", amount)
}

func formatMoney(symbol string, amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + symbol + humanize.FormatFloat("#,###.##", amount)
}

// FormatCompactLKR shortens amounts of a million or more, e.g. Rs 1.23M.
// Smaller amounts use FormatLKR.
func FormatCompactLKR(amount float64) string {
	abs := math.Abs(amount)
	if abs < 1_000_000 {
		return FormatLKR(amount)
	}
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	return fmt.Sprintf("%sRs %.2fM", sign, abs/1_000_000)
}

// FormatRate renders an exchange rate with 4 decimals.
func FormatRate(r float64) string {
	return fmt.Sprintf("%.4f", r)
}

// formatQty prints whole quantities without decimals.
func formatQty(qty float64) string {
	if qty == math.Trunc(qty) {
		return fmt.Sprintf("%.0f", qty)
	}
	return fmt.Sprintf("%.2f", qty)
}
