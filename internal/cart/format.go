package cart

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Badge is the tab badge label: empty for zero, capped at "9+".
func Badge(count int) string {
	switch {
	case count <= 0:
		return ""
	case count > 9:
		return "9+"
	default:
		return strconv.Itoa(count)
	}
}

// FormatMoney rounds to cents for display.
func FormatMoney(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
