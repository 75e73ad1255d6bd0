package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Amounts are Vietnamese đồng expressed as non-negative integers. The đồng has
// no minor unit, so no scaling is applied anywhere in this package.

// Decimal returns the amount as an exact decimal value.
func Decimal(amount int) decimal.Decimal {
	return decimal.NewFromInt(int64(amount))
}

// FormatVND renders an amount the way the mobile app displays prices,
// e.g. 65000 -> "65.000 ₫".
func FormatVND(amount int) string {
	return group(Decimal(amount).String()) + " ₫"
}

func group(digits string) string {
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}
