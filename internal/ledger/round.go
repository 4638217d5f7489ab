package ledger

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of decimals of every presented amount and percentage.
const MoneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// Round rounds a value to MoneyPlaces decimals. Use it at presentation boundaries only.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// percentOf returns part/whole*100, or zero when whole is zero.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}
