package fixture

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of decimals kept for prices and totals.
const MoneyPlaces = 2

// RoundMoney rounds a sampled amount half away from zero to MoneyPlaces, starting from the
// shortest decimal representation of f (so 19.995 becomes 20.00).
func RoundMoney(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(MoneyPlaces)
}

// SumMoney adds amounts exactly and rounds the result to MoneyPlaces.
func SumMoney(amounts ...decimal.Decimal) decimal.Decimal {
	return decimal.Sum(decimal.Zero, amounts...).Round(MoneyPlaces)
}
