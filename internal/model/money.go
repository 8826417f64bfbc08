package model

import "github.com/shopspring/decimal"

// Money columns are decimal(12,2).
const MoneyScale = 2

// MaxMoney is the first value a decimal(12,2) column cannot hold.
var MaxMoney = decimal.New(1, 10)

// MoneyFits reports whether d can be stored in a money column without rounding.
func MoneyFits(d decimal.Decimal) bool {
	return d.Exponent() >= -MoneyScale || d.Equal(d.Round(MoneyScale))
}

// MoneyInRange reports whether d is below MaxMoney in magnitude.
func MoneyInRange(d decimal.Decimal) bool {
	return d.Abs().LessThan(MaxMoney)
}
