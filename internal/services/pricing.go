package services

import "github.com/shopspring/decimal"

// DefaultTaxRate is the IVA applied when the caller supplies no tax amount.
var DefaultTaxRate = decimal.New(16, -2) // 0.16

// CalculateTax returns price * rate rounded half-up to 2 decimals.
func CalculateTax(price, rate decimal.Decimal) decimal.Decimal {
	return price.Mul(rate).Round(2)
}

// CalculateTotal returns price + tax rounded half-up to 2 decimals.
func CalculateTotal(price, tax decimal.Decimal) decimal.Decimal {
	return price.Add(tax).Round(2)
}
