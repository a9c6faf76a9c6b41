package services

import "github.com/shopspring/decimal"

// lineTotal is price × qty in exact decimal arithmetic.
func lineTotal(price float64, qty int) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(qty)))
}

// amount rounds to cents for storage on an entity.
func amount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// discountPercent is the whole-number saving of price against the
// compare-at costPrice, or 0 when there is none.
func discountPercent(price, costPrice float64) float64 {
	if costPrice <= 0 || costPrice <= price {
		return 0
	}
	cost := decimal.NewFromFloat(costPrice)
	off := cost.Sub(decimal.NewFromFloat(price)).Div(cost).Mul(decimal.NewFromInt(100))
	return off.Round(0).InexactFloat64()
}
