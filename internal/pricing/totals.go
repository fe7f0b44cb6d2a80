package pricing

import (
	"github.com/shopspring/decimal"

	"tably/internal/model"
)

// DefaultTaxRate is applied when no rate is configured.
const DefaultTaxRate = 0.15

// Totals holds the derived money fields of an order.
type Totals struct {
	Subtotal float64
	Tax      float64
	Total    float64
}

// Compute derives subtotal, tax and total from a full set of line items.
// It is always a full recomputation, never incremental: callers pass every
// line item after each add/remove/quantity change.
//
// Amounts are rounded to 2 decimal places, half away from zero. Decimal
// arithmetic avoids the float64 cases where e.g. 2.675 rounds down.
func Compute(items []model.OrderItem, rate float64) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
	}
	subtotal = subtotal.Round(2)

	tax := subtotal.Mul(decimal.NewFromFloat(rate)).Round(2)
	total := subtotal.Add(tax).Round(2)

	return Totals{
		Subtotal: toFloat(subtotal),
		Tax:      toFloat(tax),
		Total:    toFloat(total),
	}
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
