package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/banmai-pos/console/internal/cart"
	"github.com/banmai-pos/console/internal/enum"
)

var oneHundred = decimal.NewFromInt(100)

type Totals struct {
	Subtotal         decimal.Decimal
	Discount         decimal.Decimal
	Total            decimal.Decimal
	PromotionApplied bool
}

// ComputeTotals prices the cart. The selected promotion only applies when
// the subtotal meets its threshold; below it the cart prices as if no
// promotion were selected. The discount never pushes the total negative.
func ComputeTotals(st *cart.State) Totals {
	t := Totals{Subtotal: st.Subtotal()}
	t.Discount = decimal.Zero
	t.Total = t.Subtotal

	p := st.Promotion
	if p == nil || t.Subtotal.LessThan(p.MinSubtotal) {
		return t
	}

	switch p.DiscountType {
	case enum.DiscountTypePercentage:
		t.Discount = t.Subtotal.Mul(p.DiscountValue).Div(oneHundred)
	case enum.DiscountTypeFixed:
		t.Discount = p.DiscountValue
	default:
		return t
	}

	if t.Discount.GreaterThan(t.Subtotal) {
		t.Discount = t.Subtotal
	}
	t.PromotionApplied = true
	t.Total = t.Subtotal.Sub(t.Discount)
	return t
}
