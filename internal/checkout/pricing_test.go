package checkout_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/banmai-pos/console/internal/cart"
	"github.com/banmai-pos/console/internal/checkout"
	"github.com/banmai-pos/console/internal/enum"
)

func cartWith(prices ...int64) cart.State {
	var st cart.State
	for _, p := range prices {
		st.AddItem(cart.MenuItemRef{ID: uuid.New(), Name: "item", UnitPrice: decimal.NewFromInt(p)})
	}
	return st
}

func percentPromotion(minSubtotal, percent int64) *cart.Promotion {
	return &cart.Promotion{
		ID:            uuid.New(),
		Name:          "Happy Hour",
		MinSubtotal:   decimal.NewFromInt(minSubtotal),
		DiscountType:  enum.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(percent),
	}
}

func TestComputeTotalsNoPromotion(t *testing.T) {
	st := cartWith(20000, 20000, 15000)

	totals := checkout.ComputeTotals(&st)

	if !totals.Subtotal.Equal(decimal.NewFromInt(55000)) {
		t.Errorf("subtotal: got %s, want 55000", totals.Subtotal)
	}
	if !totals.Discount.IsZero() {
		t.Errorf("discount: got %s, want 0", totals.Discount)
	}
	if !totals.Total.Equal(decimal.NewFromInt(55000)) {
		t.Errorf("total: got %s, want 55000", totals.Total)
	}
	if totals.PromotionApplied {
		t.Error("promotion applied without a promotion")
	}
}

func TestComputeTotalsPercentageAboveThreshold(t *testing.T) {
	st := cartWith(20000, 20000, 15000) // 55000
	st.SetPromotion(percentPromotion(50000, 10))

	totals := checkout.ComputeTotals(&st)

	if !totals.Discount.Equal(decimal.NewFromInt(5500)) {
		t.Errorf("discount: got %s, want 5500", totals.Discount)
	}
	if !totals.Total.Equal(decimal.NewFromInt(49500)) {
		t.Errorf("total: got %s, want 49500", totals.Total)
	}
	if !totals.PromotionApplied {
		t.Error("promotion should apply at or above the threshold")
	}
}

func TestComputeTotalsBelowThreshold(t *testing.T) {
	st := cartWith(20000, 15000) // 35000
	st.SetPromotion(percentPromotion(50000, 10))

	totals := checkout.ComputeTotals(&st)

	if totals.PromotionApplied {
		t.Error("promotion must not apply below the threshold")
	}
	if !totals.Total.Equal(decimal.NewFromInt(35000)) {
		t.Errorf("total: got %s, want 35000", totals.Total)
	}
}

func TestComputeTotalsExactlyAtThreshold(t *testing.T) {
	st := cartWith(25000, 25000) // 50000
	st.SetPromotion(percentPromotion(50000, 10))

	totals := checkout.ComputeTotals(&st)

	if !totals.PromotionApplied {
		t.Error("promotion should apply when subtotal equals the threshold")
	}
	if !totals.Total.Equal(decimal.NewFromInt(45000)) {
		t.Errorf("total: got %s, want 45000", totals.Total)
	}
}

func TestComputeTotalsFixedAmount(t *testing.T) {
	st := cartWith(30000, 30000) // 60000
	st.SetPromotion(&cart.Promotion{
		ID:            uuid.New(),
		Name:          "Flat Off",
		MinSubtotal:   decimal.NewFromInt(50000),
		DiscountType:  enum.DiscountTypeFixed,
		DiscountValue: decimal.NewFromInt(20000),
	})

	totals := checkout.ComputeTotals(&st)

	if !totals.Discount.Equal(decimal.NewFromInt(20000)) {
		t.Errorf("discount: got %s, want 20000", totals.Discount)
	}
	if !totals.Total.Equal(decimal.NewFromInt(40000)) {
		t.Errorf("total: got %s, want 40000", totals.Total)
	}
}

func TestComputeTotalsFixedAmountClampedToSubtotal(t *testing.T) {
	st := cartWith(10000) // 10000
	st.SetPromotion(&cart.Promotion{
		ID:            uuid.New(),
		Name:          "Big Off",
		MinSubtotal:   decimal.NewFromInt(5000),
		DiscountType:  enum.DiscountTypeFixed,
		DiscountValue: decimal.NewFromInt(25000),
	})

	totals := checkout.ComputeTotals(&st)

	if totals.Total.IsNegative() {
		t.Fatalf("total went negative: %s", totals.Total)
	}
	if !totals.Total.IsZero() {
		t.Errorf("total: got %s, want 0", totals.Total)
	}
}
