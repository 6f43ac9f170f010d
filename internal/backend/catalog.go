package backend

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/banmai-pos/console/internal/cart"
	"github.com/banmai-pos/console/internal/enum"
)

type MenuItem struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Available bool            `json:"available"`
}

type Table struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Capacity int32     `json:"capacity"`
	Occupied bool      `json:"occupied"`
}

// promotionDTO is the backend's row shape, which carries both discount
// columns. The console's model allows exactly one, so rows are normalized
// on the way in: a non-zero percentage wins and the fixed amount is
// ignored.
type promotionDTO struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	MinOrderAmount  decimal.Decimal `json:"min_order_amount"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	Active          bool            `json:"active"`
}

func (d promotionDTO) normalize() cart.Promotion {
	p := cart.Promotion{
		ID:          d.ID,
		Name:        d.Name,
		MinSubtotal: d.MinOrderAmount,
	}
	if d.DiscountPercent.IsPositive() {
		p.DiscountType = enum.DiscountTypePercentage
		p.DiscountValue = d.DiscountPercent
	} else {
		p.DiscountType = enum.DiscountTypeFixed
		p.DiscountValue = d.DiscountAmount
	}
	return p
}

func (c *Client) ListMenuItems(ctx context.Context, token string) ([]MenuItem, error) {
	var items []MenuItem
	if err := c.do(ctx, http.MethodGet, "/menu-items", token, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) ListTables(ctx context.Context, token string) ([]Table, error) {
	var tables []Table
	if err := c.do(ctx, http.MethodGet, "/tables", token, nil, &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

// ListPromotions returns active promotions only, normalized to the
// console's single-discount model.
func (c *Client) ListPromotions(ctx context.Context, token string) ([]cart.Promotion, error) {
	var dtos []promotionDTO
	if err := c.do(ctx, http.MethodGet, "/promotions?active=true", token, nil, &dtos); err != nil {
		return nil, err
	}
	promotions := make([]cart.Promotion, 0, len(dtos))
	for _, d := range dtos {
		if !d.Active {
			continue
		}
		promotions = append(promotions, d.normalize())
	}
	return promotions, nil
}
