package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderLine struct {
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Quantity   int32     `json:"quantity"`
	Note       string    `json:"note,omitempty"`
}

type CreateOrderRequest struct {
	EmployeeID  uuid.UUID  `json:"employee_id"`
	TableID     *uuid.UUID `json:"table_id,omitempty"`
	PromotionID *uuid.UUID `json:"promotion_id,omitempty"`
	Lines       []OrderLine `json:"lines"`
}

type Order struct {
	ID          uuid.UUID       `json:"id"`
	OrderNumber string          `json:"order_number"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type Settlement struct {
	OrderID uuid.UUID       `json:"order_id"`
	Method  string          `json:"method"`
	Amount  decimal.Decimal `json:"amount"`
	Status  string          `json:"status"`
}

// CreateOrder books the pending order. The backend reprices it from its
// own menu data; the console's totals are a preview, not the source of
// truth.
func (c *Client) CreateOrder(ctx context.Context, token string, req CreateOrderRequest) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodPost, "/orders", token, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// SettleOrder records an over-the-counter payment (cash, card, transfer)
// against an order and completes it.
func (c *Client) SettleOrder(ctx context.Context, token string, orderID uuid.UUID, method string, amount decimal.Decimal) (*Settlement, error) {
	body := struct {
		Method string          `json:"method"`
		Amount decimal.Decimal `json:"amount"`
	}{Method: method, Amount: amount}

	var settlement Settlement
	path := fmt.Sprintf("/orders/%s/settlement", orderID)
	if err := c.do(ctx, http.MethodPost, path, token, body, &settlement); err != nil {
		return nil, err
	}
	return &settlement, nil
}
