package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type GatewaySession struct {
	TxnRef string `json:"txn_ref"`
	PayURL string `json:"pay_url"`
}

// CreateGatewaySession asks the backend to open a hosted payment page for
// the order. The backend talks to the gateway; the console only receives
// the redirect URL and the transaction reference to correlate the return.
func (c *Client) CreateGatewaySession(ctx context.Context, token string, orderID uuid.UUID, amount decimal.Decimal) (*GatewaySession, error) {
	body := struct {
		OrderID uuid.UUID       `json:"order_id"`
		Amount  decimal.Decimal `json:"amount"`
	}{OrderID: orderID, Amount: amount}

	var session GatewaySession
	if err := c.do(ctx, http.MethodPost, "/payments/gateway/session", token, body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// VerifyGatewayReturn submits the full set of redirect query parameters
// for signature verification and settlement. The backend validates the
// gateway's signature, so this call needs no bearer token. A nil return
// means the order is settled.
func (c *Client) VerifyGatewayReturn(ctx context.Context, params url.Values) error {
	return c.do(ctx, http.MethodGet, "/payments/gateway/verify?"+params.Encode(), "", nil, nil)
}
