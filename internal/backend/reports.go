package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
)

type SalesPoint struct {
	Date       string          `json:"date"`
	Revenue    decimal.Decimal `json:"revenue"`
	OrderCount int64           `json:"order_count"`
}

// SalesReport returns one point per day in [start, end], dates formatted
// YYYY-MM-DD.
func (c *Client) SalesReport(ctx context.Context, token, start, end string) ([]SalesPoint, error) {
	q := url.Values{}
	q.Set("start_date", start)
	q.Set("end_date", end)

	var points []SalesPoint
	if err := c.do(ctx, http.MethodGet, "/reports/sales?"+q.Encode(), token, nil, &points); err != nil {
		return nil, err
	}
	return points, nil
}
