package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/banmai-pos/console/internal/backend"
	"github.com/banmai-pos/console/internal/enum"
	"github.com/banmai-pos/console/internal/handler"
	"github.com/banmai-pos/console/internal/middleware"
)

type mockReportsAPI struct {
	salesReportFn func(ctx context.Context, token, start, end string) ([]backend.SalesPoint, error)
}

func (m *mockReportsAPI) SalesReport(ctx context.Context, token, start, end string) ([]backend.SalesPoint, error) {
	return m.salesReportFn(ctx, token, start, end)
}

func newDashboardRouter(api handler.ReportsAPI) chi.Router {
	r := chi.NewRouter()
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(middleware.Authenticate(testSecret))
		r.Use(middleware.RequireRole(enum.UserRoleOwner, enum.UserRoleManager))
		handler.NewDashboardHandler(api).RegisterRoutes(r)
	})
	return r
}

func TestDashboardSalesSeries(t *testing.T) {
	api := &mockReportsAPI{
		salesReportFn: func(_ context.Context, _ string, start, end string) ([]backend.SalesPoint, error) {
			if start != "2026-08-01" || end != "2026-08-02" {
				t.Errorf("range: got %s..%s", start, end)
			}
			return []backend.SalesPoint{
				{Date: "2026-08-01", Revenue: decimal.NewFromInt(450000), OrderCount: 12},
				{Date: "2026-08-02", Revenue: decimal.NewFromInt(550000), OrderCount: 8},
			}, nil
		},
	}
	r := newDashboardRouter(api)

	rr := doJSON(t, r, "GET", "/dashboard/sales?start_date=2026-08-01&end_date=2026-08-02",
		managerToken(t), nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", rr.Code, rr.Body.String())
	}

	var body struct {
		Labels            []string `json:"labels"`
		Revenue           []string `json:"revenue"`
		Orders            []int64  `json:"orders"`
		TotalRevenue      string   `json:"total_revenue"`
		TotalOrders       int64    `json:"total_orders"`
		AverageOrderValue string   `json:"average_order_value"`
	}
	mustDecode(t, rr, &body)

	if len(body.Labels) != 2 || body.Labels[0] != "2026-08-01" {
		t.Errorf("labels: got %v", body.Labels)
	}
	if body.TotalRevenue != "1000000.00" {
		t.Errorf("total revenue: got %s", body.TotalRevenue)
	}
	if body.TotalOrders != 20 {
		t.Errorf("total orders: got %d", body.TotalOrders)
	}
	if body.AverageOrderValue != "50000.00" {
		t.Errorf("average order value: got %s", body.AverageOrderValue)
	}
}

func TestDashboardInvalidDate(t *testing.T) {
	r := newDashboardRouter(&mockReportsAPI{})

	rr := doJSON(t, r, "GET", "/dashboard/sales?start_date=yesterday", managerToken(t), nil)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
}

func TestDashboardForbiddenForCashier(t *testing.T) {
	r := newDashboardRouter(&mockReportsAPI{})

	rr := doJSON(t, r, "GET", "/dashboard/sales", cashierToken(t), nil)

	if rr.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", rr.Code)
	}
}
