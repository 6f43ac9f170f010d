package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/banmai-pos/console/internal/backend"
	"github.com/banmai-pos/console/internal/middleware"
)

const dateLayout = "2006-01-02"

// ReportsAPI is the slice of the backend client the dashboard needs.
type ReportsAPI interface {
	SalesReport(ctx context.Context, token, start, end string) ([]backend.SalesPoint, error)
}

// DashboardHandler serves the chart series the manager dashboard renders.
type DashboardHandler struct {
	api ReportsAPI
}

func NewDashboardHandler(api ReportsAPI) *DashboardHandler {
	return &DashboardHandler{api: api}
}

// RegisterRoutes registers dashboard endpoints on the given Chi router.
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/sales", h.Sales)
}

type salesDashboardResponse struct {
	Labels            []string `json:"labels"`
	Revenue           []string `json:"revenue"`
	Orders            []int64  `json:"orders"`
	TotalRevenue      string   `json:"total_revenue"`
	TotalOrders       int64    `json:"total_orders"`
	AverageOrderValue string   `json:"average_order_value"`
}

// Sales handles GET /dashboard/sales. The range defaults to the last
// seven days when start_date/end_date are absent.
func (h *DashboardHandler) Sales(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	start := r.URL.Query().Get("start_date")
	end := r.URL.Query().Get("end_date")
	if start == "" {
		start = now.AddDate(0, 0, -6).Format(dateLayout)
	}
	if end == "" {
		end = now.Format(dateLayout)
	}
	if _, err := time.Parse(dateLayout, start); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid start_date"})
		return
	}
	if _, err := time.Parse(dateLayout, end); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid end_date"})
		return
	}

	token := middleware.TokenFromContext(r.Context())
	points, err := h.api.SalesReport(r.Context(), token, start, end)
	if err != nil {
		log.Printf("ERROR: sales report: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "backend unavailable"})
		return
	}

	resp := salesDashboardResponse{
		Labels:  make([]string, len(points)),
		Revenue: make([]string, len(points)),
		Orders:  make([]int64, len(points)),
	}
	totalRevenue := decimal.Zero
	var totalOrders int64
	for i, p := range points {
		resp.Labels[i] = p.Date
		resp.Revenue[i] = p.Revenue.StringFixed(2)
		resp.Orders[i] = p.OrderCount
		totalRevenue = totalRevenue.Add(p.Revenue)
		totalOrders += p.OrderCount
	}

	resp.TotalRevenue = totalRevenue.StringFixed(2)
	resp.TotalOrders = totalOrders
	if totalOrders > 0 {
		resp.AverageOrderValue = totalRevenue.Div(decimal.NewFromInt(totalOrders)).StringFixed(2)
	} else {
		resp.AverageOrderValue = "0.00"
	}

	writeJSON(w, http.StatusOK, resp)
}
