package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/banmai-pos/console/internal/backend"
	"github.com/banmai-pos/console/internal/checkout"
	"github.com/banmai-pos/console/internal/enum"
	"github.com/banmai-pos/console/internal/middleware"
)

// CheckoutService is implemented by *checkout.Service.
type CheckoutService interface {
	Checkout(ctx context.Context, token string, terminalID, employeeID uuid.UUID, method string) (*checkout.Result, error)
	Cancel(ctx context.Context, terminalID uuid.UUID) error
	HandleReturn(ctx context.Context, params url.Values) *checkout.ReturnResult
}

// CheckoutHandler handles checkout and the gateway return endpoint.
type CheckoutHandler struct {
	svc CheckoutService
}

func NewCheckoutHandler(svc CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

// RegisterRoutes registers checkout endpoints on the given Chi router.
// Expected to be mounted at /terminals/{tid}/checkout
func (h *CheckoutHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Checkout)
	r.Post("/cancel", h.Cancel)
}

// --- Request / Response types ---

type checkoutRequest struct {
	PaymentMethod string `json:"payment_method"`
}

type checkoutResponse struct {
	OrderID          uuid.UUID `json:"order_id"`
	OrderNumber      string    `json:"order_number"`
	Subtotal         string    `json:"subtotal"`
	DiscountAmount   string    `json:"discount_amount"`
	TotalAmount      string    `json:"total_amount"`
	PromotionApplied bool      `json:"promotion_applied"`
	Settled          bool      `json:"settled"`
	PayURL           string    `json:"pay_url,omitempty"`
}

type returnResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	OrderID string `json:"order_id,omitempty"`
}

// --- Handlers ---

// Checkout handles POST /terminals/{tid}/checkout.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	terminalID, ok := terminalIDFromRequest(w, r)
	if !ok {
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.PaymentMethod == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "payment_method is required"})
		return
	}

	token := middleware.TokenFromContext(r.Context())
	result, err := h.svc.Checkout(r.Context(), token, terminalID, claims.EmployeeID, req.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrInvalidPaymentMethod):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payment_method"})
		case errors.Is(err, checkout.ErrEmptyCart):
			writeJSON(w, http.StatusConflict, map[string]string{"error": "cart is empty"})
		default:
			var apiErr *backend.APIError
			if errors.As(err, &apiErr) {
				writeJSON(w, apiErr.Status, map[string]string{"error": apiErr.Message})
				return
			}
			log.Printf("ERROR: checkout terminal %s: %v", terminalID, err)
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "backend unavailable"})
		}
		return
	}

	status := http.StatusCreated
	if !result.Settled {
		// The order exists but payment is pending at the gateway.
		status = http.StatusAccepted
	}
	writeJSON(w, status, checkoutResponse{
		OrderID:          result.OrderID,
		OrderNumber:      result.OrderNumber,
		Subtotal:         result.Totals.Subtotal.StringFixed(2),
		DiscountAmount:   result.Totals.Discount.StringFixed(2),
		TotalAmount:      result.Totals.Total.StringFixed(2),
		PromotionApplied: result.Totals.PromotionApplied,
		Settled:          result.Settled,
		PayURL:           result.PayURL,
	})
}

// Cancel handles POST /terminals/{tid}/checkout/cancel.
func (h *CheckoutHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	terminalID, ok := terminalIDFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.svc.Cancel(r.Context(), terminalID); err != nil {
		log.Printf("ERROR: cancel checkout: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// Return handles GET /payments/return, the landing URL the gateway
// redirects the customer's browser to. It is unauthenticated: the
// backend validates the gateway's signature over the query parameters.
func (h *CheckoutHandler) Return(w http.ResponseWriter, r *http.Request) {
	result := h.svc.HandleReturn(r.Context(), r.URL.Query())

	resp := returnResponse{Status: result.Status, Message: result.Message}
	if result.OrderID != uuid.Nil {
		resp.OrderID = result.OrderID.String()
	}

	status := http.StatusOK
	if result.Status == enum.ReturnStatusFailed {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, resp)
}
