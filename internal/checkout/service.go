// Package checkout turns a terminal's cart into a settled or pending
// order. Manual methods settle immediately; the gateway method opens a
// hosted payment page and finishes later through the return redirect.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/banmai-pos/console/internal/backend"
	"github.com/banmai-pos/console/internal/cart"
	"github.com/banmai-pos/console/internal/enum"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

// BackendAPI is the slice of the backend client checkout needs.
type BackendAPI interface {
	CreateOrder(ctx context.Context, token string, req backend.CreateOrderRequest) (*backend.Order, error)
	SettleOrder(ctx context.Context, token string, orderID uuid.UUID, method string, amount decimal.Decimal) (*backend.Settlement, error)
	CreateGatewaySession(ctx context.Context, token string, orderID uuid.UUID, amount decimal.Decimal) (*backend.GatewaySession, error)
	VerifyGatewayReturn(ctx context.Context, params url.Values) error
}

// Notifier pushes payment results to the terminal's live connection.
type Notifier interface {
	PaymentResult(terminalID, orderID uuid.UUID, status string)
}

// TableCacheInvalidator drops cached table views once an order settles.
type TableCacheInvalidator interface {
	InvalidateTables(ctx context.Context)
}

type Service struct {
	carts    cart.Store
	api      BackendAPI
	attempts *Registry
	notifier Notifier
	caches   TableCacheInvalidator
}

func NewService(carts cart.Store, api BackendAPI, notifier Notifier, caches TableCacheInvalidator) *Service {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if caches == nil {
		caches = noopInvalidator{}
	}
	return &Service{
		carts:    carts,
		api:      api,
		attempts: NewRegistry(),
		notifier: notifier,
		caches:   caches,
	}
}

type Result struct {
	OrderID     uuid.UUID
	OrderNumber string
	Totals      Totals
	Settled     bool
	PayURL      string
}

// Checkout creates the order and settles it, or opens a gateway session
// for QR payments. Any failure leaves the cart untouched so the cashier
// can retry.
func (s *Service) Checkout(ctx context.Context, token string, terminalID, employeeID uuid.UUID, method string) (*Result, error) {
	if !enum.IsValidPaymentMethod(method) {
		return nil, ErrInvalidPaymentMethod
	}

	st, err := s.carts.Get(ctx, terminalID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if st.IsEmpty() {
		return nil, ErrEmptyCart
	}

	totals := ComputeTotals(&st)

	req := backend.CreateOrderRequest{EmployeeID: employeeID}
	if st.Table != nil {
		tableID := st.Table.ID
		req.TableID = &tableID
	}
	if totals.PromotionApplied {
		promotionID := st.Promotion.ID
		req.PromotionID = &promotionID
	}
	for _, l := range st.Lines {
		req.Lines = append(req.Lines, backend.OrderLine{
			MenuItemID: l.MenuItemID,
			Quantity:   l.Quantity,
			Note:       l.Note,
		})
	}

	order, err := s.api.CreateOrder(ctx, token, req)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	result := &Result{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Totals:      totals,
	}

	if method == enum.PaymentMethodQR {
		session, err := s.api.CreateGatewaySession(ctx, token, order.ID, totals.Total)
		if err != nil {
			// The unsettled order stays on the backend; the cashier can
			// retry checkout or void it from the console.
			return nil, fmt.Errorf("create gateway session: %w", err)
		}
		s.attempts.Add(Attempt{
			TxnRef:     session.TxnRef,
			TerminalID: terminalID,
			OrderID:    order.ID,
			Amount:     totals.Total,
		})
		result.PayURL = session.PayURL
		log.Printf("checkout: order %s awaiting gateway payment, txn %s", order.OrderNumber, session.TxnRef)
		return result, nil
	}

	if _, err := s.api.SettleOrder(ctx, token, order.ID, method, totals.Total); err != nil {
		return nil, fmt.Errorf("settle order: %w", err)
	}

	if err := s.carts.Clear(ctx, terminalID); err != nil {
		log.Printf("ERROR: clear cart for terminal %s: %v", terminalID, err)
	}
	s.caches.InvalidateTables(ctx)
	s.notifier.PaymentResult(terminalID, order.ID, enum.ReturnStatusSuccess)

	result.Settled = true
	log.Printf("checkout: order %s settled via %s", order.OrderNumber, method)
	return result, nil
}

// Cancel abandons the order in progress.
func (s *Service) Cancel(ctx context.Context, terminalID uuid.UUID) error {
	return s.carts.Clear(ctx, terminalID)
}

type noopNotifier struct{}

func (noopNotifier) PaymentResult(uuid.UUID, uuid.UUID, string) {}

type noopInvalidator struct{}

func (noopInvalidator) InvalidateTables(context.Context) {}
