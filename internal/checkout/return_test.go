package checkout

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/banmai-pos/console/internal/backend"
	"github.com/banmai-pos/console/internal/cart"
	"github.com/banmai-pos/console/internal/enum"
)

// qrCheckout runs a QR checkout and returns the service, store, terminal
// and the transaction reference the gateway session was opened under.
func qrCheckout(t *testing.T, api *mockBackendAPI, notifier *mockNotifier) (*Service, cart.Store, uuid.UUID, string) {
	t.Helper()
	store := cart.NewMemoryStore()
	terminalID := uuid.New()
	seedCart(t, store, terminalID)

	api.createOrderFn = func(context.Context, string, backend.CreateOrderRequest) (*backend.Order, error) {
		return okOrder(), nil
	}
	api.createGatewaySessionFn = func(context.Context, string, uuid.UUID, decimal.Decimal) (*backend.GatewaySession, error) {
		return &backend.GatewaySession{TxnRef: "TXN123", PayURL: "https://gateway.example/pay/TXN123"}, nil
	}

	svc := NewService(store, api, notifier, nil)
	if _, err := svc.Checkout(context.Background(), "tok", terminalID, uuid.New(), enum.PaymentMethodQR); err != nil {
		t.Fatalf("checkout: %v", err)
	}
	return svc, store, terminalID, "TXN123"
}

func returnParams(txnRef, code string) url.Values {
	params := url.Values{}
	params.Set(ParamTxnRef, txnRef)
	params.Set(ParamResponseCode, code)
	params.Set("vnp_SecureHash", "deadbeef")
	return params
}

func TestHandleReturnSuccess(t *testing.T) {
	api := &mockBackendAPI{}
	notifier := &mockNotifier{}
	verifyCalls := 0
	api.verifyGatewayReturnFn = func(_ context.Context, params url.Values) error {
		verifyCalls++
		if params.Get("vnp_SecureHash") != "deadbeef" {
			t.Error("verification must receive the full redirect parameters")
		}
		return nil
	}

	svc, store, terminalID, txnRef := qrCheckout(t, api, notifier)

	result := svc.HandleReturn(context.Background(), returnParams(txnRef, "00"))

	if result.Status != enum.ReturnStatusSuccess {
		t.Errorf("status: got %s, want success", result.Status)
	}
	if verifyCalls != 1 {
		t.Errorf("verify calls: got %d, want 1", verifyCalls)
	}

	st, _ := store.Get(context.Background(), terminalID)
	if !st.IsEmpty() {
		t.Error("cart must be cleared after a verified payment")
	}
	if len(notifier.sent) != 1 || notifier.sent[0].status != enum.ReturnStatusSuccess {
		t.Errorf("notifications: got %+v", notifier.sent)
	}
}

func TestHandleReturnDuplicateVerifiesOnce(t *testing.T) {
	api := &mockBackendAPI{}
	verifyCalls := 0
	api.verifyGatewayReturnFn = func(context.Context, url.Values) error {
		verifyCalls++
		return nil
	}

	svc, _, _, txnRef := qrCheckout(t, api, &mockNotifier{})

	first := svc.HandleReturn(context.Background(), returnParams(txnRef, "00"))
	second := svc.HandleReturn(context.Background(), returnParams(txnRef, "00"))

	if verifyCalls != 1 {
		t.Fatalf("verify calls: got %d, want exactly 1", verifyCalls)
	}
	if first.Status != enum.ReturnStatusSuccess || second.Status != enum.ReturnStatusSuccess {
		t.Errorf("statuses: got %s / %s, both should be success", first.Status, second.Status)
	}
	if second.Message != first.Message {
		t.Errorf("replay must report the recorded outcome, got %q vs %q", second.Message, first.Message)
	}
}

func TestHandleReturnConcurrentDuplicates(t *testing.T) {
	api := &mockBackendAPI{}
	var mu sync.Mutex
	verifyCalls := 0
	api.verifyGatewayReturnFn = func(context.Context, url.Values) error {
		mu.Lock()
		verifyCalls++
		mu.Unlock()
		return nil
	}

	svc, _, _, txnRef := qrCheckout(t, api, &mockNotifier{})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.HandleReturn(context.Background(), returnParams(txnRef, "00"))
		}()
	}
	wg.Wait()

	if verifyCalls != 1 {
		t.Errorf("verify calls: got %d, want exactly 1", verifyCalls)
	}
}

func TestHandleReturnNonSuccessCodeSkipsVerification(t *testing.T) {
	api := &mockBackendAPI{}
	api.verifyGatewayReturnFn = func(context.Context, url.Values) error {
		t.Fatal("a non-success code must not trigger verification")
		return nil
	}
	notifier := &mockNotifier{}

	svc, store, terminalID, txnRef := qrCheckout(t, api, notifier)

	// "07" is the gateway's customer-cancelled code
	result := svc.HandleReturn(context.Background(), returnParams(txnRef, "07"))

	if result.Status != enum.ReturnStatusFailed {
		t.Errorf("status: got %s, want failed", result.Status)
	}

	st, _ := store.Get(context.Background(), terminalID)
	if st.IsEmpty() {
		t.Error("cart must survive a failed payment so the cashier can retry")
	}
	if len(notifier.sent) != 1 || notifier.sent[0].status != enum.ReturnStatusFailed {
		t.Errorf("notifications: got %+v", notifier.sent)
	}
}

func TestHandleReturnVerificationRejectionKeepsCart(t *testing.T) {
	api := &mockBackendAPI{}
	api.verifyGatewayReturnFn = func(context.Context, url.Values) error {
		return errors.New("backend returned 400: signature mismatch")
	}

	svc, store, terminalID, txnRef := qrCheckout(t, api, &mockNotifier{})

	result := svc.HandleReturn(context.Background(), returnParams(txnRef, "00"))

	if result.Status != enum.ReturnStatusFailed {
		t.Errorf("status: got %s, want failed", result.Status)
	}
	if result.Message == "" {
		t.Error("failure message must carry the backend's reason")
	}

	st, _ := store.Get(context.Background(), terminalID)
	if st.IsEmpty() {
		t.Error("cart must not be cleared when verification is rejected")
	}
}

func TestHandleReturnVerificationRejectionIsRecorded(t *testing.T) {
	api := &mockBackendAPI{}
	verifyCalls := 0
	api.verifyGatewayReturnFn = func(context.Context, url.Values) error {
		verifyCalls++
		return errors.New("backend returned 400: signature mismatch")
	}

	svc, _, _, txnRef := qrCheckout(t, api, &mockNotifier{})

	svc.HandleReturn(context.Background(), returnParams(txnRef, "00"))
	second := svc.HandleReturn(context.Background(), returnParams(txnRef, "00"))

	if verifyCalls != 1 {
		t.Fatalf("verify calls: got %d, want 1 (failed outcomes are final too)", verifyCalls)
	}
	if second.Status != enum.ReturnStatusFailed {
		t.Errorf("replayed status: got %s, want failed", second.Status)
	}
}

func TestHandleReturnUnknownTransaction(t *testing.T) {
	api := &mockBackendAPI{}
	api.verifyGatewayReturnFn = func(context.Context, url.Values) error {
		t.Fatal("unknown transactions must not be verified")
		return nil
	}
	svc := NewService(cart.NewMemoryStore(), api, nil, nil)

	result := svc.HandleReturn(context.Background(), returnParams("NOPE", "00"))

	if result.Status != enum.ReturnStatusFailed {
		t.Errorf("status: got %s, want failed", result.Status)
	}
	if result.Message != "unknown gateway transaction" {
		t.Errorf("message: got %q", result.Message)
	}
}
