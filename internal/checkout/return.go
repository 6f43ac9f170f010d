package checkout

import (
	"context"
	"log"
	"net/url"

	"github.com/google/uuid"

	"github.com/banmai-pos/console/internal/enum"
)

// Query parameters the gateway appends to its return redirect.
const (
	ParamResponseCode = "vnp_ResponseCode"
	ParamTxnRef       = "vnp_TxnRef"
)

type ReturnResult struct {
	Status  string
	Message string
	OrderID uuid.UUID
}

// HandleReturn consumes a gateway return redirect. A success response
// code triggers exactly one verification call per transaction, no matter
// how many times the customer's browser replays the redirect; every other
// code resolves to failed locally without touching the backend.
func (s *Service) HandleReturn(ctx context.Context, params url.Values) *ReturnResult {
	txnRef := params.Get(ParamTxnRef)
	code := params.Get(ParamResponseCode)

	if code != enum.GatewayCodeSuccess {
		log.Printf("payment return: txn %s reported code %s", txnRef, code)
		if att, ok := s.attempts.Fail(txnRef, "payment was cancelled or declined"); ok {
			s.notifier.PaymentResult(att.TerminalID, att.OrderID, enum.ReturnStatusFailed)
			return &ReturnResult{
				Status:  enum.ReturnStatusFailed,
				Message: "payment was cancelled or declined",
				OrderID: att.OrderID,
			}
		}
		return &ReturnResult{
			Status:  enum.ReturnStatusFailed,
			Message: "payment was cancelled or declined",
		}
	}

	att, claimed, outcome := s.attempts.Claim(txnRef)
	if outcome != nil {
		// Replayed redirect after verification finished: report the
		// recorded result, never verify twice.
		return &ReturnResult{Status: outcome.Status, Message: outcome.Message, OrderID: att.OrderID}
	}
	if !claimed {
		if att.TxnRef == "" {
			log.Printf("payment return: unknown txn %s", txnRef)
			return &ReturnResult{
				Status:  enum.ReturnStatusFailed,
				Message: "unknown gateway transaction",
			}
		}
		// Another redirect is verifying this transaction right now.
		return &ReturnResult{
			Status:  enum.ReturnStatusPending,
			Message: "payment verification in progress",
			OrderID: att.OrderID,
		}
	}

	if err := s.api.VerifyGatewayReturn(ctx, params); err != nil {
		log.Printf("ERROR: verify txn %s: %v", txnRef, err)
		outcome := Outcome{Status: enum.ReturnStatusFailed, Message: err.Error()}
		s.attempts.Finish(txnRef, outcome)
		s.notifier.PaymentResult(att.TerminalID, att.OrderID, enum.ReturnStatusFailed)
		// The cart stays intact: the order is not paid.
		return &ReturnResult{Status: outcome.Status, Message: outcome.Message, OrderID: att.OrderID}
	}

	if err := s.carts.Clear(ctx, att.TerminalID); err != nil {
		log.Printf("ERROR: clear cart for terminal %s: %v", att.TerminalID, err)
	}
	s.caches.InvalidateTables(ctx)

	outcomeOK := Outcome{Status: enum.ReturnStatusSuccess, Message: "payment verified"}
	s.attempts.Finish(txnRef, outcomeOK)
	s.notifier.PaymentResult(att.TerminalID, att.OrderID, enum.ReturnStatusSuccess)

	log.Printf("payment return: txn %s verified, order %s settled", txnRef, att.OrderID)
	return &ReturnResult{Status: outcomeOK.Status, Message: outcomeOK.Message, OrderID: att.OrderID}
}
