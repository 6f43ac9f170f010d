package ws

import (
	"encoding/json"
	"log"

	"github.com/google/uuid"

	"github.com/banmai-pos/console/internal/enum"
)

// Event types pushed to terminals.
const (
	EventPaymentSettled = "payment.settled"
	EventPaymentFailed  = "payment.failed"
)

// PaymentNotifier adapts the hub to the checkout service's notifier
// interface, so cashier screens learn about gateway outcomes without
// polling.
type PaymentNotifier struct {
	Hub *Hub
}

func (n *PaymentNotifier) PaymentResult(terminalID, orderID uuid.UUID, status string) {
	eventType := EventPaymentFailed
	if status == enum.ReturnStatusSuccess {
		eventType = EventPaymentSettled
	}

	payload, err := json.Marshal(map[string]string{
		"order_id": orderID.String(),
		"status":   status,
	})
	if err != nil {
		log.Printf("ERROR: encode payment event: %v", err)
		return
	}

	n.Hub.BroadcastToTerminal(terminalID, Event{Type: eventType, Payload: payload})
}
