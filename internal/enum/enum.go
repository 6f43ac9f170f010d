package enum

// ── State machines ──

const (
	OrderStatusNew       = "NEW"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
)

const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
)

// Terminal states of a gateway return, reported back to the browser.
const (
	ReturnStatusSuccess = "success"
	ReturnStatusFailed  = "failed"
	ReturnStatusPending = "pending"
)

// ── Roles ──

const (
	UserRoleOwner   = "OWNER"
	UserRoleManager = "MANAGER"
	UserRoleCashier = "CASHIER"
)

// ── Configurable labels ──

const (
	PaymentMethodCash     = "CASH"
	PaymentMethodQR       = "QR"
	PaymentMethodCard     = "CARD"
	PaymentMethodTransfer = "TRANSFER"
)

const (
	DiscountTypePercentage = "PERCENTAGE"
	DiscountTypeFixed      = "FIXED_AMOUNT"
)

// GatewayCodeSuccess is the response code the payment gateway appends to
// its return redirect when the customer completed the payment.
const GatewayCodeSuccess = "00"

// IsValidPaymentMethod reports whether m is a settlement method the
// console accepts at checkout.
func IsValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodQR, PaymentMethodCard, PaymentMethodTransfer:
		return true
	}
	return false
}
