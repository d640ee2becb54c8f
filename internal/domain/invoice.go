package domain

import "errors"

// ErrUnknownRefundReason indicates an unrecognized invoice refund reason.
var ErrUnknownRefundReason = errors.New("unknown refund reason")

// RefundReason enumerates why an invoice refund was issued.
type RefundReason string

// Recognized refund reasons.
const (
	ReasonCancelled RefundReason = "cancelled"
	ReasonDeleted   RefundReason = "deleted"
)

// Valid reports whether r is a recognized refund reason.
func (r RefundReason) Valid() bool {
	return r == ReasonCancelled || r == ReasonDeleted
}

// Invoice carries the payment breakdown of an invoice being cancelled or
// deleted. Invoice lifecycle itself is owned by the hosting service; the
// ledger only cares how much of the total was settled from account balance.
type Invoice struct {
	ID            string `json:"id"`
	CustomerID    string `json:"customer_id"`
	TotalAmount   string `json:"total_amount"`
	PaymentAmount string `json:"payment_amount"` // settled by cash or other external instruments
	BalanceAmount string `json:"balance_amount"` // settled from prepaid account balance
	PaymentMethod string `json:"payment_method,omitempty"`
}
