package domain

import (
	"errors"
	"time"
)

var (
	// ErrInvalidAmount indicates that the posted amount is not a finite real number.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrUnknownTransactionType indicates an unrecognized transaction type.
	ErrUnknownTransactionType = errors.New("unknown transaction type")
	// ErrUnauthenticated indicates that the posting carries no operator identity.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrTransactionNotFound indicates that the transaction is not found.
	ErrTransactionNotFound = errors.New("transaction not found")
)

// TransactionType enumerates the recognized posting kinds.
type TransactionType string

// The six recognized transaction types.
const (
	TypeInvoicePayment   TransactionType = "invoice_payment"
	TypeBalancePayment   TransactionType = "balance_payment"
	TypeRefund           TransactionType = "refund"
	TypeOpeningBalance   TransactionType = "opening_balance"
	TypeManualAdjustment TransactionType = "manual_adjustment"
	TypeInvoiceCreation  TransactionType = "invoice_creation"
)

// Valid reports whether t is one of the recognized transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TypeInvoicePayment, TypeBalancePayment, TypeRefund,
		TypeOpeningBalance, TypeManualAdjustment, TypeInvoiceCreation:
		return true
	}

	return false
}

// Metadata is an open key/value bag attached to a transaction for audit
// context. Its contents vary by transaction type and are never read back
// by the ledger engine.
type Metadata map[string]any

// Transaction is one immutable posting against an account, with the
// before/after snapshots taken when it was applied. Corrections are new
// transactions, never edits.
type Transaction struct {
	ID                int64           `json:"id"`
	CustomerID        string          `json:"customer_id"`
	InvoiceID         string          `json:"invoice_id,omitempty"`
	OrderID           string          `json:"order_id,omitempty"`
	Type              TransactionType `json:"transaction_type"`
	Amount            string          `json:"amount"`
	PaymentMethod     string          `json:"payment_method,omitempty"`
	Description       string          `json:"description,omitempty"`
	ReferenceNumber   string          `json:"reference_number,omitempty"`
	Metadata          Metadata        `json:"metadata,omitempty"`
	BalanceBefore     string          `json:"balance_before"`
	BalanceAfter      string          `json:"balance_after"`
	OutstandingBefore string          `json:"outstanding_before"`
	OutstandingAfter  string          `json:"outstanding_after"`
	Actor             string          `json:"actor"`
	CreatedAt         time.Time       `json:"created_at"`
}

// CreatePostingParams is the input data for one ledger posting.
type CreatePostingParams struct {
	CustomerID      string          `json:"customer_id"`
	Type            TransactionType `json:"transaction_type"`
	Amount          string          `json:"amount"`
	InvoiceID       string          `json:"invoice_id,omitempty"`
	OrderID         string          `json:"order_id,omitempty"`
	PaymentMethod   string          `json:"payment_method,omitempty"`
	Description     string          `json:"description,omitempty"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	Metadata        Metadata        `json:"metadata,omitempty"`
	Actor           string          `json:"actor"`
}

// AuditOutcome reports whether the best-effort audit append succeeded.
// A failed append never rolls back the account mutation; the gap is
// surfaced here instead.
type AuditOutcome struct {
	Recorded bool   `json:"recorded"`
	Reason   string `json:"reason,omitempty"`
}

// PostingResult is the outcome of one applied posting.
//
// Applied is false only for no-op paths that report success without
// touching the ledger, such as refunding an invoice that consumed no
// balance.
type PostingResult struct {
	Applied     bool         `json:"applied"`
	Account     Account      `json:"account"`
	Transaction Transaction  `json:"transaction"`
	Audit       AuditOutcome `json:"audit"`
}
