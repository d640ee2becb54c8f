package ledgerservice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/go-bill/billcore/internal/domain"
	"github.com/go-bill/billcore/pkg/randompkg"
)

func TestRefundForInvoice(t *testing.T) {
	customerID := randompkg.CustomerID()
	actor := randompkg.Actor()

	invoice := domain.Invoice{
		ID:            "INV042",
		CustomerID:    customerID,
		TotalAmount:   "1000",
		PaymentAmount: "400",
		BalanceAmount: "250",
		PaymentMethod: "cash",
	}

	t.Run("RefundsBalancePortionOnly", func(t *testing.T) {
		accounts := newMemAccountStore()
		accounts.seed(customerID, "0.00", "600.00")
		trail := &memTransactionLog{}

		service := New(accounts, trail, time.Second)

		res, err := service.RefundForInvoice(context.Background(), invoice, domain.ReasonCancelled, actor)
		require.NoError(t, err)
		require.True(t, res.Applied)
		require.True(t, res.Audit.Recorded)

		// Balance restored by the balance-paid portion, outstanding untouched.
		require.Equal(t, "250.00", res.Account.Balance)
		require.Equal(t, "600.00", res.Account.Outstanding)

		require.Equal(t, domain.TypeRefund, res.Transaction.Type)
		require.Equal(t, "250.00", res.Transaction.Amount)
		require.Equal(t, invoice.ID, res.Transaction.InvoiceID)

		meta := res.Transaction.Metadata
		require.Equal(t, "cancelled", meta["reason"])
		require.Equal(t, invoice.ID, meta["invoice_id"])
		require.Equal(t, "1000.00", meta["total_amount"])
		require.Equal(t, "400.00", meta["payment_amount"])
		require.Equal(t, "600.00", meta["outstanding_amount"])
	})

	t.Run("NoBalanceConsumedIsNoOp", func(t *testing.T) {
		accounts := newMemAccountStore()
		accounts.seed(customerID, "75.00", "10.00")
		trail := &memTransactionLog{}

		service := New(accounts, trail, time.Second)

		zeroBalance := invoice
		zeroBalance.BalanceAmount = "0"

		res, err := service.RefundForInvoice(context.Background(), zeroBalance, domain.ReasonDeleted, actor)
		require.NoError(t, err)
		require.False(t, res.Applied)

		account, err := accounts.Get(context.Background(), customerID)
		require.NoError(t, err)
		require.Equal(t, "75.00", account.Balance)
		require.Equal(t, "10.00", account.Outstanding)
		require.Empty(t, trail.items)
	})

	t.Run("NegativeBalancePortionIsNoOp", func(t *testing.T) {
		accounts := newMemAccountStore()
		accounts.seed(customerID, "75.00", "10.00")

		service := New(accounts, &memTransactionLog{}, time.Second)

		negative := invoice
		negative.BalanceAmount = "-5"

		res, err := service.RefundForInvoice(context.Background(), negative, domain.ReasonDeleted, actor)
		require.NoError(t, err)
		require.False(t, res.Applied)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		service := New(newMemAccountStore(), &memTransactionLog{}, time.Second)

		_, err := service.RefundForInvoice(context.Background(), invoice, domain.ReasonCancelled, "")
		require.EqualError(t, err, domain.ErrUnauthenticated.Error())
	})

	t.Run("UnknownReason", func(t *testing.T) {
		service := New(newMemAccountStore(), &memTransactionLog{}, time.Second)

		_, err := service.RefundForInvoice(context.Background(), invoice, "misplaced", actor)
		require.EqualError(t, err, domain.ErrUnknownRefundReason.Error())
	})

	t.Run("InvalidBalanceAmount", func(t *testing.T) {
		service := New(newMemAccountStore(), &memTransactionLog{}, time.Second)

		broken := invoice
		broken.BalanceAmount = "NaN"

		_, err := service.RefundForInvoice(context.Background(), broken, domain.ReasonCancelled, actor)
		require.EqualError(t, err, domain.ErrInvalidAmount.Error())
	})
}
