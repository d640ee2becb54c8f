package ledgerservice

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/go-bill/billcore/internal/domain"
	"github.com/go-bill/billcore/pkg/moneypkg"
)

// RefundForInvoice restores the balance consumed by a cancelled or deleted
// invoice.
//
// Only the portion of the invoice settled from account balance is refunded;
// cash and other external instruments are never refunded through this path,
// and outstanding is never adjusted here even when the invoice still had
// unpaid outstanding. When nothing was settled from balance the call is a
// no-op that reports success.
func (s *Service) RefundForInvoice(ctx context.Context, invoice domain.Invoice, reason domain.RefundReason, actor string) (domain.PostingResult, error) {
	l := zerolog.Ctx(ctx)

	if actor == "" {
		return domain.PostingResult{}, domain.ErrUnauthenticated
	}

	if !reason.Valid() {
		l.Info().Str("reason", string(reason)).Msg("rejected invoice refund")
		return domain.PostingResult{}, domain.ErrUnknownRefundReason
	}

	balanceAmount, err := moneypkg.Parse(invoice.BalanceAmount)
	if err != nil {
		l.Info().Err(err).Str("balance_amount", invoice.BalanceAmount).Send()
		return domain.PostingResult{}, domain.ErrInvalidAmount
	}

	if balanceAmount.Sign() <= 0 {
		l.Info().Str("invoice_id", invoice.ID).Msg("invoice consumed no balance, nothing to refund")
		return domain.PostingResult{}, nil
	}

	total, err := moneypkg.Parse(invoice.TotalAmount)
	if err != nil {
		l.Info().Err(err).Str("total_amount", invoice.TotalAmount).Send()
		return domain.PostingResult{}, domain.ErrInvalidAmount
	}

	payment, err := moneypkg.Parse(invoice.PaymentAmount)
	if err != nil {
		l.Info().Err(err).Str("payment_amount", invoice.PaymentAmount).Send()
		return domain.PostingResult{}, domain.ErrInvalidAmount
	}

	// The outstanding figure here is informational audit context for
	// downstream reporting. It never feeds back into ledger state.
	outstandingAtCancellation := total.Sub(payment)

	return s.Apply(ctx, domain.CreatePostingParams{
		CustomerID:    invoice.CustomerID,
		Type:          domain.TypeRefund,
		Amount:        moneypkg.String(balanceAmount),
		InvoiceID:     invoice.ID,
		PaymentMethod: invoice.PaymentMethod,
		Description:   "refund for " + string(reason) + " invoice",
		Metadata: domain.Metadata{
			"reason":             string(reason),
			"invoice_id":         invoice.ID,
			"total_amount":       moneypkg.String(total),
			"payment_amount":     moneypkg.String(payment),
			"outstanding_amount": moneypkg.String(outstandingAtCancellation),
		},
		Actor: actor,
	})
}
