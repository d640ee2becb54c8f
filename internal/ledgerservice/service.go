// Package ledgerservice manages business logic layer of ledger postings.
//
// The engine applies one transaction to a customer's balance/outstanding
// pair, owns the rounding rules, and serializes concurrent postings per
// customer so a read-modify-write can never lose an update.
package ledgerservice

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-bill/billcore/internal/domain"
	"github.com/go-bill/billcore/pkg/errorspkg"
	"github.com/go-bill/billcore/pkg/moneypkg"
)

// AccountStore provides data access layer interface needed by the ledger engine.
//
//go:generate mockgen -source service.go -destination service_mock.go -package ledgerservice
type AccountStore interface {
	Get(ctx context.Context, customerID string) (domain.Account, error)
	Set(ctx context.Context, arg domain.SetAccountParams) (domain.Account, error)
}

// TransactionLog provides the append-only audit record interface.
type TransactionLog interface {
	Append(ctx context.Context, arg domain.Transaction) (domain.Transaction, error)
	List(ctx context.Context, customerID string, limit int32) ([]domain.Transaction, error)
}

// setRetries bounds re-reads after a concurrent writer invalidated ours.
const setRetries = 3

// Service facilitates ledger engine logic.
type Service struct {
	accounts     AccountStore
	trail        TransactionLog
	applyTimeout time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New returns a ledger engine backed by the given account store and
// transaction log. A non-positive applyTimeout disables the per-posting
// deadline.
func New(accounts AccountStore, trail TransactionLog, applyTimeout time.Duration) *Service {
	return &Service{
		accounts:     accounts,
		trail:        trail,
		applyTimeout: applyTimeout,
		locks:        make(map[string]*sync.Mutex),
	}
}

// customerLock returns the mutex serializing postings for one customer.
func (s *Service) customerLock(customerID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.locks[customerID]
	if !ok {
		m = &sync.Mutex{}
		s.locks[customerID] = m
	}

	return m
}

// Apply validates the posting request, applies it to the customer's account
// and appends a transaction record to the audit trail.
//
// The account mutation is the source of truth: a failed audit append does
// not roll it back and does not fail the posting, it is reported in the
// result's Audit field instead.
func (s *Service) Apply(ctx context.Context, arg domain.CreatePostingParams) (domain.PostingResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.PostingResult

	if arg.Actor == "" {
		return result, domain.ErrUnauthenticated
	}

	amount, err := moneypkg.Parse(arg.Amount)
	if err != nil {
		l.Info().Err(err).Str("amount", arg.Amount).Send()
		return result, domain.ErrInvalidAmount
	}

	if !arg.Type.Valid() {
		l.Info().Str("transaction_type", string(arg.Type)).Msg("rejected posting")
		return result, domain.ErrUnknownTransactionType
	}

	lock := s.customerLock(arg.CustomerID)
	lock.Lock()
	defer lock.Unlock()

	if s.applyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.applyTimeout)
		defer cancel()
	}

	account, tx, err := s.post(ctx, arg, amount)
	if err != nil {
		return result, err
	}

	result.Applied = true
	result.Account = account
	result.Transaction = tx
	result.Audit = domain.AuditOutcome{Recorded: true}

	recorded, err := s.trail.Append(ctx, tx)
	if err != nil {
		// Deliberate policy: the number outranks the trail.
		l.Warn().Err(err).
			Str("customer_id", arg.CustomerID).
			Str("transaction_type", string(arg.Type)).
			Msg("audit append failed, account mutation kept")

		result.Audit = domain.AuditOutcome{Recorded: false, Reason: err.Error()}

		return result, nil
	}

	result.Transaction = recorded

	return result, nil
}

// post runs the read-compute-write cycle, retrying when a concurrent
// writer invalidated the read figures.
func (s *Service) post(ctx context.Context, arg domain.CreatePostingParams, amount decimal.Decimal) (domain.Account, domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	for attempt := 0; ; attempt++ {
		account, err := s.accounts.Get(ctx, arg.CustomerID)
		if err != nil {
			return domain.Account{}, domain.Transaction{}, err
		}

		balanceBefore, err := moneypkg.Parse(account.Balance)
		if err != nil {
			l.Error().Err(err).Str("balance", account.Balance).Send()
			return domain.Account{}, domain.Transaction{}, errorspkg.ErrInternal
		}

		outstandingBefore, err := moneypkg.Parse(account.Outstanding)
		if err != nil {
			l.Error().Err(err).Str("outstanding", account.Outstanding).Send()
			return domain.Account{}, domain.Transaction{}, errorspkg.ErrInternal
		}

		balanceAfter, outstandingAfter := transition(arg.Type, balanceBefore, outstandingBefore, amount)

		updated, err := s.accounts.Set(ctx, domain.SetAccountParams{
			CustomerID:      arg.CustomerID,
			Balance:         moneypkg.String(balanceAfter),
			Outstanding:     moneypkg.String(outstandingAfter),
			PrevBalance:     account.Balance,
			PrevOutstanding: account.Outstanding,
		})

		if errors.Is(err, domain.ErrStaleAccount) && attempt < setRetries {
			l.Info().Str("customer_id", arg.CustomerID).Int("attempt", attempt).Msg("stale account figures, retrying")
			continue
		}

		if err != nil {
			return domain.Account{}, domain.Transaction{}, err
		}

		tx := domain.Transaction{
			CustomerID:        arg.CustomerID,
			InvoiceID:         arg.InvoiceID,
			OrderID:           arg.OrderID,
			Type:              arg.Type,
			Amount:            moneypkg.String(amount),
			PaymentMethod:     arg.PaymentMethod,
			Description:       arg.Description,
			ReferenceNumber:   arg.ReferenceNumber,
			Metadata:          arg.Metadata,
			BalanceBefore:     moneypkg.String(balanceBefore),
			BalanceAfter:      moneypkg.String(balanceAfter),
			OutstandingBefore: moneypkg.String(outstandingBefore),
			OutstandingAfter:  moneypkg.String(outstandingAfter),
			Actor:             arg.Actor,
			CreatedAt:         time.Now().UTC(),
		}

		return updated, tx, nil
	}
}

// transition computes the after figures for one posting. Magnitude kinds
// use the absolute amount; opening_balance and manual_adjustment keep the
// sign. Outstanding and spent balance clamp at zero, a refund restores
// balance only.
func transition(t domain.TransactionType, balance, outstanding, amount decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	switch t {
	case domain.TypeInvoicePayment:
		outstanding = decimal.Max(decimal.Zero, outstanding.Sub(amount.Abs()))
	case domain.TypeBalancePayment:
		balance = decimal.Max(decimal.Zero, balance.Sub(amount.Abs()))
	case domain.TypeRefund:
		balance = balance.Add(amount.Abs())
	case domain.TypeOpeningBalance, domain.TypeManualAdjustment:
		balance = balance.Add(amount)
	case domain.TypeInvoiceCreation:
		outstanding = outstanding.Add(amount.Abs())
	}

	return moneypkg.RoundCents(balance), moneypkg.RoundCents(outstanding)
}

// History returns the customer's most recent transactions, newest first.
// It serves the external history view and is never consulted by Apply.
func (s *Service) History(ctx context.Context, customerID string, limit int32) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	return s.trail.List(ctx, customerID, limit)
}
