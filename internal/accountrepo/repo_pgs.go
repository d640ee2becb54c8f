// Package accountrepo manages repository layer of customer ledger accounts.
package accountrepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/go-bill/billcore/internal/domain"
	"github.com/go-bill/billcore/pkg/dbpkg"
	"github.com/go-bill/billcore/pkg/errorspkg"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const createQuery = `
INSERT INTO
    accounts (customer_id, balance, outstanding)
VALUES
    ($1, $2, $3)
RETURNING customer_id, balance, outstanding, active, created_at, updated_at
`

// Create creates the account with its opening figures and then returns it.
// Accounts are provisioned alongside customer records by the hosting
// service; the ledger itself never creates them.
func (r *RepoPGS) Create(ctx context.Context, customerID, balance, outstanding string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, customerID, balance, outstanding)

	var a domain.Account

	err := row.Scan(
		&a.CustomerID,
		&a.Balance,
		&a.Outstanding,
		&a.Active,
		&a.CreatedAt,
		&a.UpdatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "accounts_pkey" {
				return a, domain.ErrAccountExists
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getQuery = `
SELECT
	customer_id, balance, outstanding, active, created_at, updated_at
FROM accounts
WHERE customer_id = $1
`

// Get returns the account of the given customer.
func (r *RepoPGS) Get(ctx context.Context, customerID string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, customerID)

	var a domain.Account

	err := row.Scan(
		&a.CustomerID,
		&a.Balance,
		&a.Outstanding,
		&a.Active,
		&a.CreatedAt,
		&a.UpdatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const setQuery = `
UPDATE accounts
SET balance = $1, outstanding = $2, updated_at = now()
WHERE customer_id = $3 AND balance = $4 AND outstanding = $5
RETURNING customer_id, balance, outstanding, active, created_at, updated_at
`

// Set replaces the stored figures, conditioned on the previously read ones.
// When a concurrent writer already replaced them the update matches no row
// and ErrStaleAccount is returned so the caller can re-read and retry.
func (r *RepoPGS) Set(ctx context.Context, arg domain.SetAccountParams) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, setQuery,
		arg.Balance,
		arg.Outstanding,
		arg.CustomerID,
		arg.PrevBalance,
		arg.PrevOutstanding,
	)

	var a domain.Account

	err := row.Scan(
		&a.CustomerID,
		&a.Balance,
		&a.Outstanding,
		&a.Active,
		&a.CreatedAt,
		&a.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			// No row matched: either the account is gone or the
			// condition lost against a concurrent writer.
			if _, getErr := r.Get(ctx, arg.CustomerID); getErr != nil {
				return a, getErr
			}

			l.Info().Str("customer_id", arg.CustomerID).Msg("conditional account update lost")

			return a, domain.ErrStaleAccount
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const deactivateQuery = `
UPDATE accounts
SET active = false, updated_at = now()
WHERE customer_id = $1
`

// Deactivate marks the account inactive alongside its customer.
// Accounts are never deleted.
func (r *RepoPGS) Deactivate(ctx context.Context, customerID string) error {
	l := zerolog.Ctx(ctx)

	res, err := r.db.ExecContext(ctx, deactivateQuery, customerID)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	n, err := res.RowsAffected()
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}
