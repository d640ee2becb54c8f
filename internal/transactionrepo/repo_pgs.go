// Package transactionrepo manages repository layer of the transaction log.
//
// The log is append-only: rows are inserted once and never updated or
// deleted. Corrections arrive as new transactions.
package transactionrepo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/go-bill/billcore/internal/domain"
	"github.com/go-bill/billcore/pkg/dbpkg"
	"github.com/go-bill/billcore/pkg/errorspkg"
)

// RepoPGS facilitates transaction log repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns transaction log RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const appendQuery = `
INSERT INTO
    transactions (customer_id, invoice_id, order_id, transaction_type, amount,
                  payment_method, description, reference_number, metadata,
                  balance_before, balance_after, outstanding_before, outstanding_after,
                  actor, created_at)
VALUES
    ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
RETURNING id
`

// Append records the transaction and returns it with its assigned id.
func (r *RepoPGS) Append(ctx context.Context, arg domain.Transaction) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	metadata, err := json.Marshal(arg.Metadata)
	if err != nil {
		l.Error().Err(err).Send()
		return arg, errorspkg.ErrInternal
	}

	row := r.db.QueryRowContext(ctx, appendQuery,
		arg.CustomerID,
		arg.InvoiceID,
		arg.OrderID,
		arg.Type,
		arg.Amount,
		arg.PaymentMethod,
		arg.Description,
		arg.ReferenceNumber,
		metadata,
		arg.BalanceBefore,
		arg.BalanceAfter,
		arg.OutstandingBefore,
		arg.OutstandingAfter,
		arg.Actor,
		arg.CreatedAt,
	)

	if err := row.Scan(&arg.ID); err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "transactions_customer_id_fkey" {
				return arg, domain.ErrAccountNotFound
			}
		}

		return arg, errorspkg.ErrInternal
	}

	return arg, nil
}

const listQuery = `
SELECT
	id, customer_id, invoice_id, order_id, transaction_type, amount,
	payment_method, description, reference_number, metadata,
	balance_before, balance_after, outstanding_before, outstanding_after,
	actor, created_at
FROM transactions
WHERE customer_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2
`

// List returns the customer's most recent transactions, newest first.
func (r *RepoPGS) List(ctx context.Context, customerID string, limit int32) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery, customerID, limit)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		var (
			tx       domain.Transaction
			metadata []byte
		)

		if err := rows.Scan(
			&tx.ID,
			&tx.CustomerID,
			&tx.InvoiceID,
			&tx.OrderID,
			&tx.Type,
			&tx.Amount,
			&tx.PaymentMethod,
			&tx.Description,
			&tx.ReferenceNumber,
			&metadata,
			&tx.BalanceBefore,
			&tx.BalanceAfter,
			&tx.OutstandingBefore,
			&tx.OutstandingAfter,
			&tx.Actor,
			&tx.CreatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &tx.Metadata); err != nil {
				l.Error().Err(err).Send()
				return nil, errorspkg.ErrInternal
			}
		}

		items = append(items, tx)
	}

	if err := rows.Close(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const getQuery = `
SELECT
	id, customer_id, invoice_id, order_id, transaction_type, amount,
	payment_method, description, reference_number, metadata,
	balance_before, balance_after, outstanding_before, outstanding_after,
	actor, created_at
FROM transactions
WHERE id = $1
`

// Get returns the transaction with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	var (
		tx       domain.Transaction
		metadata []byte
	)

	err := row.Scan(
		&tx.ID,
		&tx.CustomerID,
		&tx.InvoiceID,
		&tx.OrderID,
		&tx.Type,
		&tx.Amount,
		&tx.PaymentMethod,
		&tx.Description,
		&tx.ReferenceNumber,
		&metadata,
		&tx.BalanceBefore,
		&tx.BalanceAfter,
		&tx.OutstandingBefore,
		&tx.OutstandingAfter,
		&tx.Actor,
		&tx.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return tx, domain.ErrTransactionNotFound
		}

		return tx, errorspkg.ErrInternal
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &tx.Metadata); err != nil {
			l.Error().Err(err).Send()
			return tx, errorspkg.ErrInternal
		}
	}

	return tx, nil
}
