// Package sequencerepo manages repository layer of document number counters.
package sequencerepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/go-bill/billcore/internal/domain"
	"github.com/go-bill/billcore/pkg/dbpkg"
	"github.com/go-bill/billcore/pkg/errorspkg"
)

// RepoPGS facilitates sequence counter repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns sequence counter RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const createQuery = `
INSERT INTO
    sequence_counters (kind, prefix, next_number)
VALUES
    ($1, $2, $3)
RETURNING kind, prefix, next_number, updated_at
`

// Create creates the counter and then returns it.
func (r *RepoPGS) Create(ctx context.Context, kind domain.SequenceKind, prefix string, start int64) (domain.SequenceCounter, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, kind, prefix, start)

	var c domain.SequenceCounter

	err := row.Scan(&c.Kind, &c.Prefix, &c.NextNumber, &c.UpdatedAt)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "sequence_counters_pkey" {
				return c, domain.ErrCounterExists
			}
		}

		return c, errorspkg.ErrInternal
	}

	return c, nil
}

const getQuery = `
SELECT kind, prefix, next_number, updated_at
FROM sequence_counters
WHERE kind = $1
`

// Get returns the counter of the given kind without advancing it.
func (r *RepoPGS) Get(ctx context.Context, kind domain.SequenceKind) (domain.SequenceCounter, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, kind)

	var c domain.SequenceCounter

	err := row.Scan(&c.Kind, &c.Prefix, &c.NextNumber, &c.UpdatedAt)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return c, domain.ErrCounterNotFound
		}

		return c, errorspkg.ErrInternal
	}

	return c, nil
}

const nextQuery = `
UPDATE sequence_counters
SET next_number = next_number + 1, updated_at = now()
WHERE kind = $1
RETURNING prefix, next_number - 1
`

// Next atomically claims the counter's current number and advances it.
// The claim and the increment are a single UPDATE, so two concurrent calls
// can never be handed the same number.
func (r *RepoPGS) Next(ctx context.Context, kind domain.SequenceKind) (string, int64, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, nextQuery, kind)

	var (
		prefix string
		number int64
	)

	err := row.Scan(&prefix, &number)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return "", 0, domain.ErrCounterNotFound
		}

		return "", 0, errorspkg.ErrInternal
	}

	return prefix, number, nil
}
