package sequencerepo

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-bill/billcore/internal/domain"
	"github.com/go-bill/billcore/pkg/dbpkg"
)

func setupTX(t *testing.T) *sql.Tx {
	t.Helper()

	source := os.Getenv("TEST_DB_SOURCE")
	if source == "" {
		t.Skip("TEST_DB_SOURCE is not set")
	}

	return dbpkg.SetupTX(t, "postgres", source)
}

func TestCreate(t *testing.T) {
	repo := NewRepoPGS(setupTX(t))

	counter, err := repo.Create(context.Background(), domain.SequenceInvoice, "INV", 1)
	require.NoError(t, err)
	require.Equal(t, domain.SequenceInvoice, counter.Kind)
	require.Equal(t, "INV", counter.Prefix)
	require.Equal(t, int64(1), counter.NextNumber)

	_, err = repo.Create(context.Background(), domain.SequenceInvoice, "INV", 1)
	require.EqualError(t, err, domain.ErrCounterExists.Error())
}

func TestGet(t *testing.T) {
	repo := NewRepoPGS(setupTX(t))

	_, err := repo.Create(context.Background(), domain.SequenceOrder, "ORD", 7)
	require.NoError(t, err)

	counter, err := repo.Get(context.Background(), domain.SequenceOrder)
	require.NoError(t, err)
	require.Equal(t, int64(7), counter.NextNumber)

	_, err = repo.Get(context.Background(), domain.SequenceInvoice)
	require.EqualError(t, err, domain.ErrCounterNotFound.Error())
}

func TestNext(t *testing.T) {
	repo := NewRepoPGS(setupTX(t))

	_, err := repo.Create(context.Background(), domain.SequenceInvoice, "INV", 1)
	require.NoError(t, err)

	for want := int64(1); want <= 5; want++ {
		prefix, number, err := repo.Next(context.Background(), domain.SequenceInvoice)
		require.NoError(t, err)
		require.Equal(t, "INV", prefix)
		require.Equal(t, want, number)
	}

	counter, err := repo.Get(context.Background(), domain.SequenceInvoice)
	require.NoError(t, err)
	require.Equal(t, int64(6), counter.NextNumber)
}

func TestNextNotFound(t *testing.T) {
	repo := NewRepoPGS(setupTX(t))

	_, _, err := repo.Next(context.Background(), domain.SequenceOrder)
	require.EqualError(t, err, domain.ErrCounterNotFound.Error())
}
