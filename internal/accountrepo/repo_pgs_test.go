package accountrepo

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-bill/billcore/internal/domain"
	"github.com/go-bill/billcore/pkg/dbpkg"
	"github.com/go-bill/billcore/pkg/randompkg"
)

func setupTX(t *testing.T) *sql.Tx {
	t.Helper()

	source := os.Getenv("TEST_DB_SOURCE")
	if source == "" {
		t.Skip("TEST_DB_SOURCE is not set")
	}

	return dbpkg.SetupTX(t, "postgres", source)
}

func createRandomAccount(t *testing.T, repo *RepoPGS) domain.Account {
	t.Helper()

	customerID := randompkg.CustomerID()
	balance := randompkg.MoneyAmountBetween(0, 1_000)
	outstanding := randompkg.MoneyAmountBetween(0, 1_000)

	account, err := repo.Create(context.Background(), customerID, balance, outstanding)
	require.NoError(t, err)
	require.NotEmpty(t, account)

	require.Equal(t, customerID, account.CustomerID)
	require.Equal(t, balance, account.Balance)
	require.Equal(t, outstanding, account.Outstanding)
	require.True(t, account.Active)
	require.NotZero(t, account.CreatedAt)

	return account
}

func TestCreate(t *testing.T) {
	repo := NewRepoPGS(setupTX(t))

	account := createRandomAccount(t, repo)

	_, err := repo.Create(context.Background(), account.CustomerID, "0.00", "0.00")
	require.EqualError(t, err, domain.ErrAccountExists.Error())
}

func TestGet(t *testing.T) {
	repo := NewRepoPGS(setupTX(t))

	want := createRandomAccount(t, repo)

	got, err := repo.Get(context.Background(), want.CustomerID)
	require.NoError(t, err)
	require.Equal(t, want, got)

	_, err = repo.Get(context.Background(), randompkg.CustomerID())
	require.EqualError(t, err, domain.ErrAccountNotFound.Error())
}

func TestSet(t *testing.T) {
	repo := NewRepoPGS(setupTX(t))

	account := createRandomAccount(t, repo)

	updated, err := repo.Set(context.Background(), domain.SetAccountParams{
		CustomerID:      account.CustomerID,
		Balance:         "250.00",
		Outstanding:     "75.50",
		PrevBalance:     account.Balance,
		PrevOutstanding: account.Outstanding,
	})
	require.NoError(t, err)
	require.Equal(t, "250.00", updated.Balance)
	require.Equal(t, "75.50", updated.Outstanding)
	require.True(t, updated.UpdatedAt.After(account.UpdatedAt) || updated.UpdatedAt.Equal(account.UpdatedAt))
}

func TestSetStale(t *testing.T) {
	repo := NewRepoPGS(setupTX(t))

	account := createRandomAccount(t, repo)

	// Same figures the account was created with, so this writer wins.
	_, err := repo.Set(context.Background(), domain.SetAccountParams{
		CustomerID:      account.CustomerID,
		Balance:         "10.00",
		Outstanding:     "0.00",
		PrevBalance:     account.Balance,
		PrevOutstanding: account.Outstanding,
	})
	require.NoError(t, err)

	// A second writer that read the original figures loses.
	_, err = repo.Set(context.Background(), domain.SetAccountParams{
		CustomerID:      account.CustomerID,
		Balance:         "20.00",
		Outstanding:     "0.00",
		PrevBalance:     account.Balance,
		PrevOutstanding: account.Outstanding,
	})
	require.EqualError(t, err, domain.ErrStaleAccount.Error())
}

func TestSetNotFound(t *testing.T) {
	repo := NewRepoPGS(setupTX(t))

	_, err := repo.Set(context.Background(), domain.SetAccountParams{
		CustomerID:      randompkg.CustomerID(),
		Balance:         "1.00",
		Outstanding:     "0.00",
		PrevBalance:     "0.00",
		PrevOutstanding: "0.00",
	})
	require.EqualError(t, err, domain.ErrAccountNotFound.Error())
}

func TestDeactivate(t *testing.T) {
	repo := NewRepoPGS(setupTX(t))

	account := createRandomAccount(t, repo)

	require.NoError(t, repo.Deactivate(context.Background(), account.CustomerID))

	got, err := repo.Get(context.Background(), account.CustomerID)
	require.NoError(t, err)
	require.False(t, got.Active)

	err = repo.Deactivate(context.Background(), randompkg.CustomerID())
	require.EqualError(t, err, domain.ErrAccountNotFound.Error())
}
