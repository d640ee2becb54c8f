package sequenceservice

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/go-bill/billcore/internal/domain"
	"github.com/go-bill/billcore/pkg/errorspkg"
)

// memRepo is an in-memory counter store with the same atomic claim
// semantics as the Postgres repo.
type memRepo struct {
	mu       sync.Mutex
	counters map[domain.SequenceKind]*domain.SequenceCounter
	fail     error
}

func newMemRepo() *memRepo {
	return &memRepo{counters: map[domain.SequenceKind]*domain.SequenceCounter{
		domain.SequenceInvoice: {Kind: domain.SequenceInvoice, Prefix: "INV", NextNumber: 1},
		domain.SequenceOrder:   {Kind: domain.SequenceOrder, Prefix: "ORD", NextNumber: 1},
	}}
}

func (m *memRepo) Get(ctx context.Context, kind domain.SequenceKind) (domain.SequenceCounter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fail != nil {
		return domain.SequenceCounter{}, m.fail
	}

	c, ok := m.counters[kind]
	if !ok {
		return domain.SequenceCounter{}, domain.ErrCounterNotFound
	}

	return *c, nil
}

func (m *memRepo) Next(ctx context.Context, kind domain.SequenceKind) (string, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fail != nil {
		return "", 0, m.fail
	}

	c, ok := m.counters[kind]
	if !ok {
		return "", 0, domain.ErrCounterNotFound
	}

	n := c.NextNumber
	c.NextNumber++
	c.UpdatedAt = time.Now().UTC()

	return c.Prefix, n, nil
}

func TestNextIssuesDistinctIncreasingNumbers(t *testing.T) {
	repo := newMemRepo()
	service := New(repo, "INV", "ORD")

	seen := make(map[string]bool)
	last := int64(0)

	for i := 0; i < 100; i++ {
		got, err := service.Next(context.Background(), domain.SequenceInvoice)
		require.NoError(t, err)
		require.True(t, got.Authoritative)
		require.True(t, strings.HasPrefix(got.Value, "INV"))
		require.False(t, seen[got.Value], "duplicate number %s", got.Value)
		seen[got.Value] = true

		n, err := strconv.ParseInt(strings.TrimPrefix(got.Value, "INV"), 10, 64)
		require.NoError(t, err)
		require.Greater(t, n, last)
		last = n
	}

	require.True(t, seen["INV001"], "numbering should start at the seeded counter")
	require.True(t, seen["INV100"])
}

func TestNextZeroPadsToThreeDigits(t *testing.T) {
	require.Equal(t, "INV007", Format("INV", 7))
	require.Equal(t, "INV042", Format("INV", 42))
	require.Equal(t, "INV1007", Format("INV", 1007))
}

func TestNextUnknownKind(t *testing.T) {
	service := New(newMemRepo(), "INV", "ORD")

	_, err := service.Next(context.Background(), "receipt")
	require.EqualError(t, err, domain.ErrUnknownSequenceKind.Error())
}

func TestNextCounterNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepo(ctrl)
	repo.EXPECT().Next(gomock.Any(), gomock.Eq(domain.SequenceOrder)).
		Times(1).
		Return("", int64(0), domain.ErrCounterNotFound)

	service := New(repo, "INV", "ORD")

	_, err := service.Next(context.Background(), domain.SequenceOrder)
	require.EqualError(t, err, domain.ErrCounterNotFound.Error())
}

func TestNextDegradesWhenStoreUnreachable(t *testing.T) {
	repo := newMemRepo()
	service := New(repo, "INV", "ORD")

	// Establish a last-known number, then break persistence.
	got, err := service.Next(context.Background(), domain.SequenceInvoice)
	require.NoError(t, err)
	require.Equal(t, "INV001", got.Value)

	repo.fail = errorspkg.ErrInternal

	degraded, err := service.Next(context.Background(), domain.SequenceInvoice)
	require.NoError(t, err)
	require.False(t, degraded.Authoritative)
	require.True(t, strings.HasPrefix(degraded.Value, "INV002-"), "got %s", degraded.Value)

	// The counter itself was not advanced.
	repo.fail = nil
	counter, err := repo.Get(context.Background(), domain.SequenceInvoice)
	require.NoError(t, err)
	require.Equal(t, int64(2), counter.NextNumber)
}

func TestNextDegradedNumbersDoNotCollide(t *testing.T) {
	repo := newMemRepo()
	repo.fail = errorspkg.ErrInternal

	service := New(repo, "INV", "ORD")

	a, err := service.Next(context.Background(), domain.SequenceInvoice)
	require.NoError(t, err)

	b, err := service.Next(context.Background(), domain.SequenceInvoice)
	require.NoError(t, err)

	require.False(t, a.Authoritative)
	require.False(t, b.Authoritative)
	require.NotEqual(t, a.Value, b.Value)
}

func TestPeek(t *testing.T) {
	service := New(newMemRepo(), "INV", "ORD")

	counter, err := service.Peek(context.Background(), domain.SequenceOrder)
	require.NoError(t, err)
	require.Equal(t, "ORD", counter.Prefix)
	require.Equal(t, int64(1), counter.NextNumber)

	_, err = service.Peek(context.Background(), "receipt")
	require.EqualError(t, err, domain.ErrUnknownSequenceKind.Error())
}
