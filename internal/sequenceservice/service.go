// Package sequenceservice manages business logic layer of document numbering.
package sequenceservice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-bill/billcore/internal/domain"
)

// Repo provides data access layer interface needed by the sequence issuer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package sequenceservice
type Repo interface {
	Get(ctx context.Context, kind domain.SequenceKind) (domain.SequenceCounter, error)
	Next(ctx context.Context, kind domain.SequenceKind) (prefix string, number int64, err error)
}

// Service issues invoice and order numbers from per-kind counters.
type Service struct {
	repo     Repo
	prefixes map[domain.SequenceKind]string

	mu       sync.Mutex
	lastSeen map[domain.SequenceKind]int64
}

// New returns a sequence issuer. The prefixes are only used on the
// degraded path, when the counter store cannot even be read.
func New(repo Repo, invoicePrefix, orderPrefix string) *Service {
	return &Service{
		repo: repo,
		prefixes: map[domain.SequenceKind]string{
			domain.SequenceInvoice: invoicePrefix,
			domain.SequenceOrder:   orderPrefix,
		},
		lastSeen: make(map[domain.SequenceKind]int64),
	}
}

// Format renders a claimed counter value as a document number.
func Format(prefix string, number int64) string {
	return fmt.Sprintf("%s%03d", prefix, number)
}

// Next issues the next number for the given kind.
//
// The happy path claims the counter atomically in the store, so issued
// numbers are unique and strictly increasing per kind. When the store
// cannot persist the increment the issuer degrades: it returns a locally
// derived number with a monotonic clock suffix (collision-free even
// without the counter) flagged non-authoritative, and logs a warning so
// operators see the gap.
func (s *Service) Next(ctx context.Context, kind domain.SequenceKind) (domain.SequenceNumber, error) {
	l := zerolog.Ctx(ctx)

	if !kind.Valid() {
		l.Info().Str("kind", string(kind)).Msg("rejected sequence request")
		return domain.SequenceNumber{}, domain.ErrUnknownSequenceKind
	}

	prefix, number, err := s.repo.Next(ctx, kind)
	if err == nil {
		s.remember(kind, number)

		return domain.SequenceNumber{
			Value:         Format(prefix, number),
			Authoritative: true,
		}, nil
	}

	if errors.Is(err, domain.ErrCounterNotFound) {
		return domain.SequenceNumber{}, err
	}

	guess := s.bestGuess(kind)
	value := fmt.Sprintf("%s-%d", Format(s.fallbackPrefix(ctx, kind), guess), time.Now().UnixNano())

	l.Warn().Err(err).
		Str("kind", string(kind)).
		Str("value", value).
		Msg("counter store unreachable, issued non-authoritative number")

	return domain.SequenceNumber{Value: value, Authoritative: false}, nil
}

// Peek returns the counter without advancing it.
func (s *Service) Peek(ctx context.Context, kind domain.SequenceKind) (domain.SequenceCounter, error) {
	if !kind.Valid() {
		return domain.SequenceCounter{}, domain.ErrUnknownSequenceKind
	}

	return s.repo.Get(ctx, kind)
}

func (s *Service) remember(kind domain.SequenceKind, number int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if number > s.lastSeen[kind] {
		s.lastSeen[kind] = number
	}
}

// bestGuess is the number the counter would most likely hand out next,
// based on the last successful claim in this process.
func (s *Service) bestGuess(kind domain.SequenceKind) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastSeen[kind] + 1
}

// fallbackPrefix prefers the stored prefix when the counter row is still
// readable and falls back to the configured one otherwise.
func (s *Service) fallbackPrefix(ctx context.Context, kind domain.SequenceKind) string {
	if c, err := s.repo.Get(ctx, kind); err == nil {
		return c.Prefix
	}

	return s.prefixes[kind]
}
