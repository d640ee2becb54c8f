package domain

import (
	"errors"
	"time"
)

var (
	// ErrCounterNotFound indicates that the sequence counter is not found.
	ErrCounterNotFound = errors.New("sequence counter not found")
	// ErrCounterExists indicates that the sequence counter already exists.
	ErrCounterExists = errors.New("sequence counter already exists")
	// ErrUnknownSequenceKind indicates an unrecognized sequence kind.
	ErrUnknownSequenceKind = errors.New("unknown sequence kind")
)

// SequenceKind enumerates the document numbering counters.
type SequenceKind string

// Recognized sequence kinds.
const (
	SequenceInvoice SequenceKind = "invoice"
	SequenceOrder   SequenceKind = "order"
)

// Valid reports whether k is a recognized sequence kind.
func (k SequenceKind) Valid() bool {
	return k == SequenceInvoice || k == SequenceOrder
}

// SequenceCounter is one per-tenant document numbering counter.
// NextNumber only ever increases.
type SequenceCounter struct {
	Kind       SequenceKind `json:"kind"`
	Prefix     string       `json:"prefix"`
	NextNumber int64        `json:"next_number"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// SequenceNumber is one issued document number.
//
// Authoritative is false when the counter store was unreachable and the
// number was derived locally; such numbers carry a clock suffix so they
// still cannot collide, but they do not advance the counter.
type SequenceNumber struct {
	Value         string `json:"value"`
	Authoritative bool   `json:"authoritative"`
}
