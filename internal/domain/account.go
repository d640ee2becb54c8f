// Package domain provides defenitions of all entities.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountExists indicates that the customer already has an account.
	ErrAccountExists = errors.New("account already exists")
	// ErrStaleAccount indicates that the account figures changed between read and write.
	ErrStaleAccount = errors.New("account state changed concurrently")
)

// Account holds the two running ledger figures for one customer.
//
// Balance is the prepaid credit the business owes the customer.
// Outstanding is the debt the customer owes the business; it is never
// negative.
type Account struct {
	CustomerID  string    `json:"customer_id"`
	Balance     string    `json:"balance"`
	Outstanding string    `json:"outstanding"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SetAccountParams is the input data to replace an account's stored figures.
//
// PrevBalance and PrevOutstanding carry the figures the caller read before
// computing the new ones; the store refuses the write with ErrStaleAccount
// when they no longer match, so a concurrent posting can never be lost.
type SetAccountParams struct {
	CustomerID      string
	Balance         string
	Outstanding     string
	PrevBalance     string
	PrevOutstanding string
}
