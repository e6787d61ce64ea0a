package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type represents the kind of account a balance lives in.
type Type string

const (
	TypeDebit      Type = "debit"
	TypeCredit     Type = "credit"
	TypeCash       Type = "cash"
	TypeInvestment Type = "investment"
	TypeLoan       Type = "loan"
)

// Valid reports whether t is one of the known account types.
func (t Type) Valid() bool {
	switch t {
	case TypeDebit, TypeCredit, TypeCash, TypeInvestment, TypeLoan:
		return true
	}

	return false
}

// Liability reports whether the balance of an account of this type
// represents money owed rather than money held.
func (t Type) Liability() bool {
	return t == TypeCredit || t == TypeLoan
}

var (
	// ErrNotFound indicates the account does not exist (or no longer does).
	ErrNotFound = errors.New("account not found")
	// ErrConflict indicates the account was modified concurrently; the caller
	// must re-read and retry.
	ErrConflict = errors.New("account modified concurrently")
)

// Account represents a single money container owned by one user.
//
// Balance is only ever written through the ledger engine (apply/reverse,
// calibration) after creation; Version backs the optimistic check that keeps
// concurrent balance writers from losing updates.
type Account struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Type        Type
	Balance     decimal.Decimal
	CreditLimit *decimal.Decimal // credit accounts only
	IsDefault   bool
	Color       string
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
