package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrNameRequired indicates an account create without a name.
	ErrNameRequired = errors.New("account name required")
	// ErrInvalidType indicates an unknown account type.
	ErrInvalidType = errors.New("invalid account type")
	// ErrLimitNotAllowed indicates a credit limit on a non-credit account.
	ErrLimitNotAllowed = errors.New("credit limit only allowed on credit accounts")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=account
type Repository interface {
	CreateAccount(ctx context.Context, acc *Account) error
	GetAccount(ctx context.Context, id uuid.UUID) (*Account, error)
	ListAccounts(ctx context.Context, ownerID uuid.UUID) ([]*Account, error)
	UpdateAccount(ctx context.Context, acc *Account) error
	// DeleteAccount removes the account and detaches its transactions
	// (account_id set to NULL) in the same database transaction.
	DeleteAccount(ctx context.Context, id uuid.UUID) error
	// SetDefaultAccount clears is_default on the owner's other accounts and
	// sets it on the target, atomically.
	SetDefaultAccount(ctx context.Context, ownerID, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	OwnerID        uuid.UUID
	Name           string
	Type           Type
	InitialBalance decimal.Decimal
	CreditLimit    *decimal.Decimal
	Color          string
	IsDefault      bool
}

// Create opens a new account. The initial balance is the only direct balance
// write outside calibration; everything after this goes through the ledger.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Account, error) {
	if params.Name == "" {
		return nil, ErrNameRequired
	}

	if !params.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, params.Type)
	}

	if params.CreditLimit != nil && params.Type != TypeCredit {
		return nil, ErrLimitNotAllowed
	}

	acc := &Account{
		OwnerID:     params.OwnerID,
		Name:        params.Name,
		Type:        params.Type,
		Balance:     params.InitialBalance,
		CreditLimit: params.CreditLimit,
		Color:       params.Color,
	}

	if err := s.repo.CreateAccount(ctx, acc); err != nil {
		return nil, err
	}

	if params.IsDefault {
		if err := s.repo.SetDefaultAccount(ctx, acc.OwnerID, acc.ID); err != nil {
			return nil, fmt.Errorf("setting default: %w", err)
		}

		acc.IsDefault = true
	}

	return acc, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.repo.GetAccount(ctx, id)
}

func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]*Account, error) {
	return s.repo.ListAccounts(ctx, ownerID)
}

type UpdatePatch struct {
	Name        *string
	Color       *string
	CreditLimit *decimal.Decimal
}

// Update edits display metadata. Balance is deliberately not patchable here;
// it only moves through the ledger engine.
func (s *Service) Update(ctx context.Context, id uuid.UUID, patch UpdatePatch) (*Account, error) {
	acc, err := s.repo.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, ErrNameRequired
		}

		acc.Name = *patch.Name
	}

	if patch.Color != nil {
		acc.Color = *patch.Color
	}

	if patch.CreditLimit != nil {
		if acc.Type != TypeCredit {
			return nil, ErrLimitNotAllowed
		}

		acc.CreditLimit = patch.CreditLimit
	}

	if err := s.repo.UpdateAccount(ctx, acc); err != nil {
		return nil, err
	}

	return acc, nil
}

// Delete removes the account. Its transactions survive detached: they keep
// their history but no longer affect any balance.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteAccount(ctx, id)
}

// SetDefault makes the account the owner's single default. The clear-and-set
// runs as one store operation, so the at-most-one invariant holds even when
// the previous default was deleted concurrently.
func (s *Service) SetDefault(ctx context.Context, id uuid.UUID) error {
	acc, err := s.repo.GetAccount(ctx, id)
	if err != nil {
		return err
	}

	return s.repo.SetDefaultAccount(ctx, acc.OwnerID, acc.ID)
}
