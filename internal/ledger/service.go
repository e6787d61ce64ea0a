package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cuenta/internal/account"
)

// CategoryAdjustment tags synthetic calibration entries.
const CategoryAdjustment = "Ajuste"

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error)
	// SaveAccount persists the account's balance under an optimistic version
	// check; it fails with account.ErrConflict when the stored row moved.
	SaveAccount(ctx context.Context, acc *account.Account) error

	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	CreateTransaction(ctx context.Context, tx *Transaction) error
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
}

// Service keeps account balances consistent with the transaction history:
// every create, edit, delete and calibration routes its balance effect
// through here.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	OwnerID     uuid.UUID
	AccountID   uuid.UUID
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        time.Time
	Via         Via
}

type UpdatePatch struct {
	Amount      *decimal.Decimal
	AccountID   *uuid.UUID
	Category    *string
	Description *string
	Date        *time.Time
}

type ListFilter struct {
	OwnerID   *uuid.UUID
	AccountID *uuid.UUID
	Category  *string
	Via       *Via
	StartDate *time.Time
	EndDate   *time.Time
}

// Create records a new transaction and applies its effect to the target
// account. Validation and account lookup happen before any write; a failed
// record write after the balance write is compensated, so no partial state
// survives.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	if params.Amount.IsZero() {
		return nil, &ValidationError{Field: "amount", Reason: "must not be zero"}
	}

	acc, err := s.repo.GetAccount(ctx, params.AccountID)
	if err != nil {
		return nil, fmt.Errorf("loading account: %w", err)
	}

	via := params.Via
	if via == "" {
		via = ViaManual
	}

	tx := &Transaction{
		OwnerID:     params.OwnerID,
		AccountID:   &params.AccountID,
		Amount:      params.Amount,
		Category:    params.Category,
		Description: params.Description,
		Date:        params.Date,
		Via:         via,
	}

	Apply(acc, tx)

	if err := s.repo.SaveAccount(ctx, acc); err != nil {
		return nil, fmt.Errorf("saving balance: %w", err)
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		Reverse(acc, tx)

		if rbErr := s.repo.SaveAccount(ctx, acc); rbErr != nil {
			return nil, errors.Join(
				fmt.Errorf("recording transaction: %w", err),
				fmt.Errorf("rolling back balance: %w", rbErr),
			)
		}

		return nil, fmt.Errorf("recording transaction: %w", err)
	}

	return tx, nil
}

// Update edits a committed transaction. An amount change on the same account
// is applied as a single net balance write; moving the transaction to
// another account reverses it on the old one and applies it on the new one,
// rolling the first write back if the second fails.
func (s *Service) Update(ctx context.Context, id uuid.UUID, patch UpdatePatch) (*Transaction, error) {
	if patch.Amount != nil && patch.Amount.IsZero() {
		return nil, &ValidationError{Field: "amount", Reason: "must not be zero"}
	}

	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	newAmount := tx.Amount
	if patch.Amount != nil {
		newAmount = *patch.Amount
	}

	moved := patch.AccountID != nil &&
		(tx.AccountID == nil || *patch.AccountID != *tx.AccountID)

	if patch.Category != nil {
		tx.Category = *patch.Category
	}

	if patch.Description != nil {
		tx.Description = *patch.Description
	}

	if patch.Date != nil {
		tx.Date = *patch.Date
	}

	switch {
	case moved:
		if err := s.move(ctx, tx, *patch.AccountID, newAmount); err != nil {
			return nil, err
		}
	case tx.AccountID != nil && !newAmount.Equal(tx.Amount):
		if err := s.reprice(ctx, tx, newAmount); err != nil {
			return nil, err
		}
	default:
		tx.Amount = newAmount

		if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
			return nil, fmt.Errorf("updating transaction: %w", err)
		}
	}

	return tx, nil
}

// reprice changes the transaction amount on its current account with one
// balance write, so no intermediate balance is ever observable.
func (s *Service) reprice(ctx context.Context, tx *Transaction, newAmount decimal.Decimal) error {
	acc, err := s.repo.GetAccount(ctx, *tx.AccountID)
	if err != nil {
		return fmt.Errorf("loading account: %w", err)
	}

	net := Delta(acc.Type, newAmount).Sub(Delta(acc.Type, tx.Amount))
	acc.Balance = acc.Balance.Add(net)

	if err := s.repo.SaveAccount(ctx, acc); err != nil {
		return fmt.Errorf("saving balance: %w", err)
	}

	tx.Amount = newAmount

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		acc.Balance = acc.Balance.Sub(net)

		if rbErr := s.repo.SaveAccount(ctx, acc); rbErr != nil {
			return errors.Join(
				fmt.Errorf("updating transaction: %w", err),
				fmt.Errorf("rolling back balance: %w", rbErr),
			)
		}

		return fmt.Errorf("updating transaction: %w", err)
	}

	return nil
}

// move reattaches the transaction to another account: reverse on the old
// account, apply on the new one, two ordered writes. A failure on the second
// write re-applies the old effect so balances and the transaction set never
// diverge.
func (s *Service) move(ctx context.Context, tx *Transaction, newAccountID uuid.UUID, newAmount decimal.Decimal) error {
	old := *tx

	newAcc, err := s.repo.GetAccount(ctx, newAccountID)
	if err != nil {
		return fmt.Errorf("loading target account: %w", err)
	}

	var oldAcc *account.Account

	if tx.AccountID != nil {
		oldAcc, err = s.repo.GetAccount(ctx, *tx.AccountID)

		switch {
		case errors.Is(err, account.ErrNotFound):
			// Old account is gone; the transaction is detached on that side
			// and there is nothing to reverse.
			oldAcc = nil
		case err != nil:
			return fmt.Errorf("loading source account: %w", err)
		}
	}

	if oldAcc != nil {
		Reverse(oldAcc, tx)

		if err := s.repo.SaveAccount(ctx, oldAcc); err != nil {
			return fmt.Errorf("saving source balance: %w", err)
		}
	}

	tx.AccountID = &newAccountID
	tx.Amount = newAmount

	Apply(newAcc, tx)

	if err := s.repo.SaveAccount(ctx, newAcc); err != nil {
		if rbErr := s.restore(ctx, oldAcc, &old); rbErr != nil {
			return errors.Join(fmt.Errorf("saving target balance: %w", err), rbErr)
		}

		return fmt.Errorf("saving target balance: %w", err)
	}

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		Reverse(newAcc, tx)

		rbErr := s.repo.SaveAccount(ctx, newAcc)
		if rbErr == nil {
			rbErr = s.restore(ctx, oldAcc, &old)
		} else {
			rbErr = fmt.Errorf("rolling back target balance: %w", rbErr)
		}

		if rbErr != nil {
			return errors.Join(fmt.Errorf("updating transaction: %w", err), rbErr)
		}

		return fmt.Errorf("updating transaction: %w", err)
	}

	return nil
}

// restore re-applies a reversed transaction to its original account after a
// failed move.
func (s *Service) restore(ctx context.Context, oldAcc *account.Account, old *Transaction) error {
	if oldAcc == nil {
		return nil
	}

	Apply(oldAcc, old)

	if err := s.repo.SaveAccount(ctx, oldAcc); err != nil {
		return fmt.Errorf("restoring source balance: %w", err)
	}

	return nil
}

// Delete reverses the transaction's effect and removes the record. A
// transaction whose account no longer exists (or was detached) is removed
// with no balance effect.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return err
	}

	if tx.AccountID != nil {
		acc, err := s.repo.GetAccount(ctx, *tx.AccountID)

		switch {
		case errors.Is(err, account.ErrNotFound):
			// Detached: remove the record with no balance effect.
		case err != nil:
			return fmt.Errorf("loading account: %w", err)
		default:
			Reverse(acc, tx)

			if err := s.repo.SaveAccount(ctx, acc); err != nil {
				return fmt.Errorf("saving balance: %w", err)
			}

			if err := s.repo.DeleteTransaction(ctx, id); err != nil {
				Apply(acc, tx)

				if rbErr := s.repo.SaveAccount(ctx, acc); rbErr != nil {
					return errors.Join(
						fmt.Errorf("deleting transaction: %w", err),
						fmt.Errorf("rolling back balance: %w", rbErr),
					)
				}

				return fmt.Errorf("deleting transaction: %w", err)
			}

			return nil
		}
	}

	if err := s.repo.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return nil
}

// Calibrate reconciles the stored balance with a user-asserted real one.
// This is the one sanctioned direct balance write; when recordAdjustment is
// set and the balances differ, an inert "Ajuste" transaction is synthesized
// so the running total of the history matches the new balance. With
// recordAdjustment false the history knowingly diverges until the next
// calibration or a manual entry restores parity.
func (s *Service) Calibrate(ctx context.Context, accountID uuid.UUID, realBalance decimal.Decimal, recordAdjustment bool) (*account.Account, error) {
	acc, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("loading account: %w", err)
	}

	diff := realBalance.Sub(acc.Balance)
	if diff.IsZero() {
		return acc, nil
	}

	acc.Balance = realBalance

	if err := s.repo.SaveAccount(ctx, acc); err != nil {
		return nil, fmt.Errorf("saving balance: %w", err)
	}

	if recordAdjustment {
		adj := &Transaction{
			OwnerID:     acc.OwnerID,
			AccountID:   &acc.ID,
			Amount:      AdjustmentAmount(acc.Type, diff),
			Category:    CategoryAdjustment,
			Description: "Ajuste de saldo",
			Date:        time.Now().UTC(),
			Via:         ViaCalibration,
		}

		// The balance was already set directly; the adjustment row is inert
		// and only keeps the history's running total in line.
		if err := s.repo.CreateTransaction(ctx, adj); err != nil {
			return nil, fmt.Errorf("recording adjustment: %w", err)
		}
	}

	return acc, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

// Account exposes account lookup to collaborators that need to inspect a
// balance or type before routing a transaction through Create.
func (s *Service) Account(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return s.repo.GetAccount(ctx, id)
}
