package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cuenta/internal/account"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanAccount reads an account row from the scanner.
// Expected column order: id, owner_id, name, type, balance, credit_limit, is_default, color, version, created_at, updated_at
func scanAccount(s scanner) (*account.Account, error) {
	var acc account.Account

	var typeStr string

	var creditLimit decimal.NullDecimal

	if err := s.Scan(
		&acc.ID, &acc.OwnerID, &acc.Name, &typeStr, &acc.Balance,
		&creditLimit, &acc.IsDefault, &acc.Color, &acc.Version,
		&acc.CreatedAt, &acc.UpdatedAt,
	); err != nil {
		return nil, err
	}

	acc.Type = account.Type(typeStr)

	if creditLimit.Valid {
		acc.CreditLimit = &creditLimit.Decimal
	}

	return &acc, nil
}

const selectAccountColumns = `
	id, owner_id, name, type, balance, credit_limit, is_default, color, version, created_at, updated_at
`

func (s *Store) CreateAccount(ctx context.Context, acc *account.Account) error {
	query := `
		INSERT INTO accounts (owner_id, name, type, balance, credit_limit, is_default, color, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	var creditLimit decimal.NullDecimal
	if acc.CreditLimit != nil {
		creditLimit = decimal.NullDecimal{Decimal: *acc.CreditLimit, Valid: true}
	}

	err := s.db.QueryRowContext(ctx, query,
		acc.OwnerID,
		acc.Name,
		acc.Type,
		acc.Balance,
		creditLimit,
		acc.IsDefault,
		acc.Color,
	).Scan(&acc.ID, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating account: %w", err)
	}

	return nil
}

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	query := `SELECT ` + selectAccountColumns + ` FROM accounts WHERE id = $1`

	acc, err := scanAccount(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, account.ErrNotFound
		}

		return nil, fmt.Errorf("getting account: %w", err)
	}

	return acc, nil
}

func (s *Store) ListAccounts(ctx context.Context, ownerID uuid.UUID) ([]*account.Account, error) {
	query := `SELECT ` + selectAccountColumns + `
		FROM accounts
		WHERE owner_id = $1
		ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accs []*account.Account

	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}

		accs = append(accs, acc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating account rows: %w", err)
	}

	return accs, nil
}

// UpdateAccount writes display metadata under the same optimistic version
// check as balance writes.
func (s *Store) UpdateAccount(ctx context.Context, acc *account.Account) error {
	query := `
		UPDATE accounts
		SET name = $1, color = $2, credit_limit = $3, version = version + 1, updated_at = NOW()
		WHERE id = $4 AND version = $5
	`

	var creditLimit decimal.NullDecimal
	if acc.CreditLimit != nil {
		creditLimit = decimal.NullDecimal{Decimal: *acc.CreditLimit, Valid: true}
	}

	res, err := s.db.ExecContext(ctx, query, acc.Name, acc.Color, creditLimit, acc.ID, acc.Version)
	if err != nil {
		return fmt.Errorf("updating account: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating account: %w", err)
	}

	if rows == 0 {
		return account.ErrConflict
	}

	acc.Version++

	return nil
}

// DeleteAccount removes the account and detaches its transactions in one
// database transaction, so history never points at a half-deleted account.
func (s *Store) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, "UPDATE transactions SET account_id = NULL, updated_at = NOW() WHERE account_id = $1", id); err != nil {
		return fmt.Errorf("detaching transactions: %w", err)
	}

	res, err := dbTx.ExecContext(ctx, "DELETE FROM accounts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}

	if rows == 0 {
		return account.ErrNotFound
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}

	return nil
}

// SetDefaultAccount flips the owner's default flag in one database
// transaction: clear everywhere, then set on the target.
func (s *Store) SetDefaultAccount(ctx context.Context, ownerID, id uuid.UUID) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, "UPDATE accounts SET is_default = FALSE, updated_at = NOW() WHERE owner_id = $1 AND is_default AND id <> $2", ownerID, id); err != nil {
		return fmt.Errorf("clearing default: %w", err)
	}

	res, err := dbTx.ExecContext(ctx, "UPDATE accounts SET is_default = TRUE, updated_at = NOW() WHERE id = $1 AND owner_id = $2", id, ownerID)
	if err != nil {
		return fmt.Errorf("setting default: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("setting default: %w", err)
	}

	if rows == 0 {
		return account.ErrNotFound
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing default flip: %w", err)
	}

	return nil
}
