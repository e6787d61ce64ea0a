package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cuenta/internal/account"
	"github.com/MrJamesThe3rd/cuenta/internal/ledger"
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

// scanTransaction reads a transaction row from the scanner.
// Expected column order: id, owner_id, account_id, amount, category, description, date, via, created_at, updated_at
func scanTransaction(s scanner) (*ledger.Transaction, error) {
	var tx ledger.Transaction

	var viaStr string

	var accID *uuid.UUID

	if err := s.Scan(
		&tx.ID, &tx.OwnerID, &accID, &tx.Amount, &tx.Category, &tx.Description,
		&tx.Date, &viaStr, &tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.AccountID = accID
	tx.Via = ledger.Via(viaStr)

	return &tx, nil
}

const selectTransactionColumns = `
	t.id, t.owner_id, t.account_id, t.amount, t.category, t.description,
	t.date, t.via, t.created_at, t.updated_at
`

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	query := `
		SELECT id, owner_id, name, type, balance, credit_limit, is_default, color, version, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`

	var acc account.Account

	var typeStr string

	var creditLimit decimal.NullDecimal

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&acc.ID, &acc.OwnerID, &acc.Name, &typeStr, &acc.Balance,
		&creditLimit, &acc.IsDefault, &acc.Color, &acc.Version,
		&acc.CreatedAt, &acc.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, account.ErrNotFound
		}

		return nil, fmt.Errorf("getting account: %w", err)
	}

	acc.Type = account.Type(typeStr)

	if creditLimit.Valid {
		acc.CreditLimit = &creditLimit.Decimal
	}

	return &acc, nil
}

// SaveAccount writes the balance under an optimistic version check. A stale
// version fails with account.ErrConflict; the caller re-reads and retries.
func (s *Store) SaveAccount(ctx context.Context, acc *account.Account) error {
	query := `
		UPDATE accounts
		SET balance = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2 AND version = $3
	`

	res, err := s.db.ExecContext(ctx, query, acc.Balance, acc.ID, acc.Version)
	if err != nil {
		return fmt.Errorf("saving account: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("saving account: %w", err)
	}

	if rows == 0 {
		var exists bool
		if err := s.db.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)", acc.ID).Scan(&exists); err != nil {
			return fmt.Errorf("checking account: %w", err)
		}

		if !exists {
			return account.ErrNotFound
		}

		return account.ErrConflict
	}

	acc.Version++

	return nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx *ledger.Transaction) error {
	query := `
		INSERT INTO transactions (owner_id, account_id, amount, category, description, date, via, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		tx.OwnerID,
		tx.AccountID,
		tx.Amount,
		tx.Category,
		tx.Description,
		tx.Date,
		tx.Via,
	).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *ledger.Transaction) error {
	query := `
		UPDATE transactions
		SET account_id = $1, amount = $2, category = $3, description = $4, date = $5, updated_at = NOW()
		WHERE id = $6
	`

	_, err := s.db.ExecContext(ctx, query,
		tx.AccountID,
		tx.Amount,
		tx.Category,
		tx.Description,
		tx.Date,
		tx.ID,
	)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return nil
}

func (s *Store) ListTransactions(ctx context.Context, filter ledger.ListFilter) ([]*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE 1 = 1`

	var args []any

	argIdx := 1

	if filter.OwnerID != nil {
		query += fmt.Sprintf(" AND t.owner_id = $%d", argIdx)

		args = append(args, *filter.OwnerID)
		argIdx++
	}

	if filter.AccountID != nil {
		query += fmt.Sprintf(" AND t.account_id = $%d", argIdx)

		args = append(args, *filter.AccountID)
		argIdx++
	}

	if filter.Category != nil {
		query += fmt.Sprintf(" AND t.category = $%d", argIdx)

		args = append(args, *filter.Category)
		argIdx++
	}

	if filter.Via != nil {
		query += fmt.Sprintf(" AND t.via = $%d", argIdx)

		args = append(args, *filter.Via)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND t.date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND t.date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY t.date DESC, t.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*ledger.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}
