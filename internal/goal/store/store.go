package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cuenta/internal/goal"
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

// scanGoal reads a goal row from the scanner.
// Expected column order: id, owner_id, name, target_amount, current_amount, deadline, monthly_contribution, color, created_at, updated_at
func scanGoal(s scanner) (*goal.Goal, error) {
	var g goal.Goal

	if err := s.Scan(
		&g.ID, &g.OwnerID, &g.Name, &g.TargetAmount, &g.CurrentAmount,
		&g.Deadline, &g.MonthlyContribution, &g.Color, &g.CreatedAt, &g.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &g, nil
}

const selectGoalColumns = `
	id, owner_id, name, target_amount, current_amount, deadline, monthly_contribution, color, created_at, updated_at
`

func (s *Store) CreateGoal(ctx context.Context, g *goal.Goal) error {
	query := `
		INSERT INTO goals (owner_id, name, target_amount, current_amount, deadline, monthly_contribution, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		g.OwnerID,
		g.Name,
		g.TargetAmount,
		g.CurrentAmount,
		g.Deadline,
		g.MonthlyContribution,
		g.Color,
	).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating goal: %w", err)
	}

	return nil
}

func (s *Store) GetGoal(ctx context.Context, id uuid.UUID) (*goal.Goal, error) {
	query := `SELECT ` + selectGoalColumns + ` FROM goals WHERE id = $1`

	g, err := scanGoal(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, goal.ErrNotFound
		}

		return nil, fmt.Errorf("getting goal: %w", err)
	}

	return g, nil
}

func (s *Store) ListGoals(ctx context.Context, ownerID uuid.UUID) ([]*goal.Goal, error) {
	query := `SELECT ` + selectGoalColumns + `
		FROM goals
		WHERE owner_id = $1
		ORDER BY deadline ASC`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	defer rows.Close()

	var goals []*goal.Goal

	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning goal: %w", err)
		}

		goals = append(goals, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating goal rows: %w", err)
	}

	return goals, nil
}

func (s *Store) UpdateGoal(ctx context.Context, g *goal.Goal) error {
	query := `
		UPDATE goals
		SET name = $1, target_amount = $2, current_amount = $3, deadline = $4, monthly_contribution = $5, color = $6, updated_at = NOW()
		WHERE id = $7
	`

	res, err := s.db.ExecContext(ctx, query,
		g.Name,
		g.TargetAmount,
		g.CurrentAmount,
		g.Deadline,
		g.MonthlyContribution,
		g.Color,
		g.ID,
	)
	if err != nil {
		return fmt.Errorf("updating goal: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating goal: %w", err)
	}

	if rows == 0 {
		return goal.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteGoal(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM goals WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting goal: %w", err)
	}

	return nil
}
