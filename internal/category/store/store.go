package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cuenta/internal/category"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListCategories(ctx context.Context, ownerID uuid.UUID) ([]*category.Category, error) {
	query := `
		SELECT id, owner_id, name
		FROM categories
		WHERE owner_id = $1 OR owner_id IS NULL
		ORDER BY name ASC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var cats []*category.Category

	for rows.Next() {
		var c category.Category

		var owner *uuid.UUID

		if err := rows.Scan(&c.ID, &owner, &c.Name); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		c.OwnerID = owner

		cats = append(cats, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category rows: %w", err)
	}

	return cats, nil
}

func (s *Store) EnsureCategory(ctx context.Context, ownerID uuid.UUID, name string) (*category.Category, error) {
	query := `
		INSERT INTO categories (owner_id, name)
		VALUES ($1, $2)
		ON CONFLICT (owner_id, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, owner_id, name
	`

	var c category.Category

	var owner *uuid.UUID

	if err := s.db.QueryRowContext(ctx, query, ownerID, name).Scan(&c.ID, &owner, &c.Name); err != nil {
		return nil, fmt.Errorf("ensuring category: %w", err)
	}

	c.OwnerID = owner

	return &c, nil
}
