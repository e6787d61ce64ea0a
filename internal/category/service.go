package category

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	ListCategories(ctx context.Context, ownerID uuid.UUID) ([]*Category, error)
	EnsureCategory(ctx context.Context, ownerID uuid.UUID, name string) (*Category, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the owner's categories plus the system defaults.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]*Category, error) {
	return s.repo.ListCategories(ctx, ownerID)
}

// Ensure returns the owner's category with the given name, creating it if it
// does not exist yet.
func (s *Service) Ensure(ctx context.Context, ownerID uuid.UUID, name string) (*Category, error) {
	return s.repo.EnsureCategory(ctx, ownerID, name)
}
