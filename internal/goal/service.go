package goal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cuenta/internal/account"
	"github.com/MrJamesThe3rd/cuenta/internal/ledger"
)

// CategorySavings tags goal contribution transactions.
const CategorySavings = "Ahorro"

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=goal
type Repository interface {
	CreateGoal(ctx context.Context, g *Goal) error
	GetGoal(ctx context.Context, id uuid.UUID) (*Goal, error)
	ListGoals(ctx context.Context, ownerID uuid.UUID) ([]*Goal, error)
	UpdateGoal(ctx context.Context, g *Goal) error
	DeleteGoal(ctx context.Context, id uuid.UUID) error
}

// Ledger is the slice of the ledger engine contributions route through, so
// contribution transactions behave like any other transaction afterwards.
type Ledger interface {
	Account(ctx context.Context, id uuid.UUID) (*account.Account, error)
	Create(ctx context.Context, params ledger.CreateParams) (*ledger.Transaction, error)
	List(ctx context.Context, filter ledger.ListFilter) ([]*ledger.Transaction, error)
}

type Service struct {
	repo   Repository
	ledger Ledger
}

func NewService(repo Repository, l Ledger) *Service {
	return &Service{repo: repo, ledger: l}
}

type CreateParams struct {
	OwnerID             uuid.UUID
	Name                string
	TargetAmount        decimal.Decimal
	Deadline            time.Time
	MonthlyContribution decimal.Decimal
	Color               string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Goal, error) {
	if params.Name == "" {
		return nil, &ledger.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	if !params.TargetAmount.IsPositive() {
		return nil, &ledger.ValidationError{Field: "target_amount", Reason: "must be positive"}
	}

	g := &Goal{
		OwnerID:             params.OwnerID,
		Name:                params.Name,
		TargetAmount:        params.TargetAmount,
		CurrentAmount:       decimal.Zero,
		Deadline:            params.Deadline,
		MonthlyContribution: params.MonthlyContribution,
		Color:               params.Color,
	}

	if err := s.repo.CreateGoal(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Goal, error) {
	return s.repo.GetGoal(ctx, id)
}

func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]*Goal, error) {
	return s.repo.ListGoals(ctx, ownerID)
}

type UpdatePatch struct {
	Name                *string
	TargetAmount        *decimal.Decimal
	CurrentAmount       *decimal.Decimal
	Deadline            *time.Time
	MonthlyContribution *decimal.Decimal
	Color               *string
}

// Update edits the goal record directly. Patching CurrentAmount here is the
// sanctioned manual override: it does not create a transaction and the
// ledger is not consulted.
func (s *Service) Update(ctx context.Context, id uuid.UUID, patch UpdatePatch) (*Goal, error) {
	g, err := s.repo.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		g.Name = *patch.Name
	}

	if patch.TargetAmount != nil {
		g.TargetAmount = *patch.TargetAmount
	}

	if patch.CurrentAmount != nil {
		g.CurrentAmount = *patch.CurrentAmount
	}

	if patch.Deadline != nil {
		g.Deadline = *patch.Deadline
	}

	if patch.MonthlyContribution != nil {
		g.MonthlyContribution = *patch.MonthlyContribution
	}

	if patch.Color != nil {
		g.Color = *patch.Color
	}

	if err := s.repo.UpdateGoal(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteGoal(ctx, id)
}

// Contribute moves amount from the source account into the goal: one
// ordinary outflow transaction through the ledger, then a goal-progress
// increment. The two writes are ordered, not atomic — if the second fails
// the money is already accounted for in the ledger and progress can be
// re-derived (see DeriveProgress).
func (s *Service) Contribute(ctx context.Context, goalID, sourceAccountID uuid.UUID, amount decimal.Decimal) (*ledger.Transaction, *Goal, error) {
	if !amount.IsPositive() {
		return nil, nil, &ledger.ValidationError{Field: "amount", Reason: "must be positive"}
	}

	g, err := s.repo.GetGoal(ctx, goalID)
	if err != nil {
		return nil, nil, err
	}

	src, err := s.ledger.Account(ctx, sourceAccountID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading source account: %w", err)
	}

	if src.Type == account.TypeCredit {
		return nil, nil, ErrInsufficientSelection
	}

	tx, err := s.ledger.Create(ctx, ledger.CreateParams{
		OwnerID:     g.OwnerID,
		AccountID:   src.ID,
		Amount:      amount,
		Category:    CategorySavings,
		Description: contributionDescription(g.Name),
		Date:        time.Now().UTC(),
		Via:         ledger.ViaGoalContribution,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("recording contribution: %w", err)
	}

	g.CurrentAmount = g.CurrentAmount.Add(amount)

	if err := s.repo.UpdateGoal(ctx, g); err != nil {
		// The contribution transaction stands; progress is recoverable.
		return tx, nil, fmt.Errorf("updating goal progress after transaction %s: %w", tx.ID, err)
	}

	return tx, g, nil
}

// DeriveProgress recomputes the goal's contributed total from its
// contribution-tagged transactions. It is the recovery path for a
// contribution whose goal update never landed.
func (s *Service) DeriveProgress(ctx context.Context, goalID uuid.UUID) (decimal.Decimal, error) {
	g, err := s.repo.GetGoal(ctx, goalID)
	if err != nil {
		return decimal.Zero, err
	}

	via := ledger.ViaGoalContribution
	txs, err := s.ledger.List(ctx, ledger.ListFilter{OwnerID: &g.OwnerID, Via: &via})
	if err != nil {
		return decimal.Zero, fmt.Errorf("listing contributions: %w", err)
	}

	total := decimal.Zero
	want := contributionDescription(g.Name)

	for _, tx := range txs {
		if tx.Description == want {
			total = total.Add(tx.Amount)
		}
	}

	return total, nil
}

func contributionDescription(name string) string {
	return fmt.Sprintf("Aporte a %s", name)
}
