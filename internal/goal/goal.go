package goal

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound indicates the goal does not exist.
	ErrNotFound = errors.New("goal not found")
	// ErrInsufficientSelection indicates a contribution from an account that
	// cannot fund one (credit accounts hold debt, not savings).
	ErrInsufficientSelection = errors.New("contributions must come from an asset-bearing account")
)

// Goal represents a savings target. CurrentAmount normally only moves through
// Contribute; editing it directly via Update is a deliberate manual override
// that bypasses the ledger.
type Goal struct {
	ID                  uuid.UUID
	OwnerID             uuid.UUID
	Name                string
	TargetAmount        decimal.Decimal
	CurrentAmount       decimal.Decimal
	Deadline            time.Time
	MonthlyContribution decimal.Decimal // advisory only
	Color               string
	CreatedAt           time.Time
	UpdatedAt           *time.Time
}
