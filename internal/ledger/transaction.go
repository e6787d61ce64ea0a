package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Via records how a transaction came to exist.
type Via string

const (
	ViaManual           Via = "manual"
	ViaCalibration      Via = "calibration"
	ViaGoalContribution Via = "goal_contribution"
)

// ErrNotFound indicates the transaction does not exist.
var ErrNotFound = errors.New("transaction not found")

// ValidationError reports a request that was rejected before any mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Transaction represents a single signed money movement.
//
// Amount is positive for outflows and negative for inflows; what that does
// to the account balance depends on the account type (see Delta). AccountID
// is nil once the account it was recorded against has been deleted — the
// row survives as history with no balance effect.
type Transaction struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	AccountID   *uuid.UUID
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        time.Time
	Via         Via
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
