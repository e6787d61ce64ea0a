package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cuenta/internal/account"
)

// Delta returns the balance change a transaction amount causes on an account
// of type t. It is the single source of sign semantics: an outflow (positive
// amount) shrinks what an asset account holds and grows what a liability
// account owes; an inflow (negative amount) does the opposite.
func Delta(t account.Type, amount decimal.Decimal) decimal.Decimal {
	switch t {
	case account.TypeCredit, account.TypeLoan:
		return amount
	case account.TypeDebit, account.TypeCash, account.TypeInvestment:
		return amount.Neg()
	}

	// Unknown types never reach here for persisted accounts (Type.Valid is
	// enforced at creation); treat them as asset-like.
	return amount.Neg()
}

// AdjustmentAmount inverts Delta: it returns the transaction amount that,
// applied to an account of type t, moves its balance by diff. Calibration
// uses it to synthesize an adjustment entry matching a direct balance write.
func AdjustmentAmount(t account.Type, diff decimal.Decimal) decimal.Decimal {
	if t.Liability() {
		return diff
	}

	return diff.Neg()
}
