package ledger

import "github.com/MrJamesThe3rd/cuenta/internal/account"

// Apply adds the transaction's signed delta to the account balance, in
// memory. It reports whether the balance changed: transactions that point at
// a different account, or at no account at all, leave acc untouched.
// Persisting the new balance is the caller's responsibility.
func Apply(acc *account.Account, tx *Transaction) bool {
	if tx.AccountID == nil || *tx.AccountID != acc.ID {
		return false
	}

	acc.Balance = acc.Balance.Add(Delta(acc.Type, tx.Amount))

	return true
}

// Reverse undoes Apply exactly: Reverse(Apply(acc, tx), tx) restores the
// original balance with no rounding drift. Same no-op rule as Apply.
func Reverse(acc *account.Account, tx *Transaction) bool {
	if tx.AccountID == nil || *tx.AccountID != acc.ID {
		return false
	}

	acc.Balance = acc.Balance.Sub(Delta(acc.Type, tx.Amount))

	return true
}
