package ledger_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/cuenta/internal/account"
	"github.com/MrJamesThe3rd/cuenta/internal/ledger"
)

func TestApplyReverse_InverseLaw(t *testing.T) {
	types := []account.Type{
		account.TypeDebit,
		account.TypeCredit,
		account.TypeCash,
		account.TypeInvestment,
		account.TypeLoan,
	}

	amounts := []string{"200", "-100", "0.01", "1234.56", "-0.33"}

	for _, typ := range types {
		for _, raw := range amounts {
			acc := &account.Account{
				ID:      uuid.New(),
				Type:    typ,
				Balance: decimal.RequireFromString("1000.77"),
			}
			before := acc.Balance

			tx := &ledger.Transaction{
				ID:        uuid.New(),
				AccountID: &acc.ID,
				Amount:    decimal.RequireFromString(raw),
			}

			assert.True(t, ledger.Apply(acc, tx))
			assert.True(t, ledger.Reverse(acc, tx))
			assert.True(t, before.Equal(acc.Balance),
				"type %s amount %s: balance drifted from %s to %s", typ, raw, before, acc.Balance)
		}
	}
}

func TestApply_IgnoresOtherAccounts(t *testing.T) {
	acc := &account.Account{
		ID:      uuid.New(),
		Type:    account.TypeDebit,
		Balance: decimal.NewFromInt(1000),
	}

	otherID := uuid.New()
	tx := &ledger.Transaction{AccountID: &otherID, Amount: decimal.NewFromInt(200)}

	assert.False(t, ledger.Apply(acc, tx))
	assert.False(t, ledger.Reverse(acc, tx))
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(1000)))
}

func TestApply_IgnoresDetachedTransactions(t *testing.T) {
	acc := &account.Account{
		ID:      uuid.New(),
		Type:    account.TypeCash,
		Balance: decimal.NewFromInt(50),
	}

	tx := &ledger.Transaction{AccountID: nil, Amount: decimal.NewFromInt(10)}

	assert.False(t, ledger.Apply(acc, tx))
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(50)))
}
