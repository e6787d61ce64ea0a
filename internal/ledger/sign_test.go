package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/cuenta/internal/account"
	"github.com/MrJamesThe3rd/cuenta/internal/ledger"
)

func TestDelta(t *testing.T) {
	expense := decimal.NewFromInt(200)
	income := decimal.NewFromInt(-100)

	tests := []struct {
		name        string
		accountType account.Type
		amount      decimal.Decimal
		want        decimal.Decimal
	}{
		{"DebitExpenseReducesBalance", account.TypeDebit, expense, decimal.NewFromInt(-200)},
		{"DebitIncomeGrowsBalance", account.TypeDebit, income, decimal.NewFromInt(100)},
		{"CashExpenseReducesBalance", account.TypeCash, expense, decimal.NewFromInt(-200)},
		{"InvestmentIncomeGrowsBalance", account.TypeInvestment, income, decimal.NewFromInt(100)},
		{"CreditExpenseGrowsDebt", account.TypeCredit, expense, decimal.NewFromInt(200)},
		{"CreditPaymentShrinksDebt", account.TypeCredit, income, decimal.NewFromInt(-100)},
		{"LoanExpenseGrowsDebt", account.TypeLoan, expense, decimal.NewFromInt(200)},
		{"LoanPaymentShrinksDebt", account.TypeLoan, income, decimal.NewFromInt(-100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ledger.Delta(tt.accountType, tt.amount)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestAdjustmentAmount_InvertsDelta(t *testing.T) {
	types := []account.Type{
		account.TypeDebit,
		account.TypeCredit,
		account.TypeCash,
		account.TypeInvestment,
		account.TypeLoan,
	}

	diffs := []decimal.Decimal{
		decimal.NewFromInt(50),
		decimal.NewFromInt(-50),
		decimal.RequireFromString("0.01"),
		decimal.RequireFromString("-123.45"),
	}

	for _, typ := range types {
		for _, diff := range diffs {
			amount := ledger.AdjustmentAmount(typ, diff)
			got := ledger.Delta(typ, amount)
			assert.True(t, diff.Equal(got), "type %s diff %s: Delta(AdjustmentAmount) = %s", typ, diff, got)
		}
	}
}
