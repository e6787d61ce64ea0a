package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cuenta/internal/account"
	"github.com/MrJamesThe3rd/cuenta/internal/ledger"
)

// fakeRepo is an in-memory Repository with the same optimistic versioning
// behavior as the real store, used to exercise whole lifecycles.
type fakeRepo struct {
	accounts map[uuid.UUID]*account.Account
	txs      map[uuid.UUID]*ledger.Transaction
}

func newFakeRepo(accs ...*account.Account) *fakeRepo {
	r := &fakeRepo{
		accounts: make(map[uuid.UUID]*account.Account),
		txs:      make(map[uuid.UUID]*ledger.Transaction),
	}

	for _, a := range accs {
		cp := *a
		r.accounts[a.ID] = &cp
	}

	return r
}

func (r *fakeRepo) GetAccount(_ context.Context, id uuid.UUID) (*account.Account, error) {
	a, ok := r.accounts[id]
	if !ok {
		return nil, account.ErrNotFound
	}

	cp := *a

	return &cp, nil
}

func (r *fakeRepo) SaveAccount(_ context.Context, acc *account.Account) error {
	stored, ok := r.accounts[acc.ID]
	if !ok {
		return account.ErrNotFound
	}

	if stored.Version != acc.Version {
		return account.ErrConflict
	}

	cp := *acc
	cp.Version++
	r.accounts[acc.ID] = &cp
	acc.Version = cp.Version

	return nil
}

func (r *fakeRepo) GetTransaction(_ context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	tx, ok := r.txs[id]
	if !ok {
		return nil, ledger.ErrNotFound
	}

	cp := *tx

	return &cp, nil
}

func (r *fakeRepo) CreateTransaction(_ context.Context, tx *ledger.Transaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}

	tx.CreatedAt = time.Now()

	cp := *tx
	r.txs[tx.ID] = &cp

	return nil
}

func (r *fakeRepo) UpdateTransaction(_ context.Context, tx *ledger.Transaction) error {
	if _, ok := r.txs[tx.ID]; !ok {
		return ledger.ErrNotFound
	}

	cp := *tx
	r.txs[tx.ID] = &cp

	return nil
}

func (r *fakeRepo) DeleteTransaction(_ context.Context, id uuid.UUID) error {
	if _, ok := r.txs[id]; !ok {
		return ledger.ErrNotFound
	}

	delete(r.txs, id)

	return nil
}

func (r *fakeRepo) ListTransactions(_ context.Context, filter ledger.ListFilter) ([]*ledger.Transaction, error) {
	var out []*ledger.Transaction

	for _, tx := range r.txs {
		if filter.OwnerID != nil && tx.OwnerID != *filter.OwnerID {
			continue
		}

		if filter.AccountID != nil && (tx.AccountID == nil || *tx.AccountID != *filter.AccountID) {
			continue
		}

		if filter.Category != nil && tx.Category != *filter.Category {
			continue
		}

		if filter.Via != nil && tx.Via != *filter.Via {
			continue
		}

		cp := *tx
		out = append(out, &cp)
	}

	return out, nil
}

// balance reads the stored balance straight from the fake.
func (r *fakeRepo) balance(t *testing.T, id uuid.UUID) decimal.Decimal {
	t.Helper()

	acc, ok := r.accounts[id]
	require.True(t, ok)

	return acc.Balance
}

func TestLifecycle_DebitBalanceInvariant(t *testing.T) {
	ctx := context.Background()
	acc := debitAccount(1000)
	repo := newFakeRepo(acc)
	svc := ledger.NewService(repo)

	tx, err := svc.Create(ctx, ledger.CreateParams{
		OwnerID:   acc.OwnerID,
		AccountID: acc.ID,
		Amount:    decimal.NewFromInt(200),
		Category:  "Comida",
		Date:      time.Now(),
	})
	require.NoError(t, err)
	assert.True(t, repo.balance(t, acc.ID).Equal(decimal.NewFromInt(800)))

	newAmount := decimal.NewFromInt(150)
	_, err = svc.Update(ctx, tx.ID, ledger.UpdatePatch{Amount: &newAmount})
	require.NoError(t, err)
	assert.True(t, repo.balance(t, acc.ID).Equal(decimal.NewFromInt(850)))

	require.NoError(t, svc.Delete(ctx, tx.ID))
	assert.True(t, repo.balance(t, acc.ID).Equal(decimal.NewFromInt(1000)))
	assert.Empty(t, repo.txs)
}

func TestLifecycle_CreditDebtGrowsAndShrinks(t *testing.T) {
	ctx := context.Background()
	limit := decimal.NewFromInt(2000)
	acc := &account.Account{
		ID:          uuid.New(),
		OwnerID:     uuid.New(),
		Name:        "Tarjeta",
		Type:        account.TypeCredit,
		Balance:     decimal.NewFromInt(500),
		CreditLimit: &limit,
	}
	repo := newFakeRepo(acc)
	svc := ledger.NewService(repo)

	_, err := svc.Create(ctx, ledger.CreateParams{
		OwnerID:   acc.OwnerID,
		AccountID: acc.ID,
		Amount:    decimal.NewFromInt(100),
		Category:  "Compras",
		Date:      time.Now(),
	})
	require.NoError(t, err)
	assert.True(t, repo.balance(t, acc.ID).Equal(decimal.NewFromInt(600)))

	_, err = svc.Create(ctx, ledger.CreateParams{
		OwnerID:   acc.OwnerID,
		AccountID: acc.ID,
		Amount:    decimal.NewFromInt(-100),
		Category:  "Pago",
		Date:      time.Now(),
	})
	require.NoError(t, err)
	assert.True(t, repo.balance(t, acc.ID).Equal(decimal.NewFromInt(500)))
}

func TestUpdate_MoveBetweenAccounts(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	source := &account.Account{ID: uuid.New(), OwnerID: owner, Type: account.TypeDebit, Balance: decimal.NewFromInt(1000)}
	target := &account.Account{ID: uuid.New(), OwnerID: owner, Type: account.TypeCash, Balance: decimal.NewFromInt(500)}
	repo := newFakeRepo(source, target)
	svc := ledger.NewService(repo)

	tx, err := svc.Create(ctx, ledger.CreateParams{
		OwnerID:   owner,
		AccountID: source.ID,
		Amount:    decimal.NewFromInt(200),
		Date:      time.Now(),
	})
	require.NoError(t, err)
	assert.True(t, repo.balance(t, source.ID).Equal(decimal.NewFromInt(800)))

	got, err := svc.Update(ctx, tx.ID, ledger.UpdatePatch{AccountID: &target.ID})
	require.NoError(t, err)
	require.NotNil(t, got.AccountID)
	assert.Equal(t, target.ID, *got.AccountID)

	assert.True(t, repo.balance(t, source.ID).Equal(decimal.NewFromInt(1000)))
	assert.True(t, repo.balance(t, target.ID).Equal(decimal.NewFromInt(300)))
}

func TestUpdate_AmountEditEquivalentToDeleteAndRecreate(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	run := func(edit bool) decimal.Decimal {
		acc := &account.Account{ID: uuid.New(), OwnerID: owner, Type: account.TypeDebit, Balance: decimal.NewFromInt(1000)}
		repo := newFakeRepo(acc)
		svc := ledger.NewService(repo)

		params := ledger.CreateParams{
			OwnerID:   owner,
			AccountID: acc.ID,
			Amount:    decimal.NewFromInt(200),
			Date:      time.Now(),
		}

		tx, err := svc.Create(ctx, params)
		require.NoError(t, err)

		if edit {
			b := decimal.NewFromInt(150)
			_, err = svc.Update(ctx, tx.ID, ledger.UpdatePatch{Amount: &b})
			require.NoError(t, err)
		} else {
			require.NoError(t, svc.Delete(ctx, tx.ID))

			params.Amount = decimal.NewFromInt(150)
			_, err = svc.Create(ctx, params)
			require.NoError(t, err)
		}

		return repo.balance(t, acc.ID)
	}

	edited := run(true)
	recreated := run(false)
	assert.True(t, edited.Equal(recreated), "edit gave %s, delete+recreate gave %s", edited, recreated)
}

func TestCalibrate_RecordsAdjustment(t *testing.T) {
	ctx := context.Background()
	acc := debitAccount(800)
	repo := newFakeRepo(acc)
	svc := ledger.NewService(repo)

	got, err := svc.Calibrate(ctx, acc.ID, decimal.NewFromInt(750), true)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(750)))

	via := ledger.ViaCalibration
	adjustments, err := svc.List(ctx, ledger.ListFilter{Via: &via})
	require.NoError(t, err)
	require.Len(t, adjustments, 1)
	assert.Equal(t, ledger.CategoryAdjustment, adjustments[0].Category)
	// Re-applying the adjustment to the pre-calibration balance reproduces
	// the real one: Delta(debit, 50) = -50, and 800 - 50 = 750.
	assert.True(t, adjustments[0].Amount.Equal(decimal.NewFromInt(50)))

	// Calibrating to the same value again is a no-op either way.
	got, err = svc.Calibrate(ctx, acc.ID, decimal.NewFromInt(750), false)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(750)))

	adjustments, err = svc.List(ctx, ledger.ListFilter{Via: &via})
	require.NoError(t, err)
	assert.Len(t, adjustments, 1)
}

func TestCalibrate_LiabilityAdjustmentSign(t *testing.T) {
	ctx := context.Background()
	acc := &account.Account{ID: uuid.New(), OwnerID: uuid.New(), Type: account.TypeCredit, Balance: decimal.NewFromInt(500)}
	repo := newFakeRepo(acc)
	svc := ledger.NewService(repo)

	_, err := svc.Calibrate(ctx, acc.ID, decimal.NewFromInt(600), true)
	require.NoError(t, err)

	via := ledger.ViaCalibration
	adjustments, err := svc.List(ctx, ledger.ListFilter{Via: &via})
	require.NoError(t, err)
	require.Len(t, adjustments, 1)
	assert.True(t, adjustments[0].Amount.Equal(decimal.NewFromInt(100)))
}

func TestDelete_DetachedTransactionLeavesBalancesAlone(t *testing.T) {
	ctx := context.Background()
	acc := debitAccount(1000)
	repo := newFakeRepo(acc)
	svc := ledger.NewService(repo)

	// A transaction whose account was deleted long ago.
	ghost := uuid.New()
	orphan := &ledger.Transaction{
		ID:        uuid.New(),
		OwnerID:   acc.OwnerID,
		AccountID: &ghost,
		Amount:    decimal.NewFromInt(75),
		Via:       ledger.ViaManual,
	}
	repo.txs[orphan.ID] = orphan

	require.NoError(t, svc.Delete(ctx, orphan.ID))
	assert.True(t, repo.balance(t, acc.ID).Equal(decimal.NewFromInt(1000)))
	assert.Empty(t, repo.txs)
}
