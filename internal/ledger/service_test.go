package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/cuenta/internal/account"
	"github.com/MrJamesThe3rd/cuenta/internal/ledger"
)

func debitAccount(balance int64) *account.Account {
	return &account.Account{
		ID:      uuid.New(),
		OwnerID: uuid.New(),
		Name:    "Cuenta Nómina",
		Type:    account.TypeDebit,
		Balance: decimal.NewFromInt(balance),
	}
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		amount    decimal.Decimal
		setupMock func(m *ledger.MockRepository, acc *account.Account)
		wantErr   error
	}

	validationErr := &ledger.ValidationError{}

	tests := []testCase{
		{
			name:   "Success",
			amount: decimal.NewFromInt(200),
			setupMock: func(m *ledger.MockRepository, acc *account.Account) {
				m.EXPECT().GetAccount(gomock.Any(), acc.ID).Return(acc, nil)
				m.EXPECT().
					SaveAccount(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, saved *account.Account) error {
						assert.True(t, saved.Balance.Equal(decimal.NewFromInt(800)))
						return nil
					})
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *ledger.Transaction) error {
						tx.ID = uuid.New()
						tx.CreatedAt = time.Now()
						return nil
					})
			},
		},
		{
			name:      "ZeroAmountRejectedBeforeAnyWrite",
			amount:    decimal.Zero,
			setupMock: func(m *ledger.MockRepository, acc *account.Account) {},
			wantErr:   validationErr,
		},
		{
			name:   "AccountNotFound",
			amount: decimal.NewFromInt(200),
			setupMock: func(m *ledger.MockRepository, acc *account.Account) {
				m.EXPECT().GetAccount(gomock.Any(), acc.ID).Return(nil, account.ErrNotFound)
			},
			wantErr: account.ErrNotFound,
		},
		{
			name:   "ConflictSurfaced",
			amount: decimal.NewFromInt(200),
			setupMock: func(m *ledger.MockRepository, acc *account.Account) {
				m.EXPECT().GetAccount(gomock.Any(), acc.ID).Return(acc, nil)
				m.EXPECT().SaveAccount(gomock.Any(), gomock.Any()).Return(account.ErrConflict)
			},
			wantErr: account.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			acc := debitAccount(1000)
			repo := ledger.NewMockRepository(ctrl)
			tt.setupMock(repo, acc)

			svc := ledger.NewService(repo)
			got, err := svc.Create(context.Background(), ledger.CreateParams{
				OwnerID:   acc.OwnerID,
				AccountID: acc.ID,
				Amount:    tt.amount,
				Category:  "Comida",
				Date:      time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
			})

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Nil(t, got)

				var vErr *ledger.ValidationError
				if errors.As(tt.wantErr, &vErr) {
					assert.ErrorAs(t, err, &vErr)
				} else {
					assert.ErrorIs(t, err, tt.wantErr)
				}

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, ledger.ViaManual, got.Via)
		})
	}
}

func TestService_Create_RollsBackBalanceWhenRecordFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	acc := debitAccount(1000)
	repo := ledger.NewMockRepository(ctrl)

	repo.EXPECT().GetAccount(gomock.Any(), acc.ID).Return(acc, nil)

	gomock.InOrder(
		repo.EXPECT().
			SaveAccount(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, saved *account.Account) error {
				assert.True(t, saved.Balance.Equal(decimal.NewFromInt(800)))
				return nil
			}),
		repo.EXPECT().
			CreateTransaction(gomock.Any(), gomock.Any()).
			Return(errors.New("store unreachable")),
		repo.EXPECT().
			SaveAccount(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, saved *account.Account) error {
				assert.True(t, saved.Balance.Equal(decimal.NewFromInt(1000)))
				return nil
			}),
	)

	svc := ledger.NewService(repo)
	_, err := svc.Create(context.Background(), ledger.CreateParams{
		OwnerID:   acc.OwnerID,
		AccountID: acc.ID,
		Amount:    decimal.NewFromInt(200),
	})
	require.Error(t, err)
}

func TestService_Update_MoveRollsBackWhenTargetWriteFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	source := debitAccount(800)
	target := &account.Account{
		ID:      uuid.New(),
		OwnerID: source.OwnerID,
		Name:    "Efectivo",
		Type:    account.TypeCash,
		Balance: decimal.NewFromInt(500),
	}

	tx := &ledger.Transaction{
		ID:        uuid.New(),
		OwnerID:   source.OwnerID,
		AccountID: &source.ID,
		Amount:    decimal.NewFromInt(200),
		Category:  "Comida",
		Via:       ledger.ViaManual,
	}

	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)
	repo.EXPECT().GetAccount(gomock.Any(), target.ID).Return(target, nil)
	repo.EXPECT().GetAccount(gomock.Any(), source.ID).Return(source, nil)

	gomock.InOrder(
		// Reversal on the source lands first.
		repo.EXPECT().
			SaveAccount(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, saved *account.Account) error {
				assert.Equal(t, source.ID, saved.ID)
				assert.True(t, saved.Balance.Equal(decimal.NewFromInt(1000)))
				return nil
			}),
		// The target write fails with a conflict.
		repo.EXPECT().
			SaveAccount(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, saved *account.Account) error {
				assert.Equal(t, target.ID, saved.ID)
				assert.True(t, saved.Balance.Equal(decimal.NewFromInt(300)))
				return account.ErrConflict
			}),
		// The reversal is compensated so the ledger never diverges.
		repo.EXPECT().
			SaveAccount(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, saved *account.Account) error {
				assert.Equal(t, source.ID, saved.ID)
				assert.True(t, saved.Balance.Equal(decimal.NewFromInt(800)))
				return nil
			}),
	)

	svc := ledger.NewService(repo)
	_, err := svc.Update(context.Background(), tx.ID, ledger.UpdatePatch{AccountID: &target.ID})
	assert.ErrorIs(t, err, account.ErrConflict)
}

func TestService_Delete_ToleratesMissingAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accountID := uuid.New()
	tx := &ledger.Transaction{
		ID:        uuid.New(),
		AccountID: &accountID,
		Amount:    decimal.NewFromInt(75),
	}

	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)
	repo.EXPECT().GetAccount(gomock.Any(), accountID).Return(nil, account.ErrNotFound)
	repo.EXPECT().DeleteTransaction(gomock.Any(), tx.ID).Return(nil)

	svc := ledger.NewService(repo)
	require.NoError(t, svc.Delete(context.Background(), tx.ID))
}

func TestService_Calibrate_NoWritesWhenBalancesMatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	acc := debitAccount(750)
	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().GetAccount(gomock.Any(), acc.ID).Return(acc, nil)

	svc := ledger.NewService(repo)
	got, err := svc.Calibrate(context.Background(), acc.ID, decimal.NewFromInt(750), true)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(750)))
}
