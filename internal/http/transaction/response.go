package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cuenta/internal/ledger"
)

type transactionResponse struct {
	ID          uuid.UUID       `json:"id"`
	AccountID   *uuid.UUID      `json:"account_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	Date        time.Time       `json:"date"`
	Via         ledger.Via      `json:"via"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}

func toResponse(tx *ledger.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		AccountID:   tx.AccountID,
		Amount:      tx.Amount,
		Category:    tx.Category,
		Description: tx.Description,
		Date:        tx.Date,
		Via:         tx.Via,
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}
}

func toResponseList(txs []*ledger.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
