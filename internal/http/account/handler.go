package account

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cuenta/internal/account"
	"github.com/MrJamesThe3rd/cuenta/internal/http/auth"
	"github.com/MrJamesThe3rd/cuenta/internal/ledger"
)

type Handler struct {
	accounts *account.Service
	ledger   *ledger.Service
}

func NewHandler(accounts *account.Service, l *ledger.Service) *Handler {
	return &Handler{accounts: accounts, ledger: l}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/calibrate", h.calibrate)
	r.Post("/{id}/default", h.setDefault)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, account.ErrNameRequired),
		errors.Is(err, account.ErrInvalidType),
		errors.Is(err, account.ErrLimitNotAllowed):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, account.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, account.ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

type accountResponse struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Type        account.Type     `json:"type"`
	Balance     decimal.Decimal  `json:"balance"`
	CreditLimit *decimal.Decimal `json:"credit_limit,omitempty"`
	IsDefault   bool             `json:"is_default"`
	Color       string           `json:"color,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   *time.Time       `json:"updated_at,omitempty"`
}

func toResponse(acc *account.Account) accountResponse {
	return accountResponse{
		ID:          acc.ID,
		Name:        acc.Name,
		Type:        acc.Type,
		Balance:     acc.Balance,
		CreditLimit: acc.CreditLimit,
		IsDefault:   acc.IsDefault,
		Color:       acc.Color,
		CreatedAt:   acc.CreatedAt,
		UpdatedAt:   acc.UpdatedAt,
	}
}

type createAccountRequest struct {
	Name           string           `json:"name"`
	Type           account.Type     `json:"type"`
	InitialBalance decimal.Decimal  `json:"initial_balance"`
	CreditLimit    *decimal.Decimal `json:"credit_limit,omitempty"`
	Color          string           `json:"color,omitempty"`
	IsDefault      bool             `json:"is_default,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.OwnerID(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	acc, err := h.accounts.Create(r.Context(), account.CreateParams{
		OwnerID:        owner,
		Name:           req.Name,
		Type:           req.Type,
		InitialBalance: req.InitialBalance,
		CreditLimit:    req.CreditLimit,
		Color:          req.Color,
		IsDefault:      req.IsDefault,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(acc)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.OwnerID(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	accs, err := h.accounts.List(r.Context(), owner)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]accountResponse, len(accs))
	for i, acc := range accs {
		resp[i] = toResponse(acc)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// ownedAccount resolves the path id to one of the caller's accounts.
func (h *Handler) ownedAccount(w http.ResponseWriter, r *http.Request) (*account.Account, bool) {
	owner, ok := auth.OwnerID(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return nil, false
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return nil, false
	}

	acc, err := h.accounts.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return nil, false
	}

	if acc.OwnerID != owner {
		http.Error(w, "account not found", http.StatusNotFound)
		return nil, false
	}

	return acc, true
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	acc, ok := h.ownedAccount(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(acc)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateAccountRequest struct {
	Name        *string          `json:"name,omitempty"`
	Color       *string          `json:"color,omitempty"`
	CreditLimit *decimal.Decimal `json:"credit_limit,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	acc, ok := h.ownedAccount(w, r)
	if !ok {
		return
	}

	var req updateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.accounts.Update(r.Context(), acc.ID, account.UpdatePatch{
		Name:        req.Name,
		Color:       req.Color,
		CreditLimit: req.CreditLimit,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(updated)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	acc, ok := h.ownedAccount(w, r)
	if !ok {
		return
	}

	if err := h.accounts.Delete(r.Context(), acc.ID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type calibrateRequest struct {
	RealBalance      decimal.Decimal `json:"real_balance"`
	RecordAdjustment bool            `json:"record_adjustment"`
}

func (h *Handler) calibrate(w http.ResponseWriter, r *http.Request) {
	acc, ok := h.ownedAccount(w, r)
	if !ok {
		return
	}

	var req calibrateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	calibrated, err := h.ledger.Calibrate(r.Context(), acc.ID, req.RealBalance, req.RecordAdjustment)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(calibrated)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) setDefault(w http.ResponseWriter, r *http.Request) {
	acc, ok := h.ownedAccount(w, r)
	if !ok {
		return
	}

	if err := h.accounts.SetDefault(r.Context(), acc.ID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
