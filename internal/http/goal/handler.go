package goal

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
	"github.com/MrJamesThe3rd/cuenta/internal/goal"
	"github.com/MrJamesThe3rd/cuenta/internal/http/auth"
	"github.com/MrJamesThe3rd/cuenta/internal/ledger"
)

type Handler struct {
	svc *goal.Service
}

func NewHandler(svc *goal.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/contribute", h.contribute)
	r.Get("/{id}/progress", h.progress)
}

func writeError(w http.ResponseWriter, err error) {
	var vErr *ledger.ValidationError

	switch {
	case errors.As(err, &vErr):
		http.Error(w, vErr.Error(), http.StatusBadRequest)
	case errors.Is(err, goal.ErrNotFound), errors.Is(err, account.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, account.ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, goal.ErrInsufficientSelection):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

type goalResponse struct {
	ID                  uuid.UUID       `json:"id"`
	Name                string          `json:"name"`
	TargetAmount        decimal.Decimal `json:"target_amount"`
	CurrentAmount       decimal.Decimal `json:"current_amount"`
	Deadline            time.Time       `json:"deadline"`
	MonthlyContribution decimal.Decimal `json:"monthly_contribution"`
	Color               string          `json:"color,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           *time.Time      `json:"updated_at,omitempty"`
}

func toResponse(g *goal.Goal) goalResponse {
	return goalResponse{
		ID:                  g.ID,
		Name:                g.Name,
		TargetAmount:        g.TargetAmount,
		CurrentAmount:       g.CurrentAmount,
		Deadline:            g.Deadline,
		MonthlyContribution: g.MonthlyContribution,
		Color:               g.Color,
		CreatedAt:           g.CreatedAt,
		UpdatedAt:           g.UpdatedAt,
	}
}

type createGoalRequest struct {
	Name                string          `json:"name"`
	TargetAmount        decimal.Decimal `json:"target_amount"`
	Deadline            time.Time       `json:"deadline"`
	MonthlyContribution decimal.Decimal `json:"monthly_contribution"`
	Color               string          `json:"color,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.OwnerID(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req createGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g, err := h.svc.Create(r.Context(), goal.CreateParams{
		OwnerID:             owner,
		Name:                req.Name,
		TargetAmount:        req.TargetAmount,
		Deadline:            req.Deadline,
		MonthlyContribution: req.MonthlyContribution,
		Color:               req.Color,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(g)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.OwnerID(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	goals, err := h.svc.List(r.Context(), owner)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]goalResponse, len(goals))
	for i, g := range goals {
		resp[i] = toResponse(g)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) ownedGoal(w http.ResponseWriter, r *http.Request) (*goal.Goal, bool) {
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

	g, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return nil, false
	}

	if g.OwnerID != owner {
		http.Error(w, "goal not found", http.StatusNotFound)
		return nil, false
	}

	return g, true
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	g, ok := h.ownedGoal(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(g)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateGoalRequest struct {
	Name                *string          `json:"name,omitempty"`
	TargetAmount        *decimal.Decimal `json:"target_amount,omitempty"`
	CurrentAmount       *decimal.Decimal `json:"current_amount,omitempty"`
	Deadline            *time.Time       `json:"deadline,omitempty"`
	MonthlyContribution *decimal.Decimal `json:"monthly_contribution,omitempty"`
	Color               *string          `json:"color,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	g, ok := h.ownedGoal(w, r)
	if !ok {
		return
	}

	var req updateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.svc.Update(r.Context(), g.ID, goal.UpdatePatch{
		Name:                req.Name,
		TargetAmount:        req.TargetAmount,
		CurrentAmount:       req.CurrentAmount,
		Deadline:            req.Deadline,
		MonthlyContribution: req.MonthlyContribution,
		Color:               req.Color,
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
	g, ok := h.ownedGoal(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), g.ID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type contributeRequest struct {
	SourceAccountID uuid.UUID       `json:"source_account_id"`
	Amount          decimal.Decimal `json:"amount"`
}

type contributeResponse struct {
	TransactionID uuid.UUID    `json:"transaction_id"`
	Goal          goalResponse `json:"goal"`
}

func (h *Handler) contribute(w http.ResponseWriter, r *http.Request) {
	g, ok := h.ownedGoal(w, r)
	if !ok {
		return
	}

	var req contributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, updated, err := h.svc.Contribute(r.Context(), g.ID, req.SourceAccountID, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(contributeResponse{TransactionID: tx.ID, Goal: toResponse(updated)}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type progressResponse struct {
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Derived       decimal.Decimal `json:"derived"`
}

func (h *Handler) progress(w http.ResponseWriter, r *http.Request) {
	g, ok := h.ownedGoal(w, r)
	if !ok {
		return
	}

	derived, err := h.svc.DeriveProgress(r.Context(), g.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(progressResponse{CurrentAmount: g.CurrentAmount, Derived: derived}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
