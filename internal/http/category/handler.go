package category

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cuenta/internal/category"
	"github.com/MrJamesThe3rd/cuenta/internal/http/auth"
)

type Handler struct {
	svc *category.Service
}

func NewHandler(svc *category.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.ensure)
}

type categoryResponse struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	System bool      `json:"system"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.OwnerID(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	cats, err := h.svc.List(r.Context(), owner)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := make([]categoryResponse, len(cats))
	for i, c := range cats {
		resp[i] = categoryResponse{ID: c.ID, Name: c.Name, System: c.OwnerID == nil}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type ensureCategoryRequest struct {
	Name string `json:"name"`
}

func (h *Handler) ensure(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.OwnerID(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req ensureCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Name == "" {
		http.Error(w, "name required", http.StatusBadRequest)
		return
	}

	c, err := h.svc.Ensure(r.Context(), owner, req.Name)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(categoryResponse{ID: c.ID, Name: c.Name, System: c.OwnerID == nil}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
