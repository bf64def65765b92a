package rest

import (
	"net/http"

	"schuldenfrei/internal/domain"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) budgetSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	s, err := h.Budget.Summary(r.Context(), userID)
	if err != nil {
		h.ErrorFrom(w, r, err)
		return
	}
	Success(w, "", s)
}

func (h *Handler) listBudget(kind domain.BudgetKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := h.userID(w, r)
		if !ok {
			return
		}

		entries, err := h.Budget.List(r.Context(), kind, userID)
		if err != nil {
			h.ErrorFrom(w, r, err)
			return
		}
		Success(w, "", entries)
	}
}

func (h *Handler) createBudget(kind domain.BudgetKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := h.userID(w, r)
		if !ok {
			return
		}

		in, err := ValidateBudgetEntry(r)
		if err != nil {
			h.ErrorFrom(w, r, err)
			return
		}

		e, err := h.Budget.Create(r.Context(), kind, userID, in)
		if err != nil {
			h.ErrorFrom(w, r, err)
			return
		}
		SuccessCreated(w, "Eintrag gespeichert.", e)
	}
}

func (h *Handler) deleteBudget(kind domain.BudgetKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := h.userID(w, r)
		if !ok {
			return
		}

		if err := h.Budget.Delete(r.Context(), kind, userID, chi.URLParam(r, "id")); err != nil {
			h.ErrorFrom(w, r, err)
			return
		}
		Success(w, "Eintrag gelöscht.", nil)
	}
}
