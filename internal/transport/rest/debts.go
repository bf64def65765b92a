package rest

import (
	"net/http"

	"schuldenfrei/internal/aggregate"

	"github.com/go-chi/chi/v5"
)

// listDebts takes ?filter=all|active|urgent|done|pending and ?category=.
func (h *Handler) listDebts(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	filter, category, ok := listScope(w, r)
	if !ok {
		return
	}

	list, err := h.Debts.List(r.Context(), userID, filter, category)
	if err != nil {
		h.ErrorFrom(w, r, err)
		return
	}
	Success(w, "", list)
}

// listScope reads ?filter= and ?category=, answering 400 for unknown values.
func listScope(w http.ResponseWriter, r *http.Request) (aggregate.ListFilter, aggregate.Category, bool) {
	q := r.URL.Query()
	filter, ok := aggregate.ParseListFilter(q.Get("filter"))
	if !ok {
		ErrorBadRequest(w, "Unbekannter Filter.")
		return "", "", false
	}

	var category aggregate.Category
	if raw := q.Get("category"); raw != "" {
		if category, ok = aggregate.ParseCategory(raw); !ok {
			ErrorBadRequest(w, "Unbekannte Kategorie.")
			return "", "", false
		}
	}
	return filter, category, true
}

func (h *Handler) getDebt(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	d, err := h.Debts.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		h.ErrorFrom(w, r, err)
		return
	}
	Success(w, "", d)
}

func (h *Handler) createDebt(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	in, err := ValidateDebtCreate(r)
	if err != nil {
		h.ErrorFrom(w, r, err)
		return
	}

	v, err := h.Debts.Create(r.Context(), userID, in)
	if err != nil {
		h.ErrorFrom(w, r, err)
		return
	}
	SuccessCreated(w, "Schuld angelegt.", v)
}

func (h *Handler) updateDebt(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	u, err := ValidateDebtUpdate(r)
	if err != nil {
		h.ErrorFrom(w, r, err)
		return
	}

	v, err := h.Debts.Update(r.Context(), userID, chi.URLParam(r, "id"), u)
	if err != nil {
		h.ErrorFrom(w, r, err)
		return
	}
	Success(w, "Schuld gespeichert.", v)
}

func (h *Handler) deleteDebt(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.Debts.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		h.ErrorFrom(w, r, err)
		return
	}
	Success(w, "Schuld gelöscht.", nil)
}
