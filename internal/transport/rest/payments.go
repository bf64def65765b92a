package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	payments, err := h.Payments.List(r.Context(), userID, optionalQuery(r, "debt_id"))
	if err != nil {
		h.ErrorFrom(w, r, err)
		return
	}
	Success(w, "", payments)
}

func (h *Handler) createPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	in, err := ValidatePaymentCreate(r, h.now())
	if err != nil {
		h.ErrorFrom(w, r, err)
		return
	}

	p, err := h.Payments.Create(r.Context(), userID, in)
	if err != nil {
		h.ErrorFrom(w, r, err)
		return
	}
	SuccessCreated(w, "Zahlung gebucht.", p)
}

func (h *Handler) deletePayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.Payments.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		h.ErrorFrom(w, r, err)
		return
	}
	Success(w, "Zahlung gelöscht.", nil)
}

func (h *Handler) timeline(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	tl, err := h.Payments.Timeline(r.Context(), userID)
	if err != nil {
		h.ErrorFrom(w, r, err)
		return
	}
	Success(w, "", tl)
}
