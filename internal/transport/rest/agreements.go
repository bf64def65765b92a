package rest

import (
	"net/http"

	"schuldenfrei/internal/letter"
	"schuldenfrei/internal/service"
)

func (h *Handler) listAgreements(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	list, err := h.Agreements.List(r.Context(), userID, optionalQuery(r, "debt_id"))
	if err != nil {
		h.ErrorFrom(w, r, err)
		return
	}
	Success(w, "", list)
}

func (h *Handler) listTemplates(w http.ResponseWriter, r *http.Request) {
	Success(w, "", h.Agreements.Templates())
}

func (h *Handler) createAgreement(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var in service.CreateAgreementInput
	if err := decodeJSON(r, &in); err != nil {
		h.ErrorFrom(w, r, err)
		return
	}
	if in.DebtID != nil && *in.DebtID == "" {
		in.DebtID = nil
	}

	res, err := h.Agreements.Create(r.Context(), userID, in)
	if err != nil {
		h.ErrorFrom(w, r, err)
		return
	}
	SuccessCreated(w, "Vereinbarung gespeichert.", res)
}

// renderLetter answers with a printable HTML page, not the JSON envelope.
func (h *Handler) renderLetter(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.userID(w, r); !ok {
		return
	}

	var doc letter.Document
	if err := decodeJSON(r, &doc); err != nil {
		h.ErrorFrom(w, r, err)
		return
	}

	page, err := h.Agreements.Render(doc)
	if err != nil {
		h.ErrorFrom(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(page); err != nil {
		h.log.Warn("write letter failed", "err", err)
	}
}
