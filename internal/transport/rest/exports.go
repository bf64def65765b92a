package rest

import (
	"net/http"
	"strings"

	"schuldenfrei/internal/service"

	"github.com/go-chi/chi/v5"
)

// exportOverview takes the same ?filter= and ?category= as the debt list.
func (h *Handler) exportOverview(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	filter, category, ok := listScope(w, r)
	if !ok {
		return
	}

	exportID, err := h.Exports.StartOverview(r.Context(), userID, service.Scope{Filter: filter, Category: category})
	if err != nil {
		h.ErrorFrom(w, r, err)
		return
	}

	SuccessAccepted(w, "Export gestartet.", map[string]interface{}{
		"export_id": exportID,
	})
}

func (h *Handler) listExports(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	h.writeExports(w, r, userID)
}

func (h *Handler) getExport(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	h.writeExport(w, r, userID)
}

func (h *Handler) adminListExports(w http.ResponseWriter, r *http.Request) {
	h.writeExports(w, r, service.AdminOwner)
}

func (h *Handler) adminGetExport(w http.ResponseWriter, r *http.Request) {
	h.writeExport(w, r, service.AdminOwner)
}

func (h *Handler) writeExports(w http.ResponseWriter, r *http.Request, owner string) {
	exports, err := h.Exports.List(r.Context(), owner)
	if err != nil {
		h.ErrorFrom(w, r, err)
		return
	}
	Success(w, "", exports)
}

// writeExport accepts the export id with or without its "exports:" prefix.
func (h *Handler) writeExport(w http.ResponseWriter, r *http.Request, owner string) {
	exportIDParam := chi.URLParam(r, "export_id")
	if exportIDParam == "" {
		ErrorBadRequest(w, "export_id is required")
		return
	}
	exportID := exportIDParam
	if !strings.HasPrefix(exportID, "exports:") {
		exportID = "exports:" + exportIDParam
	}

	export, err := h.Exports.Get(r.Context(), owner, exportID)
	if err != nil {
		h.ErrorFrom(w, r, err)
		return
	}
	Success(w, "", export)
}
