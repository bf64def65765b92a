package rest

import (
	"net/http"
	"strings"

	"schuldenfrei/internal/domain"
)

type adminLoginRequest struct {
	User string `json:"user"`
	Pass string `json:"pass"`
}

func (h *Handler) adminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ErrorFrom(w, r, err)
		return
	}
	if req.User == "" || req.Pass == "" {
		ErrorBadRequest(w, "Benutzername und Passwort erforderlich.")
		return
	}

	if !h.adminAuth.ValidateCredentials(req.User, req.Pass) {
		h.log.Warn("admin login rejected", "ip", r.RemoteAddr)
		ErrorUnauthorized(w, "Ungültige Zugangsdaten.")
		return
	}

	token, expires, err := h.adminAuth.IssueToken()
	if err != nil {
		h.ErrorFrom(w, r, err)
		return
	}
	h.adminAuth.SetCookie(w, token, expires)

	h.log.Info("admin logged in", "ip", r.RemoteAddr)
	Success(w, "", map[string]bool{"ok": true})
}

func (h *Handler) adminLogout(w http.ResponseWriter, r *http.Request) {
	h.adminAuth.ClearCookie(w)
	Success(w, "", map[string]bool{"ok": true})
}

func (h *Handler) adminSearch(w http.ResponseWriter, r *http.Request) {
	results, err := h.Admin.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.ErrorFrom(w, r, err)
		return
	}
	Success(w, "", map[string]interface{}{"results": results})
}

func (h *Handler) adminOverview(w http.ResponseWriter, r *http.Request) {
	ov, err := h.Admin.Overview(r.Context())
	if err != nil {
		h.ErrorFrom(w, r, err)
		return
	}
	Success(w, "", ov)
}

func (h *Handler) adminCustomer(w http.ResponseWriter, r *http.Request) {
	data, err := h.Admin.Customer(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		h.ErrorFrom(w, r, err)
		return
	}
	Success(w, "", data)
}

type adminActionRequest struct {
	Action       string `json:"action"`
	UserID       string `json:"user_id"`
	Plan         string `json:"plan"`
	PremiumUntil string `json:"premium_until"`
}

func (h *Handler) adminAction(w http.ResponseWriter, r *http.Request) {
	var req adminActionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ErrorFrom(w, r, err)
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.Action == "" || req.UserID == "" {
		ErrorBadRequest(w, "Fehlende Parameter.")
		return
	}

	ctx := r.Context()

	switch req.Action {
	case "set_plan":
		until, err := parseDay("premium_until", req.PremiumUntil, "Ungültiges Datumsformat (YYYY-MM-DD erwartet).")
		if err != nil {
			h.ErrorFrom(w, r, err)
			return
		}
		if err := h.Admin.SetPlan(ctx, req.UserID, domain.Plan(req.Plan), until); err != nil {
			h.ErrorFrom(w, r, err)
			return
		}
		Success(w, "Plan auf "+req.Plan+" gesetzt.", map[string]bool{"ok": true})

	case "export_data":
		exp, err := h.Admin.ExportData(ctx, req.UserID)
		if err != nil {
			h.ErrorFrom(w, r, err)
			return
		}
		Success(w, "", map[string]interface{}{"export": exp})

	case "export_xlsx":
		exportID, err := h.Admin.ExportXLSX(ctx, req.UserID)
		if err != nil {
			h.ErrorFrom(w, r, err)
			return
		}
		SuccessAccepted(w, "Export gestartet.", map[string]interface{}{"export_id": exportID})

	default:
		ErrorBadRequest(w, "Unbekannte Aktion.")
	}
}
