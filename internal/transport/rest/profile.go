package rest

import "net/http"

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	d, err := h.Profiles.Dashboard(r.Context(), userID)
	if err != nil {
		h.ErrorFrom(w, r, err)
		return
	}
	Success(w, "", d)
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	p, err := h.Profiles.Get(r.Context(), userID)
	if err != nil {
		h.ErrorFrom(w, r, err)
		return
	}
	Success(w, "", p)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	name, err := ValidateProfileUpdate(r)
	if err != nil {
		h.ErrorFrom(w, r, err)
		return
	}

	p, err := h.Profiles.UpdateName(r.Context(), userID, name)
	if err != nil {
		h.ErrorFrom(w, r, err)
		return
	}
	Success(w, "Profil gespeichert.", p)
}
