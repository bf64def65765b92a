package rest

import (
	"net/http"

	"schuldenfrei/internal/service"
)

func (h *Handler) userWebSocket(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	h.ws.HandleWebSocket(w, r, userID)
}

func (h *Handler) adminWebSocket(w http.ResponseWriter, r *http.Request) {
	h.ws.HandleWebSocket(w, r, service.AdminOwner)
}
