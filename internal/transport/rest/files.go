package rest

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) downloadFile(w http.ResponseWriter, r *http.Request) {
	path, original, err := h.files.Open(chi.URLParam(r, "file"))
	if errors.Is(err, fs.ErrNotExist) {
		ErrorNotFound(w, "Datei nicht gefunden.")
		return
	}
	if err != nil {
		h.ErrorFrom(w, r, err)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", original))
	http.ServeFile(w, r, path)
}
