package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"schuldenfrei/internal/letter"
	"schuldenfrei/internal/service"
)

type APIResponse struct {
	ErrorCode int         `json:"error_code"`
	Status    string      `json:"status"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
}

func Response(w http.ResponseWriter, message string, data interface{}, errorCode int, status string, httpStatus int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	response := APIResponse{
		ErrorCode: errorCode,
		Status:    status,
		Message:   message,
		Data:      data,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Warn("write response failed", "err", err)
	}
}

func Success(w http.ResponseWriter, message string, data interface{}) {
	Response(w, message, data, 0, "success", http.StatusOK)
}

func SuccessCreated(w http.ResponseWriter, message string, data interface{}) {
	Response(w, message, data, 0, "success", http.StatusCreated)
}

func SuccessAccepted(w http.ResponseWriter, message string, data interface{}) {
	Response(w, message, data, 0, "success", http.StatusAccepted)
}

func Error(w http.ResponseWriter, message string, errorCode int, httpStatus int) {
	Response(w, message, nil, errorCode, "error", httpStatus)
}

func ErrorBadRequest(w http.ResponseWriter, message string) {
	Error(w, message, 400, http.StatusBadRequest)
}

func ErrorUnauthorized(w http.ResponseWriter, message string) {
	Error(w, message, 401, http.StatusUnauthorized)
}

func ErrorPaymentRequired(w http.ResponseWriter, message string) {
	Error(w, message, 402, http.StatusPaymentRequired)
}

func ErrorForbidden(w http.ResponseWriter, message string) {
	Error(w, message, 403, http.StatusForbidden)
}

func ErrorNotFound(w http.ResponseWriter, message string) {
	Error(w, message, 404, http.StatusNotFound)
}

func ErrorInternal(w http.ResponseWriter, message string) {
	Error(w, message, 500, http.StatusInternalServerError)
}

// ErrorFrom maps service and validation errors to a response. Anything it
// does not recognise is logged and reported as an internal error.
func (h *Handler) ErrorFrom(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr  *ValidationError
		ferr  *letter.FieldError
		limit *service.LimitError
	)

	switch {
	case errors.As(err, &verr):
		ErrorBadRequest(w, verr.Message)
	case errors.As(err, &ferr):
		ErrorBadRequest(w, ferr.Message+".")
	case errors.As(err, &limit):
		ErrorForbidden(w, fmt.Sprintf("Du hast das Limit von %d Schulden erreicht. Upgrade auf Premium für unbegrenzte Einträge.", limit.Limit))
	case errors.Is(err, service.ErrInvalidInput):
		ErrorBadRequest(w, strings.TrimPrefix(err.Error(), service.ErrInvalidInput.Error()+": "))
	case errors.Is(err, service.ErrNotFound):
		ErrorNotFound(w, "Nicht gefunden.")
	case errors.Is(err, service.ErrPremiumRequired):
		ErrorPaymentRequired(w, "Diese Funktion ist nur mit Premium verfügbar.")
	case errors.Is(err, service.ErrForbidden):
		ErrorForbidden(w, "Keine Berechtigung.")
	default:
		h.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		ErrorInternal(w, "Interner Fehler.")
	}
}
