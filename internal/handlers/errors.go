package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Alan16168/review-system-sub000/internal/service"
)

// statusForKind maps a service error kind to its HTTP status
func statusForKind(kind service.Kind) int {
	switch kind {
	case service.KindInvalidInput, service.KindInvalidState:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindPermissionDenied:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// respondWithServiceError writes err as {"error": message}. Internal errors
// are already logged by the service and get a generic message.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	kind := service.KindOf(err)
	status := statusForKind(kind)

	if kind == service.KindInternal {
		respondWithError(w, status, ErrMsgInternal)
		return
	}
	if kind == service.KindInvalidInput {
		respondWithBadRequest(w, r, service.MessageOf(err))
		return
	}

	respondWithError(w, status, service.MessageOf(err))
}

// respondWithBadRequest logs the rejection at warn and writes 400
func respondWithBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	slog.Warn("Rejected request", "method", r.Method, "path", r.URL.Path, "error", message)
	respondWithError(w, http.StatusBadRequest, message)
}
