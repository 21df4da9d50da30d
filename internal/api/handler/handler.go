// internal/api/handler/handler.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"share-ledger/internal/auth"
	"share-ledger/internal/util"
)

// DefaultTimeout bounds request handling; no operation here is long-running.
const DefaultTimeout = 30 * time.Second

// respondWithJSON marshals payload and writes it with the given status code.
func respondWithJSON(logger *slog.Logger, w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithError maps service errors to HTTP status codes. Unknown errors
// become opaque 500s; sentinel errors keep their message.
func respondWithError(logger *slog.Logger, w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrInvalidInput),
		util.IsError(err, util.ErrNoParticipants),
		util.IsError(err, util.ErrInvalidAmount),
		util.IsError(err, util.ErrSelfRepayment):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrInvalidCredentials),
		util.IsError(err, auth.ErrInvalidToken),
		util.IsError(err, auth.ErrMissingToken):
		statusCode = http.StatusUnauthorized
		message = err.Error()
	case util.IsError(err, util.ErrNotFound),
		util.IsError(err, util.ErrAccountNotFound),
		util.IsError(err, util.ErrBillNotFound):
		statusCode = http.StatusNotFound
		message = "Resource not found"
	case util.IsError(err, util.ErrDuplicateEntry):
		statusCode = http.StatusConflict
		message = err.Error()
	case util.IsError(err, util.ErrIntegrityViolation):
		statusCode = http.StatusUnprocessableEntity
		message = err.Error()
	default:
		logger.Error("Unhandled service error", "error", err)
	}

	respondWithJSON(logger, w, statusCode, map[string]string{"error": message})
}
