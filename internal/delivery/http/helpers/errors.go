package helpers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"institutebackend/internal/domain"
)

// Client-facing messages for classified store failures.
const (
	MsgStoreAccessDenied = "Database access denied - check credentials"
	MsgStoreUnavailable  = "Database connection refused - is the database running?"
	MsgInternal          = "Internal server error"
)

// ErrorWriter maps domain errors to HTTP responses. Details of server-side failures
// are included only when ExposeDetails is set.
type ErrorWriter struct {
	Logger        *slog.Logger
	ExposeDetails bool
}

// NewErrorWriter returns an ErrorWriter. Details are exposed outside production.
func NewErrorWriter(logger *slog.Logger, production bool) *ErrorWriter {
	return &ErrorWriter{Logger: logger, ExposeDetails: !production}
}

// Write responds with the status and message matching err.
func (e *ErrorWriter) Write(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, ve.Message)
	case errors.Is(err, domain.ErrValidation):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Invalid email or password")
	case errors.Is(err, domain.ErrUnauthorized):
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Invalid or expired token")
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, "Resource not found")
	case errors.Is(err, domain.ErrDuplicateEmail):
		WriteJSONError(w, http.StatusConflict, ErrCodeConflict, "Email already in use")
	case errors.Is(err, domain.ErrStoreAccessDenied):
		e.internal(w, r, err, MsgStoreAccessDenied)
	case errors.Is(err, domain.ErrStoreUnavailable):
		e.internal(w, r, err, MsgStoreUnavailable)
	default:
		e.internal(w, r, err, MsgInternal)
	}
}

// WriteNotFound writes a 404 with a resource specific message when err is ErrNotFound,
// and falls back to Write otherwise.
func (e *ErrorWriter) WriteNotFound(w http.ResponseWriter, r *http.Request, err error, message string) {
	if errors.Is(err, domain.ErrNotFound) {
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, message)
		return
	}
	e.Write(w, r, err)
}

// Internal writes a 500 with message, logging err.
func (e *ErrorWriter) Internal(w http.ResponseWriter, r *http.Request, err error, message string) {
	e.internal(w, r, err, message)
}

func (e *ErrorWriter) internal(w http.ResponseWriter, r *http.Request, err error, message string) {
	if e.Logger != nil {
		e.Logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
	}
	if e.ExposeDetails {
		WriteJSONErrorDetails(w, http.StatusInternalServerError, ErrCodeInternalError, message, err.Error())
		return
	}
	WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, message)
}
