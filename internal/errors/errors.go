package errors

import "net/http"

// Error kinds. Every failure produced by the core carries one of these so
// the transport layer can map it without inspecting messages.
const (
	KindNotFound           = "NOT_FOUND"
	KindForbidden          = "FORBIDDEN"
	KindUnauthorized       = "UNAUTHORIZED"
	KindInvalidTransition  = "INVALID_TRANSITION"
	KindPreconditionFailed = "PRECONDITION_FAILED"
	KindConflict           = "CONFLICT"
	KindValidation         = "VALIDATION"
	KindStorage            = "STORAGE"
)

// APIError is the application error type. Status is the HTTP status the
// boundary responds with; Internal is the wrapped cause and is never
// serialized.
type APIError struct {
	Kind     string `json:"kind"`
	Status   int    `json:"-"`
	Message  string `json:"error"`
	Internal error  `json:"-"`
}

func (e *APIError) Error() string {
	if e.Internal != nil {
		return e.Message + ": " + e.Internal.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Internal
}

func newAPIError(kind string, status int, message string, err error) *APIError {
	return &APIError{Kind: kind, Status: status, Message: message, Internal: err}
}

func NotFound(message string, err error) *APIError {
	return newAPIError(KindNotFound, http.StatusNotFound, message, err)
}

func Forbidden(message string, err error) *APIError {
	return newAPIError(KindForbidden, http.StatusForbidden, message, err)
}

func Unauthorized(message string, err error) *APIError {
	return newAPIError(KindUnauthorized, http.StatusUnauthorized, message, err)
}

// InvalidTransition covers state-machine rule violations, including a
// missing cancellation reason. Reported as a client error.
func InvalidTransition(message string, err error) *APIError {
	return newAPIError(KindInvalidTransition, http.StatusBadRequest, message, err)
}

// PreconditionFailed means the signing-completeness requirement was not met.
func PreconditionFailed(message string, err error) *APIError {
	return newAPIError(KindPreconditionFailed, http.StatusConflict, message, err)
}

func Conflict(message string, err error) *APIError {
	return newAPIError(KindConflict, http.StatusConflict, message, err)
}

func Validation(message string, err error) *APIError {
	return newAPIError(KindValidation, http.StatusBadRequest, message, err)
}

// Storage wraps a persistence failure. Not retried by the core.
func Storage(err error) *APIError {
	return newAPIError(KindStorage, http.StatusInternalServerError, "Internal server error", err)
}
