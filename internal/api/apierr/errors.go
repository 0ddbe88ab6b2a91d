package apierr

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mcoot/memorygame-go/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeInvalidDifficulty    = "INVALID_DIFFICULTY"
	CodeMissingRequiredField = "MISSING_REQUIRED_FIELD"
	CodeDuplicateCardIndex   = "DUPLICATE_CARD_INDEX"
	CodeCardIndexOutOfBounds = "CARD_INDEX_OUT_OF_BOUNDS"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeForbidden            = "FORBIDDEN"
	CodeNotGameOwner         = "NOT_GAME_OWNER"
	CodeGameNotFound         = "GAME_NOT_FOUND"
	CodeGameNotActive        = "GAME_NOT_ACTIVE"
	CodeInternalError        = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// StatusOf returns the HTTP status code an error is reported with
func StatusOf(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrInvalidDifficulty):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidDifficulty, "Invalid difficulty"}}
	case errors.Is(err, model.ErrMissingRequiredField):
		return &httpError{http.StatusBadRequest, APIError{CodeMissingRequiredField, missingFieldMessage(err)}}
	case errors.Is(err, model.ErrDuplicateCardIndex):
		return &httpError{http.StatusBadRequest, APIError{CodeDuplicateCardIndex, "Cannot select the same card twice"}}
	case errors.Is(err, model.ErrCardIndexOutOfBounds):
		return &httpError{http.StatusBadRequest, APIError{CodeCardIndexOutOfBounds, "Card index out of bounds"}}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game does not exist"}}
	case errors.Is(err, model.ErrNotGameOwner):
		return &httpError{http.StatusForbidden, APIError{CodeNotGameOwner, "Not the game player"}}
	case errors.Is(err, model.ErrGameNotActive):
		return &httpError{http.StatusConflict, APIError{CodeGameNotActive, "Game is not active"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// missingFieldMessage keeps the field name the history service wrapped into the error
func missingFieldMessage(err error) string {
	field := strings.TrimPrefix(err.Error(), model.ErrMissingRequiredField.Error())
	field = strings.TrimPrefix(field, ": ")
	if field == "" {
		return "Missing required fields"
	}
	return "Missing required fields: " + field
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Player identity required"}}
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError(message string) error {
	return &httpError{http.StatusForbidden, APIError{CodeForbidden, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
