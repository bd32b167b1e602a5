package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/cowsbulls-go/internal/model"
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
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeSessionNotFound    = "SESSION_NOT_FOUND"
	CodeSessionExists      = "SESSION_EXISTS"
	CodePlayerNotFound     = "PLAYER_NOT_FOUND"
	CodeNameRequired       = "NAME_REQUIRED"
	CodeInvalidDigitLength = "INVALID_DIGIT_LENGTH"
	CodeGameAlreadyStarted = "GAME_ALREADY_STARTED"
	CodeGameNotStarted     = "GAME_NOT_STARTED"
	CodeGameFinished       = "GAME_FINISHED"
	CodeNotYourTurn        = "NOT_YOUR_TURN"
	CodeWrongGuessLength   = "WRONG_GUESS_LENGTH"
	CodeGuessNotDigits     = "GUESS_NOT_DIGITS"
	CodeRepeatedDigit      = "REPEATED_DIGIT"
	CodeCannotRemoveSelf   = "CANNOT_REMOVE_SELF"
	CodeConflict           = "CONFLICT"
	CodeInternalError      = "INTERNAL_ERROR"
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

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "Session not found"}}
	case errors.Is(err, model.ErrSessionExists):
		return &httpError{http.StatusConflict, APIError{CodeSessionExists, "Session already exists"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found in this session"}}
	case errors.Is(err, model.ErrNameRequired):
		return &httpError{http.StatusBadRequest, APIError{CodeNameRequired, "A player name is required"}}
	case errors.Is(err, model.ErrInvalidDigitLength):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidDigitLength, "Digit length must be 4, 5 or 6"}}
	case errors.Is(err, model.ErrGameAlreadyStarted):
		return &httpError{http.StatusConflict, APIError{CodeGameAlreadyStarted, "Game has already started"}}
	case errors.Is(err, model.ErrGameNotStarted):
		return &httpError{http.StatusConflict, APIError{CodeGameNotStarted, "Game has not started"}}
	case errors.Is(err, model.ErrGameFinished):
		return &httpError{http.StatusConflict, APIError{CodeGameFinished, "Game is already finished"}}
	case errors.Is(err, model.ErrNotPlayerTurn):
		return &httpError{http.StatusForbidden, APIError{CodeNotYourTurn, "Not your turn"}}
	case errors.Is(err, model.ErrWrongGuessLength):
		return &httpError{http.StatusBadRequest, APIError{CodeWrongGuessLength, "Guess has the wrong length"}}
	case errors.Is(err, model.ErrGuessNotDigits):
		return &httpError{http.StatusBadRequest, APIError{CodeGuessNotDigits, "Guess must contain only digits"}}
	case errors.Is(err, model.ErrRepeatedDigit):
		return &httpError{http.StatusBadRequest, APIError{CodeRepeatedDigit, "Guess must not repeat digits"}}
	case errors.Is(err, model.ErrCannotRemoveSelf):
		return &httpError{http.StatusForbidden, APIError{CodeCannotRemoveSelf, "Use exit to leave the session"}}
	case errors.Is(err, model.ErrVersionConflict):
		return &httpError{http.StatusConflict, APIError{CodeConflict, "Session was modified concurrently, try again"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "A player id is required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
