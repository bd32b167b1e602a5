package handler

import (
	"net/http"

	"github.com/mcoot/cowsbulls-go/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest     = apierr.CodeInvalidRequest
	CodeUnauthorized       = apierr.CodeUnauthorized
	CodeSessionNotFound    = apierr.CodeSessionNotFound
	CodeSessionExists      = apierr.CodeSessionExists
	CodePlayerNotFound     = apierr.CodePlayerNotFound
	CodeNameRequired       = apierr.CodeNameRequired
	CodeInvalidDigitLength = apierr.CodeInvalidDigitLength
	CodeGameAlreadyStarted = apierr.CodeGameAlreadyStarted
	CodeGameNotStarted     = apierr.CodeGameNotStarted
	CodeGameFinished       = apierr.CodeGameFinished
	CodeNotYourTurn        = apierr.CodeNotYourTurn
	CodeWrongGuessLength   = apierr.CodeWrongGuessLength
	CodeGuessNotDigits     = apierr.CodeGuessNotDigits
	CodeRepeatedDigit      = apierr.CodeRepeatedDigit
	CodeCannotRemoveSelf   = apierr.CodeCannotRemoveSelf
	CodeConflict           = apierr.CodeConflict
	CodeInternalError      = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return apierr.NewUnauthorizedError()
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}
