package model

import "errors"

// Common errors used across the application
var (
	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExists   = errors.New("session already exists")
	ErrVersionConflict = errors.New("session was modified concurrently")

	// Player / presence errors
	ErrPlayerNotFound     = errors.New("player not found in session")
	ErrNameRequired       = errors.New("player name must not be empty")
	ErrCannotRemoveSelf   = errors.New("players cannot remove themselves")
	ErrInvalidDigitLength = errors.New("digit length must be 4, 5 or 6")

	// Game state errors
	ErrGameAlreadyStarted = errors.New("game has already started")
	ErrGameNotStarted     = errors.New("game has not started")
	ErrGameFinished       = errors.New("game is already finished")

	// Guess validation errors
	ErrNotPlayerTurn    = errors.New("not this player's turn")
	ErrWrongGuessLength = errors.New("guess has the wrong length")
	ErrGuessNotDigits   = errors.New("guess must contain only digits")
	ErrRepeatedDigit    = errors.New("guess must not repeat digits")
)
