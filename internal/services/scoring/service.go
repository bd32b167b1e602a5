package scoring

import (
	"strings"

	"github.com/mcoot/cowsbulls-go/internal/model"
)

// Service validates and scores guesses against a secret code
type Service struct{}

// NewService creates a new scoring Service
func NewService() *Service {
	return &Service{}
}

// ValidateGuess checks the shape of a guess: exactly digitLength
// characters, all digits, no repeats. Returns a sentinel error for the
// first rule violated.
func (s *Service) ValidateGuess(guess string, digitLength int) error {
	if len(guess) != digitLength {
		return model.ErrWrongGuessLength
	}

	var seen [10]bool
	for i := 0; i < len(guess); i++ {
		ch := guess[i]
		if ch < '0' || ch > '9' {
			return model.ErrGuessNotDigits
		}
		d := ch - '0'
		if seen[d] {
			return model.ErrRepeatedDigit
		}
		seen[d] = true
	}
	return nil
}

// Score evaluates a validated guess against the secret. A digit in the
// right position counts as exact; a digit present in the secret at a
// different position counts as partial. Both strings have unique digits
// so membership alone decides partials.
func (s *Service) Score(secret, guess string) model.Guess {
	result := model.Guess{Value: guess}
	for i := 0; i < len(guess); i++ {
		switch {
		case guess[i] == secret[i]:
			result.ExactMatches++
		case strings.IndexByte(secret, guess[i]) >= 0:
			result.PartialMatches++
		}
	}
	return result
}

// IsWinning reports whether the scored guess matched the whole secret
func (s *Service) IsWinning(guess model.Guess, digitLength int) bool {
	return guess.ExactMatches == digitLength
}

// Interface for dependency injection
type ServiceInterface interface {
	ValidateGuess(guess string, digitLength int) error
	Score(secret, guess string) model.Guess
	IsWinning(guess model.Guess, digitLength int) bool
}

var _ ServiceInterface = (*Service)(nil)
