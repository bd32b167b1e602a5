package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/cowsbulls-go/internal/model"
)

func TestScore(t *testing.T) {
	service := NewService()

	tests := []struct {
		name        string
		secret      string
		guess       string
		wantExact   int
		wantPartial int
	}{
		{"full match", "1234", "1234", 4, 0},
		{"no overlap", "1234", "5678", 0, 0},
		{"all digits misplaced", "1234", "4321", 0, 4},
		{"two exact two swapped", "1234", "1243", 2, 2},
		{"single exact", "1234", "1567", 1, 0},
		{"single partial", "1234", "4567", 0, 1},
		{"longer secret", "123456", "654321", 0, 6},
		{"five digit mix", "01234", "01243", 3, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := service.Score(tt.secret, tt.guess)
			assert.Equal(t, tt.guess, result.Value)
			assert.Equal(t, tt.wantExact, result.ExactMatches, "exact")
			assert.Equal(t, tt.wantPartial, result.PartialMatches, "partial")
		})
	}
}

func TestValidateGuess(t *testing.T) {
	service := NewService()

	tests := []struct {
		name        string
		guess       string
		digitLength int
		wantErr     error
	}{
		{"valid", "1234", 4, nil},
		{"valid with zero", "0987", 4, nil},
		{"too short", "123", 4, model.ErrWrongGuessLength},
		{"too long", "12345", 4, model.ErrWrongGuessLength},
		{"empty", "", 4, model.ErrWrongGuessLength},
		{"letters", "12a4", 4, model.ErrGuessNotDigits},
		{"repeated digit", "1224", 4, model.ErrRepeatedDigit},
		{"length checked before digits", "abc", 4, model.ErrWrongGuessLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.ValidateGuess(tt.guess, tt.digitLength)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestIsWinning(t *testing.T) {
	service := NewService()

	assert.True(t, service.IsWinning(model.Guess{ExactMatches: 4}, 4))
	assert.False(t, service.IsWinning(model.Guess{ExactMatches: 3, PartialMatches: 1}, 4))
	assert.False(t, service.IsWinning(model.Guess{ExactMatches: 4}, 5))
}
