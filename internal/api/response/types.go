package response

import (
	"time"

	"github.com/mcoot/cowsbulls-go/internal/model"
)

// Guess represents a scored guess in API responses
type Guess struct {
	Value          string `json:"value"`
	ExactMatches   int    `json:"exact_matches"`
	PartialMatches int    `json:"partial_matches"`
}

// GuessFromModel converts a model.Guess to a response Guess
func GuessFromModel(g model.Guess) Guess {
	return Guess{
		Value:          g.Value,
		ExactMatches:   g.ExactMatches,
		PartialMatches: g.PartialMatches,
	}
}

// Player represents a player in API responses
type Player struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Ready   bool    `json:"ready"`
	Active  bool    `json:"active"`
	Guesses []Guess `json:"guesses"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	guesses := make([]Guess, len(p.Guesses))
	for i, g := range p.Guesses {
		guesses[i] = GuessFromModel(g)
	}
	return Player{
		ID:      string(p.ID),
		Name:    p.Name,
		Ready:   p.Ready,
		Active:  p.Active,
		Guesses: guesses,
	}
}

// Session is the shared view of a session. The secret code is withheld
// until the game is finished.
type Session struct {
	Code            string    `json:"code"`
	Phase           string    `json:"phase"`
	DigitLength     int       `json:"digit_length"`
	Players         []Player  `json:"players"`
	CurrentPlayerID *string   `json:"current_player_id"`
	Winner          *string   `json:"winner"`
	SecretCode      string    `json:"secret_code,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SessionFromModel converts a model.GameSession to its redacted view
func SessionFromModel(s *model.GameSession) Session {
	players := make([]Player, len(s.Players))
	for i := range s.Players {
		players[i] = PlayerFromModel(&s.Players[i])
	}

	var currentPlayerID *string
	if s.Phase() == model.PhaseInProgress {
		if current := s.CurrentPlayer(); current != nil {
			id := string(current.ID)
			currentPlayerID = &id
		}
	}

	var winner *string
	var secretCode string
	if s.Winner != nil {
		w := string(*s.Winner)
		winner = &w
		// The secret is only revealed once the game is over
		secretCode = s.SecretCode
	}

	return Session{
		Code:            string(s.Code),
		Phase:           string(s.Phase()),
		DigitLength:     s.DigitLength,
		Players:         players,
		CurrentPlayerID: currentPlayerID,
		Winner:          winner,
		SecretCode:      secretCode,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// SessionResponse is the response for session state endpoints
type SessionResponse struct {
	Session Session `json:"session"`
}

// JoinedSessionResponse is the response for create and join, pairing the
// session view with the caller's player id to remember
type JoinedSessionResponse struct {
	Session  Session `json:"session"`
	PlayerID string  `json:"player_id"`
}

// GuessResponse is the response after submitting a guess
type GuessResponse struct {
	Guess   Guess   `json:"guess"`
	Winning bool    `json:"winning"`
	Session Session `json:"session"`
}
