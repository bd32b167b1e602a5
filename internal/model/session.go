package model

import (
	"encoding/json"
	"time"
)

// SessionCode is the short, shareable identifier for joining sessions.
// Codes are lowercase alphanumeric and stable for the session's lifetime.
type SessionCode string

// PlayerID uniquely identifies a player within a session
type PlayerID string

// Phase represents the derived lifecycle phase of a session
type Phase string

const (
	PhaseLobby      Phase = "lobby"       // Waiting for players to ready up
	PhaseInProgress Phase = "in_progress" // Game running, guesses accepted
	PhaseFinished   Phase = "finished"    // Winner declared, awaiting reset
)

// DigitLengths are the permitted secret code lengths
var DigitLengths = []int{4, 5, 6}

// ValidDigitLength reports whether n is a permitted secret length
func ValidDigitLength(n int) bool {
	for _, l := range DigitLengths {
		if n == l {
			return true
		}
	}
	return false
}

// Guess is one scored guess in a player's history
type Guess struct {
	Value          string `json:"value"`
	ExactMatches   int    `json:"exactMatches"`
	PartialMatches int    `json:"partialMatches"`
}

// Player is a participant embedded in a GameSession.
// Turn order is the order of the session's players slice.
type Player struct {
	ID      PlayerID `json:"id"`
	Name    string   `json:"name"`
	Ready   bool     `json:"ready"`
	Active  bool     `json:"active"`
	Guesses []Guess  `json:"guesses"`
}

// UnmarshalJSON treats a missing "active" field as true, so player records
// written before the presence flag existed still count as connected.
func (p *Player) UnmarshalJSON(data []byte) error {
	type alias Player
	aux := struct {
		Active *bool `json:"active"`
		*alias
	}{alias: (*alias)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	p.Active = aux.Active == nil || *aux.Active
	return nil
}

// GameSession is the single shared record for one game. Every client
// mutation produces a full next-state record which is written through the
// storage layer; Version is the compare-and-swap token that rejects writes
// computed from a stale base record.
type GameSession struct {
	Code               SessionCode `json:"id"`
	SecretCode         string      `json:"secretCode"`
	DigitLength        int         `json:"digitLength"`
	Players            []Player    `json:"players"`
	CurrentPlayerIndex int         `json:"currentPlayerIndex"`
	GameStarted        bool        `json:"gameStarted"`
	Winner             *PlayerID   `json:"winner"`
	Version            int64       `json:"version"`
	CreatedAt          time.Time   `json:"createdAt"`
	UpdatedAt          time.Time   `json:"updatedAt"`
}

// Phase derives the session phase from the stored flags
func (s *GameSession) Phase() Phase {
	switch {
	case s.Winner != nil:
		return PhaseFinished
	case s.GameStarted:
		return PhaseInProgress
	default:
		return PhaseLobby
	}
}

// FindPlayer returns the player with the given ID, or nil if not present
func (s *GameSession) FindPlayer(id PlayerID) *Player {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// CurrentPlayer returns the player whose turn it is, or nil if the session
// has no players
func (s *GameSession) CurrentPlayer() *Player {
	if len(s.Players) == 0 {
		return nil
	}
	return &s.Players[s.CurrentPlayerIndex]
}

// IsTurnOf reports whether it is the given player's turn
func (s *GameSession) IsTurnOf(id PlayerID) bool {
	current := s.CurrentPlayer()
	return current != nil && current.ID == id
}

// AdvanceTurn moves the turn pointer to the next player in join order,
// wrapping at the end. Inactive players are not skipped; a blocked turn is
// resolved by reconnection or (pre-game) removal, not by the scheduler.
func (s *GameSession) AdvanceTurn() {
	if len(s.Players) == 0 {
		return
	}
	s.CurrentPlayerIndex = (s.CurrentPlayerIndex + 1) % len(s.Players)
}

// ActivePlayerCount returns the number of players marked active
func (s *GameSession) ActivePlayerCount() int {
	count := 0
	for i := range s.Players {
		if s.Players[i].Active {
			count++
		}
	}
	return count
}

// AllActiveReady reports whether every active player is ready
func (s *GameSession) AllActiveReady() bool {
	for i := range s.Players {
		if s.Players[i].Active && !s.Players[i].Ready {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the session
func (s *GameSession) Clone() *GameSession {
	clone := *s
	if s.Winner != nil {
		w := *s.Winner
		clone.Winner = &w
	}
	clone.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		clone.Players[i] = p
		clone.Players[i].Guesses = append([]Guess(nil), p.Guesses...)
	}
	return &clone
}
