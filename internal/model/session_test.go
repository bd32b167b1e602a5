package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhase(t *testing.T) {
	winner := PlayerID("p1")

	tests := []struct {
		name    string
		session GameSession
		want    Phase
	}{
		{"new session", GameSession{}, PhaseLobby},
		{"started", GameSession{GameStarted: true}, PhaseInProgress},
		{"won", GameSession{GameStarted: true, Winner: &winner}, PhaseFinished},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.session.Phase())
		})
	}
}

func TestAdvanceTurnWraps(t *testing.T) {
	session := GameSession{
		Players: []Player{{ID: "a"}, {ID: "b"}, {ID: "c"}},
	}

	assert.True(t, session.IsTurnOf("a"))

	session.AdvanceTurn()
	assert.True(t, session.IsTurnOf("b"))

	session.AdvanceTurn()
	session.AdvanceTurn()
	assert.True(t, session.IsTurnOf("a"))
}

func TestAdvanceTurnEmptySession(t *testing.T) {
	session := GameSession{}
	session.AdvanceTurn()
	assert.Equal(t, 0, session.CurrentPlayerIndex)
	assert.Nil(t, session.CurrentPlayer())
}

func TestAllActiveReadyIgnoresInactive(t *testing.T) {
	session := GameSession{
		Players: []Player{
			{ID: "a", Active: true, Ready: true},
			{ID: "b", Active: false, Ready: false},
			{ID: "c", Active: true, Ready: true},
		},
	}

	assert.True(t, session.AllActiveReady())
	assert.Equal(t, 2, session.ActivePlayerCount())

	session.Players[2].Ready = false
	assert.False(t, session.AllActiveReady())
}

func TestPlayerUnmarshalActiveDefault(t *testing.T) {
	tests := []struct {
		name string
		data string
		want bool
	}{
		{"absent defaults true", `{"id":"p1","name":"alice"}`, true},
		{"explicit true", `{"id":"p1","name":"alice","active":true}`, true},
		{"explicit false", `{"id":"p1","name":"alice","active":false}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Player
			require.NoError(t, json.Unmarshal([]byte(tt.data), &p))
			assert.Equal(t, tt.want, p.Active)
			assert.Equal(t, PlayerID("p1"), p.ID)
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	winner := PlayerID("p1")
	session := &GameSession{
		Code:        "abc123",
		SecretCode:  "1234",
		DigitLength: 4,
		Winner:      &winner,
		Players: []Player{
			{ID: "p1", Name: "alice", Guesses: []Guess{{Value: "1234", ExactMatches: 4}}},
		},
	}

	clone := session.Clone()
	clone.Players[0].Name = "bob"
	clone.Players[0].Guesses[0].Value = "9999"
	*clone.Winner = "p2"

	assert.Equal(t, "alice", session.Players[0].Name)
	assert.Equal(t, "1234", session.Players[0].Guesses[0].Value)
	assert.Equal(t, PlayerID("p1"), *session.Winner)
}

func TestValidDigitLength(t *testing.T) {
	for _, n := range []int{4, 5, 6} {
		assert.True(t, ValidDigitLength(n))
	}
	for _, n := range []int{0, 3, 7, -1} {
		assert.False(t, ValidDigitLength(n))
	}
}
