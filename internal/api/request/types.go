package request

// CreateSessionRequest is the request body for creating a session
type CreateSessionRequest struct {
	Name        string `json:"name"`
	DigitLength int    `json:"digit_length,omitempty"`
}

// JoinSessionRequest is the request body for joining a session.
// PlayerID carries a remembered id from a previous visit; when it still
// names a player in the session, that player is reconnected instead of
// adding a new one.
type JoinSessionRequest struct {
	Name     string `json:"name"`
	PlayerID string `json:"player_id,omitempty"`
}

// GuessRequest is the request body for submitting a guess
type GuessRequest struct {
	Value string `json:"value"`
}
