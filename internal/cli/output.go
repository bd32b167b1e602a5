package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Session:
		o.printSession(v)
	case JoinedSessionResponse:
		o.printJoinedSession(v)
	case GuessResponse:
		o.printGuessResponse(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Guess response type (matches API)
type Guess struct {
	Value          string `json:"value"`
	ExactMatches   int    `json:"exact_matches"`
	PartialMatches int    `json:"partial_matches"`
}

// Player response type
type Player struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Ready   bool    `json:"ready"`
	Active  bool    `json:"active"`
	Guesses []Guess `json:"guesses"`
}

// Session response type
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

// SessionResponse wraps a session view
type SessionResponse struct {
	Session Session `json:"session"`
}

// JoinedSessionResponse pairs a session view with our player id
type JoinedSessionResponse struct {
	Session  Session `json:"session"`
	PlayerID string  `json:"player_id"`
}

// GuessResponse is the result of a submitted guess
type GuessResponse struct {
	Guess   Guess   `json:"guess"`
	Winning bool    `json:"winning"`
	Session Session `json:"session"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printSession(s Session) {
	fmt.Printf("Session: %s\n", s.Code)
	fmt.Printf("Phase: %s\n", s.Phase)
	fmt.Printf("Digits: %d\n", s.DigitLength)

	fmt.Printf("Players (%d):\n", len(s.Players))
	for _, p := range s.Players {
		o.printPlayerLine(s, p)
	}

	if s.Winner != nil {
		winnerName := *s.Winner
		for _, p := range s.Players {
			if p.ID == *s.Winner {
				winnerName = p.Name
			}
		}
		fmt.Printf("\nWinner: %s\n", winnerName)
	}
	if s.SecretCode != "" {
		fmt.Printf("Secret: %s\n", s.SecretCode)
	}
}

func (o *Output) printPlayerLine(s Session, p Player) {
	flags := ""
	if p.Ready && s.Phase == "lobby" {
		flags += " [ready]"
	}
	if !p.Active {
		flags += " [away]"
	}
	if s.CurrentPlayerID != nil && p.ID == *s.CurrentPlayerID {
		flags += " [to move]"
	}
	fmt.Printf("  - %s (%s)%s\n", p.Name, p.ID, flags)

	for _, g := range p.Guesses {
		fmt.Printf("      %s -> %d bulls, %d cows\n", g.Value, g.ExactMatches, g.PartialMatches)
	}
}

func (o *Output) printJoinedSession(j JoinedSessionResponse) {
	o.printSession(j.Session)
	fmt.Printf("\nYour player id: %s\n", j.PlayerID)
}

func (o *Output) printGuessResponse(g GuessResponse) {
	fmt.Printf("Guess: %s\n", g.Guess.Value)
	fmt.Printf("Bulls: %d\n", g.Guess.ExactMatches)
	fmt.Printf("Cows: %d\n", g.Guess.PartialMatches)

	if g.Winning {
		fmt.Println("\nYou cracked the code!")
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
