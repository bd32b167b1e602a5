package session

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/mcoot/cowsbulls-go/internal/dependencies/clock"
	"github.com/mcoot/cowsbulls-go/internal/dependencies/random"
	"github.com/mcoot/cowsbulls-go/internal/model"
	"github.com/mcoot/cowsbulls-go/internal/services/scoring"
	"github.com/mcoot/cowsbulls-go/internal/services/secret"
	"github.com/mcoot/cowsbulls-go/internal/storage"
)

const (
	// SessionCodeLength is the length of generated session codes
	SessionCodeLength = 6
	// SessionCodeAlphabet is the characters used in session codes (avoid confusing chars)
	SessionCodeAlphabet = "abcdefghjkmnpqrstuvwxyz23456789"

	// DefaultDigitLength is used when a creator does not pick a length
	DefaultDigitLength = 4

	// MinPlayersToStart is the active-player threshold for starting a game
	MinPlayersToStart = 2

	// maxUpdateAttempts bounds the re-read/re-apply loop on version conflicts
	maxUpdateAttempts = 3
)

// Controller manages the session lifecycle: presence, readiness, turn
// order and guessing. Every mutation re-reads the current record, applies
// the change in memory, and commits with a conditional write; a conflicting
// concurrent commit triggers a bounded retry against the fresh record.
type Controller struct {
	storage storage.Storage
	secrets secret.GeneratorInterface
	scoring scoring.ServiceInterface
	clock   clock.Clock
	random  random.Random
}

// NewController creates a new session Controller
func NewController(
	storage storage.Storage,
	secrets secret.GeneratorInterface,
	scoring scoring.ServiceInterface,
	clock clock.Clock,
	random random.Random,
) *Controller {
	return &Controller{
		storage: storage,
		secrets: secrets,
		scoring: scoring,
		clock:   clock,
		random:  random,
	}
}

// GuessResult pairs a scored guess with the session state it produced
type GuessResult struct {
	Guess   model.Guess
	Winning bool
	Session *model.GameSession
}

// CreateSession creates a new session with the creator as its first player.
// A digitLength of 0 selects the default.
func (c *Controller) CreateSession(ctx context.Context, name string, digitLength int) (*model.GameSession, model.PlayerID, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, "", model.ErrNameRequired
	}
	if digitLength == 0 {
		digitLength = DefaultDigitLength
	}
	if !model.ValidDigitLength(digitLength) {
		return nil, "", model.ErrInvalidDigitLength
	}

	secretCode, err := c.secrets.Generate(digitLength)
	if err != nil {
		return nil, "", err
	}

	// Generate unique session code
	var code model.SessionCode
	for {
		code = model.SessionCode(c.random.String(SessionCodeLength, SessionCodeAlphabet))
		exists, err := c.storage.SessionExists(ctx, code)
		if err != nil {
			return nil, "", err
		}
		if !exists {
			break
		}
	}

	now := c.clock.Now()
	playerID := model.PlayerID(uuid.NewString())
	session := &model.GameSession{
		Code:        code,
		SecretCode:  secretCode,
		DigitLength: digitLength,
		Players: []model.Player{
			{
				ID:      playerID,
				Name:    name,
				Active:  true,
				Guesses: []model.Guess{},
			},
		},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storage.CreateSession(ctx, session); err != nil {
		return nil, "", err
	}

	return session, playerID, nil
}

// GetSession retrieves a session by code
func (c *Controller) GetSession(ctx context.Context, code model.SessionCode) (*model.GameSession, error) {
	return c.storage.GetSession(ctx, code)
}

// JoinSession adds a player to a session. If rememberedID names an
// existing player, that player is reactivated instead of creating a new
// one; a remembered id that no longer exists falls back to a fresh join.
func (c *Controller) JoinSession(ctx context.Context, code model.SessionCode, name string, rememberedID model.PlayerID) (*model.GameSession, model.PlayerID, error) {
	var playerID model.PlayerID

	session, err := c.mutate(ctx, code, func(session *model.GameSession) error {
		if rememberedID != "" {
			if player := session.FindPlayer(rememberedID); player != nil {
				player.Active = true
				playerID = player.ID
				return nil
			}
		}

		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return model.ErrNameRequired
		}

		playerID = model.PlayerID(uuid.NewString())
		session.Players = append(session.Players, model.Player{
			ID:      playerID,
			Name:    trimmed,
			Active:  true,
			Guesses: []model.Guess{},
		})
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	return session, playerID, nil
}

// ToggleReady flips the player's ready flag. When every active player is
// ready and enough of them are present, the game starts with the first
// player to move.
func (c *Controller) ToggleReady(ctx context.Context, code model.SessionCode, playerID model.PlayerID) (*model.GameSession, error) {
	return c.mutate(ctx, code, func(session *model.GameSession) error {
		player := session.FindPlayer(playerID)
		if player == nil {
			return model.ErrPlayerNotFound
		}

		player.Ready = !player.Ready

		if !session.GameStarted && session.Winner == nil &&
			session.ActivePlayerCount() >= MinPlayersToStart && session.AllActiveReady() {
			session.GameStarted = true
			session.CurrentPlayerIndex = 0
		}
		return nil
	})
}

// SubmitGuess scores a guess for the player whose turn it is. The turn
// advances whether or not the guess wins; a winning guess additionally
// records the player as the winner, ending the game.
func (c *Controller) SubmitGuess(ctx context.Context, code model.SessionCode, playerID model.PlayerID, value string) (*GuessResult, error) {
	result := &GuessResult{}

	session, err := c.mutate(ctx, code, func(session *model.GameSession) error {
		if !session.GameStarted {
			return model.ErrGameNotStarted
		}
		if session.Winner != nil {
			return model.ErrGameFinished
		}

		player := session.FindPlayer(playerID)
		if player == nil {
			return model.ErrPlayerNotFound
		}
		if !session.IsTurnOf(playerID) {
			return model.ErrNotPlayerTurn
		}

		if err := c.scoring.ValidateGuess(value, session.DigitLength); err != nil {
			return err
		}

		guess := c.scoring.Score(session.SecretCode, value)
		player.Guesses = append(player.Guesses, guess)

		result.Guess = guess
		result.Winning = c.scoring.IsWinning(guess, session.DigitLength)
		if result.Winning {
			id := playerID
			session.Winner = &id
		}

		session.AdvanceTurn()
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Session = session
	return result, nil
}

// Reset returns a started session to the lobby with a fresh secret.
// Guesses, readiness, the winner and the turn pointer are cleared; the
// player roster and presence flags are kept.
func (c *Controller) Reset(ctx context.Context, code model.SessionCode, playerID model.PlayerID) (*model.GameSession, error) {
	return c.mutate(ctx, code, func(session *model.GameSession) error {
		if session.FindPlayer(playerID) == nil {
			return model.ErrPlayerNotFound
		}
		if !session.GameStarted {
			return model.ErrGameNotStarted
		}

		secretCode, err := c.secrets.Generate(session.DigitLength)
		if err != nil {
			return err
		}

		session.SecretCode = secretCode
		session.GameStarted = false
		session.Winner = nil
		session.CurrentPlayerIndex = 0
		for i := range session.Players {
			session.Players[i].Ready = false
			session.Players[i].Guesses = []model.Guess{}
		}
		return nil
	})
}

// RemovePlayer removes another player from a session that has not yet
// started. Players leave on their own via ExitSession.
func (c *Controller) RemovePlayer(ctx context.Context, code model.SessionCode, requesterID, targetID model.PlayerID) (*model.GameSession, error) {
	return c.mutate(ctx, code, func(session *model.GameSession) error {
		if session.FindPlayer(requesterID) == nil {
			return model.ErrPlayerNotFound
		}
		if session.Phase() != model.PhaseLobby {
			return model.ErrGameAlreadyStarted
		}
		if requesterID == targetID {
			return model.ErrCannotRemoveSelf
		}

		for i := range session.Players {
			if session.Players[i].ID == targetID {
				session.Players = append(session.Players[:i], session.Players[i+1:]...)
				if session.CurrentPlayerIndex >= len(session.Players) {
					session.CurrentPlayerIndex = 0
				}
				return nil
			}
		}
		return model.ErrPlayerNotFound
	})
}

// ExitSession marks the player inactive. Their seat, guesses and turn
// position are kept so a later join with the same id picks up where they
// left off.
func (c *Controller) ExitSession(ctx context.Context, code model.SessionCode, playerID model.PlayerID) (*model.GameSession, error) {
	return c.mutate(ctx, code, func(session *model.GameSession) error {
		player := session.FindPlayer(playerID)
		if player == nil {
			return model.ErrPlayerNotFound
		}
		player.Active = false
		return nil
	})
}

// mutate runs the read/apply/commit loop for a session mutation. fn sees a
// private copy and may mutate it freely; errors from fn abort without
// retrying. Only version conflicts retry.
func (c *Controller) mutate(ctx context.Context, code model.SessionCode, fn func(*model.GameSession) error) (*model.GameSession, error) {
	var lastErr error
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		session, err := c.storage.GetSession(ctx, code)
		if err != nil {
			return nil, err
		}

		if err := fn(session); err != nil {
			return nil, err
		}

		session.UpdatedAt = c.clock.Now()
		err = c.storage.UpdateSession(ctx, session)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, model.ErrVersionConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateSession(ctx context.Context, name string, digitLength int) (*model.GameSession, model.PlayerID, error)
	GetSession(ctx context.Context, code model.SessionCode) (*model.GameSession, error)
	JoinSession(ctx context.Context, code model.SessionCode, name string, rememberedID model.PlayerID) (*model.GameSession, model.PlayerID, error)
	ToggleReady(ctx context.Context, code model.SessionCode, playerID model.PlayerID) (*model.GameSession, error)
	SubmitGuess(ctx context.Context, code model.SessionCode, playerID model.PlayerID, value string) (*GuessResult, error)
	Reset(ctx context.Context, code model.SessionCode, playerID model.PlayerID) (*model.GameSession, error)
	RemovePlayer(ctx context.Context, code model.SessionCode, requesterID, targetID model.PlayerID) (*model.GameSession, error)
	ExitSession(ctx context.Context, code model.SessionCode, playerID model.PlayerID) (*model.GameSession, error)
}

var _ ControllerInterface = (*Controller)(nil)
