package identity

import (
	"github.com/mcoot/cowsbulls-go/internal/model"
)

// Store remembers which player id this client holds in each session,
// so a returning client can rejoin as the same player.
type Store interface {
	// Remember records the player id handed out for a session.
	Remember(code model.SessionCode, playerID model.PlayerID) error
	// Recall returns the remembered player id for a session, or ""
	// when none is known.
	Recall(code model.SessionCode) (model.PlayerID, error)
	// Forget discards the remembered player id for a session.
	Forget(code model.SessionCode) error
}
