package storage

import (
	"context"

	"github.com/mcoot/cowsbulls-go/internal/model"
)

// UpdateFunc receives committed session records for a subscription
type UpdateFunc func(session *model.GameSession)

// UnsubscribeFunc cancels a subscription. Safe to call more than once.
type UnsubscribeFunc func()

// Storage defines the interface for session persistence and change
// notification
type Storage interface {
	// CreateSession stores a new session record.
	// Returns model.ErrSessionExists if the code is already taken.
	CreateSession(ctx context.Context, session *model.GameSession) error

	// GetSession returns the current record for the given code.
	// Returns model.ErrSessionNotFound if it does not exist.
	GetSession(ctx context.Context, code model.SessionCode) (*model.GameSession, error)

	// UpdateSession replaces the stored record, but only if the stored
	// version still equals session.Version. On success the version is
	// bumped (reflected in session.Version) and subscribers are notified;
	// if another writer committed first it returns
	// model.ErrVersionConflict and the store is unchanged.
	UpdateSession(ctx context.Context, session *model.GameSession) error

	// SessionExists reports whether a record exists for the given code
	SessionExists(ctx context.Context, code model.SessionCode) (bool, error)

	// SubscribeSession registers fn to receive every subsequently
	// committed record for the session. Delivery is asynchronous and fn
	// must not block for long. The subscription ends when the returned
	// unsubscribe is called.
	SubscribeSession(ctx context.Context, code model.SessionCode, fn UpdateFunc) (UnsubscribeFunc, error)
}
