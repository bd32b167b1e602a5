package sse

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/mcoot/cowsbulls-go/internal/api/response"
	"github.com/mcoot/cowsbulls-go/internal/model"
	"github.com/mcoot/cowsbulls-go/internal/storage"
)

// SessionUpdateEvent is the SSE event name for committed session records
const SessionUpdateEvent = "session-update"

// sessionWatch is one storage subscription plus the number of connections
// holding it open
type sessionWatch struct {
	refs        int
	unsubscribe storage.UnsubscribeFunc
}

// Broadcaster relays committed session records from the storage layer to
// the session's SSE hub. One storage subscription is held per session with
// at least one connected client, whichever backend the store runs on.
type Broadcaster struct {
	store      storage.Storage
	hubManager *HubManager
	logger     *slog.Logger

	mu      sync.Mutex
	watches map[model.SessionCode]*sessionWatch
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(store storage.Storage, hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		store:      store,
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
		watches:    make(map[model.SessionCode]*sessionWatch),
	}
}

// Connect returns the hub for a session and takes a reference on its
// storage watch, starting the watch for the first connection. Every
// Connect must be paired with exactly one Release.
func (b *Broadcaster) Connect(ctx context.Context, code model.SessionCode) (*Hub, error) {
	hub := b.hubManager.GetOrCreateHub(code)

	b.mu.Lock()
	defer b.mu.Unlock()

	if w, ok := b.watches[code]; ok {
		w.refs++
		return hub, nil
	}

	unsubscribe, err := b.store.SubscribeSession(ctx, code, func(session *model.GameSession) {
		b.broadcastSession(session)
	})
	if err != nil {
		return nil, err
	}

	b.watches[code] = &sessionWatch{refs: 1, unsubscribe: unsubscribe}
	b.logger.Info("session watch started", slog.String("session", string(code)))
	return hub, nil
}

// Release drops one connection's reference; the watch and hub are torn
// down when the last one goes. The count lives here rather than in hub
// client state, so a connection between Connect and Register can never
// have the hub closed from under it.
func (b *Broadcaster) Release(code model.SessionCode) {
	b.mu.Lock()
	w, ok := b.watches[code]
	if !ok {
		b.mu.Unlock()
		return
	}
	w.refs--
	if w.refs > 0 {
		b.mu.Unlock()
		return
	}
	delete(b.watches, code)
	b.mu.Unlock()

	w.unsubscribe()
	b.logger.Info("session watch stopped", slog.String("session", string(code)))
	b.hubManager.RemoveHub(code)
}

// broadcastSession pushes the redacted view of a committed record to the
// session's hub
func (b *Broadcaster) broadcastSession(session *model.GameSession) {
	hub := b.hubManager.GetHub(session.Code)
	if hub == nil {
		return
	}

	view := response.SessionFromModel(session)
	data, err := json.Marshal(view)
	if err != nil {
		b.logger.Error("sse failed to marshal session view",
			slog.String("session", string(session.Code)),
			slog.Any("error", err))
		return
	}

	hub.BroadcastEvent(SessionUpdateEvent, string(data))
}
