package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/cowsbulls-go/internal/api/apierr"
	"github.com/mcoot/cowsbulls-go/internal/model"
)

// PlayerIDHeader carries the caller's player id. There is no
// authentication; the id is a bearer token the client was handed when it
// created or joined the session.
const PlayerIDHeader = "X-Player-ID"

type contextKey string

const playerIDContextKey contextKey = "player_id"

// RequirePlayer creates middleware that rejects requests without a player id
func RequirePlayer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			playerID := extractPlayerID(r)
			if playerID == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			ctx := context.WithValue(r.Context(), playerIDContextKey, playerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalPlayer extracts a player id if present but doesn't require it
func OptionalPlayer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if playerID := extractPlayerID(r); playerID != "" {
				ctx := context.WithValue(r.Context(), playerIDContextKey, playerID)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractPlayerID(r *http.Request) model.PlayerID {
	return model.PlayerID(strings.TrimSpace(r.Header.Get(PlayerIDHeader)))
}

// GetPlayerID returns the caller's player id from the request context
func GetPlayerID(ctx context.Context) model.PlayerID {
	playerID, _ := ctx.Value(playerIDContextKey).(model.PlayerID)
	return playerID
}

// MustGetPlayerID returns the caller's player id or panics
func MustGetPlayerID(ctx context.Context) model.PlayerID {
	playerID := GetPlayerID(ctx)
	if playerID == "" {
		panic("no player id in context - player middleware not applied?")
	}
	return playerID
}
