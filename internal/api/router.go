package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/cowsbulls-go/internal/api/handler"
	"github.com/mcoot/cowsbulls-go/internal/api/middleware"
	"github.com/mcoot/cowsbulls-go/internal/services/session"
	"github.com/mcoot/cowsbulls-go/internal/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger            *slog.Logger
	SessionController session.ControllerInterface
	Broadcaster       *sse.Broadcaster
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	sessionHandler := handler.NewSessionHandler(cfg.SessionController, cfg.Broadcaster)

	requirePlayer := middleware.RequirePlayer()
	optionalPlayer := middleware.OptionalPlayer()
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Entry points that hand out a player id
	api.HandleFunc("/sessions", sessionHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{code}/join", sessionHandler.Join).Methods(http.MethodPost)

	// Session state is readable without identifying as a player
	api.HandleFunc("/sessions/{code}", sessionHandler.Get).Methods(http.MethodGet)

	// The event stream notes the player id when offered
	events := api.Path("/sessions/{code}/events").Subrouter()
	events.Use(optionalPlayer)
	events.Methods(http.MethodGet).HandlerFunc(sessionHandler.Events)

	// Mutations require the caller's player id
	actions := api.PathPrefix("/sessions/{code}").Subrouter()
	actions.Use(requirePlayer)
	actions.HandleFunc("/ready", sessionHandler.Ready).Methods(http.MethodPost)
	actions.HandleFunc("/guess", sessionHandler.Guess).Methods(http.MethodPost)
	actions.HandleFunc("/reset", sessionHandler.Reset).Methods(http.MethodPost)
	actions.HandleFunc("/exit", sessionHandler.Exit).Methods(http.MethodPost)
	actions.HandleFunc("/players/{player_id}", sessionHandler.RemovePlayer).Methods(http.MethodDelete)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
