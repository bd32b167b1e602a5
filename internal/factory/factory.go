package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/cowsbulls-go/internal/dependencies/clock"
	"github.com/mcoot/cowsbulls-go/internal/dependencies/random"
	"github.com/mcoot/cowsbulls-go/internal/services/scoring"
	"github.com/mcoot/cowsbulls-go/internal/services/secret"
	"github.com/mcoot/cowsbulls-go/internal/services/session"
	"github.com/mcoot/cowsbulls-go/internal/sse"
	"github.com/mcoot/cowsbulls-go/internal/storage"
	"github.com/mcoot/cowsbulls-go/internal/storage/memory"
	redisstorage "github.com/mcoot/cowsbulls-go/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	SecretGenerator   *secret.Generator
	ScoringService    *scoring.Service
	SessionController *session.Controller
	HubManager        *sse.HubManager
	Broadcaster       *sse.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	// Create services
	secretGenerator := secret.NewGenerator(rnd)
	scoringService := scoring.NewService()
	sessionController := session.NewController(store, secretGenerator, scoringService, clk, rnd)
	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(store, hubManager, logger)

	return &App{
		Storage:           store,
		Clock:             clk,
		Random:            rnd,
		SecretGenerator:   secretGenerator,
		ScoringService:    scoringService,
		SessionController: sessionController,
		HubManager:        hubManager,
		Broadcaster:       broadcaster,
	}
}
