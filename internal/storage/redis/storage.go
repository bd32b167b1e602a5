package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/cowsbulls-go/internal/model"
	"github.com/mcoot/cowsbulls-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Session records are JSON documents; conditional writes use WATCH-based
// optimistic locking on the record key, and committed records are published
// on a per-session channel for SubscribeSession.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) CreateSession(ctx context.Context, session *model.GameSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	ok, err := s.client.SetNX(ctx, sessionKey(session.Code), data, s.cfg.SessionTTL).Result()
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrSessionExists
	}
	return nil
}

func (s *Storage) GetSession(ctx context.Context, code model.SessionCode) (*model.GameSession, error) {
	data, err := s.client.Get(ctx, sessionKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.GameSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) UpdateSession(ctx context.Context, session *model.GameSession) error {
	key := sessionKey(session.Code)

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrSessionNotFound
			}
			return err
		}

		var stored model.GameSession
		if err := json.Unmarshal(data, &stored); err != nil {
			return err
		}
		if stored.Version != session.Version {
			return model.ErrVersionConflict
		}

		next := session.Clone()
		next.Version = session.Version + 1

		payload, err := json.Marshal(next)
		if err != nil {
			return err
		}

		// MULTI/EXEC fails if the watched key changed under us
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.cfg.SessionTTL)
			pipe.Publish(ctx, sessionChannel(session.Code), payload)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return model.ErrVersionConflict
	}
	if err != nil {
		return err
	}

	session.Version++
	return nil
}

func (s *Storage) SessionExists(ctx context.Context, code model.SessionCode) (bool, error) {
	exists, err := s.client.Exists(ctx, sessionKey(code)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (s *Storage) SubscribeSession(ctx context.Context, code model.SessionCode, fn storage.UpdateFunc) (storage.UnsubscribeFunc, error) {
	pubsub := s.client.Subscribe(ctx, sessionChannel(code))

	// Wait for the subscription to be confirmed so callers never miss
	// updates committed after SubscribeSession returns
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	ch := pubsub.Channel()
	go func() {
		for msg := range ch {
			var session model.GameSession
			if err := json.Unmarshal([]byte(msg.Payload), &session); err != nil {
				continue
			}
			fn(&session)
		}
	}()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			_ = pubsub.Close()
		})
	}
	return unsubscribe, nil
}
