package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/cowsbulls-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.SessionTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) newSession(code model.SessionCode) *model.GameSession {
	return &model.GameSession{
		Code:        code,
		SecretCode:  "1234",
		DigitLength: 4,
		Players: []model.Player{
			{ID: "p1", Name: "Alice", Active: true},
		},
		Version:   1,
		CreatedAt: time.Now().UTC(),
	}
}

func (s *StorageSuite) TestCreateAndGetSession() {
	session := s.newSession("abc123")

	err := s.storage.CreateSession(s.ctx, session)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetSession(s.ctx, "abc123")
	s.Require().NoError(err)
	s.Equal(session.Code, retrieved.Code)
	s.Equal(session.SecretCode, retrieved.SecretCode)
	s.Equal(int64(1), retrieved.Version)
}

func (s *StorageSuite) TestCreateSessionAlreadyExists() {
	s.Require().NoError(s.storage.CreateSession(s.ctx, s.newSession("abc123")))

	err := s.storage.CreateSession(s.ctx, s.newSession("abc123"))
	s.ErrorIs(err, model.ErrSessionExists)
}

func (s *StorageSuite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestSessionTTL() {
	s.Require().NoError(s.storage.CreateSession(s.ctx, s.newSession("abc123")))

	ttl := s.mini.TTL(sessionKey("abc123"))
	s.True(ttl > 0, "session record should have a TTL")
}

func (s *StorageSuite) TestUpdateSessionBumpsVersionAndRefreshesTTL() {
	session := s.newSession("abc123")
	s.Require().NoError(s.storage.CreateSession(s.ctx, session))

	s.mini.FastForward(30 * time.Minute)

	session.GameStarted = true
	err := s.storage.UpdateSession(s.ctx, session)
	s.Require().NoError(err)
	s.Equal(int64(2), session.Version)

	retrieved, err := s.storage.GetSession(s.ctx, "abc123")
	s.Require().NoError(err)
	s.True(retrieved.GameStarted)
	s.Equal(int64(2), retrieved.Version)

	ttl := s.mini.TTL(sessionKey("abc123"))
	s.True(ttl > 30*time.Minute, "update should refresh the TTL")
}

func (s *StorageSuite) TestUpdateSessionVersionConflict() {
	session := s.newSession("abc123")
	s.Require().NoError(s.storage.CreateSession(s.ctx, session))

	first, err := s.storage.GetSession(s.ctx, "abc123")
	s.Require().NoError(err)
	second, err := s.storage.GetSession(s.ctx, "abc123")
	s.Require().NoError(err)

	first.GameStarted = true
	s.Require().NoError(s.storage.UpdateSession(s.ctx, first))

	second.Players[0].Ready = true
	err = s.storage.UpdateSession(s.ctx, second)
	s.ErrorIs(err, model.ErrVersionConflict)

	retrieved, err := s.storage.GetSession(s.ctx, "abc123")
	s.Require().NoError(err)
	s.True(retrieved.GameStarted)
	s.False(retrieved.Players[0].Ready)
}

func (s *StorageSuite) TestUpdateSessionNotFound() {
	err := s.storage.UpdateSession(s.ctx, s.newSession("nonexistent"))
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestSessionExists() {
	s.Require().NoError(s.storage.CreateSession(s.ctx, s.newSession("abc123")))

	exists, err := s.storage.SessionExists(s.ctx, "abc123")
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.storage.SessionExists(s.ctx, "nonexistent")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *StorageSuite) TestSubscribeSessionReceivesUpdates() {
	session := s.newSession("abc123")
	s.Require().NoError(s.storage.CreateSession(s.ctx, session))

	received := make(chan *model.GameSession, 1)
	unsubscribe, err := s.storage.SubscribeSession(s.ctx, "abc123", func(updated *model.GameSession) {
		received <- updated
	})
	s.Require().NoError(err)
	defer unsubscribe()

	session.GameStarted = true
	s.Require().NoError(s.storage.UpdateSession(s.ctx, session))

	select {
	case updated := <-received:
		s.True(updated.GameStarted)
		s.Equal(int64(2), updated.Version)
	case <-time.After(2 * time.Second):
		s.Fail("timed out waiting for published update")
	}
}

func (s *StorageSuite) TestUnsubscribeStopsUpdates() {
	session := s.newSession("abc123")
	s.Require().NoError(s.storage.CreateSession(s.ctx, session))

	received := make(chan *model.GameSession, 1)
	unsubscribe, err := s.storage.SubscribeSession(s.ctx, "abc123", func(updated *model.GameSession) {
		received <- updated
	})
	s.Require().NoError(err)

	unsubscribe()
	unsubscribe() // safe to call twice

	session.GameStarted = true
	s.Require().NoError(s.storage.UpdateSession(s.ctx, session))

	select {
	case <-received:
		s.Fail("received update after unsubscribe")
	case <-time.After(100 * time.Millisecond):
	}
}

func (s *StorageSuite) TestStoredPlayerWithoutActiveFieldIsActive() {
	// Records written before the presence flag existed lack "active"
	s.Require().NoError(s.mini.Set(sessionKey("old123"),
		`{"id":"old123","secretCode":"1234","digitLength":4,`+
			`"players":[{"id":"p1","name":"Alice"}],"version":1}`))

	retrieved, err := s.storage.GetSession(s.ctx, "old123")
	s.Require().NoError(err)
	s.Require().Len(retrieved.Players, 1)
	s.True(retrieved.Players[0].Active)
}
