// Package session keeps per-visitor slots in Redis, one hash per session id
// cookie.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Open returns the session for id. userName is the authenticated user of the
// current request, empty for anonymous visitors.
func (s *Store) Open(id, userName string) *Session {
	return &Session{store: s, id: id, userName: userName}
}

// Touch extends the session lifetime, keeping it alive while the visitor is
// active.
func (s *Store) Touch(ctx context.Context, id string) error {
	return s.rdb.Expire(ctx, keyPrefix+id, s.ttl).Err()
}

// Session implements cart.Session.
type Session struct {
	store    *Store
	id       string
	userName string
}

func (s *Session) ID() string { return s.id }

func (s *Session) UserName() string { return s.userName }

// Get returns "" for a slot that was never set.
func (s *Session) Get(ctx context.Context, key string) (string, error) {
	value, err := s.store.rdb.HGet(ctx, keyPrefix+s.id, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return value, err
}

func (s *Session) Set(ctx context.Context, key, value string) error {
	_, err := s.store.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, keyPrefix+s.id, key, value)
		pipe.Expire(ctx, keyPrefix+s.id, s.store.ttl)
		return nil
	})
	return err
}

// Clear drops every slot of the session.
func (s *Session) Clear(ctx context.Context) error {
	return s.store.rdb.Del(ctx, keyPrefix+s.id).Err()
}
