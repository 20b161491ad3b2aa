// internal/loan/session/store.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	commonerrors "loan-intake-engine/internal/common/errors"
	"loan-intake-engine/internal/models"
)

// RedisGetterSetter is the slice of the redis wrapper the store needs.
type RedisGetterSetter interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Store persists conversation sessions in Redis as JSON blobs with a
// sliding TTL: every save refreshes the expiry, so a session dies only
// after the configured idle period.
type Store struct {
	redis  RedisGetterSetter
	prefix string
	ttl    time.Duration
}

func NewStore(r RedisGetterSetter, prefix string, ttl time.Duration) *Store {
	return &Store{redis: r, prefix: prefix, ttl: ttl}
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

// Get loads a session. A missing key maps to SESSION_NOT_FOUND; transport
// errors map to SESSION_STORE_FAILED.
func (s *Store) Get(ctx context.Context, id string) (*models.Session, error) {
	raw, err := s.redis.Get(ctx, s.key(id))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, commonerrors.NewSessionNotFoundError(id)
		}
		return nil, commonerrors.NewSessionStoreError(err.Error())
	}

	var sess models.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, commonerrors.NewSessionStoreError("corrupt session payload: " + err.Error())
	}
	return &sess, nil
}

// Save writes the session back and refreshes its TTL.
func (s *Store) Save(ctx context.Context, sess *models.Session) error {
	sess.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(sess)
	if err != nil {
		return commonerrors.NewSessionStoreError(err.Error())
	}
	if err := s.redis.Set(ctx, s.key(sess.ID), string(data), s.ttl); err != nil {
		return commonerrors.NewSessionStoreError(err.Error())
	}
	return nil
}

// Delete removes a session outright.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.redis.Del(ctx, s.key(id)); err != nil {
		return commonerrors.NewSessionStoreError(err.Error())
	}
	return nil
}
