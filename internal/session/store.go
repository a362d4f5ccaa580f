// internal/session/store.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	apperrors "github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/errors"
)

const (
	DefaultTTL = 2 * time.Hour
	keyPrefix  = "session:"

	maxUpdateAttempts = 5
)

// Store keeps wizard snapshots in Redis for the session TTL only.
type Store struct {
	client redis.UniversalClient
	ttl    time.Duration
	now    func() time.Time
	newID  func() string
}

func NewStore(client redis.UniversalClient, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		client: client,
		ttl:    ttl,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

func Key(id string) string { return keyPrefix + id }

func (s *Store) TTL() time.Duration { return s.ttl }

// Now is the clock transitions should be stamped with.
func (s *Store) Now() time.Time { return s.now() }

// Create starts and persists a new session.
func (s *Store) Create(ctx context.Context) (Wizard, error) {
	w := NewWizard(s.newID(), s.now())
	if err := s.Save(ctx, w); err != nil {
		return Wizard{}, err
	}
	return w, nil
}

// Get loads a snapshot. Unknown, expired and malformed IDs all read as not found.
func (s *Store) Get(ctx context.Context, id string) (Wizard, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Wizard{}, apperrors.NewSessionNotFoundError(id)
	}
	return s.read(ctx, s.client, id)
}

func (s *Store) read(ctx context.Context, c redis.Cmdable, id string) (Wizard, error) {
	data, err := c.Get(ctx, Key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Wizard{}, apperrors.NewSessionNotFoundError(id)
	}
	if err != nil {
		return Wizard{}, apperrors.NewSessionStoreFailedError("get", err)
	}

	var w Wizard
	if err := json.Unmarshal(data, &w); err != nil {
		return Wizard{}, apperrors.NewSessionStoreFailedError("decode", err)
	}
	return w, nil
}

// Save writes the snapshot and refreshes its TTL.
func (s *Store) Save(ctx context.Context, w Wizard) error {
	data, err := json.Marshal(w)
	if err != nil {
		return apperrors.NewSessionStoreFailedError("encode", err)
	}
	if err := s.client.Set(ctx, Key(w.ID), data, s.ttl).Err(); err != nil {
		return apperrors.NewSessionStoreFailedError("set", err)
	}
	return nil
}

// Update loads, transitions and saves a session inside a WATCH on its key.
// When another writer touches the key first, the transition is replayed on
// the fresh snapshot.
func (s *Store) Update(ctx context.Context, id string, fn func(Wizard, time.Time) (Wizard, error)) (Wizard, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Wizard{}, apperrors.NewSessionNotFoundError(id)
	}

	var current, next Wizard
	txf := func(tx *redis.Tx) error {
		var err error
		current, err = s.read(ctx, tx, id)
		if err != nil {
			return err
		}
		next, err = fn(current, s.now())
		if err != nil {
			return err
		}
		if next.ID != current.ID {
			return apperrors.NewInternalError(fmt.Errorf("transition changed session id"))
		}
		data, err := json.Marshal(next)
		if err != nil {
			return apperrors.NewSessionStoreFailedError("encode", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, Key(id), data, s.ttl)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		current = Wizard{}
		err := s.client.Watch(ctx, txf, Key(id))
		if err == nil {
			return next, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		var stdErr *apperrors.StandardError
		if errors.As(err, &stdErr) {
			return current, err
		}
		return current, apperrors.NewSessionStoreFailedError("set", err)
	}
	return current, apperrors.NewSessionStoreFailedError("update", redis.TxFailedErr)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, Key(id)).Err(); err != nil {
		return apperrors.NewSessionStoreFailedError("del", err)
	}
	return nil
}

// Ping checks the Redis connection for readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
