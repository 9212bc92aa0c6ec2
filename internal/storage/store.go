package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"fintrack/internal/log"
)

// DefaultPrefix is the fixed namespace every key lives under.
const DefaultPrefix = "expense_tracker"

// Store namespaces keys as <prefix>:<userId>:<kind> and (de)serializes JSON.
// It is the single source of truth; nothing caches past the last change
// signal.
type Store struct {
	medium Medium
	prefix string
	logger *log.Logger
}

func NewStore(medium Medium, prefix string, logger *log.Logger) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Store{
		medium: medium,
		prefix: prefix,
		logger: logger.WithComponent(log.ComponentStorage),
	}
}

// Key builds the namespaced key for a user's entity collection.
func (s *Store) Key(userID, kind string) string {
	return s.prefix + ":" + userID + ":" + kind
}

// Read returns the raw JSON stored under key, or ok=false when absent.
func (s *Store) Read(ctx context.Context, key string) ([]byte, bool, error) {
	return s.medium.Get(ctx, key)
}

// Write stores raw JSON under key.
func (s *Store) Write(ctx context.Context, key string, value []byte) error {
	return s.medium.Put(ctx, key, value)
}

// Remove deletes key from the medium.
func (s *Store) Remove(ctx context.Context, key string) error {
	return s.medium.Delete(ctx, key)
}

func (s *Store) Close() error { return s.medium.Close() }

// ReadList loads a user's collection of kind into a slice. A missing key or
// malformed JSON both yield an empty slice: corruption is logged and
// recovered locally, never propagated as a fatal error.
func ReadList[T any](ctx context.Context, s *Store, userID, kind string) ([]T, error) {
	key := s.Key(userID, kind)
	raw, ok, err := s.medium.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return nil, nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		s.logger.WarnContext(ctx, "Corrupt collection, treating as empty",
			log.FieldKey, key, log.FieldError, err.Error())
		return nil, nil
	}
	return out, nil
}

// WriteList persists a user's collection of kind as one JSON array. The write
// is atomic for this key only.
func WriteList[T any](ctx context.Context, s *Store, userID, kind string, items []T) error {
	key := s.Key(userID, kind)
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.medium.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
