package repository

import (
	"time"

	"github.com/google/uuid"
)

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithClock replaces time.Now for StoredAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithGenerationFunc replaces the generation id source (random UUIDs by
// default).
func WithGenerationFunc(fn func() string) Option {
	return func(s *MemoryStore) {
		if fn != nil {
			s.newGeneration = fn
		}
	}
}

func newUUID() string { return uuid.NewString() }
