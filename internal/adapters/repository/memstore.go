package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/okian/teamforge/pkg/metrics"
)

// MemoryStore is an in-memory Store. Each Replace swaps the whole assignment
// for a scope under one lock, so readers never observe a half-written
// assignment.
type MemoryStore struct {
	mu      sync.RWMutex
	byScope map[string]Assignment

	now           func() time.Time
	newGeneration func() string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		byScope:       make(map[string]Assignment),
		now:           time.Now,
		newGeneration: newUUID,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	metrics.UpdateStoredScopes(0)
	return s
}

// Replace implements Store.Replace.
func (s *MemoryStore) Replace(_ context.Context, scope string, teams []TeamRecord) (Assignment, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreReplaceLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	scope = strings.TrimSpace(scope)
	if scope == "" {
		return Assignment{}, ErrInvalidScope
	}
	if err := checkTeams(teams); err != nil {
		return Assignment{}, err
	}

	a := Assignment{
		Scope:      scope,
		Generation: s.newGeneration(),
		Teams:      cloneTeams(teams),
		StoredAt:   s.now(),
	}

	s.mu.Lock()
	s.byScope[scope] = a
	n := len(s.byScope)
	s.mu.Unlock()

	metrics.UpdateStoredScopes(n)
	return copyAssignment(a), nil
}

// Get implements Store.Get.
func (s *MemoryStore) Get(_ context.Context, scope string) (Assignment, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	s.mu.RLock()
	a, ok := s.byScope[strings.TrimSpace(scope)]
	s.mu.RUnlock()
	if !ok {
		return Assignment{}, fmt.Errorf("%w: %s", ErrNotFound, scope)
	}
	return copyAssignment(a), nil
}

// Delete implements Store.Delete.
func (s *MemoryStore) Delete(_ context.Context, scope string) error {
	s.mu.Lock()
	delete(s.byScope, strings.TrimSpace(scope))
	n := len(s.byScope)
	s.mu.Unlock()

	metrics.UpdateStoredScopes(n)
	return nil
}

// Count implements Store.Count.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byScope)
}

// checkTeams rejects empty team lists, blank or repeated team ids and
// members assigned to more than one team.
func checkTeams(teams []TeamRecord) error {
	if len(teams) == 0 {
		return fmt.Errorf("%w: no teams", ErrInvalidTeams)
	}
	teamIDs := make(map[string]struct{}, len(teams))
	members := make(map[string]string)
	for _, t := range teams {
		if t.TeamID == "" {
			return fmt.Errorf("%w: blank team id", ErrInvalidTeams)
		}
		if _, dup := teamIDs[t.TeamID]; dup {
			return fmt.Errorf("%w: team %s repeated", ErrInvalidTeams, t.TeamID)
		}
		teamIDs[t.TeamID] = struct{}{}
		for _, id := range t.MemberIDs {
			if other, dup := members[id]; dup {
				return fmt.Errorf("%w: member %s in %s and %s", ErrInvalidTeams, id, other, t.TeamID)
			}
			members[id] = t.TeamID
		}
	}
	return nil
}

func cloneTeams(teams []TeamRecord) []TeamRecord {
	out := make([]TeamRecord, len(teams))
	for i, t := range teams {
		out[i] = TeamRecord{TeamID: t.TeamID, MemberIDs: append([]string(nil), t.MemberIDs...)}
	}
	return out
}

func copyAssignment(a Assignment) Assignment {
	a.Teams = cloneTeams(a.Teams)
	return a
}
