// Package repository defines the team assignment store and an in-memory
// implementation of it.
package repository

import (
	"context"
	"time"
)

// TeamRecord is one stored team: its id and the ids of its members.
type TeamRecord struct {
	TeamID    string
	MemberIDs []string
}

// Assignment is the stored team assignment for one tournament scope.
type Assignment struct {
	Scope string
	// Generation identifies one Replace call; it changes on every replace.
	Generation string
	Teams      []TeamRecord
	StoredAt   time.Time
}

// Store persists team assignments per tournament scope.
type Store interface {
	// Replace clears any assignment stored for scope and stores teams in
	// its place. Repeating the call with the same teams leaves the same
	// teams stored. Returns the stored assignment.
	Replace(ctx context.Context, scope string, teams []TeamRecord) (Assignment, error)

	// Get returns the assignment stored for scope.
	// Returns ErrNotFound if nothing is stored.
	Get(ctx context.Context, scope string) (Assignment, error)

	// Delete removes the assignment for scope. Deleting an unknown scope is
	// not an error.
	Delete(ctx context.Context, scope string) error

	// Count returns the number of scopes with a stored assignment.
	Count(ctx context.Context) int
}
