package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound     = errors.New("assignment not found")
	ErrInvalidScope = errors.New("invalid tournament scope")
	ErrInvalidTeams = errors.New("invalid team records")
)
