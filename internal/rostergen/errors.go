package rostergen

import "errors"

// Sentinel kinds for rostergen errors.
var (
	ErrInvalidArgs = errors.New("invalid arguments")
	ErrServer      = errors.New("server rejected request")
)
