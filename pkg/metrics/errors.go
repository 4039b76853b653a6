package metrics

import (
	"errors"
)

// Sentinel kinds for metrics errors.
var (
	ErrUnknownValidationKind = errors.New("unknown validation failure kind")
)
