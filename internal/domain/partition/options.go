package partition

import "time"

const defaultCheckInterval = 256

// Option tunes a single Optimize call.
type Option func(*settings)

type settings struct {
	deadline      time.Time
	checkInterval int
	now           func() time.Time
	parallelism   int
}

func newSettings(opts []Option) settings {
	s := settings{
		checkInterval: defaultCheckInterval,
		now:           time.Now,
		parallelism:   1,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithDeadline stops the search once t has passed. The best partition found
// so far is still returned. A zero time disables the deadline.
func WithDeadline(t time.Time) Option {
	return func(s *settings) {
		s.deadline = t
	}
}

// WithCheckInterval sets how many swap attempts pass between deadline checks.
func WithCheckInterval(k int) Option {
	return func(s *settings) {
		if k > 0 {
			s.checkInterval = k
		}
	}
}

// WithClock replaces time.Now for deadline checks.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithParallelism lets up to n runs execute concurrently. Results for a fixed
// seed do not depend on n unless the deadline fires.
func WithParallelism(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.parallelism = n
		}
	}
}

func (s settings) expired() bool {
	return !s.deadline.IsZero() && !s.now().Before(s.deadline)
}
