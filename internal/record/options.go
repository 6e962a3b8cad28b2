package record

import "time"

// DefaultIdleTimeout is the idle window after which a recording with no
// new combo is considered finished.
const DefaultIdleTimeout = 1000 * time.Millisecond

// Option configures a recording session.
type Option func(*session)

// WithSingleCombo finishes the recording as soon as the first combo
// completes, instead of collecting a sequence.
func WithSingleCombo() Option {
	return func(s *session) {
		s.recordSequence = false
	}
}

// WithLiveUpdate sets a callback receiving the combo in progress after
// every meaningfully-changed key-down.
func WithLiveUpdate(fn LiveUpdateFunc) Option {
	return func(s *session) {
		s.onLive = fn
	}
}

// WithIdleTimeout overrides the idle window for this session.
// Non-positive values keep the default.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *session) {
		if d > 0 {
			s.idleTimeout = d
		}
	}
}
