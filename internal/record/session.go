package record

import (
	"time"

	"github.com/google/uuid"
)

// SessionID identifies one recording session.
type SessionID string

// NoSession is the zero SessionID, reported while the recorder is idle.
const NoSession SessionID = ""

// CompleteFunc receives the normalized sequence when a recording
// finishes: an ordered list of "+"-joined combo strings.
type CompleteFunc func(sequence []string)

// LiveUpdateFunc receives the combo in progress, "+"-joined as typed,
// after every meaningfully-changed key-down while recording.
type LiveUpdateFunc func(combo string)

// session holds the state of one Record call.
type session struct {
	id             SessionID
	recordSequence bool
	idleTimeout    time.Duration
	onComplete     CompleteFunc
	onLive         LiveUpdateFunc
}

// newSession creates a session with defaults applied.
func newSession(onComplete CompleteFunc, opts []Option) *session {
	s := &session{
		id:             SessionID(uuid.NewString()),
		recordSequence: true,
		idleTimeout:    DefaultIdleTimeout,
		onComplete:     onComplete,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
