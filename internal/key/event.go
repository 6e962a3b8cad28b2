package key

import (
	"fmt"
	"strings"
	"time"
)

// Event represents a single physical key press or release.
type Event struct {
	// Key is the primary key identifier.
	Key string

	// Modifiers contains the modifier identifiers active during the
	// event, in the order the host reported them.
	Modifiers []string

	// Pressed is true for key-down and false for key-up.
	Pressed bool

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// NewPress creates a key-down event with the current timestamp.
func NewPress(id string, modifiers ...string) Event {
	return Event{
		Key:       id,
		Modifiers: modifiers,
		Pressed:   true,
		Timestamp: time.Now(),
	}
}

// NewRelease creates a key-up event with the current timestamp.
func NewRelease(id string, modifiers ...string) Event {
	return Event{
		Key:       id,
		Modifiers: modifiers,
		Pressed:   false,
		Timestamp: time.Now(),
	}
}

// IsCharacter returns true if the primary key is a character key.
func (e Event) IsCharacter() bool {
	return IsCharacter(e.Key)
}

// Signature returns the de-duplicated union of the event's modifiers and
// primary key, "+"-joined in arrival order. This is the live form of a
// combo, before any normalization.
func (e Event) Signature() string {
	keys := make([]string, 0, len(e.Modifiers)+1)
	seen := make(map[string]bool, len(e.Modifiers)+1)
	for _, m := range e.Modifiers {
		if !seen[m] {
			seen[m] = true
			keys = append(keys, m)
		}
	}
	if e.Key != "" && !seen[e.Key] {
		keys = append(keys, e.Key)
	}
	return strings.Join(keys, "+")
}

// Equals returns true if two events represent the same key transition.
// Timestamps are not compared.
func (e Event) Equals(other Event) bool {
	if e.Key != other.Key || e.Pressed != other.Pressed {
		return false
	}
	if len(e.Modifiers) != len(other.Modifiers) {
		return false
	}
	for i, m := range e.Modifiers {
		if m != other.Modifiers[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the event with its own modifier slice.
func (e Event) Clone() Event {
	clone := e
	if e.Modifiers != nil {
		clone.Modifiers = make([]string, len(e.Modifiers))
		copy(clone.Modifiers, e.Modifiers)
	}
	return clone
}

// String returns a readable representation for logs and tests.
func (e Event) String() string {
	kind := "up"
	if e.Pressed {
		kind = "down"
	}
	return fmt.Sprintf("%s(%s)", kind, e.Signature())
}
