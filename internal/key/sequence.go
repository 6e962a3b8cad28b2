package key

import (
	"strings"
)

// Sequence represents an ordered series of combos, either a recorded
// sequence or the key portion of a binding.
// Examples: "g g", "ctrl+x ctrl+s", "d i w"
type Sequence struct {
	// Combos contains the combos in order.
	Combos []*Combo
}

// NewSequence creates an empty sequence.
func NewSequence() *Sequence {
	return &Sequence{
		Combos: make([]*Combo, 0, 4),
	}
}

// NewSequenceFrom creates a sequence from the given combos.
func NewSequenceFrom(combos ...*Combo) *Sequence {
	return &Sequence{Combos: combos}
}

// Len returns the number of combos in the sequence.
func (s *Sequence) Len() int {
	return len(s.Combos)
}

// IsEmpty returns true if the sequence has no combos.
func (s *Sequence) IsEmpty() bool {
	return len(s.Combos) == 0
}

// Add appends a combo to the sequence. Empty combos are ignored so a
// sequence never contains one.
func (s *Sequence) Add(combo *Combo) {
	if combo == nil || combo.IsEmpty() {
		return
	}
	s.Combos = append(s.Combos, combo)
}

// Clear removes all combos from the sequence.
func (s *Sequence) Clear() {
	s.Combos = s.Combos[:0]
}

// Last returns the last combo, or nil if empty.
func (s *Sequence) Last() *Combo {
	if len(s.Combos) == 0 {
		return nil
	}
	return s.Combos[len(s.Combos)-1]
}

// Normalize normalizes every combo in place.
func (s *Sequence) Normalize() {
	for _, c := range s.Combos {
		c.Normalize()
	}
}

// Strings returns the sequence as a list of canonical combo strings.
func (s *Sequence) Strings() []string {
	result := make([]string, len(s.Combos))
	for i, c := range s.Combos {
		result[i] = c.String()
	}
	return result
}

// String returns a space-joined readable representation.
// Examples: "g g", "ctrl+x ctrl+s"
func (s *Sequence) String() string {
	return strings.Join(s.Strings(), " ")
}

// Equals returns true if two sequences hold matching combos in order.
// Combo key order within each combo is ignored.
func (s *Sequence) Equals(other *Sequence) bool {
	if s == nil || other == nil {
		return s == other
	}
	if len(s.Combos) != len(other.Combos) {
		return false
	}
	for i, c := range s.Combos {
		if !c.Matches(other.Combos[i]) {
			return false
		}
	}
	return true
}

// HasPrefix returns true if this sequence starts with the given prefix.
func (s *Sequence) HasPrefix(prefix *Sequence) bool {
	if prefix == nil || prefix.IsEmpty() {
		return true
	}
	if len(prefix.Combos) > len(s.Combos) {
		return false
	}
	for i, c := range prefix.Combos {
		if !c.Matches(s.Combos[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the sequence.
func (s *Sequence) Clone() *Sequence {
	if s == nil {
		return nil
	}
	combos := make([]*Combo, len(s.Combos))
	for i, c := range s.Combos {
		combos[i] = c.Clone()
	}
	return &Sequence{Combos: combos}
}

// ParseSequence parses a space-separated sequence of combo specifications.
// Examples: "g g", "ctrl+x ctrl+s", "d i w"
func ParseSequence(spec string) (*Sequence, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return NewSequence(), nil
	}

	seq := NewSequence()
	for _, part := range strings.Fields(spec) {
		combo, err := ParseCombo(part)
		if err != nil {
			return nil, err
		}
		seq.Add(combo)
	}
	return seq, nil
}

// MustParseSequence parses a sequence specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParseSequence(spec string) *Sequence {
	seq, err := ParseSequence(spec)
	if err != nil {
		panic("invalid key sequence: " + spec + ": " + err.Error())
	}
	return seq
}
