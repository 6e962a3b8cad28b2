package key

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty combo specification")
	ErrInvalidSpec = errors.New("invalid combo specification")
)

// Combo is the set of keys considered pressed simultaneously, in the
// order they were accumulated. A combo never contains duplicate
// identifiers.
type Combo struct {
	// Keys contains the key identifiers in arrival order.
	Keys []string
}

// NewCombo creates an empty combo.
func NewCombo() *Combo {
	return &Combo{
		Keys: make([]string, 0, 4), // Most combos are short
	}
}

// NewComboFrom creates a combo from the given identifiers, skipping
// duplicates.
func NewComboFrom(ids ...string) *Combo {
	c := NewCombo()
	for _, id := range ids {
		c.Add(id)
	}
	return c
}

// Len returns the number of keys in the combo.
func (c *Combo) Len() int {
	return len(c.Keys)
}

// IsEmpty returns true if the combo has no keys.
func (c *Combo) IsEmpty() bool {
	return len(c.Keys) == 0
}

// Contains returns true if the combo already holds the identifier.
func (c *Combo) Contains(id string) bool {
	for _, k := range c.Keys {
		if k == id {
			return true
		}
	}
	return false
}

// Add appends an identifier unless it is empty or already present.
// Returns true if the combo changed.
func (c *Combo) Add(id string) bool {
	if id == "" || c.Contains(id) {
		return false
	}
	c.Keys = append(c.Keys, id)
	return true
}

// Clear removes all keys from the combo.
func (c *Combo) Clear() {
	c.Keys = c.Keys[:0]
}

// HasCharacter returns true if any key in the combo is a character key.
func (c *Combo) HasCharacter() bool {
	for _, k := range c.Keys {
		if IsCharacter(k) {
			return true
		}
	}
	return false
}

// Signature returns the combo keys "+"-joined in arrival order, without
// normalizing. This matches the live-update form.
func (c *Combo) Signature() string {
	return strings.Join(c.Keys, "+")
}

// Normalize sorts the combo in place so that modifier keys precede
// character keys, alphabetically within each class.
func (c *Combo) Normalize() {
	sort.SliceStable(c.Keys, func(i, j int) bool {
		mi, mj := IsModifier(c.Keys[i]), IsModifier(c.Keys[j])
		if mi != mj {
			return mi
		}
		return c.Keys[i] < c.Keys[j]
	})
}

// String returns the canonical "+"-joined form of the combo without
// mutating it.
func (c *Combo) String() string {
	clone := c.Clone()
	clone.Normalize()
	return clone.Signature()
}

// Equals returns true if two combos hold the same keys in the same order.
func (c *Combo) Equals(other *Combo) bool {
	if c == nil || other == nil {
		return c == other
	}
	if len(c.Keys) != len(other.Keys) {
		return false
	}
	for i, k := range c.Keys {
		if k != other.Keys[i] {
			return false
		}
	}
	return true
}

// Matches returns true if two combos hold the same keys regardless of
// arrival order.
func (c *Combo) Matches(other *Combo) bool {
	if c == nil || other == nil {
		return c == other
	}
	if len(c.Keys) != len(other.Keys) {
		return false
	}
	for _, k := range c.Keys {
		if !other.Contains(k) {
			return false
		}
	}
	return true
}

// Clone returns a copy of the combo.
func (c *Combo) Clone() *Combo {
	if c == nil {
		return nil
	}
	keys := make([]string, len(c.Keys))
	copy(keys, c.Keys)
	return &Combo{Keys: keys}
}

// ParseCombo parses a "+"-joined combo specification like "ctrl+shift+a".
// Aliases such as "cmd" or "esc" resolve to their canonical names. At most
// one non-modifier key is allowed and it must come last.
func ParseCombo(spec string) (*Combo, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, ErrEmptySpec
	}

	combo := NewCombo()

	// "+" alone and trailing "++" name the plus key itself.
	primary := ""
	switch {
	case spec == "+":
		combo.Add("+")
		return combo, nil
	case strings.HasSuffix(spec, "++"):
		primary = "+"
		spec = strings.TrimSuffix(spec, "++")
	}

	parts := strings.Split(spec, "+")
	if primary == "" {
		primary = strings.TrimSpace(parts[len(parts)-1])
		parts = parts[:len(parts)-1]
	}

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if !IsKnownModifier(part) {
			return nil, fmt.Errorf("%w: %q is not a modifier in %q", ErrInvalidSpec, part, spec)
		}
		combo.Add(CanonicalModifier(part))
	}

	if primary == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSpec, spec)
	}
	combo.Add(CanonicalName(primary))
	return combo, nil
}

// MustParseCombo parses a combo specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParseCombo(spec string) *Combo {
	combo, err := ParseCombo(spec)
	if err != nil {
		panic("invalid combo specification: " + spec + ": " + err.Error())
	}
	return combo
}
