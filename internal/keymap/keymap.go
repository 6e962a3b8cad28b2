package keymap

import (
	"fmt"

	"github.com/dshills/keytrap/internal/key"
)

// Keymap holds a named set of key bindings.
type Keymap struct {
	// Name is the keymap identifier.
	Name string

	// Bindings are the key-to-action mappings.
	Bindings []Binding

	// Priority determines precedence when multiple keymaps match.
	// Higher priority wins. Default is 0.
	Priority int

	// Source indicates where this keymap was defined.
	// Examples: "default", "user", "file:/path/to/keymap.toml"
	Source string
}

// NewKeymap creates a new keymap with the given name.
func NewKeymap(name string) *Keymap {
	return &Keymap{
		Name:     name,
		Bindings: make([]Binding, 0),
	}
}

// WithPriority sets the priority for this keymap.
func (k *Keymap) WithPriority(priority int) *Keymap {
	k.Priority = priority
	return k
}

// WithSource sets the source for this keymap.
func (k *Keymap) WithSource(source string) *Keymap {
	k.Source = source
	return k
}

// Add adds a binding to this keymap.
func (k *Keymap) Add(keys, action string) *Keymap {
	k.Bindings = append(k.Bindings, Binding{
		Keys:   keys,
		Action: action,
	})
	return k
}

// AddBinding adds a fully configured binding to this keymap.
func (k *Keymap) AddBinding(binding Binding) *Keymap {
	k.Bindings = append(k.Bindings, binding)
	return k
}

// Validate checks that all bindings in the keymap are valid.
func (k *Keymap) Validate() error {
	for i, b := range k.Bindings {
		if b.Keys == "" {
			return fmt.Errorf("binding %d: empty keys", i)
		}
		if b.Action == "" {
			return fmt.Errorf("binding %d (%s): empty action", i, b.Keys)
		}
		if _, err := key.ParseSequence(b.Keys); err != nil {
			return fmt.Errorf("binding %d (%s): %w", i, b.Keys, err)
		}
	}
	return nil
}

// ParsedKeymap is a keymap with pre-parsed combo sequences.
type ParsedKeymap struct {
	*Keymap
	ParsedBindings []ParsedBinding
}

// Parse parses all bindings in the keymap.
func (k *Keymap) Parse() (*ParsedKeymap, error) {
	parsed := &ParsedKeymap{
		Keymap:         k,
		ParsedBindings: make([]ParsedBinding, 0, len(k.Bindings)),
	}

	for _, b := range k.Bindings {
		seq, err := key.ParseSequence(b.Keys)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", b.Keys, err)
		}
		if seq.IsEmpty() {
			return nil, fmt.Errorf("parsing %q: empty sequence", b.Keys)
		}
		parsed.ParsedBindings = append(parsed.ParsedBindings, ParsedBinding{
			Binding:  b,
			Sequence: seq,
		})
	}

	return parsed, nil
}
