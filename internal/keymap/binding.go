package keymap

import (
	"github.com/dshills/keytrap/internal/key"
)

// Binding represents a single key-to-action mapping.
type Binding struct {
	// Keys is the combo sequence that triggers this binding.
	// Formats: "j", "g g", "ctrl+s", "ctrl+x ctrl+s"
	Keys string

	// Action is the command to execute.
	// Examples: "editor.save", "recorder.start"
	Action string

	// Args are fixed arguments for the action.
	Args map[string]any

	// When is a condition expression that must be true for this binding.
	// Examples: "textFocus", "!readonly", "lang == go"
	When string

	// Description provides documentation for the binding.
	Description string

	// Priority determines precedence when multiple bindings match.
	// Higher priority wins. Default is 0.
	Priority int
}

// NewBinding creates a new binding with the given keys and action.
func NewBinding(keys, action string) Binding {
	return Binding{
		Keys:   keys,
		Action: action,
	}
}

// WithArgs sets arguments for this binding.
func (b Binding) WithArgs(args map[string]any) Binding {
	b.Args = args
	return b
}

// WithWhen sets the condition for this binding.
func (b Binding) WithWhen(when string) Binding {
	b.When = when
	return b
}

// WithDescription sets the description for this binding.
func (b Binding) WithDescription(desc string) Binding {
	b.Description = desc
	return b
}

// WithPriority sets the priority for this binding.
func (b Binding) WithPriority(priority int) Binding {
	b.Priority = priority
	return b
}

// ParsedBinding is a binding with a pre-parsed combo sequence.
type ParsedBinding struct {
	Binding
	Sequence *key.Sequence
}

// Match checks if this binding's combo sequence matches the given sequence.
func (pb *ParsedBinding) Match(seq *key.Sequence) bool {
	if pb == nil || pb.Sequence == nil || seq == nil {
		return false
	}
	return pb.Sequence.Equals(seq)
}

// IsPrefix checks if the given sequence is a prefix of this binding's
// sequence.
func (pb *ParsedBinding) IsPrefix(seq *key.Sequence) bool {
	if pb == nil || pb.Sequence == nil || seq == nil {
		return false
	}
	return pb.Sequence.HasPrefix(seq)
}

// BindingMatch represents a matched binding with its context.
type BindingMatch struct {
	// ParsedBinding is the matched binding.
	*ParsedBinding

	// Keymap is the keymap containing the binding.
	Keymap *Keymap

	// Score is used for sorting matches by priority.
	Score int
}

// Less returns true if this match should come before another.
// Higher scores come first.
func (bm BindingMatch) Less(other BindingMatch) bool {
	if bm.Keymap == nil && other.Keymap == nil {
		return false
	}
	if bm.Keymap == nil {
		return false
	}
	if other.Keymap == nil {
		return true
	}
	return bm.Score > other.Score
}

// CalculateScore calculates the priority score for this match.
func (bm *BindingMatch) CalculateScore() {
	if bm.Keymap == nil || bm.ParsedBinding == nil {
		bm.Score = 0
		return
	}

	// Keymap priority dominates, binding priority breaks ties
	bm.Score = bm.Keymap.Priority*100 + bm.ParsedBinding.Priority
}
