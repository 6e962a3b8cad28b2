package key

import (
	"errors"
	"testing"
)

func TestComboAdd(t *testing.T) {
	c := NewCombo()
	if !c.Add("ctrl") {
		t.Error("Add(ctrl) = false, want true")
	}
	if !c.Add("a") {
		t.Error("Add(a) = false, want true")
	}
	if c.Add("ctrl") {
		t.Error("Add(ctrl) twice = true, want false")
	}
	if c.Add("") {
		t.Error("Add(\"\") = true, want false")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestComboHasCharacter(t *testing.T) {
	tests := []struct {
		keys []string
		want bool
	}{
		{[]string{"ctrl", "shift"}, false},
		{[]string{"ctrl", "a"}, true},
		{[]string{"a"}, true},
		{nil, false},
	}

	for _, tt := range tests {
		c := NewComboFrom(tt.keys...)
		if got := c.HasCharacter(); got != tt.want {
			t.Errorf("HasCharacter(%v) = %v, want %v", tt.keys, got, tt.want)
		}
	}
}

func TestComboNormalize(t *testing.T) {
	tests := []struct {
		keys []string
		want string
	}{
		{[]string{"a"}, "a"},
		{[]string{"shift", "a"}, "shift+a"},
		{[]string{"a", "shift"}, "shift+a"},
		{[]string{"ctrl", "shift", "a"}, "ctrl+shift+a"},
		{[]string{"shift", "ctrl", "a"}, "ctrl+shift+a"},
		{[]string{"a", "shift", "ctrl"}, "ctrl+shift+a"},
		{[]string{"meta", "alt", "enter"}, "alt+enter+meta"},
		{[]string{"b", "a"}, "a+b"},
	}

	for _, tt := range tests {
		c := NewComboFrom(tt.keys...)
		c.Normalize()
		if got := c.Signature(); got != tt.want {
			t.Errorf("Normalize(%v) = %q, want %q", tt.keys, got, tt.want)
		}
	}
}

func TestComboNormalizeIdempotent(t *testing.T) {
	c := NewComboFrom("shift", "ctrl", "a")
	c.Normalize()
	first := c.Signature()
	c.Normalize()
	if got := c.Signature(); got != first {
		t.Errorf("second Normalize changed %q to %q", first, got)
	}
}

func TestComboStringDoesNotMutate(t *testing.T) {
	c := NewComboFrom("a", "ctrl")
	if got := c.String(); got != "ctrl+a" {
		t.Errorf("String() = %q, want %q", got, "ctrl+a")
	}
	if got := c.Signature(); got != "a+ctrl" {
		t.Errorf("Signature() after String() = %q, want arrival order %q", got, "a+ctrl")
	}
}

func TestComboMatches(t *testing.T) {
	a := NewComboFrom("ctrl", "shift", "a")
	b := NewComboFrom("shift", "ctrl", "a")
	c := NewComboFrom("ctrl", "a")

	if !a.Matches(b) {
		t.Error("Matches ignoring order = false, want true")
	}
	if a.Matches(c) {
		t.Error("Matches with different keys = true, want false")
	}
	if !a.Equals(a.Clone()) {
		t.Error("Equals(Clone()) = false, want true")
	}
	if a.Equals(b) {
		t.Error("Equals with different order = true, want false")
	}
}

func TestParseCombo(t *testing.T) {
	tests := []struct {
		spec string
		want string // canonical String()
	}{
		{"a", "a"},
		{"ctrl+s", "ctrl+s"},
		{"Ctrl+Shift+P", "ctrl+shift+P"},
		{"cmd+a", "meta+a"},
		{"shift+esc", "escape+shift"},
		{"enter", "enter"},
		{"shift++", "shift++"},
	}

	for _, tt := range tests {
		combo, err := ParseCombo(tt.spec)
		if err != nil {
			t.Errorf("ParseCombo(%q) error: %v", tt.spec, err)
			continue
		}
		if got := combo.String(); got != tt.want {
			t.Errorf("ParseCombo(%q) = %q, want %q", tt.spec, got, tt.want)
		}
	}
}

func TestParseComboErrors(t *testing.T) {
	tests := []struct {
		spec    string
		wantErr error
	}{
		{"", ErrEmptySpec},
		{"   ", ErrEmptySpec},
		{"a+b", ErrInvalidSpec},     // "a" is not a modifier
		{"enter+a", ErrInvalidSpec}, // named key in modifier position
		{"+a", ErrInvalidSpec},
	}

	for _, tt := range tests {
		_, err := ParseCombo(tt.spec)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("ParseCombo(%q) error = %v, want %v", tt.spec, err, tt.wantErr)
		}
	}
}

func TestMustParseComboPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParseCombo did not panic on invalid spec")
		}
	}()
	MustParseCombo("a+b")
}
