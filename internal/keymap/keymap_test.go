package keymap

import (
	"testing"

	"github.com/dshills/keytrap/internal/key"
)

func TestKeymapBuilder(t *testing.T) {
	km := NewKeymap("test").
		WithPriority(5).
		WithSource("user").
		Add("ctrl+s", "editor.save").
		AddBinding(NewBinding("g g", "cursor.top").WithDescription("go to top"))

	if km.Name != "test" {
		t.Errorf("Name = %q, want %q", km.Name, "test")
	}
	if km.Priority != 5 {
		t.Errorf("Priority = %d, want 5", km.Priority)
	}
	if len(km.Bindings) != 2 {
		t.Fatalf("len(Bindings) = %d, want 2", len(km.Bindings))
	}
	if km.Bindings[1].Description != "go to top" {
		t.Errorf("Description = %q, want %q", km.Bindings[1].Description, "go to top")
	}
}

func TestKeymapValidate(t *testing.T) {
	tests := []struct {
		name    string
		keys    string
		action  string
		wantErr bool
	}{
		{"valid", "ctrl+s", "editor.save", false},
		{"valid sequence", "g g", "cursor.top", false},
		{"empty keys", "", "editor.save", true},
		{"empty action", "ctrl+s", "", true},
		{"bad combo", "a+b", "x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			km := NewKeymap("test").Add(tt.keys, tt.action)
			err := km.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestKeymapParse(t *testing.T) {
	km := NewKeymap("test").Add("ctrl+x ctrl+s", "editor.save")
	parsed, err := km.Parse()
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(parsed.ParsedBindings) != 1 {
		t.Fatalf("len(ParsedBindings) = %d, want 1", len(parsed.ParsedBindings))
	}
	if got := parsed.ParsedBindings[0].Sequence.Len(); got != 2 {
		t.Errorf("Sequence.Len() = %d, want 2", got)
	}
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	km := NewKeymap("test").
		Add("ctrl+s", "editor.save").
		Add("g g", "cursor.top")
	if err := r.Register(km); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	b := r.Lookup(key.MustParseSequence("ctrl+s"), nil)
	if b == nil {
		t.Fatal("Lookup(ctrl+s) = nil, want binding")
	}
	if b.Action != "editor.save" {
		t.Errorf("Action = %q, want %q", b.Action, "editor.save")
	}

	if b := r.Lookup(key.MustParseSequence("ctrl+q"), nil); b != nil {
		t.Errorf("Lookup(ctrl+q) = %v, want nil", b)
	}
}

func TestRegistryLookupOrderIndependent(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(NewKeymap("test").Add("ctrl+shift+a", "x")); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	// Arrival order within the combo must not matter
	seq := key.NewSequenceFrom(key.NewComboFrom("a", "shift", "ctrl"))
	if b := r.Lookup(seq, nil); b == nil {
		t.Error("Lookup with reordered combo = nil, want binding")
	}
}

func TestRegistryHasPrefix(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(NewKeymap("test").Add("g g", "cursor.top")); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	if !r.HasPrefix(key.MustParseSequence("g")) {
		t.Error("HasPrefix(g) = false, want true")
	}
	if r.HasPrefix(key.MustParseSequence("g g")) {
		t.Error("HasPrefix(g g) = true, want false (complete, not prefix)")
	}
	if r.HasPrefix(key.MustParseSequence("h")) {
		t.Error("HasPrefix(h) = true, want false")
	}
}

func TestRegistryPriority(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(NewKeymap("low").Add("ctrl+s", "low.action")); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if err := r.Register(NewKeymap("high").WithPriority(10).Add("ctrl+s", "high.action")); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	b := r.Lookup(key.MustParseSequence("ctrl+s"), nil)
	if b == nil {
		t.Fatal("Lookup = nil, want binding")
	}
	if b.Action != "high.action" {
		t.Errorf("Action = %q, want %q", b.Action, "high.action")
	}

	matches := r.LookupAll(key.MustParseSequence("ctrl+s"), nil)
	if len(matches) != 2 {
		t.Errorf("len(LookupAll) = %d, want 2", len(matches))
	}
}

func TestRegistryUnregister(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(NewKeymap("test").Add("ctrl+s", "editor.save")); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	r.Unregister("test")

	if b := r.Lookup(key.MustParseSequence("ctrl+s"), nil); b != nil {
		t.Errorf("Lookup after Unregister = %v, want nil", b)
	}
	if got := r.Get("test"); got != nil {
		t.Errorf("Get after Unregister = %v, want nil", got)
	}
}

func TestRegistryReplace(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(NewKeymap("test").Add("ctrl+s", "old.action")); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if err := r.Register(NewKeymap("test").Add("ctrl+s", "new.action")); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	matches := r.LookupAll(key.MustParseSequence("ctrl+s"), nil)
	if len(matches) != 1 {
		t.Fatalf("len(LookupAll) after replace = %d, want 1", len(matches))
	}
	if matches[0].Action != "new.action" {
		t.Errorf("Action = %q, want %q", matches[0].Action, "new.action")
	}
}

func TestRegistryWhenCondition(t *testing.T) {
	r := NewRegistry()
	km := NewKeymap("test").
		AddBinding(NewBinding("ctrl+s", "editor.save").WithWhen("textFocus"))
	if err := r.Register(km); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	seq := key.MustParseSequence("ctrl+s")

	ctx := NewLookupContext()
	if b := r.Lookup(seq, ctx); b != nil {
		t.Error("Lookup with unmet condition = binding, want nil")
	}

	ctx.Conditions["textFocus"] = true
	if b := r.Lookup(seq, ctx); b == nil {
		t.Error("Lookup with met condition = nil, want binding")
	}
}

func TestRegistryRegisterErrors(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(nil); err == nil {
		t.Error("Register(nil) did not error")
	}
	if err := r.Register(NewKeymap("bad").Add("a+b", "x")); err == nil {
		t.Error("Register with invalid binding did not error")
	}
}
