package keymap

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/keytrap/internal/key"
)

// Registry manages all keymaps and provides binding lookup.
type Registry struct {
	mu sync.RWMutex

	// keymaps holds all registered keymaps by name.
	keymaps map[string]*ParsedKeymap

	// prefixTree provides efficient prefix-based lookup.
	prefixTree *PrefixTree

	// conditionEvaluator evaluates "when" conditions.
	conditionEvaluator ConditionEvaluator
}

// ConditionEvaluator evaluates binding conditions.
type ConditionEvaluator interface {
	// Evaluate evaluates a condition expression against the current context.
	Evaluate(condition string, ctx *LookupContext) bool
}

// LookupContext provides context for binding lookup.
type LookupContext struct {
	// Conditions holds current condition values.
	// Keys: "textFocus", "readonly", etc.
	Conditions map[string]bool

	// Variables holds context variables.
	// Keys: "lang", "view", etc.
	Variables map[string]string
}

// NewLookupContext creates a new lookup context.
func NewLookupContext() *LookupContext {
	return &LookupContext{
		Conditions: make(map[string]bool),
		Variables:  make(map[string]string),
	}
}

// NewRegistry creates a new keymap registry.
func NewRegistry() *Registry {
	return &Registry{
		keymaps:            make(map[string]*ParsedKeymap),
		prefixTree:         NewPrefixTree(),
		conditionEvaluator: &DefaultConditionEvaluator{},
	}
}

// SetConditionEvaluator sets the condition evaluator.
func (r *Registry) SetConditionEvaluator(eval ConditionEvaluator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conditionEvaluator = eval
}

// Register adds a keymap to the registry.
// If a keymap with the same name already exists, it is replaced.
func (r *Registry) Register(km *Keymap) error {
	if km == nil {
		return fmt.Errorf("cannot register nil keymap")
	}

	parsed, err := km.Parse()
	if err != nil {
		return fmt.Errorf("parsing keymap %q: %w", km.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.unregisterLocked(km.Name)

	r.keymaps[km.Name] = parsed

	for i := range parsed.ParsedBindings {
		pb := &parsed.ParsedBindings[i]
		r.prefixTree.Insert(pb.Sequence, pb, km)
	}

	return nil
}

// Unregister removes a keymap from the registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.unregisterLocked(name)
}

// unregisterLocked removes a keymap without acquiring the lock.
// Caller must hold the write lock.
func (r *Registry) unregisterLocked(name string) {
	km, ok := r.keymaps[name]
	if !ok {
		return
	}

	for i := range km.ParsedBindings {
		pb := &km.ParsedBindings[i]
		r.prefixTree.Remove(pb.Sequence, km.Keymap)
	}

	delete(r.keymaps, name)
}

// Get returns a keymap by name.
func (r *Registry) Get(name string) *ParsedKeymap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.keymaps[name]
}

// Lookup finds the best matching binding for a combo sequence.
// If ctx is nil, a default empty context is used.
func (r *Registry) Lookup(seq *key.Sequence, ctx *LookupContext) *Binding {
	if seq == nil {
		return nil
	}
	if ctx == nil {
		ctx = NewLookupContext()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := r.findMatches(seq, ctx)
	if len(matches) == 0 {
		return nil
	}

	return &matches[0].Binding
}

// LookupAll finds all matching bindings for a combo sequence.
// If ctx is nil, a default empty context is used.
func (r *Registry) LookupAll(seq *key.Sequence, ctx *LookupContext) []BindingMatch {
	if seq == nil {
		return nil
	}
	if ctx == nil {
		ctx = NewLookupContext()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.findMatches(seq, ctx)
}

// HasPrefix checks if any binding starts with the given sequence.
func (r *Registry) HasPrefix(seq *key.Sequence) bool {
	if seq == nil {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.prefixTree.HasPrefix(seq)
}

// findMatches finds all matches and sorts by priority.
func (r *Registry) findMatches(seq *key.Sequence, ctx *LookupContext) []BindingMatch {
	matches := make([]BindingMatch, 0)

	for _, entry := range r.prefixTree.Lookup(seq) {
		if entry.Binding.When != "" {
			if !r.conditionEvaluator.Evaluate(entry.Binding.When, ctx) {
				continue
			}
		}

		match := BindingMatch{
			ParsedBinding: entry.Binding,
			Keymap:        entry.Keymap,
		}
		match.CalculateScore()
		matches = append(matches, match)
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Less(matches[j])
	})

	return matches
}

// Keymaps returns all registered keymaps.
func (r *Registry) Keymaps() []*ParsedKeymap {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*ParsedKeymap, 0, len(r.keymaps))
	for _, km := range r.keymaps {
		result = append(result, km)
	}
	return result
}

// AllBindings returns all bindings sorted by priority.
func (r *Registry) AllBindings() []BindingMatch {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]BindingMatch, 0)
	for _, km := range r.keymaps {
		for i := range km.ParsedBindings {
			match := BindingMatch{
				ParsedBinding: &km.ParsedBindings[i],
				Keymap:        km.Keymap,
			}
			match.CalculateScore()
			matches = append(matches, match)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Less(matches[j])
	})

	return matches
}

// PrefixTree provides efficient prefix-based binding lookup.
// Nodes are keyed by the canonical combo string, so lookup is independent
// of the order keys arrived within a combo.
type PrefixTree struct {
	root *prefixNode
}

type prefixNode struct {
	children map[string]*prefixNode
	entries  []prefixEntry
}

type prefixEntry struct {
	Binding *ParsedBinding
	Keymap  *Keymap
}

// NewPrefixTree creates a new prefix tree.
func NewPrefixTree() *PrefixTree {
	return &PrefixTree{
		root: &prefixNode{
			children: make(map[string]*prefixNode),
		},
	}
}

// Insert adds a binding to the prefix tree.
func (t *PrefixTree) Insert(seq *key.Sequence, binding *ParsedBinding, km *Keymap) {
	node := t.root

	for _, combo := range seq.Combos {
		comboStr := combo.String()
		child, ok := node.children[comboStr]
		if !ok {
			child = &prefixNode{
				children: make(map[string]*prefixNode),
			}
			node.children[comboStr] = child
		}
		node = child
	}

	node.entries = append(node.entries, prefixEntry{
		Binding: binding,
		Keymap:  km,
	})
}

// Remove removes all of a keymap's entries along a sequence path, pruning
// empty nodes on the way back up.
func (t *PrefixTree) Remove(seq *key.Sequence, km *Keymap) {
	if seq == nil || seq.IsEmpty() {
		return
	}

	path := make([]*prefixNode, 0, seq.Len()+1)
	path = append(path, t.root)

	node := t.root
	for _, combo := range seq.Combos {
		child, ok := node.children[combo.String()]
		if !ok {
			return
		}
		path = append(path, child)
		node = child
	}

	kept := node.entries[:0]
	for _, e := range node.entries {
		if e.Keymap != km {
			kept = append(kept, e)
		}
	}
	node.entries = kept

	// Prune empty leaf nodes
	for i := len(path) - 1; i > 0; i-- {
		n := path[i]
		if len(n.entries) > 0 || len(n.children) > 0 {
			break
		}
		parent := path[i-1]
		delete(parent.children, seq.Combos[i-1].String())
	}
}

// Lookup returns the entries stored exactly at the sequence.
func (t *PrefixTree) Lookup(seq *key.Sequence) []prefixEntry {
	node := t.find(seq)
	if node == nil {
		return nil
	}
	return node.entries
}

// HasPrefix returns true if the sequence is a strict prefix of at least
// one longer binding.
func (t *PrefixTree) HasPrefix(seq *key.Sequence) bool {
	node := t.find(seq)
	return node != nil && len(node.children) > 0
}

func (t *PrefixTree) find(seq *key.Sequence) *prefixNode {
	if seq == nil {
		return nil
	}
	node := t.root
	for _, combo := range seq.Combos {
		child, ok := node.children[combo.String()]
		if !ok {
			return nil
		}
		node = child
	}
	return node
}
