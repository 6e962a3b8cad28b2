package dispatch

import (
	"sync"
	"time"

	"github.com/dshills/keytrap/internal/key"
	"github.com/dshills/keytrap/internal/keymap"
)

// Handler handles one key event.
type Handler interface {
	HandleKey(event key.Event)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(event key.Event)

// HandleKey calls f(event).
func (f HandlerFunc) HandleKey(event key.Event) {
	f(event)
}

// Action represents a matched binding ready for execution.
type Action struct {
	// Name is the action identifier from the binding.
	Name string

	// Args are the binding's fixed arguments.
	Args map[string]any

	// Keys is the canonical form of the matched sequence.
	Keys string
}

// Config configures the dispatcher.
type Config struct {
	// SequenceTimeout is how long to wait for multi-combo sequences.
	// Default: 1000ms
	SequenceTimeout time.Duration

	// ActionBuffer is the action channel capacity. Default: 100
	ActionBuffer int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SequenceTimeout: 1000 * time.Millisecond,
		ActionBuffer:    100,
	}
}

// Dispatcher is keytrap's normal key handling logic.
type Dispatcher struct {
	mu sync.Mutex

	config   Config
	registry *keymap.Registry

	// context is the lookup context for "when" conditions.
	context *keymap.LookupContext

	// held accumulates the keys of the combo in progress.
	held *key.Combo

	// pending collects closed combos awaiting resolution.
	pending *key.Sequence

	// seqTimer bounds the wait for longer sequences.
	seqTimer *time.Timer
	timerGen uint64

	actionChan chan Action
	closed     bool
}

// New creates a dispatcher backed by the given registry.
func New(registry *keymap.Registry, config Config) *Dispatcher {
	if config.SequenceTimeout <= 0 {
		config.SequenceTimeout = DefaultConfig().SequenceTimeout
	}
	if config.ActionBuffer <= 0 {
		config.ActionBuffer = DefaultConfig().ActionBuffer
	}

	return &Dispatcher{
		config:     config,
		registry:   registry,
		context:    keymap.NewLookupContext(),
		held:       key.NewCombo(),
		pending:    key.NewSequence(),
		actionChan: make(chan Action, config.ActionBuffer),
	}
}

// HandleKey processes a key event. Implements Handler.
func (d *Dispatcher) HandleKey(event key.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	if event.Pressed {
		for _, m := range event.Modifiers {
			d.held.Add(m)
		}
		d.held.Add(event.Key)
		return
	}

	// A release closes the combo in progress.
	if d.held.IsEmpty() {
		return
	}
	d.pending.Add(d.held.Clone())
	d.held.Clear()

	d.resolveSequence()
}

// resolveSequence resolves the pending sequence against the registry.
// Caller must hold the lock.
func (d *Dispatcher) resolveSequence() {
	if d.pending.IsEmpty() {
		return
	}

	binding := d.registry.Lookup(d.pending, d.context)
	couldExtend := d.registry.HasPrefix(d.pending)

	switch {
	case binding != nil && !couldExtend:
		// Unambiguous exact match
		d.dispatchBinding(binding)
		d.clearSequence()

	case binding != nil || couldExtend:
		// Wait for more combos; the timeout settles the ambiguity
		d.resetSequenceTimeout()

	default:
		d.clearSequence()
	}
}

// handleSequenceTimeout fires when no further combo arrived in time.
func (d *Dispatcher) handleSequenceTimeout(gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed || gen != d.timerGen {
		return
	}

	if binding := d.registry.Lookup(d.pending, d.context); binding != nil {
		d.dispatchBinding(binding)
	}
	d.clearSequence()
}

// dispatchBinding emits an action, dropping the oldest on overflow.
// Caller must hold the lock.
func (d *Dispatcher) dispatchBinding(binding *keymap.Binding) {
	action := Action{
		Name: binding.Action,
		Args: binding.Args,
		Keys: d.pending.String(),
	}

	select {
	case d.actionChan <- action:
	default:
		select {
		case <-d.actionChan:
		default:
		}
		select {
		case d.actionChan <- action:
		default:
		}
	}
}

// clearSequence clears the pending sequence and stops the timer.
// Caller must hold the lock.
func (d *Dispatcher) clearSequence() {
	d.pending.Clear()
	d.stopSequenceTimeout()
}

// resetSequenceTimeout cancels and re-arms the sequence timer.
// Caller must hold the lock.
func (d *Dispatcher) resetSequenceTimeout() {
	d.stopSequenceTimeout()

	d.timerGen++
	gen := d.timerGen
	d.seqTimer = time.AfterFunc(d.config.SequenceTimeout, func() {
		d.handleSequenceTimeout(gen)
	})
}

// stopSequenceTimeout stops the sequence timer.
// Caller must hold the lock.
func (d *Dispatcher) stopSequenceTimeout() {
	if d.seqTimer != nil {
		d.seqTimer.Stop()
		d.seqTimer = nil
	}
	d.timerGen++
}

// Actions returns the channel for receiving dispatched actions.
func (d *Dispatcher) Actions() <-chan Action {
	return d.actionChan
}

// Registry returns the keymap registry.
func (d *Dispatcher) Registry() *keymap.Registry {
	return d.registry
}

// PendingKeys returns the pending sequence as a string.
func (d *Dispatcher) PendingKeys() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending.String()
}

// SetCondition sets a named condition for "when" clause evaluation.
func (d *Dispatcher) SetCondition(name string, value bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.context.Conditions[name] = value
}

// SetVariable sets a named variable for "when" clause evaluation.
func (d *Dispatcher) SetVariable(name, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.context.Variables[name] = value
}

// Close shuts down the dispatcher and closes the action channel.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	d.closed = true
	d.stopSequenceTimeout()
	close(d.actionChan)
}

// IsClosed returns true if the dispatcher has been closed.
func (d *Dispatcher) IsClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}
