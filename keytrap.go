// Package keytrap is a key-binding library with key-sequence recording.
//
// Keytrap matches key events against registered combo-sequence bindings
// and emits actions, like any key-binding library. On top of that it can
// record: while a recording session is active, key events are captured
// instead of matched, grouped into combos and sequences, and delivered
// to a callback as canonical "+"-joined strings such as "ctrl+shift+a".
//
// # Basic use
//
//	kt := keytrap.Default()
//	defer kt.Close()
//
//	kt.Bind("ctrl+s", "editor.save")
//	kt.Bind("g g", "cursor.top")
//
//	go func() {
//	    for action := range kt.Actions() {
//	        fmt.Println("action:", action.Name)
//	    }
//	}()
//
//	// Feed key events from your input source:
//	kt.HandleKey(keytrap.NewPress("s", "ctrl"))
//	kt.HandleKey(keytrap.NewRelease("s", "ctrl"))
//
// # Recording
//
//	kt.Record(func(seq []string) {
//	    fmt.Println("recorded:", seq)
//	})
//
// While recording, events are consumed by the recorder and normal
// binding dispatch does not run, so combos that are bound (or that the
// surrounding application would otherwise swallow) can still be
// captured. StopRecord aborts without delivering a result.
package keytrap

import (
	"github.com/dshills/keytrap/internal/dispatch"
	"github.com/dshills/keytrap/internal/key"
	"github.com/dshills/keytrap/internal/keymap"
	"github.com/dshills/keytrap/internal/record"
)

// Re-exported types. The library's packages live under internal; these
// aliases are the public surface.
type (
	// Event is a single key press or release.
	Event = key.Event

	// Combo is a set of simultaneously-pressed keys.
	Combo = key.Combo

	// Sequence is an ordered series of combos.
	Sequence = key.Sequence

	// Keymap is a named set of bindings.
	Keymap = keymap.Keymap

	// Binding maps a combo sequence to an action.
	Binding = keymap.Binding

	// Action is an executed binding.
	Action = dispatch.Action

	// SessionID identifies a recording session.
	SessionID = record.SessionID

	// CompleteFunc receives a finished recording.
	CompleteFunc = record.CompleteFunc

	// LiveUpdateFunc receives the combo in progress while recording.
	LiveUpdateFunc = record.LiveUpdateFunc

	// RecordOption configures a recording session.
	RecordOption = record.Option

	// Config configures dispatch behavior.
	Config = dispatch.Config
)

// Re-exported constructors and options.
var (
	NewPress        = key.NewPress
	NewRelease      = key.NewRelease
	ParseCombo      = key.ParseCombo
	ParseSequence   = key.ParseSequence
	NewKeymap       = keymap.NewKeymap
	NewBinding      = keymap.NewBinding
	WithSingleCombo = record.WithSingleCombo
	WithLiveUpdate  = record.WithLiveUpdate
	WithIdleTimeout = record.WithIdleTimeout
	DefaultConfig   = dispatch.DefaultConfig
)

// userKeymapName is the keymap backing Bind calls.
const userKeymapName = "user"

// Keytrap ties the dispatcher and recorder together.
type Keytrap struct {
	registry   *keymap.Registry
	dispatcher *dispatch.Dispatcher
	recorder   *record.Recorder

	user *keymap.Keymap
}

// New creates a Keytrap with the given dispatch configuration.
func New(config Config) *Keytrap {
	registry := keymap.NewRegistry()
	dispatcher := dispatch.New(registry, config)

	return &Keytrap{
		registry:   registry,
		dispatcher: dispatcher,
		recorder:   record.New(dispatcher),
		user:       keymap.NewKeymap(userKeymapName).WithSource("user"),
	}
}

// Default creates a Keytrap with default configuration.
func Default() *Keytrap {
	return New(DefaultConfig())
}

// HandleKey feeds one key event into the library. While a recording
// session is active the event is captured; otherwise it is matched
// against the registered bindings.
func (kt *Keytrap) HandleKey(event Event) {
	kt.recorder.HandleKey(event)
}

// Bind adds a binding to the user keymap.
// Keys is a combo sequence specification like "ctrl+s" or "g g".
func (kt *Keytrap) Bind(keys, action string) error {
	kt.user.Add(keys, action)
	if err := kt.registry.Register(kt.user); err != nil {
		// Roll back the bad binding so earlier ones keep working
		kt.user.Bindings = kt.user.Bindings[:len(kt.user.Bindings)-1]
		_ = kt.registry.Register(kt.user)
		return err
	}
	return nil
}

// RegisterKeymap adds a complete keymap to the registry.
func (kt *Keytrap) RegisterKeymap(km *Keymap) error {
	return kt.registry.Register(km)
}

// Actions returns the channel of matched actions.
func (kt *Keytrap) Actions() <-chan Action {
	return kt.dispatcher.Actions()
}

// Record starts a recording session and returns its ID.
func (kt *Keytrap) Record(onComplete CompleteFunc, opts ...RecordOption) SessionID {
	return kt.recorder.Record(onComplete, opts...)
}

// StopRecord aborts the active recording session without delivering a
// result. A no-op when idle.
func (kt *Keytrap) StopRecord() {
	kt.recorder.Stop()
}

// Recording returns true while a recording session is active.
func (kt *Keytrap) Recording() bool {
	return kt.recorder.Recording()
}

// Registry returns the keymap registry for advanced configuration.
func (kt *Keytrap) Registry() *keymap.Registry {
	return kt.registry
}

// Close shuts down dispatch and closes the action channel.
func (kt *Keytrap) Close() {
	kt.recorder.Stop()
	kt.dispatcher.Close()
}
