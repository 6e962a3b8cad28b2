// Package dispatch matches incoming key events against registered
// bindings and emits actions.
//
// The Dispatcher is keytrap's normal handling logic: it accumulates held
// keys into combos, closes a combo when any of its keys is released,
// collects closed combos into a pending sequence, and resolves the
// sequence against the keymap registry. Exact matches emit an Action on
// the dispatcher's channel; sequences that are a prefix of a longer
// binding wait for more input, bounded by the sequence timeout.
//
// The Handler interface is the single "handle one key event" capability
// that other components, such as the recorder, can wrap.
package dispatch
