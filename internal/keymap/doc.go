// Package keymap manages key bindings for the keytrap library.
//
// A Keymap is a named collection of bindings mapping combo sequences to
// action names. The Registry indexes registered keymaps in a prefix tree
// for efficient exact and prefix lookup during dispatch, and evaluates
// optional "when" conditions through a pluggable ConditionEvaluator.
//
// Keymaps can be loaded from JSON, TOML, or YAML files via the Loader,
// and kept in sync with files on disk via the Watcher.
package keymap
