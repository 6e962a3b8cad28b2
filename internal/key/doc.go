// Package key provides key identifiers, events, combos, and sequences for
// the keytrap input system.
//
// This package defines the fundamental types for representing keyboard
// input:
//
//   - Event: A single key press or release with the active modifiers
//   - Combo: The set of keys considered pressed simultaneously
//   - Sequence: A series of combos forming a binding or a recording
//
// # Key Identifiers
//
// A key is identified by a string. Identifiers of length one are character
// keys ("a", "1", "?"). Longer identifiers are modifier or named keys
// ("ctrl", "shift", "enter", "f4"). When a combo is normalized, modifier
// and named keys sort before character keys, alphabetically within each
// class, and the combo renders as a "+"-joined string such as
// "ctrl+shift+a".
//
// # Combo Specifications
//
// Combo specifications can be written as "+"-joined strings:
//
//   - Simple keys: "a", "enter", "f4"
//   - With modifiers: "ctrl+s", "ctrl+shift+p", "meta+alt+left"
//
// Multi-combo sequences are written space-separated: "g g", "ctrl+x ctrl+s".
package key
