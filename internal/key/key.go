package key

import (
	"strings"
	"unicode/utf8"
)

// Modifier identifiers in canonical form.
const (
	ModCtrl  = "ctrl"
	ModAlt   = "alt"
	ModShift = "shift"
	ModMeta  = "meta"
)

// IsCharacter returns true if the identifier is a character key.
// Character keys are exactly one rune long.
func IsCharacter(id string) bool {
	return utf8.RuneCountInString(id) == 1
}

// IsModifier returns true if the identifier is a modifier or named key.
// Anything longer than one rune sorts as a modifier during normalization.
func IsModifier(id string) bool {
	return id != "" && !IsCharacter(id)
}

// modifierNameMap maps modifier aliases (lowercase) to canonical names.
var modifierNameMap = map[string]string{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"alt":     ModAlt,
	"option":  ModAlt,
	"opt":     ModAlt,
	"shift":   ModShift,
	"meta":    ModMeta,
	"cmd":     ModMeta,
	"command": ModMeta,
	"win":     ModMeta,
	"super":   ModMeta,
}

// namedKeyMap maps named-key aliases (lowercase) to canonical names.
var namedKeyMap = map[string]string{
	"escape":      "escape",
	"esc":         "escape",
	"enter":       "enter",
	"return":      "enter",
	"cr":          "enter",
	"tab":         "tab",
	"backspace":   "backspace",
	"bs":          "backspace",
	"delete":      "delete",
	"del":         "delete",
	"insert":      "insert",
	"ins":         "insert",
	"home":        "home",
	"end":         "end",
	"pageup":      "pageup",
	"pgup":        "pageup",
	"pagedown":    "pagedown",
	"pgdn":        "pagedown",
	"up":          "up",
	"down":        "down",
	"left":        "left",
	"right":       "right",
	"space":       "space",
	"pause":       "pause",
	"printscreen": "printscreen",
	"scrolllock":  "scrolllock",
	"numlock":     "numlock",
	"capslock":    "capslock",
	"f1":          "f1",
	"f2":          "f2",
	"f3":          "f3",
	"f4":          "f4",
	"f5":          "f5",
	"f6":          "f6",
	"f7":          "f7",
	"f8":          "f8",
	"f9":          "f9",
	"f10":         "f10",
	"f11":         "f11",
	"f12":         "f12",
}

// CanonicalModifier returns the canonical name for a modifier alias.
// Returns empty string if the name is not a known modifier.
func CanonicalModifier(name string) string {
	return modifierNameMap[strings.ToLower(strings.TrimSpace(name))]
}

// CanonicalName resolves aliases for modifier and named keys.
// Character keys and unrecognized identifiers are returned lowercased
// but otherwise unchanged.
func CanonicalName(id string) string {
	trimmed := strings.TrimSpace(id)
	if IsCharacter(trimmed) {
		return trimmed
	}
	lower := strings.ToLower(trimmed)
	if mod, ok := modifierNameMap[lower]; ok {
		return mod
	}
	if named, ok := namedKeyMap[lower]; ok {
		return named
	}
	return lower
}

// IsKnownModifier returns true if the identifier names a modifier key.
func IsKnownModifier(id string) bool {
	_, ok := modifierNameMap[strings.ToLower(id)]
	return ok
}

// IsNamedKey returns true if the identifier names a special key.
func IsNamedKey(id string) bool {
	_, ok := namedKeyMap[strings.ToLower(id)]
	return ok
}
