// Package keys canonicalizes key names so tcell events and configured
// bindings compare equal.
package keys

import "strings"

// aliases maps spellings users commonly write in config to tcell names.
var aliases = map[string]string{
	"Escape":    "Esc",
	"Return":    "Enter",
	"ArrowUp":   "Up",
	"ArrowDown": "Down",
}

// Normalize converts tcell key names and configured bindings to one format.
// tcell outputs "Ctrl-C" (hyphen) for bare Ctrl keys but config uses "Ctrl+C" (plus).
func Normalize(name string) string {
	name = strings.ReplaceAll(name, "Ctrl-", "Ctrl+")
	if a, ok := aliases[name]; ok {
		return a
	}
	return name
}

// Match reports whether a key event name matches a binding.
func Match(eventName, binding string) bool {
	return binding != "" && Normalize(eventName) == Normalize(binding)
}
