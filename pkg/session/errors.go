package session

import (
	"fmt"
	"sort"
	"strings"
)

// EmptyKeyError is returned by Add when the key is empty after trimming.
type EmptyKeyError struct {
	Key string
}

func (e *EmptyKeyError) Error() string {
	return fmt.Sprintf("session key %q is empty", e.Key)
}

// IllegalKeyError is returned by Add when the key contains a forbidden character.
type IllegalKeyError struct {
	Key  string
	Char rune
}

func (e *IllegalKeyError) Error() string {
	return fmt.Sprintf("session key %q contains forbidden character %q", e.Key, e.Char)
}

// KeyNotFoundError is returned by lookups on an absent key. It carries the
// full session content for diagnostics and, when an existing key is one edit
// away, a "did you mean" suggestion.
type KeyNotFoundError struct {
	Key     string
	Similar string
	Content map[string][]string
}

func (e *KeyNotFoundError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "key %q not found in session", e.Key)
	if e.Similar != "" {
		fmt.Fprintf(&sb, ", did you mean %q?", e.Similar)
	}
	if len(e.Content) == 0 {
		sb.WriteString("\nthe session is empty")
		return sb.String()
	}
	sb.WriteString("\nsession content:")
	keys := make([]string, 0, len(e.Content))
	for k := range e.Content {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, "\n%s -> %v", k, e.Content[k])
	}
	return sb.String()
}

// IndexNotFoundError is returned when a history index is out of range.
type IndexNotFoundError struct {
	Key    string
	Index  int
	Values []string
}

func (e *IndexNotFoundError) Error() string {
	return fmt.Sprintf("index %d not found for key %q, existing values: %v", e.Index, e.Key, e.Values)
}
