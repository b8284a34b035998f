// Package session implements the versioned key-value store threaded through
// scenario execution. A Session maps keys to an append-only history of string
// values. All operations are pure: mutations return a new Session value, so
// sharing a Session across steps is safe by construction.
package session

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// forbiddenKeyRunes are the characters that can never appear in a session key.
// They collide with the placeholder syntax used by assertion front-ends.
const forbiddenKeyRunes = "\r\n<>/[] "

// keyChecks caches validation verdicts per distinct key string.
// Scenarios tend to reuse a small set of keys thousands of times.
var keyChecks sync.Map // string -> error (nil when valid)

// Session is an immutable mapping from key to ordered value history.
// The zero value is not usable; create one with New.
type Session struct {
	content map[string][]string
}

// New creates an empty session.
func New() Session {
	return Session{content: make(map[string][]string)}
}

// KV is a key/value pair for AddAll.
type KV struct {
	Key   string
	Value string
}

// validateKey checks a key against the naming rules, consulting the cache first.
func validateKey(key string) error {
	if cached, ok := keyChecks.Load(key); ok {
		if cached == nil {
			return nil
		}
		return cached.(error)
	}

	var err error
	if strings.TrimSpace(key) == "" {
		err = &EmptyKeyError{Key: key}
	} else if i := strings.IndexAny(key, forbiddenKeyRunes); i >= 0 {
		err = &IllegalKeyError{Key: key, Char: rune(key[i])}
	}

	if err == nil {
		keyChecks.Store(key, nil)
		return nil
	}
	keyChecks.Store(key, err)
	return err
}

// Add appends a value to the key's history, creating the key if needed.
// The key is validated; the session is returned unchanged on error.
func (s Session) Add(key, value string) (Session, error) {
	if err := validateKey(key); err != nil {
		return s, err
	}
	next := s.clone()
	next.content[key] = append(next.content[key], value)
	return next, nil
}

// AddAll appends every pair in order, stopping at the first invalid key.
func (s Session) AddAll(pairs ...KV) (Session, error) {
	next := s
	for _, p := range pairs {
		var err error
		next, err = next.Add(p.Key, p.Value)
		if err != nil {
			return s, err
		}
	}
	return next, nil
}

// Get returns the latest value recorded for the key.
func (s Session) Get(key string) (string, error) {
	values, ok := s.content[key]
	if !ok {
		return "", s.notFound(key)
	}
	return values[len(values)-1], nil
}

// GetAt returns the value at an explicit position in the key's history.
func (s Session) GetAt(key string, index int) (string, error) {
	values, ok := s.content[key]
	if !ok {
		return "", s.notFound(key)
	}
	if index < 0 || index >= len(values) {
		return "", &IndexNotFoundError{Key: key, Index: index, Values: append([]string(nil), values...)}
	}
	return values[index], nil
}

// GetOptional returns the latest value and whether the key exists.
func (s Session) GetOptional(key string) (string, bool) {
	values, ok := s.content[key]
	if !ok {
		return "", false
	}
	return values[len(values)-1], true
}

// Previous returns the second-to-last value recorded for the key.
func (s Session) Previous(key string) (string, error) {
	values, ok := s.content[key]
	if !ok {
		return "", s.notFound(key)
	}
	return s.GetAt(key, len(values)-2)
}

// History returns the full ordered value history for the key.
func (s Session) History(key string) ([]string, error) {
	values, ok := s.content[key]
	if !ok {
		return nil, s.notFound(key)
	}
	return append([]string(nil), values...), nil
}

// Remove drops the key and its entire history. Unknown keys are a no-op.
func (s Session) Remove(key string) Session {
	if _, ok := s.content[key]; !ok {
		return s
	}
	next := s.clone()
	delete(next.content, key)
	return next
}

// Rollback drops the most recent value of the key. When the history
// becomes empty the key itself is removed. Unknown keys are a no-op.
func (s Session) Rollback(key string) Session {
	values, ok := s.content[key]
	if !ok {
		return s
	}
	next := s.clone()
	if len(values) <= 1 {
		delete(next.content, key)
		return next
	}
	next.content[key] = values[:len(values)-1]
	return next
}

// Merge concatenates the other session's histories onto this one, per key.
// Intended for isolated merge scenarios, not for cross-run state sharing.
func (s Session) Merge(other Session) Session {
	next := s.clone()
	for _, key := range other.Keys() {
		next.content[key] = append(next.content[key], other.content[key]...)
	}
	return next
}

// Keys returns all keys in sorted order.
func (s Session) Keys() []string {
	keys := make([]string, 0, len(s.content))
	for k := range s.content {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of keys.
func (s Session) Len() int {
	return len(s.content)
}

// Content returns a deep copy of the underlying mapping.
func (s Session) Content() map[string][]string {
	out := make(map[string][]string, len(s.content))
	for k, v := range s.content {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// String renders the session for diagnostics, keys sorted, latest value last.
func (s Session) String() string {
	if len(s.content) == 0 {
		return "empty session"
	}
	var sb strings.Builder
	for _, key := range s.Keys() {
		fmt.Fprintf(&sb, "%s -> %v\n", key, s.content[key])
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func (s Session) notFound(key string) error {
	return &KeyNotFoundError{
		Key:     key,
		Similar: s.closestKey(key),
		Content: s.Content(),
	}
}

// closestKey finds an existing key at edit distance 1, for "did you mean" hints.
func (s Session) closestKey(key string) string {
	for _, candidate := range s.Keys() {
		if editDistance(key, candidate) == 1 {
			return candidate
		}
	}
	return ""
}

func (s Session) clone() Session {
	next := Session{content: make(map[string][]string, len(s.content))}
	for k, v := range s.content {
		next.content[k] = append([]string(nil), v...)
	}
	return next
}

// editDistance is a plain Levenshtein distance over bytes.
func editDistance(a, b string) int {
	if a == b {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
