package config

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// foldKey folds a key for case-insensitive lookup. A Caser is stateful, so
// each call gets its own.
func foldKey(k string) string {
	return cases.Fold().String(k)
}

// Settings is a read-only flat key/value source. Keys are matched
// case-insensitively. Malformed values resolve to the caller's default.
type Settings struct {
	values map[string]string
}

// NewSettings copies values into a Settings source.
func NewSettings(values map[string]string) Settings {
	s := Settings{values: make(map[string]string, len(values))}
	for k, v := range values {
		s.values[foldKey(strings.TrimSpace(k))] = v
	}
	return s
}

// Lookup returns the trimmed value and whether the key is present.
func (s Settings) Lookup(key string) (string, bool) {
	v, ok := s.values[foldKey(key)]
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// String returns the value or def when the key is absent or blank.
func (s Settings) String(key, def string) string {
	if v, ok := s.Lookup(key); ok && v != "" {
		return v
	}
	return def
}

// Bool parses the value with strconv.ParseBool; absent, blank or
// unparseable values yield def.
func (s Settings) Bool(key string, def bool) bool {
	v, ok := s.Lookup(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Int returns the parsed integer; ok is false when the key is absent or the
// value does not parse.
func (s Settings) Int(key string) (int, bool) {
	v, present := s.Lookup(key)
	if !present || v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// List splits the value on commas and semicolons, trimming blanks.
func (s Settings) List(key string) []string {
	v, ok := s.Lookup(key)
	if !ok {
		return nil
	}
	return SplitList(v)
}

// SplitList splits a comma or semicolon separated list, dropping empty items.
func SplitList(v string) []string {
	parts := strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ';' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of keys.
func (s Settings) Len() int {
	return len(s.values)
}
