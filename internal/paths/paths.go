// Package paths holds the protected route policy shared by the request and
// navigation guards.
package paths

import "strings"

// DefaultProtected lists the route prefixes that require an authenticated session
var DefaultProtected = []string{"/imports", "/scenarios", "/management"}

// PrefixSet matches a path when it equals a prefix or lies beneath one
type PrefixSet struct {
	prefixes []string
}

// NewPrefixSet creates a PrefixSet. Trailing slashes are trimmed and empty entries dropped.
func NewPrefixSet(prefixes ...string) *PrefixSet {
	cleaned := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		p = strings.TrimRight(strings.TrimSpace(p), "/")
		if p == "" {
			continue
		}
		cleaned = append(cleaned, p)
	}
	return &PrefixSet{prefixes: cleaned}
}

// Match reports whether path is a protected prefix or one of its sub-paths
func (s *PrefixSet) Match(path string) bool {
	for _, prefix := range s.prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// Prefixes returns a copy of the configured prefixes
func (s *PrefixSet) Prefixes() []string {
	return append([]string(nil), s.prefixes...)
}

// ExactSet matches a path only when it is one of the listed paths
type ExactSet map[string]struct{}

// NewExactSet creates an ExactSet from the given paths
func NewExactSet(paths ...string) ExactSet {
	set := make(ExactSet, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return set
}

// Match reports whether path is exactly one of the set's members
func (s ExactSet) Match(path string) bool {
	_, ok := s[path]
	return ok
}
