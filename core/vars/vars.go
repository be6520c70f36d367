// Package vars holds the shell's variable store.
package vars

import (
	"fmt"
	"regexp"
	"sort"
	"sync"
)

var (
	// namePattern matches a valid variable name.
	namePattern = regexp.MustCompile(`\A[a-zA-Z0-9]+\z`)

	// refPattern matches both $NAME and ${ NAME } references. Group 1 holds the
	// bare name and group 2 the braced one.
	refPattern = regexp.MustCompile(`\$(?:([a-zA-Z0-9]+)|\{[ \t]*([a-zA-Z0-9]+)[ \t]*\})`)
)

// Substituter replaces variable references in text.
type Substituter interface {
	Substitute(text string) string
}

// Store maps variable names to string values.
type Store struct {
	rw   sync.RWMutex
	vars map[string]string
}

var _ Substituter = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// ValidName reports whether name can be used as a variable name.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// Set binds name to value.
func (s *Store) Set(name, value string) error {
	if !ValidName(name) {
		return fmt.Errorf("invalid variable name %q", name)
	}

	s.rw.Lock()
	defer s.rw.Unlock()

	if s.vars == nil {
		s.vars = make(map[string]string)
	}
	s.vars[name] = value
	return nil
}

// Lookup returns the value bound to name and whether it was set.
func (s *Store) Lookup(name string) (string, bool) {
	s.rw.RLock()
	defer s.rw.RUnlock()

	val, ok := s.vars[name]
	return val, ok
}

// Get returns the value bound to name or the empty string.
func (s *Store) Get(name string) string {
	val, _ := s.Lookup(name)
	return val
}

// Names returns the sorted names of all set variables.
func (s *Store) Names() []string {
	s.rw.RLock()
	defer s.rw.RUnlock()

	var out []string
	for k := range s.vars {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Substitute replaces every $NAME and ${ NAME } in text with the stored value,
// or the empty string if NAME is unset. Substituted values are not scanned
// again.
func (s *Store) Substitute(text string) string {
	return refPattern.ReplaceAllStringFunc(text, func(ref string) string {
		groups := refPattern.FindStringSubmatch(ref)
		name := groups[1]
		if name == "" {
			name = groups[2]
		}
		return s.Get(name)
	})
}
