// Package binding accumulates the spans bound to pattern variables and
// enforces that repeated names agree.
package binding

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gnolang/termmatch/term"
)

// ErrInconsistent is wrapped by every ConflictError.
var ErrInconsistent = errors.New("inconsistent binding")

// ConflictError reports an attempt to rebind a name to a different span.
type ConflictError struct {
	Name     string
	Existing []term.Term
	Value    []term.Term
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s is bound to [%s], not [%s]",
		ErrInconsistent, e.Name, term.Join(e.Existing), term.Join(e.Value))
}

func (e *ConflictError) Unwrap() error { return ErrInconsistent }

// Binding is a complete, immutable assignment of names to spans.
type Binding map[string][]term.Term

// Get returns the span bound to name.
func (b Binding) Get(name string) ([]term.Term, bool) {
	v, ok := b[name]
	return v, ok
}

// Names returns the bound names in sorted order.
func (b Binding) Names() []string {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Equal reports whether b and o bind the same names to equal spans.
func (b Binding) Equal(o Binding) bool {
	if len(b) != len(o) {
		return false
	}
	for name, v := range b {
		w, ok := o[name]
		if !ok || !term.EqualSeq(v, w) {
			return false
		}
	}
	return true
}

// String renders b as "{x: c, xs: a b}" with names sorted.
func (b Binding) String() string {
	parts := make([]string, 0, len(b))
	for _, name := range b.Names() {
		parts = append(parts, name+": "+term.Join(b[name]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Compound wraps the span bound to name in a compound headed by head, the way
// a rewrite would splice a sequence variable into a new expression.
func (b Binding) Compound(name string, head term.Term) (*term.Compound, bool) {
	v, ok := b[name]
	if !ok {
		return nil, false
	}
	elems := make([]term.Term, 0, len(v)+1)
	elems = append(elems, head)
	elems = append(elems, v...)
	return term.C(elems...), true
}

// CheckHead reports whether every element of value has the required head.
// A nil head accepts anything.
func CheckHead(value []term.Term, head term.Term) bool {
	if head == nil {
		return true
	}
	for _, t := range value {
		if !term.Equal(term.Head(t), head) {
			return false
		}
	}
	return true
}

// Store is the mutable binding set used during a search. It records an undo
// trail so that backtracking can restore earlier states.
type Store struct {
	values map[string][]term.Term
	trail  []string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{values: make(map[string][]term.Term)}
}

// Bind binds name to value, or verifies value against an existing binding.
// Anonymous names are accepted without being recorded.
func (s *Store) Bind(name string, value []term.Term) error {
	if name == "" {
		return nil
	}
	if existing, ok := s.values[name]; ok {
		if !term.EqualSeq(existing, value) {
			return &ConflictError{Name: name, Existing: existing, Value: value}
		}
		return nil
	}
	s.values[name] = value
	s.trail = append(s.trail, name)
	return nil
}

// Lookup returns the current binding of name.
func (s *Store) Lookup(name string) ([]term.Term, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Mark returns a point Reset can roll back to.
func (s *Store) Mark() int { return len(s.trail) }

// Reset undoes every binding made after mark.
func (s *Store) Reset(mark int) {
	for _, name := range s.trail[mark:] {
		delete(s.values, name)
	}
	s.trail = s.trail[:mark]
}

// Len is the number of bound names.
func (s *Store) Len() int { return len(s.values) }

// Snapshot copies the current bindings. Spans are shared with the subject.
func (s *Store) Snapshot() Binding {
	b := make(Binding, len(s.values))
	for k, v := range s.values {
		b[k] = v
	}
	return b
}
