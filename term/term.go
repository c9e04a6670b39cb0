// Package term defines the subject side of matching: atoms and compound
// expressions whose first element is their head.
package term

import (
	"fmt"
	"strings"
)

// Kind distinguishes the two term variants.
type Kind int

const (
	KindAtom Kind = iota
	KindCompound
)

func (k Kind) String() string {
	switch k {
	case KindAtom:
		return "atom"
	case KindCompound:
		return "compound"
	default:
		return "unknown"
	}
}

// Term is either an Atom or a *Compound.
type Term interface {
	Kind() Kind
	String() string
}

var (
	_ Term = Atom{}
	_ Term = (*Compound)(nil)
)

// Atom is a leaf identifier.
type Atom struct {
	Name string
}

// A returns the atom with the given name.
func A(name string) Atom { return Atom{Name: name} }

func (a Atom) Kind() Kind     { return KindAtom }
func (a Atom) String() string { return a.Name }

// Compound is an ordered, non-empty list of terms. Element 0 is the head,
// the rest are the arguments.
type Compound struct {
	elems []Term
}

// C builds a compound from its head and arguments.
// It panics when called without any element.
func C(elems ...Term) *Compound {
	if len(elems) == 0 {
		panic("term: compound requires at least a head element")
	}
	return &Compound{elems: elems}
}

func (c *Compound) Kind() Kind { return KindCompound }

func (c *Compound) String() string {
	parts := make([]string, len(c.elems))
	for i, e := range c.elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Elements returns every element, head included. The slice must not be modified.
func (c *Compound) Elements() []Term { return c.elems }

// Args returns the elements after the head.
func (c *Compound) Args() []Term { return c.elems[1:] }

// Head returns the head of t: the first element of a compound, or the atom itself.
func Head(t Term) Term {
	switch v := t.(type) {
	case Atom:
		return v
	case *Compound:
		return v.elems[0]
	default:
		panic(fmt.Sprintf("term: unsupported term type %T", t))
	}
}

// Len returns the number of arguments of t. Atoms have none.
func Len(t Term) int {
	switch v := t.(type) {
	case Atom:
		return 0
	case *Compound:
		return len(v.elems) - 1
	default:
		panic(fmt.Sprintf("term: unsupported term type %T", t))
	}
}

// Slice returns a new compound made of the elements [start, end) of c.
// The range must be non-empty and within bounds.
func Slice(c *Compound, start, end int) *Compound {
	if start < 0 || end > len(c.elems) || start >= end {
		panic(fmt.Sprintf("term: invalid slice [%d:%d] of compound with %d elements", start, end, len(c.elems)))
	}
	return &Compound{elems: c.elems[start:end:end]}
}

// MustCompound asserts that t is a compound.
func MustCompound(t Term) *Compound {
	c, ok := t.(*Compound)
	if !ok {
		panic(fmt.Sprintf("term: expected a compound, got %s %q", t.Kind(), t.String()))
	}
	return c
}

// Equal reports whether a and b are structurally equal.
func Equal(a, b Term) bool {
	switch x := a.(type) {
	case Atom:
		y, ok := b.(Atom)
		return ok && x.Name == y.Name
	case *Compound:
		y, ok := b.(*Compound)
		if !ok {
			return false
		}
		return EqualSeq(x.elems, y.elems)
	default:
		return false
	}
}

// EqualSeq reports whether two term sequences are element-wise equal.
func EqualSeq(a, b []Term) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Join renders a sequence of terms separated by single spaces.
func Join(seq []Term) string {
	parts := make([]string, len(seq))
	for i, t := range seq {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

// Chars turns every rune of s into an atom.
func Chars(s string) []Term {
	var seq []Term
	for _, r := range s {
		seq = append(seq, Atom{Name: string(r)})
	}
	return seq
}
