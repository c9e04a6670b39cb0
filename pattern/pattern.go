// Package pattern defines the closed set of pattern elements matched against
// term sequences: literals, blanks, sequences and null sequences.
package pattern

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gnolang/termmatch/term"
)

// Kind enumerates pattern element kinds.
type Kind int

const (
	KindLiteral      Kind = iota // exactly one element, structurally equal to the literal
	KindBlank                    // x_   exactly one element
	KindSequence                 // xs__ one or more elements
	KindNullSequence             // xs___ zero or more elements
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindBlank:
		return "blank"
	case KindSequence:
		return "sequence"
	case KindNullSequence:
		return "null-sequence"
	default:
		return "unknown"
	}
}

// Element is one position of a pattern.
type Element struct {
	Kind Kind
	// Name is the variable the matched span is bound to. Empty means anonymous.
	Name string
	// Literal is the term a KindLiteral element must equal.
	Literal term.Term
	// Head, when non-nil, constrains the head of every matched element.
	Head term.Term
}

// Literal returns an anonymous literal element.
func Literal(t term.Term) Element {
	return Element{Kind: KindLiteral, Literal: t}
}

// NamedLiteral returns a literal element whose matched element is also bound to name.
func NamedLiteral(name string, t term.Term) Element {
	return Element{Kind: KindLiteral, Name: name, Literal: t}
}

// Blank returns an element consuming exactly one subject element. head may be nil.
func Blank(name string, head term.Term) Element {
	return Element{Kind: KindBlank, Name: name, Head: head}
}

// Sequence returns an element consuming one or more subject elements. head may be nil.
func Sequence(name string, head term.Term) Element {
	return Element{Kind: KindSequence, Name: name, Head: head}
}

// NullSequence returns an element consuming zero or more subject elements. head may be nil.
func NullSequence(name string, head term.Term) Element {
	return Element{Kind: KindNullSequence, Name: name, Head: head}
}

// MinArity is the fewest subject elements e can consume.
func (e Element) MinArity() int {
	switch e.Kind {
	case KindLiteral, KindBlank, KindSequence:
		return 1
	case KindNullSequence:
		return 0
	default:
		panic(fmt.Sprintf("pattern: unknown element kind %d", e.Kind))
	}
}

// MaxArity is the most elements e can consume from a subject of length n.
func (e Element) MaxArity(n int) int {
	switch e.Kind {
	case KindLiteral, KindBlank:
		return 1
	case KindSequence, KindNullSequence:
		return n
	default:
		panic(fmt.Sprintf("pattern: unknown element kind %d", e.Kind))
	}
}

// String renders e in pattern notation.
func (e Element) String() string {
	switch e.Kind {
	case KindLiteral:
		lit := e.Literal.String()
		if a, ok := e.Literal.(term.Atom); ok && strings.Contains(a.Name, "_") {
			lit = "'" + lit
		}
		if e.Name != "" {
			return e.Name + ":" + lit
		}
		return lit
	case KindBlank, KindSequence, KindNullSequence:
		var sb strings.Builder
		sb.WriteString(e.Name)
		sb.WriteString(strings.Repeat("_", int(e.Kind)))
		if e.Head != nil {
			sb.WriteString(e.Head.String())
		}
		return sb.String()
	default:
		return "unknown"
	}
}

// Pattern is an ordered list of elements.
type Pattern []Element

func (p Pattern) String() string {
	parts := make([]string, len(p))
	for i, e := range p {
		parts[i] = e.String()
	}
	return strings.Join(parts, " ")
}

// MinLength is the shortest subject p can match.
func (p Pattern) MinLength() int {
	n := 0
	for _, e := range p {
		n += e.MinArity()
	}
	return n
}

// Names returns the distinct variable names of p, sorted.
func (p Pattern) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for _, e := range p {
		if e.Name == "" || seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}
