package pattern

import (
	"fmt"
	"strings"

	"github.com/gnolang/termmatch/term"
)

// Parse reads a pattern in notation form, a whitespace separated list of:
//
//	x_  x_h      blank, optionally head constrained
//	xs__ xs__h   sequence
//	xs___        null sequence
//	_ __ ___     anonymous variants
//	f (g a)      literals
//	'a_b         literal atom containing underscores
//	n:f  n:(g a) literal bound to n
func Parse(input string) (Pattern, error) {
	seq, err := term.ParseSequence(input)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", input, err)
	}

	p := make(Pattern, 0, len(seq))
	for i := 0; i < len(seq); i++ {
		atom, ok := seq[i].(term.Atom)
		if !ok {
			p = append(p, Literal(seq[i]))
			continue
		}

		// n: (g a)
		if strings.HasSuffix(atom.Name, ":") && len(atom.Name) > 1 {
			if i+1 >= len(seq) {
				return nil, fmt.Errorf("invalid pattern %q: %s is not followed by a literal", input, atom.Name)
			}
			p = append(p, NamedLiteral(strings.TrimSuffix(atom.Name, ":"), seq[i+1]))
			i++
			continue
		}

		elem, err := ParseElement(atom.Name)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", input, err)
		}
		p = append(p, elem)
	}
	return p, nil
}

// MustParse is like Parse but panics on error.
func MustParse(input string) Pattern {
	p, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return p
}

// ParseElement parses a single atom-shaped element such as "xs__h" or "f".
func ParseElement(s string) (Element, error) {
	if s == "" {
		return Element{}, fmt.Errorf("empty pattern element")
	}
	if s[0] == '\'' {
		if len(s) == 1 {
			return Element{}, fmt.Errorf("empty quoted literal")
		}
		return Literal(term.A(s[1:])), nil
	}

	if name, lit, ok := strings.Cut(s, ":"); ok && name != "" && lit != "" {
		return NamedLiteral(name, term.A(strings.TrimPrefix(lit, "'"))), nil
	}

	start := strings.IndexByte(s, '_')
	if start < 0 {
		return Literal(term.A(s)), nil
	}

	end := start
	for end < len(s) && s[end] == '_' {
		end++
	}
	name, head := s[:start], s[end:]
	if strings.Contains(head, "_") {
		return Element{}, fmt.Errorf("invalid head constraint in %q", s)
	}

	var h term.Term
	if head != "" {
		h = term.A(head)
	}

	switch end - start {
	case 1:
		return Blank(name, h), nil
	case 2:
		return Sequence(name, h), nil
	case 3:
		return NullSequence(name, h), nil
	default:
		return Element{}, fmt.Errorf("too many underscores in %q", s)
	}
}
