// Package suite loads YAML files of matching cases and runs them.
package suite

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gnolang/termmatch/match"
	"github.com/gnolang/termmatch/pattern"
	"github.com/gnolang/termmatch/term"
)

// DefaultPath is where `termmatch init` writes a starter suite.
const DefaultPath = ".termmatch.yaml"

// Suite is a named list of cases.
type Suite struct {
	Name  string `yaml:"name"`
	Order string `yaml:"order,omitempty"`
	Cases []Case `yaml:"cases"`
}

// Case is one subject/pattern pair and its expected outcome. Exactly one of
// Subject, Sequence and Chars must be set.
type Case struct {
	Name string `yaml:"name"`
	// Subject is a single compound term, e.g. "(f (a b) c)".
	Subject string `yaml:"subject,omitempty"`
	// Sequence is a flat list of terms, e.g. "f a (g b)".
	Sequence string `yaml:"sequence,omitempty"`
	// Chars is matched character by character.
	Chars string `yaml:"chars,omitempty"`
	// Level applies to Subject: "tree" (default) or "arguments".
	Level   string `yaml:"level,omitempty"`
	Pattern string `yaml:"pattern"`
	Order   string `yaml:"order,omitempty"`
	All     bool   `yaml:"all,omitempty"`
	Expect  Expect `yaml:"expect"`
}

// Expect describes the outcome a case must produce.
type Expect struct {
	Match bool `yaml:"match"`
	// Bindings maps names to their expected span in term notation,
	// checked against the canonical match.
	Bindings map[string]string `yaml:"bindings,omitempty"`
	// Count, when set, is the number of matches enumeration must find.
	Count *int `yaml:"count,omitempty"`
}

const (
	LevelTree      = "tree"
	LevelArguments = "arguments"
)

var (
	ErrNoSubject       = errors.New("case has no subject")
	ErrMultipleSubject = errors.New("case sets more than one of subject, sequence and chars")
)

// Compiled is a case with its notation parsed.
type Compiled struct {
	Subject []term.Term
	Pattern pattern.Pattern
	// Order is nil when the case does not override the suite order.
	Order *match.Order
}

// Compile parses the subject, pattern and order of c.
func (c Case) Compile() (Compiled, error) {
	var out Compiled

	set := 0
	for _, s := range []string{c.Subject, c.Sequence, c.Chars} {
		if s != "" {
			set++
		}
	}
	switch {
	case set == 0:
		return out, fmt.Errorf("case %q: %w", c.Name, ErrNoSubject)
	case set > 1:
		return out, fmt.Errorf("case %q: %w", c.Name, ErrMultipleSubject)
	}

	switch {
	case c.Subject != "":
		t, err := term.Parse(c.Subject)
		if err != nil {
			return out, fmt.Errorf("case %q: subject: %w", c.Name, err)
		}
		compound, ok := t.(*term.Compound)
		if !ok {
			return out, fmt.Errorf("case %q: subject %q is not a compound", c.Name, c.Subject)
		}
		switch c.Level {
		case "", LevelTree:
			out.Subject = compound.Elements()
		case LevelArguments:
			out.Subject = compound.Args()
		default:
			return out, fmt.Errorf("case %q: unknown level %q", c.Name, c.Level)
		}
	case c.Sequence != "":
		seq, err := term.ParseSequence(c.Sequence)
		if err != nil {
			return out, fmt.Errorf("case %q: sequence: %w", c.Name, err)
		}
		out.Subject = seq
	default:
		out.Subject = term.Chars(c.Chars)
	}

	p, err := pattern.Parse(c.Pattern)
	if err != nil {
		return out, fmt.Errorf("case %q: %w", c.Name, err)
	}
	out.Pattern = p

	if c.Order != "" {
		o, err := match.ParseOrder(c.Order)
		if err != nil {
			return out, fmt.Errorf("case %q: %w", c.Name, err)
		}
		out.Order = &o
	}
	return out, nil
}

// Load reads and validates a suite file.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a suite and checks that every case compiles.
func Parse(data []byte) (*Suite, error) {
	var s Suite
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, err
	}
	if s.Order != "" {
		if _, err := match.ParseOrder(s.Order); err != nil {
			return nil, err
		}
	}
	for _, c := range s.Cases {
		if _, err := c.Compile(); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// Write stores s at path in YAML form.
func Write(path string, s *Suite) error {
	d, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, d, 0o644)
}

func intPtr(n int) *int { return &n }

// Example returns a starter suite covering the basic element kinds.
func Example() *Suite {
	return &Suite{
		Name:  "termmatch",
		Order: match.LongestFirst.String(),
		Cases: []Case{
			{
				Name:    "greedy null sequence",
				Chars:   "fabc",
				Pattern: "f ys___ xs__ x_",
				All:     true,
				Expect: Expect{
					Match:    true,
					Bindings: map[string]string{"x": "c", "xs": "b", "ys": "a"},
					Count:    intPtr(2),
				},
			},
			{
				Name:    "literal mismatch",
				Chars:   "g",
				Pattern: "f1:f xs___",
				Expect:  Expect{Match: false},
			},
			{
				Name:    "repeated name",
				Subject: "(f (a b) (a b) c)",
				Pattern: "f xs___ xs___ x_",
				Expect: Expect{
					Match:    true,
					Bindings: map[string]string{"xs": "(a b)", "x": "c"},
				},
			},
			{
				Name:    "head constraint",
				Subject: "(f (a 1) (b 2))",
				Level:   LevelArguments,
				Pattern: "xs__a ys___",
				Expect: Expect{
					Match:    true,
					Bindings: map[string]string{"xs": "(a 1)", "ys": "(b 2)"},
				},
			},
		},
	}
}
