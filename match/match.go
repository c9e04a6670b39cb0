// Package match finds consistent assignments of pattern variables to spans
// of a subject sequence or expression tree.
//
// Two strategies are available. Backtracking walks the pattern left to right,
// tries candidate span lengths in the configured order and memoizes suffix
// outcomes. Exhaustive enumerates every length tuple covering the subject and
// filters the consistent ones; it is slower and serves as a reference.
//
// No match is a normal outcome reported through a boolean or an empty result.
// Passing an atom where a compound is required panics.
package match

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/gnolang/termmatch/binding"
	"github.com/gnolang/termmatch/internal/arity"
	"github.com/gnolang/termmatch/pattern"
	"github.com/gnolang/termmatch/term"
)

// Order selects which of several matches is canonical.
type Order = arity.Order

const (
	LongestFirst  = arity.LongestFirst
	Lexicographic = arity.Lexicographic
)

// ParseOrder parses "longest-first" or "lexicographic".
func ParseOrder(s string) (Order, error) { return arity.ParseOrder(s) }

// Strategy selects the search algorithm.
type Strategy int

const (
	Backtracking Strategy = iota
	Exhaustive
)

func (s Strategy) String() string {
	switch s {
	case Backtracking:
		return "backtracking"
	case Exhaustive:
		return "exhaustive"
	default:
		return "unknown"
	}
}

// ParseStrategy parses the textual form produced by Strategy.String.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "backtracking":
		return Backtracking, nil
	case "exhaustive":
		return Exhaustive, nil
	default:
		return 0, fmt.Errorf("unknown strategy %q", s)
	}
}

// Match is one successful assignment: the span length consumed by every
// pattern position, and the resulting bindings.
type Match struct {
	Lengths []int
	Binding binding.Binding
}

// Spans splits subject according to m.Lengths.
func (m Match) Spans(subject []term.Term) [][]term.Term {
	spans := make([][]term.Term, len(m.Lengths))
	start := 0
	for i, l := range m.Lengths {
		spans[i] = subject[start : start+l]
		start += l
	}
	return spans
}

// Matcher runs queries with a fixed configuration. It holds no per-query
// state and is safe for concurrent use.
type Matcher struct {
	order    Order
	strategy Strategy
	logger   *zap.Logger
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithOrder sets the search order. The default is LongestFirst.
func WithOrder(o Order) Option {
	return func(m *Matcher) { m.order = o }
}

// WithStrategy sets the algorithm. The default is Backtracking.
func WithStrategy(s Strategy) Option {
	return func(m *Matcher) { m.strategy = s }
}

// WithLogger sets the logger used for debug traces.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Matcher) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New returns a Matcher configured by opts.
func New(opts ...Option) *Matcher {
	m := &Matcher{
		order:    LongestFirst,
		strategy: Backtracking,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Order returns the configured search order.
func (m *Matcher) Order() Order { return m.order }

// Strategy returns the configured algorithm.
func (m *Matcher) Strategy() Strategy { return m.strategy }

// First returns the canonical match of p against subject.
func (m *Matcher) First(subject []term.Term, p pattern.Pattern) (Match, bool) {
	matches := m.run(subject, p, false)
	if len(matches) == 0 {
		return Match{}, false
	}
	return matches[0], true
}

// All returns every match of p against subject in canonical order.
func (m *Matcher) All(subject []term.Term, p pattern.Pattern) []Match {
	return m.run(subject, p, true)
}

func (m *Matcher) run(subject []term.Term, p pattern.Pattern, all bool) []Match {
	var (
		matches []Match
		states  int
		hits    int
	)
	switch m.strategy {
	case Backtracking:
		s := newSearcher(subject, p, m.order, all)
		matches = s.run()
		states, hits = s.states, s.hits
	case Exhaustive:
		matches, states = exhaustive(subject, p, m.order, all)
	default:
		panic(fmt.Sprintf("match: unknown strategy %d", m.strategy))
	}

	if ce := m.logger.Check(zap.DebugLevel, "match finished"); ce != nil {
		ce.Write(
			zap.Stringer("strategy", m.strategy),
			zap.Stringer("order", m.order),
			zap.Int("subject", len(subject)),
			zap.Stringer("pattern", p),
			zap.Bool("all", all),
			zap.Int("matches", len(matches)),
			zap.Int("states", states),
			zap.Int("cacheHits", hits),
		)
	}
	return matches
}

// MatchSequence matches p against a flat sequence.
func (m *Matcher) MatchSequence(subject []term.Term, p pattern.Pattern) (binding.Binding, bool) {
	r, ok := m.First(subject, p)
	return r.Binding, ok
}

// EnumerateSequence returns the bindings of every match against a flat sequence.
func (m *Matcher) EnumerateSequence(subject []term.Term, p pattern.Pattern) []binding.Binding {
	return bindings(m.All(subject, p))
}

// MatchString matches p against the characters of s, each one an atom.
func (m *Matcher) MatchString(s string, p pattern.Pattern) (binding.Binding, bool) {
	return m.MatchSequence(term.Chars(s), p)
}

// MatchTree matches p against every element of the compound t, head included.
func (m *Matcher) MatchTree(t term.Term, p pattern.Pattern) (binding.Binding, bool) {
	return m.MatchSequence(term.MustCompound(t).Elements(), p)
}

// EnumerateTree is the enumerating form of MatchTree.
func (m *Matcher) EnumerateTree(t term.Term, p pattern.Pattern) []binding.Binding {
	return m.EnumerateSequence(term.MustCompound(t).Elements(), p)
}

// MatchArguments matches p against the arguments of the compound t.
func (m *Matcher) MatchArguments(t term.Term, p pattern.Pattern) (binding.Binding, bool) {
	return m.MatchSequence(term.MustCompound(t).Args(), p)
}

// EnumerateArguments is the enumerating form of MatchArguments.
func (m *Matcher) EnumerateArguments(t term.Term, p pattern.Pattern) []binding.Binding {
	return m.EnumerateSequence(term.MustCompound(t).Args(), p)
}

var defaultMatcher = New()

// MatchSequence matches with the default configuration.
func MatchSequence(subject []term.Term, p pattern.Pattern) (binding.Binding, bool) {
	return defaultMatcher.MatchSequence(subject, p)
}

// MatchTree matches with the default configuration.
func MatchTree(t term.Term, p pattern.Pattern) (binding.Binding, bool) {
	return defaultMatcher.MatchTree(t, p)
}

// EnumerateTree enumerates with the default configuration.
func EnumerateTree(t term.Term, p pattern.Pattern) []binding.Binding {
	return defaultMatcher.EnumerateTree(t, p)
}

func bindings(matches []Match) []binding.Binding {
	out := make([]binding.Binding, len(matches))
	for i, r := range matches {
		out[i] = r.Binding
	}
	return out
}

// canonical sorts matches by order and drops repeated length tuples.
func canonical(matches []Match, order Order) []Match {
	slices.SortStableFunc(matches, func(a, b Match) int {
		c := slices.Compare(a.Lengths, b.Lengths)
		if order == LongestFirst {
			return -c
		}
		return c
	})
	return slices.CompactFunc(matches, func(a, b Match) bool {
		return slices.Equal(a.Lengths, b.Lengths)
	})
}
