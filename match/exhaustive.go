package match

import (
	"github.com/gnolang/termmatch/binding"
	"github.com/gnolang/termmatch/internal/arity"
	"github.com/gnolang/termmatch/pattern"
	"github.com/gnolang/termmatch/term"
)

// exhaustive enumerates every length tuple covering subject and keeps the
// consistent ones. It returns the matches and the number of tuples examined.
func exhaustive(subject []term.Term, p pattern.Pattern, order Order, all bool) ([]Match, int) {
	feasible := arity.FeasibleLengths(p, len(subject))

	var (
		matches  []Match
		examined int
	)
	for lengths := range arity.Combinations(feasible, len(subject), arity.Lexicographic) {
		examined++
		r := Match{Lengths: lengths}
		if b, ok := consistent(p, r.Spans(subject)); ok {
			r.Binding = b
			matches = append(matches, r)
		}
	}

	matches = canonical(matches, order)
	if !all && len(matches) > 1 {
		matches = matches[:1]
	}
	return matches, examined
}

// consistent checks the spans induced by one length tuple: literals, head
// constraints and agreement of repeated names.
func consistent(p pattern.Pattern, spans [][]term.Term) (binding.Binding, bool) {
	store := binding.NewStore()
	for i, e := range p {
		if !accepts(e, spans[i]) {
			return nil, false
		}
		if err := store.Bind(e.Name, spans[i]); err != nil {
			return nil, false
		}
	}
	return store.Snapshot(), true
}
