package match

import (
	"strconv"
	"strings"

	"github.com/gnolang/termmatch/binding"
	"github.com/gnolang/termmatch/pattern"
	"github.com/gnolang/termmatch/term"
)

// memoKey identifies a search state. The lengths of the remaining subject and
// pattern alone are not enough once names repeat: the suffix outcome also
// depends on what its names are already bound to, so those bindings are part
// of the key.
type memoKey struct {
	subjectLen int
	patternLen int
	bound      string
}

// solution is a match of one pattern suffix against one subject suffix.
type solution struct {
	lengths []int
	// delta holds the names first bound inside the suffix.
	delta map[string][]term.Term
}

// searcher holds the state of one top-level query. Its cache must never
// outlive the query.
type searcher struct {
	subject []term.Term
	pat     pattern.Pattern
	order   Order
	all     bool

	store *binding.Store
	cache map[memoKey][]solution

	// minRest[i] is the shortest subject the elements pat[i:] can cover.
	minRest []int
	// suffixNames[i] lists the distinct names of pat[i:], sorted.
	suffixNames [][]string

	states int
	hits   int
}

func newSearcher(subject []term.Term, p pattern.Pattern, order Order, all bool) *searcher {
	s := &searcher{
		subject:     subject,
		pat:         p,
		order:       order,
		all:         all,
		store:       binding.NewStore(),
		cache:       make(map[memoKey][]solution),
		minRest:     make([]int, len(p)+1),
		suffixNames: make([][]string, len(p)+1),
	}
	for i := len(p) - 1; i >= 0; i-- {
		s.minRest[i] = s.minRest[i+1] + p[i].MinArity()
		s.suffixNames[i] = p[i:].Names()
	}
	return s
}

func (s *searcher) run() []Match {
	sols := s.solve(0, 0)
	matches := make([]Match, len(sols))
	for i, sol := range sols {
		matches[i] = Match{Lengths: sol.lengths, Binding: binding.Binding(sol.delta)}
		if matches[i].Binding == nil {
			matches[i].Binding = binding.Binding{}
		}
	}
	return canonical(matches, s.order)
}

// solve returns the solutions of pat[idx:] against subject[pos:] under the
// current store. The store is left as it was found.
func (s *searcher) solve(pos, idx int) []solution {
	key := memoKey{
		subjectLen: len(s.subject) - pos,
		patternLen: len(s.pat) - idx,
		bound:      s.fingerprint(idx),
	}
	if sols, ok := s.cache[key]; ok {
		s.hits++
		return sols
	}

	sols := s.compute(pos, idx)
	s.cache[key] = sols
	return sols
}

func (s *searcher) compute(pos, idx int) []solution {
	s.states++
	rest := len(s.subject) - pos
	if idx == len(s.pat) {
		if rest == 0 {
			return []solution{{}}
		}
		return nil
	}
	if rest < s.minRest[idx] {
		return nil
	}

	e := s.pat[idx]
	var sols []solution
	for _, l := range s.candidates(e, idx, rest) {
		span := s.subject[pos : pos+l : pos+l]
		if !accepts(e, span) {
			continue
		}

		mark := s.store.Mark()
		if err := s.store.Bind(e.Name, span); err != nil {
			// conflicting span, try the next length
			continue
		}
		fresh := s.store.Mark() > mark

		for _, sub := range s.solve(pos+l, idx+1) {
			sol := solution{
				lengths: append([]int{l}, sub.lengths...),
				delta:   sub.delta,
			}
			if fresh {
				sol.delta = extend(sub.delta, e.Name, span)
			}
			sols = append(sols, sol)
			if !s.all {
				break
			}
		}
		s.store.Reset(mark)

		if !s.all && len(sols) > 0 {
			break
		}
	}
	return sols
}

// candidates lists the span lengths e may take at idx, in search order.
// Lengths that would starve the remaining elements are skipped.
func (s *searcher) candidates(e pattern.Element, idx, rest int) []int {
	lo := e.MinArity()
	hi := min(e.MaxArity(rest), rest-s.minRest[idx+1])
	if hi < lo {
		return nil
	}
	out := make([]int, 0, hi-lo+1)
	if s.order == LongestFirst {
		for l := hi; l >= lo; l-- {
			out = append(out, l)
		}
	} else {
		for l := lo; l <= hi; l++ {
			out = append(out, l)
		}
	}
	return out
}

// fingerprint encodes the bindings of the names occurring in pat[idx:].
func (s *searcher) fingerprint(idx int) string {
	var sb strings.Builder
	for _, name := range s.suffixNames[idx] {
		v, ok := s.store.Lookup(name)
		if !ok {
			continue
		}
		sb.WriteString(strconv.Quote(name))
		sb.WriteByte('=')
		for _, t := range v {
			encode(&sb, t)
		}
		sb.WriteByte(';')
	}
	return sb.String()
}

func encode(sb *strings.Builder, t term.Term) {
	switch v := t.(type) {
	case term.Atom:
		sb.WriteString(strconv.Quote(v.Name))
	case *term.Compound:
		sb.WriteByte('(')
		for _, e := range v.Elements() {
			encode(sb, e)
		}
		sb.WriteByte(')')
	}
}

// accepts checks the per-element constraints of e on span, independent of
// other bindings.
func accepts(e pattern.Element, span []term.Term) bool {
	if e.Kind == pattern.KindLiteral {
		return term.Equal(span[0], e.Literal)
	}
	return binding.CheckHead(span, e.Head)
}

func extend(delta map[string][]term.Term, name string, span []term.Term) map[string][]term.Term {
	out := make(map[string][]term.Term, len(delta)+1)
	for k, v := range delta {
		out[k] = v
	}
	out[name] = span
	return out
}
