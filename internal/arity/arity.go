// Package arity computes how many subject elements each pattern position may
// consume and enumerates the length tuples that cover a subject exactly.
package arity

import (
	"fmt"
	"iter"

	"github.com/gnolang/termmatch/pattern"
)

// Order selects the order in which candidate length tuples are produced.
type Order int

const (
	// LongestFirst tries the longest span first at every position, so tuples
	// come out in descending lexicographic order.
	LongestFirst Order = iota
	// Lexicographic produces tuples in ascending lexicographic order.
	Lexicographic
)

func (o Order) String() string {
	switch o {
	case LongestFirst:
		return "longest-first"
	case Lexicographic:
		return "lexicographic"
	default:
		return "unknown"
	}
}

// ParseOrder parses the textual form produced by Order.String.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "longest-first", "longest":
		return LongestFirst, nil
	case "lexicographic", "lex":
		return Lexicographic, nil
	default:
		return 0, fmt.Errorf("unknown search order %q", s)
	}
}

// FeasibleLengths lists, for every position of p, the span lengths it may
// consume from a subject of length n, in ascending order.
func FeasibleLengths(p pattern.Pattern, n int) [][]int {
	lens := make([][]int, len(p))
	for i, e := range p {
		lo, hi := e.MinArity(), e.MaxArity(n)
		set := make([]int, 0, max(hi-lo+1, 0))
		for l := lo; l <= hi; l++ {
			set = append(set, l)
		}
		lens[i] = set
	}
	return lens
}

// Combinations yields every tuple of the cartesian product of feasible whose
// sum is target. Each yielded slice is owned by the caller.
//
// The sequence is identical to filtering the full product, but branches that
// can no longer reach target are pruned.
func Combinations(feasible [][]int, target int, order Order) iter.Seq[[]int] {
	// minRest[i] / maxRest[i]: bounds of the sum over positions i..end.
	minRest := make([]int, len(feasible)+1)
	maxRest := make([]int, len(feasible)+1)
	for i := len(feasible) - 1; i >= 0; i-- {
		set := feasible[i]
		if len(set) == 0 {
			// an empty position makes the whole product empty
			return func(func([]int) bool) {}
		}
		minRest[i] = minRest[i+1] + set[0]
		maxRest[i] = maxRest[i+1] + set[len(set)-1]
	}

	return func(yield func([]int) bool) {
		tuple := make([]int, len(feasible))
		var walk func(pos, remaining int) bool
		walk = func(pos, remaining int) bool {
			if pos == len(feasible) {
				if remaining != 0 {
					return true
				}
				out := make([]int, len(tuple))
				copy(out, tuple)
				return yield(out)
			}

			set := feasible[pos]
			for k := range set {
				l := set[k]
				if order == LongestFirst {
					l = set[len(set)-1-k]
				}
				rest := remaining - l
				if rest < minRest[pos+1] || rest > maxRest[pos+1] {
					continue
				}
				tuple[pos] = l
				if !walk(pos+1, rest) {
					return false
				}
			}
			return true
		}
		walk(0, target)
	}
}
