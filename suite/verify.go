package suite

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/gnolang/termmatch/match"
)

// Disagreement records a case on which the two strategies differ.
type Disagreement struct {
	Case         string
	Order        match.Order
	Backtracking []match.Match
	Exhaustive   []match.Match
}

func (d Disagreement) String() string {
	return fmt.Sprintf("%s (%s): backtracking found %d matches, exhaustive found %d",
		d.Case, d.Order, len(d.Backtracking), len(d.Exhaustive))
}

// Verify enumerates every case with both strategies, under both orders, and
// returns the cases whose match sets differ.
func Verify(ctx context.Context, logger *zap.Logger, s *Suite, opts Options) ([]Disagreement, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		mu     sync.Mutex
		out    []Disagreement
		errs   []error
		orders = []match.Order{match.LongestFirst, match.Lexicographic}
	)
	err := forEachCase(ctx, s, opts, func(_ int, c Case) {
		compiled, err := c.Compile()
		if err != nil {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
			return
		}
		for _, order := range orders {
			a := match.New(match.WithOrder(order)).All(compiled.Subject, compiled.Pattern)
			b := match.New(match.WithOrder(order), match.WithStrategy(match.Exhaustive)).All(compiled.Subject, compiled.Pattern)
			if sameMatches(a, b) {
				continue
			}
			logger.Warn("Strategies disagree", zap.String("case", c.Name), zap.Stringer("order", order))
			mu.Lock()
			out = append(out, Disagreement{Case: c.Name, Order: order, Backtracking: a, Exhaustive: b})
			mu.Unlock()
		}
	})
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, errs[0]
	}

	slices.SortFunc(out, func(x, y Disagreement) int {
		return cmp.Or(cmp.Compare(x.Case, y.Case), cmp.Compare(x.Order, y.Order))
	})
	return out, nil
}

func sameMatches(a, b []match.Match) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !slices.Equal(a[i].Lengths, b[i].Lengths) || !a[i].Binding.Equal(b[i].Binding) {
			return false
		}
	}
	return true
}
