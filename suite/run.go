package suite

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/gnolang/termmatch/match"
	"github.com/gnolang/termmatch/pattern"
	"github.com/gnolang/termmatch/term"
)

// Options configures Run and Verify.
type Options struct {
	Strategy match.Strategy
	// Order is used for cases that override neither at case nor suite level.
	Order match.Order
	// Workers bounds the number of cases matched concurrently. Zero means
	// runtime.NumCPU().
	Workers int
	// Progress receives a progress bar when non-nil.
	Progress io.Writer
}

// Result is the outcome of one case.
type Result struct {
	Case    Case
	Subject []term.Term
	Pattern pattern.Pattern
	Matches []match.Match
	Passed  bool
	// Detail explains a failure.
	Detail string
	Err    error
}

// Run executes every case of s and reports results in case order.
func Run(ctx context.Context, logger *zap.Logger, s *Suite, opts Options) ([]Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	results := make([]Result, len(s.Cases))
	err := forEachCase(ctx, s, opts, func(i int, c Case) {
		results[i] = runCase(logger, s, c, opts)
		if results[i].Err != nil {
			logger.Error("Error running case", zap.String("suite", s.Name), zap.String("case", c.Name), zap.Error(results[i].Err))
		} else if !results[i].Passed {
			logger.Debug("Case failed", zap.String("case", c.Name), zap.String("detail", results[i].Detail))
		}
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// forEachCase calls fn for every case on a bounded pool of goroutines.
func forEachCase(ctx context.Context, s *Suite, opts Options, fn func(int, Case)) error {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = progressbar.NewOptions(len(s.Cases),
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionSetDescription(s.Name),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}))
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	var ctxErr error
loop:
	for i, c := range s.Cases {
		if err := ctx.Err(); err != nil {
			ctxErr = err
			break
		}
		select {
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break loop
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, c Case) {
			defer wg.Done()
			defer func() { <-sem }()

			fn(i, c)
			if bar != nil {
				_ = bar.Add(1)
			}
		}(i, c)
	}
	wg.Wait()

	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(opts.Progress)
	}
	return ctxErr
}

func (s *Suite) orderFor(compiled Compiled, fallback match.Order) match.Order {
	if compiled.Order != nil {
		return *compiled.Order
	}
	if s.Order != "" {
		if o, err := match.ParseOrder(s.Order); err == nil {
			return o
		}
	}
	return fallback
}

func runCase(logger *zap.Logger, s *Suite, c Case, opts Options) Result {
	r := Result{Case: c}

	compiled, err := c.Compile()
	if err != nil {
		r.Err = err
		r.Detail = err.Error()
		return r
	}
	r.Subject, r.Pattern = compiled.Subject, compiled.Pattern

	m := match.New(
		match.WithOrder(s.orderFor(compiled, opts.Order)),
		match.WithStrategy(opts.Strategy),
		match.WithLogger(logger),
	)
	if c.All || c.Expect.Count != nil {
		r.Matches = m.All(r.Subject, r.Pattern)
	} else if first, ok := m.First(r.Subject, r.Pattern); ok {
		r.Matches = []match.Match{first}
	}

	r.Detail = check(c.Expect, r.Matches)
	r.Passed = r.Detail == ""
	return r
}

// check compares matches with the expectation and describes the mismatches.
func check(want Expect, matches []match.Match) string {
	found := len(matches) > 0
	if found != want.Match {
		if want.Match {
			return "expected a match, found none"
		}
		return fmt.Sprintf("expected no match, found %s", matches[0].Binding)
	}

	var problems []string
	if want.Count != nil && *want.Count != len(matches) {
		problems = append(problems, fmt.Sprintf("expected %d matches, found %d", *want.Count, len(matches)))
	}

	if found && len(want.Bindings) > 0 {
		b := matches[0].Binding
		names := make([]string, 0, len(want.Bindings))
		for name := range want.Bindings {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			span, ok := b.Get(name)
			if !ok {
				problems = append(problems, fmt.Sprintf("%s is not bound", name))
				continue
			}
			if got, expected := term.Join(span), normalize(want.Bindings[name]); got != expected {
				problems = append(problems, fmt.Sprintf("%s = %q, expected %q", name, got, expected))
			}
		}
	}
	return strings.Join(problems, "; ")
}

// normalize rewrites a span in term notation with canonical spacing.
func normalize(span string) string {
	seq, err := term.ParseSequence(span)
	if err != nil {
		return span
	}
	return term.Join(seq)
}
