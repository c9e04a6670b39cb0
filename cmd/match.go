package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/termmatch/formatter"
	"github.com/gnolang/termmatch/match"
	"github.com/gnolang/termmatch/pattern"
	"github.com/gnolang/termmatch/term"
)

// matchFlags are the flags of the match and enumerate commands.
type matchFlags struct {
	chars     bool
	sequence  bool
	arguments bool
	all       bool
	json      bool
}

func newMatchCmd(o *options, enumerate bool) *cobra.Command {
	f := &matchFlags{all: enumerate}

	use, short := "match SUBJECT PATTERN", "Match a pattern against a subject"
	if enumerate {
		use, short = "enumerate SUBJECT PATTERN", "List every match of a pattern against a subject"
	}

	matchCmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long: `SUBJECT is a compound term such as "(f (a b) c)" whose elements, head
included, are matched. PATTERN is a whitespace separated list of literals and
variables: x_ (one element), xs__ (one or more), xs___ (zero or more), each
optionally followed by a required head, e.g. xs__a.

Example) termmatch match --chars fabc "f ys___ xs__ x_"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), o.timeout)
			defer cancel()
			return runMatch(ctx, o, f, cmd.OutOrStdout(), args[0], args[1])
		},
	}

	flags := matchCmd.Flags()
	flags.BoolVar(&f.chars, "chars", false, "Match SUBJECT character by character")
	flags.BoolVar(&f.sequence, "seq", false, "Treat SUBJECT as a flat sequence of terms")
	flags.BoolVar(&f.arguments, "args", false, "Match only the arguments of the compound SUBJECT")
	flags.BoolVar(&f.json, "json", false, "Output matches in JSON format")
	if !enumerate {
		flags.BoolVar(&f.all, "all", false, "List every match instead of the canonical one")
	}
	matchCmd.MarkFlagsMutuallyExclusive("chars", "seq", "args")
	return matchCmd
}

// parseSubject turns the SUBJECT argument into the sequence to match.
func parseSubject(f *matchFlags, input string) ([]term.Term, error) {
	switch {
	case f.chars:
		return term.Chars(input), nil
	case f.sequence:
		return term.ParseSequence(input)
	}

	t, err := term.Parse(input)
	if err != nil {
		return nil, err
	}
	c, ok := t.(*term.Compound)
	if !ok {
		return nil, fmt.Errorf("subject %q is not a compound, use --seq or --chars", input)
	}
	if f.arguments {
		return c.Args(), nil
	}
	return c.Elements(), nil
}

func runMatch(ctx context.Context, o *options, f *matchFlags, out io.Writer, subjectArg, patternArg string) error {
	subject, err := parseSubject(f, subjectArg)
	if err != nil {
		return fmt.Errorf("invalid subject: %w", err)
	}
	p, err := pattern.Parse(patternArg)
	if err != nil {
		return err
	}
	opts, err := o.matcherOptions()
	if err != nil {
		return err
	}
	m := match.New(opts...)

	var matches []match.Match
	err = runWithTimeout(ctx, func() error {
		if f.all {
			matches = m.All(subject, p)
		} else if first, ok := m.First(subject, p); ok {
			matches = []match.Match{first}
		}
		return nil
	})
	if err != nil {
		o.logger.Error("Matching did not finish", zap.Duration("timeout", o.timeout), zap.Error(err))
		return err
	}

	if f.json {
		d, err := formatter.FormatJSON(matches)
		if err != nil {
			o.logger.Error("Error marshalling matches to JSON", zap.Error(err))
			return err
		}
		fmt.Fprintln(out, string(d))
	} else {
		fmt.Fprint(out, formatter.FormatMatches(subject, p, matches))
	}

	if len(matches) == 0 {
		return errNoMatch
	}
	return nil
}
