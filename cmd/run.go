package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/termmatch/formatter"
	"github.com/gnolang/termmatch/match"
	"github.com/gnolang/termmatch/suite"
)

type runFlags struct {
	watch    bool
	workers  int
	progress bool
}

func newRunCmd(o *options) *cobra.Command {
	f := &runFlags{}

	runCmd := &cobra.Command{
		Use:   "run [files...]",
		Short: "Run YAML suites of matching cases",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.watch {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
				defer stop()
				return watchSuites(ctx, o, f, cmd.OutOrStdout(), cmd.ErrOrStderr(), args)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), o.timeout)
			defer cancel()
			return runSuites(ctx, o, f, cmd.OutOrStdout(), cmd.ErrOrStderr(), args)
		},
	}

	runCmd.Flags().BoolVarP(&f.watch, "watch", "w", false, "Rerun a suite whenever its file changes")
	runCmd.Flags().IntVar(&f.workers, "workers", 0, "Number of cases matched concurrently (default: number of CPUs)")
	runCmd.Flags().BoolVar(&f.progress, "progress", true, "Show a progress bar on stderr")
	return runCmd
}

func (f *runFlags) suiteOptions(o *options, progress io.Writer) (suite.Options, error) {
	order, err := match.ParseOrder(o.order)
	if err != nil {
		return suite.Options{}, err
	}
	strategy, err := match.ParseStrategy(o.strategy)
	if err != nil {
		return suite.Options{}, err
	}
	opts := suite.Options{Order: order, Strategy: strategy, Workers: f.workers}
	if f.progress {
		opts.Progress = progress
	}
	return opts, nil
}

func runSuites(ctx context.Context, o *options, f *runFlags, out, progress io.Writer, paths []string) error {
	opts, err := f.suiteOptions(o, progress)
	if err != nil {
		return err
	}

	failed := 0
	for _, path := range paths {
		n, err := runSuiteFile(ctx, o.logger, opts, out, path)
		if err != nil {
			return err
		}
		failed += n
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d", errCasesFailed, failed)
	}
	return nil
}

// runSuiteFile runs one file and returns the number of failed cases.
func runSuiteFile(ctx context.Context, logger *zap.Logger, opts suite.Options, out io.Writer, path string) (int, error) {
	s, err := suite.Load(path)
	if err != nil {
		logger.Error("Failed to load suite", zap.String("path", path), zap.Error(err))
		return 0, err
	}

	results, err := suite.Run(ctx, logger, s, opts)
	if err != nil {
		return 0, fmt.Errorf("error running %s: %w", path, err)
	}

	failed := 0
	for _, r := range results {
		fmt.Fprint(out, formatter.CaseLine(r.Case.Name, r.Passed, r.Detail))
		if !r.Passed {
			failed++
		}
	}
	fmt.Fprintf(out, "%s: %d passed, %d failed\n", path, len(results)-failed, failed)
	return failed, nil
}

func watchSuites(ctx context.Context, o *options, f *runFlags, out, progress io.Writer, paths []string) error {
	opts, err := f.suiteOptions(o, progress)
	if err != nil {
		return err
	}

	for _, path := range paths {
		if _, err := runSuiteFile(ctx, o.logger, opts, out, path); err != nil {
			return err
		}
	}

	err = suite.Watch(ctx, o.logger, paths, func(path string) {
		if _, err := runSuiteFile(ctx, o.logger, opts, out, path); err != nil {
			o.logger.Error("Error rerunning suite", zap.String("path", path), zap.Error(err))
		}
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}
