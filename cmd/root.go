package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/termmatch/match"
)

const defaultTimeout = 5 * time.Minute

var (
	errNoMatch     = errors.New("no match")
	errCasesFailed = errors.New("some cases failed")
	errTimeout     = errors.New("timed out")
)

// options holds the persistent flags shared by every subcommand.
type options struct {
	order    string
	strategy string
	timeout  time.Duration
	verbose  bool

	logger *zap.Logger
}

func (o *options) matcherOptions() ([]match.Option, error) {
	order, err := match.ParseOrder(o.order)
	if err != nil {
		return nil, err
	}
	strategy, err := match.ParseStrategy(o.strategy)
	if err != nil {
		return nil, err
	}
	return []match.Option{
		match.WithOrder(order),
		match.WithStrategy(strategy),
		match.WithLogger(o.logger),
	}, nil
}

func (o *options) buildLogger() error {
	if o.logger != nil {
		return nil
	}
	cfg := zap.NewProductionConfig()
	if o.verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	o.logger = logger
	return nil
}

func newRootCmd(o *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "termmatch",
		Short:         "termmatch - structural pattern matching over terms and sequences",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.buildLogger()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&o.order, "order", match.LongestFirst.String(), "Search order: longest-first or lexicographic")
	flags.StringVar(&o.strategy, "strategy", match.Backtracking.String(), "Matching strategy: backtracking or exhaustive")
	flags.DurationVar(&o.timeout, "timeout", defaultTimeout, "Set a timeout for the command")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newMatchCmd(o, false))
	rootCmd.AddCommand(newMatchCmd(o, true))
	rootCmd.AddCommand(newRunCmd(o))
	rootCmd.AddCommand(newVerifyCmd(o))
	rootCmd.AddCommand(newInitCmd(o))
	return rootCmd
}

// Execute runs the termmatch command line.
func Execute() error {
	o := &options{}
	err := newRootCmd(o).Execute()
	if o.logger != nil {
		_ = o.logger.Sync()
	}
	return err
}

// runWithTimeout runs f and gives up when ctx ends first. Matching itself
// cannot be interrupted, so f keeps running in the background in that case.
func runWithTimeout(ctx context.Context, f func() error) error {
	done := make(chan error, 1)
	go func() {
		done <- f()
	}()

	select {
	case <-ctx.Done():
		return errTimeout
	case err := <-done:
		return err
	}
}
