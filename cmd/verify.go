package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/termmatch/suite"
)

func newVerifyCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "verify [files...]",
		Short: "Check that both strategies find the same matches for every case",
		Long: `Enumerates every case under both search orders with the backtracking and
the exhaustive strategy and reports the cases where the match sets differ.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), o.timeout)
			defer cancel()

			out := cmd.OutOrStdout()
			total := 0
			for _, path := range args {
				s, err := suite.Load(path)
				if err != nil {
					o.logger.Error("Failed to load suite", zap.String("path", path), zap.Error(err))
					return err
				}
				disagreements, err := suite.Verify(ctx, o.logger, s, suite.Options{})
				if err != nil {
					return fmt.Errorf("error verifying %s: %w", path, err)
				}
				for _, d := range disagreements {
					fmt.Fprintf(out, "%s: %s\n", path, d)
				}
				fmt.Fprintf(out, "%s: %d cases, %d disagreements\n", path, len(s.Cases), len(disagreements))
				total += len(disagreements)
			}
			if total > 0 {
				return fmt.Errorf("strategies disagree on %d cases", total)
			}
			return nil
		},
	}
}
