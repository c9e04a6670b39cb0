package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/termmatch/suite"
)

// initCmd: termmatch init
func newInitCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Write a starter suite file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := suite.DefaultPath
			if len(args) == 1 {
				path = args[0]
			}
			if err := suite.Write(path, suite.Example()); err != nil {
				o.logger.Error("Error initializing suite file", zap.Error(err))
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Suite file created/updated: %s\n", path)
			return nil
		},
	}
}
