// Package cmd holds the psl-go command tree, kept separate from main.go
// so the command wiring is testable without invoking os.Exit.
package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the psl-go command tree. logger is shared by every
// subcommand so callers embedding psl-go control where its output goes.
func NewRootCommand(logger *logrus.Logger) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "psl-go",
		Short: "Run the ADMM consensus-optimization reasoner over a ground term file",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.SetLevel(logrus.TraceLevel)
			}
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable trace logging")
	root.AddCommand(newSolveCommand(logger))

	return root
}
