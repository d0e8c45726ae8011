package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m96-chan/rivet/internal/consts"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		// No config or log file is needed to print the version.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (commit %s, built %s)\n", consts.Name, Version, Commit, Date)
		},
	}
}
