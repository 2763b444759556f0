package commands

import (
	"fmt"

	"github.com/mvenn/nodegraft/pkg/ops"
	"github.com/spf13/cobra"
)

var opsCmd = &cobra.Command{
	Use:   "ops",
	Short: "List the registered operators",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := ops.DefaultRegistry()
		for _, op := range reg.All() {
			marker := " "
			if _, ok := op.(ops.TreeHandler); ok {
				marker = "H"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %-32s %s\n", marker, op.ID(), op.Label())
		}
		return nil
	},
}
