package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/mvenn/nodegraft/pkg/engine"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval [script]",
	Short: "Evaluate a console script against a document",
	Long: `Evaluate a script with the graph-editing builtins. Reads the script
from the given file, or from stdin when no file is named.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var source []byte
		var err error
		if len(args) == 1 {
			source, err = os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read script: %w", err)
			}
		} else {
			source, err = io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
		}

		session, err := loadSession()
		if err != nil {
			return err
		}
		eng := engine.NewEngine(session)

		value, evalErrs, err := eng.Evaluate(string(source))
		if err != nil {
			return err
		}
		if len(evalErrs) > 0 {
			for _, e := range evalErrs {
				fmt.Fprintln(cmd.ErrOrStderr(), e.Error())
			}
			return fmt.Errorf("evaluation failed with %d error(s)", len(evalErrs))
		}
		if value != "" {
			fmt.Fprintln(cmd.OutOrStdout(), value)
		}

		return saveSession(session)
	},
}
