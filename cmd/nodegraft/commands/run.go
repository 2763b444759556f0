package commands

import (
	"fmt"

	"github.com/mvenn/nodegraft/pkg/ops"
	"github.com/spf13/cobra"
)

var (
	runTree   string
	runSelect []string
)

var runCmd = &cobra.Command{
	Use:   "run <operator-id>",
	Short: "Run an operator against a document",
	Long: `Run an operator by id against the document named by --doc. Use
--tree to pick the edit tree and --select to select nodes by name first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := loadSession()
		if err != nil {
			return err
		}
		if len(session.Trees()) == 0 {
			return fmt.Errorf("no document loaded, pass --doc")
		}
		if runTree != "" {
			if session.Tree(runTree) == nil {
				return fmt.Errorf("tree %q not found in document", runTree)
			}
			session.SetActive(runTree)
		}
		if len(runSelect) > 0 {
			t := session.ActiveTree()
			t.DeselectAll()
			for _, name := range runSelect {
				n := t.Node(name)
				if n == nil {
					return fmt.Errorf("node %q not found in tree %q", name, t.Name)
				}
				n.Select = true
			}
		}

		res := session.RunOperator(args[0])
		if res.Message != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", res.Status, res.Message)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), res.Status)
		}
		if res.Severity == ops.SeverityError {
			return fmt.Errorf("operator %s failed", args[0])
		}

		return saveSession(session)
	},
}

func init() {
	runCmd.Flags().StringVar(&runTree, "tree", "", "tree to edit (default: first tree in the document)")
	runCmd.Flags().StringSliceVar(&runSelect, "select", nil, "node names to select before running")
}
