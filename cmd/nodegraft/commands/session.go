package commands

import (
	"fmt"
	"os"

	"github.com/mvenn/nodegraft/pkg/graph"
	"github.com/mvenn/nodegraft/pkg/ops"
	"github.com/spf13/viper"
)

// loadSession builds a session with the standard registry, loading the
// document named by --doc (or the config file) when one is set.
func loadSession() (*ops.Session, error) {
	session := ops.NewSession(ops.DefaultRegistry(), ops.NewPreferences())

	path := viper.GetString("doc")
	if path == "" {
		return session, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	trees, err := graph.DecodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("decode document %s: %w", path, err)
	}
	for _, t := range trees {
		session.AddTree(t)
	}
	return session, nil
}

// saveSession writes the session's trees to the --save path when one is
// set.
func saveSession(session *ops.Session) error {
	path := viper.GetString("save")
	if path == "" {
		return nil
	}
	data, err := graph.EncodeDocument(session.Trees())
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}
