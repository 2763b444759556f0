package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mvenn/nodegraft/pkg/graph"
	"github.com/spf13/viper"
)

func TestOpsCommandListsOperators(t *testing.T) {
	var out bytes.Buffer
	opsCmd.SetOut(&out)
	if err := opsCmd.RunE(opsCmd, nil); err != nil {
		t.Fatal(err)
	}
	listing := out.String()
	for _, id := range []string{"node.randomize_seed", "node.match_group_interface"} {
		if !strings.Contains(listing, id) {
			t.Errorf("listing missing %s:\n%s", id, listing)
		}
	}
	if !strings.Contains(listing, "H node.randomize_seed") {
		t.Errorf("handler marker missing:\n%s", listing)
	}
}

func TestRunCommandAgainstDocument(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "doc.json")
	outPath := filepath.Join(dir, "out.json")

	tr := graph.NewTree("Rig")
	tr.Interface.NewSocket("Seed", graph.SocketInt, false)
	gi := tr.NewNode(graph.KindGroupInput)
	m := tr.NewNode(graph.KindMath)
	if _, err := tr.NewLink(gi.Output("Seed"), m.Input("Value")); err != nil {
		t.Fatal(err)
	}
	data, err := graph.EncodeDocument([]*graph.Tree{tr})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(docPath, data, 0o644); err != nil {
		t.Fatal(err)
	}

	viper.Set("doc", docPath)
	viper.Set("save", outPath)
	defer viper.Reset()

	var out bytes.Buffer
	runCmd.SetOut(&out)
	if err := runCmd.RunE(runCmd, []string{"node.randomize_seed"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "finished") {
		t.Errorf("output = %q", out.String())
	}

	saved, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	trees, err := graph.DecodeDocument(saved)
	if err != nil {
		t.Fatal(err)
	}
	if trees[0].AutoSeedCounter != 1 {
		t.Errorf("saved counter = %d, want 1", trees[0].AutoSeedCounter)
	}
}

func TestRunCommandRequiresDocument(t *testing.T) {
	viper.Reset()
	if err := runCmd.RunE(runCmd, []string{"node.reset_seeds"}); err == nil {
		t.Fatal("expected an error without a document")
	}
}
