package main

import (
	"os"
	"strings"
	"testing"
)

// TestE2ESeedRigExample exercises the full pipeline: console source →
// engine → session → operators. This is the same path the Wails Eval
// binding takes, but without the Wails runtime.
func TestE2ESeedRigExample(t *testing.T) {
	app := NewApp()

	source, err := os.ReadFile("examples/seed_rig.zy")
	if err != nil {
		t.Fatalf("failed to read seed_rig.zy: %v", err)
	}

	result := app.Eval(string(source))
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}

	// The script ends with (seed-counter tr) after randomizing two links.
	if result.Value != "2" {
		t.Errorf("value = %q, want 2", result.Value)
	}

	tr := app.session.Tree("Rig")
	if tr == nil {
		t.Fatal("script did not create the tree")
	}
	if tr.AutoSeedCounter != 2 {
		t.Errorf("counter = %d, want 2", tr.AutoSeedCounter)
	}
}

func TestE2EEmptySource(t *testing.T) {
	app := NewApp()
	result := app.Eval("")
	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
}

func TestRunOperatorBinding(t *testing.T) {
	app := NewApp()
	app.Eval(`(def tr (tree "Rig")) (node tr "Math" :select true)`)

	res := app.RunOperator("node.hide_resize_toggle")
	if res.Status != "finished" {
		t.Fatalf("result = %+v", res)
	}
	if !app.session.Tree("Rig").Node("Math").Hide {
		t.Errorf("operator did not hide the node")
	}

	res = app.RunOperator("node.bogus")
	if res.Status != "cancelled" || res.Severity != "error" {
		t.Errorf("unknown operator result = %+v", res)
	}
}

func TestOperatorsListing(t *testing.T) {
	app := NewApp()
	infos := app.Operators()
	if len(infos) != 6 {
		t.Fatalf("operators = %d, want 6", len(infos))
	}
	for _, info := range infos {
		// No trees exist yet, so everything polls disabled.
		if info.Disabled == "" {
			t.Errorf("%s: expected a poll failure with no session trees", info.ID)
		}
	}
}

func TestSaveLoadDocumentRoundTrip(t *testing.T) {
	app := NewApp()
	app.Eval(`
(def tr (tree "Rig"))
(iface-input tr "Seed" :type :int)
(node tr "GroupInput")
`)

	data, err := app.SaveDocument()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(data, "Rig") {
		t.Errorf("document missing tree name: %s", data)
	}

	other := NewApp()
	if err := other.LoadDocument(data); err != nil {
		t.Fatal(err)
	}
	tr := other.session.Tree("Rig")
	if tr == nil {
		t.Fatal("loaded session missing the tree")
	}
	if tr.Node("GroupInput") == nil {
		t.Errorf("loaded tree missing its node")
	}

	if err := other.LoadDocument("{not json"); err == nil {
		t.Errorf("malformed document accepted")
	}
}

func TestHandlerToggleBinding(t *testing.T) {
	app := NewApp()
	if got := len(app.ActiveHandlers()); got != 2 {
		t.Fatalf("active handlers = %d, want 2", got)
	}
	app.SetHandlerEnabled("node.hide_rename_single_output", false)
	if got := len(app.ActiveHandlers()); got != 1 {
		t.Errorf("active handlers = %d after disable", got)
	}
}
