package ops

import (
	"strings"
	"testing"

	"github.com/mvenn/nodegraft/pkg/graph"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	if got := len(r.All()); got != 6 {
		t.Errorf("operators = %d, want 6", got)
	}
	for _, id := range []string{
		"node.randomize_seed",
		"node.reset_seeds",
		"node.match_group_interface",
		"node.split_merge_group_input",
		"node.hide_resize_toggle",
		"node.hide_rename_single_output",
	} {
		if r.Get(id) == nil {
			t.Errorf("operator %q not registered", id)
		}
	}

	handlers := r.Handlers()
	if len(handlers) != 2 {
		t.Fatalf("handlers = %d, want randomize and hide-rename", len(handlers))
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&ResetSeeds{}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(&ResetSeeds{}); err == nil {
		t.Fatal("duplicate registration accepted")
	}
}

func TestSessionRunOperator(t *testing.T) {
	s := NewSession(DefaultRegistry(), NewPreferences())
	tr := graph.NewTree("Rig")
	n := tr.NewNode(graph.KindMath)
	n.Select = true
	s.AddTree(tr)

	res := s.RunOperator("node.hide_resize_toggle")
	if res.Status != StatusFinished {
		t.Fatalf("status = %v (%q)", res.Status, res.Message)
	}
	if !n.Hide {
		t.Errorf("operator did not run against the active tree")
	}
}

func TestSessionRunOperatorUnknown(t *testing.T) {
	s := NewSession(DefaultRegistry(), nil)
	res := s.RunOperator("node.bogus")
	if res.Status != StatusCancelled || res.Severity != SeverityError {
		t.Fatalf("result = %+v", res)
	}
	if !strings.Contains(res.Message, "node.bogus") {
		t.Errorf("message = %q", res.Message)
	}
}

func TestSessionRunOperatorPollFailure(t *testing.T) {
	s := NewSession(DefaultRegistry(), nil)
	tr := graph.NewTree("Rig")
	tr.NewNode(graph.KindMath)
	s.AddTree(tr)

	res := s.RunOperator("node.hide_resize_toggle")
	if res.Status != StatusCancelled || res.Message != "No nodes selected." {
		t.Fatalf("result = %+v", res)
	}
}

func TestSessionActiveTree(t *testing.T) {
	s := NewSession(nil, nil)
	a := graph.NewTree("A")
	b := graph.NewTree("B")
	s.AddTree(a)
	s.AddTree(b)
	if s.ActiveTree() != a {
		t.Errorf("first tree should be active")
	}
	s.SetActive("B")
	if s.ActiveTree() != b {
		t.Errorf("SetActive did not switch")
	}
	s.SetActive("missing")
	if s.ActiveTree() != b {
		t.Errorf("unknown name changed the active tree")
	}
	trees := s.Trees()
	if len(trees) != 2 || trees[0] != a || trees[1] != b {
		t.Errorf("Trees() not sorted by name")
	}
}

func TestPreferencesToggleHandlers(t *testing.T) {
	s := NewSession(DefaultRegistry(), NewPreferences())
	tr := graph.NewTree("Rig")
	tr.NewNode(graph.KindValue)
	s.AddTree(tr)

	// Handlers default to enabled after registration.
	active := s.Prefs.ActiveHandlers()
	if len(active) != 2 {
		t.Fatalf("active handlers = %v", active)
	}

	s.Prefs.SetEnabled("node.hide_rename_single_output", false)
	results := s.RunHandlers("Rig")
	if len(results) != 0 {
		t.Fatalf("disabled handler still ran: %v", results)
	}
	if tr.Node("Value").Hide {
		t.Errorf("disabled handler modified the tree")
	}

	s.Prefs.SetEnabled("node.hide_rename_single_output", true)
	results = s.RunHandlers("Rig")
	if len(results) != 1 || results[0].Status != StatusFinished {
		t.Fatalf("results = %v", results)
	}
	if !tr.Node("Value").Hide {
		t.Errorf("enabled handler did not run")
	}
}

func TestRunHandlersSkipsFailingPoll(t *testing.T) {
	s := NewSession(DefaultRegistry(), nil)
	tr := graph.NewTree("Rig")
	tr.NewNode(graph.KindMath) // nothing for either handler to do
	s.AddTree(tr)

	if results := s.RunHandlers("Rig"); len(results) != 0 {
		t.Errorf("results = %v, want none", results)
	}
	if results := s.RunHandlers("missing"); results != nil {
		t.Errorf("unknown tree produced results: %v", results)
	}
}

func TestResultStrings(t *testing.T) {
	if StatusFinished.String() != "finished" || SeverityError.String() != "error" {
		t.Errorf("unexpected enum strings: %v %v", StatusFinished, SeverityError)
	}
	res := Failed("nope")
	if res.Status != StatusCancelled || res.Severity != SeverityError || res.Message != "nope" {
		t.Errorf("Failed() = %+v", res)
	}
}
