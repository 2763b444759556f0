package ops

import (
	"testing"

	"github.com/mvenn/nodegraft/pkg/graph"
)

// splitFixture builds a tree with interface inputs A and B, one selected
// group input, and two math nodes fed by three links:
// A to n1.Value, A to n2.Value, B to n2.Value_001.
func splitFixture(t *testing.T) (*graph.Tree, *graph.Node, *graph.Node, *graph.Node) {
	t.Helper()
	tr := graph.NewTree("Rig")
	tr.Interface.NewSocket("A", graph.SocketFloat, false)
	tr.Interface.NewSocket("B", graph.SocketFloat, false)
	gi := tr.NewNode(graph.KindGroupInput)
	gi.Select = true
	n1 := tr.NewNode(graph.KindMath)
	n1.Location = graph.Vec2{X: 300, Y: 0}
	n2 := tr.NewNode(graph.KindMath)
	n2.Location = graph.Vec2{X: 300, Y: -200}

	mustLink(t, tr, gi.Output("A"), n1.InputByID("Value"))
	mustLink(t, tr, gi.Output("A"), n2.InputByID("Value"))
	mustLink(t, tr, gi.Output("B"), n2.InputByID("Value_001"))
	return tr, gi, n1, n2
}

func mustLink(t *testing.T, tr *graph.Tree, from, to *graph.Socket) {
	t.Helper()
	if _, err := tr.NewLink(from, to); err != nil {
		t.Fatal(err)
	}
}

func groupInputs(tr *graph.Tree) []*graph.Node {
	var out []*graph.Node
	for _, n := range tr.Nodes {
		if n.Kind == graph.KindGroupInput {
			out = append(out, n)
		}
	}
	return out
}

func visibleOutputs(n *graph.Node) []string {
	var out []string
	for _, s := range n.Outputs {
		if !graph.IsSocketHidden(s) {
			out = append(out, s.Name)
		}
	}
	return out
}

func TestSplitAll(t *testing.T) {
	tr, gi, n1, n2 := splitFixture(t)
	op := &SplitMergeGroupInput{Mode: SplitAll}

	if res := op.Execute(editorContext(tr)); res.Status != StatusFinished {
		t.Fatalf("status = %v (%q)", res.Status, res.Message)
	}
	if gi.Tree() != nil {
		t.Errorf("original group input survived")
	}

	gis := groupInputs(tr)
	if len(gis) != 3 {
		t.Fatalf("group inputs = %d, want one per link", len(gis))
	}
	for _, n := range gis {
		if !n.Hide || !n.Select {
			t.Errorf("%s: hide=%v select=%v", n.Name, n.Hide, n.Select)
		}
		if got := visibleOutputs(n); len(got) != 1 {
			t.Errorf("%s shows %v, want one output", n.Name, got)
		}
	}

	// Every destination input is still fed, each from its own node.
	if len(n1.InputByID("Value").Links()) != 1 ||
		len(n2.InputByID("Value").Links()) != 1 ||
		len(n2.InputByID("Value_001").Links()) != 1 {
		t.Fatalf("destination inputs not all reconnected")
	}
	if n2.InputByID("Value").Links()[0].FromNode == n2.InputByID("Value_001").Links()[0].FromNode {
		t.Errorf("per-link split shared a node between links")
	}

	// New nodes stack next to their destination, stepping down per node.
	first := n2.InputByID("Value").Links()[0].FromNode
	second := n2.InputByID("Value_001").Links()[0].FromNode
	wantX := 300.0 - graph.DefaultWidth - 25
	if first.Location.X != wantX || first.Location.Y != -200 {
		t.Errorf("first at %v", first.Location)
	}
	if second.Location.Y != first.Location.Y-graph.MinHeight {
		t.Errorf("second at %v, want one row below %v", second.Location, first.Location)
	}
}

func TestSplitByDestNode(t *testing.T) {
	tr, _, n1, n2 := splitFixture(t)
	op := &SplitMergeGroupInput{Mode: SplitDestNode}

	if res := op.Execute(editorContext(tr)); res.Status != StatusFinished {
		t.Fatalf("status = %v", res.Status)
	}

	gis := groupInputs(tr)
	if len(gis) != 2 {
		t.Fatalf("group inputs = %d, want one per destination", len(gis))
	}

	feed1 := n1.InputByID("Value").Links()[0].FromNode
	feed2a := n2.InputByID("Value").Links()[0].FromNode
	feed2b := n2.InputByID("Value_001").Links()[0].FromNode
	if feed2a != feed2b {
		t.Errorf("destination n2 fed from two nodes")
	}
	if feed1 == feed2a {
		t.Errorf("destinations share a node")
	}
	if got := visibleOutputs(feed2a); len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Errorf("n2 feeder shows %v, want [A B]", got)
	}
	if got := visibleOutputs(feed1); len(got) != 1 || got[0] != "A" {
		t.Errorf("n1 feeder shows %v, want [A]", got)
	}
}

func TestSplitBySourceSocket(t *testing.T) {
	tr, _, n1, n2 := splitFixture(t)
	op := &SplitMergeGroupInput{Mode: SplitSourceSocket}

	if res := op.Execute(editorContext(tr)); res.Status != StatusFinished {
		t.Fatalf("status = %v", res.Status)
	}

	gis := groupInputs(tr)
	if len(gis) != 2 {
		t.Fatalf("group inputs = %d, want one per source socket", len(gis))
	}

	aFeeder := n1.InputByID("Value").Links()[0].FromNode
	if n2.InputByID("Value").Links()[0].FromNode != aFeeder {
		t.Errorf("socket A links split across nodes")
	}
	bFeeder := n2.InputByID("Value_001").Links()[0].FromNode
	if bFeeder == aFeeder {
		t.Errorf("sockets A and B share a node")
	}
	if got := visibleOutputs(aFeeder); len(got) != 1 || got[0] != "A" {
		t.Errorf("A feeder shows %v", got)
	}
	if got := visibleOutputs(bFeeder); len(got) != 1 || got[0] != "B" {
		t.Errorf("B feeder shows %v", got)
	}
}

func TestMergeAll(t *testing.T) {
	tr := graph.NewTree("Rig")
	tr.Interface.NewSocket("A", graph.SocketFloat, false)
	tr.Interface.NewSocket("B", graph.SocketFloat, false)
	gi1 := tr.NewNode(graph.KindGroupInput)
	gi1.Select = true
	gi2 := tr.NewNode(graph.KindGroupInput)
	gi2.Select = true
	n1 := tr.NewNode(graph.KindMath)
	n1.Location = graph.Vec2{X: 300, Y: 0}
	n2 := tr.NewNode(graph.KindMath)
	n2.Location = graph.Vec2{X: 280, Y: -200}
	mustLink(t, tr, gi1.Output("A"), n1.InputByID("Value"))
	mustLink(t, tr, gi2.Output("B"), n2.InputByID("Value"))

	op := &SplitMergeGroupInput{Mode: MergeAll}
	if res := op.Execute(editorContext(tr)); res.Status != StatusFinished {
		t.Fatalf("status = %v", res.Status)
	}

	gis := groupInputs(tr)
	if len(gis) != 1 {
		t.Fatalf("group inputs = %d, want 1", len(gis))
	}
	merged := gis[0]
	if got := visibleOutputs(merged); len(got) != 2 {
		t.Errorf("merged node shows %v", got)
	}
	if n1.InputByID("Value").Links()[0].FromNode != merged ||
		n2.InputByID("Value").Links()[0].FromNode != merged {
		t.Errorf("destinations not rewired to the merged node")
	}
	// Placed next to the leftmost connected node.
	wantX := 280.0 - graph.DefaultWidth - 25
	if merged.Location.X != wantX {
		t.Errorf("merged at %v, want x %v", merged.Location, wantX)
	}
}

func TestSplitBySourceSocketIndividually(t *testing.T) {
	tr := graph.NewTree("Rig")
	tr.Interface.NewSocket("A", graph.SocketFloat, false)
	gi1 := tr.NewNode(graph.KindGroupInput)
	gi1.Select = true
	gi2 := tr.NewNode(graph.KindGroupInput)
	gi2.Select = true
	n1 := tr.NewNode(graph.KindMath)
	n2 := tr.NewNode(graph.KindMath)
	mustLink(t, tr, gi1.Output("A"), n1.InputByID("Value"))
	mustLink(t, tr, gi2.Output("A"), n2.InputByID("Value"))

	op := &SplitMergeGroupInput{Mode: SplitSourceSocket, ProcessIndividually: true}
	if res := op.Execute(editorContext(tr)); res.Status != StatusFinished {
		t.Fatalf("status = %v", res.Status)
	}

	// Each original node is regrouped on its own, so the two A links stay
	// on separate nodes.
	if len(groupInputs(tr)) != 2 {
		t.Fatalf("group inputs = %d, want 2", len(groupInputs(tr)))
	}
	if n1.InputByID("Value").Links()[0].FromNode == n2.InputByID("Value").Links()[0].FromNode {
		t.Errorf("individual processing pooled the selection")
	}
}

func TestSplitPollRequiresGroupInputSelection(t *testing.T) {
	tr := graph.NewTree("Rig")
	n := tr.NewNode(graph.KindValue)
	n.Select = true
	op := &SplitMergeGroupInput{Mode: SplitAll}
	if msg := op.Poll(editorContext(tr)); msg == "" {
		t.Errorf("Poll passed without a group input selected")
	}
}
