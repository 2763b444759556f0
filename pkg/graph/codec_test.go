package graph

import "testing"

func buildDocument(t *testing.T) []*Tree {
	t.Helper()

	nested := NewTree("Noise")
	nested.Interface.NewSocket("seed", SocketInt, false)

	outer := NewTree("Rig")
	outer.Interface.NewSocket("Seed", SocketInt, false)
	p := outer.Interface.NewPanel("Settings", "knobs", true)
	scale := outer.Interface.NewSocket("Scale", SocketFloat, false)
	scale.DefaultValue = 1.5
	outer.Interface.MoveToParent(scale, p, 0)

	gi := outer.NewNode(KindGroupInput)
	group := outer.NewNode(KindGroup)
	group.Subtree = nested
	group.SyncGroupSockets()
	frame := outer.NewNode(KindFrame)
	group.Parent = frame
	if _, err := outer.NewLink(gi.Outputs[0], group.Inputs[0]); err != nil {
		t.Fatal(err)
	}
	outer.AutoSeedCounter = 3

	return []*Tree{outer, nested}
}

func TestDocumentRoundTrip(t *testing.T) {
	data, err := EncodeDocument(buildDocument(t))
	if err != nil {
		t.Fatal(err)
	}

	trees, err := DecodeDocument(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(trees) != 2 {
		t.Fatalf("decoded %d trees, want 2", len(trees))
	}
	outer, nested := trees[0], trees[1]

	if outer.AutoSeedCounter != 3 {
		t.Errorf("auto seed counter = %d, want 3", outer.AutoSeedCounter)
	}

	group := outer.Node("Group")
	if group == nil {
		t.Fatal("group node missing after decode")
	}
	if group.Subtree != nested {
		t.Error("group subtree reference should resolve to the sibling tree")
	}
	if group.Parent == nil || group.Parent.Kind != KindFrame {
		t.Error("frame parent should resolve within the tree")
	}

	if len(outer.Links) != 1 {
		t.Fatalf("decoded links = %d, want 1", len(outer.Links))
	}
	l := outer.Links[0]
	if l.FromNode.Kind != KindGroupInput || l.ToNode != group {
		t.Error("link endpoints resolved to the wrong nodes")
	}
	if !l.ToSocket.IsLinked() {
		t.Error("decoded sockets should report linked state")
	}

	// Interface structure survives, including nesting and panel metadata.
	panels := outer.Interface.Panels()
	if len(panels) != 1 || panels[0].Name != "Settings" || !panels[0].DefaultClosed {
		t.Fatalf("decoded panels = %+v, want the Settings panel", panels)
	}
	if len(panels[0].Items()) != 1 {
		t.Error("panel content should survive the round trip")
	}

	// Identifier counters continue past decoded items.
	next := outer.Interface.NewSocket("New", SocketFloat, false)
	if next.Identifier != "Socket_3" {
		t.Errorf("next identifier = %q, want Socket_3", next.Identifier)
	}
	if outer.Interface.NewPanel("New", "", false).UID != 2 {
		t.Error("next panel uid should continue past decoded panels")
	}
}

func TestDecodeRejectsDanglingReferences(t *testing.T) {
	bad := []byte(`{"trees":[{"name":"T","editable":true,"nodes":[
		{"name":"A","kind":"Value","location":{"x":0,"y":0},
		 "outputs":[{"name":"Value","identifier":"Value","type":"FLOAT"}]}],
		"links":[{"from_node":"A","from_socket":"Value","to_node":"B","to_socket":"In"}]}]}`)
	if _, err := DecodeDocument(bad); err == nil {
		t.Error("link to a missing node should fail decoding")
	}

	bad = []byte(`{"trees":[{"name":"T","editable":true,"nodes":[
		{"name":"A","kind":"Group","location":{"x":0,"y":0},"subtree":"Missing"}],"links":[]}]}`)
	if _, err := DecodeDocument(bad); err == nil {
		t.Error("subtree reference to a missing tree should fail decoding")
	}
}
