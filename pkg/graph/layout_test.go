package graph

import "testing"

func TestSocketLocationOutputs(t *testing.T) {
	tr := NewTree("Rig")
	tr.Interface.NewSocket("Seed", SocketInt, false)
	tr.Interface.NewSocket("Scale", SocketFloat, false)
	n := tr.NewNode(KindGroupInput)
	n.Location = Vec2{100, 200}
	n.Dimensions = Vec2{140, 100}

	first, ok := SocketLocation(n.Outputs[0], false, 1)
	if !ok {
		t.Fatal("first output location should resolve")
	}
	want := Vec2{100 + 140 - 1, 200 - 34}
	if first != want {
		t.Errorf("first output at %v, want %v", first, want)
	}

	second, ok := SocketLocation(n.Outputs[1], false, 1)
	if !ok {
		t.Fatal("second output location should resolve")
	}
	if second.Y != first.Y-layoutYStep {
		t.Errorf("second output y = %g, want one row below %g", second.Y, first.Y)
	}
}

func TestSocketLocationInputs(t *testing.T) {
	tr := NewTree("Rig")
	n := tr.NewNode(KindMath)
	n.Location = Vec2{100, 200}
	n.Dimensions = Vec2{140, 100}

	// Inputs are laid out bottom-up.
	last, ok := SocketLocation(n.Inputs[1], true, 1)
	if !ok {
		t.Fatal("bottom input location should resolve")
	}
	want := Vec2{100, 200 - 100 + 16}
	if last != want {
		t.Errorf("bottom input at %v, want %v", last, want)
	}

	first, ok := SocketLocation(n.Inputs[0], true, 1)
	if !ok {
		t.Fatal("top input location should resolve")
	}
	if first.Y != last.Y+layoutYStep {
		t.Errorf("top input y = %g, want one row above %g", first.Y, last.Y)
	}
}

func TestSocketLocationTallVector(t *testing.T) {
	tr := NewTree("Rig")
	n := tr.NewNode("VectorRotate")
	vec := n.AddInput("Vector", SocketVector)
	n.AddInput("Angle", SocketFloat)
	n.Location = Vec2{0, 0}
	n.Dimensions = Vec2{140, 100}

	angle, ok := SocketLocation(n.Inputs[1], true, 1)
	if !ok {
		t.Fatal("angle location should resolve")
	}
	got, ok := SocketLocation(vec, true, 1)
	if !ok {
		t.Fatal("vector location should resolve")
	}
	// One regular step plus the tall bottom pad above the angle row.
	want := angle.Y + layoutYStep + layoutVecBottom
	if got.Y != want {
		t.Errorf("tall vector y = %g, want %g", got.Y, want)
	}

	// A linked vector collapses back to a regular row.
	src := tr.NewNode(KindValue)
	if _, err := tr.NewLink(src.Output("Value"), vec); err != nil {
		t.Fatal(err)
	}
	got, _ = SocketLocation(vec, true, 1)
	if got.Y != angle.Y+layoutYStep {
		t.Errorf("linked vector y = %g, want regular row %g", got.Y, angle.Y+layoutYStep)
	}
}

func TestSocketLocationUnresolvable(t *testing.T) {
	tr := NewTree("Rig")
	n := tr.NewNode(KindHashValue)
	n.Dimensions = Vec2{140, 100}

	n.Hide = true
	if _, ok := SocketLocation(n.Inputs[0], true, 1); ok {
		t.Error("collapsed node should not resolve socket locations")
	}

	n.Hide = false
	n.Inputs[0].Hide = true
	if _, ok := SocketLocation(n.Inputs[0], true, 1); ok {
		t.Error("hidden socket should not resolve")
	}
}

func TestSocketLocationScale(t *testing.T) {
	tr := NewTree("Rig")
	tr.Interface.NewSocket("Seed", SocketInt, false)
	n := tr.NewNode(KindGroupInput)
	n.Location = Vec2{0, 0}
	n.Dimensions = Vec2{280, 100} // rendered at 2x UI scale

	got, ok := SocketLocation(n.Outputs[0], false, 2)
	if !ok {
		t.Fatal("location should resolve")
	}
	if got.X != 280/2-1 {
		t.Errorf("scaled x = %g, want %g", got.X, 280.0/2-1)
	}
}

func TestSocketLocationFrameOffset(t *testing.T) {
	tr := NewTree("Rig")
	frame := tr.NewNode(KindFrame)
	frame.Location = Vec2{50, 50}
	n := tr.NewNode(KindMath)
	n.Parent = frame
	n.Location = Vec2{100, 200}
	n.Dimensions = Vec2{140, 100}

	got, ok := SocketLocation(n.Inputs[1], true, 1)
	if !ok {
		t.Fatal("location should resolve")
	}
	if got.X != 150 {
		t.Errorf("frame-relative x = %g, want 150", got.X)
	}
}

func TestCommonParent(t *testing.T) {
	tr := NewTree("Rig")
	outer := tr.NewNode(KindFrame)
	inner := tr.NewNode(KindFrame)
	inner.Parent = outer
	a := tr.NewNode(KindValue)
	b := tr.NewNode(KindMath)
	a.Parent = inner
	b.Parent = outer

	if got := CommonParent([]*Node{a, b}); got != outer {
		t.Errorf("common parent = %v, want the outer frame", got)
	}
	if got := CommonParent([]*Node{a, tr.NewNode(KindValue)}); got != nil {
		t.Error("nodes without a shared frame should have no common parent")
	}
	if got := CommonParent(nil); got != nil {
		t.Error("empty input should return nil")
	}
}
