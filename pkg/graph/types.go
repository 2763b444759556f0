package graph

import "fmt"

// Vec2 is a 2D position or size in editor units.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns the component-wise sum of v and o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

func (v Vec2) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}

// Node kind tags. A kind determines the sockets a node is created with
// and how the editing operators treat it.
const (
	KindGroupInput     = "GroupInput"     // exposes the tree's interface inputs
	KindGroup          = "Group"          // container referencing a nested tree
	KindReroute        = "Reroute"        // pass-through with one input, one output
	KindHashValue      = "HashValue"      // deterministic hash of its inputs
	KindValue          = "Value"          // single float constant
	KindMath           = "Math"           // binary float operation
	KindFrame          = "Frame"          // visual grouping, no sockets
	KindPrincipledBSDF = "PrincipledBSDF" // shading node, used in layout tests
)

// Socket type tags.
const (
	SocketFloat  = "FLOAT"
	SocketInt    = "INT"
	SocketVector = "VECTOR"
	SocketBool   = "BOOLEAN"
	SocketString = "STRING"
	SocketColor  = "RGBA"
	SocketMenu   = "MENU"
)

// Node sizing constants shared by all kinds. Collapsed nodes shrink to
// MinWidth; freshly created nodes start at DefaultWidth.
const (
	DefaultWidth = 140.0
	MinWidth     = 100.0
	MinHeight    = 30.0
)
