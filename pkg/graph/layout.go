package graph

// Socket row layout constants, in editor units. Output rows start below
// the node header and step downward; input rows start above the node's
// bottom edge and step upward. Vector sockets showing an editable value
// occupy a taller row.
const (
	layoutXOffset   = -1.0
	layoutYTop      = -34.0
	layoutYBottom   = 16.0
	layoutYStep     = 22.0
	layoutVecBottom = 28.0
	layoutVecTop    = 32.0
)

// IsSocketHidden reports whether a socket is hidden or disabled.
func IsSocketHidden(s *Socket) bool {
	return s.Hide || !s.Enabled
}

// isTallSocket reports whether a socket renders as a tall row: unlinked
// vector sockets with a visible value editor. The principled shading
// node's "Subsurface Radius" draws compact despite being a vector.
func isTallSocket(n *Node, s *Socket) bool {
	if s.Type != SocketVector {
		return false
	}
	if s.HideValue {
		return false
	}
	if s.IsLinked() {
		return false
	}
	if n.Kind == KindPrincipledBSDF && s.Identifier == "Subsurface Radius" {
		return false
	}
	return true
}

// SocketLocation computes the on-screen anchor of a socket given the
// owning node's geometry and the UI scale. It returns false when the
// position cannot be resolved: the node is collapsed, or the socket is
// hidden. Used for placing newly inserted nodes, not for correctness.
func SocketLocation(s *Socket, isInput bool, scale float64) (Vec2, bool) {
	node := s.node
	if node == nil || node.Hide {
		return Vec2{}, false
	}
	if scale == 0 {
		scale = 1
	}
	loc := node.LocationAbsolute()

	if !isInput {
		x := loc.X + node.Dimensions.X/scale + layoutXOffset
		y := loc.Y + layoutYTop
		for _, out := range node.Outputs {
			if IsSocketHidden(out) {
				if out.Identifier == s.Identifier {
					return Vec2{}, false
				}
				continue
			}
			if out.Identifier == s.Identifier {
				return Vec2{x, y}, true
			}
			y -= layoutYStep
		}
		return Vec2{}, false
	}

	x := loc.X
	y := loc.Y - node.Dimensions.Y/scale + layoutYBottom
	for i := len(node.Inputs) - 1; i >= 0; i-- {
		in := node.Inputs[i]
		if IsSocketHidden(in) {
			if in.Identifier == s.Identifier {
				return Vec2{}, false
			}
			continue
		}
		tall := isTallSocket(node, in)
		if tall {
			y += layoutVecBottom
		}
		if in.Identifier == s.Identifier {
			return Vec2{x, y}, true
		}
		y += layoutYStep
		if tall {
			y += layoutVecTop
		}
	}
	return Vec2{}, false
}

// CommonParent returns the nearest frame shared by every node's parent
// chain, or nil when none is shared.
func CommonParent(nodes []*Node) *Node {
	chains := make([][]*Node, 0, len(nodes))
	for _, n := range nodes {
		var chain []*Node
		for p := n.Parent; p != nil; p = p.Parent {
			chain = append(chain, p)
		}
		chains = append(chains, chain)
	}
	if len(chains) == 0 {
		return nil
	}

	contains := func(chain []*Node, target *Node) bool {
		for _, p := range chain {
			if p == target {
				return true
			}
		}
		return false
	}

	for _, candidate := range chains[0] {
		shared := true
		for _, chain := range chains[1:] {
			if !contains(chain, candidate) {
				shared = false
				break
			}
		}
		if shared {
			return candidate
		}
	}
	return nil
}
