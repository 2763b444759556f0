package graph

// Socket is one connection point on a node. Inputs accept at most one
// active link; outputs may fan out.
type Socket struct {
	Name       string
	Identifier string // unique within the node and direction
	Type       string
	Hide       bool
	Enabled    bool
	HideValue  bool
	Default    any // unconnected value, nil when the type carries none

	node   *Node
	output bool
}

// Node returns the socket's owning node.
func (s *Socket) Node() *Node { return s.node }

// IsOutput reports whether this is an output socket.
func (s *Socket) IsOutput() bool { return s.output }

// IsLinked reports whether any link in the owning tree touches this socket.
func (s *Socket) IsLinked() bool {
	if s.node == nil || s.node.tree == nil {
		return false
	}
	for _, l := range s.node.tree.Links {
		if l.FromSocket == s || l.ToSocket == s {
			return true
		}
	}
	return false
}

// Links returns all links touching this socket, in tree order.
func (s *Socket) Links() []*Link {
	if s.node == nil || s.node.tree == nil {
		return nil
	}
	var out []*Link
	for _, l := range s.node.tree.Links {
		if l.FromSocket == s || l.ToSocket == s {
			out = append(out, l)
		}
	}
	return out
}

// Link is a directed edge from an output socket to an input socket.
type Link struct {
	FromNode   *Node
	FromSocket *Socket
	ToNode     *Node
	ToSocket   *Socket
}
