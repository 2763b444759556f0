package graph

import (
	"fmt"
	"strings"
)

// Tree is an editable network of nodes and links. Iteration order over
// Nodes and Links is insertion order and stays stable across edits.
type Tree struct {
	Name     string
	Editable bool
	Linked   bool // linked from a library, read-only
	Nodes    []*Node
	Links    []*Link

	// Interface describes the tree's external sockets and panels.
	Interface *Interface

	// AutoSeedCounter is persisted custom state advanced by the seed
	// randomizer so indices are never reused within one tree.
	AutoSeedCounter int
}

// NewTree creates an empty, editable tree with a fresh interface.
func NewTree(name string) *Tree {
	return &Tree{
		Name:      name,
		Editable:  true,
		Nodes:     []*Node{},
		Links:     []*Link{},
		Interface: NewInterface(),
	}
}

// Node returns the node with the given name, or nil.
func (t *Tree) Node(name string) *Node {
	for _, n := range t.Nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// NewNode creates a node of the given kind, assigns it a unique name and
// the sockets its kind implies, and appends it to the tree.
func (t *Tree) NewNode(kind string) *Node {
	n := &Node{
		Name:  t.uniqueName(kind),
		Kind:  kind,
		Width: DefaultWidth,
		tree:  t,
	}
	populateSockets(t, n)
	t.Nodes = append(t.Nodes, n)
	return n
}

// uniqueName derives a tree-unique node name from base, suffixing
// ".001"-style counters on collision.
func (t *Tree) uniqueName(base string) string {
	if t.Node(base) == nil {
		return base
	}
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s.%03d", base, i)
		if t.Node(name) == nil {
			return name
		}
	}
}

// RemoveNode deletes a node, every link touching it, and reparents any
// nodes framed under it to its own parent.
func (t *Tree) RemoveNode(n *Node) {
	kept := t.Links[:0]
	for _, l := range t.Links {
		if l.FromNode == n || l.ToNode == n {
			continue
		}
		kept = append(kept, l)
	}
	t.Links = kept

	for _, other := range t.Nodes {
		if other.Parent == n {
			other.Parent = n.Parent
		}
	}

	for i, other := range t.Nodes {
		if other == n {
			t.Nodes = append(t.Nodes[:i], t.Nodes[i+1:]...)
			break
		}
	}
	n.tree = nil
}

// NewLink connects an output socket to an input socket. Any existing link
// into the input is displaced first, so inputs keep at most one active
// link. Both sockets must belong to nodes of this tree.
func (t *Tree) NewLink(from, to *Socket) (*Link, error) {
	if from == nil || to == nil {
		return nil, fmt.Errorf("graph: link endpoints must not be nil")
	}
	if !from.output {
		return nil, fmt.Errorf("graph: link source %q is not an output socket", from.Name)
	}
	if to.output {
		return nil, fmt.Errorf("graph: link destination %q is not an input socket", to.Name)
	}
	if from.node == nil || to.node == nil || from.node.tree != t || to.node.tree != t {
		return nil, fmt.Errorf("graph: link endpoints must belong to tree %q", t.Name)
	}

	kept := t.Links[:0]
	for _, l := range t.Links {
		if l.ToSocket == to {
			continue
		}
		kept = append(kept, l)
	}
	t.Links = kept

	l := &Link{FromNode: from.node, FromSocket: from, ToNode: to.node, ToSocket: to}
	t.Links = append(t.Links, l)
	return l, nil
}

// RemoveLink deletes a link from the tree.
func (t *Tree) RemoveLink(l *Link) {
	for i, other := range t.Links {
		if other == l {
			t.Links = append(t.Links[:i], t.Links[i+1:]...)
			return
		}
	}
}

// SelectedNodes returns nodes with the Select flag set, in tree order.
func (t *Tree) SelectedNodes() []*Node {
	var out []*Node
	for _, n := range t.Nodes {
		if n.Select {
			out = append(out, n)
		}
	}
	return out
}

// DeselectAll clears the Select flag on every node.
func (t *Tree) DeselectAll() {
	for _, n := range t.Nodes {
		n.Select = false
	}
}

// HasSeedInput reports whether the interface declares an input socket
// named "seed" (case-insensitive, surrounding space ignored).
func (t *Tree) HasSeedInput() bool {
	if t.Interface == nil {
		return false
	}
	for _, item := range t.Interface.ItemsTree() {
		sock, ok := item.(*InterfaceSocket)
		if !ok || sock.Output {
			continue
		}
		if strings.ToLower(strings.TrimSpace(sock.Name)) == "seed" {
			return true
		}
	}
	return false
}
