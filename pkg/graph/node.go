package graph

// Node is a single element of a node tree. Its Location is relative to its
// Parent frame when one is set; LocationAbsolute resolves the frame chain.
type Node struct {
	Name       string // unique within the owning tree
	Kind       string
	Label      string
	Location   Vec2
	Width      float64
	Dimensions Vec2 // display size, already scaled by the UI scale
	Hide       bool
	Select     bool
	Parent     *Node // frame parent, nil when top-level
	DataType   string
	Inputs     []*Socket
	Outputs    []*Socket
	Subtree    *Tree // nested tree for Group nodes

	tree *Tree
}

// Tree returns the tree that owns this node.
func (n *Node) Tree() *Tree { return n.tree }

// LocationAbsolute resolves the node's position through its frame chain.
func (n *Node) LocationAbsolute() Vec2 {
	loc := n.Location
	for p := n.Parent; p != nil; p = p.Parent {
		loc = loc.Add(p.Location)
	}
	return loc
}

// Input returns the first input socket with the given name, or nil.
func (n *Node) Input(name string) *Socket {
	for _, s := range n.Inputs {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Output returns the first output socket with the given name, or nil.
func (n *Node) Output(name string) *Socket {
	for _, s := range n.Outputs {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// OutputByID returns the output socket with the given identifier, or nil.
func (n *Node) OutputByID(id string) *Socket {
	for _, s := range n.Outputs {
		if s.Identifier == id {
			return s
		}
	}
	return nil
}

// InputByID returns the input socket with the given identifier, or nil.
func (n *Node) InputByID(id string) *Socket {
	for _, s := range n.Inputs {
		if s.Identifier == id {
			return s
		}
	}
	return nil
}

// AddInput appends an input socket. The identifier defaults to the name;
// callers that need a specific identifier set it afterwards.
func (n *Node) AddInput(name, typ string) *Socket {
	s := &Socket{Name: name, Identifier: name, Type: typ, Enabled: true, node: n}
	n.Inputs = append(n.Inputs, s)
	return s
}

// AddOutput appends an output socket.
func (n *Node) AddOutput(name, typ string) *Socket {
	s := &Socket{Name: name, Identifier: name, Type: typ, Enabled: true, node: n, output: true}
	n.Outputs = append(n.Outputs, s)
	return s
}

// SyncGroupSockets reconciles a Group node's sockets with its subtree's
// interface. Sockets are matched by identifier so existing links survive
// renames and reorders; sockets whose interface item is gone are removed
// along with any links touching them.
func (n *Node) SyncGroupSockets() {
	if n.Kind != KindGroup || n.Subtree == nil || n.Subtree.Interface == nil {
		return
	}
	oldIn := make(map[string]*Socket, len(n.Inputs))
	for _, s := range n.Inputs {
		oldIn[s.Identifier] = s
	}
	oldOut := make(map[string]*Socket, len(n.Outputs))
	for _, s := range n.Outputs {
		oldOut[s.Identifier] = s
	}
	n.Inputs = nil
	n.Outputs = nil
	kept := make(map[*Socket]bool)
	for _, item := range n.Subtree.Interface.ItemsTree() {
		sock, ok := item.(*InterfaceSocket)
		if !ok {
			continue
		}
		if sock.Output {
			s := oldOut[sock.Identifier]
			if s == nil {
				s = &Socket{Identifier: sock.Identifier, Enabled: true, node: n, output: true}
			}
			s.Name = sock.Name
			s.Type = sock.SocketType
			n.Outputs = append(n.Outputs, s)
			kept[s] = true
		} else {
			s := oldIn[sock.Identifier]
			if s == nil {
				s = &Socket{Identifier: sock.Identifier, Enabled: true, node: n}
			}
			s.Name = sock.Name
			s.Type = sock.SocketType
			n.Inputs = append(n.Inputs, s)
			kept[s] = true
		}
	}
	if n.tree == nil {
		return
	}
	var links []*Link
	for _, l := range n.tree.Links {
		if (l.FromNode == n && !kept[l.FromSocket]) || (l.ToNode == n && !kept[l.ToSocket]) {
			continue
		}
		links = append(links, l)
	}
	n.tree.Links = links
}

// populateSockets gives a freshly created node the sockets its kind implies.
func populateSockets(t *Tree, n *Node) {
	switch n.Kind {
	case KindGroupInput:
		// One output per interface input, matching interface identifiers.
		if t.Interface == nil {
			return
		}
		for _, item := range t.Interface.ItemsTree() {
			sock, ok := item.(*InterfaceSocket)
			if !ok || sock.Output {
				continue
			}
			s := n.AddOutput(sock.Name, sock.SocketType)
			s.Identifier = sock.Identifier
		}
	case KindReroute:
		n.AddInput("Input", SocketFloat)
		n.AddOutput("Output", SocketFloat)
	case KindHashValue:
		n.AddInput("Value", SocketInt).Default = 0
		n.AddInput("Seed", SocketInt).Default = 0
		n.AddOutput("Hash", SocketInt)
		n.DataType = SocketInt
	case KindValue:
		n.AddOutput("Value", SocketFloat)
	case KindMath:
		a := n.AddInput("Value", SocketFloat)
		b := n.AddInput("Value", SocketFloat)
		a.Identifier = "Value"
		b.Identifier = "Value_001"
		n.AddOutput("Value", SocketFloat)
	case KindGroup:
		// Sockets are synced from the subtree once it is assigned.
	case KindFrame:
		// Frames have no sockets.
	}
}
