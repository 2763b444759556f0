package graph

import "fmt"

// Item is an element of a tree interface: either an InterfaceSocket (leaf)
// or an InterfacePanel (container).
type Item interface {
	// Parent returns the containing panel. Top-level items report the
	// interface's root panel; the root itself reports nil.
	Parent() *InterfacePanel

	setParent(*InterfacePanel)
}

// itemBase carries the parent back-reference shared by sockets and panels.
type itemBase struct {
	parent *InterfacePanel
}

func (b *itemBase) Parent() *InterfacePanel     { return b.parent }
func (b *itemBase) setParent(p *InterfacePanel) { b.parent = p }

// InterfaceSocket is a leaf interface item describing one external socket.
// The identifier is persistent and unique within the interface.
type InterfaceSocket struct {
	itemBase
	Identifier  string
	Name        string
	Description string
	SocketType  string
	Output      bool

	// Behavioral attributes mirrored between matched interfaces.
	AttributeDomain      string
	DefaultAttributeName string
	DefaultInput         string
	HideInModifier       bool
	HideValue            bool
	IsPanelToggle        bool
	MenuExpanded         bool
	StructureType        string

	// Value fields. Their dynamic type depends on SocketType; attribute
	// copies only happen between matching types.
	DefaultValue any
	MinValue     any
	MaxValue     any
	Subtype      string
	Dimensions   int
}

// InterfacePanel is a container interface item. UID 0 is reserved for the
// interface's virtual root panel.
type InterfacePanel struct {
	itemBase
	UID           int
	Name          string
	Description   string
	DefaultClosed bool

	items []Item
}

// Items returns the panel's direct children in order.
func (p *InterfacePanel) Items() []Item { return p.items }

// Empty reports whether the panel contains no sockets, directly or in any
// nested panel.
func (p *InterfacePanel) Empty() bool {
	for _, item := range p.items {
		if sub, ok := item.(*InterfacePanel); ok {
			if !sub.Empty() {
				return false
			}
			continue
		}
		return false
	}
	return true
}

// Interface is the ordered tree of interface items describing a node
// tree's external contract.
type Interface struct {
	root     *InterfacePanel
	nextUID  int
	nextSock int
}

// NewInterface creates an empty interface with a virtual root panel.
func NewInterface() *Interface {
	return &Interface{
		root:     &InterfacePanel{UID: 0, Name: "Root"},
		nextUID:  1,
		nextSock: 1,
	}
}

// Root returns the virtual root panel.
func (f *Interface) Root() *InterfacePanel { return f.root }

// NewSocket declares a new top-level interface socket with a fresh
// persistent identifier.
func (f *Interface) NewSocket(name, socketType string, output bool) *InterfaceSocket {
	s := &InterfaceSocket{
		Identifier: fmt.Sprintf("Socket_%d", f.nextSock),
		Name:       name,
		SocketType: socketType,
		Output:     output,
	}
	f.nextSock++
	s.setParent(f.root)
	f.root.items = append(f.root.items, s)
	return s
}

// NewPanel creates a new top-level panel with a fresh persistent UID.
func (f *Interface) NewPanel(name, description string, defaultClosed bool) *InterfacePanel {
	p := &InterfacePanel{
		UID:           f.nextUID,
		Name:          name,
		Description:   description,
		DefaultClosed: defaultClosed,
	}
	f.nextUID++
	p.setParent(f.root)
	f.root.items = append(f.root.items, p)
	return p
}

// Position returns the item's index within its parent, or -1 for the root.
func (f *Interface) Position(item Item) int {
	parent := item.Parent()
	if parent == nil {
		return -1
	}
	for i, it := range parent.items {
		if it == item {
			return i
		}
	}
	return -1
}

// MoveToParent moves an item under the given panel at the given position.
// A nil panel means the root; positions are clamped to the target's length.
func (f *Interface) MoveToParent(item Item, parent *InterfacePanel, position int) {
	if parent == nil {
		parent = f.root
	}
	f.detach(item)
	if position < 0 {
		position = 0
	}
	if position > len(parent.items) {
		position = len(parent.items)
	}
	parent.items = append(parent.items, nil)
	copy(parent.items[position+1:], parent.items[position:])
	parent.items[position] = item
	item.setParent(parent)
}

// Remove deletes an item. For panels, moveContentToParent promotes the
// children into the panel's own parent at the panel's position; otherwise
// the children are destroyed with it.
func (f *Interface) Remove(item Item, moveContentToParent bool) {
	parent := item.Parent()
	if parent == nil {
		return // never remove the root
	}
	pos := f.Position(item)
	f.detach(item)

	panel, ok := item.(*InterfacePanel)
	if !ok || !moveContentToParent {
		return
	}
	for i, child := range panel.items {
		child.setParent(parent)
		at := pos + i
		if at > len(parent.items) {
			at = len(parent.items)
		}
		parent.items = append(parent.items, nil)
		copy(parent.items[at+1:], parent.items[at:])
		parent.items[at] = child
	}
	panel.items = nil
}

// detach unlinks the item from its current parent without destroying it.
func (f *Interface) detach(item Item) {
	parent := item.Parent()
	if parent == nil {
		return
	}
	for i, it := range parent.items {
		if it == item {
			parent.items = append(parent.items[:i], parent.items[i+1:]...)
			break
		}
	}
	item.setParent(nil)
}

// ItemsTree returns every item in depth-first order: each panel is
// followed by its contents. The root panel is not included.
func (f *Interface) ItemsTree() []Item {
	var out []Item
	var walk func(p *InterfacePanel)
	walk = func(p *InterfacePanel) {
		for _, item := range p.items {
			out = append(out, item)
			if sub, ok := item.(*InterfacePanel); ok {
				walk(sub)
			}
		}
	}
	walk(f.root)
	return out
}

// Sockets returns all socket items in items-tree order.
func (f *Interface) Sockets() []*InterfaceSocket {
	var out []*InterfaceSocket
	for _, item := range f.ItemsTree() {
		if s, ok := item.(*InterfaceSocket); ok {
			out = append(out, s)
		}
	}
	return out
}

// Panels returns all panel items in items-tree order, excluding the root.
func (f *Interface) Panels() []*InterfacePanel {
	var out []*InterfacePanel
	for _, item := range f.ItemsTree() {
		if p, ok := item.(*InterfacePanel); ok {
			out = append(out, p)
		}
	}
	return out
}
