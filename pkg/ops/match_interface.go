package ops

import (
	"reflect"

	"github.com/mvenn/nodegraft/pkg/graph"
)

// editableGroupNodes resolves the selected Group nodes whose subtrees can
// actually be edited.
func editableGroupNodes(ctx *Context) ([]*graph.Node, string) {
	nodes, msg := SelectedNodes(ctx, graph.KindGroup)
	if msg != "" {
		return nil, msg
	}
	var groups []*graph.Node
	for _, n := range nodes {
		if n.Subtree == nil || n.Subtree.Interface == nil {
			continue
		}
		if CheckTreeEditable(n.Subtree) != "" {
			continue
		}
		groups = append(groups, n)
	}
	if len(groups) == 0 {
		return nil, "No editable Group nodes selected."
	}
	return groups, ""
}

// copySocketAttrs copies a source interface socket's declaration onto a
// target socket. Menu sockets keep their own value, bounds and subtype:
// menu enumerations are owned by the defining tree and do not transfer.
func copySocketAttrs(src, dst *graph.InterfaceSocket) {
	dst.AttributeDomain = src.AttributeDomain
	dst.DefaultAttributeName = src.DefaultAttributeName
	dst.DefaultInput = src.DefaultInput
	dst.Description = src.Description
	dst.HideInModifier = src.HideInModifier
	dst.HideValue = src.HideValue
	dst.IsPanelToggle = src.IsPanelToggle
	dst.MenuExpanded = src.MenuExpanded
	dst.Name = src.Name
	dst.SocketType = src.SocketType
	dst.StructureType = src.StructureType

	if dst.SocketType == graph.SocketMenu {
		return
	}

	dst.DefaultValue = copyValue(src.DefaultValue, dst.DefaultValue)
	dst.MinValue = copyValue(src.MinValue, dst.MinValue)
	dst.MaxValue = copyValue(src.MaxValue, dst.MaxValue)
	dst.Subtype = src.Subtype
	dst.Dimensions = src.Dimensions
}

// copyValue transfers a socket value only when the target can hold it:
// either it has no value yet or the value types are compatible. All
// numeric values count as one family, since the JSON codec decodes int
// defaults back as float64.
func copyValue(src, dst any) any {
	if src == nil {
		return dst
	}
	if dst == nil || compatibleValueTypes(src, dst) {
		return src
	}
	return dst
}

func compatibleValueTypes(a, b any) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta == tb {
		return true
	}
	return numericKind(ta.Kind()) && numericKind(tb.Kind())
}

func numericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// MatchGroupInterface rewrites each selected Group node's subtree
// interface to mirror the enclosing tree's interface, following the links
// from group-input nodes into the selected group. Matched sockets adopt
// the source declaration, the source's panel hierarchy is reproduced
// around them, and panels left empty afterwards are removed.
type MatchGroupInterface struct{}

func (o *MatchGroupInterface) ID() string    { return "node.match_group_interface" }
func (o *MatchGroupInterface) Label() string { return "Match Group Interface" }

func (o *MatchGroupInterface) Poll(ctx *Context) string {
	_, msg := editableGroupNodes(ctx)
	return msg
}

func (o *MatchGroupInterface) Execute(ctx *Context) Result {
	groups, msg := editableGroupNodes(ctx)
	if msg != "" {
		return Failed(msg)
	}
	tree := ctx.EditTree

	// Map each source socket identifier to the uid set of the panels
	// containing it. The virtual root panel (uid 0) is included, so every
	// socket has a non-empty ancestor set.
	sourcePanels := make(map[string]map[int]bool)
	for _, item := range tree.Interface.ItemsTree() {
		sock, ok := item.(*graph.InterfaceSocket)
		if !ok {
			continue
		}
		ancestors := make(map[int]bool)
		for p := sock.Parent(); p != nil; p = p.Parent() {
			ancestors[p.UID] = true
		}
		sourcePanels[sock.Identifier] = ancestors
	}

	for _, node := range groups {
		iface := node.Subtree.Interface

		targetByID := make(map[string]*graph.InterfaceSocket)
		for _, item := range iface.ItemsTree() {
			if sock, ok := item.(*graph.InterfaceSocket); ok {
				targetByID[sock.Identifier] = sock
			}
		}

		// Follow links from group-input nodes into this group to pair
		// source sockets with the group's own interface sockets, and
		// collect the panels those sources live in.
		socketsMap := make(map[string]string)
		wantPanels := make(map[int]bool)
		for _, link := range tree.Links {
			if link.FromNode.Kind != graph.KindGroupInput || link.ToNode != node {
				continue
			}
			socketsMap[link.FromSocket.Identifier] = link.ToSocket.Identifier
			for uid := range sourcePanels[link.FromSocket.Identifier] {
				wantPanels[uid] = true
			}
		}

		// Rebuild the matched part of the hierarchy under a staging panel
		// standing in for the source root, then dissolve it so its
		// contents land at the top level in source order.
		panelsMap := map[int]*graph.InterfacePanel{
			0: iface.NewPanel("Root_temp", "", false),
		}
		for _, item := range tree.Interface.ItemsTree() {
			var target graph.Item
			switch src := item.(type) {
			case *graph.InterfacePanel:
				if !wantPanels[src.UID] {
					continue
				}
				p := iface.NewPanel(src.Name, src.Description, src.DefaultClosed)
				panelsMap[src.UID] = p
				target = p
			case *graph.InterfaceSocket:
				targetID := socketsMap[src.Identifier]
				if targetID == "" {
					continue
				}
				dst := targetByID[targetID]
				if dst == nil {
					continue
				}
				copySocketAttrs(src, dst)
				target = dst
			default:
				continue
			}
			iface.MoveToParent(target, panelsMap[item.Parent().UID], tree.Interface.Position(item))
		}

		iface.Remove(panelsMap[0], true)

		// Panels untouched by the match may now be empty. Reverse order
		// keeps nested panels ahead of their parents.
		var empty []*graph.InterfacePanel
		for _, item := range iface.ItemsTree() {
			if p, ok := item.(*graph.InterfacePanel); ok && p.Empty() {
				empty = append(empty, p)
			}
		}
		for i := len(empty) - 1; i >= 0; i-- {
			iface.Remove(empty[i], false)
		}

		node.SyncGroupSockets()
	}

	return Finished()
}
