package ops

import (
	"github.com/mvenn/nodegraft/pkg/graph"
)

// SplitMode selects how SplitMergeGroupInput regroups the links leaving
// the selected group-input nodes.
type SplitMode string

const (
	// SplitAll creates one group-input node per link.
	SplitAll SplitMode = "SPLIT_ALL"
	// SplitDestNode creates one group-input node per destination node.
	SplitDestNode SplitMode = "DEST_NODE"
	// SplitSourceSocket creates one group-input node per source socket.
	SplitSourceSocket SplitMode = "SOURCE_SOCKET"
	// MergeAll merges all selected group-input nodes into one.
	MergeAll SplitMode = "MERGE_ALL"
)

// splitLocation is a placement cursor. It is shared between link groups
// that stack nodes at the same spot, so the y coordinate advances across
// groups.
type splitLocation struct {
	parent *graph.Node
	node   *graph.Node
	x, y   float64
}

type socketLink struct {
	index int // output socket index on the original node
	link  *graph.Link
}

type linksGroup struct {
	location *splitLocation
	links    []socketLink
}

// linkMapping is an insertion-ordered grouping of links. Keys are nil
// (merge), an output index (per-socket) or a destination node (per-node).
type linkMapping struct {
	order  []any
	groups map[any]*linksGroup
}

func newLinkMapping() *linkMapping {
	return &linkMapping{groups: make(map[any]*linksGroup)}
}

func (m *linkMapping) group(key any, loc *splitLocation) *linksGroup {
	if g, ok := m.groups[key]; ok {
		return g
	}
	g := &linksGroup{location: loc}
	m.groups[key] = g
	m.order = append(m.order, key)
	return g
}

type locationSet map[*graph.Node]*splitLocation

func (ls locationSet) setdefault(key *graph.Node, make func() *splitLocation) *splitLocation {
	if loc, ok := ls[key]; ok {
		return loc
	}
	loc := make()
	ls[key] = loc
	return loc
}

// SplitMergeGroupInput redistributes the links leaving the selected
// group-input nodes across freshly created group-input nodes, one per
// link, destination node or source socket, or merges everything into a
// single node. The original nodes are removed; replacements are hidden,
// selected, show only their connected outputs and stack next to the
// nodes they feed.
type SplitMergeGroupInput struct {
	Mode SplitMode
	// ProcessIndividually regroups each selected node on its own instead
	// of pooling the selection first. Only meaningful for SplitDestNode
	// and SplitSourceSocket.
	ProcessIndividually bool
}

func (o *SplitMergeGroupInput) ID() string    { return "node.split_merge_group_input" }
func (o *SplitMergeGroupInput) Label() string { return "Split/Merge" }

func (o *SplitMergeGroupInput) Poll(ctx *Context) string {
	_, msg := SelectedNodes(ctx, graph.KindGroupInput)
	return msg
}

func (o *SplitMergeGroupInput) Execute(ctx *Context) Result {
	nodes, msg := SelectedNodes(ctx, graph.KindGroupInput)
	if msg != "" {
		return Failed(msg)
	}
	t := ctx.EditTree

	mode := o.Mode
	if mode == "" {
		mode = SplitAll
	}

	const xOffset = -graph.DefaultWidth - 25

	var mappings []*linkMapping
	locations := make(locationSet)
	for _, node := range nodes {
		if len(mappings) == 0 ||
			(o.ProcessIndividually && (mode == SplitSourceSocket || mode == SplitDestNode)) {
			mappings = append(mappings, newLinkMapping())
		}
		mapping := mappings[len(mappings)-1]

		for index, socket := range node.Outputs {
			for _, link := range socket.Links() {
				if link.FromSocket != socket {
					continue
				}
				var key any
				var loc *splitLocation
				switch mode {
				case MergeAll:
					loc = locations.setdefault(nil, func() *splitLocation {
						return &splitLocation{x: node.Location.X, y: node.Location.Y}
					})
				case SplitSourceSocket:
					key = index
					if o.ProcessIndividually {
						loc = locations.setdefault(node, func() *splitLocation {
							return &splitLocation{
								parent: node.Parent,
								node:   node,
								x:      node.Location.X,
								y:      node.Location.Y,
							}
						})
					} else {
						loc = locations.setdefault(nil, func() *splitLocation {
							return &splitLocation{x: node.Location.X, y: node.Location.Y}
						})
					}
				case SplitDestNode:
					to := link.ToNode
					key = to
					loc = locations.setdefault(to, func() *splitLocation {
						return &splitLocation{
							parent: to.Parent,
							node:   to,
							x:      to.Location.X + xOffset,
							y:      to.Location.Y,
						}
					})
				case SplitAll:
					// Grouping and placement happen per link below.
				}
				g := mapping.group(key, loc)
				g.links = append(g.links, socketLink{index: index, link: link})
			}
		}
	}

	for _, mapping := range mappings {
		for _, key := range mapping.order {
			group := mapping.groups[key]
			if len(group.links) == 0 {
				continue
			}
			location := group.location
			var parent *graph.Node
			if location != nil {
				parent = location.parent
			}
			if mode != SplitAll {
				var connected []*graph.Node
				seen := make(map[*graph.Node]bool)
				for _, sl := range group.links {
					if !seen[sl.link.ToNode] {
						seen[sl.link.ToNode] = true
						connected = append(connected, sl.link.ToNode)
					}
				}
				if location.node == nil || len(connected) == 1 {
					leftmost := connected[0]
					for _, n := range connected[1:] {
						if n.Location.X < leftmost.Location.X {
							leftmost = n
						}
					}
					location = locations.setdefault(leftmost, func() *splitLocation {
						return &splitLocation{
							parent: leftmost.Parent,
							node:   leftmost,
							x:      leftmost.Location.X + xOffset,
							y:      leftmost.Location.Y,
						}
					})
					parent = graph.CommonParent(connected)
				}
			}

			var newNode *graph.Node
			for _, sl := range group.links {
				to := sl.link.ToNode
				toSocket := sl.link.ToSocket
				if newNode == nil || mode == SplitAll {
					newNode = t.NewNode(graph.KindGroupInput)
					newNode.Hide = true
					if mode == SplitAll {
						location = locations.setdefault(to, func() *splitLocation {
							return &splitLocation{
								parent: to.Parent,
								node:   to,
								x:      to.Location.X + xOffset,
								y:      to.Location.Y,
							}
						})
						parent = to.Parent
					}
					if parent != nil {
						newNode.Parent = parent
					}
					newNode.Location = graph.Vec2{X: location.x, Y: location.y}
					newNode.Select = true
					for _, out := range newNode.Outputs {
						out.Hide = true
					}
				}

				newNode.Outputs[sl.index].Hide = false
				t.RemoveLink(sl.link)
				if _, err := t.NewLink(newNode.Outputs[sl.index], toSocket); err != nil {
					return Failed(err.Error())
				}

				if mode == SplitAll {
					location.y -= graph.MinHeight
				}
			}
			if mode != SplitAll {
				location.y -= graph.MinHeight
			}
		}
	}

	for _, node := range nodes {
		t.RemoveNode(node)
	}

	return Finished()
}
