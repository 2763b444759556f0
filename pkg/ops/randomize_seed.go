package ops

import (
	"fmt"
	"strings"

	"github.com/mvenn/nodegraft/pkg/graph"
)

// SeedTag marks hash nodes inserted by the randomizer. Labels carry the
// assigned index as a prefix: "3 AutoSeedRandomizer".
const SeedTag = "AutoSeedRandomizer"

// nodeMargin is the horizontal gap left between an inserted node and the
// node it feeds.
const nodeMargin = 25.0

func isSeedName(name string) bool {
	return strings.ToLower(strings.TrimSpace(name)) == "seed"
}

func isTaggedHashNode(n *graph.Node) bool {
	return n.Kind == graph.KindHashValue && strings.HasSuffix(n.Label, SeedTag)
}

// checkSeedTree verifies a tree is a candidate for seed randomization:
// it declares a seed interface input, and some group-input node exposes a
// visible, linked seed output.
func checkSeedTree(t *graph.Tree) string {
	if t.Interface == nil {
		return "Node tree has no interface"
	}
	if !t.HasSeedInput() {
		return "Node tree has no seed input"
	}

	for _, n := range t.Nodes {
		if n.Kind != graph.KindGroupInput {
			continue
		}
		for _, out := range n.Outputs {
			if !isSeedName(out.Name) {
				continue
			}
			if !graph.IsSocketHidden(out) && out.IsLinked() {
				return ""
			}
			break // one seed output per group input
		}
	}
	return "No linked seed inputs found"
}

// seedLinks collects the links still in need of rewriting: seed outputs
// of group-input nodes feeding anything that is neither a reroute nor an
// already-tagged hash node. In poll mode it returns as soon as one
// qualifying link exists.
func seedLinks(t *graph.Tree, poll bool) ([]*graph.Link, string) {
	var links []*graph.Link
	for _, l := range t.Links {
		if l.FromNode.Kind != graph.KindGroupInput {
			continue
		}
		if !isSeedName(l.FromSocket.Name) {
			continue
		}
		if l.ToNode.Kind == graph.KindReroute {
			continue
		}
		if isTaggedHashNode(l.ToNode) {
			continue
		}
		if poll {
			return nil, ""
		}
		links = append(links, l)
	}
	if len(links) == 0 {
		return nil, "No seed links found"
	}
	return links, ""
}

// taggedNodes returns every hash node previously inserted by the
// randomizer, in tree order.
func taggedNodes(t *graph.Tree) []*graph.Node {
	var out []*graph.Node
	for _, n := range t.Nodes {
		if isTaggedHashNode(n) {
			out = append(out, n)
		}
	}
	return out
}

// RandomizeSeed rewrites every qualifying seed link through a dedicated
// hash node so each consumer sees an independently derived seed. Each
// inserted hash node is tagged with a persistent index drawn from the
// tree's counter; re-running the operator skips links already routed
// through a tagged node.
type RandomizeSeed struct {
	// UIScale feeds the socket position math used for node placement.
	// Zero means 1.
	UIScale float64
}

func (o *RandomizeSeed) ID() string    { return "node.randomize_seed" }
func (o *RandomizeSeed) Label() string { return "Randomize Seed" }

func (o *RandomizeSeed) Poll(ctx *Context) string {
	t, msg := EditableTree(ctx)
	if msg != "" {
		return msg
	}
	return o.PollTree(t)
}

func (o *RandomizeSeed) PollTree(t *graph.Tree) string {
	if msg := checkSeedTree(t); msg != "" {
		return msg
	}
	_, msg := seedLinks(t, true)
	return msg
}

func (o *RandomizeSeed) Execute(ctx *Context) Result {
	t, msg := EditableTree(ctx)
	if msg != "" {
		return Failed(msg)
	}
	scale := ctx.UIScale
	if scale == 0 {
		scale = o.UIScale
	}
	return o.executeTree(t, scale)
}

func (o *RandomizeSeed) ExecuteTree(t *graph.Tree) Result {
	return o.executeTree(t, o.UIScale)
}

// executeTree takes the scale as a parameter so the registry-resident
// operator value never carries per-invocation state.
func (o *RandomizeSeed) executeTree(t *graph.Tree, scale float64) Result {
	if msg := checkSeedTree(t); msg != "" {
		return Cancel(msg)
	}
	links, msg := seedLinks(t, false)
	if msg != "" {
		return Cancel(msg)
	}

	if scale == 0 {
		scale = 1
	}

	counter := t.AutoSeedCounter
	for _, link := range links {
		fromNode := link.FromNode
		toNode := link.ToNode
		toSocket := link.ToSocket

		hash := t.NewNode(graph.KindHashValue)
		hash.Hide = true
		hash.Select = false
		hash.Width = graph.MinWidth
		loc, ok := graph.SocketLocation(toSocket, true, scale)
		if !ok {
			loc = toNode.LocationAbsolute()
		}
		hash.Location = graph.Vec2{X: loc.X - hash.Width - nodeMargin, Y: loc.Y + 15}
		hash.Label = fmt.Sprintf("%d %s", counter, SeedTag)
		hash.DataType = graph.SocketInt
		hash.Input("Value").Default = counter
		counter++
		if toNode.Parent != nil {
			hash.Parent = toNode.Parent
		}

		// Dedicated supplier exposing only the seed output.
		supplier := t.NewNode(graph.KindGroupInput)
		supplier.Hide = true
		supplier.Select = false
		supplier.Width = graph.MinWidth
		supplier.Label = "Seed"
		var seedOut *graph.Socket
		for _, out := range supplier.Outputs {
			if isSeedName(out.Name) {
				out.Hide = false
				seedOut = out
			} else {
				out.Hide = true
			}
		}
		hashLoc := hash.LocationAbsolute()
		supplier.Location = graph.Vec2{X: hashLoc.X - supplier.Width - nodeMargin, Y: hashLoc.Y}
		if toNode.Parent != nil {
			supplier.Parent = toNode.Parent
		}

		if _, err := t.NewLink(seedOut, hash.Input("Seed")); err != nil {
			return Failed(err.Error())
		}
		// Feeding the hash output into the destination displaces the
		// original seed link.
		if _, err := t.NewLink(hash.Output("Hash"), toSocket); err != nil {
			return Failed(err.Error())
		}

		// Dead-code elimination: drop the source group input once its
		// last output connection is gone.
		linked := false
		for _, out := range fromNode.Outputs {
			if out.IsLinked() {
				linked = true
				break
			}
		}
		if !linked {
			t.RemoveNode(fromNode)
		}
	}

	t.AutoSeedCounter = counter
	return Finished()
}

// ResetSeeds renumbers every tagged hash node from zero, in tree order,
// and resets the persisted counter to match.
type ResetSeeds struct{}

func (o *ResetSeeds) ID() string    { return "node.reset_seeds" }
func (o *ResetSeeds) Label() string { return "Reset Seeds" }

func (o *ResetSeeds) Poll(ctx *Context) string {
	t, msg := EditableTree(ctx)
	if msg != "" {
		return msg
	}
	if t.AutoSeedCounter == 0 {
		return "No seeds to reset."
	}
	return ""
}

func (o *ResetSeeds) Execute(ctx *Context) Result {
	t, msg := EditableTree(ctx)
	if msg != "" {
		return Failed(msg)
	}

	counter := 0
	for _, n := range taggedNodes(t) {
		n.Label = fmt.Sprintf("%d %s", counter, SeedTag)
		if in := n.Input("Value"); in != nil {
			in.Default = counter
		}
		counter++
	}
	t.AutoSeedCounter = counter
	return Finished()
}
