package ops

import "github.com/mvenn/nodegraft/pkg/graph"

// singleOutputNodes finds nodes whose inputs are all hidden and that show
// exactly one output whose name the label does not already carry.
func singleOutputNodes(t *graph.Tree) ([]*graph.Node, string) {
	var nodes []*graph.Node
	for _, n := range t.Nodes {
		visible := false
		for _, in := range n.Inputs {
			if !graph.IsSocketHidden(in) {
				visible = true
				break
			}
		}
		if visible {
			continue
		}
		var shown []*graph.Socket
		for _, out := range n.Outputs {
			if !graph.IsSocketHidden(out) {
				shown = append(shown, out)
			}
		}
		if len(shown) != 1 {
			continue
		}
		if shown[0].Name == n.Label {
			continue
		}
		nodes = append(nodes, n)
	}
	if len(nodes) == 0 {
		return nil, "No nodes to process."
	}
	return nodes, ""
}

// HideRenameSingleOutput labels pure-output nodes after their single
// visible output socket, hides them and collapses them to minimum width.
// The x shift keeps the node's right edge, and with it the output socket,
// where it was.
type HideRenameSingleOutput struct{}

func (o *HideRenameSingleOutput) ID() string    { return "node.hide_rename_single_output" }
func (o *HideRenameSingleOutput) Label() string { return "Hide and Rename" }

func (o *HideRenameSingleOutput) Poll(ctx *Context) string {
	t, msg := EditableTree(ctx)
	if msg != "" {
		return msg
	}
	return o.PollTree(t)
}

func (o *HideRenameSingleOutput) PollTree(t *graph.Tree) string {
	_, msg := singleOutputNodes(t)
	return msg
}

func (o *HideRenameSingleOutput) Execute(ctx *Context) Result {
	t, msg := EditableTree(ctx)
	if msg != "" {
		return Failed(msg)
	}
	return o.ExecuteTree(t)
}

func (o *HideRenameSingleOutput) ExecuteTree(t *graph.Tree) Result {
	nodes, msg := singleOutputNodes(t)
	if msg != "" {
		return Failed(msg)
	}

	for _, n := range nodes {
		for _, out := range n.Outputs {
			if !graph.IsSocketHidden(out) {
				n.Label = out.Name
				break
			}
		}
		n.Hide = true
		n.Location.X += n.Width - graph.MinWidth
		n.Width = graph.MinWidth
	}
	return Finished()
}
