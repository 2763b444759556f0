package ops

import "github.com/mvenn/nodegraft/pkg/graph"

// HideResizeNode toggles the selected nodes between hidden at minimum
// width and shown at default width.
type HideResizeNode struct{}

func (o *HideResizeNode) ID() string    { return "node.hide_resize_toggle" }
func (o *HideResizeNode) Label() string { return "Hide and Resize" }

func (o *HideResizeNode) Poll(ctx *Context) string {
	_, msg := SelectedNodes(ctx)
	return msg
}

func (o *HideResizeNode) Execute(ctx *Context) Result {
	nodes, msg := SelectedNodes(ctx)
	if msg != "" {
		return Failed(msg)
	}

	for _, n := range nodes {
		n.Hide = !n.Hide
		if n.Hide {
			n.Width = graph.MinWidth
		} else {
			n.Width = graph.DefaultWidth
		}
	}
	return Finished()
}
