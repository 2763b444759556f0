package ops

import (
	"fmt"

	"github.com/mvenn/nodegraft/pkg/graph"
)

// Query helpers shared by the operators. Each returns its value plus an
// empty string on success, or a human-readable reason on failure, the
// same shape Operator.Poll reports.

// CheckTreeEditable verifies a tree can be edited at all.
func CheckTreeEditable(t *graph.Tree) string {
	if !t.Editable {
		return "Current node tree is not editable."
	}
	if t.Linked {
		return "Current node tree is linked from another file and cannot be edited."
	}
	if t.Nodes == nil {
		return "Current node tree does not contain any nodes."
	}
	return ""
}

// EditableTree resolves the tree being edited in the current editor.
func EditableTree(ctx *Context) (*graph.Tree, string) {
	if ctx == nil || ctx.EditorType == "" {
		return nil, "No active editor found."
	}
	if ctx.EditorType != EditorTypeNode {
		return nil, "Current editor is not a node editor."
	}
	t := ctx.EditTree
	if t == nil {
		return nil, "No node tree was found in the current node editor."
	}
	if msg := CheckTreeEditable(t); msg != "" {
		return nil, msg
	}
	return t, ""
}

// EditableTreeByName resolves a tree by name instead of from the editor,
// for handler invocations that carry no editor state.
func EditableTreeByName(ctx *Context, name string) (*graph.Tree, string) {
	if ctx == nil || name == "" {
		return nil, "Cannot find node tree."
	}
	t := ctx.Trees[name]
	if t == nil {
		return nil, fmt.Sprintf("Node tree '%s' not found.", name)
	}
	if msg := CheckTreeEditable(t); msg != "" {
		return nil, msg
	}
	return t, ""
}

// SelectedNodes returns the edit tree's selected nodes, optionally
// restricted to the given kinds.
func SelectedNodes(ctx *Context, kinds ...string) ([]*graph.Node, string) {
	t, msg := EditableTree(ctx)
	if msg != "" {
		return nil, msg
	}

	selected := t.SelectedNodes()
	if len(selected) == 0 {
		return nil, "No nodes selected."
	}

	if len(kinds) == 0 {
		return selected, ""
	}
	var filtered []*graph.Node
	for _, n := range selected {
		for _, k := range kinds {
			if n.Kind == k {
				filtered = append(filtered, n)
				break
			}
		}
	}
	if len(filtered) == 0 {
		return nil, fmt.Sprintf("No selected nodes of type %v.", kinds)
	}
	return filtered, ""
}
