package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/mvenn/nodegraft/pkg/graph"
	"github.com/mvenn/nodegraft/pkg/ops"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms console source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: iface-input -> iface_input
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus
		// operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpTree wraps a graph.Tree so it can be passed between builtins.
type sexpTree struct {
	tree *graph.Tree
}

func (t *sexpTree) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(tree %q)", t.tree.Name)
}
func (t *sexpTree) Type() *zygo.RegisteredType { return nil }

// sexpNode wraps a graph.Node.
type sexpNode struct {
	node *graph.Node
}

func (n *sexpNode) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(node %q)", n.node.Name)
}
func (n *sexpNode) Type() *zygo.RegisteredType { return nil }

// sexpIfaceItem wraps an interface socket or panel.
type sexpIfaceItem struct {
	item graph.Item
}

func (it *sexpIfaceItem) SexpString(ps *zygo.PrintState) string {
	switch v := it.item.(type) {
	case *graph.InterfaceSocket:
		return fmt.Sprintf("(iface-input %q)", v.Name)
	case *graph.InterfacePanel:
		return fmt.Sprintf("(iface-panel %q)", v.Name)
	}
	return "(iface-item)"
}
func (it *sexpIfaceItem) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument
// list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a bool from a Sexp.
func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected bool, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_int) and plain strings ("int").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toSocketType converts a keyword or string to a socket type constant.
func toSocketType(s zygo.Sexp) (string, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return "", fmt.Errorf("expected socket type keyword (:float, :int, ...): %w", err)
	}
	switch strings.ToLower(name) {
	case "float":
		return graph.SocketFloat, nil
	case "int":
		return graph.SocketInt, nil
	case "vector":
		return graph.SocketVector, nil
	case "bool":
		return graph.SocketBool, nil
	case "string":
		return graph.SocketString, nil
	case "color":
		return graph.SocketColor, nil
	case "menu":
		return graph.SocketMenu, nil
	}
	return "", fmt.Errorf("invalid socket type %q", name)
}

// toTree extracts a tree from a sexpTree.
func toTree(s zygo.Sexp) (*graph.Tree, error) {
	if t, ok := s.(*sexpTree); ok {
		return t.tree, nil
	}
	return nil, fmt.Errorf("expected tree, got %T (%s)", s, s.SexpString(nil))
}

// toNode extracts a node from a sexpNode.
func toNode(s zygo.Sexp) (*graph.Node, error) {
	if n, ok := s.(*sexpNode); ok {
		return n.node, nil
	}
	return nil, fmt.Errorf("expected node, got %T (%s)", s, s.SexpString(nil))
}

// toPanel extracts a panel from a sexpIfaceItem.
func toPanel(s zygo.Sexp) (*graph.InterfacePanel, error) {
	if it, ok := s.(*sexpIfaceItem); ok {
		if p, ok := it.item.(*graph.InterfacePanel); ok {
			return p, nil
		}
	}
	return nil, fmt.Errorf("expected panel, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the graph-editing builtins into a zygomys
// environment. The builtins operate on the provided session, creating and
// editing its trees during evaluation.
//
// Source code must be preprocessed with preprocessSource() before
// evaluation so that :keyword tokens and kebab-case builtin names are
// converted to recognizable forms.
func registerBuiltins(env *zygo.Zlisp, session *ops.Session) {

	// -----------------------------------------------------------------------
	// (tree "Rig")
	// Returns the named tree, creating and activating it when missing.
	// -----------------------------------------------------------------------
	env.AddFunction("tree", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("tree requires a name argument")
		}
		treeName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tree: name: %w", err)
		}

		t := session.Tree(treeName)
		if t == nil {
			t = graph.NewTree(treeName)
			session.AddTree(t)
		}
		session.SetActive(treeName)
		return &sexpTree{tree: t}, nil
	})

	// -----------------------------------------------------------------------
	// (iface-input tr "Seed" :type :int :panel p)
	// -----------------------------------------------------------------------
	env.AddFunction("iface_input", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("iface-input requires a tree and a name")
		}
		t, err := toTree(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("iface-input: %w", err)
		}
		sockName, err := toString(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("iface-input: name: %w", err)
		}

		sockType := graph.SocketFloat
		if v, ok := pa.kw["type"]; ok {
			sockType, err = toSocketType(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("iface-input: type: %w", err)
			}
		}

		sock := t.Interface.NewSocket(sockName, sockType, false)
		if v, ok := pa.kw["panel"]; ok {
			panel, err := toPanel(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("iface-input: panel: %w", err)
			}
			t.Interface.MoveToParent(sock, panel, len(panel.Items()))
		}
		return &sexpIfaceItem{item: sock}, nil
	})

	// -----------------------------------------------------------------------
	// (iface-panel tr "Settings" :closed true)
	// -----------------------------------------------------------------------
	env.AddFunction("iface_panel", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("iface-panel requires a tree and a name")
		}
		t, err := toTree(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("iface-panel: %w", err)
		}
		panelName, err := toString(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("iface-panel: name: %w", err)
		}

		description := ""
		if v, ok := pa.kw["description"]; ok {
			description, err = toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("iface-panel: description: %w", err)
			}
		}
		closed := false
		if v, ok := pa.kw["closed"]; ok {
			closed, err = toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("iface-panel: closed: %w", err)
			}
		}

		panel := t.Interface.NewPanel(panelName, description, closed)
		return &sexpIfaceItem{item: panel}, nil
	})

	// -----------------------------------------------------------------------
	// (node tr "Math" :label "Add" :x 100 :y -50 :select true)
	// -----------------------------------------------------------------------
	env.AddFunction("node", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("node requires a tree and a kind")
		}
		t, err := toTree(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("node: %w", err)
		}
		kind, err := toString(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("node: kind: %w", err)
		}

		n := t.NewNode(kind)
		if v, ok := pa.kw["label"]; ok {
			label, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("node: label: %w", err)
			}
			n.Label = label
		}
		if v, ok := pa.kw["x"]; ok {
			x, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("node: x: %w", err)
			}
			n.Location.X = x
		}
		if v, ok := pa.kw["y"]; ok {
			y, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("node: y: %w", err)
			}
			n.Location.Y = y
		}
		if v, ok := pa.kw["select"]; ok {
			sel, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("node: select: %w", err)
			}
			n.Select = sel
		}
		return &sexpNode{node: n}, nil
	})

	// -----------------------------------------------------------------------
	// (link tr from "Seed" to "Value")
	// Connects from's output socket to to's input socket by name.
	// -----------------------------------------------------------------------
	env.AddFunction("link", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 5 {
			return zygo.SexpNull, fmt.Errorf("link requires a tree, source node, output name, destination node and input name")
		}
		t, err := toTree(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("link: %w", err)
		}
		from, err := toNode(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("link: source: %w", err)
		}
		outName, err := toString(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("link: output: %w", err)
		}
		to, err := toNode(args[3])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("link: destination: %w", err)
		}
		inName, err := toString(args[4])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("link: input: %w", err)
		}

		out := from.Output(outName)
		if out == nil {
			return zygo.SexpNull, fmt.Errorf("link: node %q has no output %q", from.Name, outName)
		}
		in := to.Input(inName)
		if in == nil {
			return zygo.SexpNull, fmt.Errorf("link: node %q has no input %q", to.Name, inName)
		}
		if _, err := t.NewLink(out, in); err != nil {
			return zygo.SexpNull, fmt.Errorf("link: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (select-nodes tr n1 n2 ...)
	// Replaces the tree's selection with the given nodes.
	// -----------------------------------------------------------------------
	env.AddFunction("select_nodes", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("select-nodes requires a tree argument")
		}
		t, err := toTree(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("select-nodes: %w", err)
		}
		t.DeselectAll()
		for i, arg := range args[1:] {
			n, err := toNode(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("select-nodes: argument %d: %w", i+1, err)
			}
			n.Select = true
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (run "node.randomize_seed")
	// Runs an operator by id against the active tree; returns its status.
	// -----------------------------------------------------------------------
	env.AddFunction("run", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("run requires an operator id")
		}
		id, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("run: id: %w", err)
		}

		res := session.RunOperator(id)
		if res.Severity == ops.SeverityError && res.Message != "" {
			return zygo.SexpNull, fmt.Errorf("run: %s: %s", id, res.Message)
		}
		if res.Message != "" {
			return &zygo.SexpStr{S: fmt.Sprintf("%s: %s", res.Status, res.Message)}, nil
		}
		return &zygo.SexpStr{S: res.Status.String()}, nil
	})

	// -----------------------------------------------------------------------
	// (seed-counter tr)
	// -----------------------------------------------------------------------
	env.AddFunction("seed_counter", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("seed-counter requires a tree argument")
		}
		t, err := toTree(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("seed-counter: %w", err)
		}
		return &zygo.SexpInt{Val: int64(t.AutoSeedCounter)}, nil
	})
}
