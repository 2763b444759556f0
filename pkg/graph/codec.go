package graph

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Serial document format. Links reference nodes by name and sockets by
// identifier so the on-disk form carries no pointers; group subtrees
// reference sibling trees by name within the same document.

type docJSON struct {
	Trees []treeJSON `json:"trees"`
}

type treeJSON struct {
	Name            string     `json:"name"`
	Editable        bool       `json:"editable"`
	Linked          bool       `json:"linked,omitempty"`
	AutoSeedCounter int        `json:"auto_seed_counter,omitempty"`
	Interface       []itemJSON `json:"interface,omitempty"`
	Nodes           []nodeJSON `json:"nodes"`
	Links           []linkJSON `json:"links"`
}

type itemJSON struct {
	Kind string `json:"kind"` // "socket" or "panel"

	// Socket fields.
	Identifier           string `json:"identifier,omitempty"`
	SocketType           string `json:"socket_type,omitempty"`
	Output               bool   `json:"output,omitempty"`
	AttributeDomain      string `json:"attribute_domain,omitempty"`
	DefaultAttributeName string `json:"default_attribute_name,omitempty"`
	DefaultInput         string `json:"default_input,omitempty"`
	HideInModifier       bool   `json:"hide_in_modifier,omitempty"`
	HideValue            bool   `json:"hide_value,omitempty"`
	IsPanelToggle        bool   `json:"is_panel_toggle,omitempty"`
	MenuExpanded         bool   `json:"menu_expanded,omitempty"`
	StructureType        string `json:"structure_type,omitempty"`
	DefaultValue         any    `json:"default_value,omitempty"`
	MinValue             any    `json:"min_value,omitempty"`
	MaxValue             any    `json:"max_value,omitempty"`
	Subtype              string `json:"subtype,omitempty"`
	Dimensions           int    `json:"dimensions,omitempty"`

	// Panel fields.
	UID           int        `json:"uid,omitempty"`
	DefaultClosed bool       `json:"default_closed,omitempty"`
	Items         []itemJSON `json:"items,omitempty"`

	// Shared.
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

type nodeJSON struct {
	Name       string       `json:"name"`
	Kind       string       `json:"kind"`
	Label      string       `json:"label,omitempty"`
	Location   Vec2         `json:"location"`
	Width      float64      `json:"width,omitempty"`
	Dimensions Vec2         `json:"dimensions,omitempty"`
	Hide       bool         `json:"hide,omitempty"`
	Select     bool         `json:"select,omitempty"`
	Parent     string       `json:"parent,omitempty"`
	DataType   string       `json:"data_type,omitempty"`
	Subtree    string       `json:"subtree,omitempty"`
	Inputs     []socketJSON `json:"inputs,omitempty"`
	Outputs    []socketJSON `json:"outputs,omitempty"`
}

type socketJSON struct {
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
	Type       string `json:"type"`
	Hide       bool   `json:"hide,omitempty"`
	Disabled   bool   `json:"disabled,omitempty"`
	HideValue  bool   `json:"hide_value,omitempty"`
	Default    any    `json:"default,omitempty"`
}

type linkJSON struct {
	FromNode   string `json:"from_node"`
	FromSocket string `json:"from_socket"`
	ToNode     string `json:"to_node"`
	ToSocket   string `json:"to_socket"`
}

// EncodeDocument serializes a set of trees to indented JSON.
func EncodeDocument(trees []*Tree) ([]byte, error) {
	doc := docJSON{Trees: make([]treeJSON, 0, len(trees))}
	for _, t := range trees {
		tj, err := encodeTree(t)
		if err != nil {
			return nil, err
		}
		doc.Trees = append(doc.Trees, tj)
	}
	return json.MarshalIndent(doc, "", "  ")
}

func encodeTree(t *Tree) (treeJSON, error) {
	tj := treeJSON{
		Name:            t.Name,
		Editable:        t.Editable,
		Linked:          t.Linked,
		AutoSeedCounter: t.AutoSeedCounter,
	}
	if t.Interface != nil {
		tj.Interface = encodeItems(t.Interface.Root().Items())
	}
	for _, n := range t.Nodes {
		nj := nodeJSON{
			Name:       n.Name,
			Kind:       n.Kind,
			Label:      n.Label,
			Location:   n.Location,
			Width:      n.Width,
			Dimensions: n.Dimensions,
			Hide:       n.Hide,
			Select:     n.Select,
			DataType:   n.DataType,
		}
		if n.Parent != nil {
			nj.Parent = n.Parent.Name
		}
		if n.Subtree != nil {
			nj.Subtree = n.Subtree.Name
		}
		for _, s := range n.Inputs {
			nj.Inputs = append(nj.Inputs, encodeSocket(s))
		}
		for _, s := range n.Outputs {
			nj.Outputs = append(nj.Outputs, encodeSocket(s))
		}
		tj.Nodes = append(tj.Nodes, nj)
	}
	for _, l := range t.Links {
		tj.Links = append(tj.Links, linkJSON{
			FromNode:   l.FromNode.Name,
			FromSocket: l.FromSocket.Identifier,
			ToNode:     l.ToNode.Name,
			ToSocket:   l.ToSocket.Identifier,
		})
	}
	return tj, nil
}

func encodeSocket(s *Socket) socketJSON {
	return socketJSON{
		Name:       s.Name,
		Identifier: s.Identifier,
		Type:       s.Type,
		Hide:       s.Hide,
		Disabled:   !s.Enabled,
		HideValue:  s.HideValue,
		Default:    s.Default,
	}
}

func encodeItems(items []Item) []itemJSON {
	out := make([]itemJSON, 0, len(items))
	for _, item := range items {
		switch it := item.(type) {
		case *InterfaceSocket:
			out = append(out, itemJSON{
				Kind:                 "socket",
				Identifier:           it.Identifier,
				Name:                 it.Name,
				Description:          it.Description,
				SocketType:           it.SocketType,
				Output:               it.Output,
				AttributeDomain:      it.AttributeDomain,
				DefaultAttributeName: it.DefaultAttributeName,
				DefaultInput:         it.DefaultInput,
				HideInModifier:       it.HideInModifier,
				HideValue:            it.HideValue,
				IsPanelToggle:        it.IsPanelToggle,
				MenuExpanded:         it.MenuExpanded,
				StructureType:        it.StructureType,
				DefaultValue:         it.DefaultValue,
				MinValue:             it.MinValue,
				MaxValue:             it.MaxValue,
				Subtype:              it.Subtype,
				Dimensions:           it.Dimensions,
			})
		case *InterfacePanel:
			out = append(out, itemJSON{
				Kind:          "panel",
				UID:           it.UID,
				Name:          it.Name,
				Description:   it.Description,
				DefaultClosed: it.DefaultClosed,
				Items:         encodeItems(it.Items()),
			})
		}
	}
	return out
}

// DecodeDocument parses a document and resolves group subtree references
// across its trees.
func DecodeDocument(data []byte) ([]*Tree, error) {
	var doc docJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("graph: decode document: %w", err)
	}

	trees := make([]*Tree, 0, len(doc.Trees))
	byName := make(map[string]*Tree)
	type subtreeRef struct {
		node *Node
		name string
	}
	var refs []subtreeRef

	for _, tj := range doc.Trees {
		t := &Tree{
			Name:            tj.Name,
			Editable:        tj.Editable,
			Linked:          tj.Linked,
			AutoSeedCounter: tj.AutoSeedCounter,
			Nodes:           []*Node{},
			Links:           []*Link{},
			Interface:       NewInterface(),
		}
		decodeItems(t.Interface, t.Interface.Root(), tj.Interface)

		for _, nj := range tj.Nodes {
			n := &Node{
				Name:       nj.Name,
				Kind:       nj.Kind,
				Label:      nj.Label,
				Location:   nj.Location,
				Width:      nj.Width,
				Dimensions: nj.Dimensions,
				Hide:       nj.Hide,
				Select:     nj.Select,
				DataType:   nj.DataType,
				tree:       t,
			}
			if n.Width == 0 {
				n.Width = DefaultWidth
			}
			for _, sj := range nj.Inputs {
				s := n.AddInput(sj.Name, sj.Type)
				s.Identifier = sj.Identifier
				s.Hide = sj.Hide
				s.Enabled = !sj.Disabled
				s.HideValue = sj.HideValue
				s.Default = sj.Default
			}
			for _, sj := range nj.Outputs {
				s := n.AddOutput(sj.Name, sj.Type)
				s.Identifier = sj.Identifier
				s.Hide = sj.Hide
				s.Enabled = !sj.Disabled
				s.HideValue = sj.HideValue
				s.Default = sj.Default
			}
			t.Nodes = append(t.Nodes, n)
			if nj.Subtree != "" {
				refs = append(refs, subtreeRef{node: n, name: nj.Subtree})
			}
		}

		// Frame parents resolve within the same tree.
		for i, nj := range tj.Nodes {
			if nj.Parent == "" {
				continue
			}
			parent := t.Node(nj.Parent)
			if parent == nil {
				return nil, fmt.Errorf("graph: tree %q: node %q references missing parent %q", t.Name, nj.Name, nj.Parent)
			}
			t.Nodes[i].Parent = parent
		}

		for _, lj := range tj.Links {
			from := t.Node(lj.FromNode)
			to := t.Node(lj.ToNode)
			if from == nil || to == nil {
				return nil, fmt.Errorf("graph: tree %q: link references missing node", t.Name)
			}
			fs := from.OutputByID(lj.FromSocket)
			ts := to.InputByID(lj.ToSocket)
			if fs == nil || ts == nil {
				return nil, fmt.Errorf("graph: tree %q: link references missing socket", t.Name)
			}
			t.Links = append(t.Links, &Link{FromNode: from, FromSocket: fs, ToNode: to, ToSocket: ts})
		}

		trees = append(trees, t)
		byName[t.Name] = t
	}

	for _, ref := range refs {
		sub, ok := byName[ref.name]
		if !ok {
			return nil, fmt.Errorf("graph: node %q references missing subtree %q", ref.node.Name, ref.name)
		}
		ref.node.Subtree = sub
	}

	return trees, nil
}

func decodeItems(f *Interface, parent *InterfacePanel, items []itemJSON) {
	for _, ij := range items {
		switch ij.Kind {
		case "socket":
			s := &InterfaceSocket{
				Identifier:           ij.Identifier,
				Name:                 ij.Name,
				Description:          ij.Description,
				SocketType:           ij.SocketType,
				Output:               ij.Output,
				AttributeDomain:      ij.AttributeDomain,
				DefaultAttributeName: ij.DefaultAttributeName,
				DefaultInput:         ij.DefaultInput,
				HideInModifier:       ij.HideInModifier,
				HideValue:            ij.HideValue,
				IsPanelToggle:        ij.IsPanelToggle,
				MenuExpanded:         ij.MenuExpanded,
				StructureType:        ij.StructureType,
				DefaultValue:         ij.DefaultValue,
				MinValue:             ij.MinValue,
				MaxValue:             ij.MaxValue,
				Subtype:              ij.Subtype,
				Dimensions:           ij.Dimensions,
			}
			s.setParent(parent)
			parent.items = append(parent.items, s)
			if n := identifierNumber(ij.Identifier); n >= f.nextSock {
				f.nextSock = n + 1
			}
		case "panel":
			p := &InterfacePanel{
				UID:           ij.UID,
				Name:          ij.Name,
				Description:   ij.Description,
				DefaultClosed: ij.DefaultClosed,
			}
			p.setParent(parent)
			parent.items = append(parent.items, p)
			if ij.UID >= f.nextUID {
				f.nextUID = ij.UID + 1
			}
			decodeItems(f, p, ij.Items)
		}
	}
}

// identifierNumber extracts N from identifiers of the form "Socket_N",
// returning -1 for any other shape.
func identifierNumber(id string) int {
	rest, ok := strings.CutPrefix(id, "Socket_")
	if !ok {
		return -1
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return -1
	}
	return n
}
