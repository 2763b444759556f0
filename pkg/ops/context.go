package ops

import (
	"sort"
	"sync"

	"github.com/mvenn/nodegraft/pkg/graph"
)

// EditorTypeNode identifies a node-editor context. Operators refuse to
// run in any other editor type.
const EditorTypeNode = "NODE_EDITOR"

// Context is the editor state an operator executes against: the active
// editor type, the tree being edited, and the session's trees for by-name
// resolution. Contexts are built fresh per invocation; operators must not
// cache node references across invocations.
type Context struct {
	EditorType string
	EditTree   *graph.Tree
	Trees      map[string]*graph.Tree
	UIScale    float64
}

// Session owns a set of named trees and the machinery to run operators
// against them. The host serializes command execution; the session's
// mutex enforces the same discipline here.
type Session struct {
	mu     sync.Mutex
	trees  map[string]*graph.Tree
	active string

	Registry *Registry
	Prefs    *Preferences
	UIScale  float64
}

// NewSession creates a session around the given registry and preferences.
func NewSession(reg *Registry, prefs *Preferences) *Session {
	if reg == nil {
		reg = NewRegistry()
	}
	if prefs == nil {
		prefs = NewPreferences()
	}
	prefs.RegisterHandlers(reg.Handlers())
	return &Session{
		trees:    make(map[string]*graph.Tree),
		Registry: reg,
		Prefs:    prefs,
		UIScale:  1,
	}
}

// AddTree adds a tree to the session. The first tree added becomes the
// active edit tree.
func (s *Session) AddTree(t *graph.Tree) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trees[t.Name] = t
	if s.active == "" {
		s.active = t.Name
	}
}

// Tree returns the named tree, or nil.
func (s *Session) Tree(name string) *graph.Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trees[name]
}

// Trees returns the session's trees sorted by name.
func (s *Session) Trees() []*graph.Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.trees))
	for name := range s.trees {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*graph.Tree, 0, len(names))
	for _, name := range names {
		out = append(out, s.trees[name])
	}
	return out
}

// SetActive makes the named tree the edit tree. Unknown names are ignored.
func (s *Session) SetActive(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.trees[name]; ok {
		s.active = name
	}
}

// ActiveTree returns the current edit tree, or nil.
func (s *Session) ActiveTree() *graph.Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trees[s.active]
}

// Context builds a fresh editor context for the current session state.
func (s *Session) Context() *Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	trees := make(map[string]*graph.Tree, len(s.trees))
	for name, t := range s.trees {
		trees[name] = t
	}
	return &Context{
		EditorType: EditorTypeNode,
		EditTree:   s.trees[s.active],
		Trees:      trees,
		UIScale:    s.UIScale,
	}
}

// RunOperator polls and executes the operator with the given id against
// the current context.
func (s *Session) RunOperator(id string) Result {
	op := s.Registry.Get(id)
	if op == nil {
		return Failed("Unknown operator " + id + ".")
	}
	ctx := s.Context()
	if msg := op.Poll(ctx); msg != "" {
		return Failed(msg)
	}
	return op.Execute(ctx)
}

// RunHandlers runs every enabled handler whose tree poll passes against
// the named tree. Handler results are not surfaced to the user; callers
// that care can inspect the returned results in order.
func (s *Session) RunHandlers(treeName string) []Result {
	ctx := s.Context()
	t, msg := EditableTreeByName(ctx, treeName)
	if msg != "" {
		return nil
	}
	var out []Result
	for _, h := range s.Registry.Handlers() {
		if !s.Prefs.Enabled(h.ID()) {
			continue
		}
		if h.PollTree(t) != "" {
			continue
		}
		out = append(out, h.ExecuteTree(t))
	}
	return out
}
