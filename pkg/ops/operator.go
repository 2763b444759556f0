package ops

import (
	"fmt"

	"github.com/mvenn/nodegraft/pkg/graph"
)

// Operator is a single editing command. Poll reports why the operator is
// not currently applicable (empty string means it is); Execute performs
// the edit and returns a structured outcome.
type Operator interface {
	ID() string
	Label() string
	Poll(ctx *Context) string
	Execute(ctx *Context) Result
}

// TreeHandler is an operator that can also run automatically against a
// named tree after change notifications, without an editor context.
type TreeHandler interface {
	Operator
	PollTree(t *graph.Tree) string
	ExecuteTree(t *graph.Tree) Result
}

// Registry holds the operators available to a session, in registration
// order. It is constructed explicitly at startup and passed by reference;
// there is no package-level registry.
type Registry struct {
	order []Operator
	byID  map[string]Operator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]Operator)}
}

// Register adds an operator. Duplicate ids are an error.
func (r *Registry) Register(op Operator) error {
	if _, exists := r.byID[op.ID()]; exists {
		return fmt.Errorf("ops: operator %q already registered", op.ID())
	}
	r.byID[op.ID()] = op
	r.order = append(r.order, op)
	return nil
}

// Get returns the operator with the given id, or nil.
func (r *Registry) Get(id string) Operator {
	return r.byID[id]
}

// All returns every registered operator in registration order.
func (r *Registry) All() []Operator {
	out := make([]Operator, len(r.order))
	copy(out, r.order)
	return out
}

// Handlers returns the registered tree handlers in registration order.
func (r *Registry) Handlers() []TreeHandler {
	var out []TreeHandler
	for _, op := range r.order {
		if h, ok := op.(TreeHandler); ok {
			out = append(out, h)
		}
	}
	return out
}

// DefaultRegistry builds a registry with the standard operator set.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, op := range []Operator{
		&RandomizeSeed{},
		&ResetSeeds{},
		&MatchGroupInterface{},
		&SplitMergeGroupInput{},
		&HideResizeNode{},
		&HideRenameSingleOutput{},
	} {
		// Ids are distinct by construction.
		_ = r.Register(op)
	}
	return r
}
