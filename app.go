package main

import (
	"context"
	"fmt"
	"log"

	"github.com/mvenn/nodegraft/pkg/engine"
	"github.com/mvenn/nodegraft/pkg/graph"
	"github.com/mvenn/nodegraft/pkg/ops"
)

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx        context.Context
	session    *ops.Session
	engine     *engine.Engine
	reconciler *ops.Reconciler
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of a console evaluation returned to the
// frontend.
type EvalResult struct {
	Value  string          `json:"value"`
	Errors []EvalErrorData `json:"errors"`
}

// OperatorInfo describes one registered operator for the frontend menus.
// Disabled carries the poll failure reason; empty means runnable.
type OperatorInfo struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Handler  bool   `json:"handler"`
	Disabled string `json:"disabled"`
}

// OperatorResult is a JSON-serializable operator outcome.
type OperatorResult struct {
	Status   string `json:"status"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// NewApp creates a new App around a fresh session with the standard
// operator set.
func NewApp() *App {
	session := ops.NewSession(ops.DefaultRegistry(), ops.NewPreferences())
	return &App{
		session:    session,
		engine:     engine.NewEngine(session),
		reconciler: ops.NewReconciler(session, ops.DefaultReconcileDelay),
	}
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// Eval runs console source against the session. Handlers reconcile the
// active tree afterwards.
func (a *App) Eval(source string) EvalResult {
	result := EvalResult{Errors: []EvalErrorData{}}

	value, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		log.Printf("Eval fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	for _, e := range evalErrs {
		result.Errors = append(result.Errors, EvalErrorData{
			Line:    e.Line,
			Col:     e.Col,
			Message: e.Message,
		})
	}
	result.Value = value

	if len(evalErrs) == 0 {
		if t := a.session.ActiveTree(); t != nil {
			a.reconciler.Notify(t.Name)
		}
	}
	return result
}

// RunOperator polls and executes the operator with the given id against
// the active tree.
func (a *App) RunOperator(id string) OperatorResult {
	res := a.session.RunOperator(id)
	if res.Status == ops.StatusFinished {
		if t := a.session.ActiveTree(); t != nil {
			a.reconciler.Notify(t.Name)
		}
	}
	return OperatorResult{
		Status:   res.Status.String(),
		Severity: res.Severity.String(),
		Message:  res.Message,
	}
}

// Operators lists the registered operators with their current poll state.
func (a *App) Operators() []OperatorInfo {
	ctx := a.session.Context()
	var out []OperatorInfo
	for _, op := range a.session.Registry.All() {
		_, handler := op.(ops.TreeHandler)
		out = append(out, OperatorInfo{
			ID:       op.ID(),
			Label:    op.Label(),
			Handler:  handler,
			Disabled: op.Poll(ctx),
		})
	}
	return out
}

// Trees lists the session's tree names.
func (a *App) Trees() []string {
	var out []string
	for _, t := range a.session.Trees() {
		out = append(out, t.Name)
	}
	return out
}

// SetActiveTree switches the edit tree.
func (a *App) SetActiveTree(name string) {
	a.session.SetActive(name)
}

// SetHandlerEnabled toggles automatic execution of a tree handler.
func (a *App) SetHandlerEnabled(id string, enabled bool) {
	a.session.Prefs.SetEnabled(id, enabled)
}

// ActiveHandlers lists the handlers that run after change notifications.
func (a *App) ActiveHandlers() []string {
	return a.session.Prefs.ActiveHandlers()
}

// SaveDocument serializes every tree in the session to JSON.
func (a *App) SaveDocument() (string, error) {
	data, err := graph.EncodeDocument(a.session.Trees())
	if err != nil {
		log.Printf("SaveDocument: %v", err)
		return "", err
	}
	return string(data), nil
}

// LoadDocument replaces the session's trees with the ones in the given
// JSON document.
func (a *App) LoadDocument(data string) error {
	trees, err := graph.DecodeDocument([]byte(data))
	if err != nil {
		log.Printf("LoadDocument: %v", err)
		return fmt.Errorf("load document: %w", err)
	}

	fresh := ops.NewSession(a.session.Registry, a.session.Prefs)
	for _, t := range trees {
		fresh.AddTree(t)
	}
	a.session = fresh
	a.engine = engine.NewEngine(fresh)
	a.reconciler = ops.NewReconciler(fresh, ops.DefaultReconcileDelay)
	return nil
}
