// Package engine provides the scripting console for nodegraft. It wraps
// zygomys in a sandboxed environment whose builtins build node trees and
// drive operators against a session.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/mvenn/nodegraft/pkg/ops"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter. Each call to Evaluate creates a
// fresh sandboxed environment; only the session it mutates persists
// across calls. Safe for concurrent use.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	session *ops.Session
}

// NewEngine creates an engine bound to the given session.
func NewEngine(s *ops.Session) *Engine {
	return &Engine{session: s}
}

// Session returns the session the engine's builtins operate on.
func (e *Engine) Session() *ops.Session { return e.session }

// Evaluate runs a script against the session and returns the printed form
// of the last expression.
//
// Return semantics:
//   - On success: returns value + nil errors + nil error
//   - On parse/eval failure: returns "" + eval errors + nil error
//   - On fatal failure (timeout, panic): returns "" + nil + error
func (e *Engine) Evaluate(source string) (string, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		value, evalErrs, err := e.evaluate(source)
		ch <- evalResult{value: value, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (string, []EvalError, error) {
	if strings.TrimSpace(source) == "" {
		return "", nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or
	// syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, e.session)

	err := env.LoadString(preprocessSource(source))
	if err != nil {
		return "", parseZygomysError(err), nil
	}

	result, err := env.Run()
	if err != nil {
		return "", parseZygomysError(err), nil
	}

	if result == nil || result == zygo.SexpNull {
		return "", nil, nil
	}
	return result.SexpString(nil), nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError
// values, extracting line numbers from the message where possible.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{
			Line:    line,
			Message: strings.TrimSpace(m[2]),
		}}
	}

	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{
			Line:    line,
			Message: strings.TrimSpace(m[2]),
		}}
	}

	return []EvalError{{
		Message: strings.TrimSpace(msg),
	}}
}
