package ops

import (
	"sort"
	"sync"
	"time"

	"github.com/bep/debounce"
)

// DefaultReconcileDelay is how long the reconciler waits after the last
// change notification before running tree handlers. Bursts of edits from
// a single user action collapse into one pass.
const DefaultReconcileDelay = 300 * time.Millisecond

// Reconciler runs the session's enabled tree handlers after graph edits,
// debounced so rapid notification bursts trigger a single pass. Notify is
// safe to call from any goroutine; the flush itself runs on the debounce
// timer's goroutine and takes the session lock through RunHandlers.
type Reconciler struct {
	session  *Session
	debounce func(func())

	mu      sync.Mutex
	pending map[string]struct{}

	// OnFlush, when set, observes each completed pass. Used by the app
	// shell to push refreshed state to the frontend.
	OnFlush func(trees []string, results []Result)
}

// NewReconciler creates a reconciler for the session. A non-positive
// delay falls back to DefaultReconcileDelay.
func NewReconciler(s *Session, delay time.Duration) *Reconciler {
	if delay <= 0 {
		delay = DefaultReconcileDelay
	}
	return &Reconciler{
		session:  s,
		debounce: debounce.New(delay),
		pending:  make(map[string]struct{}),
	}
}

// Notify records that the named tree changed and schedules a flush.
func (r *Reconciler) Notify(treeName string) {
	if treeName == "" {
		return
	}
	r.mu.Lock()
	r.pending[treeName] = struct{}{}
	r.mu.Unlock()
	r.debounce(r.flush)
}

// Flush runs any pending pass immediately, bypassing the debounce timer.
// Tests and shutdown paths use it to avoid waiting out the delay.
func (r *Reconciler) Flush() {
	r.flush()
}

func (r *Reconciler) flush() {
	r.mu.Lock()
	if len(r.pending) == 0 {
		r.mu.Unlock()
		return
	}
	trees := make([]string, 0, len(r.pending))
	for name := range r.pending {
		trees = append(trees, name)
	}
	r.pending = make(map[string]struct{})
	r.mu.Unlock()
	sort.Strings(trees)

	var results []Result
	for _, name := range trees {
		results = append(results, r.session.RunHandlers(name)...)
	}
	if r.OnFlush != nil {
		r.OnFlush(trees, results)
	}
}
