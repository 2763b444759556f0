package ops

import (
	"sync"
	"testing"
	"time"

	"github.com/mvenn/nodegraft/pkg/graph"
)

func reconcileSession(t *testing.T) (*Session, *graph.Tree) {
	t.Helper()
	s := NewSession(DefaultRegistry(), NewPreferences())
	tr := graph.NewTree("Rig")
	tr.NewNode(graph.KindValue)
	s.AddTree(tr)
	return s, tr
}

func TestReconcilerCoalescesBursts(t *testing.T) {
	s, tr := reconcileSession(t)
	r := NewReconciler(s, 10*time.Millisecond)

	var mu sync.Mutex
	var flushes int
	var lastTrees []string
	done := make(chan struct{}, 1)
	r.OnFlush = func(trees []string, results []Result) {
		mu.Lock()
		flushes++
		lastTrees = trees
		mu.Unlock()
		select {
		case done <- struct{}{}:
		default:
		}
	}

	for i := 0; i < 5; i++ {
		r.Notify("Rig")
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("flush never fired")
	}
	// Give a trailing timer a chance to misfire.
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if flushes != 1 {
		t.Errorf("flushes = %d, want 1", flushes)
	}
	if len(lastTrees) != 1 || lastTrees[0] != "Rig" {
		t.Errorf("trees = %v", lastTrees)
	}
	if !tr.Node("Value").Hide {
		t.Errorf("handler pass did not run")
	}
}

func TestReconcilerFlushBypassesDelay(t *testing.T) {
	s, tr := reconcileSession(t)
	r := NewReconciler(s, time.Hour)

	r.Notify("Rig")
	r.Flush()
	if !tr.Node("Value").Hide {
		t.Errorf("explicit flush did not run the handlers")
	}
}

func TestReconcilerIgnoresEmptyNotify(t *testing.T) {
	s, _ := reconcileSession(t)
	r := NewReconciler(s, time.Millisecond)
	called := make(chan struct{}, 1)
	r.OnFlush = func([]string, []Result) { called <- struct{}{} }

	r.Notify("")
	r.Flush()
	select {
	case <-called:
		t.Fatal("flush ran with nothing pending")
	default:
	}
}
