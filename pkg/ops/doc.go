// Package ops implements Nodegraft's editing operators: commands that
// rewrite node trees, a registry that dispatches them, and the debounced
// reconciler that re-runs handler operators after tree changes.
package ops
