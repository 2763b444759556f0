// Package graph defines the node-tree document model for Nodegraft:
// trees, nodes, sockets, links, and the tree interface (sockets + panels)
// that describes a tree's external contract.
package graph
