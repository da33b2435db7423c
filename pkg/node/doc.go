// Package node defines the graph-editor node model that the layout engine
// borrows from its host.
//
// # Overview
//
// A [Node] is a positionable, resizable unit of the host graph. It carries
// an ordered list of [Input] slots (each optionally connected to one link)
// and an ordered list of [Output] slots (each fanning out to any number of
// links). Links are identified by [LinkID]; a link joins one node's output
// to another node's input.
//
// The host owns every node. The layout engine only reads the selection
// through an [Accessor], mutates Pos, Size and colours in place, and asks
// the host to redraw through a [Refresher]. Nodes are never created or
// destroyed here.
//
// # Snapshots
//
// Before mutating anything, layout commands take a [Snapshot]: an immutable
// per-node copy of position and size keyed by [ID]. Restoring a snapshot
// puts every captured node back to its exact prior geometry, size included,
// even if the host resized the node in between.
//
// # Axes
//
// Positions and sizes are [Vec2] values indexed by [Axis], so algorithms can
// be written once and applied horizontally (AxisX) or vertically (AxisY):
//
//	left := node.MinCoord(nodes, node.AxisX)
//	n.Pos[node.AxisY] = top
//
// # Concurrency
//
// Nodes are not safe for concurrent use. The host is expected to drive the
// engine from a single UI thread.
package node
