// Package connectivity derives flow order from the links between selected
// nodes.
//
// # Overview
//
// Layout operations that respect data flow (distribution, smart align) need
// to know which nodes are upstream of which. [Analyze] builds a directed
// graph over a node set from the link ids on their slots and groups the
// nodes into topological levels: level 0 holds the sources (no incoming
// edge from inside the set), level 1 the nodes fed only by level 0, and so
// on.
//
// Only links whose both ends are inside the set count. A node fed from
// outside the selection is a source as far as the analysis is concerned.
//
// # Cycles
//
// When the set contains a cycle, some nodes never reach in-degree zero.
// Analyze then reports the analysis as unavailable: [Result.Levels] is nil
// and [Result.Sorted] is the input order. Callers fall back to
// position-based ordering or abort.
package connectivity
