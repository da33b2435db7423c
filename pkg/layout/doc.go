// Package layout arranges selected nodes of a node graph.
//
// The package offers four families of operations over the current
// selection:
//
//   - Alignment: snap edges or centres to a shared coordinate, or give
//     every node the largest width or height ([NewAlignCommand]).
//   - Distribution: spread nodes along one axis with equal gaps, walking
//     them in flow order ([NewDistributeCommand]).
//   - Smart align: place each topological level in its own column,
//     centred against the tallest column ([NewSmartAlignCommand]).
//   - Tree view: breadth-first tree under the first unfed node
//     ([NewTreeViewCommand]).
//
// Each planner returns a [history.Command] that captures a snapshot of
// the selection and a fixed target, so Undo restores bit-exact geometry.
// An [Engine] ties planners to a node accessor and a command history and
// reports failures through boolean results and [Engine.LastError].
//
// # Usage
//
//	eng := layout.NewEngine(doc, history.New(0, doc, logger), layout.DefaultConfig(), logger)
//	if !eng.Apply(layout.OpSmartAlign) {
//	    logger.Warn("smart align skipped", "reason", eng.LastError())
//	}
//	eng.Undo()
package layout
