// Package workflow reads and writes node-graph workflows and exposes them
// to the layout engine.
//
// # Format
//
// Workflows use the litegraph JSON shape produced by node-graph editors:
//
//	{
//	  "nodes": [
//	    {"id": 1, "title": "Loader", "pos": [0, 0], "size": [200, 80],
//	     "outputs": [{"name": "out", "links": [7]}]},
//	    {"id": 2, "title": "Save", "pos": [300, 0], "size": [200, 80],
//	     "inputs": [{"name": "in", "link": 7}]}
//	  ],
//	  "links": [[7, 1, 0, 2, 0, "IMAGE"]],
//	  "selected": [1, 2]
//	}
//
// Links are arrays of [id, origin node, origin slot, target node, target
// slot, type]; the type is optional. Unknown top-level and node keys are
// dropped on read.
//
// # Documents
//
// A [Document] owns the live [node.Node] values decoded from a workflow
// together with an ordered selection. It implements [node.Accessor] and
// [node.Refresher], so it can be handed straight to the layout engine:
//
//	doc, _ := workflow.ReadFile("flow.json")
//	doc.SelectAll()
//	eng := layout.NewEngine(doc, history.New(0, doc, logger), layout.DefaultConfig(), logger)
//	eng.SmartAlign()
//	workflow.WriteFile(doc, "flow.json")
//
// # Concurrency
//
// Documents are not safe for concurrent use; callers serialise access.
package workflow
