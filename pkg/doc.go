// Package pkg provides the libraries behind nodedesign, the layout engine of
// a node-graph editor.
//
// # Overview
//
// Nodedesign aligns, distributes and arranges the selected nodes of a
// workflow, and records every change as an undoable command. The pkg
// directory is organized into three areas:
//
//  1. Engine - [node], [connectivity], [history], [layout]
//  2. Host - [workflow] (document format), [keymap], [panel], [config]
//  3. Infrastructure - [session], [cache], [render], [errors], [observability]
//
// # Architecture
//
// A user action flows through the engine like this:
//
//	node.Accessor (current selection)
//	         ↓
//	    [layout] engine (plans a command with a snapshot of the old state)
//	         ↓
//	    [history] (runs Redo, records it, asks the host to refresh)
//	         ↓
//	node.Refresher (workflow.Document bumps its revision)
//
// Flow-aware operations (distribution, smart align) order nodes through
// [connectivity.Analyze], which groups nodes into topological levels.
//
// # Quick Start
//
//	doc, _ := workflow.ReadFile("flow.json")
//	doc.SelectAll()
//
//	engine := layout.NewEngine(doc, history.New(0, doc, nil), layout.DefaultConfig(), nil)
//	if !engine.SmartAlign() {
//	    fmt.Println(errors.UserMessage(engine.LastError()))
//	}
//	engine.Undo()
//
//	_ = workflow.WriteFile(doc, "flow.layout.json")
//
// # Sessions
//
// The HTTP API keeps one document and engine per session. [session.Registry]
// serialises access per session and writes the workflow to a
// [session.Store] (memory, file or redis) after every change. Undo history
// lives only in process.
package pkg
