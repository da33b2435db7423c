// Package nodelink renders workflows as Graphviz node-link previews.
//
// # Overview
//
// A preview draws every node as a box and every link as an arrow. Two
// placements are available:
//
//   - Positioned: boxes sit at their canvas coordinates with their canvas
//     size, so a preview shows exactly what a layout operation did.
//   - Ranked: Graphviz ranks the nodes top to bottom, ignoring coordinates.
//
// # Usage
//
//	dot := nodelink.ToDOT(doc.Nodes(), nodelink.Options{Selected: doc.Selection()})
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.Positioned)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering (Graphviz compiled to WebAssembly), so no system Graphviz is
// needed.
package nodelink
