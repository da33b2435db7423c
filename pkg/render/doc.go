// Package render turns workflow previews into output files.
//
// The [nodelink] subpackage lays the workflow out with Graphviz and
// produces DOT and SVG. [Convert] dispatches on the output format: DOT and
// SVG pass through, PDF and PNG are converted from the SVG by the external
// rsvg-convert tool (librsvg), configurable through [Converter].
//
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.Positioned)
//	pdf, err := render.Convert(ctx, render.FormatPDF, dot, svg, 1)
//	png, err := render.ToPNG(ctx, svg, 2)  // 2x scale
package render
