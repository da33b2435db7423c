package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/nodedesign/pkg/connectivity"
	"github.com/matzehuels/nodedesign/pkg/node"
)

// pointsPerInch converts canvas pixels into Graphviz inches.
const pointsPerInch = 72

// Placement selects how Graphviz positions the boxes.
type Placement int

const (
	// Positioned pins every box at its canvas coordinates (neato).
	Positioned Placement = iota
	// Ranked lets Graphviz rank boxes top to bottom (dot).
	Ranked
)

// ParsePlacement reads "positioned" or "ranked".
func ParsePlacement(s string) (Placement, error) {
	switch strings.ToLower(s) {
	case "", "positioned", "canvas":
		return Positioned, nil
	case "ranked", "dot":
		return Ranked, nil
	default:
		return 0, fmt.Errorf("unknown placement %q", s)
	}
}

// Options configures preview generation.
type Options struct {
	// Placement chooses canvas coordinates or Graphviz ranking.
	Placement Placement

	// Detailed adds position, size and flow level to node labels.
	// When false, only the node title is shown.
	Detailed bool

	// Selected nodes are drawn with a thick outline.
	Selected []node.ID
}

// ToDOT converts nodes and the links between them to Graphviz DOT.
// Canvas y grows downwards, so positioned output negates y.
func ToDOT(nodes []*node.Node, opts Options) string {
	res := connectivity.Analyze(nodes)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if opts.Placement == Ranked {
		buf.WriteString("  rankdir=LR;\n")
		buf.WriteString("  ranksep=0.5;\n")
		buf.WriteString("  nodesep=0.3;\n")
	} else {
		buf.WriteString("  splines=true;\n")
		buf.WriteString("  overlap=true;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.1,0.05\"];\n")
	buf.WriteString("\n")

	for _, n := range nodes {
		label := fmtLabel(n, res, opts.Detailed)
		attrs := fmtAttrs(n, label, opts)
		fmt.Fprintf(&buf, "  %d [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range res.Edges() {
		fmt.Fprintf(&buf, "  %d -> %d;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *node.Node, res connectivity.Result, detailed bool) string {
	if !detailed {
		return n.Label()
	}
	parts := []string{
		n.Label(),
		fmt.Sprintf("pos: %g, %g", n.Pos.X(), n.Pos.Y()),
		fmt.Sprintf("size: %g × %g", n.Size.X(), n.Size.Y()),
	}
	if l := res.LevelOf(n.ID); l >= 0 {
		parts = append(parts, fmt.Sprintf("level: %d", l))
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n *node.Node, label string, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if opts.Placement == Positioned {
		cx := n.Pos.X() + n.Size.X()/2
		cy := -(n.Pos.Y() + n.Size.Y()/2)
		attrs = append(attrs,
			fmt.Sprintf("pos=\"%g,%g!\"", cx, cy),
			fmt.Sprintf("width=%g", n.Size.X()/pointsPerInch),
			fmt.Sprintf("height=%g", n.Size.Y()/pointsPerInch),
			"fixedsize=true",
		)
	}
	if n.BgColor != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", n.BgColor))
	}
	if n.Color != "" {
		attrs = append(attrs, fmt.Sprintf("color=%q", n.Color))
	}
	if slices.Contains(opts.Selected, n.ID) {
		attrs = append(attrs, "penwidth=3")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz. Positioned previews
// use the neato engine so pinned coordinates are honoured.
func RenderSVG(ctx context.Context, dot string, placement Placement) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	if placement == Positioned {
		gv.SetLayout(graphviz.NEATO)
	}

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
