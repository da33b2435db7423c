package layout

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/nodedesign/pkg/connectivity"
	"github.com/matzehuels/nodedesign/pkg/errors"
	"github.com/matzehuels/nodedesign/pkg/node"
)

// NewSmartAlignCommand plans a column-per-level layout.
//
// Each topological level becomes a column as wide as its widest node.
// Within a column nodes keep their vertical order and are stacked with a
// fixed gap; every column is centred against the tallest one. Columns are
// separated horizontally by a gap derived from the widest node of the
// selection. The first node of the first column keeps its position.
//
// The selection must hold at least two nodes and be free of cycles.
func NewSmartAlignCommand(nodes []*node.Node, spacingFactor float64) (*SmartAlignCommand, error) {
	if len(nodes) < 2 {
		return nil, errors.New(errors.ErrCodeInsufficientSelection,
			"smart align needs at least 2 nodes, got %d", len(nodes))
	}
	res := connectivity.Analyze(nodes)
	if !res.Available() {
		return nil, errors.New(errors.ErrCodeCycleOrDisconnected,
			"smart align: selection has a cycle or inconsistent links")
	}

	before := node.Capture(nodes)
	hSpacing := spacingFactor * node.MaxSize(nodes, node.AxisX)
	vSpacing := spacingFactor * node.MaxSize(nodes, node.AxisY)

	levels := make([][]*node.Node, len(res.Levels))
	heights := make([]float64, len(res.Levels))
	var tallest float64
	for i, level := range res.Levels {
		level = slices.Clone(level)
		slices.SortStableFunc(level, func(a, b *node.Node) int {
			return cmp.Compare(a.Pos.Y(), b.Pos.Y())
		})
		levels[i] = level
		heights[i] = node.TotalSize(level, node.AxisY) + vSpacing*float64(len(level)-1)
		tallest = math.Max(tallest, heights[i])
	}

	anchor := levels[0][0]
	rootY := anchor.Pos.Y() - (tallest-heights[0])/2
	x := anchor.Pos.X()

	targets := make(map[node.ID]node.Vec2, len(nodes))
	for i, level := range levels {
		y := rootY + (tallest-heights[i])/2
		for _, n := range level {
			targets[n.ID] = node.Vec2{x, y}
			y += n.Size.Y() + vSpacing
		}
		x += node.MaxSize(level, node.AxisX) + hSpacing
	}

	return &SmartAlignCommand{
		placement: placement{nodes: nodes, targets: targets, before: before},
		Levels:    levels,
	}, nil
}
