package layout

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/nodedesign/pkg/connectivity"
	"github.com/matzehuels/nodedesign/pkg/errors"
	"github.com/matzehuels/nodedesign/pkg/node"
)

// NewDistributeCommand plans an even spread of nodes along axis.
//
// Nodes are walked in flow order: topological levels in sequence, each
// level ordered by its current coordinate along axis. When the selection
// cannot be ordered topologically the walk falls back to plain coordinate
// order. The first node starts at the selection's minimum coordinate and
// every following node starts one gap after the previous node's far edge.
// The gap never goes negative, so crowded selections may overlap.
func NewDistributeCommand(axis node.Axis, nodes []*node.Node) (*DistributeCommand, error) {
	if !axis.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid axis %v", axis)
	}
	if len(nodes) < 2 {
		return nil, errors.New(errors.ErrCodeInsufficientSelection,
			"distribute needs at least 2 nodes, got %d", len(nodes))
	}

	before := node.Capture(nodes)
	order := flowOrder(nodes, axis)

	minCoord := node.MinCoord(nodes, axis)
	span := node.MaxEnd(nodes, axis) - minCoord
	occupied := node.TotalSize(nodes, axis)
	gap := math.Max(0, (span-occupied)/float64(len(nodes)-1))

	targets := make(map[node.ID]float64, len(order))
	cursor := minCoord
	for _, n := range order {
		targets[n.ID] = cursor
		cursor += n.Size[axis] + gap
	}

	return &DistributeCommand{
		Axis:    axis,
		Gap:     gap,
		order:   order,
		targets: targets,
		before:  before,
	}, nil
}

// flowOrder returns nodes upstream first, breaking ties within a level by
// position along axis.
func flowOrder(nodes []*node.Node, axis node.Axis) []*node.Node {
	byPos := func(a, b *node.Node) int { return cmp.Compare(a.Pos[axis], b.Pos[axis]) }

	res := connectivity.Analyze(nodes)
	if !res.Available() {
		order := slices.Clone(nodes)
		slices.SortStableFunc(order, byPos)
		return order
	}

	order := make([]*node.Node, 0, len(nodes))
	for _, level := range res.Levels {
		level = slices.Clone(level)
		slices.SortStableFunc(level, byPos)
		order = append(order, level...)
	}
	return order
}
