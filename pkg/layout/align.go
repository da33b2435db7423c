package layout

import (
	"github.com/matzehuels/nodedesign/pkg/errors"
	"github.com/matzehuels/nodedesign/pkg/history"
	"github.com/matzehuels/nodedesign/pkg/node"
)

// alignment describes one alignment operation: the axis it works on, how
// the shared target is derived from the selection, and where each node
// goes for that target.
type alignment struct {
	axis   node.Axis
	target func(nodes []*node.Node, axis node.Axis) float64
	place  func(n *node.Node, axis node.Axis, target float64) float64
	resize bool
}

var alignments = map[Operation]alignment{
	OpAlignLeft:    {axis: node.AxisX, target: node.MinCoord, place: leading},
	OpAlignRight:   {axis: node.AxisX, target: node.MaxEnd, place: trailing},
	OpAlignTop:     {axis: node.AxisY, target: node.MinCoord, place: leading},
	OpAlignBottom:  {axis: node.AxisY, target: node.MaxEnd, place: trailing},
	OpAlignCenterH: {axis: node.AxisY, target: center, place: centered},
	OpAlignCenterV: {axis: node.AxisX, target: center, place: centered},
	OpEqualWidth:   {axis: node.AxisX, target: node.MaxSize, resize: true},
	OpEqualHeight:  {axis: node.AxisY, target: node.MaxSize, resize: true},
}

func leading(_ *node.Node, _ node.Axis, target float64) float64 { return target }

func trailing(n *node.Node, axis node.Axis, target float64) float64 {
	return target - n.Size[axis]
}

func centered(n *node.Node, axis node.Axis, target float64) float64 {
	return target - n.Size[axis]/2
}

// center returns the middle of the selection's bounding box along axis.
func center(nodes []*node.Node, axis node.Axis) float64 {
	return (node.MinCoord(nodes, axis) + node.MaxEnd(nodes, axis)) / 2
}

// IsAlignment reports whether op is handled by NewAlignCommand.
func IsAlignment(op Operation) bool {
	_, ok := alignments[op]
	return ok
}

// NewAlignCommand plans an alignment or equal-size operation over nodes.
// The target is computed once from the current geometry. A single node is
// accepted; an empty selection is not.
func NewAlignCommand(op Operation, nodes []*node.Node) (history.Command, error) {
	a, ok := alignments[op]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidOperation, "%s is not an alignment", op)
	}
	if len(nodes) == 0 {
		return nil, errors.New(errors.ErrCodeInsufficientSelection, "%s: no nodes selected", op)
	}

	target := a.target(nodes, a.axis)
	before := node.Capture(nodes)
	if a.resize {
		return &ResizeCommand{Op: op, Axis: a.axis, Size: target, nodes: nodes, before: before}, nil
	}
	axis := a.axis
	return &AlignCommand{
		Op:     op,
		Axis:   axis,
		Target: target,
		nodes:  nodes,
		before: before,
		place:  func(n *node.Node, t float64) float64 { return a.place(n, axis, t) },
	}, nil
}
