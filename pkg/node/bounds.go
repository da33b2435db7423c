package node

import "math"

// MinCoord returns the smallest position along axis, or 0 for no nodes.
func MinCoord(nodes []*Node, axis Axis) float64 {
	if len(nodes) == 0 {
		return 0
	}
	m := math.Inf(1)
	for _, n := range nodes {
		m = math.Min(m, n.Pos[axis])
	}
	return m
}

// MaxEnd returns the largest far edge (pos + size) along axis, or 0 for no nodes.
func MaxEnd(nodes []*Node, axis Axis) float64 {
	if len(nodes) == 0 {
		return 0
	}
	m := math.Inf(-1)
	for _, n := range nodes {
		m = math.Max(m, n.End(axis))
	}
	return m
}

// MaxSize returns the largest size along axis, or 0 for no nodes.
func MaxSize(nodes []*Node, axis Axis) float64 {
	var m float64
	for i, n := range nodes {
		if i == 0 || n.Size[axis] > m {
			m = n.Size[axis]
		}
	}
	return m
}

// TotalSize sums sizes along axis.
func TotalSize(nodes []*Node, axis Axis) float64 {
	var sum float64
	for _, n := range nodes {
		sum += n.Size[axis]
	}
	return sum
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	Min Vec2
	Max Vec2
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.Max[AxisX] - r.Min[AxisX] }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Max[AxisY] - r.Min[AxisY] }

// Bounds returns the bounding box of the nodes.
func Bounds(nodes []*Node) Rect {
	return Rect{
		Min: Vec2{MinCoord(nodes, AxisX), MinCoord(nodes, AxisY)},
		Max: Vec2{MaxEnd(nodes, AxisX), MaxEnd(nodes, AxisY)},
	}
}
