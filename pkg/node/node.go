package node

import (
	"fmt"
	"slices"
)

// ID identifies a node within the host graph.
type ID int64

// LinkID identifies a connection between an output slot and an input slot.
type LinkID int64

// Axis selects the horizontal (x) or vertical (y) component of a [Vec2].
type Axis int

const (
	AxisX Axis = 0
	AxisY Axis = 1
)

// Other returns the perpendicular axis.
func (a Axis) Other() Axis { return 1 - a }

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Valid reports whether a is AxisX or AxisY.
func (a Axis) Valid() bool { return a == AxisX || a == AxisY }

// Vec2 is a 2D vector indexed by Axis. It is used for both positions and sizes.
type Vec2 [2]float64

// X returns the horizontal component.
func (v Vec2) X() float64 { return v[AxisX] }

// Y returns the vertical component.
func (v Vec2) Y() float64 { return v[AxisY] }

// Input is an input slot. Link is nil when the slot is not connected.
type Input struct {
	Name string
	Link *LinkID
}

// Connected reports whether the slot is fed by a link.
func (in Input) Connected() bool { return in.Link != nil }

// Output is an output slot fanning out to zero or more links.
type Output struct {
	Name  string
	Links []LinkID
}

// Link returns a pointer to id, for building connected inputs.
func Link(id LinkID) *LinkID { return &id }

// Node is a positionable, resizable unit of the host graph.
//
// The zero value is a valid unconnected node at the origin with no size.
type Node struct {
	ID      ID
	Title   string
	Pos     Vec2 // top-left corner
	Size    Vec2 // width, height
	Color   string
	BgColor string
	Inputs  []Input
	Outputs []Output
}

// Label returns the title if set, otherwise the formatted ID.
func (n *Node) Label() string {
	if n.Title != "" {
		return n.Title
	}
	return fmt.Sprintf("#%d", n.ID)
}

// End returns the far edge of the node along axis (pos + size).
func (n *Node) End(axis Axis) float64 { return n.Pos[axis] + n.Size[axis] }

// Unfed reports whether no input slot of the node carries a link.
// Nodes without inputs are unfed.
func (n *Node) Unfed() bool {
	for _, in := range n.Inputs {
		if in.Connected() {
			return false
		}
	}
	return true
}

// OutputLinks returns every link leaving the node, in slot order.
func (n *Node) OutputLinks() []LinkID {
	var links []LinkID
	for _, out := range n.Outputs {
		links = append(links, out.Links...)
	}
	return links
}

// HasOutputLink reports whether any output slot of the node carries link.
func (n *Node) HasOutputLink(link LinkID) bool {
	for _, out := range n.Outputs {
		if slices.Contains(out.Links, link) {
			return true
		}
	}
	return false
}

// Feeds reports whether some input of dst is connected to an output of n.
func (n *Node) Feeds(dst *Node) bool {
	for _, in := range dst.Inputs {
		if in.Link != nil && n.HasOutputLink(*in.Link) {
			return true
		}
	}
	return false
}

// IDs extracts node IDs in order.
func IDs(nodes []*Node) []ID {
	ids := make([]ID, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
