package layout

import (
	"github.com/matzehuels/nodedesign/pkg/history"
	"github.com/matzehuels/nodedesign/pkg/node"
)

var (
	_ history.Command = (*AlignCommand)(nil)
	_ history.Command = (*ResizeCommand)(nil)
	_ history.Command = (*DistributeCommand)(nil)
	_ history.Command = (*SmartAlignCommand)(nil)
	_ history.Command = (*TreeViewCommand)(nil)
	_ history.Command = (*ColorCommand)(nil)
)

// AlignCommand moves every node so one edge or centre lands on Target.
type AlignCommand struct {
	Op     Operation
	Axis   node.Axis
	Target float64

	nodes  []*node.Node
	before node.Snapshot
	place  func(n *node.Node, target float64) float64
}

func (c *AlignCommand) Name() string { return string(c.Op) }

func (c *AlignCommand) Redo() error {
	for _, n := range c.nodes {
		n.Pos[c.Axis] = c.place(n, c.Target)
	}
	return nil
}

func (c *AlignCommand) Undo() error {
	c.before.Restore(c.nodes)
	return nil
}

// ResizeCommand gives every node the same extent along Axis.
type ResizeCommand struct {
	Op   Operation
	Axis node.Axis
	Size float64

	nodes  []*node.Node
	before node.Snapshot
}

func (c *ResizeCommand) Name() string { return string(c.Op) }

func (c *ResizeCommand) Redo() error {
	for _, n := range c.nodes {
		n.Size[c.Axis] = c.Size
	}
	return nil
}

func (c *ResizeCommand) Undo() error {
	c.before.Restore(c.nodes)
	return nil
}

// DistributeCommand places nodes at precomputed coordinates along Axis.
// The other axis is never touched.
type DistributeCommand struct {
	Axis node.Axis
	Gap  float64

	order   []*node.Node
	targets map[node.ID]float64
	before  node.Snapshot
}

func (c *DistributeCommand) Name() string {
	if c.Axis == node.AxisY {
		return string(OpDistributeY)
	}
	return string(OpDistributeX)
}

// Order returns the nodes in the order they were laid out.
func (c *DistributeCommand) Order() []*node.Node { return c.order }

// Target returns the coordinate assigned to id.
func (c *DistributeCommand) Target(id node.ID) (float64, bool) {
	v, ok := c.targets[id]
	return v, ok
}

func (c *DistributeCommand) Redo() error {
	for _, n := range c.order {
		n.Pos[c.Axis] = c.targets[n.ID]
		c.before.RestoreSize(n)
	}
	return nil
}

func (c *DistributeCommand) Undo() error {
	c.before.Restore(c.order)
	return nil
}

// placement moves a set of nodes to fixed positions without resizing them.
type placement struct {
	nodes   []*node.Node
	targets map[node.ID]node.Vec2
	before  node.Snapshot
}

// Target returns the position assigned to id.
func (p *placement) Target(id node.ID) (node.Vec2, bool) {
	v, ok := p.targets[id]
	return v, ok
}

func (p *placement) Redo() error {
	for _, n := range p.nodes {
		if t, ok := p.targets[n.ID]; ok {
			n.Pos = t
		}
	}
	return nil
}

func (p *placement) Undo() error {
	p.before.Restore(p.nodes)
	return nil
}

// SmartAlignCommand places each topological level in its own column.
type SmartAlignCommand struct {
	placement
	Levels [][]*node.Node
}

func (c *SmartAlignCommand) Name() string { return string(OpSmartAlign) }

// TreeViewCommand arranges the nodes reachable from Root as a tree.
type TreeViewCommand struct {
	placement
	Root   *node.Node
	Levels [][]*node.Node
}

func (c *TreeViewCommand) Name() string { return string(OpTreeView) }

// ColorTarget selects which colour of a node a ColorCommand changes.
type ColorTarget int

const (
	TitleColor ColorTarget = iota
	BackgroundColor
)

func (t ColorTarget) String() string {
	if t == BackgroundColor {
		return "bgcolor"
	}
	return "color"
}

// ColorCommand paints every node with Color.
type ColorCommand struct {
	Field ColorTarget
	Color string

	nodes  []*node.Node
	before map[node.ID]string
}

func (c *ColorCommand) Name() string { return "set-" + c.Field.String() }

func (c *ColorCommand) Redo() error {
	for _, n := range c.nodes {
		*c.field(n) = c.Color
	}
	return nil
}

func (c *ColorCommand) Undo() error {
	for _, n := range c.nodes {
		if old, ok := c.before[n.ID]; ok {
			*c.field(n) = old
		}
	}
	return nil
}

func (c *ColorCommand) field(n *node.Node) *string {
	if c.Field == BackgroundColor {
		return &n.BgColor
	}
	return &n.Color
}
