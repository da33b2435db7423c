package layout

import (
	"github.com/matzehuels/nodedesign/pkg/errors"
	"github.com/matzehuels/nodedesign/pkg/node"
)

// NewTreeViewCommand plans a top-down tree under the root of the selection.
//
// The root is the first node, in selection order, none of whose inputs is
// linked. Its descendants are discovered breadth first: a node is a child of
// the first visited node that feeds it. Each depth is a row centred under
// the root, spaced by factor times the largest node size of the selection.
// Nodes the walk never reaches keep their positions.
func NewTreeViewCommand(nodes []*node.Node, factor float64) (*TreeViewCommand, error) {
	if len(nodes) < 2 {
		return nil, errors.New(errors.ErrCodeInsufficientSelection,
			"tree view needs at least 2 nodes, got %d", len(nodes))
	}

	var root *node.Node
	for _, n := range nodes {
		if n.Unfed() {
			root = n
			break
		}
	}
	if root == nil {
		return nil, errors.New(errors.ErrCodeNoRoot, "tree view: every selected node has a linked input")
	}

	before := node.Capture(nodes)
	levels := treeLevels(root, nodes)
	hSpacing := factor * node.MaxSize(nodes, node.AxisX)
	vSpacing := factor * node.MaxSize(nodes, node.AxisY)

	targets := make(map[node.ID]node.Vec2)
	rootX, rootY := root.Pos.X(), root.Pos.Y()
	for depth, level := range levels {
		mid := float64(len(level)-1) / 2
		for i, n := range level {
			targets[n.ID] = node.Vec2{
				rootX + (float64(i)-mid)*hSpacing,
				rootY + float64(depth)*vSpacing,
			}
		}
	}

	return &TreeViewCommand{
		placement: placement{nodes: nodes, targets: targets, before: before},
		Root:      root,
		Levels:    levels,
	}, nil
}

// treeLevels walks breadth first from root over the selection.
func treeLevels(root *node.Node, nodes []*node.Node) [][]*node.Node {
	visited := map[node.ID]bool{root.ID: true}
	levels := [][]*node.Node{{root}}
	for frontier := levels[0]; ; {
		var next []*node.Node
		for _, parent := range frontier {
			for _, n := range nodes {
				if !visited[n.ID] && parent.Feeds(n) {
					visited[n.ID] = true
					next = append(next, n)
				}
			}
		}
		if len(next) == 0 {
			return levels
		}
		levels = append(levels, next)
		frontier = next
	}
}
