package layout

import (
	"github.com/matzehuels/nodedesign/pkg/errors"
	"github.com/matzehuels/nodedesign/pkg/node"
)

// NewColorCommand plans painting every node's title or background colour.
func NewColorCommand(field ColorTarget, color string, nodes []*node.Node) (*ColorCommand, error) {
	if len(nodes) == 0 {
		return nil, errors.New(errors.ErrCodeInsufficientSelection, "set %s: no nodes selected", field)
	}
	before := make(map[node.ID]string, len(nodes))
	for _, n := range nodes {
		if field == BackgroundColor {
			before[n.ID] = n.BgColor
		} else {
			before[n.ID] = n.Color
		}
	}
	return &ColorCommand{Field: field, Color: color, nodes: nodes, before: before}, nil
}
