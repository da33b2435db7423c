package layout

import (
	"strings"

	"github.com/matzehuels/nodedesign/pkg/errors"
	"github.com/matzehuels/nodedesign/pkg/node"
)

// Operation names a layout operation.
type Operation string

const (
	OpAlignLeft    Operation = "align-left"
	OpAlignRight   Operation = "align-right"
	OpAlignTop     Operation = "align-top"
	OpAlignBottom  Operation = "align-bottom"
	OpAlignCenterH Operation = "align-center-h"
	OpAlignCenterV Operation = "align-center-v"
	OpEqualWidth   Operation = "equal-width"
	OpEqualHeight  Operation = "equal-height"
	OpDistributeX  Operation = "distribute-x"
	OpDistributeY  Operation = "distribute-y"
	OpSmartAlign   Operation = "smart-align"
	OpTreeView     Operation = "tree-view"
)

var operations = []Operation{
	OpAlignLeft, OpAlignRight, OpAlignTop, OpAlignBottom,
	OpAlignCenterH, OpAlignCenterV, OpEqualWidth, OpEqualHeight,
	OpDistributeX, OpDistributeY, OpSmartAlign, OpTreeView,
}

// Operations lists every operation in toolbar order.
func Operations() []Operation {
	out := make([]Operation, len(operations))
	copy(out, operations)
	return out
}

// aliases maps the camel-case toolbar identifiers onto operations.
var aliases = map[string]Operation{
	"alignleft":               OpAlignLeft,
	"alignright":              OpAlignRight,
	"aligntop":                OpAlignTop,
	"alignbottom":             OpAlignBottom,
	"aligncenterhorizontally": OpAlignCenterH,
	"aligncenterh":            OpAlignCenterH,
	"aligncentervertically":   OpAlignCenterV,
	"aligncenterv":            OpAlignCenterV,
	"equalwidth":              OpEqualWidth,
	"equalheight":             OpEqualHeight,
	"horizontaldistribution":  OpDistributeX,
	"verticaldistribution":    OpDistributeY,
	"smartalign":              OpSmartAlign,
	"treeview":                OpTreeView,
}

// ParseOperation resolves a name such as "align-left" or "alignLeft".
func ParseOperation(s string) (Operation, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, op := range operations {
		if string(op) == key {
			return op, nil
		}
	}
	if op, ok := aliases[strings.ReplaceAll(key, "-", "")]; ok {
		return op, nil
	}
	return "", errors.New(errors.ErrCodeInvalidOperation, "unknown operation %q", s)
}

// Title returns the toolbar label of the operation.
func (op Operation) Title() string {
	switch op {
	case OpAlignLeft:
		return "Align Left"
	case OpAlignRight:
		return "Align Right"
	case OpAlignTop:
		return "Align Top"
	case OpAlignBottom:
		return "Align Bottom"
	case OpAlignCenterH:
		return "Center Horizontally"
	case OpAlignCenterV:
		return "Center Vertically"
	case OpEqualWidth:
		return "Equal Width"
	case OpEqualHeight:
		return "Equal Height"
	case OpDistributeX:
		return "Distribute Horizontally"
	case OpDistributeY:
		return "Distribute Vertically"
	case OpSmartAlign:
		return "Smart Align"
	case OpTreeView:
		return "Tree View"
	default:
		return string(op)
	}
}

// MinNodes returns the smallest selection the operation accepts.
func (op Operation) MinNodes() int {
	switch op {
	case OpDistributeX, OpDistributeY, OpSmartAlign, OpTreeView:
		return 2
	default:
		return 1
	}
}

// distributionAxis returns the axis of a distribute operation.
func (op Operation) distributionAxis() (node.Axis, bool) {
	switch op {
	case OpDistributeX:
		return node.AxisX, true
	case OpDistributeY:
		return node.AxisY, true
	default:
		return 0, false
	}
}
