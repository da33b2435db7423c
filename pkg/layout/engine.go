package layout

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodedesign/pkg/errors"
	"github.com/matzehuels/nodedesign/pkg/history"
	"github.com/matzehuels/nodedesign/pkg/node"
	"github.com/matzehuels/nodedesign/pkg/observability"
)

// Engine applies layout operations to the host's current selection and
// records them in a command history.
//
// Every method reads the selection afresh, so the engine never holds on to
// nodes between calls. Methods return false when nothing was applied; the
// reason is available from LastError. Engine is not safe for concurrent use.
type Engine struct {
	nodes   node.Accessor
	history *history.History
	cfg     Config
	logger  *log.Logger
	err     error
}

// NewEngine creates an engine over nodes. A nil history gets a fresh one
// with the default capacity and no refresher; a nil logger selects
// log.Default(). Zero spacing factors fall back to their defaults.
func NewEngine(nodes node.Accessor, h *history.History, cfg Config, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	if h == nil {
		h = history.New(history.DefaultCapacity, nil, logger)
	}
	return &Engine{
		nodes:   nodes,
		history: h,
		cfg:     cfg.withDefaults(),
		logger:  logger,
	}
}

// Config returns the effective spacing configuration.
func (e *Engine) Config() Config { return e.cfg }

// History returns the command history the engine records into.
func (e *Engine) History() *history.History { return e.history }

// LastError returns why the last operation returned false, or nil.
func (e *Engine) LastError() error { return e.err }

// Apply runs any operation by name.
func (e *Engine) Apply(op Operation) bool {
	switch {
	case IsAlignment(op):
		return e.Align(op)
	case op == OpSmartAlign:
		return e.SmartAlign()
	case op == OpTreeView:
		return e.TreeView()
	}
	if axis, ok := op.distributionAxis(); ok {
		return e.Distribute(axis)
	}
	return e.reject(string(op), 0, errors.New(errors.ErrCodeInvalidOperation, "unknown operation %q", op))
}

// Align applies an alignment or equal-size operation.
func (e *Engine) Align(op Operation) bool {
	nodes := e.nodes.SelectedNodes()
	return e.run(string(op), nodes, func() (history.Command, error) {
		return NewAlignCommand(op, nodes)
	})
}

// Distribute spreads the selection evenly along axis.
func (e *Engine) Distribute(axis node.Axis) bool {
	op := OpDistributeX
	if axis == node.AxisY {
		op = OpDistributeY
	}
	nodes := e.nodes.SelectedNodes()
	return e.run(string(op), nodes, func() (history.Command, error) {
		return NewDistributeCommand(axis, nodes)
	})
}

// SmartAlign lays the selection out in one column per topological level.
func (e *Engine) SmartAlign() bool {
	nodes := e.nodes.SelectedNodes()
	return e.run(string(OpSmartAlign), nodes, func() (history.Command, error) {
		return NewSmartAlignCommand(nodes, e.cfg.SpacingFactor)
	})
}

// TreeView lays the selection out as a tree under its first unfed node.
func (e *Engine) TreeView() bool {
	nodes := e.nodes.SelectedNodes()
	return e.run(string(OpTreeView), nodes, func() (history.Command, error) {
		return NewTreeViewCommand(nodes, e.cfg.TreeFactor)
	})
}

// SetColor sets the title colour of the selection.
func (e *Engine) SetColor(color string) bool {
	return e.paint(TitleColor, color)
}

// SetBgColor sets the background colour of the selection.
func (e *Engine) SetBgColor(color string) bool {
	return e.paint(BackgroundColor, color)
}

func (e *Engine) paint(field ColorTarget, color string) bool {
	nodes := e.nodes.SelectedNodes()
	return e.run("set-"+field.String(), nodes, func() (history.Command, error) {
		return NewColorCommand(field, color, nodes)
	})
}

// Undo reverts the most recent command.
func (e *Engine) Undo() bool {
	ok := e.history.Undo()
	e.err = e.history.Err()
	return ok
}

// Redo re-applies the most recently undone command.
func (e *Engine) Redo() bool {
	ok := e.history.Redo()
	e.err = e.history.Err()
	return ok
}

// CanUndo reports whether Undo has something to revert.
func (e *Engine) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports whether Redo has something to re-apply.
func (e *Engine) CanRedo() bool { return e.history.CanRedo() }

func (e *Engine) run(op string, nodes []*node.Node, plan func() (history.Command, error)) bool {
	start := time.Now()
	observability.Layout().OnLayoutStart(op, len(nodes))

	cmd, err := plan()
	if err != nil {
		observability.Layout().OnLayoutComplete(op, len(nodes), time.Since(start), false)
		return e.reject(op, len(nodes), err)
	}

	ok := e.history.Execute(cmd)
	e.err = e.history.Err()
	observability.Layout().OnLayoutComplete(op, len(nodes), time.Since(start), ok)
	if ok {
		e.logger.Debug("applied layout", "op", op, "nodes", len(nodes), "duration", time.Since(start))
	}
	return ok
}

func (e *Engine) reject(op string, count int, err error) bool {
	e.err = err
	e.logger.Warn("layout skipped", "op", op, "nodes", count, "reason", errors.UserMessage(err))
	return false
}
