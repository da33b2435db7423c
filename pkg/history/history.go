// Package history records layout commands on bounded undo and redo stacks.
//
// A [History] applies a [Command] with Execute, remembers it, and lets the
// caller walk back and forth with Undo and Redo. Every successful transition
// asks the host to redraw through a [node.Refresher]. Failures never escape:
// methods return false, log a warning and keep the stacks consistent, and the
// coded reason is available from [History.Err].
//
// History is not safe for concurrent use.
package history

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodedesign/pkg/errors"
	"github.com/matzehuels/nodedesign/pkg/node"
	"github.com/matzehuels/nodedesign/pkg/observability"
)

// DefaultCapacity bounds each stack when no capacity is configured.
const DefaultCapacity = 50

// Command is a reversible change to the host graph.
//
// Redo applies the change (it is also used for the first application) and
// Undo reverts it. Both must be repeatable: Undo, Redo, Undo must leave the
// graph exactly as the first Undo did.
type Command interface {
	Name() string
	Undo() error
	Redo() error
}

// History holds the undo and redo stacks.
type History struct {
	undo      []Command
	redo      []Command
	capacity  int
	refresher node.Refresher
	logger    *log.Logger
	err       error
}

// New creates a history holding at most capacity commands per stack.
// A non-positive capacity selects DefaultCapacity. A nil refresher is
// replaced by node.NopRefresher and a nil logger by log.Default().
func New(capacity int, refresher node.Refresher, logger *log.Logger) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if refresher == nil {
		refresher = node.NopRefresher{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &History{
		capacity:  capacity,
		refresher: refresher,
		logger:    logger,
	}
}

// Capacity returns the per-stack bound.
func (h *History) Capacity() int { return h.capacity }

// Execute applies cmd, records it for undo and drops the redo stack.
// It returns false, leaving both stacks untouched, when cmd is nil or
// fails to apply.
func (h *History) Execute(cmd Command) bool {
	h.err = nil
	if cmd == nil {
		return h.fail(errors.New(errors.ErrCodeInvalidCommand, "execute: nil command"))
	}
	if err := apply(cmd.Redo); err != nil {
		return h.fail(errors.Wrap(errors.ErrCodeInvalidCommand, err, "execute %s", cmd.Name()))
	}

	h.undo = h.push(h.undo, cmd)
	clear(h.redo)
	h.redo = h.redo[:0]
	observability.History().OnExecute(cmd.Name(), len(h.undo))
	h.logger.Debug("executed command", "command", cmd.Name(), "undo", len(h.undo))
	h.refresh()
	return true
}

// Undo reverts the most recent command and moves it to the redo stack.
func (h *History) Undo() bool {
	h.err = nil
	cmd, ok := h.peek(h.undo, "undo")
	if !ok {
		return false
	}
	if err := apply(cmd.Undo); err != nil {
		observability.History().OnUndo(cmd.Name(), err)
		return h.fail(errors.Wrap(errors.ErrCodeInvalidCommand, err, "undo %s", cmd.Name()))
	}

	h.undo = pop(h.undo)
	h.redo = h.push(h.redo, cmd)
	observability.History().OnUndo(cmd.Name(), nil)
	h.logger.Debug("undid command", "command", cmd.Name())
	h.refresh()
	return true
}

// Redo re-applies the most recently undone command.
func (h *History) Redo() bool {
	h.err = nil
	cmd, ok := h.peek(h.redo, "redo")
	if !ok {
		return false
	}
	if err := apply(cmd.Redo); err != nil {
		observability.History().OnRedo(cmd.Name(), err)
		return h.fail(errors.Wrap(errors.ErrCodeInvalidCommand, err, "redo %s", cmd.Name()))
	}

	h.redo = pop(h.redo)
	h.undo = h.push(h.undo, cmd)
	observability.History().OnRedo(cmd.Name(), nil)
	h.logger.Debug("redid command", "command", cmd.Name())
	h.refresh()
	return true
}

// CanUndo reports whether Undo has a command to revert.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether Redo has a command to re-apply.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Len returns the depth of the undo and redo stacks.
func (h *History) Len() (undo, redo int) { return len(h.undo), len(h.redo) }

// PeekUndo returns the name of the command Undo would revert.
func (h *History) PeekUndo() (string, bool) { return name(h.undo) }

// PeekRedo returns the name of the command Redo would re-apply.
func (h *History) PeekRedo() (string, bool) { return name(h.redo) }

// Clear drops both stacks.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
	h.err = nil
}

// Err returns the reason the last Execute, Undo or Redo returned false,
// or nil if it succeeded. A refresh failure is reported here even though
// the transition itself succeeded.
func (h *History) Err() error { return h.err }

func (h *History) push(stack []Command, cmd Command) []Command {
	stack = append(stack, cmd)
	if over := len(stack) - h.capacity; over > 0 {
		for _, evicted := range stack[:over] {
			observability.History().OnEvict(evicted.Name())
		}
		n := copy(stack, stack[over:])
		clear(stack[n:])
		stack = stack[:n]
	}
	return stack
}

// pop drops the top of stack and zeroes its slot so the command can be
// collected.
func pop(stack []Command) []Command {
	stack[len(stack)-1] = nil
	return stack[:len(stack)-1]
}

func (h *History) peek(stack []Command, op string) (Command, bool) {
	if len(stack) == 0 {
		h.err = errors.New(errors.ErrCodeEmptyHistory, "nothing to %s", op)
		return nil, false
	}
	cmd := stack[len(stack)-1]
	if cmd == nil {
		h.fail(errors.New(errors.ErrCodeInvalidCommand, "%s: invalid command on stack", op))
		return nil, false
	}
	return cmd, true
}

func (h *History) fail(err error) bool {
	h.err = err
	h.logger.Warn("command history", "err", err)
	return false
}

func (h *History) refresh() {
	err := apply(h.refresher.MarkDirty)
	if err == nil {
		return
	}
	h.err = errors.Wrap(errors.ErrCodeRefreshFailure, err, "mark canvas dirty")
	observability.History().OnRefreshError(err)
	h.logger.Warn("refresh failed", "err", err)
}

// apply calls fn and turns a panic into an error.
func apply(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.FromPanic(errors.ErrCodeInternal, r)
		}
	}()
	return fn()
}

func name(stack []Command) (string, bool) {
	if len(stack) == 0 || stack[len(stack)-1] == nil {
		return "", false
	}
	return stack[len(stack)-1].Name(), true
}
