// Package panel models the floating toolbar that hosts the layout actions.
//
// The toolbar is either permanent (always shown) or on-selection (shown
// next to the pointer when at least two nodes are selected). It can be
// dragged with the primary button and keeps inside the viewport when
// positioned programmatically. Position and mode are handed to a
// persistence callback whenever a drag ends or the mode flips.
package panel

import "math"

// Defaults for a toolbar without saved state.
const (
	DefaultX = 20
	DefaultY = 20

	// ClickOffset lifts an on-selection toolbar above the pointer.
	ClickOffset = 40

	// MinSelection is the selection size that reveals an on-selection toolbar.
	MinSelection = 2

	// PrimaryButton is the only button that drags the toolbar.
	PrimaryButton = 0
)

// State is the persisted part of the toolbar.
type State struct {
	X, Y      float64
	Permanent bool
}

// DefaultState is a permanent toolbar in the top-left corner.
func DefaultState() State {
	return State{X: DefaultX, Y: DefaultY, Permanent: true}
}

// Panel is the toolbar state machine. The zero value is not usable; call New.
type Panel struct {
	X, Y      float64
	Permanent bool
	Visible   bool

	// Width and Height are the toolbar's own extent; ViewWidth and
	// ViewHeight bound SetPosition. A zero view dimension disables the
	// upper bound on that axis.
	Width, Height         float64
	ViewWidth, ViewHeight float64

	// Persist receives the state after a drag or mode change.
	Persist func(State) error

	dragging     bool
	grabX, grabY float64
}

// New restores a toolbar. A permanent toolbar starts visible.
func New(s State) *Panel {
	return &Panel{
		X:         s.X,
		Y:         s.Y,
		Permanent: s.Permanent,
		Visible:   s.Permanent,
	}
}

// State returns the persisted part of the toolbar.
func (p *Panel) State() State {
	return State{X: p.X, Y: p.Y, Permanent: p.Permanent}
}

// Dragging reports whether a drag is in progress.
func (p *Panel) Dragging() bool { return p.dragging }

// Show makes the toolbar visible.
func (p *Panel) Show() { p.Visible = true }

// Hide makes the toolbar invisible.
func (p *Panel) Hide() { p.Visible = false }

// ToggleMode flips between permanent and on-selection. Leaving permanent
// mode hides the toolbar until the next qualifying click.
func (p *Panel) ToggleMode() error {
	p.Permanent = !p.Permanent
	if p.Permanent {
		p.Show()
	} else {
		p.Hide()
	}
	return p.persist()
}

// OnCanvasClick reacts to a click on the canvas at (x, y) with selected
// nodes selected. Permanent toolbars ignore clicks.
func (p *Panel) OnCanvasClick(selected int, x, y float64) {
	if p.Permanent {
		return
	}
	if selected < MinSelection {
		p.Hide()
		return
	}
	p.Show()
	p.SetPosition(x, math.Max(y-ClickOffset, 0))
}

// SetPosition moves the toolbar, keeping it inside the viewport.
func (p *Panel) SetPosition(x, y float64) {
	p.X = clamp(x, p.Width, p.ViewWidth)
	p.Y = clamp(y, p.Height, p.ViewHeight)
}

// DragStart begins a drag at pointer (x, y). Only the primary button
// drags; the result reports whether a drag started.
func (p *Panel) DragStart(button int, x, y float64) bool {
	if button != PrimaryButton {
		return false
	}
	p.dragging = true
	p.grabX = x - p.X
	p.grabY = y - p.Y
	return true
}

// DragMove follows the pointer while dragging. The toolbar keeps its grab
// point under the pointer and is not clamped.
func (p *Panel) DragMove(x, y float64) bool {
	if !p.dragging {
		return false
	}
	p.X = x - p.grabX
	p.Y = y - p.grabY
	return true
}

// DragEnd finishes a drag and persists the new position. Releasing another
// button, or releasing while not dragging, does nothing.
func (p *Panel) DragEnd(button int) error {
	if !p.dragging || button != PrimaryButton {
		return nil
	}
	p.dragging = false
	return p.persist()
}

func (p *Panel) persist() error {
	if p.Persist == nil {
		return nil
	}
	return p.Persist(p.State())
}

func clamp(v, extent, limit float64) float64 {
	if limit > 0 && v+extent > limit {
		v = limit - extent
	}
	return math.Max(v, 0)
}
