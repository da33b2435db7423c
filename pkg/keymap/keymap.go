// Package keymap resolves keyboard chords into editor actions.
//
// The history chords follow the usual desktop conventions on every
// platform: Ctrl or Cmd with Z undoes, Ctrl or Cmd with Y (or with
// Shift+Z) redoes. Plain keys trigger layout operations in the terminal
// editor.
package keymap

import (
	"strings"

	"github.com/matzehuels/nodedesign/pkg/layout"
)

// Action is what a chord asks the editor to do. Layout actions carry the
// operation name; see Action.Operation.
type Action string

const (
	Undo Action = "undo"
	Redo Action = "redo"
)

// Operation returns the layout operation bound to the action, if any.
func (a Action) Operation() (layout.Operation, bool) {
	if a == Undo || a == Redo || a == "" {
		return "", false
	}
	return layout.Operation(a), true
}

// Chord is a key with its modifier state. Key is the character produced
// by the key press, so Shift+w arrives as "W".
type Chord struct {
	Key   string
	Ctrl  bool
	Meta  bool
	Shift bool
	Alt   bool
}

// bindings maps unmodified keys to layout operations.
var bindings = map[string]layout.Operation{
	"h": layout.OpAlignLeft,
	"l": layout.OpAlignRight,
	"k": layout.OpAlignTop,
	"j": layout.OpAlignBottom,
	"c": layout.OpAlignCenterH,
	"v": layout.OpAlignCenterV,
	"W": layout.OpEqualWidth,
	"H": layout.OpEqualHeight,
	"d": layout.OpDistributeX,
	"D": layout.OpDistributeY,
	"s": layout.OpSmartAlign,
	"t": layout.OpTreeView,
}

// Resolve returns the action bound to c.
func Resolve(c Chord) (Action, bool) {
	if c.Ctrl || c.Meta {
		switch {
		case strings.EqualFold(c.Key, "y"):
			return Redo, true
		case c.Key == "Z", c.Shift && strings.EqualFold(c.Key, "z"):
			return Redo, true
		case c.Key == "z":
			return Undo, true
		}
		return "", false
	}
	if c.Alt {
		return "", false
	}
	if op, ok := bindings[c.Key]; ok {
		return Action(op), true
	}
	return "", false
}

// Parse reads a chord written as "ctrl+shift+z", "cmd+y" or "W".
// Modifier names are case-insensitive; the key keeps its case.
func Parse(s string) (Chord, bool) {
	parts := strings.Split(s, "+")
	// "ctrl++" names the plus key.
	if strings.HasSuffix(s, "++") {
		parts = append(parts[:len(parts)-2], "+")
	}
	var c Chord
	for _, mod := range parts[:len(parts)-1] {
		switch strings.ToLower(mod) {
		case "ctrl", "control":
			c.Ctrl = true
		case "cmd", "meta", "super":
			c.Meta = true
		case "shift":
			c.Shift = true
		case "alt", "option":
			c.Alt = true
		default:
			return Chord{}, false
		}
	}
	c.Key = parts[len(parts)-1]
	return c, c.Key != ""
}

// Binding describes one key binding for help screens.
type Binding struct {
	Keys   string
	Action Action
}

// Help lists every binding in display order.
func Help() []Binding {
	help := []Binding{
		{Keys: "ctrl+z", Action: Undo},
		{Keys: "ctrl+y", Action: Redo},
	}
	for _, op := range layout.Operations() {
		for key, bound := range bindings {
			if bound == op {
				help = append(help, Binding{Keys: key, Action: Action(op)})
			}
		}
	}
	return help
}
