package keymap

import (
	"testing"

	"github.com/matzehuels/nodedesign/pkg/layout"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		chord  Chord
		want   Action
		wantOK bool
	}{
		{"CtrlZ", Chord{Key: "z", Ctrl: true}, Undo, true},
		{"CmdZ", Chord{Key: "z", Meta: true}, Undo, true},
		{"CtrlY", Chord{Key: "y", Ctrl: true}, Redo, true},
		{"CmdY", Chord{Key: "y", Meta: true}, Redo, true},
		{"CtrlShiftZ", Chord{Key: "Z", Ctrl: true, Shift: true}, Redo, true},
		{"CmdShiftLowerZ", Chord{Key: "z", Meta: true, Shift: true}, Redo, true},
		{"PlainZ", Chord{Key: "z"}, "", false},
		{"CtrlX", Chord{Key: "x", Ctrl: true}, "", false},
		{"CtrlH", Chord{Key: "h", Ctrl: true}, "", false},
		{"AlignLeft", Chord{Key: "h"}, Action(layout.OpAlignLeft), true},
		{"EqualWidth", Chord{Key: "W", Shift: true}, Action(layout.OpEqualWidth), true},
		{"DistributeY", Chord{Key: "D"}, Action(layout.OpDistributeY), true},
		{"TreeView", Chord{Key: "t"}, Action(layout.OpTreeView), true},
		{"AltS", Chord{Key: "s", Alt: true}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.chord)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Resolve(%+v) = %q, %v, want %q, %v", tt.chord, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in     string
		want   Chord
		wantOK bool
	}{
		{"ctrl+z", Chord{Key: "z", Ctrl: true}, true},
		{"Cmd+Shift+Z", Chord{Key: "Z", Meta: true, Shift: true}, true},
		{"W", Chord{Key: "W"}, true},
		{"ctrl++", Chord{Key: "+", Ctrl: true}, true},
		{"hyper+z", Chord{}, false},
		{"ctrl+", Chord{Ctrl: true}, false},
	}
	for _, tt := range tests {
		got, ok := Parse(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Parse(%q) = %+v, %v, want %+v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestActionOperation(t *testing.T) {
	if _, ok := Undo.Operation(); ok {
		t.Error("Undo.Operation() ok = true")
	}
	op, ok := Action(layout.OpSmartAlign).Operation()
	if !ok || op != layout.OpSmartAlign {
		t.Errorf("Operation() = %q, %v, want smart-align, true", op, ok)
	}
}

func TestHelpCoversEveryOperation(t *testing.T) {
	bound := make(map[Action]bool)
	for _, b := range Help() {
		bound[b.Action] = true
	}
	for _, op := range layout.Operations() {
		if !bound[Action(op)] {
			t.Errorf("no key bound to %s", op)
		}
	}
	if !bound[Undo] || !bound[Redo] {
		t.Error("history actions missing from help")
	}
}
