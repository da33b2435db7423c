package layout

import (
	"io"
	"math"
	"slices"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodedesign/pkg/errors"
	"github.com/matzehuels/nodedesign/pkg/history"
	"github.com/matzehuels/nodedesign/pkg/node"
)

func box(id node.ID, x, y, w, h float64) *node.Node {
	return &node.Node{ID: id, Pos: node.Vec2{x, y}, Size: node.Vec2{w, h}}
}

// wire links the first output of src to a new input of dst.
func wire(src, dst *node.Node, link node.LinkID) {
	if len(src.Outputs) == 0 {
		src.Outputs = []node.Output{{Name: "out"}}
	}
	src.Outputs[0].Links = append(src.Outputs[0].Links, link)
	dst.Inputs = append(dst.Inputs, node.Input{Name: "in", Link: node.Link(link)})
}

func geometry(nodes []*node.Node) map[node.ID][2]node.Vec2 {
	g := make(map[node.ID][2]node.Vec2, len(nodes))
	for _, n := range nodes {
		g[n.ID] = [2]node.Vec2{n.Pos, n.Size}
	}
	return g
}

func sameGeometry(t *testing.T, nodes []*node.Node, want map[node.ID][2]node.Vec2) {
	t.Helper()
	for _, n := range nodes {
		w := want[n.ID]
		if n.Pos != w[0] || n.Size != w[1] {
			t.Errorf("node %d = pos %v size %v, want pos %v size %v", n.ID, n.Pos, n.Size, w[0], w[1])
		}
	}
}

func TestAlignLeft(t *testing.T) {
	nodes := []*node.Node{box(1, 10, 0, 20, 10), box(2, 50, 5, 20, 10), box(3, 30, 9, 20, 10)}
	cmd, err := NewAlignCommand(OpAlignLeft, nodes)
	if err != nil {
		t.Fatalf("NewAlignCommand: %v", err)
	}
	cmd.Redo()
	for _, n := range nodes {
		if n.Pos.X() != 10 {
			t.Errorf("node %d x = %v, want 10", n.ID, n.Pos.X())
		}
	}
	if nodes[1].Pos.Y() != 5 {
		t.Errorf("y changed to %v, want 5", nodes[1].Pos.Y())
	}
}

func TestAlignRight(t *testing.T) {
	// Right edges 30, 90, 40.
	nodes := []*node.Node{box(1, 10, 0, 20, 10), box(2, 50, 0, 40, 10), box(3, 30, 0, 10, 10)}
	cmd, _ := NewAlignCommand(OpAlignRight, nodes)
	cmd.Redo()
	for _, n := range nodes {
		if want := 90 - n.Size.X(); n.Pos.X() != want {
			t.Errorf("node %d x = %v, want %v", n.ID, n.Pos.X(), want)
		}
	}
}

func TestAlignments(t *testing.T) {
	tests := []struct {
		op   Operation
		axis node.Axis
		want func(n *node.Node) float64
	}{
		{OpAlignTop, node.AxisY, func(*node.Node) float64 { return 5 }},
		{OpAlignBottom, node.AxisY, func(n *node.Node) float64 { return 60 - n.Size.Y() }},
		// Bounding box on y spans [5, 60].
		{OpAlignCenterH, node.AxisY, func(n *node.Node) float64 { return 32.5 - n.Size.Y()/2 }},
		// Bounding box on x spans [0, 120].
		{OpAlignCenterV, node.AxisX, func(n *node.Node) float64 { return 60 - n.Size.X()/2 }},
	}
	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			nodes := []*node.Node{box(1, 0, 5, 40, 20), box(2, 100, 30, 20, 30), box(3, 50, 20, 30, 10)}
			other := make([]float64, len(nodes))
			for i, n := range nodes {
				other[i] = n.Pos[tt.axis.Other()]
			}

			cmd, err := NewAlignCommand(tt.op, nodes)
			if err != nil {
				t.Fatalf("NewAlignCommand: %v", err)
			}
			cmd.Redo()
			for i, n := range nodes {
				if got, want := n.Pos[tt.axis], tt.want(n); got != want {
					t.Errorf("node %d %v = %v, want %v", n.ID, tt.axis, got, want)
				}
				if n.Pos[tt.axis.Other()] != other[i] {
					t.Errorf("node %d moved on %v", n.ID, tt.axis.Other())
				}
			}
		})
	}
}

func TestEqualWidth(t *testing.T) {
	nodes := []*node.Node{box(1, 0, 0, 20, 11), box(2, 5, 6, 50, 12), box(3, 7, 8, 30, 13)}
	before := geometry(nodes)

	cmd, _ := NewAlignCommand(OpEqualWidth, nodes)
	cmd.Redo()
	for _, n := range nodes {
		if n.Size.X() != 50 {
			t.Errorf("node %d width = %v, want 50", n.ID, n.Size.X())
		}
		if n.Size.Y() != before[n.ID][1].Y() || n.Pos != before[n.ID][0] {
			t.Errorf("node %d changed height or position", n.ID)
		}
	}
}

func TestEqualHeight(t *testing.T) {
	nodes := []*node.Node{box(1, 0, 0, 20, 11), box(2, 5, 6, 50, 42)}
	cmd, _ := NewAlignCommand(OpEqualHeight, nodes)
	cmd.Redo()
	for _, n := range nodes {
		if n.Size.Y() != 42 {
			t.Errorf("node %d height = %v, want 42", n.ID, n.Size.Y())
		}
	}
}

func TestAlignSingleNode(t *testing.T) {
	n := box(1, 3, 4, 10, 10)
	cmd, err := NewAlignCommand(OpAlignRight, []*node.Node{n})
	if err != nil {
		t.Fatalf("NewAlignCommand: %v", err)
	}
	cmd.Redo()
	if n.Pos != (node.Vec2{3, 4}) {
		t.Errorf("pos = %v, want [3 4]", n.Pos)
	}
}

func TestAlignEmptySelection(t *testing.T) {
	_, err := NewAlignCommand(OpAlignLeft, nil)
	if !errors.Is(err, errors.ErrCodeInsufficientSelection) {
		t.Errorf("err = %v, want INSUFFICIENT_SELECTION", err)
	}
	_, err = NewAlignCommand(OpSmartAlign, []*node.Node{box(1, 0, 0, 1, 1)})
	if !errors.Is(err, errors.ErrCodeInvalidOperation) {
		t.Errorf("err = %v, want INVALID_OPERATION", err)
	}
}

func TestDistributeFallbackOrder(t *testing.T) {
	// Three unlinked nodes of width 20 spanning exactly [0, 100].
	nodes := []*node.Node{box(1, 80, 7, 20, 10), box(2, 0, 8, 20, 10), box(3, 10, 9, 20, 10)}
	cmd, err := NewDistributeCommand(node.AxisX, nodes)
	if err != nil {
		t.Fatalf("NewDistributeCommand: %v", err)
	}
	if cmd.Gap != 20 {
		t.Errorf("Gap = %v, want 20", cmd.Gap)
	}
	cmd.Redo()

	want := map[node.ID]float64{2: 0, 3: 40, 1: 80}
	for _, n := range nodes {
		if n.Pos.X() != want[n.ID] {
			t.Errorf("node %d x = %v, want %v", n.ID, n.Pos.X(), want[n.ID])
		}
	}
	if nodes[0].Pos.Y() != 7 || nodes[1].Pos.Y() != 8 || nodes[2].Pos.Y() != 9 {
		t.Error("distribute along x moved nodes along y")
	}
}

func TestDistributeFlowOrder(t *testing.T) {
	// a -> b -> c, laid out right to left on the canvas.
	a, b, c := box(1, 200, 0, 20, 10), box(2, 100, 0, 20, 10), box(3, 0, 0, 20, 10)
	wire(a, b, 1)
	wire(b, c, 2)

	cmd, _ := NewDistributeCommand(node.AxisX, []*node.Node{c, b, a})
	if got := node.IDs(cmd.Order()); !slices.Equal(got, []node.ID{1, 2, 3}) {
		t.Fatalf("Order() = %v, want [1 2 3]", got)
	}
	cmd.Redo()
	// span 220, occupied 60, gap 80.
	if a.Pos.X() != 0 || b.Pos.X() != 100 || c.Pos.X() != 200 {
		t.Errorf("x = %v %v %v, want 0 100 200", a.Pos.X(), b.Pos.X(), c.Pos.X())
	}
}

func TestDistributeCycleFallsBackToPosition(t *testing.T) {
	a, b := box(1, 50, 0, 10, 10), box(2, 0, 0, 10, 10)
	wire(a, b, 1)
	wire(b, a, 2)

	cmd, err := NewDistributeCommand(node.AxisY, []*node.Node{a, b})
	if err != nil {
		t.Fatalf("NewDistributeCommand: %v", err)
	}
	if got := node.IDs(cmd.Order()); !slices.Equal(got, []node.ID{1, 2}) {
		t.Errorf("Order() = %v, want [1 2]", got)
	}
}

func TestDistributeClampsGap(t *testing.T) {
	// Overlapping nodes: span 30, occupied 60.
	nodes := []*node.Node{box(1, 0, 0, 20, 5), box(2, 5, 0, 20, 5), box(3, 10, 0, 20, 5)}
	cmd, _ := NewDistributeCommand(node.AxisX, nodes)
	if cmd.Gap != 0 {
		t.Errorf("Gap = %v, want 0", cmd.Gap)
	}
	cmd.Redo()
	if nodes[2].Pos.X() != 40 {
		t.Errorf("last x = %v, want 40", nodes[2].Pos.X())
	}
}

func TestDistributeInsufficientSelection(t *testing.T) {
	_, err := NewDistributeCommand(node.AxisX, []*node.Node{box(1, 0, 0, 1, 1)})
	if !errors.Is(err, errors.ErrCodeInsufficientSelection) {
		t.Errorf("err = %v, want INSUFFICIENT_SELECTION", err)
	}
	_, err = NewDistributeCommand(node.Axis(5), []*node.Node{box(1, 0, 0, 1, 1), box(2, 0, 0, 1, 1)})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestSmartAlign(t *testing.T) {
	a := box(1, 10, 100, 100, 50)
	b := box(2, 400, 300, 120, 50)
	c := box(3, 300, 0, 80, 50)
	wire(a, b, 1)
	wire(a, c, 2)

	cmd, err := NewSmartAlignCommand([]*node.Node{a, b, c}, DefaultSpacingFactor)
	if err != nil {
		t.Fatalf("NewSmartAlignCommand: %v", err)
	}
	cmd.Redo()

	if a.Pos != (node.Vec2{10, 100}) {
		t.Errorf("anchor moved to %v, want [10 100]", a.Pos)
	}
	// Column of a is 100 wide; horizontal gap is 120 × 1.5.
	if b.Pos.X() != 290 || c.Pos.X() != 290 {
		t.Errorf("level 1 x = %v, %v, want 290", b.Pos.X(), c.Pos.X())
	}
	// Level 1 is sorted by y: c above b, separated by 50 × 1.5.
	// Tallest column is 175, a's column is 50, so rootY = 100 − 62.5.
	if c.Pos.Y() != 37.5 || b.Pos.Y() != 162.5 {
		t.Errorf("level 1 y = c %v, b %v, want 37.5, 162.5", c.Pos.Y(), b.Pos.Y())
	}
	if len(cmd.Levels) != 2 || !slices.Equal(node.IDs(cmd.Levels[1]), []node.ID{3, 2}) {
		t.Errorf("Levels = %v", cmd.Levels)
	}
}

func TestSmartAlignColumnGap(t *testing.T) {
	a := box(1, 0, 0, 100, 50)
	b := box(2, 0, 0, 120, 50)
	wire(a, b, 1)

	cmd, err := NewSmartAlignCommand([]*node.Node{a, b}, DefaultSpacingFactor)
	if err != nil {
		t.Fatalf("NewSmartAlignCommand: %v", err)
	}
	cmd.Redo()
	if b.Pos.X() != 280 {
		t.Errorf("b.x = %v, want 280", b.Pos.X())
	}
}

func TestSmartAlignRejects(t *testing.T) {
	a, b := box(1, 0, 0, 10, 10), box(2, 0, 0, 10, 10)
	before := geometry([]*node.Node{a, b})

	_, err := NewSmartAlignCommand([]*node.Node{a}, DefaultSpacingFactor)
	if !errors.Is(err, errors.ErrCodeInsufficientSelection) {
		t.Errorf("single node err = %v, want INSUFFICIENT_SELECTION", err)
	}

	wire(a, b, 1)
	wire(b, a, 2)
	_, err = NewSmartAlignCommand([]*node.Node{a, b}, DefaultSpacingFactor)
	if !errors.Is(err, errors.ErrCodeCycleOrDisconnected) {
		t.Errorf("cycle err = %v, want CYCLE_OR_DISCONNECTED", err)
	}
	sameGeometry(t, []*node.Node{a, b}, before)
}

func TestTreeView(t *testing.T) {
	root := box(1, 100, 50, 40, 20)
	left := box(2, 0, 0, 40, 20)
	right := box(3, 0, 0, 40, 20)
	leaf := box(4, 0, 0, 40, 20)
	stray := box(5, 7, 7, 10, 10)
	wire(root, left, 1)
	wire(root, right, 2)
	wire(right, leaf, 3)

	cmd, err := NewTreeViewCommand([]*node.Node{left, root, stray, right, leaf}, DefaultTreeFactor)
	if err != nil {
		t.Fatalf("NewTreeViewCommand: %v", err)
	}
	if cmd.Root != root {
		t.Fatalf("Root = %d, want 1", cmd.Root.ID)
	}
	cmd.Redo()

	// h spacing 60, v spacing 30.
	tests := []struct {
		n    *node.Node
		want node.Vec2
	}{
		{root, node.Vec2{100, 50}},
		{left, node.Vec2{70, 80}},
		{right, node.Vec2{130, 80}},
		{leaf, node.Vec2{100, 110}},
		{stray, node.Vec2{7, 7}},
	}
	for _, tt := range tests {
		if tt.n.Pos != tt.want {
			t.Errorf("node %d pos = %v, want %v", tt.n.ID, tt.n.Pos, tt.want)
		}
	}
}

func TestTreeViewNoRoot(t *testing.T) {
	a, b := box(1, 1, 2, 10, 10), box(2, 3, 4, 10, 10)
	wire(a, b, 1)
	wire(b, a, 2)
	nodes := []*node.Node{a, b}
	before := geometry(nodes)

	_, err := NewTreeViewCommand(nodes, DefaultTreeFactor)
	if !errors.Is(err, errors.ErrCodeNoRoot) {
		t.Errorf("err = %v, want NO_ROOT", err)
	}
	sameGeometry(t, nodes, before)
}

func TestColorCommand(t *testing.T) {
	a := &node.Node{ID: 1, Color: "#111", BgColor: "#222"}
	b := &node.Node{ID: 2}
	cmd, err := NewColorCommand(BackgroundColor, "#abc", []*node.Node{a, b})
	if err != nil {
		t.Fatalf("NewColorCommand: %v", err)
	}
	if cmd.Name() != "set-bgcolor" {
		t.Errorf("Name() = %q, want set-bgcolor", cmd.Name())
	}
	cmd.Redo()
	if a.BgColor != "#abc" || b.BgColor != "#abc" || a.Color != "#111" {
		t.Errorf("after Redo: a=%q/%q b=%q", a.Color, a.BgColor, b.BgColor)
	}
	cmd.Undo()
	if a.BgColor != "#222" || b.BgColor != "" {
		t.Errorf("after Undo: a=%q b=%q", a.BgColor, b.BgColor)
	}
}

// TestRoundTripIsBitExact checks that Redo followed by Undo restores every
// node exactly, for every operation, using values that do not survive
// arithmetic round trips.
func TestRoundTripIsBitExact(t *testing.T) {
	build := func() []*node.Node {
		a := box(1, 0.1, 0.7, 33.3, 17.9)
		b := box(2, 101.37, -3.3, 12.01, 44.4)
		c := box(3, 57.77, 23.1, 81.9, 5.5)
		wire(a, b, 1)
		wire(a, c, 2)
		return []*node.Node{a, b, c}
	}

	for _, op := range Operations() {
		t.Run(string(op), func(t *testing.T) {
			nodes := build()
			before := geometry(nodes)

			var cmd history.Command
			var err error
			switch op {
			case OpDistributeX:
				cmd, err = NewDistributeCommand(node.AxisX, nodes)
			case OpDistributeY:
				cmd, err = NewDistributeCommand(node.AxisY, nodes)
			case OpSmartAlign:
				cmd, err = NewSmartAlignCommand(nodes, DefaultSpacingFactor)
			case OpTreeView:
				cmd, err = NewTreeViewCommand(nodes, DefaultTreeFactor)
			default:
				cmd, err = NewAlignCommand(op, nodes)
			}
			if err != nil {
				t.Fatalf("plan %s: %v", op, err)
			}

			cmd.Redo()
			cmd.Undo()
			sameGeometry(t, nodes, before)

			// Undo, Redo, Undo is stable too.
			cmd.Redo()
			cmd.Undo()
			sameGeometry(t, nodes, before)
		})
	}
}

func TestRedoIsRepeatable(t *testing.T) {
	nodes := []*node.Node{box(1, 0, 0, 10, 10), box(2, 30, 0, 10, 10), box(3, 90, 0, 10, 10)}
	cmd, _ := NewDistributeCommand(node.AxisX, nodes)
	cmd.Redo()
	first := geometry(nodes)
	cmd.Undo()
	cmd.Redo()
	sameGeometry(t, nodes, first)
}

func TestEngine(t *testing.T) {
	nodes := []*node.Node{box(1, 10, 0, 20, 10), box(2, 50, 0, 20, 10), box(3, 30, 0, 20, 10)}
	refreshes := 0
	logger := log.New(io.Discard)
	h := history.New(0, node.RefresherFunc(func() error { refreshes++; return nil }), logger)
	eng := NewEngine(node.StaticSelection(nodes), h, Config{}, logger)

	if eng.Config() != DefaultConfig() {
		t.Errorf("Config() = %+v, want defaults", eng.Config())
	}
	if !eng.Apply(OpAlignLeft) {
		t.Fatalf("Apply(align-left) = false: %v", eng.LastError())
	}
	if eng.LastError() != nil {
		t.Errorf("LastError() = %v, want nil", eng.LastError())
	}
	if !eng.CanUndo() || eng.CanRedo() {
		t.Errorf("CanUndo/CanRedo = %v/%v", eng.CanUndo(), eng.CanRedo())
	}
	if !eng.Undo() {
		t.Fatal("Undo() = false")
	}
	if nodes[1].Pos.X() != 50 {
		t.Errorf("x after undo = %v, want 50", nodes[1].Pos.X())
	}
	if !eng.Redo() {
		t.Fatal("Redo() = false")
	}
	if nodes[1].Pos.X() != 10 {
		t.Errorf("x after redo = %v, want 10", nodes[1].Pos.X())
	}
	if refreshes != 3 {
		t.Errorf("refreshes = %d, want 3", refreshes)
	}
}

func TestEngineRejections(t *testing.T) {
	logger := log.New(io.Discard)
	single := node.StaticSelection{box(1, 0, 0, 10, 10)}

	tests := []struct {
		name string
		sel  node.StaticSelection
		run  func(*Engine) bool
		code errors.Code
	}{
		{"EmptyAlign", nil, func(e *Engine) bool { return e.Align(OpAlignTop) }, errors.ErrCodeInsufficientSelection},
		{"SingleDistribute", single, func(e *Engine) bool { return e.Distribute(node.AxisX) }, errors.ErrCodeInsufficientSelection},
		{"SingleSmartAlign", single, func(e *Engine) bool { return e.SmartAlign() }, errors.ErrCodeInsufficientSelection},
		{"SingleTreeView", single, func(e *Engine) bool { return e.TreeView() }, errors.ErrCodeInsufficientSelection},
		{"EmptyColor", nil, func(e *Engine) bool { return e.SetColor("#fff") }, errors.ErrCodeInsufficientSelection},
		{"UnknownOp", single, func(e *Engine) bool { return e.Apply("spin") }, errors.ErrCodeInvalidOperation},
		{"EmptyUndo", single, func(e *Engine) bool { return e.Undo() }, errors.ErrCodeEmptyHistory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := NewEngine(tt.sel, nil, DefaultConfig(), logger)
			if tt.run(eng) {
				t.Fatal("operation = true, want false")
			}
			if !errors.Is(eng.LastError(), tt.code) {
				t.Errorf("LastError() = %v, want %s", eng.LastError(), tt.code)
			}
			if eng.CanUndo() {
				t.Error("rejected operation reached the history")
			}
		})
	}
}

func TestEngineColors(t *testing.T) {
	n := &node.Node{ID: 1, Color: "#000"}
	eng := NewEngine(node.StaticSelection{n}, nil, DefaultConfig(), log.New(io.Discard))
	if !eng.SetColor("#f00") || n.Color != "#f00" {
		t.Fatalf("SetColor: color = %q", n.Color)
	}
	if !eng.SetBgColor("#0f0") || n.BgColor != "#0f0" {
		t.Fatalf("SetBgColor: bgcolor = %q", n.BgColor)
	}
	eng.Undo()
	eng.Undo()
	if n.Color != "#000" || n.BgColor != "" {
		t.Errorf("after undo: %q/%q", n.Color, n.BgColor)
	}
}

func TestEngineDistributeUsesFreshSelection(t *testing.T) {
	var sel []*node.Node
	eng := NewEngine(node.AccessorFunc(func() []*node.Node { return sel }), nil, DefaultConfig(), log.New(io.Discard))
	if eng.Distribute(node.AxisY) {
		t.Fatal("Distribute on empty selection = true")
	}
	sel = []*node.Node{box(1, 0, 0, 10, 10), box(2, 0, 90, 10, 10), box(3, 0, 10, 10, 10)}
	if !eng.Distribute(node.AxisY) {
		t.Fatalf("Distribute = false: %v", eng.LastError())
	}
	if y := sel[2].Pos.Y(); math.Abs(y-45) > 1e-9 {
		t.Errorf("middle y = %v, want 45", y)
	}
}

func TestParseOperation(t *testing.T) {
	tests := []struct {
		in   string
		want Operation
	}{
		{"align-left", OpAlignLeft},
		{"alignLeft", OpAlignLeft},
		{" Smart-Align ", OpSmartAlign},
		{"alignCenterHorizontally", OpAlignCenterH},
		{"verticalDistribution", OpDistributeY},
		{"treeView", OpTreeView},
	}
	for _, tt := range tests {
		got, err := ParseOperation(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseOperation(%q) = %q, %v, want %q", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseOperation("rotate"); !errors.Is(err, errors.ErrCodeInvalidOperation) {
		t.Errorf("ParseOperation(rotate) err = %v, want INVALID_OPERATION", err)
	}
}

func TestOperationMetadata(t *testing.T) {
	for _, op := range Operations() {
		if op.Title() == string(op) {
			t.Errorf("%s has no title", op)
		}
	}
	if OpTreeView.MinNodes() != 2 || OpAlignLeft.MinNodes() != 1 {
		t.Error("MinNodes mismatch")
	}
}
