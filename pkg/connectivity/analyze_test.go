package connectivity

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/matzehuels/nodedesign/pkg/node"
)

// wire connects an output of src to a new input on dst using link.
func wire(src, dst *node.Node, link node.LinkID) {
	if len(src.Outputs) == 0 {
		src.Outputs = []node.Output{{Name: "out"}}
	}
	src.Outputs[0].Links = append(src.Outputs[0].Links, link)
	dst.Inputs = append(dst.Inputs, node.Input{Name: "in", Link: node.Link(link)})
}

func levelIDs(levels [][]*node.Node) [][]node.ID {
	if levels == nil {
		return nil
	}
	out := make([][]node.ID, len(levels))
	for i, l := range levels {
		out[i] = node.IDs(l)
	}
	return out
}

func equalLevels(a, b [][]node.ID) bool {
	return slices.EqualFunc(a, b, func(x, y []node.ID) bool { return slices.Equal(x, y) })
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name  string
		build func() []*node.Node
		want  [][]node.ID
	}{
		{
			name: "Chain",
			build: func() []*node.Node {
				a, b, c := &node.Node{ID: 1}, &node.Node{ID: 2}, &node.Node{ID: 3}
				wire(a, b, 10)
				wire(b, c, 11)
				return []*node.Node{a, b, c}
			},
			want: [][]node.ID{{1}, {2}, {3}},
		},
		{
			name: "ChainReversedInput",
			build: func() []*node.Node {
				a, b, c := &node.Node{ID: 1}, &node.Node{ID: 2}, &node.Node{ID: 3}
				wire(a, b, 10)
				wire(b, c, 11)
				return []*node.Node{c, b, a}
			},
			want: [][]node.ID{{1}, {2}, {3}},
		},
		{
			name: "Disconnected",
			build: func() []*node.Node {
				return []*node.Node{{ID: 1}, {ID: 2}}
			},
			want: [][]node.ID{{1, 2}},
		},
		{
			name: "Diamond",
			build: func() []*node.Node {
				a, b, c, d := &node.Node{ID: 1}, &node.Node{ID: 2}, &node.Node{ID: 3}, &node.Node{ID: 4}
				wire(a, b, 10)
				wire(a, c, 11)
				wire(b, d, 12)
				wire(c, d, 13)
				return []*node.Node{a, b, c, d}
			},
			want: [][]node.ID{{1}, {2, 3}, {4}},
		},
		{
			name: "LongestPathWins",
			build: func() []*node.Node {
				a, b, c := &node.Node{ID: 1}, &node.Node{ID: 2}, &node.Node{ID: 3}
				wire(a, b, 10)
				wire(b, c, 11)
				wire(a, c, 12)
				return []*node.Node{a, b, c}
			},
			want: [][]node.ID{{1}, {2}, {3}},
		},
		{
			name: "ExternalLinkIgnored",
			build: func() []*node.Node {
				a := &node.Node{ID: 1, Inputs: []node.Input{{Link: node.Link(99)}}}
				b := &node.Node{ID: 2}
				wire(a, b, 10)
				return []*node.Node{b, a}
			},
			want: [][]node.ID{{1}, {2}},
		},
		{
			name: "ParallelLinksDeduplicated",
			build: func() []*node.Node {
				a, b := &node.Node{ID: 1}, &node.Node{ID: 2}
				wire(a, b, 10)
				wire(a, b, 11)
				return []*node.Node{a, b}
			},
			want: [][]node.ID{{1}, {2}},
		},
		{
			name:  "Empty",
			build: func() []*node.Node { return nil },
			want:  [][]node.ID{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Analyze(tt.build())
			if !res.Available() {
				t.Fatal("Available() = false, want true")
			}
			if got := levelIDs(res.Levels); !equalLevels(got, tt.want) {
				t.Errorf("Levels = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAnalyzeCycle(t *testing.T) {
	a, b := &node.Node{ID: 1}, &node.Node{ID: 2}
	wire(a, b, 10)
	wire(b, a, 11)
	input := []*node.Node{b, a}

	res := Analyze(input)

	if res.Levels != nil {
		t.Errorf("Levels = %v, want nil", levelIDs(res.Levels))
	}
	if res.Available() {
		t.Error("Available() = true, want false")
	}
	if got := node.IDs(res.Sorted); !slices.Equal(got, []node.ID{2, 1}) {
		t.Errorf("Sorted = %v, want input order [2 1]", got)
	}
	if res.LevelOf(1) != -1 {
		t.Errorf("LevelOf(1) = %d, want -1", res.LevelOf(1))
	}
}

func TestAnalyzeSelfLoop(t *testing.T) {
	a := &node.Node{ID: 1}
	wire(a, a, 10)
	if res := Analyze([]*node.Node{a, {ID: 2}}); res.Available() {
		t.Error("Available() = true for self loop, want false")
	}
}

func TestAnalyzeEdges(t *testing.T) {
	a, b, c := &node.Node{ID: 1}, &node.Node{ID: 2}, &node.Node{ID: 3}
	wire(a, b, 10)
	wire(a, b, 11)
	wire(b, c, 12)

	res := Analyze([]*node.Node{a, b, c})

	want := []Edge{{From: 1, To: 2}, {From: 2, To: 3}}
	if got := res.Edges(); !slices.Equal(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}
	if res.LevelOf(3) != 2 {
		t.Errorf("LevelOf(3) = %d, want 2", res.LevelOf(3))
	}
}

// naiveLevels mirrors the scan-every-output edge discovery to check that the
// reverse index does not change grouping or tie-break order.
func naiveLevels(nodes []*node.Node) [][]node.ID {
	succ := map[node.ID][]node.ID{}
	inDeg := map[node.ID]int{}
	for _, n := range nodes {
		for _, in := range n.Inputs {
			if in.Link == nil {
				continue
			}
			for _, src := range nodes {
				if !src.HasOutputLink(*in.Link) {
					continue
				}
				if !slices.Contains(succ[src.ID], n.ID) {
					succ[src.ID] = append(succ[src.ID], n.ID)
					inDeg[n.ID]++
				}
			}
		}
	}
	var wave []node.ID
	for _, n := range nodes {
		if inDeg[n.ID] == 0 {
			wave = append(wave, n.ID)
		}
	}
	var levels [][]node.ID
	count := 0
	for len(wave) > 0 {
		var next []node.ID
		for _, id := range wave {
			count++
			for _, c := range succ[id] {
				inDeg[c]--
				if inDeg[c] == 0 {
					next = append(next, c)
				}
			}
		}
		levels = append(levels, wave)
		wave = next
	}
	if count != len(nodes) {
		return nil
	}
	return levels
}

func TestAnalyzeMatchesNaiveScan(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		n := 2 + rng.Intn(10)
		nodes := make([]*node.Node, n)
		for i := range nodes {
			nodes[i] = &node.Node{ID: node.ID(i + 1)}
		}
		link := node.LinkID(1)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if rng.Intn(3) == 0 {
					wire(nodes[i], nodes[j], link)
					link++
				}
			}
		}
		rng.Shuffle(n, func(i, j int) { nodes[i], nodes[j] = nodes[j], nodes[i] })

		got := levelIDs(Analyze(nodes).Levels)
		want := naiveLevels(nodes)
		if !equalLevels(got, want) {
			t.Fatalf("trial %d: Levels = %v, want %v", trial, got, want)
		}
	}
}

func TestAnalyzeSharedLink(t *testing.T) {
	a := &node.Node{ID: 1}
	b := &node.Node{ID: 2}
	c := &node.Node{ID: 3}
	d := &node.Node{ID: 4}
	wire(a, b, 1)
	wire(b, d, 2)
	// c claims link 2 as well, so d depends on both b and c.
	c.Outputs = append(c.Outputs, node.Output{Name: "out", Links: []node.LinkID{2}})

	nodes := []*node.Node{d, c, b, a}
	res := Analyze(nodes)
	got := levelIDs(res.Levels)
	want := naiveLevels(nodes)
	if !equalLevels(got, want) {
		t.Errorf("Levels = %v, want %v", got, want)
	}
	if !equalLevels(got, [][]node.ID{{3, 1}, {2}, {4}}) {
		t.Errorf("Levels = %v, want [[3 1] [2] [4]]", got)
	}
}
