package workflow

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	nderrors "github.com/matzehuels/nodedesign/pkg/errors"
	"github.com/matzehuels/nodedesign/pkg/node"
)

const sample = `{
  "nodes": [
    {"id": 1, "type": "Loader", "title": "load", "pos": [0, 10], "size": [200, 80],
     "outputs": [{"name": "IMAGE", "type": "IMAGE", "links": [7, 8]}]},
    {"id": 2, "title": "preview", "pos": [300, 10], "size": [150, 60],
     "inputs": [{"name": "image", "type": "IMAGE", "link": 7}]},
    {"id": 3, "title": "save", "pos": [300, 200], "size": [150, 60], "bgcolor": "#353",
     "inputs": [{"name": "image", "link": 8}, {"name": "mask", "link": null}]}
  ],
  "links": [[7, 1, 0, 2, 0, "IMAGE"], [8, 1, 0, 3, 0]],
  "selected": [3, 1],
  "extra": {"ds": {"scale": 1}}
}`

func TestRead(t *testing.T) {
	doc, err := Unmarshal([]byte(sample))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got := len(doc.Nodes()); got != 3 {
		t.Fatalf("len(Nodes()) = %d, want 3", got)
	}
	save, ok := doc.Node(3)
	if !ok {
		t.Fatal("Node(3) not found")
	}
	if save.BgColor != "#353" || save.Pos != (node.Vec2{300, 200}) {
		t.Errorf("save = %+v", save)
	}
	if save.Inputs[1].Connected() {
		t.Error("null link decoded as connected")
	}
	load, _ := doc.Node(1)
	if !load.Feeds(save) {
		t.Error("load does not feed save")
	}

	if got := node.IDs(doc.SelectedNodes()); !slices.Equal(got, []node.ID{3, 1}) {
		t.Errorf("SelectedNodes() = %v, want [3 1]", got)
	}

	links := doc.Links()
	if len(links) != 2 || links[0].Type != "IMAGE" || links[1].Type != "" || links[1].Target != 3 {
		t.Errorf("Links() = %+v", links)
	}
}

func TestRoundTrip(t *testing.T) {
	doc, err := Unmarshal([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	n, _ := doc.Node(2)
	n.Pos = node.Vec2{1.5, -2.25}

	data, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	again, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	got, want := again.Workflow(), doc.Workflow()
	gj, _ := json.Marshal(got)
	wj, _ := json.Marshal(want)
	if !bytes.Equal(gj, wj) {
		t.Errorf("round trip mismatch:\n got %s\nwant %s", gj, wj)
	}
	if got.Nodes[0].Type != "Loader" || got.Nodes[0].Outputs[0].Type != "IMAGE" {
		t.Errorf("types lost: %+v", got.Nodes[0])
	}
	if !strings.Contains(string(data), `"IMAGE"`) {
		t.Errorf("link type missing from output:\n%s", data)
	}
}

func TestRoundTripKeepsHostData(t *testing.T) {
	const in = `{
  "last_node_id": 3,
  "nodes": [
    {"id": 3, "type": "KSampler", "pos": [0, 0], "size": [315, 262], "mode": 0,
     "flags": {"collapsed": false}, "properties": {"Node name for S&R": "KSampler"},
     "widgets_values": [42, "euler"],
     "inputs": [{"name": "seed", "type": "INT", "link": null, "widget": {"name": "seed"}}],
     "outputs": [{"name": "LATENT", "type": "LATENT", "links": [], "slot_index": 0}]}
  ],
  "links": [],
  "groups": [],
  "version": 0.4
}`
	doc, err := Unmarshal([]byte(in))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	doc.SelectAll()
	n, _ := doc.Node(3)
	n.Pos = node.Vec2{40, 80}

	data, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out struct {
		LastNodeID int               `json:"last_node_id"`
		Version    float64           `json:"version"`
		Groups     []json.RawMessage `json:"groups"`
		Nodes      []struct {
			Pos           [2]float64      `json:"pos"`
			Mode          *int            `json:"mode"`
			Flags         json.RawMessage `json:"flags"`
			Properties    json.RawMessage `json:"properties"`
			WidgetsValues []any           `json:"widgets_values"`
			Inputs        []struct {
				Widget json.RawMessage `json:"widget"`
			} `json:"inputs"`
			Outputs []struct {
				SlotIndex *int `json:"slot_index"`
			} `json:"outputs"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if out.LastNodeID != 3 || out.Version != 0.4 || out.Groups == nil {
		t.Errorf("top-level = %+v, want last_node_id 3, version 0.4, groups []", out)
	}
	if len(out.Nodes) != 1 {
		t.Fatalf("len(nodes) = %d, want 1", len(out.Nodes))
	}
	got := out.Nodes[0]
	if got.Pos != [2]float64{40, 80} {
		t.Errorf("pos = %v, want [40 80]", got.Pos)
	}
	if !slices.Equal(got.WidgetsValues, []any{float64(42), "euler"}) {
		t.Errorf("widgets_values = %v, want [42 euler]", got.WidgetsValues)
	}
	if got.Mode == nil || got.Flags == nil || got.Properties == nil {
		t.Errorf("node data lost:\n%s", data)
	}
	if len(got.Inputs) != 1 || got.Inputs[0].Widget == nil {
		t.Errorf("input widget lost:\n%s", data)
	}
	if len(got.Outputs) != 1 || got.Outputs[0].SlotIndex == nil {
		t.Errorf("output slot_index lost:\n%s", data)
	}
	if !strings.Contains(string(data), `"selected"`) {
		t.Errorf("selection missing:\n%s", data)
	}
}

func TestLinkJSON(t *testing.T) {
	l := Link{ID: 4, Origin: 1, OriginSlot: 2, Target: 3, TargetSlot: 0}
	data, err := json.Marshal(l)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[4,1,2,3,0]" {
		t.Errorf("Marshal = %s, want [4,1,2,3,0]", data)
	}

	var got Link
	if err := json.Unmarshal([]byte(`[4,1,2,3,0,{"odd":true}]`), &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != l {
		t.Errorf("Unmarshal = %+v, want %+v", got, l)
	}
	if err := json.Unmarshal([]byte(`[1,2]`), &got); err == nil {
		t.Error("short link accepted")
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code nderrors.Code
	}{
		{"Syntax", `{"nodes": [`, nderrors.ErrCodeInvalidWorkflow},
		{"DuplicateID", `{"nodes": [{"id": 1}, {"id": 1}]}`, nderrors.ErrCodeInvalidWorkflow},
		{"UnknownSelection", `{"nodes": [{"id": 1}], "selected": [9]}`, nderrors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.data))
			if !nderrors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSelection(t *testing.T) {
	doc, _ := Unmarshal([]byte(sample))

	if err := doc.Select(2, 1, 2); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if got := doc.Selection(); !slices.Equal(got, []node.ID{2, 1}) {
		t.Errorf("Selection() = %v, want [2 1]", got)
	}
	doc.Toggle(2)
	doc.Toggle(3)
	if got := doc.Selection(); !slices.Equal(got, []node.ID{1, 3}) {
		t.Errorf("Selection() after toggles = %v, want [1 3]", got)
	}
	if !doc.IsSelected(3) || doc.IsSelected(2) {
		t.Error("IsSelected mismatch")
	}
	if err := doc.Toggle(42); !nderrors.Is(err, nderrors.ErrCodeNotFound) {
		t.Errorf("Toggle(42) = %v, want NOT_FOUND", err)
	}
	doc.SelectAll()
	if got := doc.Selection(); !slices.Equal(got, []node.ID{1, 2, 3}) {
		t.Errorf("SelectAll() = %v", got)
	}
}

func TestMarkDirty(t *testing.T) {
	doc, _ := Unmarshal([]byte(sample))
	boom := errors.New("closed")
	calls := 0
	doc.OnDirty = func() error { calls++; return boom }

	if err := doc.MarkDirty(); !errors.Is(err, boom) {
		t.Errorf("MarkDirty() = %v, want %v", err, boom)
	}
	if doc.Revision() != 1 || calls != 1 {
		t.Errorf("Revision() = %d, calls = %d, want 1, 1", doc.Revision(), calls)
	}
}

func TestClone(t *testing.T) {
	doc, _ := Unmarshal([]byte(sample))
	c := Clone(doc)
	n, _ := c.Node(1)
	n.Pos = node.Vec2{99, 99}

	orig, _ := doc.Node(1)
	if orig.Pos == n.Pos {
		t.Error("Clone shares nodes with the original")
	}
	if !slices.Equal(c.Selection(), doc.Selection()) {
		t.Error("Clone dropped the selection")
	}
}

func TestFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flow.json")
	doc, _ := Unmarshal([]byte(sample))
	if err := WriteFile(doc, path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(got.Nodes()) != 3 {
		t.Errorf("len(Nodes()) = %d, want 3", len(got.Nodes()))
	}
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFile(missing) = %v, want ErrNotExist", err)
	}
}
