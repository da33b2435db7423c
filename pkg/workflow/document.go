package workflow

import (
	"encoding/json"
	"slices"

	"github.com/matzehuels/nodedesign/pkg/errors"
	"github.com/matzehuels/nodedesign/pkg/node"
)

var (
	_ node.Accessor  = (*Document)(nil)
	_ node.Refresher = (*Document)(nil)
)

// Document is a decoded workflow with a selection.
type Document struct {
	nodes    []*node.Node
	byID     map[node.ID]*node.Node
	meta     map[node.ID]nodeMeta
	extra    map[string]json.RawMessage
	links    []Link
	selected []node.ID
	revision int

	// OnDirty, if set, runs after every MarkDirty.
	OnDirty func() error
}

// nodeMeta keeps the serialized node data the engine does not model.
type nodeMeta struct {
	typ     string
	extra   map[string]json.RawMessage
	inputs  []Input
	outputs []Output
}

// New builds a document from a workflow. Node IDs must be unique and the
// selection may only name existing nodes.
func New(w Workflow) (*Document, error) {
	d := &Document{
		nodes: make([]*node.Node, 0, len(w.Nodes)),
		byID:  make(map[node.ID]*node.Node, len(w.Nodes)),
		meta:  make(map[node.ID]nodeMeta, len(w.Nodes)),
		extra: cloneExtra(w.Extra),
		links: slices.Clone(w.Links),
	}
	for _, wn := range w.Nodes {
		id := node.ID(wn.ID)
		if _, dup := d.byID[id]; dup {
			return nil, errors.New(errors.ErrCodeInvalidWorkflow, "duplicate node id %d", wn.ID)
		}
		n, meta := toNode(wn)
		d.nodes = append(d.nodes, n)
		d.byID[id] = n
		d.meta[id] = meta
	}
	if err := d.Select(toIDs(w.Selected)...); err != nil {
		return nil, err
	}
	return d, nil
}

// Workflow serializes the current state of the document.
func (d *Document) Workflow() Workflow {
	w := Workflow{
		Nodes: make([]Node, len(d.nodes)),
		Links: slices.Clone(d.links),
		Extra: cloneExtra(d.extra),
	}
	if w.Links == nil {
		w.Links = []Link{}
	}
	for i, n := range d.nodes {
		w.Nodes[i] = fromNode(n, d.meta[n.ID])
	}
	for _, id := range d.selected {
		w.Selected = append(w.Selected, int64(id))
	}
	return w
}

// Nodes returns every node in document order.
func (d *Document) Nodes() []*node.Node { return slices.Clone(d.nodes) }

// Node returns the node with id.
func (d *Document) Node(id node.ID) (*node.Node, bool) {
	n, ok := d.byID[id]
	return n, ok
}

// Links returns the link table.
func (d *Document) Links() []Link { return slices.Clone(d.links) }

// Select replaces the selection. Order is kept and duplicates are dropped.
func (d *Document) Select(ids ...node.ID) error {
	sel := make([]node.ID, 0, len(ids))
	for _, id := range ids {
		if _, ok := d.byID[id]; !ok {
			return errors.New(errors.ErrCodeNotFound, "select: no node with id %d", id)
		}
		if !slices.Contains(sel, id) {
			sel = append(sel, id)
		}
	}
	d.selected = sel
	return nil
}

// SelectAll selects every node in document order.
func (d *Document) SelectAll() {
	d.selected = node.IDs(d.nodes)
}

// Toggle adds id to the selection, or removes it if already selected.
func (d *Document) Toggle(id node.ID) error {
	if _, ok := d.byID[id]; !ok {
		return errors.New(errors.ErrCodeNotFound, "toggle: no node with id %d", id)
	}
	if i := slices.Index(d.selected, id); i >= 0 {
		d.selected = slices.Delete(d.selected, i, i+1)
		return nil
	}
	d.selected = append(d.selected, id)
	return nil
}

// Selection returns the selected IDs in selection order.
func (d *Document) Selection() []node.ID { return slices.Clone(d.selected) }

// IsSelected reports whether id is selected.
func (d *Document) IsSelected(id node.ID) bool { return slices.Contains(d.selected, id) }

// SelectedNodes returns the selected nodes in selection order.
func (d *Document) SelectedNodes() []*node.Node {
	out := make([]*node.Node, 0, len(d.selected))
	for _, id := range d.selected {
		out = append(out, d.byID[id])
	}
	return out
}

// MarkDirty bumps the revision and runs OnDirty.
func (d *Document) MarkDirty() error {
	d.revision++
	if d.OnDirty != nil {
		return d.OnDirty()
	}
	return nil
}

// Revision counts MarkDirty calls since the document was built.
func (d *Document) Revision() int { return d.revision }

func toNode(wn Node) (*node.Node, nodeMeta) {
	n := &node.Node{
		ID:      node.ID(wn.ID),
		Title:   wn.Title,
		Pos:     node.Vec2(wn.Pos),
		Size:    node.Vec2(wn.Size),
		Color:   wn.Color,
		BgColor: wn.BgColor,
	}
	meta := nodeMeta{typ: wn.Type, extra: cloneExtra(wn.Extra)}
	for _, in := range wn.Inputs {
		var link *node.LinkID
		if in.Link != nil {
			link = node.Link(node.LinkID(*in.Link))
		}
		n.Inputs = append(n.Inputs, node.Input{Name: in.Name, Link: link})
		meta.inputs = append(meta.inputs, Input{Type: in.Type, Extra: cloneExtra(in.Extra)})
	}
	for _, out := range wn.Outputs {
		links := make([]node.LinkID, len(out.Links))
		for i, l := range out.Links {
			links[i] = node.LinkID(l)
		}
		n.Outputs = append(n.Outputs, node.Output{Name: out.Name, Links: links})
		meta.outputs = append(meta.outputs, Output{Type: out.Type, Extra: cloneExtra(out.Extra)})
	}
	return n, meta
}

func fromNode(n *node.Node, meta nodeMeta) Node {
	wn := Node{
		ID:      int64(n.ID),
		Type:    meta.typ,
		Title:   n.Title,
		Pos:     [2]float64(n.Pos),
		Size:    [2]float64(n.Size),
		Color:   n.Color,
		BgColor: n.BgColor,
		Extra:   cloneExtra(meta.extra),
	}
	for i, in := range n.Inputs {
		var link *int64
		if in.Link != nil {
			v := int64(*in.Link)
			link = &v
		}
		slot := at(meta.inputs, i)
		wn.Inputs = append(wn.Inputs, Input{Name: in.Name, Type: slot.Type, Link: link, Extra: cloneExtra(slot.Extra)})
	}
	for i, out := range n.Outputs {
		links := make([]int64, len(out.Links))
		for j, l := range out.Links {
			links[j] = int64(l)
		}
		slot := at(meta.outputs, i)
		wn.Outputs = append(wn.Outputs, Output{Name: out.Name, Type: slot.Type, Links: links, Extra: cloneExtra(slot.Extra)})
	}
	return wn
}

func at[T any](s []T, i int) T {
	var zero T
	if i < len(s) {
		return s[i]
	}
	return zero
}

func toIDs(ids []int64) []node.ID {
	out := make([]node.ID, len(ids))
	for i, id := range ids {
		out[i] = node.ID(id)
	}
	return out
}
