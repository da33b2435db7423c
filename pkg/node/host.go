package node

// Accessor is the read-only view over the host's current selection.
// SelectedNodes returns a fresh slice on each call; the nodes themselves
// are shared with the host and may be mutated in place.
type Accessor interface {
	SelectedNodes() []*Node
}

// AccessorFunc adapts a function to the Accessor interface.
type AccessorFunc func() []*Node

// SelectedNodes calls f.
func (f AccessorFunc) SelectedNodes() []*Node { return f() }

// Refresher asks the host to redraw after nodes changed.
// It is fire-and-forget: callers log failures and carry on.
type Refresher interface {
	MarkDirty() error
}

// RefresherFunc adapts a function to the Refresher interface.
type RefresherFunc func() error

// MarkDirty calls f.
func (f RefresherFunc) MarkDirty() error { return f() }

// NopRefresher ignores refresh requests.
type NopRefresher struct{}

// MarkDirty does nothing.
func (NopRefresher) MarkDirty() error { return nil }

// StaticSelection is an Accessor over a fixed slice, useful for tests
// and batch tools.
type StaticSelection []*Node

// SelectedNodes returns a copy of the slice.
func (s StaticSelection) SelectedNodes() []*Node {
	out := make([]*Node, len(s))
	copy(out, s)
	return out
}
