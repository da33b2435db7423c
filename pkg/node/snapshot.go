package node

// State is the geometry of a node at one point in time.
type State struct {
	Pos  Vec2
	Size Vec2
}

// Snapshot maps node IDs to their captured geometry.
// Snapshots are immutable once captured.
type Snapshot map[ID]State

// Capture records the position and size of every node.
func Capture(nodes []*Node) Snapshot {
	s := make(Snapshot, len(nodes))
	for _, n := range nodes {
		s[n.ID] = State{Pos: n.Pos, Size: n.Size}
	}
	return s
}

// Restore puts every captured node back to its recorded position and size.
// Nodes absent from the snapshot are left alone.
func (s Snapshot) Restore(nodes []*Node) {
	for _, n := range nodes {
		if st, ok := s[n.ID]; ok {
			n.Pos = st.Pos
			n.Size = st.Size
		}
	}
}

// RestoreSize re-applies the captured size of n if it drifted.
func (s Snapshot) RestoreSize(n *Node) {
	if st, ok := s[n.ID]; ok && n.Size != st.Size {
		n.Size = st.Size
	}
}

// Pos returns the captured position of id.
func (s Snapshot) Pos(id ID) (Vec2, bool) {
	st, ok := s[id]
	return st.Pos, ok
}

// Size returns the captured size of id.
func (s Snapshot) Size(id ID) (Vec2, bool) {
	st, ok := s[id]
	return st.Size, ok
}
