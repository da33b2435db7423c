package workflow

import (
	"encoding/json"
	"fmt"
)

// Workflow is the serialization format of a node graph. Members the
// layout engine does not model (groups, extra, version, ...) are kept in
// Extra and survive a decode/encode round trip.
type Workflow struct {
	Nodes    []Node  `json:"nodes"`
	Links    []Link  `json:"links"`
	Selected []int64 `json:"selected,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Node is a serialized node.
type Node struct {
	ID      int64      `json:"id"`
	Type    string     `json:"type,omitempty"`
	Title   string     `json:"title,omitempty"`
	Pos     [2]float64 `json:"pos"`
	Size    [2]float64 `json:"size"`
	Color   string     `json:"color,omitempty"`
	BgColor string     `json:"bgcolor,omitempty"`
	Inputs  []Input    `json:"inputs,omitempty"`
	Outputs []Output   `json:"outputs,omitempty"`

	// Extra holds host data such as widgets_values, properties or flags.
	Extra map[string]json.RawMessage `json:"-"`
}

// Input is a serialized input slot. Link is null when unconnected.
type Input struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
	Link *int64 `json:"link"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Output is a serialized output slot.
type Output struct {
	Name  string  `json:"name"`
	Type  string  `json:"type,omitempty"`
	Links []int64 `json:"links"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Link is a connection between an output slot and an input slot. It is
// encoded as a JSON array.
type Link struct {
	ID         int64
	Origin     int64
	OriginSlot int
	Target     int64
	TargetSlot int
	Type       string
}

// MarshalJSON encodes the link as [id, origin, originSlot, target, targetSlot(, type)].
func (l Link) MarshalJSON() ([]byte, error) {
	arr := []any{l.ID, l.Origin, l.OriginSlot, l.Target, l.TargetSlot}
	if l.Type != "" {
		arr = append(arr, l.Type)
	}
	return json.Marshal(arr)
}

// UnmarshalJSON decodes the array form. The type element may be missing,
// a string, or any other JSON value (ignored).
func (l *Link) UnmarshalJSON(data []byte) error {
	var arr []json.RawMessage
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("link: %w", err)
	}
	if len(arr) < 5 {
		return fmt.Errorf("link: want at least 5 elements, got %d", len(arr))
	}
	fields := []any{&l.ID, &l.Origin, &l.OriginSlot, &l.Target, &l.TargetSlot}
	for i, f := range fields {
		if err := json.Unmarshal(arr[i], f); err != nil {
			return fmt.Errorf("link element %d: %w", i, err)
		}
	}
	l.Type = ""
	if len(arr) > 5 {
		var typ string
		if json.Unmarshal(arr[5], &typ) == nil {
			l.Type = typ
		}
	}
	return nil
}
