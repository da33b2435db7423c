package workflow

import (
	"encoding/json"
	"maps"
)

// Keys decoded into struct fields. Everything else in the object is kept
// verbatim in Extra and written back on encode.
var (
	workflowKeys = []string{"nodes", "links", "selected"}
	nodeKeys     = []string{"id", "type", "title", "pos", "size", "color", "bgcolor", "inputs", "outputs"}
	inputKeys    = []string{"name", "type", "link"}
	outputKeys   = []string{"name", "type", "links"}
)

func (w *Workflow) UnmarshalJSON(data []byte) error {
	type plain Workflow
	if err := json.Unmarshal(data, (*plain)(w)); err != nil {
		return err
	}
	return unknownFields(data, workflowKeys, &w.Extra)
}

func (w Workflow) MarshalJSON() ([]byte, error) {
	type plain Workflow
	return mergeFields(plain(w), w.Extra)
}

func (n *Node) UnmarshalJSON(data []byte) error {
	type plain Node
	if err := json.Unmarshal(data, (*plain)(n)); err != nil {
		return err
	}
	return unknownFields(data, nodeKeys, &n.Extra)
}

func (n Node) MarshalJSON() ([]byte, error) {
	type plain Node
	return mergeFields(plain(n), n.Extra)
}

func (in *Input) UnmarshalJSON(data []byte) error {
	type plain Input
	if err := json.Unmarshal(data, (*plain)(in)); err != nil {
		return err
	}
	return unknownFields(data, inputKeys, &in.Extra)
}

func (in Input) MarshalJSON() ([]byte, error) {
	type plain Input
	return mergeFields(plain(in), in.Extra)
}

func (out *Output) UnmarshalJSON(data []byte) error {
	type plain Output
	if err := json.Unmarshal(data, (*plain)(out)); err != nil {
		return err
	}
	return unknownFields(data, outputKeys, &out.Extra)
}

func (out Output) MarshalJSON() ([]byte, error) {
	type plain Output
	return mergeFields(plain(out), out.Extra)
}

// unknownFields stores the members of the JSON object data whose keys are
// not in known. dst is left nil when there are none.
func unknownFields(data []byte, known []string, dst *map[string]json.RawMessage) error {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, k := range known {
		delete(all, k)
	}
	*dst = nil
	if len(all) > 0 {
		*dst = all
	}
	return nil
}

// mergeFields encodes v and adds the extra members it does not already
// carry. With extras present the keys come out sorted.
func mergeFields(v any, extra map[string]json.RawMessage) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return data, err
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	for k, raw := range extra {
		if _, ok := obj[k]; !ok {
			obj[k] = raw
		}
	}
	return json.Marshal(obj)
}

func cloneExtra(m map[string]json.RawMessage) map[string]json.RawMessage {
	if m == nil {
		return nil
	}
	return maps.Clone(m)
}
