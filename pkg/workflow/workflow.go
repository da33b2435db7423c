package workflow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/nodedesign/pkg/errors"
)

// =============================================================================
// Workflow Serialization API
// =============================================================================

// Marshal converts a document to indented JSON bytes.
func Marshal(d *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes JSON bytes into a document.
func Unmarshal(data []byte) (*Document, error) {
	return Read(bytes.NewReader(data))
}

// Write encodes a document as JSON to an io.Writer.
func Write(d *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d.Workflow()); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Read decodes a JSON workflow from an io.Reader into a document.
func Read(r io.Reader) (*Document, error) {
	var w Workflow
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidWorkflow, err, "decode")
	}
	return New(w)
}

// WriteFile writes a document to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(d *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(d, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads a JSON workflow file.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Clone returns an independent copy of the document, including its
// selection but not its OnDirty hook.
func Clone(d *Document) *Document {
	c, err := New(d.Workflow())
	if err != nil {
		// The workflow came from a valid document.
		panic(fmt.Sprintf("workflow: clone: %v", err))
	}
	return c
}
