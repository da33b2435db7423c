package cache

// PreviewKeyOpts are the render options that change a preview.
type PreviewKeyOpts struct {
	Format    string  `json:"format"`
	Placement string  `json:"placement"`
	Detailed  bool    `json:"detailed"`
	Selected  []int64 `json:"selected,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// PreviewKey keys a rendered preview of the workflow with hash workflowHash.
	PreviewKey(workflowHash string, opts PreviewKeyOpts) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// PreviewKey hashes the workflow hash together with the options.
func (DefaultKeyer) PreviewKey(workflowHash string, opts PreviewKeyOpts) string {
	return hashKey("preview", workflowHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix for per-session isolation.
//
// Example usage:
//
//	// Session-specific keys, dropped with the session
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "session:abc123:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// PreviewKey generates a prefixed preview key.
func (k *ScopedKeyer) PreviewKey(workflowHash string, opts PreviewKeyOpts) string {
	return k.prefix + k.inner.PreviewKey(workflowHash, opts)
}
