package layout

// Default spacing factors.
const (
	DefaultSpacingFactor = 1.5
	DefaultTreeFactor    = 1.5
)

// Config tunes the spacing of generated layouts.
type Config struct {
	// SpacingFactor scales the largest node size into the gap used by
	// smart align: gap = max size × SpacingFactor.
	SpacingFactor float64

	// TreeFactor scales the largest node size into the distance between
	// tree view slots: step = max size × TreeFactor.
	TreeFactor float64
}

// DefaultConfig returns the default spacing.
func DefaultConfig() Config {
	return Config{
		SpacingFactor: DefaultSpacingFactor,
		TreeFactor:    DefaultTreeFactor,
	}
}

func (c Config) withDefaults() Config {
	if c.SpacingFactor <= 0 {
		c.SpacingFactor = DefaultSpacingFactor
	}
	if c.TreeFactor <= 0 {
		c.TreeFactor = DefaultTreeFactor
	}
	return c
}
