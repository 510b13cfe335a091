package cache

// Keyer derives cache keys for layout results.
// Implementations must be deterministic: the same inputs always produce the
// same key, and any input change produces a different key.
type Keyer interface {
	// LayoutKey generates a key for a layout result computed on the graph
	// with the given content hash.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
}

// LayoutKeyOpts captures everything besides the graph itself that affects a
// layout result.
type LayoutKeyOpts struct {
	// Algorithm is the engine selection with its options. It is marshaled
	// to JSON inside the key hash, so any option change produces a new key.
	Algorithm any `json:"algorithm"`
}

// DefaultKeyer is the standard key generation strategy.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key of the form "layout:<sha256>".
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}
