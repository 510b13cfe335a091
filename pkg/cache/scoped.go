package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// This is useful when several projects or tenants share one cache store and
// their entries must not collide.
//
// Example usage:
//
//	// Project-specific keys
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "proj:website:")
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

// LayoutKey generates a prefixed key for layout result caching.
func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}
