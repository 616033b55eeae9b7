package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one Redis instance without reading each other's entries.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "rankorder:staging:")
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

// OrderKey generates a prefixed key for ordering results.
func (k *ScopedKeyer) OrderKey(graphHash string, opts OrderKeyOpts) string {
	return k.prefix + k.inner.OrderKey(graphHash, opts)
}
