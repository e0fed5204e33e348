package cache

// ScopedKeyer wraps a Keyer with a prefix so separate consumers of one
// backend never collide. The HTTP API uses "api:" so its entries can be
// told apart from CLI entries in a shared Redis.
//
// Example usage:
//
//	apiKeyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
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

// GridKey generates a prefixed key for grid caching.
func (k *ScopedKeyer) GridKey(imageHash string, opts GridKeyOpts) string {
	return k.prefix + k.inner.GridKey(imageHash, opts)
}

// GraphKey generates a prefixed key for graph caching.
func (k *ScopedKeyer) GraphKey(gridHash string, opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(gridHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(graphHash, opts)
}
