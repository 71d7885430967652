package cache

// ScopedKeyer wraps a Keyer with a prefix so several users of one backend
// do not see each other's entries.
//
// Example usage:
//
//	// Keys for the HTTP server share a Redis instance with other services
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "stowage:")
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

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(requestHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(requestHash, opts)
}

// PreviewKey generates a prefixed preview key.
func (k *ScopedKeyer) PreviewKey(layoutHash string, opts PreviewKeyOpts) string {
	return k.prefix + k.inner.PreviewKey(layoutHash, opts)
}
