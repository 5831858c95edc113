package cache

// ScopedKeyer wraps a Keyer with a prefix so poimap keys can share a redis
// database with other applications without colliding.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "poimap:")
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

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sceneHash, opts)
}

// SourceKey generates a prefixed key for source caching.
func (k *ScopedKeyer) SourceKey(uri string, opts SourceKeyOpts) string {
	return k.prefix + k.inner.SourceKey(uri, opts)
}
