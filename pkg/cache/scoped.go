package cache

// ScopedKeyer prefixes every key of an inner Keyer. The CLI scopes keys by
// build version so that a new renderer never serves stale artifacts:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v1.2.0:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer selects
// the default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DatasetKey returns the prefixed dataset key of the inner keyer.
func (k *ScopedKeyer) DatasetKey(datasetHash string) string {
	return k.prefix + k.inner.DatasetKey(datasetHash)
}

// FigureKey returns the prefixed figure key of the inner keyer.
func (k *ScopedKeyer) FigureKey(datasetHash string, opts FigureKeyOpts) string {
	return k.prefix + k.inner.FigureKey(datasetHash, opts)
}
