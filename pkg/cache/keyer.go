package cache

// Keyer derives cache keys.
type Keyer interface {
	// DatasetKey identifies a dataset by content hash.
	DatasetKey(datasetHash string) string

	// FigureKey identifies one rendered artifact of a dataset.
	FigureKey(datasetHash string, opts FigureKeyOpts) string
}

// FigureKeyOpts are the inputs that change a rendered artifact besides
// the dataset. Spec is any JSON-encodable description of the figure
// (request, layers, legend and theme settings).
type FigureKeyOpts struct {
	Format string `json:"format"`
	DPI    int    `json:"dpi,omitempty"`
	Spec   any    `json:"spec"`
}

// DefaultKeyer builds keys of the form "kind:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DatasetKey returns "dataset:" followed by the content hash.
func (DefaultKeyer) DatasetKey(datasetHash string) string {
	return "dataset:" + datasetHash
}

// FigureKey hashes the dataset hash together with opts.
func (DefaultKeyer) FigureKey(datasetHash string, opts FigureKeyOpts) string {
	return hashKey("figure", datasetHash, opts)
}

var _ Keyer = DefaultKeyer{}
