package cache

// SceneKeyOpts holds every option that changes a computed scene.
type SceneKeyOpts struct {
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Padding  float64 `json:"padding"`
	Strict   bool    `json:"strict"`
	PerRow   int     `json:"per_row,omitempty"`
	RectSize float64 `json:"rect_size,omitempty"`
	HSpacing float64 `json:"h_spacing,omitempty"`
	VSpacing float64 `json:"v_spacing,omitempty"`
	Title    string  `json:"title,omitempty"`
}

// ArtifactKeyOpts holds every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// DatasetKey is the key for the raw bytes fetched from location.
	DatasetKey(location string) string
	// SceneKey is the key for a scene computed from a dataset with the given hash.
	SceneKey(datasetHash string, opts SceneKeyOpts) string
	// ArtifactKey is the key for an artifact rendered from a scene with the given hash.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces keys of the form "kind:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default Keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) DatasetKey(location string) string {
	return hashKey("dataset", location)
}

func (DefaultKeyer) SceneKey(datasetHash string, opts SceneKeyOpts) string {
	return hashKey("scene", datasetHash, opts)
}

func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}
