package cache

// Keyer derives cache keys from a diagram content hash.
type Keyer interface {
	// GraphKey addresses the exported graph JSON of a diagram.
	GraphKey(diagramHash string) string
	// ArtifactKey addresses a rendered artifact (DOT, SVG) of a diagram.
	ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds the render options that change artifact bytes.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed"`
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// GraphKey returns "graph:<hash>".
func (DefaultKeyer) GraphKey(diagramHash string) string {
	return "graph:" + diagramHash
}

// ArtifactKey hashes the diagram hash together with the render options.
func (DefaultKeyer) ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", diagramHash, opts)
}
