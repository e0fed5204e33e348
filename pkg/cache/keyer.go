package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer builds cache keys for pipeline stages.
type Keyer interface {
	// GridKey identifies the grid sampled from an image.
	GridKey(imageHash string, opts GridKeyOpts) string

	// GraphKey identifies the graph extracted from a grid.
	GraphKey(gridHash string, opts GraphKeyOpts) string

	// ArtifactKey identifies a rendered output of a graph.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// GridKeyOpts are the sampling options that change the grid.
type GridKeyOpts struct {
	CellSize int `json:"cell_size"`
}

// GraphKeyOpts are the extraction options that change the graph.
type GraphKeyOpts struct {
	// Schema is bumped when the graph encoding changes.
	Schema int `json:"schema"`
}

// ArtifactKeyOpts are the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Pinned   bool   `json:"pinned,omitempty"`
	Detailed bool   `json:"detailed,omitempty"`
}

// DefaultKeyer builds keys as "<stage>:<sha256 of input and options>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// GridKey implements [Keyer].
func (DefaultKeyer) GridKey(imageHash string, opts GridKeyOpts) string {
	return hashKey("grid", imageHash, opts)
}

// GraphKey implements [Keyer].
func (DefaultKeyer) GraphKey(gridHash string, opts GraphKeyOpts) string {
	return hashKey("graph", gridHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}

// Hash returns the hex SHA-256 of data. Image bytes, grids and graphs are
// all addressed by this hash.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey is "<stage>:" followed by the hash of the input hash and options.
func hashKey(stage, input string, opts any) string {
	data, _ := json.Marshal(struct {
		Input string `json:"input"`
		Opts  any    `json:"opts"`
	}{input, opts})
	return stage + ":" + Hash(data)
}
