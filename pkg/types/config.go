package types

import "time"

// DefaultMaxDocumentBytes bounds the text handed to the extraction regexes.
const DefaultMaxDocumentBytes = 4 << 20

// ParserConfig holds settings for locating and parsing a PRD.
type ParserConfig struct {
	// ProjectRoot is the directory searched for candidate documents.
	ProjectRoot string `json:"project_root" yaml:"project_root"`

	// MaxDocumentBytes truncates larger documents before extraction
	// (default 4 MiB).
	MaxDocumentBytes int `json:"max_document_bytes" yaml:"max_document_bytes"`
}

// ArtifactFormat selects the encoding of written artifacts.
type ArtifactFormat string

const (
	ArtifactYAML ArtifactFormat = "yaml"
	ArtifactJSON ArtifactFormat = "json"
)

// OutputConfig holds settings for writing derived artifacts.
type OutputConfig struct {
	// OutputDir is the directory artifacts are written to (e.g. ".prdgate/").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Format selects yaml or json.
	Format ArtifactFormat `json:"format" yaml:"format"`
}

// StoreConfig holds settings for the snapshot history database.
type StoreConfig struct {
	// Dir contains the SQLite database file.
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default number of snapshots listed (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// WatchConfig holds settings for re-deriving artifacts when the PRD changes.
type WatchConfig struct {
	// Debounce is how long to wait for further writes before reacting
	// (default 500ms).
	Debounce time.Duration `json:"debounce" yaml:"debounce"`
}

