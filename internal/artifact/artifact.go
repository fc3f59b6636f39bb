// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package artifact writes a parsed PRD and everything derived from it to
// disk for consumption by quality-gate tooling.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/prdgate/internal/derive"
	"github.com/pdiddy/prdgate/internal/trace"
	"github.com/pdiddy/prdgate/pkg/types"
)

// File base names, without extension.
const (
	DocumentFile   = "prd"
	ThresholdsFile = "thresholds"
	ToolsFile      = "tools"
	TraceFile      = "trace"
)

// Bundle holds a document and its derived artifacts.
type Bundle struct {
	Document   *types.PRDDocument    `json:"document" yaml:"document"`
	Thresholds types.ThresholdConfig `json:"thresholds" yaml:"thresholds"`
	Tools      types.ToolConfig      `json:"tools" yaml:"tools"`
	Trace      map[string][]string   `json:"trace" yaml:"trace"`
}

// Build derives thresholds, tool config, and the trace map from doc.
func Build(doc *types.PRDDocument) Bundle {
	return Bundle{
		Document:   doc,
		Thresholds: derive.QualityStandards(doc),
		Tools:      derive.ToolConfig(doc),
		Trace:      trace.Map(doc),
	}
}

// Write stores each part of the bundle as its own file in dir and returns
// the paths written, in a fixed order.
func Write(dir string, b Bundle, format types.ArtifactFormat) ([]string, error) {
	if format == "" {
		format = types.ArtifactYAML
	}
	if format != types.ArtifactYAML && format != types.ArtifactJSON {
		return nil, fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	parts := []struct {
		name string
		v    any
	}{
		{DocumentFile, b.Document},
		{ThresholdsFile, b.Thresholds},
		{ToolsFile, b.Tools},
		{TraceFile, b.Trace},
	}

	var written []string
	for _, p := range parts {
		path := filepath.Join(dir, p.name+"."+string(format))
		data, err := Marshal(p.v, format)
		if err != nil {
			return written, fmt.Errorf("marshaling %s: %w", p.name, err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// Marshal encodes v as YAML or indented JSON.
func Marshal(v any, format types.ArtifactFormat) ([]byte, error) {
	switch format {
	case types.ArtifactJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case types.ArtifactYAML, "":
		return yaml.Marshal(v)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}
