// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data model shared by every prdgate stage.
package types

// DocumentFormat identifies the on-disk format of a located PRD.
type DocumentFormat string

const (
	FormatMarkdown DocumentFormat = "markdown"
	FormatYAML     DocumentFormat = "yaml"
	FormatJSON     DocumentFormat = "json"
)

// UnknownVersion is reported when no version marker is found in a document.
const UnknownVersion = "unknown"

// DefaultPriority is assigned to requirements that do not state one.
const DefaultPriority = "P1"

// PRDLocation describes where a requirements document was found.
// It is created per detection call and not persisted.
type PRDLocation struct {
	// Path is the file path, joined onto the project root passed to detection.
	Path string `json:"path" yaml:"path"`

	// Format is derived from the file extension. Only markdown is parsed
	// into the full domain model.
	Format DocumentFormat `json:"format" yaml:"format"`

	// Version is the first version marker found in the content,
	// or UnknownVersion.
	Version string `json:"version" yaml:"version"`
}

// Requirement is one functional requirement taken from a ### subsection.
type Requirement struct {
	// ID is positional (FR-001, FR-002, ...). Reordering subsections in the
	// source changes the IDs on the next parse.
	ID string `json:"id" yaml:"id"`

	// Name is the first non-blank line of the subsection.
	Name string `json:"name" yaml:"name"`

	// Description is the rest of the subsection, verbatim.
	Description string `json:"description" yaml:"description"`

	// Section is the fixed label of the section the requirement came from.
	Section string `json:"section" yaml:"section"`

	// AcceptanceCriteria holds checkbox lines from the description in
	// source order.
	AcceptanceCriteria []string `json:"acceptance_criteria" yaml:"acceptance_criteria"`

	Priority string `json:"priority" yaml:"priority"`
}

// QualityCategory groups quality standards and threshold settings.
type QualityCategory string

const (
	CategoryCodeQuality QualityCategory = "code_quality"
	CategorySecurity    QualityCategory = "security"
	CategoryPerformance QualityCategory = "performance"
	CategoryTesting     QualityCategory = "testing"
)

// MetricKind tags the unit of a quality threshold.
type MetricKind string

const (
	MetricPercentage   MetricKind = "percentage"
	MetricNumber       MetricKind = "number"
	MetricMilliseconds MetricKind = "milliseconds"
	MetricCount        MetricKind = "count"
)

// Human labels used as quality standard names. ConfigDeriver looks
// standards up by (category, name), so these are part of the contract.
const (
	StandardCoverage      = "测试覆盖率"
	StandardComplexity    = "圈复杂度"
	StandardResponseTime  = "响应时间"
	StandardVulnerability = "安全漏洞"
)

// QualityStandard is a quantitative non-functional constraint found in prose.
type QualityStandard struct {
	Category QualityCategory `json:"category" yaml:"category"`
	Name     string          `json:"name" yaml:"name"`

	// Requirement is a reconstructed, human-readable statement
	// (e.g. "测试覆盖率 ≥ 95%").
	Requirement string `json:"requirement" yaml:"requirement"`

	// Threshold is the captured token, verbatim. It is not converted to a
	// number until configuration is derived.
	Threshold string `json:"threshold" yaml:"threshold"`

	Metric MetricKind `json:"metric" yaml:"metric"`

	// Unit is the unit token as written (ms, 毫秒, 秒, s). Only set for
	// latency standards.
	Unit string `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// PRDDocument is the assembled result of parsing one requirements document.
// Derivation and trace mapping read it and never modify it.
type PRDDocument struct {
	Title   string `json:"title" yaml:"title"`
	Version string `json:"version" yaml:"version"`

	// Path is the file the document was read from.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	Goals                  []string          `json:"goals" yaml:"goals"`
	FunctionalRequirements []Requirement     `json:"functional_requirements" yaml:"functional_requirements"`
	QualityRequirements    []QualityStandard `json:"quality_requirements" yaml:"quality_requirements"`

	// AcceptanceCriteria is the document-level acceptance list. It is
	// independent of the per-requirement criteria.
	AcceptanceCriteria   []string `json:"acceptance_criteria" yaml:"acceptance_criteria"`
	TechnicalConstraints []string `json:"technical_constraints" yaml:"technical_constraints"`

	// RawContent is the full source text.
	RawContent string `json:"raw_content" yaml:"raw_content"`
}

// FindStandard returns the first quality standard with the given category
// and name.
func (d *PRDDocument) FindStandard(category QualityCategory, name string) (QualityStandard, bool) {
	for _, qs := range d.QualityRequirements {
		if qs.Category == category && qs.Name == name {
			return qs, true
		}
	}
	return QualityStandard{}, false
}
