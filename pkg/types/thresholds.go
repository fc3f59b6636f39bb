// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ThresholdConfig is the canonical quality-gate configuration. Key paths
// (code_quality.max_complexity, testing.coverage_threshold, ...) are stable
// and read by external gate scanners.
type ThresholdConfig struct {
	CodeQuality CodeQualityThresholds `json:"code_quality" yaml:"code_quality"`
	Security    SecurityThresholds    `json:"security" yaml:"security"`
	Performance PerformanceThresholds `json:"performance" yaml:"performance"`
	Testing     TestingThresholds     `json:"testing" yaml:"testing"`
}

// CodeQualityThresholds holds structural limits on source code.
type CodeQualityThresholds struct {
	MaxComplexity    int `json:"max_complexity" yaml:"max_complexity"`
	MaxFunctionLines int `json:"max_function_lines" yaml:"max_function_lines"`
	MaxClassLines    int `json:"max_class_lines" yaml:"max_class_lines"`
	MaxLineLength    int `json:"max_line_length" yaml:"max_line_length"`
}

// SecurityThresholds holds the vulnerability budget and mandatory scanners.
type SecurityThresholds struct {
	VulnerabilityTolerance int      `json:"vulnerability_tolerance" yaml:"vulnerability_tolerance"`
	RequiredScans          []string `json:"required_scans" yaml:"required_scans"`
}

// PerformanceThresholds holds runtime budgets.
type PerformanceThresholds struct {
	ResponseTimeMS int `json:"response_time_ms" yaml:"response_time_ms"`
	MemoryLimitMB  int `json:"memory_limit_mb" yaml:"memory_limit_mb"`
}

// TestingThresholds holds coverage and test-suite requirements.
type TestingThresholds struct {
	CoverageThreshold int      `json:"coverage_threshold" yaml:"coverage_threshold"`
	RequiredTestTypes []string `json:"required_test_types" yaml:"required_test_types"`
}

// ToolConfig is configuration handed to external quality tools.
type ToolConfig struct {
	Pylint   PylintConfig   `json:"pylint" yaml:"pylint"`
	Bandit   BanditConfig   `json:"bandit" yaml:"bandit"`
	Coverage CoverageConfig `json:"coverage" yaml:"coverage"`
}

// PylintConfig mixes fields derived from the document (line length,
// complexity) with fixed policy values (args, locals, branches, statements).
type PylintConfig struct {
	MaxLineLength int `json:"max-line-length" yaml:"max-line-length"`
	MaxComplexity int `json:"max-complexity" yaml:"max-complexity"`
	MaxArgs       int `json:"max-args" yaml:"max-args"`
	MaxLocals     int `json:"max-locals" yaml:"max-locals"`
	MaxBranches   int `json:"max-branches" yaml:"max-branches"`
	MaxStatements int `json:"max-statements" yaml:"max-statements"`
}

// BanditSeverity is the minimum severity a security scan reports.
type BanditSeverity string

const (
	SeverityLow    BanditSeverity = "low"
	SeverityMedium BanditSeverity = "medium"
)

// BanditConfig configures the security scanner.
type BanditConfig struct {
	Severity   BanditSeverity `json:"severity" yaml:"severity"`
	Confidence string         `json:"confidence" yaml:"confidence"`
}

// CoverageConfig configures the coverage tool.
type CoverageConfig struct {
	FailUnder   int  `json:"fail_under" yaml:"fail_under"`
	Branch      bool `json:"branch" yaml:"branch"`
	ShowMissing bool `json:"show_missing" yaml:"show_missing"`
}
