// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package derive folds a parsed PRD into quality-gate thresholds and
// tool-specific configuration. Every function here is pure: the document
// is read, never modified.
package derive

import (
	"strconv"

	"github.com/pdiddy/prdgate/internal/quality"
	"github.com/pdiddy/prdgate/pkg/types"
)

// Fixed lint policy. These values are never taken from the document.
const (
	pylintMaxArgs       = 5
	pylintMaxLocals     = 15
	pylintMaxBranches   = 12
	pylintMaxStatements = 50
)

// DefaultThresholds returns the baseline gate configuration used when the
// document states nothing.
func DefaultThresholds() types.ThresholdConfig {
	return types.ThresholdConfig{
		CodeQuality: types.CodeQualityThresholds{
			MaxComplexity:    10,
			MaxFunctionLines: 50,
			MaxClassLines:    300,
			MaxLineLength:    120,
		},
		Security: types.SecurityThresholds{
			VulnerabilityTolerance: 0,
			RequiredScans:          []string{"bandit", "safety"},
		},
		Performance: types.PerformanceThresholds{
			ResponseTimeMS: 200,
			MemoryLimitMB:  512,
		},
		Testing: types.TestingThresholds{
			CoverageThreshold: 100,
			RequiredTestTypes: []string{"unit", "integration"},
		},
	}
}

// override binds one recognized (category, name) standard to the
// threshold field it replaces.
type override struct {
	category types.QualityCategory
	name     string
	apply    func(cfg *types.ThresholdConfig, qs types.QualityStandard, v int)
}

var overrides = []override{
	{
		category: types.CategoryTesting,
		name:     types.StandardCoverage,
		apply: func(cfg *types.ThresholdConfig, _ types.QualityStandard, v int) {
			cfg.Testing.CoverageThreshold = v
		},
	},
	{
		category: types.CategoryCodeQuality,
		name:     types.StandardComplexity,
		apply: func(cfg *types.ThresholdConfig, _ types.QualityStandard, v int) {
			cfg.CodeQuality.MaxComplexity = v
		},
	},
	{
		category: types.CategoryPerformance,
		name:     types.StandardResponseTime,
		apply: func(cfg *types.ThresholdConfig, qs types.QualityStandard, v int) {
			if isSeconds(qs.Unit) {
				v *= 1000
			}
			cfg.Performance.ResponseTimeMS = v
		},
	},
}

func isSeconds(unit string) bool {
	return unit == "秒" || unit == "s" || unit == "S"
}

// QualityStandards starts from DefaultThresholds and overwrites the
// coverage, complexity, and response-time fields with the document's
// values. A threshold that is not an integer leaves the default in place.
func QualityStandards(doc *types.PRDDocument) types.ThresholdConfig {
	cfg := DefaultThresholds()
	if doc == nil {
		return cfg
	}
	for _, o := range overrides {
		qs, ok := doc.FindStandard(o.category, o.name)
		if !ok {
			continue
		}
		v, err := strconv.Atoi(qs.Threshold)
		if err != nil {
			continue
		}
		o.apply(&cfg, qs, v)
	}
	return cfg
}

// ToolConfig builds linter, security-scanner, and coverage settings from
// the document's thresholds.
func ToolConfig(doc *types.PRDDocument) types.ToolConfig {
	th := QualityStandards(doc)

	severity := types.SeverityMedium
	if zeroVulnerabilityStated(doc) {
		severity = types.SeverityLow
	}

	return types.ToolConfig{
		Pylint: types.PylintConfig{
			MaxLineLength: th.CodeQuality.MaxLineLength,
			MaxComplexity: th.CodeQuality.MaxComplexity,
			MaxArgs:       pylintMaxArgs,
			MaxLocals:     pylintMaxLocals,
			MaxBranches:   pylintMaxBranches,
			MaxStatements: pylintMaxStatements,
		},
		Bandit: types.BanditConfig{
			Severity:   severity,
			Confidence: "medium",
		},
		Coverage: types.CoverageConfig{
			FailUnder:   th.Testing.CoverageThreshold,
			Branch:      true,
			ShowMissing: true,
		},
	}
}

// zeroVulnerabilityStated reports whether the phrase was extracted as a
// standard or appears anywhere in the raw document.
func zeroVulnerabilityStated(doc *types.PRDDocument) bool {
	if doc == nil {
		return false
	}
	if _, ok := doc.FindStandard(types.CategorySecurity, types.StandardVulnerability); ok {
		return true
	}
	return quality.HasZeroVulnerabilityPhrase(doc.RawContent)
}
