// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package quality finds quantitative quality standards (coverage,
// complexity, latency, vulnerability tolerance) in the prose of a PRD's
// non-functional section.
package quality

import (
	"fmt"
	"regexp"

	"golang.org/x/text/width"

	"github.com/pdiddy/prdgate/pkg/types"
)

// rule recognizes one metric family. Only the first match of pattern is
// used; later restatements in the same text are ignored.
type rule struct {
	family  string
	pattern *regexp.Regexp
	build   func(m []string) types.QualityStandard
}

// The bare "0" branch needs a non-digit before it so "10 个漏洞" is not a
// zero tolerance.
var zeroVulnerability = regexp.MustCompile(`(?im)(?:零漏洞|漏洞零容忍|(?:^|[^\d.])0\s*个?(?:高危|严重)?(?:安全)?漏洞|无(?:高危|严重)?(?:安全)?漏洞|zero[\s-]+vulnerabilit(?:y|ies)|no\s+(?:known\s+|critical\s+|high\s+)?vulnerabilities)`)

// rules is evaluated in order and each family contributes at most one
// standard.
var rules = []rule{
	{
		family:  "coverage",
		pattern: regexp.MustCompile(`(?i)(?:测试覆盖率|代码覆盖率|覆盖率|test\s+coverage|code\s+coverage|coverage)[^\n%]{0,20}?(?:≥|>=|>)?\s*([0-9A-Za-z.]+)\s*%`),
		build: func(m []string) types.QualityStandard {
			return types.QualityStandard{
				Category:    types.CategoryTesting,
				Name:        types.StandardCoverage,
				Requirement: fmt.Sprintf("%s ≥ %s%%", types.StandardCoverage, m[1]),
				Threshold:   m[1],
				Metric:      types.MetricPercentage,
			}
		},
	},
	// Time and space complexity ("时间复杂度", "time complexity O(n)") are
	// not cyclomatic and must not match.
	{
		family:  "complexity",
		pattern: regexp.MustCompile(`(?im)(?:圈复杂度|cyclomatic\s+complexity|(?:^|[^间])复杂度|(?:^|[^A-Za-z\s])[ \t]*complexity)[^\n\d(（]{0,12}?(?:≤|<=|<)?\s*(\d+)`),
		build: func(m []string) types.QualityStandard {
			return types.QualityStandard{
				Category:    types.CategoryCodeQuality,
				Name:        types.StandardComplexity,
				Requirement: fmt.Sprintf("%s ≤ %s", types.StandardComplexity, m[1]),
				Threshold:   m[1],
				Metric:      types.MetricNumber,
			}
		},
	},
	{
		family:  "latency",
		pattern: regexp.MustCompile(`(?i)(?:响应时间|response\s+time|延迟|latency)[^\n]{0,20}?(\d+)\s*(ms|毫秒|秒|s)(?:[^A-Za-z]|$)`),
		build: func(m []string) types.QualityStandard {
			return types.QualityStandard{
				Category:    types.CategoryPerformance,
				Name:        types.StandardResponseTime,
				Requirement: fmt.Sprintf("%s < %s%s", types.StandardResponseTime, m[1], m[2]),
				Threshold:   m[1],
				Metric:      types.MetricMilliseconds,
				Unit:        m[2],
			}
		},
	},
	{
		family:  "vulnerability",
		pattern: zeroVulnerability,
		build: func(m []string) types.QualityStandard {
			return types.QualityStandard{
				Category:    types.CategorySecurity,
				Name:        types.StandardVulnerability,
				Requirement: "零漏洞容忍",
				Threshold:   "0",
				Metric:      types.MetricCount,
			}
		},
	},
}

// Families returns the metric family names in evaluation order.
func Families() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.family
	}
	return names
}

// Extract returns at most one standard per metric family, in rule order.
// Full-width digits and punctuation are folded to their narrow forms
// before matching. Text with no recognizable metrics yields nil.
func Extract(body string) []types.QualityStandard {
	if body == "" {
		return nil
	}
	text := width.Fold.String(body)

	var standards []types.QualityStandard
	for _, r := range rules {
		if m := r.pattern.FindStringSubmatch(text); m != nil {
			standards = append(standards, r.build(m))
		}
	}
	return standards
}

// HasZeroVulnerabilityPhrase reports whether text states a zero
// vulnerability tolerance anywhere.
func HasZeroVulnerabilityPhrase(text string) bool {
	return zeroVulnerability.MatchString(width.Fold.String(text))
}
