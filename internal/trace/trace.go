// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package trace maps functional requirements to the code paths believed to
// implement them.
package trace

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/pdiddy/prdgate/pkg/types"
)

// FallbackPattern is assigned to requirements that match no keyword.
const FallbackPattern = "src/**"

// keywordPaths binds a domain keyword to the globs it implies. Matching is a
// case-sensitive substring test over the requirement name and description.
type keywordPaths struct {
	keyword  string
	patterns []string
}

var keywordTable = []keywordPaths{
	{keyword: "安全", patterns: []string{"src/security/**", "src/auth/**"}},
	{keyword: "性能", patterns: []string{"src/core/**", "src/cache/**"}},
	{keyword: "数据库", patterns: []string{"src/models/**", "src/database/**"}},
	{keyword: "UI", patterns: []string{"src/ui/**", "src/components/**"}},
	{keyword: "API", patterns: []string{"src/api/**"}},
	{keyword: "测试", patterns: []string{"tests/**"}},
}

// Keywords returns the recognized keywords in table order.
func Keywords() []string {
	out := make([]string, len(keywordTable))
	for i, k := range keywordTable {
		out[i] = k.keyword
	}
	return out
}

// Map assigns each requirement the globs of every keyword found in its
// name and description. Patterns from several keywords are concatenated
// without deduplication. Requirements with no keyword get FallbackPattern.
func Map(doc *types.PRDDocument) map[string][]string {
	out := make(map[string][]string)
	if doc == nil {
		return out
	}
	for _, req := range doc.FunctionalRequirements {
		out[req.ID] = PatternsFor(req)
	}
	return out
}

// PatternsFor returns the glob list for a single requirement.
func PatternsFor(req types.Requirement) []string {
	text := req.Name + req.Description
	var patterns []string
	for _, k := range keywordTable {
		if strings.Contains(text, k.keyword) {
			patterns = append(patterns, k.patterns...)
		}
	}
	if len(patterns) == 0 {
		return []string{FallbackPattern}
	}
	return patterns
}

// Resolution reports how many files under the project root one mapped
// pattern matches.
type Resolution struct {
	RequirementID string `json:"requirement_id" yaml:"requirement_id"`
	Pattern       string `json:"pattern" yaml:"pattern"`
	Matches       int    `json:"matches" yaml:"matches"`
}

// Resolve expands every pattern in m against the files under root. Results
// are ordered by requirement ID, then by pattern position. Each pattern is
// globbed once even when it appears under several requirements.
func Resolve(root string, m map[string][]string) ([]Resolution, error) {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fsys := os.DirFS(root)
	counts := make(map[string]int)
	var out []Resolution

	for _, id := range ids {
		for _, pattern := range m[id] {
			n, ok := counts[pattern]
			if !ok {
				matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
				if err != nil {
					return nil, fmt.Errorf("globbing %q for %s: %w", pattern, id, err)
				}
				n = len(matches)
				counts[pattern] = n
			}
			out = append(out, Resolution{RequirementID: id, Pattern: pattern, Matches: n})
		}
	}
	return out, nil
}

// Unmapped returns the IDs of requirements whose patterns match no files,
// in ID order.
func Unmapped(res []Resolution) []string {
	total := make(map[string]int)
	var order []string
	for _, r := range res {
		if _, seen := total[r.RequirementID]; !seen {
			order = append(order, r.RequirementID)
		}
		total[r.RequirementID] += r.Matches
	}
	var ids []string
	for _, id := range order {
		if total[id] == 0 {
			ids = append(ids, id)
		}
	}
	return ids
}
