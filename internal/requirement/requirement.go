// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package requirement turns the functional-requirements section of a PRD
// into Requirement values.
package requirement

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/prdgate/pkg/types"
)

// SectionLabel is recorded as the origin of every extracted requirement.
const SectionLabel = "功能需求"

var (
	// subsectionHeading matches ### headings only; #### and deeper stay in
	// the description.
	subsectionHeading = regexp.MustCompile(`(?m)^###(?:[^#\n]|$)`)
	checkboxLine      = regexp.MustCompile(`^\s*[-*+]\s*\[[ xX]\]\s*(.+?)\s*$`)
	priorityMarker    = regexp.MustCompile(`(?i)(?:优先级|priority)[*_]*\s*[:：]\s*[*_]*\s*(P[0-3])\b`)
)

// Extract parses a functional-requirements section body. Each ###
// subsection becomes one Requirement; text before the first ### is
// ignored. IDs are the 1-based subsection index (FR-001, FR-002, ...); a
// blank subsection emits nothing but still takes its index.
func Extract(body string) []types.Requirement {
	idx := subsectionHeading.FindAllStringIndex(body, -1)
	if len(idx) == 0 {
		return nil
	}

	var reqs []types.Requirement
	for i, loc := range idx {
		end := len(body)
		if i+1 < len(idx) {
			end = idx[i+1][0]
		}
		// Skip the "###" marker itself; the heading text follows it.
		text := body[loc[0]+3 : end]

		name, desc, ok := splitSubsection(text)
		if !ok {
			continue
		}
		reqs = append(reqs, types.Requirement{
			ID:                 formatID(i + 1),
			Name:               name,
			Description:        desc,
			Section:            SectionLabel,
			AcceptanceCriteria: checkboxes(desc),
			Priority:           priority(desc),
		})
	}
	return reqs
}

// splitSubsection returns the first non-blank line as the name and the
// remaining lines as the description.
func splitSubsection(text string) (name, desc string, ok bool) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		name = strings.TrimSpace(line)
		desc = strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
		return name, desc, true
	}
	return "", "", false
}

func formatID(n int) string {
	return fmt.Sprintf("FR-%03d", n)
}

// checkboxes returns the text of every GitHub-style checkbox line in order.
func checkboxes(desc string) []string {
	criteria := []string{}
	for _, line := range strings.Split(desc, "\n") {
		if m := checkboxLine.FindStringSubmatch(line); m != nil {
			criteria = append(criteria, m[1])
		}
	}
	return criteria
}

func priority(desc string) string {
	if m := priorityMarker.FindStringSubmatch(desc); m != nil {
		return strings.ToUpper(m[1])
	}
	return types.DefaultPriority
}
