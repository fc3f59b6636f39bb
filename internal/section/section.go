// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package section isolates heading-delimited sections of a Markdown PRD.
// All functions are pure and return empty results for input that does not
// follow the expected heading conventions.
package section

import (
	"regexp"
	"strings"
)

// Heading alternations for the sections a PRD is expected to contain.
// Chinese and English labels are both accepted.
const (
	GoalsPattern       = `产品目标|核心目标|目标|Goals?|Objectives?`
	FunctionalPattern  = `功能需求|功能要求|Functional Requirements?|Features?`
	QualityPattern     = `质量要求|质量标准|非功能性?需求|Quality Requirements?|Quality Standards?|Non-Functional Requirements?`
	AcceptancePattern  = `验收标准|验收条件|Acceptance Criteria`
	ConstraintsPattern = `技术约束|技术限制|Technical Constraints?|Constraints?`
)

const (
	bold           = `(?:\*\*|__)?`
	labelSeparator = `[(（\[【:：/|&,，、\-与和及]`
)

var (
	// nextHeading matches a level-2 heading line. ### and deeper do not match.
	nextHeading = regexp.MustCompile(`(?m)^##(?:[^#\n]|$)`)
	titleLine   = regexp.MustCompile(`(?m)^#[ \t]+(.+?)[ \t]*\r?$`)
	listItem    = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)、])\s+(?:\[[ xX]\]\s*)?(.+?)\s*$`)
)

// headingRegexp builds the matcher for a level-2 heading whose label is one
// of the alternatives in pattern. An ordinal prefix ("1.", "一、") and bold
// markers around the label are tolerated. Text after the label is allowed
// only when it starts with a separator, so "## 功能需求（MVP）" and
// "## 质量要求与标准" match while "## 目标用户" does not.
func headingRegexp(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(`(?im)^##[ \t]*` + bold +
		`(?:(?:\d+|[一二三四五六七八九十]+)[.、)][ \t]*)?` + bold +
		`(?:` + pattern + `)` + bold +
		`(?:[ \t]*` + labelSeparator + `.*)?[ \t]*\r?$`)
}

// Extract returns the body of the first ## heading matching pattern, up to
// the next ## heading or the end of content. ### subheadings inside the
// range are kept. The result is trimmed of surrounding whitespace. Extract
// returns "" when no heading matches or pattern does not compile.
func Extract(content, pattern string) string {
	re, err := headingRegexp(pattern)
	if err != nil {
		return ""
	}
	loc := re.FindStringIndex(content)
	if loc == nil {
		return ""
	}

	start := loc[1]
	if start < len(content) && content[start] == '\n' {
		start++
	}
	rest := content[start:]
	if next := nextHeading.FindStringIndex(rest); next != nil {
		rest = rest[:next[0]]
	}
	return strings.TrimSpace(rest)
}

// Title returns the text of the first level-1 heading, or "".
func Title(content string) string {
	if m := titleLine.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	return ""
}

// ListItems returns the text of each bullet, numbered, or checkbox line in
// body, with the list marker removed, in source order.
func ListItems(body string) []string {
	var items []string
	for _, line := range strings.Split(body, "\n") {
		if m := listItem.FindStringSubmatch(line); m != nil {
			items = append(items, m[1])
		}
	}
	return items
}
