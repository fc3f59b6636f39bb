// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package locate finds the requirements document under a project root and
// reads its version marker.
package locate

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/pdiddy/prdgate/pkg/types"
)

// candidates is the fixed priority list of relative paths and globs. The
// first entry that exists wins; later entries are never consulted.
var candidates = []string{
	"PRD.md",
	"prd.md",
	"docs/PRD.md",
	"docs/prd.md",
	"requirements.md",
	"docs/requirements.md",
	".kiro/specs/*/requirements.md",
	"PRD.yaml",
	"prd.yaml",
	"PRD.json",
	"prd.json",
}

// versionPatterns are tried in order against the whole document.
var versionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:版本号?|version)[*_]*\s*[:：]?\s*[*_]*\s*v?(\d+\.\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)\bv(\d+\.\d+(?:\.\d+)?)\b`),
}

// Candidates returns a copy of the candidate list in priority order.
func Candidates() []string {
	out := make([]string, len(candidates))
	copy(out, candidates)
	return out
}

// Detect walks the candidate list under root and returns the first document
// that exists. It returns nil, nil when nothing is found. Reading the found
// document to extract its version is the only failure that is returned.
func Detect(root string) (*types.PRDLocation, error) {
	rel, ok := firstExisting(root)
	if !ok {
		return nil, nil
	}

	path := filepath.Join(root, filepath.FromSlash(rel))
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return &types.PRDLocation{
		Path:    path,
		Format:  FormatOf(path),
		Version: ExtractVersion(string(content)),
	}, nil
}

// firstExisting returns the slash-separated relative path of the first
// candidate present under root.
func firstExisting(root string) (string, bool) {
	fsys := os.DirFS(root)
	for _, c := range candidates {
		if isGlob(c) {
			matches, err := doublestar.Glob(fsys, c, doublestar.WithFilesOnly())
			if err != nil || len(matches) == 0 {
				continue
			}
			return matches[0], true
		}
		info, err := fs.Stat(fsys, c)
		if err == nil && info.Mode().IsRegular() {
			return c, true
		}
	}
	return "", false
}

func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// FormatOf maps a file extension to a document format. Unknown extensions
// are treated as markdown.
func FormatOf(path string) types.DocumentFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return types.FormatYAML
	case ".json":
		return types.FormatJSON
	default:
		return types.FormatMarkdown
	}
}

// ExtractVersion returns the version from the first matching pattern, or
// types.UnknownVersion.
func ExtractVersion(content string) string {
	for _, re := range versionPatterns {
		if m := re.FindStringSubmatch(content); m != nil {
			return m[1]
		}
	}
	return types.UnknownVersion
}
