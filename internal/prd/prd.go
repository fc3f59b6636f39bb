// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prd assembles a PRDDocument from a requirements file: it reads the
// file once, isolates the named sections, and runs the requirement and
// quality extractors over them.
//
// A Parser holds only configuration and is safe for concurrent use.
package prd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/prdgate/internal/locate"
	"github.com/pdiddy/prdgate/internal/quality"
	"github.com/pdiddy/prdgate/internal/requirement"
	"github.com/pdiddy/prdgate/internal/section"
	"github.com/pdiddy/prdgate/pkg/types"
)

// Parser locates and parses requirements documents.
type Parser struct {
	cfg    types.ParserConfig
	logger *slog.Logger
}

// NewParser returns a Parser. A nil logger uses slog.Default.
func NewParser(cfg types.ParserConfig, logger *slog.Logger) *Parser {
	if cfg.MaxDocumentBytes <= 0 {
		cfg.MaxDocumentBytes = types.DefaultMaxDocumentBytes
	}
	if cfg.ProjectRoot == "" {
		cfg.ProjectRoot = "."
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{cfg: cfg, logger: logger}
}

// Detect finds the requirements document under root, or under the
// configured project root when root is empty. It returns nil, nil when no
// document exists.
func (p *Parser) Detect(root string) (*types.PRDLocation, error) {
	if root == "" {
		root = p.cfg.ProjectRoot
	}
	loc, err := locate.Detect(root)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		p.logger.Debug("no requirements document found", "root", root)
		return nil, nil
	}
	p.logger.Debug("requirements document found", "path", loc.Path, "format", loc.Format, "version", loc.Version)
	return loc, nil
}

// ParseProject detects and parses the project's requirements document. It
// returns nil, nil, nil when there is none.
func (p *Parser) ParseProject(root string) (*types.PRDDocument, *types.PRDLocation, error) {
	loc, err := p.Detect(root)
	if err != nil || loc == nil {
		return nil, nil, err
	}
	doc, err := p.Parse(loc.Path)
	if err != nil {
		return nil, loc, err
	}
	return doc, loc, nil
}

// Parse reads path and builds a PRDDocument. Failing to read the file is
// the only error; content that does not follow the expected conventions
// produces empty fields. Only markdown is parsed into sections; yaml and
// json documents yield title, version, and raw content.
func (p *Parser) Parse(path string) (*types.PRDDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading requirements document %s: %w", path, err)
	}

	content := string(data)
	if len(content) > p.cfg.MaxDocumentBytes {
		p.logger.Warn("requirements document truncated",
			"path", path,
			"size", len(content),
			"limit", p.cfg.MaxDocumentBytes)
		content = truncate(content, p.cfg.MaxDocumentBytes)
	}

	var doc *types.PRDDocument
	if locate.FormatOf(path) == types.FormatMarkdown {
		doc = Assemble(content)
	} else {
		doc = &types.PRDDocument{
			Version:    locate.ExtractVersion(content),
			RawContent: content,
		}
	}
	doc.Path = path
	if doc.Title == "" {
		base := filepath.Base(path)
		doc.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	p.logger.Info("parsed requirements document",
		"path", path,
		"version", doc.Version,
		"requirements", len(doc.FunctionalRequirements),
		"standards", len(doc.QualityRequirements))
	return doc, nil
}

// Assemble builds a PRDDocument from markdown text without touching the
// filesystem.
func Assemble(content string) *types.PRDDocument {
	return &types.PRDDocument{
		Title:                  section.Title(content),
		Version:                locate.ExtractVersion(content),
		Goals:                  nonNil(section.ListItems(section.Extract(content, section.GoalsPattern))),
		FunctionalRequirements: nonNil(requirement.Extract(section.Extract(content, section.FunctionalPattern))),
		QualityRequirements:    nonNil(quality.Extract(section.Extract(content, section.QualityPattern))),
		AcceptanceCriteria:     nonNil(section.ListItems(section.Extract(content, section.AcceptancePattern))),
		TechnicalConstraints:   nonNil(section.ListItems(section.Extract(content, section.ConstraintsPattern))),
		RawContent:             content,
	}
}

// nonNil keeps empty lists encoded as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// truncate cuts s to at most max bytes without splitting a UTF-8 sequence.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
