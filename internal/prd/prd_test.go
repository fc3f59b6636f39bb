// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prd

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/prdgate/internal/derive"
	"github.com/pdiddy/prdgate/internal/trace"
	"github.com/pdiddy/prdgate/pkg/types"
)

const orderPRD = `# 订单中心 PRD

版本：v2.3

## 产品目标

- 下单转化率提升 10%
- 客服工单下降 30%

## 功能需求

### 用户登录安全
登录需要满足性能要求。
优先级：P0
- [ ] 错误密码 5 次锁定

### 订单 API
对外提供订单查询 API。
- [x] 支持分页

## 质量要求

- 测试覆盖率：≥ 95%
- 圈复杂度：≤ 8
- 响应时间：< 300ms
- 安全：零漏洞

## 验收标准

- [ ] 所有 P0 需求上线
- [ ] 压测通过

## 技术约束

- Go 1.25
- 仅使用 SQLite
`

func quietParser(cfg types.ParserConfig) *Parser {
	return NewParser(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writePRD(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParse(t *testing.T) {
	path := writePRD(t, t.TempDir(), "PRD.md", orderPRD)

	doc, err := quietParser(types.ParserConfig{}).Parse(path)
	require.NoError(t, err)

	assert.Equal(t, "订单中心 PRD", doc.Title)
	assert.Equal(t, "2.3", doc.Version)
	assert.Equal(t, path, doc.Path)
	assert.Equal(t, []string{"下单转化率提升 10%", "客服工单下降 30%"}, doc.Goals)
	assert.Equal(t, []string{"所有 P0 需求上线", "压测通过"}, doc.AcceptanceCriteria)
	assert.Equal(t, []string{"Go 1.25", "仅使用 SQLite"}, doc.TechnicalConstraints)
	assert.Equal(t, orderPRD, doc.RawContent)

	require.Len(t, doc.FunctionalRequirements, 2)
	assert.Equal(t, "FR-001", doc.FunctionalRequirements[0].ID)
	assert.Equal(t, "用户登录安全", doc.FunctionalRequirements[0].Name)
	assert.Equal(t, "P0", doc.FunctionalRequirements[0].Priority)
	assert.Equal(t, []string{"错误密码 5 次锁定"}, doc.FunctionalRequirements[0].AcceptanceCriteria)
	assert.Equal(t, "FR-002", doc.FunctionalRequirements[1].ID)
	assert.Equal(t, []string{"支持分页"}, doc.FunctionalRequirements[1].AcceptanceCriteria)

	require.Len(t, doc.QualityRequirements, 4)
	cov, ok := doc.FindStandard(types.CategoryTesting, types.StandardCoverage)
	require.True(t, ok)
	assert.Equal(t, "95", cov.Threshold)
}

func TestParseEndToEndDerivation(t *testing.T) {
	path := writePRD(t, t.TempDir(), "PRD.md", orderPRD)
	doc, err := quietParser(types.ParserConfig{}).Parse(path)
	require.NoError(t, err)

	th := derive.QualityStandards(doc)
	assert.Equal(t, 95, th.Testing.CoverageThreshold)
	assert.Equal(t, 8, th.CodeQuality.MaxComplexity)
	assert.Equal(t, 300, th.Performance.ResponseTimeMS)

	tc := derive.ToolConfig(doc)
	assert.Equal(t, types.SeverityLow, tc.Bandit.Severity)
	assert.Equal(t, 95, tc.Coverage.FailUnder)

	m := trace.Map(doc)
	assert.Equal(t, []string{"src/security/**", "src/auth/**", "src/core/**", "src/cache/**"}, m["FR-001"])
	assert.Equal(t, []string{"src/api/**"}, m["FR-002"])
}

func TestParseMalformedCoverageKeepsDefault(t *testing.T) {
	content := "# PRD\n\n## 质量要求\n\n测试覆盖率：abc%\n"
	path := writePRD(t, t.TempDir(), "prd.md", content)

	doc, err := quietParser(types.ParserConfig{}).Parse(path)
	require.NoError(t, err)
	require.Len(t, doc.QualityRequirements, 1)
	assert.Equal(t, "abc", doc.QualityRequirements[0].Threshold)
	assert.Equal(t, 100, derive.QualityStandards(doc).Testing.CoverageThreshold)
}

func TestAssembleDecoratedHeadingsAndLookalikeProse(t *testing.T) {
	content := "# Gateway\n\n" +
		"## 功能需求（MVP）\n\n### 路由\n- [ ] 按前缀转发\n\n" +
		"## **质量要求**\n\n" +
		"- 测试覆盖率 ≥ 85%\n" +
		"- 时间复杂度 O(n^2) 以内\n" +
		"- Response time for 5 services < 250ms\n" +
		"- 上线时最多允许 10 个漏洞\n"

	doc := Assemble(content)
	require.Len(t, doc.FunctionalRequirements, 1)
	assert.Equal(t, "路由", doc.FunctionalRequirements[0].Name)
	require.Len(t, doc.QualityRequirements, 2)

	th := derive.QualityStandards(doc)
	assert.Equal(t, 85, th.Testing.CoverageThreshold)
	assert.Equal(t, 10, th.CodeQuality.MaxComplexity)
	assert.Equal(t, 250, th.Performance.ResponseTimeMS)
	assert.Equal(t, types.SeverityMedium, derive.ToolConfig(doc).Bandit.Severity)
}

func TestParseMissingFile(t *testing.T) {
	_, err := quietParser(types.ParserConfig{}).Parse(filepath.Join(t.TempDir(), "nope.md"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading requirements document")
}

func TestParseFreeFormDocument(t *testing.T) {
	path := writePRD(t, t.TempDir(), "notes.md", "just some notes without headings")

	doc, err := quietParser(types.ParserConfig{}).Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "notes", doc.Title)
	assert.Equal(t, types.UnknownVersion, doc.Version)
	assert.Empty(t, doc.Goals)
	assert.NotNil(t, doc.Goals)
	assert.Empty(t, doc.FunctionalRequirements)
	assert.Empty(t, doc.QualityRequirements)
}

func TestParseYAMLDocumentIsNotSectioned(t *testing.T) {
	path := writePRD(t, t.TempDir(), "prd.yaml", "version: 1.4\n## 功能需求\n### not parsed\n")

	doc, err := quietParser(types.ParserConfig{}).Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "1.4", doc.Version)
	assert.Equal(t, "prd", doc.Title)
	assert.Empty(t, doc.FunctionalRequirements)
}

func TestParseTruncatesLargeDocuments(t *testing.T) {
	var logBuf bytes.Buffer
	p := NewParser(types.ParserConfig{MaxDocumentBytes: 40}, slog.New(slog.NewTextHandler(&logBuf, nil)))

	content := "# 标题\n" + strings.Repeat("测试", 50)
	path := writePRD(t, t.TempDir(), "PRD.md", content)

	doc, err := p.Parse(path)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(doc.RawContent), 40)
	assert.True(t, strings.HasPrefix(content, doc.RawContent))
	assert.Contains(t, logBuf.String(), "truncated")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "ab", truncate("abc", 2))
	// "测" is three bytes; cutting inside it backs off to the rune start.
	assert.Equal(t, "a", truncate("a测", 2))
	assert.Equal(t, "", truncate("测", 1))
}

func TestParseProject(t *testing.T) {
	root := t.TempDir()
	p := quietParser(types.ParserConfig{ProjectRoot: root})

	doc, loc, err := p.ParseProject("")
	require.NoError(t, err)
	assert.Nil(t, doc)
	assert.Nil(t, loc)

	writePRD(t, root, "docs/PRD.md", orderPRD)
	doc, loc, err = p.ParseProject("")
	require.NoError(t, err)
	require.NotNil(t, doc)
	require.NotNil(t, loc)
	assert.Equal(t, filepath.Join(root, "docs", "PRD.md"), loc.Path)
	assert.Equal(t, "2.3", loc.Version)
	assert.Len(t, doc.FunctionalRequirements, 2)
}

func TestParseConcurrent(t *testing.T) {
	path := writePRD(t, t.TempDir(), "PRD.md", orderPRD)
	p := quietParser(types.ParserConfig{})

	var wg sync.WaitGroup
	docs := make([]*types.PRDDocument, 8)
	for i := range docs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d, err := p.Parse(path)
			if err == nil {
				docs[i] = d
			}
		}(i)
	}
	wg.Wait()

	for _, d := range docs {
		require.NotNil(t, d)
		assert.Equal(t, docs[0], d)
	}
}
