// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package section

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePRD = `# 订单系统 PRD

版本：v2.3

## 产品目标

- 提升下单转化率
- 降低客服工单量

## 功能需求

### 用户登录
支持手机号登录。
- [ ] 验证码 60 秒内有效

### 订单查询
- [x] 支持按状态筛选

## 质量要求

测试覆盖率：≥ 95%

## Goals

- this repeat is ignored
`

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		content string
		pattern string
		want    string
	}{
		{
			name:    "bilingual alternation picks chinese heading",
			content: samplePRD,
			pattern: GoalsPattern,
			want:    "- 提升下单转化率\n- 降低客服工单量",
		},
		{
			name:    "level-3 subheadings are preserved",
			content: samplePRD,
			pattern: FunctionalPattern,
			want:    "### 用户登录\n支持手机号登录。\n- [ ] 验证码 60 秒内有效\n\n### 订单查询\n- [x] 支持按状态筛选",
		},
		{
			name:    "english heading case-insensitive",
			content: "## GOALS\nship it\n## Next\nother",
			pattern: GoalsPattern,
			want:    "ship it",
		},
		{
			name:    "section runs to end of document",
			content: "intro\n\n## Technical Constraints\n\n- Go 1.25\n- SQLite only\n",
			pattern: ConstraintsPattern,
			want:    "- Go 1.25\n- SQLite only",
		},
		{
			name:    "numbered heading with colon",
			content: "## 3. 验收标准：\n- [ ] 上线\n",
			pattern: AcceptancePattern,
			want:    "- [ ] 上线",
		},
		{
			name:    "chinese ordinal prefix",
			content: "## 一、产品目标\n目标一\n",
			pattern: GoalsPattern,
			want:    "目标一",
		},
		{
			name:    "level-3 heading alone does not match",
			content: "### 目标\nnope\n",
			pattern: GoalsPattern,
			want:    "",
		},
		{
			name:    "heading with extra words does not match",
			content: "## 目标用户\n学生\n",
			pattern: GoalsPattern,
			want:    "",
		},
		{
			name:    "full-width parenthetical after label",
			content: "## 功能需求（MVP）\n### 登录\n## 其他\n",
			pattern: FunctionalPattern,
			want:    "### 登录",
		},
		{
			name:    "english parenthetical after label",
			content: "## Functional Requirements (v1)\n### Login\n",
			pattern: FunctionalPattern,
			want:    "### Login",
		},
		{
			name:    "conjunction suffix",
			content: "## 质量要求与标准\n测试覆盖率 ≥ 90%\n",
			pattern: QualityPattern,
			want:    "测试覆盖率 ≥ 90%",
		},
		{
			name:    "bold label",
			content: "## **质量要求**\n圈复杂度 ≤ 10\n",
			pattern: QualityPattern,
			want:    "圈复杂度 ≤ 10",
		},
		{
			name:    "bold numbered label with colon",
			content: "## **2. 验收标准**：\n- [ ] 上线\n",
			pattern: AcceptancePattern,
			want:    "- [ ] 上线",
		},
		{
			name:    "dash suffix",
			content: "## Goals - Q3\nship it\n",
			pattern: GoalsPattern,
			want:    "ship it",
		},
		{
			name:    "word suffix without separator does not match",
			content: "## Features overview\nnope\n",
			pattern: FunctionalPattern,
			want:    "",
		},
		{
			name:    "negated label does not match",
			content: "## 非功能需求\n响应时间 < 200ms\n",
			pattern: FunctionalPattern,
			want:    "",
		},
		{
			name:    "missing heading returns empty",
			content: samplePRD,
			pattern: ConstraintsPattern,
			want:    "",
		},
		{
			name:    "invalid pattern returns empty",
			content: samplePRD,
			pattern: "(unclosed",
			want:    "",
		},
		{
			name:    "empty content",
			content: "",
			pattern: GoalsPattern,
			want:    "",
		},
		{
			name:    "windows line endings",
			content: "## Goals\r\n- fast\r\n## Other\r\n",
			pattern: GoalsPattern,
			want:    "- fast",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.content, tt.pattern))
		})
	}
}

func TestExtractIsContiguousSubstring(t *testing.T) {
	for _, p := range []string{GoalsPattern, FunctionalPattern, QualityPattern} {
		got := Extract(samplePRD, p)
		require.NotEmpty(t, got)
		assert.True(t, strings.Contains(samplePRD, got), "pattern %q", p)
	}
}

func TestExtractIsDeterministic(t *testing.T) {
	first := Extract(samplePRD, FunctionalPattern)
	second := Extract(samplePRD, FunctionalPattern)
	assert.Equal(t, first, second)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "订单系统 PRD", Title(samplePRD))
	assert.Equal(t, "", Title("## only level two\n"))
	assert.Equal(t, "Spaced", Title("preamble\n#   Spaced   \n"))
}

func TestListItems(t *testing.T) {
	body := "intro line\n- first\n* second\n+ third\n1. fourth\n2) fifth\n- [ ] sixth\n  - [x] seventh\n---\n"
	assert.Equal(t,
		[]string{"first", "second", "third", "fourth", "fifth", "sixth", "seventh"},
		ListItems(body))
	assert.Empty(t, ListItems(""))
}
