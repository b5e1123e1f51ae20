package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrz1836/olympus/internal/constants"
	"github.com/mrz1836/olympus/internal/ctxutil"
	"github.com/mrz1836/olympus/internal/domain"
)

type step struct {
	desc    string
	skills  []string
	agent   string
	minutes int
}

type recipe struct {
	name     string
	keywords []string
	steps    []step
}

// recipes are checked in order; the first whose keyword appears in the
// description wins. The last entry is the generic catch-all.
//
//nolint:gochecknoglobals // static decomposition table
var recipes = []recipe{
	{
		name:     "social_media",
		keywords: []string{"社交媒体", "内容计划", "social media"},
		steps: []step{
			{"调研目标受众和行业趋势", []string{"research", "analysis"}, "athena", 45},
			{"制定内容主题和发布日历", []string{"planning", "strategy", "social_media"}, "apollo", 30},
			{"撰写每日文案草稿", []string{"writing", "copywriting"}, "apollo", 90},
			{"设计视觉风格和配图建议", []string{"design", "visual"}, "hephaestus", 60},
			{"质量审核与优化", []string{"review", "quality_control"}, "themis", 30},
		},
	},
	{
		name:     "research",
		keywords: []string{"研究", "报告", "research", "report"},
		steps: []step{
			{"定义研究范围和问题", []string{"analysis", "planning"}, "athena", 30},
			{"搜集和整理资料", []string{"research", "data_collection"}, "athena", 90},
			{"分析和综合信息", []string{"analysis", "synthesis"}, "athena", 60},
			{"撰写研究报告", []string{"writing", "reporting"}, "apollo", 60},
		},
	},
	{
		name:     "coding",
		keywords: []string{"代码", "编程", "code"},
		steps: []step{
			{"需求分析和架构设计", []string{"analysis", "architecture"}, "daedalus", 45},
			{"核心功能实现", []string{"coding", "implementation"}, "hephaestus", 120},
			{"单元测试编写", []string{"testing", "quality_control"}, "themis", 45},
			{"代码审查和优化", []string{"review", "optimization"}, "themis", 30},
		},
	},
	{
		name:     "web_development",
		keywords: []string{"网站", "开发", "website"},
		steps: []step{
			{"需求分析和原型设计", []string{"analysis", "design"}, "daedalus", 60},
			{"前端页面开发", []string{"frontend", "html", "css", "javascript"}, "hephaestus", 120},
			{"后端 API 开发", []string{"backend", "api", "database"}, "hephaestus", 120},
			{"数据库设计与实现", []string{"database", "sql"}, "daedalus", 60},
			{"部署配置和测试", []string{"devops", "deployment", "testing"}, "hephaestus", 60},
		},
	},
	{
		name: "generic",
		steps: []step{
			{"理解任务需求和目标", []string{"analysis"}, "athena", 20},
			{"制定执行计划", []string{"planning"}, "hermes", 30},
			{"执行核心任务", []string{"execution"}, "hephaestus", 90},
			{"质量检查与交付", []string{"review", "quality_control"}, "themis", 20},
		},
	},
}

//nolint:gochecknoglobals // static artifact table
var mockArtifacts = map[string][]string{
	"athena":     {"调研报告.md", "数据分析.xlsx"},
	"apollo":     {"内容日历.xlsx", "文案草稿.docx", "视觉指南.pdf"},
	"hephaestus": {"main.py", "tests.py", "README.md"},
	"themis":     {"审核报告.md", "优化建议列表.txt"},
	"hermes":     {"架构设计.md", "技术方案.docx"},
	"daedalus":   {"system_design.md", "api_docs.md"},
	"muse":       {"文章草稿.md", "灵感笔记.txt"},
	"hestia":     {"任务清单.xlsx", "质量报告.md"},
	"aphrodite":  {"营销策略.md", "品牌指南.pdf"},
}

// Mock is a deterministic collaborator used when no LLM is configured and
// as the fallback when one fails.
type Mock struct {
	newID func() string
}

// NewMock returns a Mock that generates short uuid-based subtask ids.
func NewMock() *Mock {
	return &Mock{newID: shortID}
}

// TemplateName returns the name of the template Decompose would use.
func TemplateName(description string) string {
	return matchRecipe(description).name
}

func matchRecipe(description string) *recipe {
	lower := strings.ToLower(description)
	for i := range recipes {
		for _, kw := range recipes[i].keywords {
			if strings.Contains(lower, kw) {
				return &recipes[i]
			}
		}
	}
	return &recipes[len(recipes)-1]
}

// Decompose returns the keyword-routed template for description.
func (m *Mock) Decompose(ctx context.Context, description string, _ map[string]any) ([]domain.Subtask, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	r := matchRecipe(description)
	out := make([]domain.Subtask, 0, len(r.steps))
	for _, s := range r.steps {
		out = append(out, domain.Subtask{
			ID:               m.newID(),
			Description:      s.desc,
			RequiredSkills:   append([]string(nil), s.skills...),
			AgentType:        s.agent,
			EstimatedMinutes: s.minutes,
			Status:           constants.SubtaskStatusPending,
		})
	}
	return out, nil
}

// Execute always succeeds with a canned result for the agent type.
func (m *Mock) Execute(ctx context.Context, agentType, description string, _ map[string]any) (*domain.ExecutionResult, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	artifacts, ok := mockArtifacts[agentType]
	if !ok {
		artifacts = []string{"output.txt"}
	}
	return &domain.ExecutionResult{
		Success:       true,
		Output:        fmt.Sprintf("[%s] 完成任务：%s", agentType, truncate(description, 50)),
		ExecutionTime: constants.DefaultExecutionMinutes,
		Artifacts:     append([]string(nil), artifacts...),
		Logs:          []string{fmt.Sprintf("执行 %s...", truncate(description, 30))},
		Confidence:    constants.DefaultConfidence,
		Agent:         agentType,
	}, nil
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
