package insight

import (
	"math"
	"strings"

	"github-resume-monitor/internal/domain"
)

// AI SDK 依赖名，出现在依赖列表里说明 AI 是产品功能的一部分
var aiSDKNames = []string{
	"openai", "anthropic", "langchain", "transformers",
	"tensorflow", "torch", "llamaindex", "ollama",
}

// 提交记录里的 AI 协作痕迹
var aiCommitMarkers = []string{
	"ai", "gpt", "claude", "copilot", "llm", "generated",
}

// 能力子维度评分表，声明顺序即输出顺序
var capabilityTable = []labelKeywords{
	{"代码生成", []string{"copilot", "codegen", "generate", "gpt", "claude", "llm"}},
	{"数据处理", []string{"pandas", "numpy", "etl", "data", "csv", "analysis"}},
	{"自动化集成", []string{"automation", "workflow", "pipeline", "schedule", "bot"}},
	{"文本理解", []string{"nlp", "ocr", "text", "prompt", "embedding", "token"}},
	{"工程实践", []string{"test", "ci", "docker", "lint", "refactor"}},
}

// 使用模式
const (
	patternProductFeature  = "产品功能型"
	patternDeveloperTool   = "开发工具型"
	patternThinkingPartner = "思维伙伴型"
)

// CapabilityGenerator 从依赖名、关键文件、提交记录和 README 中画出 AI 使用能力画像
// 和哲学生成器同构：关键词表 + 频次统计 + 有序规则映射
type CapabilityGenerator struct{}

// NewCapabilityGenerator 创建 AI 能力画像生成器
func NewCapabilityGenerator() *CapabilityGenerator {
	return &CapabilityGenerator{}
}

// Generate 生成 AI 能力画像
func (g *CapabilityGenerator) Generate(analyses []*domain.ProjectAnalysis) *domain.AICapabilityProfile {
	total := len(analyses)

	profile := &domain.AICapabilityProfile{}

	sdkHits := 0
	commitHits := 0
	capabilityHits := make(map[string]int, len(capabilityTable))

	for _, analysis := range analyses {
		if analysis.AICollaboration {
			profile.AIProjectCount++
		}

		deps := strings.ToLower(strings.Join(analysis.Repo.Dependencies, " "))
		if containsAny(deps, aiSDKNames) {
			sdkHits++
		}

		commits := strings.ToLower(strings.Join(analysis.Repo.CommitMessages, " "))
		if containsAny(commits, aiCommitMarkers) {
			commitHits++
		}

		corpus := capabilityCorpus(analysis.Repo)
		for _, entry := range capabilityTable {
			if containsAny(corpus, entry.keywords) {
				capabilityHits[entry.label]++
			}
		}
	}

	profile.UsagePattern, profile.PatternNote = classifyUsagePattern(total, sdkHits, commitHits)

	profile.SubScores = make([]domain.NameScore, 0, len(capabilityTable))
	for _, entry := range capabilityTable {
		score := 0.0
		if total > 0 {
			score = math.Round(float64(capabilityHits[entry.label])/float64(total)*100) / 100
		}
		profile.SubScores = append(profile.SubScores, domain.NameScore{Name: entry.label, Score: score})
	}

	return profile
}

// capabilityCorpus 拼接单个仓库的 AI 相关文本：依赖 + 关键文件 + 提交 + README
func capabilityCorpus(repo *domain.Repository) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(repo.Dependencies, " "))
	sb.WriteByte(' ')
	for _, content := range repo.KeyFiles {
		sb.WriteString(content)
		sb.WriteByte(' ')
	}
	sb.WriteString(strings.Join(repo.CommitMessages, " "))
	sb.WriteByte(' ')
	sb.WriteString(repo.ReadmeContent)
	return strings.ToLower(sb.String())
}

// classifyUsagePattern 有序比率规则，先命中先得
func classifyUsagePattern(total, sdkHits, commitHits int) (string, string) {
	if total == 0 {
		return patternThinkingPartner, "项目数据不足，AI 更多作为思考与探索的伙伴出现。"
	}

	sdkRatio := float64(sdkHits) / float64(total)
	commitRatio := float64(commitHits) / float64(total)

	switch {
	case sdkRatio > 0.3:
		return patternProductFeature, "AI SDK 频繁出现在项目依赖中，AI 能力直接内建为产品功能。"
	case commitRatio > 0.4:
		return patternDeveloperTool, "提交记录显示 AI 深度参与了开发过程，AI 是高频使用的开发工具。"
	default:
		return patternThinkingPartner, "AI 更多作为思考与写作的伙伴出现，渗透在项目构思与文档中。"
	}
}
