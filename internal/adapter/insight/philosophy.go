package insight

import (
	"fmt"
	"sort"
	"strings"

	"github-resume-monitor/internal/domain"
)

// labelKeywords 一条 标签 -> 关键词集合 的映射
type labelKeywords struct {
	label    string
	keywords []string
}

// 价值观检测表
var valueIndicators = []labelKeywords{
	{"效率的追求", []string{"automation", "batch", "quick", "fast", "efficient", "auto"}},
	{"极致的用户体验", []string{"ui", "ux", "interface", "user", "experience", "design"}},
	{"系统化思维", []string{"system", "architecture", "structure", "framework", "organize"}},
	{"持续学习与迭代", []string{"learn", "improve", "update", "version", "iteration"}},
	{"解决实际问题", []string{"solve", "fix", "tool", "utility", "helper", "process"}},
	{"开源共享精神", []string{"open", "share", "community", "public", "free"}},
	{"技术与商业的平衡", []string{"business", "value", "enterprise", "professional"}},
	{"创新与探索", []string{"new", "experiment", "explore", "innovative", "novel"}},
}

// 思维模式检测表
var thinkingPatternTable = []labelKeywords{
	{"问题拆解者", []string{"parse", "extract", "split", "separate", "decompose"}},
	{"流程优化者", []string{"workflow", "process", "pipeline", "automation", "streamline"}},
	{"工具创造者", []string{"tool", "utility", "generator", "converter", "builder"}},
	{"系统整合者", []string{"integrate", "combine", "merge", "connect", "sync"}},
	{"数据驱动者", []string{"data", "analysis", "statistics", "metrics", "report"}},
	{"用户同理者", []string{"user", "experience", "interface", "accessibility", "friendly"}},
}

// projectTrace 单个项目的哲学检测结果
type projectTrace struct {
	values   []string
	patterns []string
}

// PhilosophyGenerator 从项目轨迹中提炼个人哲学画像
// 与分类器同构：关键词表匹配 + 频次统计 + 固定规则映射到叙事文本
type PhilosophyGenerator struct{}

// NewPhilosophyGenerator 创建哲学洞察生成器
func NewPhilosophyGenerator() *PhilosophyGenerator {
	return &PhilosophyGenerator{}
}

// Generate 从所有项目分类结果生成哲学画像
func (g *PhilosophyGenerator) Generate(analyses []*domain.ProjectAnalysis) *domain.PersonalPhilosophy {
	philosophy := &domain.PersonalPhilosophy{}

	valueCounts := newCounter()
	patternCounts := newCounter()
	traces := make([]projectTrace, 0, len(analyses))

	for _, analysis := range analyses {
		trace := traceProject(analysis)
		traces = append(traces, trace)
		for _, v := range trace.values {
			valueCounts.add(v)
		}
		for _, p := range trace.patterns {
			patternCounts.add(p)
		}
	}

	philosophy.CoreValues = valueCounts.topNames(5)
	philosophy.ThinkingPatterns = patternCounts.topNames(4)

	philosophy.GrowthNarrative = growthNarrative(analyses)
	philosophy.GrowthStages = growthStages(analyses)
	philosophy.ProblemSolvingApproach = problemSolvingApproach(philosophy.ThinkingPatterns)
	philosophy.TechHumanityBalance = techHumanityView(analyses)
	philosophy.CreatorMindset = creatorMindset(traces)
	philosophy.AICollaborationView = aiView(analyses)
	philosophy.PhilosophyStatement = philosophyStatement(philosophy)
	philosophy.DeepInsights = deepInsights(philosophy, analyses)

	return philosophy
}

// traceProject 在 名称 + 描述 + 关键特性 的语料上做价值观和思维模式检测
func traceProject(analysis *domain.ProjectAnalysis) projectTrace {
	text := strings.ToLower(analysis.Repo.Name + " " + analysis.Repo.Description + " " +
		strings.Join(analysis.KeyFeatures, " "))

	var trace projectTrace
	for _, entry := range valueIndicators {
		if containsAny(text, entry.keywords) {
			trace.values = append(trace.values, entry.label)
		}
	}
	for _, entry := range thinkingPatternTable {
		if containsAny(text, entry.keywords) {
			trace.patterns = append(trace.patterns, entry.label)
		}
	}
	return trace
}

// growthNarrative 成长叙事，规则彼此独立，按声明顺序拼接
func growthNarrative(analyses []*domain.ProjectAnalysis) string {
	total := len(analyses)
	var narratives []string

	if total > 0 {
		aiCount := 0
		var totalComplexity float64
		types := make(map[string]bool)
		for _, analysis := range analyses {
			if analysis.AICollaboration {
				aiCount++
			}
			totalComplexity += analysis.ComplexityScore
			types[analysis.ProjectType] = true
		}

		if float64(aiCount)/float64(total) > 0.6 {
			narratives = append(narratives, "从早期的独立探索，逐渐发展为与 AI 深度协作的创作模式")
		}
		if totalComplexity/float64(total) > 0.4 {
			narratives = append(narratives, "项目复杂度的提升反映了技术能力的持续成长")
		}
		if len(types) > 3 {
			narratives = append(narratives, "跨越多个技术领域的探索体现了求知的广度")
		}
	}

	if len(narratives) == 0 {
		narratives = append(narratives, "在持续的项目实践中积累经验，形成独特的技术视角")
	}
	return strings.Join(narratives, "。") + "。"
}

// growthStages 按创建时间把项目分成早/中/晚三段，每段给一条固定描述
// 少于 4 个项目只有探索期，少于 7 个没有成熟期
func growthStages(analyses []*domain.ProjectAnalysis) []domain.GrowthStage {
	total := len(analyses)
	if total == 0 {
		return nil
	}

	sorted := make([]*domain.ProjectAnalysis, len(analyses))
	copy(sorted, analyses)
	// ISO 8601 字符串可以直接按字典序排时间
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Repo.CreatedAt < sorted[j].Repo.CreatedAt
	})

	var stages []domain.GrowthStage

	earlyEnd := total / 3
	if earlyEnd < 1 {
		earlyEnd = 1
	}
	early := sorted[:earlyEnd]
	var earlyTypes []string
	seen := make(map[string]bool)
	for _, analysis := range early {
		if !seen[analysis.ProjectType] {
			seen[analysis.ProjectType] = true
			earlyTypes = append(earlyTypes, analysis.ProjectType)
		}
	}
	if len(earlyTypes) > 2 {
		earlyTypes = earlyTypes[:2]
	}
	stages = append(stages, domain.GrowthStage{
		Stage:       "探索期",
		Description: fmt.Sprintf("初步涉猎 %s 等领域", strings.Join(earlyTypes, ", ")),
		Insight:     "建立技术基础，积累项目经验",
	})

	if total > 3 {
		mid := sorted[total/3 : 2*total/3]
		midAI := 0
		for _, analysis := range mid {
			if analysis.AICollaboration {
				midAI++
			}
		}
		description := "项目复杂度提升，深化技术实践"
		if midAI > 0 {
			description = "项目复杂度提升，开始探索 AI 协作"
		}
		stages = append(stages, domain.GrowthStage{
			Stage:       "深耕期",
			Description: description,
			Insight:     "形成技术方法论，提升问题解决能力",
		})
	}

	if total > 6 {
		late := sorted[2*total/3:]
		lateAI := 0
		for _, analysis := range late {
			if analysis.AICollaboration {
				lateAI++
			}
		}
		description := "技术能力全面成熟"
		if float64(lateAI)/float64(len(late)) > 0.5 {
			description = "AI 协作成为主流模式"
		}
		stages = append(stages, domain.GrowthStage{
			Stage:       "成熟期",
			Description: description,
			Insight:     "从执行者转变为创造者，形成独特的技术哲学",
		})
	}

	return stages
}

// problemSolvingApproach 由思维模式组合出问题解决哲学
func problemSolvingApproach(patterns []string) string {
	has := make(map[string]bool, len(patterns))
	for _, p := range patterns {
		has[p] = true
	}

	var approaches []string
	if has["问题拆解者"] {
		approaches = append(approaches, "善于将复杂问题拆解为可管理的模块")
	}
	if has["流程优化者"] {
		approaches = append(approaches, "追求通过系统化设计消除低效环节")
	}
	if has["工具创造者"] {
		approaches = append(approaches, "相信好的工具可以放大解决问题的能力")
	}
	if has["系统整合者"] {
		approaches = append(approaches, "擅长将分散的能力整合为完整的解决方案")
	}
	if len(approaches) == 0 {
		approaches = append(approaches, "以实践为导向，在项目中不断优化解决方案")
	}
	return strings.Join(approaches, "；") + "。"
}

// techHumanityView 按用户导向项目的占比选择固定表述
func techHumanityView(analyses []*domain.ProjectAnalysis) string {
	total := len(analyses)
	userOriented := 0
	userMarkers := []string{"用户", "ui", "界面", "web", "user"}
	for _, analysis := range analyses {
		features := strings.ToLower(strings.Join(analysis.KeyFeatures, " "))
		if containsAny(features, userMarkers) {
			userOriented++
		}
	}

	ratio := 0.0
	if total > 0 {
		ratio = float64(userOriented) / float64(total)
	}

	switch {
	case ratio > 0.5:
		return "技术是手段，用户体验是目的。在追求技术深度的同时，始终以用户价值为导向。"
	case ratio > 0.3:
		return "在技术实现与用户需求之间寻找平衡，相信好的技术应该是透明的、易用的。"
	default:
		return "以技术能力为根基，通过工具和系统的构建间接服务于用户需求。"
	}
}

// creatorMindset 按工具型项目占比选择固定表述
func creatorMindset(traces []projectTrace) string {
	total := len(traces)
	toolProjects := 0
	for _, trace := range traces {
		for _, p := range trace.patterns {
			if p == "工具创造者" {
				toolProjects++
				break
			}
		}
	}

	if total > 0 && float64(toolProjects) > float64(total)*0.4 {
		return "从使用工具到创造工具的转变，体现了从消费者到生产者的思维跃迁。每一个解决痛点的工具，都是对世界的一次微小改进。"
	}
	return "在解决实际问题的过程中，逐渐形成了将想法转化为可用产品的能力。创造的价值在于解决真实的需求。"
}

// aiView 按 AI 项目占比选择固定表述
func aiView(analyses []*domain.ProjectAnalysis) string {
	total := len(analyses)
	aiCount := 0
	for _, analysis := range analyses {
		if analysis.AICollaboration {
			aiCount++
		}
	}

	ratio := 0.0
	if total > 0 {
		ratio = float64(aiCount) / float64(total)
	}

	switch {
	case ratio > 0.6:
		return "AI 不是替代人的威胁，而是增强人的工具。与 AI 的深度协作让创造力得以放大，让想法更快地转化为现实。这是一种新的创作范式：人提供方向与判断，AI 提供执行与可能性。"
	case ratio > 0.3:
		return "AI 正在成为创作过程中的重要伙伴。它不仅是工具，更是思维的延伸。在人机协作中，人的价值在于判断力和创造力，AI 的价值在于可能性和效率。"
	default:
		return "AI 是值得探索的技术方向。在保持对技术本质理解的同时，逐步将 AI 融入工作流程，期待人机协作带来的新可能。"
	}
}

// philosophyStatement 一句话哲学宣言，先命中先得
func philosophyStatement(philosophy *domain.PersonalPhilosophy) string {
	hasValue := make(map[string]bool)
	for _, v := range philosophy.CoreValues {
		hasValue[v] = true
	}
	hasPattern := make(map[string]bool)
	for _, p := range philosophy.ThinkingPatterns {
		hasPattern[p] = true
	}

	switch {
	case hasValue["效率的追求"] && hasPattern["工具创造者"]:
		return "用代码自动化重复，用工具放大创造力，让技术成为人的延伸而非束缚。"
	case hasValue["极致的用户体验"]:
		return "技术的终极使命是服务于人，让复杂变得简单，让困难变得可能。"
	case hasValue["系统化思维"]:
		return "以系统的眼光看待问题，以工程的方法解决问题，以创造的心态面对世界。"
	case hasValue["持续学习与迭代"]:
		return "在不断的学习与迭代中成长，相信每一次优化都是向更好的接近。"
	default:
		return "在技术与创造的交汇处，寻找解决问题的最优路径，让想法成为现实。"
	}
}

// deepInsights 深层洞察，规则彼此独立，最多 3 条
func deepInsights(philosophy *domain.PersonalPhilosophy, analyses []*domain.ProjectAnalysis) []string {
	var insights []string
	total := len(analyses)

	aiCount := 0
	for _, analysis := range analyses {
		if analysis.AICollaboration {
			aiCount++
		}
	}

	if total > 0 && float64(aiCount) > float64(total)*0.5 {
		insights = append(insights,
			"高频的 AI 协作实践揭示了一个事实：未来的创造者不是与 AI 竞争，而是与 AI 共舞。掌握与 AI 协作的艺术，就是掌握未来创作的语言。")
	}

	for _, p := range philosophy.ThinkingPatterns {
		if p == "工具创造者" {
			insights = append(insights,
				"每一个工具的创造都是对世界的一次理解与改造。工具既是思想的外化，也是能力的结晶。好的工具能够让使用者专注于真正重要的事情。")
			break
		}
	}

	for _, v := range philosophy.CoreValues {
		if v == "效率的追求" {
			insights = append(insights,
				"对效率的追求不是对慢的否定，而是对时间的尊重。将重复劳动自动化，就是为创造力腾出空间。")
			break
		}
	}

	if total > 10 {
		insights = append(insights, fmt.Sprintf(
			"从 %d 个项目的实践中可以看到：成长不是线性的突破，而是在无数次尝试中积累的微小进步。每一个项目都是对某个问题的回答，也是对自我能力边界的一次探索。", total))
	}

	if len(insights) == 0 {
		insights = append(insights,
			"技术实践的意义不仅在于解决眼前的问题，更在于在解决问题的过程中重塑自己的思维方式。")
	}

	if len(insights) > 3 {
		insights = insights[:3]
	}
	return insights
}

// containsAny 是否命中任意一个关键词
func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
