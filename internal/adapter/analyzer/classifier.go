package analyzer

import (
	"sort"
	"strings"

	"github-resume-monitor/internal/domain"
)

// RepoClassifier 实现了 port.Classifier 接口
// 所有方法都是只读仓库快照的纯函数，不访问网络
type RepoClassifier struct{}

// NewRepoClassifier 创建分类器实例
func NewRepoClassifier() *RepoClassifier {
	return &RepoClassifier{}
}

// Classify 对单个仓库做全量启发式分类
func (c *RepoClassifier) Classify(repo *domain.Repository) *domain.ProjectAnalysis {
	corpus := buildCorpus(repo)

	techStack := mapTechStack(repo.Languages)
	aiCollab := detectAICollaboration(corpus)
	complexity := calculateComplexity(repo)

	return &domain.ProjectAnalysis{
		Repo:              repo,
		TechStack:         techStack,
		ProjectType:       classifyProjectType(corpus),
		BusinessValue:     assessBusinessValue(complexity, aiCollab),
		ComplexityScore:   complexity,
		AICollaboration:   aiCollab,
		EstimatedDuration: estimateDuration(complexity),
		KeyFeatures:       extractKeyFeatures(repo),
		RoleSuggestions:   suggestRoles(repo, techStack, aiCollab),
	}
}

// buildCorpus 构造小写的分析语料: 名称 + 描述 + 主题 + README
func buildCorpus(repo *domain.Repository) string {
	parts := []string{repo.Name, repo.Description, strings.Join(repo.Topics, " "), repo.ReadmeContent}
	return strings.ToLower(strings.Join(parts, " "))
}

// mapTechStack 查表合并各语言的技术栈标签并去重
// 语言名先排序再查表，保证标签顺序确定
func mapTechStack(languages map[string]int) []string {
	langs := make([]string, 0, len(languages))
	for lang, bytes := range languages {
		if bytes > 0 {
			langs = append(langs, lang)
		}
	}
	sort.Strings(langs)

	var stack []string
	seen := make(map[string]bool)
	for _, lang := range langs {
		// 表里没有的语言不贡献标签，也不算错误
		for _, tag := range techMapping[lang] {
			if !seen[tag] {
				seen[tag] = true
				stack = append(stack, tag)
			}
		}
	}
	return stack
}

// classifyProjectType 统计每个候选类型命中了多少个不同关键词
// 同一关键词出现多次只计一次；最高分获胜；分数相同取先声明的类型；全零返回兜底类型
func classifyProjectType(corpus string) string {
	bestType := fallbackProjectType
	bestScore := 0

	for _, entry := range projectTypes {
		score := 0
		for _, kw := range entry.keywords {
			if strings.Contains(corpus, kw) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestType = entry.label
		}
	}
	return bestType
}

// detectAICollaboration 检测语料中是否出现 AI 协作关键词
func detectAICollaboration(corpus string) bool {
	for _, kw := range aiKeywords {
		if strings.Contains(corpus, kw) {
			return true
		}
	}
	return false
}

// calculateComplexity 计算项目复杂度 [0,1]
// 六个信号各自按阈值档位加分，同一信号只取最高档；总和封顶 1.0
// 任何一个信号单调增加时评分不会下降
func calculateComplexity(repo *domain.Repository) float64 {
	score := 0.0

	// 代码体量
	switch {
	case repo.Size > 10000:
		score += 0.3
	case repo.Size > 1000:
		score += 0.2
	case repo.Size > 100:
		score += 0.1
	}

	// 语言多样性
	langCount := len(repo.Languages)
	switch {
	case langCount > 5:
		score += 0.2
	case langCount > 3:
		score += 0.15
	case langCount > 1:
		score += 0.1
	}

	// 社区活跃度
	switch {
	case repo.Stars > 50:
		score += 0.1
	case repo.Stars > 10:
		score += 0.05
	}

	switch {
	case repo.Forks > 20:
		score += 0.1
	case repo.Forks > 5:
		score += 0.05
	}

	// README 长度
	readmeLen := len(repo.ReadmeContent)
	switch {
	case readmeLen > 5000:
		score += 0.1
	case readmeLen > 1000:
		score += 0.05
	}

	// 主题标签数
	topicCount := len(repo.Topics)
	switch {
	case topicCount > 5:
		score += 0.1
	case topicCount > 2:
		score += 0.05
	}

	if score > 1.0 {
		return 1.0
	}
	return score
}

// assessBusinessValue 商业价值是 (复杂度, AI标志) 的有序决策表，先命中先得
func assessBusinessValue(complexity float64, aiCollab bool) string {
	switch {
	case complexity > 0.7 && aiCollab:
		return valueHighAIComplex
	case complexity > 0.5 && aiCollab:
		return valueMidHighAIApplied
	case complexity > 0.7:
		return valueMidHighComplex
	case aiCollab:
		return valueMidAITool
	case complexity > 0.4:
		return valueMidPractical
	default:
		return valueBaseline
	}
}

// estimateDuration 按复杂度从高到低的阈值映射到工期档位
func estimateDuration(complexity float64) string {
	switch {
	case complexity > 0.8:
		return durationMonths2to6
	case complexity > 0.6:
		return durationMonths1to3
	case complexity > 0.4:
		return durationWeeks2to6
	case complexity > 0.2:
		return durationWeeks1to2
	default:
		return durationDays
	}
}

// extractKeyFeatures 在描述 + README 上按声明顺序做特性检测，最多 5 个
func extractKeyFeatures(repo *domain.Repository) []string {
	text := strings.ToLower(repo.Description + " " + repo.ReadmeContent)

	var features []string
	for _, entry := range featureKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(text, kw) {
				features = append(features, entry.label)
				break
			}
		}
		if len(features) >= 5 {
			break
		}
	}
	return features
}

// suggestRoles 按固定规则顺序给出角色建议，最多 3 个，无命中时兜底
func suggestRoles(repo *domain.Repository, techStack []string, aiCollab bool) []string {
	inStack := make(map[string]bool, len(techStack))
	for _, tag := range techStack {
		inStack[tag] = true
	}
	hasAny := func(tags []string) bool {
		for _, tag := range tags {
			if inStack[tag] {
				return true
			}
		}
		return false
	}

	var roles []string
	if aiCollab {
		roles = append(roles, "AI协作专家")
	}
	if hasAny(frontendTags) {
		roles = append(roles, "前端开发工程师")
	}
	if hasAny(dataAITags) {
		roles = append(roles, "AI产品经理")
	}
	if hasAny(automationTags) {
		roles = append(roles, "自动化专家")
	}
	if repo.Stars > 10 || repo.Forks > 5 {
		roles = append(roles, "技术负责人")
	}

	if len(roles) == 0 {
		roles = append(roles, "开发工程师")
	}
	if len(roles) > 3 {
		roles = roles[:3]
	}
	return roles
}
