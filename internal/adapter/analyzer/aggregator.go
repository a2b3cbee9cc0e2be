package analyzer

import (
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"github-resume-monitor/internal/domain"
)

// ReportAggregator 实现了 port.Aggregator 接口
// 把全部分类结果汇总成一份报告，报告里的每个数字都能从输入推导出来
type ReportAggregator struct {
	windowDays    int // 最近更新的时间窗口 (天)
	featuredLimit int // 重点项目数量上限
	nowFunc       func() time.Time
}

// NewReportAggregator 创建聚合器，默认 30 天窗口、最多 5 个重点项目
func NewReportAggregator() *ReportAggregator {
	return &ReportAggregator{
		windowDays:    30,
		featuredLimit: 5,
		nowFunc:       time.Now, // 便于测试注入当前时间
	}
}

// SetRecencyWindow 调整最近更新的时间窗口
func (a *ReportAggregator) SetRecencyWindow(days int) {
	if days > 0 {
		a.windowDays = days
	}
}

// SetFeaturedLimit 调整重点项目数量上限
func (a *ReportAggregator) SetFeaturedLimit(limit int) {
	if limit > 0 {
		a.featuredLimit = limit
	}
}

// BuildReport 生成聚合报告
// 空集合不会除零，所有比率都短路到零值
func (a *ReportAggregator) BuildReport(analyses []*domain.ProjectAnalysis) *domain.Report {
	now := a.nowFunc().UTC()
	cutoff := now.AddDate(0, 0, -a.windowDays)

	// 最近更新筛选：updated_at 严格晚于 (now - 窗口)
	// 时间解析失败只把该项目排除出最近集合，不影响整体运行
	var recent []*domain.ProjectAnalysis
	var significant []*domain.ProjectAnalysis
	for _, analysis := range analyses {
		updated, err := analysis.Repo.UpdatedTime()
		if err != nil {
			log.Printf("⚠️ 项目 %s 的更新时间无法解析: %v", analysis.Repo.Name, err)
		} else if updated.After(cutoff) {
			recent = append(recent, analysis)
		}

		if isSignificantUpdate(analysis) {
			significant = append(significant, analysis)
		}
	}

	featured := a.selectFeaturedProjects(analyses)

	report := &domain.Report{
		GeneratedAt:       now.Format(time.RFC3339),
		Summary:           buildSummary(analyses, recent, significant),
		ProjectStats:      buildProjectStats(analyses),
		SkillMatrix:       buildSkillMatrix(analyses),
		FeaturedProjects:  digestProjects(featured),
		RecentUpdates:     digestProjects(recent),
		UpdateSuggestions: buildUpdateSuggestions(recent),
		Recommendations:   buildRecommendations(analyses),
	}
	return report
}

// isSignificantUpdate 判断是否值得在简历中突出，与时效无关
func isSignificantUpdate(analysis *domain.ProjectAnalysis) bool {
	return analysis.ComplexityScore > 0.5 ||
		analysis.AICollaboration ||
		analysis.Repo.Stars > 5 ||
		len(analysis.KeyFeatures) > 3
}

// buildSummary 汇总计数器
func buildSummary(analyses, recent, significant []*domain.ProjectAnalysis) domain.Summary {
	summary := domain.Summary{
		TotalRepos:         len(analyses),
		RecentUpdates:      len(recent),
		SignificantUpdates: len(significant),
	}

	var totalComplexity float64
	for _, analysis := range analyses {
		totalComplexity += analysis.ComplexityScore
		if analysis.AICollaboration {
			summary.AIProjects++
		}
	}
	if len(analyses) > 0 {
		summary.AvgComplexity = totalComplexity / float64(len(analyses))
	}
	return summary
}

// orderedCounter 记录首次出现顺序的计数器，平局时先出现者在前
type orderedCounter struct {
	counts map[string]int
	order  []string
}

func newOrderedCounter() *orderedCounter {
	return &orderedCounter{counts: make(map[string]int)}
}

func (c *orderedCounter) add(name string) {
	if _, ok := c.counts[name]; !ok {
		c.order = append(c.order, name)
	}
	c.counts[name]++
}

// items 按首次出现顺序导出
func (c *orderedCounter) items() []domain.NameCount {
	result := make([]domain.NameCount, 0, len(c.order))
	for _, name := range c.order {
		result = append(result, domain.NameCount{Name: name, Count: c.counts[name]})
	}
	return result
}

// sortedDesc 按计数降序导出，稳定排序保持首次出现顺序
func (c *orderedCounter) sortedDesc() []domain.NameCount {
	result := c.items()
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})
	return result
}

// buildProjectStats 项目类型分布与技术栈使用统计
func buildProjectStats(analyses []*domain.ProjectAnalysis) domain.ProjectStats {
	types := newOrderedCounter()
	techUsage := newOrderedCounter()

	for _, analysis := range analyses {
		types.add(analysis.ProjectType)
		for _, tech := range analysis.TechStack {
			techUsage.add(tech)
		}
	}

	return domain.ProjectStats{
		ProjectTypes:   types.items(),
		TechStackUsage: techUsage.sortedDesc(),
	}
}

// buildSkillMatrix 技能矩阵：技术栈 + AI协作 + 角色建议，按频次降序
func buildSkillMatrix(analyses []*domain.ProjectAnalysis) []domain.NameCount {
	skills := newOrderedCounter()

	for _, analysis := range analyses {
		for _, tech := range analysis.TechStack {
			skills.add(tech)
		}
		if analysis.AICollaboration {
			skills.add("AI协作")
		}
		for _, role := range analysis.RoleSuggestions {
			skills.add(role)
		}
	}

	return skills.sortedDesc()
}

// selectFeaturedProjects 按综合评分选出重点项目
// 评分 = 复杂度×0.4 + AI协作 0.3 + min(stars/100, 0.2) + min(forks/50, 0.1)
// 稳定排序：同分项目保持输入相对顺序
func (a *ReportAggregator) selectFeaturedProjects(analyses []*domain.ProjectAnalysis) []*domain.ProjectAnalysis {
	type scored struct {
		score    float64
		analysis *domain.ProjectAnalysis
	}

	scoredProjects := make([]scored, 0, len(analyses))
	for _, analysis := range analyses {
		score := analysis.ComplexityScore * 0.4
		if analysis.AICollaboration {
			score += 0.3
		}
		score += minFloat(float64(analysis.Repo.Stars)/100, 0.2)
		score += minFloat(float64(analysis.Repo.Forks)/50, 0.1)
		scoredProjects = append(scoredProjects, scored{score, analysis})
	}

	sort.SliceStable(scoredProjects, func(i, j int) bool {
		return scoredProjects[i].score > scoredProjects[j].score
	})

	limit := a.featuredLimit
	if limit > len(scoredProjects) {
		limit = len(scoredProjects)
	}
	featured := make([]*domain.ProjectAnalysis, 0, limit)
	for _, sp := range scoredProjects[:limit] {
		featured = append(featured, sp.analysis)
	}
	return featured
}

// digestProjects 把分类结果转成报告条目，技术栈最多展示 5 个
func digestProjects(analyses []*domain.ProjectAnalysis) []domain.ProjectDigest {
	digests := make([]domain.ProjectDigest, 0, len(analyses))
	for _, analysis := range analyses {
		techStack := analysis.TechStack
		if len(techStack) > 5 {
			techStack = techStack[:5]
		}
		digests = append(digests, domain.ProjectDigest{
			Name:              analysis.Repo.Name,
			Description:       analysis.Repo.Description,
			ProjectType:       analysis.ProjectType,
			BusinessValue:     analysis.BusinessValue,
			ComplexityScore:   round2(analysis.ComplexityScore),
			AICollaboration:   analysis.AICollaboration,
			EstimatedDuration: analysis.EstimatedDuration,
			TechStack:         techStack,
			KeyFeatures:       analysis.KeyFeatures,
			RoleSuggestions:   analysis.RoleSuggestions,
			Stars:             analysis.Repo.Stars,
			LastUpdated:       analysis.Repo.UpdatedAt,
			IsPrivate:         analysis.Repo.IsPrivate,
		})
	}
	return digests
}

// buildUpdateSuggestions 针对最近更新集合的规则化建议，规则彼此独立，按声明顺序触发
func buildUpdateSuggestions(recent []*domain.ProjectAnalysis) []string {
	var suggestions []string

	if len(recent) > 0 {
		suggestions = append(suggestions, fmt.Sprintf("发现 %d 个最近更新的项目，建议更新项目展示部分", len(recent)))
	}

	aiCount := 0
	for _, analysis := range recent {
		if analysis.AICollaboration {
			aiCount++
		}
	}
	if aiCount > 0 {
		suggestions = append(suggestions, fmt.Sprintf("新增 %d 个AI协作项目，突出AI专家定位", aiCount))
	}

	highValue := 0
	for _, analysis := range recent {
		if analysis.IsHighValue() {
			highValue++
		}
	}
	if highValue > 0 {
		suggestions = append(suggestions, fmt.Sprintf("有 %d 个高价值项目值得重点展示", highValue))
	}

	// 新技能标签取首次出现顺序的前 5 个
	var newSkills []string
	seen := make(map[string]bool)
	for _, analysis := range recent {
		for _, tech := range analysis.TechStack {
			if !seen[tech] {
				seen[tech] = true
				newSkills = append(newSkills, tech)
			}
		}
	}
	if len(newSkills) > 0 {
		if len(newSkills) > 5 {
			newSkills = newSkills[:5]
		}
		suggestions = append(suggestions, fmt.Sprintf("新增技能标签: %s", strings.Join(newSkills, ", ")))
	}

	return suggestions
}

// buildRecommendations 针对全集的优化建议，空集合直接返回空
func buildRecommendations(analyses []*domain.ProjectAnalysis) []string {
	var recommendations []string

	total := len(analyses)
	if total == 0 {
		return recommendations
	}

	aiCount := 0
	privateCount := 0
	var totalComplexity float64
	for _, analysis := range analyses {
		if analysis.AICollaboration {
			aiCount++
		}
		if analysis.Repo.IsPrivate {
			privateCount++
		}
		totalComplexity += analysis.ComplexityScore
	}

	if float64(aiCount)/float64(total) > 0.6 {
		recommendations = append(recommendations, "AI协作项目比例很高，建议突出'AI协作专家'定位")
	}
	if totalComplexity/float64(total) > 0.6 {
		recommendations = append(recommendations, "项目整体复杂度较高，体现了高级技术能力")
	}
	if float64(privateCount) > float64(total)*0.8 {
		recommendations = append(recommendations, "私有项目较多，考虑开源部分优秀项目提升影响力")
	}

	return recommendations
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// round2 保留两位小数
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
