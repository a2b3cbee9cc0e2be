package render

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github-resume-monitor/internal/common"
	"github-resume-monitor/internal/domain"
)

// ReportRenderer 实现了 port.Renderer 接口
// markdown 是唯一的内容源：html 只是套固定页面模板，text 只是剥掉标记
// 三种格式永远不会在事实上产生分歧，只在装饰上不同
type ReportRenderer struct {
	formats    map[string]func(*domain.Report) string
	extensions map[string]string
}

// NewReportRenderer 创建渲染器
func NewReportRenderer() *ReportRenderer {
	r := &ReportRenderer{
		extensions: map[string]string{
			"markdown": ".md",
			"html":     ".html",
			"text":     ".txt",
		},
	}
	r.formats = map[string]func(*domain.Report) string{
		"markdown": r.renderMarkdown,
		"html":     r.renderHTML,
		"text":     r.renderText,
	}
	return r
}

// Render 渲染指定格式的报告
// 格式选择器区分大小写；不认识的格式必须报错，不允许回退到默认格式
func (r *ReportRenderer) Render(report *domain.Report, format string) (string, error) {
	fn, ok := r.formats[format]
	if !ok {
		return "", common.NewError(common.ErrCodeRender, fmt.Sprintf("不支持的格式: %s", format))
	}
	return fn(report), nil
}

// Extension 返回格式对应的文件扩展名
func (r *ReportRenderer) Extension(format string) (string, error) {
	ext, ok := r.extensions[format]
	if !ok {
		return "", common.NewError(common.ErrCodeRender, fmt.Sprintf("不支持的格式: %s", format))
	}
	return ext, nil
}

// formatGeneratedAt 把 ISO 时间转成展示格式，解析失败就原样输出
func formatGeneratedAt(generatedAt, layout string) string {
	t, err := time.Parse(time.RFC3339, generatedAt)
	if err != nil {
		return generatedAt
	}
	return t.Format(layout)
}

// percentBar 把百分比渲染成 10 格的进度条，整格按 percentage/10 向下取整
func percentBar(percentage float64) string {
	filled := int(percentage / 10)
	if filled < 0 {
		filled = 0
	}
	if filled > 10 {
		filled = 10
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}

// renderMarkdown 生成规范的 Markdown 报告，是另外两种格式的内容来源
func (r *ReportRenderer) renderMarkdown(report *domain.Report) string {
	var sb strings.Builder
	summary := report.Summary

	sb.WriteString("# 🚀 GitHub仓库分析与简历更新报告\n\n")
	sb.WriteString(fmt.Sprintf("**生成时间**: %s\n\n", formatGeneratedAt(report.GeneratedAt, "2006年01月02日 15:04")))

	// 概览表
	sb.WriteString("## 📊 项目概览\n\n")
	sb.WriteString("| 指标 | 数值 | 说明 |\n")
	sb.WriteString("|------|------|------|\n")
	sb.WriteString(fmt.Sprintf("| 总项目数 | **%d** | 包含公开和私有仓库 |\n", summary.TotalRepos))
	sb.WriteString(fmt.Sprintf("| 最近更新 | **%d** | 近30天内有更新的项目 |\n", summary.RecentUpdates))
	sb.WriteString(fmt.Sprintf("| 显著更新 | **%d** | 值得在简历中突出的项目 |\n", summary.SignificantUpdates))
	sb.WriteString(fmt.Sprintf("| AI协作项目 | **%d** | 体现AI专家能力的项目 |\n", summary.AIProjects))
	sb.WriteString(fmt.Sprintf("| 平均复杂度 | **%.2f** | 项目技术复杂度评分(0-1) |\n\n", summary.AvgComplexity))

	// 重点项目
	sb.WriteString("## 🌟 重点项目推荐\n\n")
	sb.WriteString("以下项目建议在简历中重点展示:\n\n")
	for i, project := range report.FeaturedProjects {
		aiBadge := ""
		if project.AICollaboration {
			aiBadge = " 🤖"
		}
		privateBadge := ""
		if project.IsPrivate {
			privateBadge = " 🔒"
		}

		sb.WriteString(fmt.Sprintf("### %d. %s%s%s\n\n", i+1, project.Name, aiBadge, privateBadge))
		sb.WriteString(fmt.Sprintf("**项目类型**: %s  \n", project.ProjectType))
		sb.WriteString(fmt.Sprintf("**商业价值**: %s  \n", project.BusinessValue))
		sb.WriteString(fmt.Sprintf("**复杂度评分**: %.2f/1.0  \n", project.ComplexityScore))
		sb.WriteString(fmt.Sprintf("**估算工期**: %s\n\n", project.EstimatedDuration))
		sb.WriteString(fmt.Sprintf("**项目描述**: %s\n\n", project.Description))
		sb.WriteString(fmt.Sprintf("**核心技术栈**: %s\n\n", strings.Join(project.TechStack, ", ")))
		if len(project.KeyFeatures) > 0 {
			sb.WriteString("**关键特性**:\n")
			for _, feature := range project.KeyFeatures {
				sb.WriteString(fmt.Sprintf("- %s\n", feature))
			}
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("**建议角色**: %s\n\n", strings.Join(project.RoleSuggestions, ", ")))
		sb.WriteString("---\n\n")
	}

	// 最近更新项目
	if len(report.RecentUpdates) > 0 {
		sb.WriteString(fmt.Sprintf("## 🔄 最近更新项目 (%d个)\n\n", len(report.RecentUpdates)))
		sb.WriteString("以下项目近期有重要更新，建议检查是否需要更新简历内容:\n\n")

		recent := report.RecentUpdates
		if len(recent) > 10 {
			recent = recent[:10]
		}
		for _, project := range recent {
			aiIndicator := ""
			if project.AICollaboration {
				aiIndicator = "🤖 "
			}
			sb.WriteString(fmt.Sprintf("**%s%s** - %s  \n", aiIndicator, project.Name, project.ProjectType))
			sb.WriteString(fmt.Sprintf("*%s更新* | 复杂度: %.1f | %s\n\n",
				formatGeneratedAt(project.LastUpdated, "01月02日"),
				project.ComplexityScore, project.BusinessValue))
		}
	}

	// 技能矩阵
	if len(report.SkillMatrix) > 0 {
		sb.WriteString("## 💪 技能矩阵分析\n\n")
		sb.WriteString("基于项目分析生成的技能使用频率统计:\n\n")
		sb.WriteString("| 技能/能力 | 项目数量 | 权重 |\n")
		sb.WriteString("|-----------|----------|------|\n")

		skills := report.SkillMatrix
		if len(skills) > 15 {
			skills = skills[:15]
		}
		for _, skill := range skills {
			percentage := 0.0
			if summary.TotalRepos > 0 {
				percentage = float64(skill.Count) / float64(summary.TotalRepos) * 100
			}
			sb.WriteString(fmt.Sprintf("| %s | %d | %s %.0f%% |\n", skill.Name, skill.Count, percentBar(percentage), percentage))
		}
		sb.WriteString("\n")
	}

	// 更新建议
	if len(report.UpdateSuggestions) > 0 {
		sb.WriteString("## 📝 简历更新建议\n\n")
		sb.WriteString("基于最近项目活动生成的具体更新建议:\n\n")
		for i, suggestion := range report.UpdateSuggestions {
			sb.WriteString(fmt.Sprintf("%d. **%s**\n", i+1, suggestion))
		}
		sb.WriteString("\n")
	}

	// 优化建议
	if len(report.Recommendations) > 0 {
		sb.WriteString("## 🎯 优化建议\n\n")
		sb.WriteString("基于整体项目分析的简历优化建议:\n\n")
		for i, rec := range report.Recommendations {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, rec))
		}
		sb.WriteString("\n")
	}

	// 项目统计详情
	sb.WriteString("## 📈 详细统计\n\n")
	sb.WriteString("### 项目类型分布\n")
	for _, ptype := range report.ProjectStats.ProjectTypes {
		percentage := 0.0
		if summary.TotalRepos > 0 {
			percentage = float64(ptype.Count) / float64(summary.TotalRepos) * 100
		}
		sb.WriteString(fmt.Sprintf("- **%s**: %d个 (%.1f%%)\n", ptype.Name, ptype.Count, percentage))
	}
	sb.WriteString("\n### 技术栈使用统计\n")
	techUsage := report.ProjectStats.TechStackUsage
	if len(techUsage) > 10 {
		techUsage = techUsage[:10]
	}
	for _, tech := range techUsage {
		sb.WriteString(fmt.Sprintf("- **%s**: %d个项目\n", tech.Name, tech.Count))
	}

	// 增强块
	if report.Enrichment != nil {
		sb.WriteString(renderEnrichment(report.Enrichment))
	}

	// 行动建议
	topSkill := "AI协作"
	if len(report.SkillMatrix) > 0 {
		topSkill = report.SkillMatrix[0].Name
	}
	sb.WriteString("\n## 🚀 下一步行动\n\n")
	sb.WriteString("### 立即行动\n")
	sb.WriteString(fmt.Sprintf("1. **更新项目展示**: 重点突出前%d个推荐项目\n", len(report.FeaturedProjects)))
	sb.WriteString("2. **技能标签更新**: 添加高频技术栈到技能列表\n")
	sb.WriteString(fmt.Sprintf("3. **角色定位优化**: 基于AI项目比例(%d/%d)强化AI专家定位\n\n", summary.AIProjects, summary.TotalRepos))
	sb.WriteString("### 中期规划\n")
	sb.WriteString("1. **开源贡献**: 考虑开源部分优秀私有项目\n")
	sb.WriteString("2. **项目文档**: 完善重点项目的README和技术文档\n")
	sb.WriteString("3. **社区影响**: 提升项目的star和fork数量\n\n")
	sb.WriteString("### 长期建议\n")
	sb.WriteString(fmt.Sprintf("1. **技术深度**: 在%s领域继续深耕\n", topSkill))
	sb.WriteString("2. **商业价值**: 强化项目的实际业务价值展示\n")
	sb.WriteString("3. **行业影响**: 建立个人技术品牌和影响力\n\n")
	sb.WriteString("---\n\n")
	sb.WriteString(fmt.Sprintf("*本报告由GitHub仓库自动分析系统生成，数据更新时间: %s*\n",
		formatGeneratedAt(report.GeneratedAt, "2006-01-02 15:04:05")))

	return sb.String()
}

// renderEnrichment 渲染可选的哲学与 AI 能力增强块
func renderEnrichment(enrichment *domain.Enrichment) string {
	var sb strings.Builder

	if philosophy := enrichment.Philosophy; philosophy != nil {
		sb.WriteString("\n## 🧭 个人哲学画像\n\n")
		sb.WriteString(fmt.Sprintf("> %s\n\n", philosophy.PhilosophyStatement))
		if len(philosophy.CoreValues) > 0 {
			sb.WriteString(fmt.Sprintf("**核心价值观**: %s\n\n", strings.Join(philosophy.CoreValues, ", ")))
		}
		if len(philosophy.ThinkingPatterns) > 0 {
			sb.WriteString(fmt.Sprintf("**思维模式**: %s\n\n", strings.Join(philosophy.ThinkingPatterns, ", ")))
		}
		sb.WriteString(fmt.Sprintf("**成长叙事**: %s\n\n", philosophy.GrowthNarrative))
		for _, stage := range philosophy.GrowthStages {
			sb.WriteString(fmt.Sprintf("- **%s**: %s (%s)\n", stage.Stage, stage.Description, stage.Insight))
		}
		if len(philosophy.GrowthStages) > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("**问题解决哲学**: %s\n\n", philosophy.ProblemSolvingApproach))
		sb.WriteString(fmt.Sprintf("**AI 协作观**: %s\n\n", philosophy.AICollaborationView))
		for _, insightLine := range philosophy.DeepInsights {
			sb.WriteString(fmt.Sprintf("> %s\n\n", insightLine))
		}
	}

	if capability := enrichment.AICapability; capability != nil {
		sb.WriteString("## 🤖 AI 能力画像\n\n")
		sb.WriteString(fmt.Sprintf("**使用模式**: %s - %s\n\n", capability.UsagePattern, capability.PatternNote))
		if len(capability.SubScores) > 0 {
			sb.WriteString("| 能力维度 | 评分 | 强度 |\n")
			sb.WriteString("|----------|------|------|\n")
			for _, sub := range capability.SubScores {
				sb.WriteString(fmt.Sprintf("| %s | %.2f | %s %.0f%% |\n",
					sub.Name, sub.Score, percentBar(sub.Score*100), sub.Score*100))
			}
			sb.WriteString("\n")
		}
	}

	if len(enrichment.ArchitectureSummary) > 0 {
		sb.WriteString("## 🏗️ 架构模式统计\n\n")
		for _, pattern := range enrichment.ArchitectureSummary {
			sb.WriteString(fmt.Sprintf("- **%s**: %d个项目\n", pattern.Name, pattern.Count))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// htmlPage 固定的页面模板，正文直接嵌入 markdown 内容
const htmlPage = `<!DOCTYPE html>
<html lang="zh-CN">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>GitHub简历更新报告</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
               line-height: 1.6; color: #333; max-width: 1200px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%);
                   color: white; padding: 30px; border-radius: 10px; margin-bottom: 30px; }
        .stats { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
                  gap: 20px; margin: 30px 0; }
        .stat-card { background: #f8f9fa; padding: 20px; border-radius: 8px; text-align: center; }
        .stat-number { font-size: 2em; font-weight: bold; color: #007bff; }
    </style>
</head>
<body>
    <div class="header">
        <h1>🚀 GitHub仓库分析与简历更新报告</h1>
        <p>生成时间: %s</p>
    </div>

    <div class="stats">
        <div class="stat-card">
            <div class="stat-number">%d</div>
            <div>总项目数</div>
        </div>
        <div class="stat-card">
            <div class="stat-number">%d</div>
            <div>最近更新</div>
        </div>
        <div class="stat-card">
            <div class="stat-number">%d</div>
            <div>AI协作项目</div>
        </div>
        <div class="stat-card">
            <div class="stat-number">%.2f</div>
            <div>平均复杂度</div>
        </div>
    </div>

    <div class="content">
        <pre style="white-space: pre-wrap; font-family: inherit;">%s</pre>
    </div>
</body>
</html>`

// renderHTML 把 markdown 内容包进固定页面模板
func (r *ReportRenderer) renderHTML(report *domain.Report) string {
	markdown := r.renderMarkdown(report)
	return fmt.Sprintf(htmlPage,
		formatGeneratedAt(report.GeneratedAt, "2006年01月02日 15:04"),
		report.Summary.TotalRepos,
		report.Summary.RecentUpdates,
		report.Summary.AIProjects,
		report.Summary.AvgComplexity,
		markdown)
}

// 从 markdown 派生纯文本的替换规则，顺序固定
var (
	headingPattern = regexp.MustCompile(`(?m)^#{1,6}\s*`)
	boldPattern    = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPattern  = regexp.MustCompile(`\*(.*?)\*`)
	linkPattern    = regexp.MustCompile(`\[(.*?)\]\(.*?\)`)
	codePattern    = regexp.MustCompile("`(.*?)`")
)

// renderText 从 markdown 渲染结果剥掉标记得到纯文本
// 不独立重算内容，保证数字和 markdown 逐字一致
func (r *ReportRenderer) renderText(report *domain.Report) string {
	text := r.renderMarkdown(report)
	text = headingPattern.ReplaceAllString(text, "")
	text = boldPattern.ReplaceAllString(text, "$1")
	text = italicPattern.ReplaceAllString(text, "$1")
	text = linkPattern.ReplaceAllString(text, "$1")
	text = codePattern.ReplaceAllString(text, "$1")
	return text
}
