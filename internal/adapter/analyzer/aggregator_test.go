package analyzer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github-resume-monitor/internal/domain"
)

// analysisAt 构造一个指定更新时间的最小分类结果
func analysisAt(name string, updated time.Time) *domain.ProjectAnalysis {
	return &domain.ProjectAnalysis{
		Repo: &domain.Repository{
			Name:      name,
			UpdatedAt: updated.Format(time.RFC3339),
		},
	}
}

func TestReportAggregator_BuildReport_RecencyWindow(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name            string
		analyses        []*domain.ProjectAnalysis
		expectedRecent  int
		expectedInNames []string
	}{
		{
			name: "29天前的更新在窗口内",
			analyses: []*domain.ProjectAnalysis{
				analysisAt("fresh", now.AddDate(0, 0, -29)),
			},
			expectedRecent:  1,
			expectedInNames: []string{"fresh"},
		},
		{
			name: "31天前的更新在窗口外",
			analyses: []*domain.ProjectAnalysis{
				analysisAt("stale", now.AddDate(0, 0, -31)),
			},
			expectedRecent: 0,
		},
		{
			name: "混合新旧项目",
			analyses: []*domain.ProjectAnalysis{
				analysisAt("old", now.AddDate(0, 0, -45)),
				analysisAt("new", now.AddDate(0, 0, -1)),
			},
			expectedRecent:  1,
			expectedInNames: []string{"new"},
		},
		{
			name: "时间解析失败只排除该项目",
			analyses: []*domain.ProjectAnalysis{
				{Repo: &domain.Repository{Name: "broken", UpdatedAt: "not-a-time"}},
				analysisAt("ok", now.AddDate(0, 0, -2)),
			},
			expectedRecent:  1,
			expectedInNames: []string{"ok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aggregator := NewReportAggregator()
			aggregator.nowFunc = func() time.Time { return now }

			report := aggregator.BuildReport(tt.analyses)

			assert.Equal(t, tt.expectedRecent, report.Summary.RecentUpdates)
			assert.Len(t, report.RecentUpdates, tt.expectedRecent)
			for i, name := range tt.expectedInNames {
				assert.Equal(t, name, report.RecentUpdates[i].Name)
			}
			// 总数不受窗口影响
			assert.Equal(t, len(tt.analyses), report.Summary.TotalRepos)
		})
	}
}

func TestIsSignificantUpdate(t *testing.T) {
	tests := []struct {
		name     string
		analysis *domain.ProjectAnalysis
		expected bool
	}{
		{
			name: "复杂度超过0.5",
			analysis: &domain.ProjectAnalysis{
				Repo:            &domain.Repository{},
				ComplexityScore: 0.51,
			},
			expected: true,
		},
		{
			name: "恰好0.5不算",
			analysis: &domain.ProjectAnalysis{
				Repo:            &domain.Repository{},
				ComplexityScore: 0.5,
			},
			expected: false,
		},
		{
			name: "AI协作项目",
			analysis: &domain.ProjectAnalysis{
				Repo:            &domain.Repository{},
				AICollaboration: true,
			},
			expected: true,
		},
		{
			name: "星标超过5",
			analysis: &domain.ProjectAnalysis{
				Repo: &domain.Repository{Stars: 6},
			},
			expected: true,
		},
		{
			name: "特性超过3个",
			analysis: &domain.ProjectAnalysis{
				Repo:        &domain.Repository{},
				KeyFeatures: []string{"a", "b", "c", "d"},
			},
			expected: true,
		},
		{
			name: "全部低于阈值",
			analysis: &domain.ProjectAnalysis{
				Repo:            &domain.Repository{Stars: 5},
				ComplexityScore: 0.3,
				KeyFeatures:     []string{"a", "b", "c"},
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isSignificantUpdate(tt.analysis))
		})
	}
}

func TestReportAggregator_SelectFeaturedProjects(t *testing.T) {
	aggregator := NewReportAggregator()

	// 评分: 复杂度×0.4 + AI 0.3 + min(stars/100, 0.2) + min(forks/50, 0.1)
	analyses := []*domain.ProjectAnalysis{
		{Repo: &domain.Repository{Name: "low"}, ComplexityScore: 0.1},                          // 0.04
		{Repo: &domain.Repository{Name: "ai-high", Stars: 100}, ComplexityScore: 0.8, AICollaboration: true}, // 0.82
		{Repo: &domain.Repository{Name: "mid", Stars: 30}, ComplexityScore: 0.5},               // 0.26
		{Repo: &domain.Repository{Name: "tie-a"}, ComplexityScore: 0.5},                        // 0.2
		{Repo: &domain.Repository{Name: "tie-b"}, ComplexityScore: 0.5},                        // 0.2 同分
	}

	featured := aggregator.selectFeaturedProjects(analyses)

	assert.Len(t, featured, 5)
	assert.Equal(t, "ai-high", featured[0].Repo.Name)
	assert.Equal(t, "mid", featured[1].Repo.Name)
	// 稳定排序: 同分项目保持输入相对顺序
	assert.Equal(t, "tie-a", featured[2].Repo.Name)
	assert.Equal(t, "tie-b", featured[3].Repo.Name)
	assert.Equal(t, "low", featured[4].Repo.Name)
}

func TestReportAggregator_SelectFeaturedProjects_Limit(t *testing.T) {
	aggregator := NewReportAggregator()
	aggregator.SetFeaturedLimit(2)

	analyses := []*domain.ProjectAnalysis{
		{Repo: &domain.Repository{Name: "a"}, ComplexityScore: 0.9},
		{Repo: &domain.Repository{Name: "b"}, ComplexityScore: 0.8},
		{Repo: &domain.Repository{Name: "c"}, ComplexityScore: 0.7},
	}

	featured := aggregator.selectFeaturedProjects(analyses)

	assert.Len(t, featured, 2)
	assert.Equal(t, "a", featured[0].Repo.Name)
	assert.Equal(t, "b", featured[1].Repo.Name)
}

func TestBuildSummary(t *testing.T) {
	analyses := []*domain.ProjectAnalysis{
		{Repo: &domain.Repository{}, ComplexityScore: 0.4, AICollaboration: true},
		{Repo: &domain.Repository{}, ComplexityScore: 0.6},
	}

	summary := buildSummary(analyses, analyses[:1], analyses)

	assert.Equal(t, 2, summary.TotalRepos)
	assert.Equal(t, 1, summary.RecentUpdates)
	assert.Equal(t, 2, summary.SignificantUpdates)
	assert.Equal(t, 1, summary.AIProjects)
	assert.InDelta(t, 0.5, summary.AvgComplexity, 0.001)
}

func TestReportAggregator_BuildReport_EmptyInput(t *testing.T) {
	aggregator := NewReportAggregator()

	report := aggregator.BuildReport(nil)

	assert.Equal(t, 0, report.Summary.TotalRepos)
	assert.Equal(t, 0.0, report.Summary.AvgComplexity)
	assert.Empty(t, report.FeaturedProjects)
	assert.Empty(t, report.RecentUpdates)
	assert.Empty(t, report.UpdateSuggestions)
	assert.Empty(t, report.Recommendations)
	assert.NotEmpty(t, report.GeneratedAt)
}

func TestOrderedCounter(t *testing.T) {
	c := newOrderedCounter()
	c.add("python")
	c.add("go")
	c.add("python")
	c.add("rust")
	c.add("go")
	c.add("python")

	items := c.items()
	assert.Equal(t, []domain.NameCount{
		{Name: "python", Count: 3},
		{Name: "go", Count: 2},
		{Name: "rust", Count: 1},
	}, items)

	// 平局时先出现者在前
	c2 := newOrderedCounter()
	c2.add("b")
	c2.add("a")
	sorted := c2.sortedDesc()
	assert.Equal(t, "b", sorted[0].Name)
	assert.Equal(t, "a", sorted[1].Name)
}

func TestBuildSkillMatrix(t *testing.T) {
	analyses := []*domain.ProjectAnalysis{
		{
			Repo:            &domain.Repository{},
			TechStack:       []string{"AI/ML", "数据处理"},
			AICollaboration: true,
			RoleSuggestions: []string{"AI协作专家"},
		},
		{
			Repo:            &domain.Repository{},
			TechStack:       []string{"AI/ML"},
			AICollaboration: true,
			RoleSuggestions: []string{"AI协作专家"},
		},
	}

	matrix := buildSkillMatrix(analyses)

	// AI/ML、AI协作、AI协作专家 各 2 次，按首次出现顺序排列
	assert.Equal(t, domain.NameCount{Name: "AI/ML", Count: 2}, matrix[0])
	assert.Equal(t, domain.NameCount{Name: "AI协作", Count: 2}, matrix[1])
	assert.Equal(t, domain.NameCount{Name: "AI协作专家", Count: 2}, matrix[2])
	assert.Equal(t, domain.NameCount{Name: "数据处理", Count: 1}, matrix[3])
}

func TestBuildUpdateSuggestions(t *testing.T) {
	tests := []struct {
		name     string
		recent   []*domain.ProjectAnalysis
		expected []string
	}{
		{
			name:     "空集合无建议",
			recent:   nil,
			expected: nil,
		},
		{
			name: "四条规则全部触发",
			recent: []*domain.ProjectAnalysis{
				{
					Repo:            &domain.Repository{},
					AICollaboration: true,
					BusinessValue:   "高价值 - AI协作复杂项目",
					TechStack:       []string{"AI/ML", "数据处理"},
				},
			},
			expected: []string{
				"发现 1 个最近更新的项目，建议更新项目展示部分",
				"新增 1 个AI协作项目，突出AI专家定位",
				"有 1 个高价值项目值得重点展示",
				"新增技能标签: AI/ML, 数据处理",
			},
		},
		{
			name: "技能标签最多展示5个",
			recent: []*domain.ProjectAnalysis{
				{
					Repo:      &domain.Repository{},
					TechStack: []string{"a", "b", "c", "d", "e", "f"},
				},
			},
			expected: []string{
				"发现 1 个最近更新的项目，建议更新项目展示部分",
				"新增技能标签: a, b, c, d, e",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildUpdateSuggestions(tt.recent))
		})
	}
}

func TestBuildRecommendations(t *testing.T) {
	tests := []struct {
		name     string
		analyses []*domain.ProjectAnalysis
		expected []string
	}{
		{
			name:     "空集合直接返回",
			analyses: nil,
			expected: nil,
		},
		{
			name: "AI比例超过0.6",
			analyses: []*domain.ProjectAnalysis{
				{Repo: &domain.Repository{}, AICollaboration: true},
				{Repo: &domain.Repository{}, AICollaboration: true},
				{Repo: &domain.Repository{}},
			},
			expected: []string{"AI协作项目比例很高，建议突出'AI协作专家'定位"},
		},
		{
			name: "平均复杂度超过0.6",
			analyses: []*domain.ProjectAnalysis{
				{Repo: &domain.Repository{}, ComplexityScore: 0.7},
				{Repo: &domain.Repository{}, ComplexityScore: 0.7},
			},
			expected: []string{"项目整体复杂度较高，体现了高级技术能力"},
		},
		{
			name: "私有项目超过八成",
			analyses: []*domain.ProjectAnalysis{
				{Repo: &domain.Repository{IsPrivate: true}},
				{Repo: &domain.Repository{IsPrivate: true}},
				{Repo: &domain.Repository{IsPrivate: true}},
				{Repo: &domain.Repository{IsPrivate: true}},
				{Repo: &domain.Repository{IsPrivate: true}},
			},
			expected: []string{"私有项目较多，考虑开源部分优秀项目提升影响力"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildRecommendations(tt.analyses))
		})
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 0.33, round2(1.0/3.0))
	assert.Equal(t, 0.67, round2(2.0/3.0))
	assert.Equal(t, 1.0, round2(0.999))
}

// 三个合成仓库走完 分类 -> 聚合 全链路，校验汇总数字和精选排序
func TestClassifyThenAggregate(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	// 单语言项目的复杂度档位总和封顶在 0.7，价值与工期档位随之而来
	aiLedger := &domain.Repository{
		Name:          "ai-ledger",
		Description:   "AI powered ledger analysis",
		Language:      "Python",
		Languages:     map[string]int{"Python": 5000},
		Topics:        []string{"ai", "finance", "ledger", "parser", "python", "cli"},
		Stars:         60,
		Forks:         25,
		Size:          12000,
		ReadmeContent: strings.Repeat("ledger parsing detail. ", 280),
		UpdatedAt:     now.AddDate(0, 0, -2).Format(time.RFC3339),
	}
	todoNotes := &domain.Repository{
		Name:        "todo-notes",
		Description: "simple note keeping practice",
		Language:    "Python",
		Languages:   map[string]int{"Python": 800},
		Size:        50,
		UpdatedAt:   now.AddDate(0, 0, -120).Format(time.RFC3339),
	}
	billingSync := &domain.Repository{
		Name:          "billing-sync",
		Description:   "internal billing reconciliation service",
		Language:      "Go",
		Languages:     map[string]int{"Go": 30000, "Shell": 500},
		Topics:        []string{"billing"},
		Stars:         20,
		Forks:         6,
		Size:          5000,
		ReadmeContent: strings.Repeat("x", 2000),
		IsPrivate:     true,
		UpdatedAt:     now.AddDate(0, 0, -60).Format(time.RFC3339),
	}

	classifier := NewRepoClassifier()
	analyses := []*domain.ProjectAnalysis{
		classifier.Classify(aiLedger),
		classifier.Classify(todoNotes),
		classifier.Classify(billingSync),
	}

	// 逐个校验分类结果
	assert.Equal(t, "AI工具", analyses[0].ProjectType)
	assert.True(t, analyses[0].AICollaboration)
	assert.InDelta(t, 0.7, analyses[0].ComplexityScore, 0.001)
	assert.Equal(t, "中高价值 - AI应用项目", analyses[0].BusinessValue)
	assert.Equal(t, "1-3个月", analyses[0].EstimatedDuration)

	assert.False(t, analyses[1].AICollaboration)
	assert.LessOrEqual(t, analyses[1].ComplexityScore, 0.1)
	assert.Equal(t, "基础价值 - 学习项目", analyses[1].BusinessValue)

	assert.False(t, analyses[2].AICollaboration)
	assert.InDelta(t, 0.45, analyses[2].ComplexityScore, 0.001)
	assert.Equal(t, "中等价值 - 实用工具", analyses[2].BusinessValue)

	aggregator := NewReportAggregator()
	aggregator.nowFunc = func() time.Time { return now }
	report := aggregator.BuildReport(analyses)

	// 汇总数字
	assert.Equal(t, 3, report.Summary.TotalRepos)
	assert.Equal(t, 1, report.Summary.AIProjects)
	assert.Equal(t, 1, report.Summary.RecentUpdates)
	assert.Equal(t, 2, report.Summary.SignificantUpdates)
	assert.InDelta(t, (0.7+0.0+0.45)/3, report.Summary.AvgComplexity, 0.001)

	// 精选排序: 高复杂度 + AI + 高人气的项目排第一
	assert.NotEmpty(t, report.FeaturedProjects)
	assert.Equal(t, "ai-ledger", report.FeaturedProjects[0].Name)
	assert.Equal(t, 0.7, report.FeaturedProjects[0].ComplexityScore)
	assert.True(t, report.FeaturedProjects[0].AICollaboration)

	// 类型直方图总数等于项目总数
	typeSum := 0
	for _, nc := range report.ProjectStats.ProjectTypes {
		typeSum += nc.Count
	}
	assert.Equal(t, 3, typeSum)
}
