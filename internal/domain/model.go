package domain

import (
	"strings"
	"time"
)

// Repository 代表一个远端仓库的完整快照
// 由 github adapter 构建一次，之后不再修改；上游仓库变化时下次运行会生成新的快照
type Repository struct {
	// 基础信息 (来自 GitHub)
	Name        string         `json:"name"`
	FullName    string         `json:"full_name"` // 例如 "Jim-purch/orderListForSale"
	Description string         `json:"description"`
	Language    string         `json:"language"`  // 主语言
	Languages   map[string]int `json:"languages"` // 语言 -> 字节数
	Topics      []string       `json:"topics"`
	Stars       int            `json:"stars"`
	Forks       int            `json:"forks"`
	CreatedAt   string         `json:"created_at"` // ISO 8601 原始字符串
	UpdatedAt   string         `json:"updated_at"`
	PushedAt    string         `json:"pushed_at"`
	Size        int            `json:"size"`
	OpenIssues  int            `json:"open_issues"`
	IsPrivate   bool           `json:"is_private"`
	License     string         `json:"license,omitempty"`
	Homepage    string         `json:"homepage,omitempty"`

	// README 全文，获取或解码失败时为空字符串
	ReadmeContent string `json:"readme_content"`

	// --- 可选的深度抓取结果 ---

	// 文件树路径列表
	FilePaths []string `json:"file_paths,omitempty"`
	// 关键配置文件 -> 截断后的内容
	KeyFiles map[string]string `json:"key_files,omitempty"`
	// 从配置文件中解析出的依赖名
	Dependencies []string `json:"dependencies,omitempty"`
	// 最近提交的标题
	CommitMessages []string `json:"commit_messages,omitempty"`
	// 检测到的架构模式标签 (最多 8 个)
	ArchPatterns []string `json:"arch_patterns,omitempty"`
}

// UpdatedTime 把 updated_at 解析为统一到 UTC 的时间点
// 比较前必须统一时区，不能拿带时区和不带时区的时间直接比
func (r *Repository) UpdatedTime() (time.Time, error) {
	t, err := time.Parse(time.RFC3339, r.UpdatedAt)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// CreatedTime 把 created_at 解析为统一到 UTC 的时间点
func (r *Repository) CreatedTime() (time.Time, error) {
	t, err := time.Parse(time.RFC3339, r.CreatedAt)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// ProjectAnalysis 单个仓库的启发式分类结果
// 只引用 Repository，不修改它
type ProjectAnalysis struct {
	Repo              *Repository `json:"repo"`
	TechStack         []string    `json:"tech_stack"`
	ProjectType       string      `json:"project_type"`
	BusinessValue     string      `json:"business_value"`
	ComplexityScore   float64     `json:"complexity_score"` // [0,1]
	AICollaboration   bool        `json:"ai_collaboration"`
	EstimatedDuration string      `json:"estimated_duration"`
	KeyFeatures       []string    `json:"key_features"`     // 最多 5 个
	RoleSuggestions   []string    `json:"role_suggestions"` // 最多 3 个
}

// IsHighValue 判断是否属于高价值项目 (用于通知阈值判断)
func (a *ProjectAnalysis) IsHighValue() bool {
	return strings.Contains(a.BusinessValue, "高价值")
}

// NameCount 带名字的计数项，用切片保序，保证序列化后降序不丢失
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summary 报告摘要，所有计数都可以从分类集合推导出来
type Summary struct {
	TotalRepos         int     `json:"total_repos"`
	RecentUpdates      int     `json:"recent_updates"`
	SignificantUpdates int     `json:"significant_updates"`
	AIProjects         int     `json:"ai_projects"`
	AvgComplexity      float64 `json:"avg_complexity"`
}

// ProjectStats 项目类型与技术栈统计
type ProjectStats struct {
	ProjectTypes   []NameCount `json:"project_types"`
	TechStackUsage []NameCount `json:"tech_stack_usage"` // 按使用次数降序
}

// ProjectDigest 报告中的项目摘要条目
type ProjectDigest struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	ProjectType       string   `json:"project_type"`
	BusinessValue     string   `json:"business_value"`
	ComplexityScore   float64  `json:"complexity_score"`
	AICollaboration   bool     `json:"ai_collaboration"`
	EstimatedDuration string   `json:"estimated_duration"`
	TechStack         []string `json:"tech_stack"`
	KeyFeatures       []string `json:"key_features"`
	RoleSuggestions   []string `json:"role_suggestions"`
	Stars             int      `json:"stars"`
	LastUpdated       string   `json:"last_updated"`
	IsPrivate         bool     `json:"is_private"`
}

// Report 一次分析运行的完整输出
type Report struct {
	GeneratedAt       string          `json:"generated_at"`
	Summary           Summary         `json:"summary"`
	ProjectStats      ProjectStats    `json:"project_stats"`
	SkillMatrix       []NameCount     `json:"skill_matrix"` // 按频次降序
	FeaturedProjects  []ProjectDigest `json:"featured_projects"`
	RecentUpdates     []ProjectDigest `json:"recent_updates"`
	UpdateSuggestions []string        `json:"update_suggestions"`
	Recommendations   []string        `json:"recommendations"`
	Enrichment        *Enrichment     `json:"enrichment,omitempty"`
}

// Enrichment 可选的叙事增强块，生成器缺席时整块省略
type Enrichment struct {
	Philosophy          *PersonalPhilosophy  `json:"philosophy,omitempty"`
	AICapability        *AICapabilityProfile `json:"ai_capability,omitempty"`
	ArchitectureSummary []NameCount          `json:"architecture_summary,omitempty"`
}

// GrowthStage 成长阶段描述
type GrowthStage struct {
	Stage       string `json:"stage"`
	Description string `json:"description"`
	Insight     string `json:"insight"`
}

// PersonalPhilosophy 从项目轨迹中提炼的个人哲学画像
type PersonalPhilosophy struct {
	CoreValues             []string      `json:"core_values"`       // 最多 5 个
	ThinkingPatterns       []string      `json:"thinking_patterns"` // 最多 4 个
	GrowthNarrative        string        `json:"growth_narrative"`
	GrowthStages           []GrowthStage `json:"growth_stages"`
	ProblemSolvingApproach string        `json:"problem_solving_approach"`
	TechHumanityBalance    string        `json:"tech_humanity_balance"`
	CreatorMindset         string        `json:"creator_mindset"`
	AICollaborationView    string        `json:"ai_collaboration_view"`
	PhilosophyStatement    string        `json:"philosophy_statement"`
	DeepInsights           []string      `json:"deep_insights"` // 最多 3 个
}

// NameScore 带名字的 0-1 评分项
type NameScore struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// AICapabilityProfile AI 使用能力画像
type AICapabilityProfile struct {
	UsagePattern   string      `json:"usage_pattern"` // 开发工具型 / 产品功能型 / 思维伙伴型
	PatternNote    string      `json:"pattern_note"`
	SubScores      []NameScore `json:"sub_scores"`
	AIProjectCount int         `json:"ai_project_count"`
}

// RunRecord 一次分析运行的归档行
// 只用于定时运行之间的通知去重，不做历史趋势分析
type RunRecord struct {
	ID                 uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	GeneratedAt        time.Time `json:"generated_at"`
	TotalRepos         int       `json:"total_repos"`
	RecentUpdates      int       `json:"recent_updates"`
	SignificantUpdates int       `json:"significant_updates"`
	AIProjects         int       `json:"ai_projects"`
	AvgComplexity      float64   `json:"avg_complexity"`
	ReportPath         string    `json:"report_path"`
	AlreadyNotified    bool      `json:"already_notified"`
}
