package analyzer

// 关键词表全部用带序的 (标签, 关键词) 对声明
// 声明顺序就是平局时的裁决顺序，不能换成无序 map

// 语言 -> 技术栈标签
var techMapping = map[string][]string{
	"Python":     {"AI/ML", "数据处理", "自动化", "Web开发"},
	"JavaScript": {"前端开发", "Web应用", "Node.js", "React"},
	"TypeScript": {"前端框架", "企业级应用", "类型安全"},
	"HTML":       {"Web前端", "用户界面"},
	"CSS":        {"界面设计", "响应式布局"},
	"Go":         {"微服务", "云原生", "高性能"},
	"Java":       {"企业应用", "后端服务", "Spring"},
	"Dockerfile": {"容器化", "DevOps", "部署自动化"},
	"Shell":      {"运维自动化", "脚本工具"},
}

// AI 协作关键词
var aiKeywords = []string{
	"ai", "ml", "gpt", "claude", "llm", "ocr", "automation",
	"intelligent", "smart", "neural", "model", "openai",
	"chatgpt", "anthropic", "machine learning", "deep learning",
}

// labelKeywords 一条 标签 -> 关键词集合 的映射
type labelKeywords struct {
	label    string
	keywords []string
}

// 项目类型分类表，得分相同取先声明者
var projectTypes = []labelKeywords{
	{"AI工具", []string{"ai", "ml", "ocr", "tts", "nlp", "cv"}},
	{"自动化工具", []string{"automation", "script", "tool", "process"}},
	{"Web应用", []string{"web", "app", "frontend", "backend", "api"}},
	{"数据处理", []string{"data", "analysis", "etl", "database"}},
	{"企业系统", []string{"enterprise", "business", "management", "crm"}},
	{"开发工具", []string{"dev", "tool", "utility", "helper"}},
	{"移动应用", []string{"mobile", "android", "ios", "app"}},
	{"游戏", []string{"game", "unity", "engine"}},
	{"区块链", []string{"blockchain", "crypto", "web3", "defi"}},
	{"物联网", []string{"iot", "sensor", "embedded", "arduino"}},
}

// 兜底项目类型
const fallbackProjectType = "其他工具"

// 关键特性提取表，命中顺序即输出顺序，最多取 5 个
var featureKeywords = []labelKeywords{
	{"自动化处理", []string{"auto", "automatic", "batch", "process"}},
	{"AI集成", []string{"ai", "gpt", "claude", "ml", "intelligent"}},
	{"Web界面", []string{"web", "ui", "interface", "dashboard"}},
	{"API接口", []string{"api", "rest", "endpoint", "service"}},
	{"数据处理", []string{"data", "csv", "json", "database"}},
	{"图像处理", []string{"image", "ocr", "cv", "vision"}},
	{"文件管理", []string{"file", "folder", "document", "export"}},
	{"实时处理", []string{"real-time", "live", "monitor", "watch"}},
	{"批量操作", []string{"batch", "bulk", "multiple", "mass"}},
	{"跨平台", []string{"cross-platform", "multi-platform", "universal"}},
}

// 角色建议规则用到的技术栈标签集
var (
	frontendTags   = []string{"前端开发", "Web应用", "React"}
	dataAITags     = []string{"AI/ML", "数据处理"}
	automationTags = []string{"自动化", "脚本工具"}
)

// 商业价值档位
const (
	valueHighAIComplex    = "高价值 - AI协作复杂项目"
	valueMidHighAIApplied = "中高价值 - AI应用项目"
	valueMidHighComplex   = "中高价值 - 复杂技术项目"
	valueMidAITool        = "中等价值 - AI工具应用"
	valueMidPractical     = "中等价值 - 实用工具"
	valueBaseline         = "基础价值 - 学习项目"
)

// 工期档位
const (
	durationMonths2to6 = "2-6个月"
	durationMonths1to3 = "1-3个月"
	durationWeeks2to6  = "2-6周"
	durationWeeks1to2  = "1-2周"
	durationDays       = "数天"
)
