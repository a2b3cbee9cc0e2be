package github

import (
	"encoding/json"
	"sort"
	"strings"
)

// 架构模式检测的最大标签数
const maxArchPatterns = 8

// archCheck 一条架构模式检测规则
// overPaths 为 true 时在文件路径串上匹配，否则在关键文件内容串上匹配
type archCheck struct {
	label     string
	overPaths bool
	keywords  []string
}

// 检测顺序固定：先目录结构，再测试/CI，最后框架依赖
var archChecks = []archCheck{
	{"分层源码结构", true, []string{"src/"}},
	{"Go 标准工程布局", true, []string{"internal/", "cmd/"}},
	{"API 分层", true, []string{"api/", "routes/", "handlers/"}},
	{"文档齐备", true, []string{"docs/"}},
	{"测试覆盖", true, []string{"test", "spec"}},
	{"CI/CD 流水线", true, []string{".github/workflows", ".gitlab-ci", "jenkinsfile"}},
	{"React 前端", false, []string{"react", "next"}},
	{"Python Web 后端", false, []string{"flask", "django", "fastapi"}},
	{"Node.js 服务", false, []string{"express", "koa", "nest"}},
	{"容器化部署", false, []string{"docker", "container"}},
	{"ORM 数据层", false, []string{"gorm", "sqlalchemy", "mongoose", "prisma"}},
}

// DetectArchPatterns 对路径列表和关键文件内容做固定顺序的子串检测
// 输出按检测顺序排列，最多 8 个标签
func DetectArchPatterns(paths []string, keyFiles map[string]string) []string {
	pathText := strings.ToLower(strings.Join(paths, "\n"))

	// 关键文件内容按文件名排序后拼接，保证结果确定
	names := make([]string, 0, len(keyFiles))
	for name := range keyFiles {
		names = append(names, name)
	}
	sort.Strings(names)
	var sb strings.Builder
	for _, name := range names {
		sb.WriteString(strings.ToLower(name))
		sb.WriteByte('\n')
		sb.WriteString(strings.ToLower(keyFiles[name]))
		sb.WriteByte('\n')
	}
	fileText := sb.String()

	var patterns []string
	for _, check := range archChecks {
		corpus := fileText
		if check.overPaths {
			corpus = pathText
		}
		for _, kw := range check.keywords {
			if strings.Contains(corpus, kw) {
				patterns = append(patterns, check.label)
				break
			}
		}
		if len(patterns) >= maxArchPatterns {
			break
		}
	}
	return patterns
}

// ExtractDependencies 从关键配置文件中尽力解析依赖名
// 解析不了的内容直接跳过，永远不报错
func ExtractDependencies(keyFiles map[string]string) []string {
	var deps []string
	seen := make(map[string]bool)

	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		deps = append(deps, name)
	}

	if content, ok := keyFiles["requirements.txt"]; ok {
		for _, name := range parseRequirements(content) {
			add(name)
		}
	}
	if content, ok := keyFiles["package.json"]; ok {
		for _, name := range parsePackageJSON(content) {
			add(name)
		}
	}
	if content, ok := keyFiles["go.mod"]; ok {
		for _, name := range parseGoMod(content) {
			add(name)
		}
	}

	return deps
}

// parseRequirements 解析 pip 风格的版本锁定列表
func parseRequirements(content string) []string {
	var names []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		// 去掉版本约束和环境标记
		if idx := strings.IndexAny(line, "=<>!~[; "); idx >= 0 {
			line = line[:idx]
		}
		if line != "" {
			names = append(names, strings.ToLower(line))
		}
	}
	return names
}

// parsePackageJSON 取 dependencies 和 devDependencies 的键
func parsePackageJSON(content string) []string {
	var manifest struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal([]byte(content), &manifest); err != nil {
		// JSON 坏了就当没有依赖
		return nil
	}

	var names []string
	for name := range manifest.Dependencies {
		names = append(names, name)
	}
	for name := range manifest.DevDependencies {
		names = append(names, name)
	}
	// map 迭代无序，排序保证快照确定
	sort.Strings(names)
	return names
}

// parseGoMod 取 require 块里的模块路径
func parseGoMod(content string) []string {
	var names []string
	inBlock := false
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "require (":
			inBlock = true
		case inBlock && line == ")":
			inBlock = false
		case inBlock:
			fields := strings.Fields(line)
			if len(fields) >= 2 && !strings.HasPrefix(fields[0], "//") {
				names = append(names, fields[0])
			}
		case strings.HasPrefix(line, "require "):
			fields := strings.Fields(line)
			if len(fields) >= 3 {
				names = append(names, fields[1])
			}
		}
	}
	return names
}
