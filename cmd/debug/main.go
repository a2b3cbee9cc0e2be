package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github-resume-monitor/internal/adapter/analyzer"
	ghadapter "github-resume-monitor/internal/adapter/github"
)

// 调试工具: 拉取仓库并打印前几个的分类结果，方便肉眼核对启发式规则
func main() {
	username := flag.String("user", "", "GitHub 用户名 (留空则为 token 对应的用户)")
	limit := flag.Int("limit", 5, "打印前 N 个仓库的分类结果")
	deep := flag.Bool("deep", false, "启用深度抓取 (文件树/关键文件/提交)")
	flag.Parse()

	_ = godotenv.Load()
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		log.Fatal("❌ 请设置环境变量 GITHUB_TOKEN")
	}

	fetcher := ghadapter.NewFetcher(token, *username, true)
	fetcher.SetDeepFetch(*deep)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	repos, err := fetcher.ListUserRepos(ctx)
	if err != nil {
		log.Fatalf("❌ 拉取仓库失败: %v", err)
	}
	fmt.Printf("📥 共获取 %d 个仓库\n\n", len(repos))

	classifier := analyzer.NewRepoClassifier()
	for i, repo := range repos {
		if i >= *limit {
			break
		}
		analysis := classifier.Classify(repo)
		fmt.Printf("=== %s ===\n", repo.FullName)
		fmt.Printf("  语言: %s  ⭐%d  🍴%d\n", repo.Language, repo.Stars, repo.Forks)
		fmt.Printf("  类型: %s\n", analysis.ProjectType)
		fmt.Printf("  技术栈: %s\n", strings.Join(analysis.TechStack, ", "))
		fmt.Printf("  复杂度: %.2f  AI协作: %v\n", analysis.ComplexityScore, analysis.AICollaboration)
		fmt.Printf("  业务价值: %s\n", analysis.BusinessValue)
		fmt.Printf("  周期: %s\n", analysis.EstimatedDuration)
		if len(analysis.KeyFeatures) > 0 {
			fmt.Printf("  特性: %s\n", strings.Join(analysis.KeyFeatures, ", "))
		}
		fmt.Printf("  角色建议: %s\n\n", strings.Join(analysis.RoleSuggestions, ", "))
	}
}
