package github

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github-resume-monitor/internal/common"
	"github-resume-monitor/internal/domain"

	"github.com/google/go-github/v53/github"
	"golang.org/x/oauth2"
)

// 每个仓库的补充抓取上限
const (
	maxTreeEntries  = 500  // 文件树最多记录的路径数
	maxKeyFileBytes = 4000 // 关键文件内容截断长度
	maxCommits      = 20   // 最近提交条数
)

// 需要抓取内容的关键配置文件
var keyFileNames = []string{
	"package.json",
	"requirements.txt",
	"go.mod",
	"pyproject.toml",
	"Dockerfile",
	"docker-compose.yml",
}

// Fetcher 实现了 port.Fetcher 接口
type Fetcher struct {
	client     *github.Client
	username   string
	private    bool          // 是否包含私有仓库
	deepFetch  bool          // 是否抓取文件树/关键文件/提交
	fetchDelay time.Duration // 连续抓取两个仓库之间的间隔，压住请求速率
}

// NewFetcher 初始化 GitHub 客户端
// token 为空时匿名访问 (限制 60次/小时，且看不到私有仓库)
func NewFetcher(token, username string, includePrivate bool) *Fetcher {
	var client *github.Client

	if token == "" {
		client = github.NewClient(nil)
	} else {
		ctx := context.Background()
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		tc := oauth2.NewClient(ctx, ts)
		client = github.NewClient(tc)
	}

	return &Fetcher{
		client:     client,
		username:   username,
		private:    includePrivate,
		deepFetch:  true,
		fetchDelay: 500 * time.Millisecond,
	}
}

// SetDeepFetch 控制是否做文件树/关键文件/提交的深度抓取
func (f *Fetcher) SetDeepFetch(enabled bool) {
	f.deepFetch = enabled
}

// ListUserRepos 分页拉取用户的全部仓库并逐个组装成完整快照
// 单个仓库的补充抓取失败只会让对应字段为空，不会中断整个列表
func (f *Fetcher) ListUserRepos(ctx context.Context) ([]*domain.Repository, error) {
	fmt.Printf("📥 正在获取用户 %s 的仓库列表...\n", f.username)

	opts := &github.RepositoryListOptions{
		Sort:      "updated",
		Direction: "desc",
		ListOptions: github.ListOptions{
			PerPage: 100,
		},
	}
	if f.private {
		opts.Visibility = "all"
	}

	var repos []*domain.Repository
	for {
		var batch []*github.Repository
		var resp *github.Response
		err := common.Do(ctx, func() error {
			var apiErr error
			batch, resp, apiErr = f.client.Repositories.List(ctx, "", opts)
			return apiErr
		},
			common.WithMaxRetries(2),
			common.WithInitialDelay(time.Second),
			common.WithMultiplier(1.0),
		)
		if err != nil {
			return nil, common.WrapError(common.ErrCodeGitHubAPI, "获取仓库列表失败", err)
		}

		for _, item := range batch {
			record := f.buildRecord(ctx, item)
			repos = append(repos, record)

			// 避免触发 API 限制
			if err := sleepCtx(ctx, f.fetchDelay); err != nil {
				return repos, err
			}
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	fmt.Printf("✅ 成功获取 %d 个仓库\n", len(repos))
	return repos, nil
}

// buildRecord 把一条仓库数据加上补充抓取结果组装成不可变的快照
func (f *Fetcher) buildRecord(ctx context.Context, item *github.Repository) *domain.Repository {
	fullName := item.GetFullName()
	owner, name := splitFullName(fullName)

	record := &domain.Repository{
		Name:          item.GetName(),
		FullName:      fullName,
		Description:   item.GetDescription(),
		Language:      item.GetLanguage(),
		Topics:        item.Topics,
		Stars:         item.GetStargazersCount(),
		Forks:         item.GetForksCount(),
		CreatedAt:     item.GetCreatedAt().Time.UTC().Format(time.RFC3339),
		UpdatedAt:     item.GetUpdatedAt().Time.UTC().Format(time.RFC3339),
		PushedAt:      item.GetPushedAt().Time.UTC().Format(time.RFC3339),
		Size:          item.GetSize(),
		OpenIssues:    item.GetOpenIssuesCount(),
		IsPrivate:     item.GetPrivate(),
		License:       item.GetLicense().GetName(),
		Homepage:      item.GetHomepage(),
		Languages:     f.fetchLanguages(ctx, owner, name),
		ReadmeContent: f.fetchReadme(ctx, owner, name),
	}

	if f.deepFetch {
		record.FilePaths = f.fetchFileTree(ctx, owner, name)
		record.KeyFiles = f.fetchKeyFiles(ctx, owner, name, record.FilePaths)
		record.Dependencies = ExtractDependencies(record.KeyFiles)
		record.CommitMessages = f.fetchCommitSubjects(ctx, owner, name)
		record.ArchPatterns = DetectArchPatterns(record.FilePaths, record.KeyFiles)
	}

	return record
}

// fetchLanguages 获取语言分布，失败时返回空映射
func (f *Fetcher) fetchLanguages(ctx context.Context, owner, name string) map[string]int {
	var langs map[string]int
	err := common.Do(ctx, func() error {
		var apiErr error
		langs, _, apiErr = f.client.Repositories.ListLanguages(ctx, owner, name)
		if isNotFound(apiErr) {
			langs = map[string]int{}
			return nil
		}
		return apiErr
	},
		common.WithMaxRetries(2),
		common.WithInitialDelay(500*time.Millisecond),
		common.WithMultiplier(1.0),
	)
	if err != nil {
		log.Printf("⚠️ 获取 %s/%s 语言分布失败: %v", owner, name, err)
		return map[string]int{}
	}
	if langs == nil {
		langs = map[string]int{}
	}
	return langs
}

// fetchReadme 获取 README 全文
// 404 (没有 README) 直接返回空串；解码失败也返回空串，绝不让单个仓库中断流程
func (f *Fetcher) fetchReadme(ctx context.Context, owner, name string) string {
	var content *github.RepositoryContent
	err := common.Do(ctx, func() error {
		var apiErr error
		content, _, apiErr = f.client.Repositories.GetReadme(ctx, owner, name, nil)
		if isNotFound(apiErr) {
			content = nil
			return nil
		}
		return apiErr
	},
		common.WithMaxRetries(2),
		common.WithInitialDelay(500*time.Millisecond),
		common.WithMultiplier(1.0),
	)
	if err != nil {
		log.Printf("⚠️ 获取 %s/%s README 失败: %v", owner, name, err)
		return ""
	}
	if content == nil {
		return ""
	}

	text, err := content.GetContent()
	if err != nil {
		// base64 解码失败
		log.Printf("⚠️ 解码 %s/%s README 失败: %v", owner, name, err)
		return ""
	}
	return text
}

// fetchFileTree 拉取递归文件树的 blob 路径，失败时返回空列表
func (f *Fetcher) fetchFileTree(ctx context.Context, owner, name string) []string {
	var tree *github.Tree
	err := common.Do(ctx, func() error {
		var apiErr error
		tree, _, apiErr = f.client.Git.GetTree(ctx, owner, name, "HEAD", true)
		if isNotFound(apiErr) {
			tree = nil
			return nil
		}
		return apiErr
	},
		common.WithMaxRetries(2),
		common.WithInitialDelay(500*time.Millisecond),
		common.WithMultiplier(1.0),
	)
	if err != nil {
		log.Printf("⚠️ 获取 %s/%s 文件树失败: %v", owner, name, err)
		return nil
	}
	if tree == nil {
		return nil
	}

	var paths []string
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}
		paths = append(paths, entry.GetPath())
		if len(paths) >= maxTreeEntries {
			break
		}
	}
	return paths
}

// fetchKeyFiles 抓取文件树里出现过的关键配置文件，内容做截断
func (f *Fetcher) fetchKeyFiles(ctx context.Context, owner, name string, paths []string) map[string]string {
	present := make(map[string]bool, len(paths))
	for _, p := range paths {
		present[p] = true
	}

	keyFiles := make(map[string]string)
	for _, fileName := range keyFileNames {
		if !present[fileName] {
			continue
		}

		var fileContent *github.RepositoryContent
		err := common.Do(ctx, func() error {
			var apiErr error
			fileContent, _, _, apiErr = f.client.Repositories.GetContents(ctx, owner, name, fileName, nil)
			if isNotFound(apiErr) {
				fileContent = nil
				return nil
			}
			return apiErr
		},
			common.WithMaxRetries(2),
			common.WithInitialDelay(500*time.Millisecond),
			common.WithMultiplier(1.0),
		)
		if err != nil {
			log.Printf("⚠️ 获取 %s/%s 文件 %s 失败: %v", owner, name, fileName, err)
			continue
		}
		if fileContent == nil {
			continue
		}

		text, err := fileContent.GetContent()
		if err != nil {
			log.Printf("⚠️ 解码 %s/%s 文件 %s 失败: %v", owner, name, fileName, err)
			continue
		}
		if len(text) > maxKeyFileBytes {
			text = text[:maxKeyFileBytes]
		}
		keyFiles[fileName] = text
	}

	if len(keyFiles) == 0 {
		return nil
	}
	return keyFiles
}

// fetchCommitSubjects 获取最近提交的标题行，失败时返回空列表
func (f *Fetcher) fetchCommitSubjects(ctx context.Context, owner, name string) []string {
	var commits []*github.RepositoryCommit
	err := common.Do(ctx, func() error {
		var apiErr error
		commits, _, apiErr = f.client.Repositories.ListCommits(ctx, owner, name, &github.CommitsListOptions{
			ListOptions: github.ListOptions{PerPage: maxCommits},
		})
		if isNotFound(apiErr) {
			commits = nil
			return nil
		}
		return apiErr
	},
		common.WithMaxRetries(2),
		common.WithInitialDelay(500*time.Millisecond),
		common.WithMultiplier(1.0),
	)
	if err != nil {
		log.Printf("⚠️ 获取 %s/%s 提交记录失败: %v", owner, name, err)
		return nil
	}

	var subjects []string
	for _, commit := range commits {
		message := commit.GetCommit().GetMessage()
		if message == "" {
			continue
		}
		// 只保留标题行
		if idx := strings.IndexByte(message, '\n'); idx >= 0 {
			message = message[:idx]
		}
		subjects = append(subjects, message)
	}
	return subjects
}

// isNotFound 判断是否是确定性的 404 (仓库没有该资源，不重试)
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) {
		return ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound
	}
	return false
}

// splitFullName 把 "owner/name" 拆成两段
func splitFullName(fullName string) (string, string) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 {
		return fullName, fullName
	}
	return parts[0], parts[1]
}

// sleepCtx 可被 context 打断的 sleep
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
