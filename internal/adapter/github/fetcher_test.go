package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-github/v53/github"
	"github.com/stretchr/testify/assert"
)

// setupMockGitHubServer 创建一个模拟的 GitHub API 服务器
func setupMockGitHubServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Fetcher) {
	server := httptest.NewServer(handler)

	client := github.NewClient(nil)
	baseURL, _ := url.Parse(server.URL + "/")
	client.BaseURL = baseURL

	fetcher := &Fetcher{client: client, username: "tester"}
	return server, fetcher
}

// createMockRepo 创建模拟的 GitHub 仓库对象
func createMockRepo(fullName, description, language string, stars int, private bool, updatedAt time.Time) *github.Repository {
	return &github.Repository{
		Name:            github.String(fullName[len("tester/"):]),
		FullName:        github.String(fullName),
		Description:     github.String(description),
		Language:        github.String(language),
		StargazersCount: github.Int(stars),
		ForksCount:      github.Int(2),
		Private:         github.Bool(private),
		Size:            github.Int(1500),
		Topics:          []string{"tool"},
		CreatedAt:       &github.Timestamp{Time: updatedAt.AddDate(-1, 0, 0)},
		UpdatedAt:       &github.Timestamp{Time: updatedAt},
		PushedAt:        &github.Timestamp{Time: updatedAt},
	}
}

func TestFetcher_ListUserRepos(t *testing.T) {
	now := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	readme := base64.StdEncoding.EncodeToString([]byte("# invoice-ocr\n\nAI OCR tool"))

	server, fetcher := setupMockGitHubServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/user/repos":
			assert.Equal(t, "updated", r.URL.Query().Get("sort"))
			assert.Equal(t, "100", r.URL.Query().Get("per_page"))
			json.NewEncoder(w).Encode([]*github.Repository{
				createMockRepo("tester/invoice-ocr", "AI OCR tool", "Python", 15, true, now),
			})
		case "/repos/tester/invoice-ocr/languages":
			json.NewEncoder(w).Encode(map[string]int{"Python": 50000, "Shell": 1000})
		case "/repos/tester/invoice-ocr/readme":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"type":     "file",
				"encoding": "base64",
				"content":  readme,
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message": "Not Found"}`))
		}
	})
	defer server.Close()

	fetcher.deepFetch = false

	repos, err := fetcher.ListUserRepos(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, len(repos))

	repo := repos[0]
	assert.Equal(t, "invoice-ocr", repo.Name)
	assert.Equal(t, "tester/invoice-ocr", repo.FullName)
	assert.Equal(t, "AI OCR tool", repo.Description)
	assert.Equal(t, "Python", repo.Language)
	assert.Equal(t, 15, repo.Stars)
	assert.True(t, repo.IsPrivate)
	assert.Equal(t, "2026-08-20T10:00:00Z", repo.UpdatedAt)
	assert.Equal(t, map[string]int{"Python": 50000, "Shell": 1000}, repo.Languages)
	assert.Equal(t, "# invoice-ocr\n\nAI OCR tool", repo.ReadmeContent)
	// 未开启深度抓取时附加字段为空
	assert.Nil(t, repo.FilePaths)
	assert.Nil(t, repo.Dependencies)
}

func TestFetcher_ListUserRepos_MissingReadme(t *testing.T) {
	now := time.Now()

	server, fetcher := setupMockGitHubServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/user/repos":
			json.NewEncoder(w).Encode([]*github.Repository{
				createMockRepo("tester/no-readme", "bare repo", "Go", 0, false, now),
			})
		case "/repos/tester/no-readme/languages":
			json.NewEncoder(w).Encode(map[string]int{"Go": 100})
		default:
			// README 等补充资源 404，不应让整体失败
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message": "Not Found"}`))
		}
	})
	defer server.Close()

	fetcher.deepFetch = false

	repos, err := fetcher.ListUserRepos(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, len(repos))
	assert.Equal(t, "", repos[0].ReadmeContent)
}

func TestFetcher_ListUserRepos_APIError(t *testing.T) {
	server, fetcher := setupMockGitHubServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message": "API rate limit exceeded"}`))
	})
	defer server.Close()

	repos, err := fetcher.ListUserRepos(context.Background())

	assert.Error(t, err)
	assert.Nil(t, repos)
	assert.Contains(t, err.Error(), "获取仓库列表失败")
}

func TestFetcher_ListUserRepos_Pagination(t *testing.T) {
	now := time.Now()

	var fetcherRef *Fetcher
	server, fetcher := setupMockGitHubServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/user/repos":
			if r.URL.Query().Get("page") == "" {
				w.Header().Set("Link", `<`+fetcherRef.client.BaseURL.String()+`user/repos?page=2>; rel="next"`)
				json.NewEncoder(w).Encode([]*github.Repository{
					createMockRepo("tester/first", "page one", "Go", 0, false, now),
				})
			} else {
				json.NewEncoder(w).Encode([]*github.Repository{
					createMockRepo("tester/second", "page two", "Go", 0, false, now),
				})
			}
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message": "Not Found"}`))
		}
	})
	defer server.Close()
	fetcherRef = fetcher

	fetcher.deepFetch = false

	repos, err := fetcher.ListUserRepos(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 2, len(repos))
	assert.Equal(t, "first", repos[0].Name)
	assert.Equal(t, "second", repos[1].Name)
}

func TestNewFetcher(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "使用令牌创建", token: "ghp_test_token_1234567890"},
		{name: "无令牌匿名创建", token: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := NewFetcher(tt.token, "tester", true)

			assert.NotNil(t, fetcher)
			assert.NotNil(t, fetcher.client)
			assert.True(t, fetcher.private)
			assert.True(t, fetcher.deepFetch)
		})
	}
}

func TestSplitFullName(t *testing.T) {
	tests := []struct {
		name          string
		fullName      string
		expectedOwner string
		expectedRepo  string
	}{
		{name: "标准全名", fullName: "tester/repo", expectedOwner: "tester", expectedRepo: "repo"},
		{name: "没有斜杠", fullName: "solo", expectedOwner: "solo", expectedRepo: "solo"},
		{name: "名字里带斜杠", fullName: "a/b/c", expectedOwner: "a", expectedRepo: "b/c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo := splitFullName(tt.fullName)
			assert.Equal(t, tt.expectedOwner, owner)
			assert.Equal(t, tt.expectedRepo, repo)
		})
	}
}

func TestSleepCtx(t *testing.T) {
	// 零时长直接返回
	assert.NoError(t, sleepCtx(context.Background(), 0))

	// 取消的 context 打断等待
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := sleepCtx(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsNotFound(t *testing.T) {
	notFound := &github.ErrorResponse{
		Response: &http.Response{StatusCode: http.StatusNotFound},
	}
	forbidden := &github.ErrorResponse{
		Response: &http.Response{StatusCode: http.StatusForbidden},
	}

	assert.True(t, isNotFound(notFound))
	assert.False(t, isNotFound(forbidden))
	assert.False(t, isNotFound(nil))
}
