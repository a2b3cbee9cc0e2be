package port

import (
	"context"

	"github-resume-monitor/internal/domain"
)

// Fetcher (抓取器): 负责从托管 API 拉取用户的所有仓库并组装成完整快照
// README/文件树/提交等补充抓取失败时降级为空值，不中断整体流程
type Fetcher interface {
	ListUserRepos(ctx context.Context) ([]*domain.Repository, error)
}

// Classifier (分类器): 纯函数式的启发式分类，不访问网络
type Classifier interface {
	Classify(repo *domain.Repository) *domain.ProjectAnalysis
}

// Aggregator (聚合器): 把所有分类结果汇总成一份报告
type Aggregator interface {
	BuildReport(analyses []*domain.ProjectAnalysis) *domain.Report
}

// Enricher (增强器): 可选的叙事生成，缺席时报告不带 enrichment 块
// 是否注入在构造期决定，不做运行期探测
type Enricher interface {
	Enrich(analyses []*domain.ProjectAnalysis) *domain.Enrichment
}

// Renderer (渲染器): 把报告渲染成指定格式的文本
// 不认识的格式必须报错，不允许静默回退到默认格式
type Renderer interface {
	Render(report *domain.Report, format string) (string, error)
	Extension(format string) (string, error)
}

// Notifier (信使): 推送报告摘要到 webhook 通道 (钉钉/企业微信/飞书)
type Notifier interface {
	Notify(ctx context.Context, report *domain.Report) error
}

// MailSender (邮差): 发送带附件的邮件通知
type MailSender interface {
	Send(subject, body string, attachments []string) error
}

// Archive (档案员): 记录每次运行的摘要，用于通知去重
type Archive interface {
	SaveRun(ctx context.Context, run *domain.RunRecord) error
	MarkAsNotified(ctx context.Context, runID uint) error
	LastRun(ctx context.Context) (*domain.RunRecord, error)
}
