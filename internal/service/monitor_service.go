package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github-resume-monitor/internal/common"
	"github-resume-monitor/internal/domain"
	"github-resume-monitor/internal/port"
)

// Options 控制一次监控运行的行为
type Options struct {
	DataDir                   string
	ReportFormats             []string
	MinUpdatesForNotification int
	MinSignificantUpdates     int
	DisableNotification       bool
}

// MonitorService 串起整条流水线: 抓取 -> 分类 -> 聚合 -> 增强 -> 渲染 -> 通知 -> 归档
// enricher/mailer/notifier/archive 都可以为 nil，缺席的环节直接跳过
type MonitorService struct {
	fetcher    port.Fetcher
	classifier port.Classifier
	aggregator port.Aggregator
	enricher   port.Enricher
	renderer   port.Renderer
	notifier   port.Notifier
	mailer     port.MailSender
	archive    port.Archive
	opts       Options
	nowFunc    func() time.Time
}

// NewMonitorService 组装流水线
func NewMonitorService(
	fetcher port.Fetcher,
	classifier port.Classifier,
	aggregator port.Aggregator,
	enricher port.Enricher,
	renderer port.Renderer,
	notifier port.Notifier,
	mailer port.MailSender,
	archive port.Archive,
	opts Options,
) *MonitorService {
	if len(opts.ReportFormats) == 0 {
		opts.ReportFormats = []string{"markdown"}
	}
	if opts.DataDir == "" {
		opts.DataDir = "data"
	}
	return &MonitorService{
		fetcher:    fetcher,
		classifier: classifier,
		aggregator: aggregator,
		enricher:   enricher,
		renderer:   renderer,
		notifier:   notifier,
		mailer:     mailer,
		archive:    archive,
		opts:       opts,
		nowFunc:    time.Now,
	}
}

// Run 执行一轮完整的监控。forced 为 true 时无视阈值强制发送通知
func (s *MonitorService) Run(ctx context.Context, forced bool) error {
	log.Println("🚀 开始新一轮仓库监控...")

	// 1. 抓取
	repos, err := s.fetcher.ListUserRepos(ctx)
	if err != nil {
		return common.WrapError(common.ErrCodeGitHubAPI, "拉取仓库列表失败", err)
	}
	log.Printf("📥 共获取到 %d 个仓库", len(repos))

	// 2. 逐个分类
	analyses := make([]*domain.ProjectAnalysis, 0, len(repos))
	for _, repo := range repos {
		analysis := s.classifier.Classify(repo)
		analyses = append(analyses, analysis)
		log.Printf("  🔍 %s: 类型=%s 复杂度=%.2f AI协作=%v",
			repo.Name, analysis.ProjectType, analysis.ComplexityScore, analysis.AICollaboration)
	}

	// 3. 聚合
	report := s.aggregator.BuildReport(analyses)

	// 4. 可选增强
	if s.enricher != nil {
		report.Enrichment = s.enricher.Enrich(analyses)
	}

	// 5. 落盘: JSON 原始报告 + 各配置格式的渲染结果
	paths, err := s.writeReports(report)
	if err != nil {
		return err
	}
	for _, p := range paths {
		log.Printf("📄 报告已保存: %s", p)
	}

	// 6. 通知
	notified := false
	if s.shouldNotify(report, forced) {
		if err := s.sendNotifications(ctx, report, paths); err != nil {
			log.Printf("⚠️ 通知发送失败: %v", err)
		} else {
			notified = true
		}
	} else {
		log.Println("ℹ️ 未达到通知阈值，跳过通知")
	}

	// 7. 归档
	s.archiveRun(ctx, report, paths, notified)

	log.Printf("✅ 本轮监控完成: %d 个仓库, %d 个近期更新",
		report.Summary.TotalRepos, report.Summary.RecentUpdates)
	return nil
}

// writeReports 先写 JSON 原始数据，再按配置格式渲染
// 文件名带时间戳，同一轮的所有文件共享同一个时间戳
func (s *MonitorService) writeReports(report *domain.Report) ([]string, error) {
	if err := os.MkdirAll(s.opts.DataDir, 0o755); err != nil {
		return nil, common.WrapError(common.ErrCodeInternal, "创建数据目录失败", err)
	}

	stamp := s.nowFunc().Format("20060102_150405")
	paths := make([]string, 0, len(s.opts.ReportFormats)+1)

	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, common.WrapError(common.ErrCodeInternal, "序列化报告失败", err)
	}
	jsonPath := filepath.Join(s.opts.DataDir, fmt.Sprintf("report_%s.json", stamp))
	if err := writeFileAtomic(jsonPath, raw); err != nil {
		return nil, err
	}
	paths = append(paths, jsonPath)

	for _, format := range s.opts.ReportFormats {
		content, err := s.renderer.Render(report, format)
		if err != nil {
			return nil, err
		}
		ext, err := s.renderer.Extension(format)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(s.opts.DataDir, fmt.Sprintf("report_%s%s", stamp, ext))
		if err := writeFileAtomic(path, []byte(content)); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// shouldNotify 阈值判定: 近期更新数、重要更新数、高价值精选项目三者任一满足即通知
func (s *MonitorService) shouldNotify(report *domain.Report, forced bool) bool {
	if forced {
		return true
	}
	if report.Summary.RecentUpdates >= s.opts.MinUpdatesForNotification &&
		s.opts.MinUpdatesForNotification > 0 {
		return true
	}
	if report.Summary.SignificantUpdates >= s.opts.MinSignificantUpdates &&
		s.opts.MinSignificantUpdates > 0 {
		return true
	}
	for _, p := range report.FeaturedProjects {
		if strings.Contains(p.BusinessValue, "高价值") {
			return true
		}
	}
	return false
}

// sendNotifications 邮件正文用纯文本渲染，markdown/html 报告作为附件
func (s *MonitorService) sendNotifications(ctx context.Context, report *domain.Report, paths []string) error {
	if s.opts.DisableNotification {
		log.Println("ℹ️ 通知被命令行参数禁用")
		return nil
	}

	var firstErr error
	if s.mailer != nil {
		body, err := s.renderer.Render(report, "text")
		if err != nil {
			return err
		}
		subject := fmt.Sprintf("GitHub 项目监控报告 - %d 个近期更新", report.Summary.RecentUpdates)
		attachments := make([]string, 0, len(paths))
		for _, p := range paths {
			if filepath.Ext(p) == ".md" || filepath.Ext(p) == ".html" {
				attachments = append(attachments, p)
			}
		}
		if err := s.mailer.Send(subject, body, attachments); err != nil {
			log.Printf("⚠️ 邮件发送失败: %v", err)
			firstErr = err
		} else {
			log.Println("📧 邮件通知已发送")
		}
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, report); err != nil {
			log.Printf("⚠️ webhook 推送失败: %v", err)
			if firstErr == nil {
				firstErr = err
			}
		} else {
			log.Println("🔔 webhook 通知已发送")
		}
	}
	return firstErr
}

// archiveRun 归档层缺席或失败都不影响本轮结果
func (s *MonitorService) archiveRun(ctx context.Context, report *domain.Report, paths []string, notified bool) {
	if s.archive == nil {
		return
	}
	generatedAt, err := time.Parse(time.RFC3339, report.GeneratedAt)
	if err != nil {
		generatedAt = s.nowFunc().UTC()
	}
	run := &domain.RunRecord{
		GeneratedAt:        generatedAt,
		TotalRepos:         report.Summary.TotalRepos,
		RecentUpdates:      report.Summary.RecentUpdates,
		SignificantUpdates: report.Summary.SignificantUpdates,
		AIProjects:         report.Summary.AIProjects,
		AvgComplexity:      report.Summary.AvgComplexity,
		AlreadyNotified:    notified,
	}
	if len(paths) > 0 {
		run.ReportPath = paths[0]
	}
	if err := s.archive.SaveRun(ctx, run); err != nil {
		log.Printf("⚠️ 运行归档失败: %v", err)
		return
	}
	if notified && run.ID != 0 {
		if err := s.archive.MarkAsNotified(ctx, run.ID); err != nil {
			log.Printf("⚠️ 标记已通知失败: %v", err)
		}
	}
}

// writeFileAtomic 先写临时文件再改名，避免读到半截报告
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return common.WrapError(common.ErrCodeInternal, "写入报告文件失败", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return common.WrapError(common.ErrCodeInternal, "写入报告文件失败", err)
	}
	return nil
}
