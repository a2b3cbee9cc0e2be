package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github-resume-monitor/internal/adapter/analyzer"
	"github-resume-monitor/internal/adapter/archive"
	ghadapter "github-resume-monitor/internal/adapter/github"
	"github-resume-monitor/internal/adapter/insight"
	"github-resume-monitor/internal/adapter/notify"
	"github-resume-monitor/internal/adapter/render"
	"github-resume-monitor/internal/config"
	"github-resume-monitor/internal/port"
	"github-resume-monitor/internal/scheduler"
	"github-resume-monitor/internal/service"
)

func main() {
	cfgFile := flag.String("config", "config.json", "配置文件路径")
	once := flag.Bool("once", false, "只执行一轮监控后退出")
	noNotification := flag.Bool("no-notification", false, "本次运行不发送任何通知")
	flag.Parse()

	// 加载 .env 文件 (不存在也没关系)
	if err := godotenv.Load(); err != nil {
		log.Println("ℹ️ 未找到 .env 文件，将直接使用系统环境变量")
	}

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Fatalf("❌ 配置加载失败: %v", err)
	}

	svc, err := buildService(cfg, *noNotification)
	if err != nil {
		log.Fatalf("❌ 服务初始化失败: %v", err)
	}

	if *once {
		if err := svc.Run(context.Background(), false); err != nil {
			log.Fatalf("❌ 监控执行失败: %v", err)
		}
		return
	}

	sched, err := scheduler.New(cfg.Schedule, svc.Run)
	if err != nil {
		log.Fatalf("❌ 调度器初始化失败: %v", err)
	}

	// 优雅停机: 收到信号后取消 context，等调度器收尾
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched.Start(ctx)
	log.Println("👋 服务已退出")
}

// buildService 按配置拼装流水线，关闭的通道传 nil
func buildService(cfg *config.Config, noNotification bool) (*service.MonitorService, error) {
	fetcher := ghadapter.NewFetcher(cfg.GitHub.Token, cfg.GitHub.Username, cfg.GitHub.IncludePrivate)
	fetcher.SetDeepFetch(true)

	var mailer port.MailSender
	if cfg.Notifications.Email.Enabled {
		mailer = notify.NewMailer(
			cfg.Notifications.Email.SMTPServer,
			cfg.Notifications.Email.SMTPPort,
			cfg.Notifications.Email.SenderEmail,
			cfg.Notifications.Email.SenderPassword,
			cfg.Notifications.Email.Recipients,
		)
	}

	var notifier port.Notifier
	if cfg.Notifications.Webhook.Enabled && cfg.Notifications.Webhook.URL != "" {
		notifier = notify.NewWebhookNotifier(cfg.Notifications.Webhook.URL, cfg.Notifications.Webhook.Type)
	}

	var runArchive port.Archive
	if cfg.Archive.Enabled {
		pg, err := archive.NewPostgresArchive(cfg.Archive.DSN)
		if err != nil {
			// 归档层挂了不阻止监控本身
			log.Printf("⚠️ 归档初始化失败，本次运行不归档: %v", err)
		} else {
			runArchive = pg
		}
	}

	svc := service.NewMonitorService(
		fetcher,
		analyzer.NewRepoClassifier(),
		analyzer.NewReportAggregator(),
		insight.NewEnricher(),
		render.NewReportRenderer(),
		notifier,
		mailer,
		runArchive,
		service.Options{
			DataDir:                   cfg.DataDir,
			ReportFormats:             cfg.ReportFormats,
			MinUpdatesForNotification: cfg.Thresholds.MinUpdatesForNotification,
			MinSignificantUpdates:     cfg.Thresholds.MinSignificantUpdates,
			DisableNotification:       noNotification,
		},
	)
	return svc, nil
}
