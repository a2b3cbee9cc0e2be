package config

import (
	"os"

	"github.com/spf13/viper"

	"github-resume-monitor/internal/common"
)

// Config 运行配置，结构与 config.json 一一对应
type Config struct {
	GitHub        GitHub        `mapstructure:"github"`
	Schedule      Schedule      `mapstructure:"schedule"`
	Notifications Notifications `mapstructure:"notifications"`
	DataDir       string        `mapstructure:"data_dir"`
	ReportFormats []string      `mapstructure:"report_formats"`
	Thresholds    Thresholds    `mapstructure:"thresholds"`
	Archive       Archive       `mapstructure:"archive"`
}

// GitHub 访问凭证
type GitHub struct {
	Token          string `mapstructure:"token"`
	Username       string `mapstructure:"username"`
	IncludePrivate bool   `mapstructure:"include_private"`
}

// Schedule 定时任务表达
type Schedule struct {
	DailyCheck         string `mapstructure:"daily_check"`          // "09:00"
	WeeklyReport       string `mapstructure:"weekly_report"`        // "MON:10:00"
	CheckIntervalHours int    `mapstructure:"check_interval_hours"` // 每 N 小时
}

// Email 邮件通知设置
type Email struct {
	Enabled        bool     `mapstructure:"enabled"`
	SMTPServer     string   `mapstructure:"smtp_server"`
	SMTPPort       int      `mapstructure:"smtp_port"`
	SenderEmail    string   `mapstructure:"sender_email"`
	SenderPassword string   `mapstructure:"sender_password"`
	Recipients     []string `mapstructure:"recipients"`
}

// Webhook webhook 通知设置
type Webhook struct {
	Enabled bool   `mapstructure:"enabled"`
	Type    string `mapstructure:"type"` // dingtalk / wechat / feishu
	URL     string `mapstructure:"url"`
}

// Notifications 通知通道开关与设置
type Notifications struct {
	Email   Email   `mapstructure:"email"`
	Webhook Webhook `mapstructure:"webhook"`
}

// Thresholds 通知触发阈值
type Thresholds struct {
	MinUpdatesForNotification int     `mapstructure:"min_updates_for_notification"`
	MinSignificantUpdates     int     `mapstructure:"min_significant_updates"`
	ComplexityThreshold       float64 `mapstructure:"complexity_threshold"`
}

// Archive 运行归档设置
type Archive struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn"`
}

// Load 读取配置文件并套上默认值
// 环境变量里的凭证优先于配置文件；缺少 GitHub token 是致命的配置错误
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			// 配置文件不存在时用默认值 + 环境变量跑
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				if !os.IsNotExist(err) {
					return nil, common.WrapError(common.ErrCodeConfig, "读取配置文件失败", err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, common.WrapError(common.ErrCodeConfig, "解析配置失败", err)
	}

	// 凭证优先从环境变量获取
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.GitHub.Token = token
	}
	if username := os.Getenv("GITHUB_USERNAME"); username != "" {
		cfg.GitHub.Username = username
	}
	if user := os.Getenv("EMAIL_USER"); user != "" {
		cfg.Notifications.Email.SenderEmail = user
		if len(cfg.Notifications.Email.Recipients) == 0 {
			cfg.Notifications.Email.Recipients = []string{user}
		}
	}
	if password := os.Getenv("EMAIL_PASSWORD"); password != "" {
		cfg.Notifications.Email.SenderPassword = password
	}
	if url := os.Getenv("WEBHOOK_URL"); url != "" {
		cfg.Notifications.Webhook.URL = url
	}

	if cfg.GitHub.Token == "" {
		return nil, common.NewError(common.ErrCodeConfig, "GitHub token 未配置，请设置环境变量 GITHUB_TOKEN 或在配置文件中配置")
	}

	return &cfg, nil
}

// setDefaults 默认值与原始 config.json 对齐
func setDefaults(v *viper.Viper) {
	v.SetDefault("github.username", "")
	v.SetDefault("github.include_private", true)
	v.SetDefault("schedule.daily_check", "09:00")
	v.SetDefault("schedule.weekly_report", "MON:10:00")
	v.SetDefault("schedule.check_interval_hours", 6)
	v.SetDefault("notifications.email.enabled", true)
	v.SetDefault("notifications.email.smtp_server", "smtp.outlook.com")
	v.SetDefault("notifications.email.smtp_port", 587)
	v.SetDefault("notifications.webhook.enabled", false)
	v.SetDefault("notifications.webhook.type", "dingtalk")
	v.SetDefault("data_dir", "data")
	v.SetDefault("report_formats", []string{"markdown", "html"})
	v.SetDefault("thresholds.min_updates_for_notification", 1)
	v.SetDefault("thresholds.min_significant_updates", 1)
	v.SetDefault("thresholds.complexity_threshold", 0.5)
	v.SetDefault("archive.enabled", false)
}
