package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github-resume-monitor/internal/common"
	"github-resume-monitor/internal/domain"
)

// WebhookNotifier 实现了 port.Notifier 接口
// 支持钉钉、企业微信和飞书三种 webhook 通道
type WebhookNotifier struct {
	webhookURL  string
	webhookType string // dingtalk / wechat / feishu
}

// NewWebhookNotifier 创建 webhook 通知器
func NewWebhookNotifier(webhookURL, webhookType string) *WebhookNotifier {
	if webhookURL == "" {
		log.Println("⚠️ 警告: Webhook URL 为空，推送功能将无法工作！")
	}
	if webhookType == "" {
		webhookType = "dingtalk"
	}
	return &WebhookNotifier{webhookURL: webhookURL, webhookType: webhookType}
}

// Notify 把报告摘要推送到 webhook 通道
func (n *WebhookNotifier) Notify(ctx context.Context, report *domain.Report) error {
	if n.webhookURL == "" {
		return common.NewError(common.ErrCodeNotification, "Webhook URL 为空")
	}

	var payload map[string]interface{}
	switch n.webhookType {
	case "wechat":
		payload = map[string]interface{}{
			"msgtype": "markdown",
			"markdown": map[string]interface{}{
				"content": summaryMarkdown(report),
			},
		}
	case "feishu":
		payload = feishuCard(report)
	default: // dingtalk
		payload = map[string]interface{}{
			"msgtype": "markdown",
			"markdown": map[string]interface{}{
				"title": "GitHub简历更新报告",
				"text":  summaryMarkdown(report),
			},
		}
	}

	body, _ := json.Marshal(payload)
	err := common.Do(ctx, func() error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewBuffer(body))
		if reqErr != nil {
			return reqErr
		}
		req.Header.Set("Content-Type", "application/json")

		resp, postErr := http.DefaultClient.Do(req)
		if postErr != nil {
			return postErr
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("webhook 报错: 状态码 %d", resp.StatusCode)
		}
		return nil
	},
		common.WithMaxRetries(3),
		common.WithInitialDelay(500*time.Millisecond),
		common.WithMultiplier(1.0),
	)
	if err != nil {
		return common.WrapError(common.ErrCodeNotification, "发送 webhook 通知失败", err)
	}
	return nil
}

// summaryMarkdown 钉钉/企业微信共用的摘要消息
func summaryMarkdown(report *domain.Report) string {
	summary := report.Summary

	message := fmt.Sprintf(`# 🚀 GitHub简历更新报告

**生成时间**: %s

## 📊 项目概览
- 总项目数: **%d**
- 最近更新: **%d**
- AI项目: **%d**
- 平均复杂度: **%.2f**

## 📝 更新建议
`,
		formatTime(report.GeneratedAt),
		summary.TotalRepos,
		summary.RecentUpdates,
		summary.AIProjects,
		summary.AvgComplexity)

	suggestions := report.UpdateSuggestions
	if len(suggestions) > 3 {
		suggestions = suggestions[:3]
	}
	for _, suggestion := range suggestions {
		message += fmt.Sprintf("- %s\n", suggestion)
	}

	message += "\n> 详细报告请查看附件或邮件"
	return message
}

// feishuCard 飞书卡片消息 (Schema 2.0)
func feishuCard(report *domain.Report) map[string]interface{} {
	title := fmt.Sprintf("🚀 GitHub简历更新报告: %d 个项目有更新", report.Summary.RecentUpdates)

	return map[string]interface{}{
		"msg_type": "interactive",
		"card": map[string]interface{}{
			"schema": "2.0",
			"config": map[string]interface{}{
				"update_multi": true,
			},
			"header": map[string]interface{}{
				"title": map[string]interface{}{
					"tag":     "plain_text",
					"content": title,
				},
				"template": "blue",
			},
			"body": map[string]interface{}{
				"direction": "vertical",
				"elements": []map[string]interface{}{
					{
						"tag":       "markdown",
						"content":   summaryMarkdown(report),
						"text_size": "normal",
					},
				},
			},
		},
	}
}

// formatTime 把 ISO 时间转成消息里的展示格式
func formatTime(generatedAt string) string {
	t, err := time.Parse(time.RFC3339, generatedAt)
	if err != nil {
		return generatedAt
	}
	return t.Format("2006-01-02 15:04")
}
