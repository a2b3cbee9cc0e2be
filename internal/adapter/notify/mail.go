package notify

import (
	"log"
	"os"

	"github-resume-monitor/internal/common"

	"gopkg.in/gomail.v2"
)

// Mailer 实现了 port.MailSender 接口，通过 SMTP (STARTTLS) 发送带附件的邮件
type Mailer struct {
	smtpServer string
	smtpPort   int
	sender     string
	password   string
	recipients []string
}

// NewMailer 创建邮件发送器
func NewMailer(smtpServer string, smtpPort int, sender, password string, recipients []string) *Mailer {
	return &Mailer{
		smtpServer: smtpServer,
		smtpPort:   smtpPort,
		sender:     sender,
		password:   password,
		recipients: recipients,
	}
}

// Send 发送邮件，正文是纯文本，附件按路径逐个挂上
// 配置不完整时记录警告并跳过，不算失败
func (m *Mailer) Send(subject, body string, attachments []string) error {
	if m.sender == "" || m.password == "" || len(m.recipients) == 0 {
		log.Println("⚠️ 邮件配置不完整，跳过邮件通知")
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", m.recipients...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	for _, path := range attachments {
		if _, err := os.Stat(path); err != nil {
			log.Printf("⚠️ 附件 %s 不存在，跳过", path)
			continue
		}
		msg.Attach(path)
	}

	dialer := gomail.NewDialer(m.smtpServer, m.smtpPort, m.sender, m.password)
	if err := dialer.DialAndSend(msg); err != nil {
		return common.WrapError(common.ErrCodeNotification, "邮件发送失败", err)
	}

	log.Printf("📧 邮件通知发送成功: %s", subject)
	return nil
}
