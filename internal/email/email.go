package email

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mailgun/mailgun-go/v5"

	"airdee/internal/config"
)

// Service sends transactional mail through Mailgun. When the API key or
// domain is unset the service stays disabled and callers skip sending.
type Service struct {
	client     mailgun.Mailgun
	domain     string
	sender     string
	senderName string
	enabled    bool
}

func NewService(cfg config.Config) *Service {
	enabled := cfg.MailgunDomain != "" && cfg.MailgunAPIKey != ""

	var client mailgun.Mailgun
	if enabled {
		client = mailgun.NewMailgun(cfg.MailgunAPIKey)
	}

	return &Service{
		client:     client,
		domain:     cfg.MailgunDomain,
		sender:     cfg.MailgunSender,
		senderName: cfg.MailgunSenderName,
		enabled:    enabled,
	}
}

func (s *Service) IsEnabled() bool { return s.enabled }

func (s *Service) send(to, subject, text, html string) error {
	if !s.enabled {
		return fmt.Errorf("email service is not configured")
	}

	message := mailgun.NewMessage(
		s.domain,
		fmt.Sprintf("%s <%s>", s.senderName, s.sender),
		subject,
		text,
		to,
	)
	if html != "" {
		message.SetHTML(html)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	log.Printf("[email] sent %q to %s (Message ID: %s)", subject, to, resp)
	return nil
}

func (s *Service) SendPasswordReset(to, link string) error {
	subject := "ตั้งรหัสผ่านใหม่ / Reset your AirDee password"
	text := "ตั้งรหัสผ่านใหม่ได้ที่ลิงก์นี้ (หมดอายุใน 1 ชั่วโมง):\n" + link +
		"\n\nUse this link to set a new password. It expires in one hour."
	html := fmt.Sprintf(`<p>ตั้งรหัสผ่านใหม่ได้ที่ลิงก์นี้ (หมดอายุใน 1 ชั่วโมง)</p><p><a href="%s">%s</a></p>`, link, link)
	return s.send(to, subject, text, html)
}

func (s *Service) SendWelcome(to, name string) error {
	subject := fmt.Sprintf("ยินดีต้อนรับสู่ AirDee, %s!", name)
	text := fmt.Sprintf("สวัสดีคุณ %s ขอบคุณที่สมัครสมาชิกกับ AirDee", name)
	return s.send(to, subject, text, "")
}
