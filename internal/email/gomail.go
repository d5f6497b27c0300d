package email

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/gomail.v2"

	"github.com/aarogyacheck/clearance-api/internal/config"
	"github.com/aarogyacheck/clearance-api/pkg/logger"
)

type gomailService struct {
	cfg    config.SMTPConfig
	dialer *gomail.Dialer
	log    *logger.Logger
}

// NewGomailService sends mail over SMTP. When credentials are absent every
// send is skipped with a warning instead of failing, so unconfigured
// development environments keep working.
func NewGomailService(cfg config.SMTPConfig, log *logger.Logger) Service {
	var dialer *gomail.Dialer
	if cfg.Configured() {
		dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
		dialer.SSL = cfg.Port == 465
	}
	return &gomailService{cfg: cfg, dialer: dialer, log: log}
}

func (s *gomailService) Send(ctx context.Context, to, subject, body string) error {
	return s.send(ctx, to, subject, body, nil, "")
}

func (s *gomailService) SendWithAttachment(ctx context.Context, to, subject, body string, attachment Attachment) error {
	return s.send(ctx, to, subject, body, &attachment, "")
}

func (s *gomailService) SendWithFile(ctx context.Context, to, subject, body, path string) error {
	return s.send(ctx, to, subject, body, nil, path)
}

func (s *gomailService) send(_ context.Context, to, subject, body string, attachment *Attachment, filePath string) error {
	if s.dialer == nil {
		s.log.Warn("smtp credentials not configured, skipping notification", "to", to, "subject", subject)
		return nil
	}

	sender := s.cfg.Sender
	if sender == "" {
		sender = s.cfg.Username
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if attachment != nil {
		data := attachment.Data
		msg.Attach(attachment.Name, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}
	if filePath != "" {
		if _, err := os.Stat(filePath); err == nil {
			msg.Attach(filePath, gomail.Rename(filepath.Base(filePath)))
		}
	}

	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
