// Package mailer delivers magic-link emails. When no SMTP relay is
// configured the link is written to the log instead, which keeps local
// development working without mail infrastructure.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/ideaforge/auth-server/internal/config"
	"github.com/ideaforge/auth-server/internal/logger"
	"github.com/ideaforge/auth-server/internal/model"
)

// New picks the delivery backend from config: SMTP when a relay address is
// set, log output otherwise.
func New(cfg config.Mail, logger *logger.Logger) model.Mailer {
	if cfg.SMTPAddr == "" {
		logger.Info("Mailer: no SMTP relay configured, magic links will be logged")
		return NewLogMailer(logger)
	}
	return NewSMTPMailer(cfg)
}

// LogMailer writes magic links to the log instead of sending them.
type LogMailer struct {
	logger *logger.Logger
}

func NewLogMailer(logger *logger.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendMagicLink(_ context.Context, email, link string) error {
	m.logger.Info("Mailer: magic link issued", "email", email, "link", link)
	return nil
}

// SMTPMailer sends magic links through a plain SMTP relay.
type SMTPMailer struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTPMailer(cfg config.Mail) *SMTPMailer {
	m := &SMTPMailer{addr: cfg.SMTPAddr, from: cfg.From}
	if cfg.Username != "" {
		host := cfg.SMTPAddr
		if i := strings.LastIndex(host, ":"); i >= 0 {
			host = host[:i]
		}
		m.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, host)
	}
	return m
}

func (m *SMTPMailer) SendMagicLink(_ context.Context, email, link string) error {
	msg := buildMagicLinkMessage(m.from, email, link)
	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{email}, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

func buildMagicLinkMessage(from, to, link string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	b.WriteString("Subject: Your sign-in link\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Follow this link to sign in:\r\n\r\n%s\r\n\r\n", link)
	b.WriteString("The link expires in 15 minutes and can be used once.\r\n")
	return []byte(b.String())
}
