// Package mail sends account verification and password-reset email over SMTP.
package mail

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/dinewise/dinewise/internal/config"
)

// Mailer sends transactional mail through an SMTP relay with STARTTLS.
type Mailer struct {
	host     string
	port     int
	from     string
	password string
	logger   *slog.Logger
}

// NewMailer creates a mailer from SMTP configuration.
func NewMailer(cfg config.Config, logger *slog.Logger) *Mailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.SMTPEmail,
		password: cfg.SMTPPassword,
		logger:   logger,
	}
}

// Enabled reports whether SMTP is configured. When disabled, callers log the
// code instead of sending mail.
func (m *Mailer) Enabled() bool {
	return m.host != "" && m.from != ""
}

// SendVerificationCode mails the signup verification code.
func (m *Mailer) SendVerificationCode(to, code string) error {
	subject := "Verify your DineWise account"
	body := fmt.Sprintf(
		"Welcome to DineWise!\n\nYour verification code is: %s\n\nEnter this code to activate your account.\n", code)
	return m.send(to, subject, body)
}

// SendPasswordReset mails the password-reset code.
func (m *Mailer) SendPasswordReset(to, code string) error {
	subject := "DineWise password reset"
	body := fmt.Sprintf(
		"A password reset was requested for your account.\n\nYour reset code is: %s\n\nIf you did not request this, ignore this email.\n", code)
	return m.send(to, subject, body)
}

func (m *Mailer) send(to, subject, body string) error {
	if !m.Enabled() {
		return fmt.Errorf("smtp not configured")
	}

	msg := buildMessage(m.from, to, subject, body)
	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.from, m.password, m.host)

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	m.logger.Info("mail sent", "to", to, "subject", subject)
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
