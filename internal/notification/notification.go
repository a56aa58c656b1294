package notification

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
)

// Email describes an outbound mail message.
type Email struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers email to a single recipient. Delivery is best-effort: there
// are no retries, and a failure is reported to the caller exactly once.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// SMTPMailer sends mail through an SMTP relay using PLAIN auth over STARTTLS.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPMailer constructs an SMTP-backed mailer.
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	if from == "" {
		from = username
	}
	return &SMTPMailer{host: host, port: port, username: username, password: password, from: from}
}

// Send submits the message to the relay. smtp.SendMail negotiates STARTTLS
// when the server offers it.
func (m *SMTPMailer) Send(_ context.Context, email Email) error {
	msg := []byte(
		fmt.Sprintf("From: %s\r\n", m.from) +
			fmt.Sprintf("To: %s\r\n", email.To) +
			fmt.Sprintf("Subject: %s\r\n", email.Subject) +
			"\r\n" +
			email.Body,
	)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := smtp.SendMail(addr, auth, m.from, []string{email.To}, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", email.To, err)
	}
	return nil
}

// LogMailer writes mail to the structured logger instead of delivering it.
// Used in development when no SMTP relay is configured.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer constructs a logging mailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send writes the message to the structured logger.
func (m *LogMailer) Send(_ context.Context, email Email) error {
	if m == nil || m.logger == nil {
		return nil
	}
	m.logger.Info("mail (log transport)", "to", email.To, "subject", email.Subject, "body", email.Body)
	return nil
}
