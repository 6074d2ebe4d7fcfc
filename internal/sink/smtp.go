// Package sink implements the outbound side: sending approved responses
// over SMTP and persisting drafts to local files. Both are best-effort
// collaborators; failures are logged and reported, never retried.
package sink

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/mail-assistant/internal/model"
)

const dialTimeout = 30 * time.Second

// Sender delivers a final response to a recipient.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPSender implements Sender over SMTP with STARTTLS or implicit TLS.
type SMTPSender struct {
	cfg model.SMTPConfig
	log *zap.Logger
}

// NewSMTPSender creates an SMTP sender from the outbound mail configuration.
func NewSMTPSender(cfg model.SMTPConfig, log *zap.Logger) *SMTPSender {
	return &SMTPSender{cfg: cfg, log: log}
}

// Send composes a plain-text message and delivers it. Failures are logged
// and returned; the caller decides whether to fall back to a draft file.
func (s *SMTPSender) Send(_ context.Context, to, subject, body string) error {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", s.cfg.Username))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := s.cfg.Host + ":" + s.cfg.Port

	var err error
	if s.cfg.TLS {
		err = s.sendWithTLS(addr, to, msg.String())
	} else {
		err = s.sendWithStartTLS(addr, to, msg.String())
	}

	if err != nil {
		s.log.Error("failed to send email",
			zap.String("to", to),
			zap.Error(err),
		)
		return err
	}

	s.log.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// sendWithTLS delivers over an implicit TLS connection.
func (s *SMTPSender) sendWithTLS(addr, to, body string) error {
	tlsConfig := &tls.Config{ServerName: s.cfg.Host}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return fmt.Errorf("TLS dial to %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("creating SMTP client: %w", err)
	}
	defer client.Close()

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP auth: %w", err)
	}

	return sendViaClient(client, s.cfg.Username, to, body)
}

// sendWithStartTLS delivers using STARTTLS on a plain connection.
func (s *SMTPSender) sendWithStartTLS(addr, to, body string) error {
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return fmt.Errorf("dial to %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("creating SMTP client: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{ServerName: s.cfg.Host}
	if err := client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("SMTP STARTTLS: %w", err)
	}

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP auth: %w", err)
	}

	return sendViaClient(client, s.cfg.Username, to, body)
}

// sendViaClient runs the MAIL/RCPT/DATA exchange on an authenticated client.
func sendViaClient(client *smtp.Client, from, to, body string) error {
	if err := client.Mail(from); err != nil {
		return fmt.Errorf("SMTP MAIL FROM: %w", err)
	}

	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("SMTP RCPT TO: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("SMTP DATA: %w", err)
	}

	if _, err := writer.Write([]byte(body)); err != nil {
		return fmt.Errorf("writing email body: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing email body: %w", err)
	}

	return client.Quit()
}

// ReplySubject prefixes a subject for a reply unless it already carries one.
func ReplySubject(subject string) string {
	if strings.HasPrefix(strings.ToLower(subject), "re:") {
		return subject
	}
	return "Re: " + subject
}
