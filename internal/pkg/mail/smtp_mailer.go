package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ManuelReschke/BlockHolder/internal/pkg/env"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/logger"
)

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer sends HTML emails via SMTP
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	sender   string
	send     sendFunc
	log      zerolog.Logger
}

// NewFromEnv reads SMTP_* settings. It returns nil when SMTP_HOST is unset.
func NewFromEnv() *SMTPMailer {
	host := env.GetEnv("SMTP_HOST", "")
	if host == "" {
		return nil
	}
	m := &SMTPMailer{
		host:     host,
		port:     env.GetEnv("SMTP_PORT", "587"),
		username: env.GetEnv("SMTP_USERNAME", ""),
		password: env.GetEnv("SMTP_PASSWORD", ""),
		sender:   env.GetEnv("SMTP_SENDER", ""),
		send:     smtp.SendMail,
		log:      logger.For("mail"),
	}
	if m.sender == "" {
		m.sender = "no-reply@localhost"
		m.log.Warn().Str("sender", m.sender).Msg("SMTP_SENDER not set, using default sender")
	}
	return m
}

// Send delivers one HTML message.
func (m *SMTPMailer) Send(to, subject, body string) error {
	var auth smtp.Auth
	if m.username != "" && m.password != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	err := m.send(addr, auth, m.sender, []string{to}, buildMessage(m.sender, to, subject, body))
	if err != nil {
		m.log.Error().Err(err).Str("addr", addr).Msg("smtp send failed")
		return err
	}
	m.log.Info().Str("to", to).Str("addr", addr).Msg("email sent")
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	// Header injection through the subject would split the message.
	subject = strings.NewReplacer("\r", " ", "\n", " ").Replace(subject)
	return []byte(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", from, to, subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n\r\n" +
			body,
	)
}
