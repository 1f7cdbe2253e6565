// Package mailer sends transactional mail over plain SMTP.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/eventease/eventease-api/internal/config"
)

type SMTPMailer struct {
	addr    string
	from    string
	baseURL string
	auth    smtp.Auth
}

func NewSMTPMailer(conf *config.SMTPConfig, baseURL string) *SMTPMailer {
	return &SMTPMailer{
		addr:    conf.Host + ":" + conf.Port,
		from:    conf.From,
		baseURL: baseURL,
		auth:    smtp.PlainAuth("", conf.Username, conf.Password, conf.Host),
	}
}

func (m *SMTPMailer) SendPasswordReset(_ context.Context, to, name, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s&email=%s", m.baseURL, token, to)
	msg := []byte("To: " + to + "\r\n" +
		"From: " + m.from + "\r\n" +
		"Subject: Reset your password\r\n" +
		"\r\n" +
		"Hi " + name + ",\r\n\r\n" +
		"A password reset was requested for your account. The link below is valid for 10 minutes:\r\n\r\n" +
		link + "\r\n\r\n" +
		"If you did not request this, you can ignore this email.\r\n")

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp.SendMail -> %w", err)
	}

	return nil
}
