// Copyright (c) 2026 GwenBooks. All rights reserved.
// Author: dev@gwenbooks.app

/*
Package email implements outbound transactional email over SMTP.

It renders the small set of account lifecycle messages (verification,
password reset) and delivers them through a configured SMTP relay.

Architecture:

  - The domain layers depend on a narrow Mailer interface they define
    themselves; this package is one implementation of it.
  - When no SMTP host is configured (local development), delivery is a
    logged no-op so the auth flows stay testable without a relay.
*/
package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// # SMTP Mailer

// SMTPMailer delivers messages through a plain SMTP relay using AUTH PLAIN.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string

	// baseURL is the public web app address the action links point at.
	baseURL string

	logger *slog.Logger
}

// NewSMTPMailer constructs the mailer. An empty host puts the mailer in
// development mode: messages are logged instead of sent.
func NewSMTPMailer(host, port, username, password, from, baseURL string, logger *slog.Logger) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   logger,
	}
}

// # Account Lifecycle Messages

// SendVerification delivers the email ownership confirmation link.
func (mailer *SMTPMailer) SendVerification(context context.Context, toEmail, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", mailer.baseURL, token)
	body := "Welcome to GwenBooks!\r\n\r\n" +
		"Confirm your email address by opening the link below:\r\n\r\n" +
		link + "\r\n\r\n" +
		"The link is valid for 24 hours. If you did not create an account, ignore this message.\r\n"

	return mailer.send(context, toEmail, "Confirm your GwenBooks email", body)
}

// SendPasswordReset delivers the forgot-password link.
func (mailer *SMTPMailer) SendPasswordReset(context context.Context, toEmail, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", mailer.baseURL, token)
	body := "A password reset was requested for your GwenBooks account.\r\n\r\n" +
		"Open the link below to choose a new password:\r\n\r\n" +
		link + "\r\n\r\n" +
		"The link is valid for 1 hour. If you did not request this, ignore this message.\r\n"

	return mailer.send(context, toEmail, "Reset your GwenBooks password", body)
}

// # Delivery

func (mailer *SMTPMailer) send(_ context.Context, toEmail, subject, body string) error {

	// Development mode: no relay configured, log and succeed.
	if mailer.host == "" {
		mailer.logger.Info("email_skipped_no_smtp_host",
			slog.String("to", toEmail),
			slog.String("subject", subject),
		)
		return nil
	}

	message := strings.Join([]string{
		"From: " + mailer.from,
		"To: " + toEmail,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if mailer.username != "" {
		auth = smtp.PlainAuth("", mailer.username, mailer.password, mailer.host)
	}

	addr := mailer.host + ":" + mailer.port
	if err := smtp.SendMail(addr, auth, mailer.from, []string{toEmail}, []byte(message)); err != nil {
		mailer.logger.Error("email_send_failed",
			slog.String("to", toEmail),
			slog.String("subject", subject),
			slog.Any("error", err),
		)
		return fmt.Errorf("email: send to %s failed: %w", toEmail, err)
	}

	mailer.logger.Info("email_sent",
		slog.String("to", toEmail),
		slog.String("subject", subject),
	)
	return nil
}
