// Package mailer delivers confirmation codes. Delivery guarantees are a
// collaborator concern; the auth service only depends on the Notifier
// interface.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"ratehub/internal/config"
)

type Notifier interface {
	SendConfirmationCode(ctx context.Context, email, username, code string) error
}

// New picks the SMTP notifier when SMTP_ADDR is configured and the logging
// notifier otherwise.
func New(cfg *config.Config, logger *slog.Logger) Notifier {
	if cfg.SMTPAddr != "" {
		return &smtpNotifier{
			addr: cfg.SMTPAddr,
			from: cfg.SMTPFrom,
			user: cfg.SMTPUser,
			pass: cfg.SMTPPass,
		}
	}
	return &logNotifier{logger: logger}
}

type smtpNotifier struct {
	addr string
	from string
	user string
	pass string
}

func (n *smtpNotifier) SendConfirmationCode(ctx context.Context, email, username, code string) error {
	var auth smtp.Auth
	if n.user != "" {
		host := n.addr
		if i := strings.IndexByte(host, ':'); i >= 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", n.user, n.pass, host)
	}

	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: ratehub registration confirmation\r\n\r\n"+
			"Hello %s,\r\n\r\nYour confirmation code is: %s\r\n",
		n.from, email, username, code,
	)

	if err := smtp.SendMail(n.addr, auth, n.from, []string{email}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	return nil
}

// logNotifier writes the code to the log instead of sending mail. Development
// only.
type logNotifier struct {
	logger *slog.Logger
}

func (n *logNotifier) SendConfirmationCode(ctx context.Context, email, username, code string) error {
	n.logger.Info("confirmation code issued",
		"email", email,
		"username", username,
		"code", code,
	)
	return nil
}
