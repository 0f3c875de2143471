// Package mailer sends the account emails (confirmation, password reset,
// email change). The service layer only supplies recipient, subject and a
// rendered body carrying the token link; delivery, retries and bounces are
// the mail infrastructure's problem.
package mailer

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/rblog/rblog/internal/config"
	"github.com/rblog/rblog/pkg/logger"
)

type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer delivers over SMTP via gomail.
type SMTPMailer struct {
	dialer        *gomail.Dialer
	sender        string
	subjectPrefix string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		dialer:        gomail.NewDialer(cfg.MailHost, cfg.MailPort, cfg.MailUsername, cfg.MailPassword),
		sender:        cfg.MailSender,
		subjectPrefix: cfg.MailSubjectPrefix,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("%s %s", m.subjectPrefix, subject))
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		logger.Log.Error("Failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Info("Email sent",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}

// LogMailer writes mail to the log instead of the wire. Used in development
// and tests where no SMTP server exists.
type LogMailer struct{}

func NewLogMailer() *LogMailer { return &LogMailer{} }

func (m *LogMailer) Send(to, subject, body string) error {
	logger.Log.Info("Mail (log only)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}
