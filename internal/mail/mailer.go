package mail

import (
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

// Mailer delivers notification emails. Delivery is best effort; callers log
// failures and move on.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPConfig holds the outgoing mail settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends through an SMTP relay via gomail.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer builds a mailer for the given relay.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send delivers a plain-text message.
func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}

// NopMailer drops mail and logs the subject. Used when SMTP is not
// configured.
type NopMailer struct {
	Logger *zap.Logger
}

// Send logs and discards the message.
func (m NopMailer) Send(to, subject, _ string) error {
	if m.Logger != nil {
		m.Logger.Info("mail disabled, dropping message",
			zap.String("to", to), zap.String("subject", subject))
	}
	return nil
}
