package mailer

import (
	"errors"

	"gopkg.in/gomail.v2"

	"github.com/doodlesbykumbi/cms-in-go/pkg/config"
	"github.com/doodlesbykumbi/cms-in-go/pkg/model"
)

// Sender delivers a single message
type Sender interface {
	Send(msg *model.EmailMessage) error
}

// SMTPSender sends messages through an SMTP relay
type SMTPSender struct {
	dialer *gomail.Dialer
}

// NewSMTPSender creates a sender for the relay in cfg.
// Returns nil when no relay is configured.
func NewSMTPSender(cfg *config.CMSConfig) Sender {
	if !cfg.MailEnabled() {
		return nil
	}
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
	}
}

// Send delivers msg
func (s *SMTPSender) Send(msg *model.EmailMessage) error {
	m, err := buildMessage(msg)
	if err != nil {
		return err
	}
	return s.dialer.DialAndSend(m)
}

func buildMessage(msg *model.EmailMessage) (*gomail.Message, error) {
	recipients := msg.RecipientList()
	if len(recipients) == 0 {
		return nil, errors.New("message has no recipients")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", msg.Sender)
	m.SetHeader("To", recipients...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	return m, nil
}
