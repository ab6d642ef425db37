package notify

import (
	"context"
	"fmt"
	"time"

	"crypto_bot/internal/config"

	"github.com/wneessen/go-mail"
)

const smtpsPort = 465

// Email — одно письмо на уведомление через SMTP с обязательным STARTTLS.
type Email struct {
	cfg  config.SMTPConfig
	send func(ctx context.Context, msg *mail.Msg) error
}

func NewEmail(cfg config.SMTPConfig) *Email {
	e := &Email{cfg: cfg}
	e.send = e.dialAndSend
	return e
}

func (e *Email) message(subject, text string) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(e.cfg.From); err != nil {
		return nil, fmt.Errorf("email from %q: %w", e.cfg.From, err)
	}
	if err := m.To(e.cfg.To); err != nil {
		return nil, fmt.Errorf("email to %q: %w", e.cfg.To, err)
	}
	m.Subject(subject)
	m.SetDate()
	m.SetBodyString(mail.TypeTextPlain, text)
	return m, nil
}

func (e *Email) Send(ctx context.Context, subject, text string) error {
	m, err := e.message(subject, text)
	if err != nil {
		return err
	}
	return e.send(ctx, m)
}

func (e *Email) dialAndSend(ctx context.Context, m *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(e.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(e.cfg.User),
		mail.WithPassword(e.cfg.Pass),
		mail.WithTimeout(15 * time.Second),
	}
	if e.cfg.Port == smtpsPort {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}

	c, err := mail.NewClient(e.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
