package mail

import (
	"context"
	"fmt"
	"strconv"

	gomail "github.com/wneessen/go-mail"
)

// Mailer delivers a single plain-text message. Callers treat delivery as
// fire-and-forget: there is no retry and no confirmation beyond the error.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer sends through a plain SMTP relay with the from-address taken
// from process configuration.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTPMailer(host, port, username, password, from string) (*SMTPMailer, error) {
	p, err := strconv.Atoi(port)
	if err != nil {
		return nil, fmt.Errorf("mail: invalid SMTP_PORT %q: %w", port, err)
	}

	return &SMTPMailer{
		host:     host,
		port:     p,
		username: username,
		password: password,
		from:     from,
	}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("mail: from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail: to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	client, err := gomail.NewClient(
		m.host,
		gomail.WithPort(m.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.username),
		gomail.WithPassword(m.password),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("mail: client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail: send failed: %w", err)
	}

	return nil
}
