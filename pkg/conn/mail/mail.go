// Package mail sends notification mails.
package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Sender interface {
	Send(ctx context.Context, messages ...Message) error
}

type smtpSender struct {
	from   string
	client *gomail.Client
}

// NewSMTP returns Sender using the SMTP server.
//
// When username is empty, it does not authenticate.
func NewSMTP(host string, port int, username, password, from string) (Sender, error) {
	opts := []gomail.Option{
		gomail.WithPort(port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(username),
			gomail.WithPassword(password),
		)
	}
	client, err := gomail.NewClient(host, opts...)
	if err != nil {
		return nil, err
	}
	return &smtpSender{from: from, client: client}, nil
}

// Build makes go-mail messages. It is exported for tests.
func Build(from string, messages ...Message) ([]*gomail.Msg, error) {
	ret := make([]*gomail.Msg, 0, len(messages))
	for _, m := range messages {
		msg := gomail.NewMsg()
		if err := msg.From(from); err != nil {
			return nil, fmt.Errorf("bad sender: %w", err)
		}
		if err := msg.To(m.To); err != nil {
			return nil, fmt.Errorf("bad recipient %s: %w", m.To, err)
		}
		msg.Subject(m.Subject)
		msg.SetBodyString(gomail.TypeTextPlain, m.Body)
		ret = append(ret, msg)
	}
	return ret, nil
}

func (s *smtpSender) Send(ctx context.Context, messages ...Message) error {
	if len(messages) == 0 {
		return nil
	}
	msgs, err := Build(s.from, messages...)
	if err != nil {
		return err
	}
	return s.client.DialAndSendWithContext(ctx, msgs...)
}

type noop struct{}

// Noop returns Sender which sends nothing.
func Noop() Sender {
	return noop{}
}

func (noop) Send(context.Context, ...Message) error {
	return nil
}
