package mail

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"text/template"
)

var inviteTemplate = template.Must(template.New("invite").Parse(
	`From: {{.From}}
To: {{.To}}
Subject: Your TopCars Valley invitation
MIME-Version: 1.0
Content-Type: text/plain; charset=utf-8

Hi {{.DisplayName}},

You've been invited to join TopCars Valley. Complete your registration here:

    {{.AcceptURL}}

The link expires in {{.ExpiresIn}}. If you weren't expecting this email you
can safely ignore it.

— TopCars Valley
`))

// SMTPDispatcher sends mail through a plain SMTP relay.
type SMTPDispatcher struct {
	Addr string // host:port
	From string
	Auth smtp.Auth // nil for unauthenticated relays

	// send is swappable for tests; defaults to smtp.SendMail.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPDispatcher(addr, from string, auth smtp.Auth) *SMTPDispatcher {
	return &SMTPDispatcher{
		Addr: addr,
		From: from,
		Auth: auth,
		send: smtp.SendMail,
	}
}

func (d *SMTPDispatcher) SendInvite(ctx context.Context, inv Invite) error {
	var buf bytes.Buffer
	data := struct {
		From string
		Invite
	}{From: d.From, Invite: inv}
	if err := inviteTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("render invite mail: %w", err)
	}

	sender := d.send
	if sender == nil {
		sender = smtp.SendMail
	}
	if err := sender(d.Addr, d.Auth, d.From, []string{inv.To}, buf.Bytes()); err != nil {
		return fmt.Errorf("send invite mail: %w", err)
	}
	return nil
}
