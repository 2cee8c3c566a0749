package mail

import (
	"context"
	"fmt"

	mailjet "github.com/mailjet/mailjet-apiv3-go"
	"go.uber.org/fx"

	cfgpkg "github.com/blancosphere/streamvault/pkg/config"
)

// Sender delivers a single HTML email. Implementations are expected to be
// safe for sequential reuse; the mailer service owns throttling.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type mailjetSender struct {
	client    *mailjet.Client
	fromEmail string
	fromName  string
}

func New(cfg *cfgpkg.Config) Sender {
	return &mailjetSender{
		client:    mailjet.NewMailjetClient(cfg.Mail.PublicKey, cfg.Mail.PrivateKey),
		fromEmail: cfg.Mail.FromEmail,
		fromName:  cfg.Mail.FromName,
	}
}

// Send delivers one message. The Mailjet client manages its own transport;
// ctx is accepted for interface symmetry with the other platform clients.
func (s *mailjetSender) Send(_ context.Context, to, subject, htmlBody string) error {
	info := []mailjet.InfoMessagesV31{{
		From:     &mailjet.RecipientV31{Email: s.fromEmail, Name: s.fromName},
		To:       &mailjet.RecipientsV31{mailjet.RecipientV31{Email: to}},
		Subject:  subject,
		HTMLPart: htmlBody,
	}}
	msgs := mailjet.MessagesV31{Info: info}
	if _, err := s.client.SendMailV31(&msgs); err != nil {
		return fmt.Errorf("could not send mail: %w", err)
	}
	return nil
}

var Module = fx.Options(
	fx.Provide(New),
)
