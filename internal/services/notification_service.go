package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Messenger sends WhatsApp messages and returns the provider message id.
type Messenger interface {
	SendWhatsApp(ctx context.Context, to, body string) (string, error)
}

// Mailer sends plain transactional email.
type Mailer interface {
	SendEmail(ctx context.Context, toName, toEmail, subject, body string) error
}

// Notifier fans a tenant-facing notice out to the configured channels.
// Delivery is best effort: failures are logged and never returned.
type Notifier interface {
	NotifyTenant(ctx context.Context, n TenantNotice)
}

type TenantNotice struct {
	Name    string
	Email   string
	Phone   *string
	Subject string
	Body    string
}

type twilioMessenger struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioMessenger(accountSID, authToken, from string) Messenger {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &twilioMessenger{client: client, from: whatsAppAddress(from)}
}

func whatsAppAddress(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}

func (t *twilioMessenger) SendWhatsApp(_ context.Context, to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(whatsAppAddress(to))
	params.SetFrom(t.from)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("failed to send whatsapp message: %w", err)
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

type sendgridMailer struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewSendGridMailer(apiKey, fromEmail, fromName string) Mailer {
	return &sendgridMailer{client: sendgrid.NewSendClient(apiKey), fromEmail: fromEmail, fromName: fromName}
}

func (s *sendgridMailer) SendEmail(ctx context.Context, toName, toEmail, subject, body string) error {
	msg := mail.NewSingleEmail(
		mail.NewEmail(s.fromName, s.fromEmail),
		subject,
		mail.NewEmail(toName, toEmail),
		body,
		"<p>"+strings.ReplaceAll(body, "\n", "<br>")+"</p>",
	)
	resp, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}

type notifier struct {
	messenger Messenger
	mailer    Mailer
	log       logrus.FieldLogger
}

// NewNotifier accepts nil channels; a nil channel is skipped.
func NewNotifier(messenger Messenger, mailer Mailer, log logrus.FieldLogger) Notifier {
	return &notifier{messenger: messenger, mailer: mailer, log: log}
}

func (n *notifier) NotifyTenant(ctx context.Context, notice TenantNotice) {
	entry := n.log.WithField("subject", notice.Subject)

	if n.mailer != nil && notice.Email != "" {
		if err := n.mailer.SendEmail(ctx, notice.Name, notice.Email, notice.Subject, notice.Body); err != nil {
			entry.WithError(err).Warn("Failed to email tenant")
		}
	}
	if n.messenger != nil && notice.Phone != nil && *notice.Phone != "" {
		if _, err := n.messenger.SendWhatsApp(ctx, *notice.Phone, notice.Subject+"\n\n"+notice.Body); err != nil {
			entry.WithError(err).Warn("Failed to message tenant on WhatsApp")
		}
	}
}
