package services

import (
	"context"
	"errors"
	"strings"

	"rentguy/internal/common"
	"rentguy/internal/models"
	"rentguy/internal/repositories"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go/client"
)

// InboundMessage is the subset of a Twilio messaging webhook we act on.
type InboundMessage struct {
	SID  string
	From string
	To   string
	Body string
}

// SignatureValidator checks X-Twilio-Signature against the webhook URL and form params.
type SignatureValidator interface {
	Validate(url string, params map[string]string, expectedSignature string) bool
}

func NewTwilioSignatureValidator(authToken string) SignatureValidator {
	v := client.NewRequestValidator(authToken)
	return &v
}

type WhatsAppService interface {
	VerifySignature(params map[string]string, signature string) bool
	HandleInbound(ctx context.Context, msg InboundMessage) (string, error)
	SendToTenant(ctx context.Context, ownerID, tenantID uuid.UUID, body string) (*models.WhatsAppMessage, error)
	ListByTenant(ctx context.Context, ownerID, tenantID uuid.UUID, limit, offset int) ([]*models.WhatsAppMessage, error)
}

type whatsAppService struct {
	messages   repositories.WhatsAppMessageRepository
	tenants    repositories.TenantRepository
	messenger  Messenger
	validator  SignatureValidator
	webhookURL string
	from       string
	log        logrus.FieldLogger
}

func NewWhatsAppService(
	messages repositories.WhatsAppMessageRepository,
	tenants repositories.TenantRepository,
	messenger Messenger,
	validator SignatureValidator,
	webhookURL, from string,
	log logrus.FieldLogger,
) WhatsAppService {
	return &whatsAppService{
		messages:   messages,
		tenants:    tenants,
		messenger:  messenger,
		validator:  validator,
		webhookURL: webhookURL,
		from:       whatsAppAddress(from),
		log:        log,
	}
}

func (s *whatsAppService) VerifySignature(params map[string]string, signature string) bool {
	if signature == "" || s.validator == nil {
		return false
	}
	return s.validator.Validate(s.webhookURL, params, signature)
}

func stripChannel(address string) string {
	return strings.TrimPrefix(address, "whatsapp:")
}

type botRule struct {
	keywords []string
	reply    string
}

var botRules = []botRule{
	{[]string{"rent", "payment", "due"},
		"Rent is due on the 1st of each month. Reply INVOICE to get your latest invoice, or ask us to set up a reminder."},
	{[]string{"maintenance", "repair", "fix", "broken"},
		"Sorry to hear something needs fixing. Describe the problem and where it is, and we will open a maintenance request."},
	{[]string{"lease", "contract", "agreement"},
		"We can help with your lease. Do you want to review your current terms or ask about a renewal?"},
	{[]string{"invoice", "bill", "receipt"},
		"Your invoices and payment history are available from your property manager. Should we send you the latest one?"},
	{[]string{"contact", "landlord", "property manager"},
		"We will pass your message on to your property manager. Let us know a good time for a call."},
	{[]string{"hello", "hi", "help", "start"},
		"Hello! This is the RentGuy assistant. Ask about rent, maintenance, your lease, invoices, or contacting your property manager."},
}

const botFallback = "Thanks for your message. A member of the property management team will get back to you. Is it urgent?"

// BotReply picks an automatic reply from the first keyword group found in text.
func BotReply(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range botRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.reply
			}
		}
	}
	return botFallback
}

// HandleInbound stores the message, sends the bot reply and stores that too.
// The returned string is the reply body.
func (s *whatsAppService) HandleInbound(ctx context.Context, msg InboundMessage) (string, error) {
	if msg.SID == "" || msg.From == "" {
		return "", validationErr("MessageSid and From are required")
	}
	phone := stripChannel(msg.From)
	entry := s.log.WithFields(logrus.Fields{"message_sid": msg.SID, "from": phone})

	inbound := &models.WhatsAppMessage{
		ID:          uuid.New(),
		ProviderSID: msg.SID,
		Direction:   models.DirectionInbound,
		FromNumber:  phone,
		ToNumber:    stripChannel(msg.To),
		Body:        msg.Body,
	}
	tenant, err := s.tenants.FindByPhone(ctx, phone)
	switch {
	case err == nil:
		inbound.OwnerID = &tenant.OwnerID
		inbound.TenantID = &tenant.ID
	case !errors.Is(err, common.ErrNotFoundKind):
		return "", err
	}
	if err := s.messages.Save(ctx, inbound); err != nil {
		return "", err
	}
	entry.Info("Received WhatsApp message")

	reply := BotReply(msg.Body)
	if _, err := s.send(ctx, phone, reply, inbound.OwnerID, inbound.TenantID); err != nil {
		entry.WithError(err).Warn("Failed to send bot reply")
	}
	return reply, nil
}

func (s *whatsAppService) SendToTenant(ctx context.Context, ownerID, tenantID uuid.UUID, body string) (*models.WhatsAppMessage, error) {
	if err := validateRequired("message", body); err != nil {
		return nil, err
	}
	tenant, err := s.tenants.GetByID(ctx, ownerID, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant.PhoneNumber == nil || *tenant.PhoneNumber == "" {
		return nil, validationErr("tenant has no phone number")
	}
	return s.send(ctx, *tenant.PhoneNumber, body, &ownerID, &tenant.ID)
}

func (s *whatsAppService) send(ctx context.Context, to, body string, ownerID, tenantID *uuid.UUID) (*models.WhatsAppMessage, error) {
	if s.messenger == nil {
		return nil, validationErr("whatsapp messaging is not configured")
	}
	sid, err := s.messenger.SendWhatsApp(ctx, to, body)
	if err != nil {
		return nil, err
	}
	if sid == "" {
		sid = "local-" + uuid.NewString()
	}
	out := &models.WhatsAppMessage{
		ID:          uuid.New(),
		ProviderSID: sid,
		Direction:   models.DirectionOutbound,
		FromNumber:  stripChannel(s.from),
		ToNumber:    to,
		Body:        body,
		OwnerID:     ownerID,
		TenantID:    tenantID,
	}
	if err := s.messages.Save(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *whatsAppService) ListByTenant(ctx context.Context, ownerID, tenantID uuid.UUID, limit, offset int) ([]*models.WhatsAppMessage, error) {
	if _, err := s.tenants.GetByID(ctx, ownerID, tenantID); err != nil {
		return nil, err
	}
	return s.messages.ListByTenant(ctx, ownerID, tenantID, limit, offset)
}
