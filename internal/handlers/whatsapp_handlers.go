package handlers

import (
	"net/http"

	"rentguy/internal/common"
	"rentguy/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// emptyTwiML acknowledges the webhook; the bot reply goes out through the REST API.
const emptyTwiML = `<?xml version="1.0" encoding="UTF-8"?><Response></Response>`

type WhatsAppHandlers struct {
	whatsAppService services.WhatsAppService
	log             logrus.FieldLogger
}

func NewWhatsAppHandlers(whatsAppService services.WhatsAppService, log logrus.FieldLogger) *WhatsAppHandlers {
	return &WhatsAppHandlers{whatsAppService: whatsAppService, log: log}
}

type SendWhatsAppRequest struct {
	TenantID uuid.UUID `json:"tenant_id" validate:"required"`
	Message  string    `json:"message" validate:"required,max=1600"`
}

// VerifyWebhook answers GET probes on the webhook URL.
func (h *WhatsAppHandlers) VerifyWebhook(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// ReceiveWebhook handles Twilio's form-encoded inbound message callback.
func (h *WhatsAppHandlers) ReceiveWebhook(c echo.Context) error {
	form, err := c.FormParams()
	if err != nil {
		return common.SendAppError(c, h.log, common.NewValidation("invalid form body"))
	}
	params := make(map[string]string, len(form))
	for key, values := range form {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	if !h.whatsAppService.VerifySignature(params, c.Request().Header.Get("X-Twilio-Signature")) {
		h.log.WithField("remote_ip", c.RealIP()).Warn("Rejected WhatsApp webhook with bad signature")
		return c.JSON(http.StatusForbidden, common.CreateErrorResponse("FORBIDDEN", "Invalid webhook signature", nil))
	}

	_, err = h.whatsAppService.HandleInbound(c.Request().Context(), services.InboundMessage{
		SID:  params["MessageSid"],
		From: params["From"],
		To:   params["To"],
		Body: params["Body"],
	})
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.Blob(http.StatusOK, "application/xml", []byte(emptyTwiML))
}

func (h *WhatsAppHandlers) SendMessage(c echo.Context) error {
	ownerID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	var req SendWhatsAppRequest
	if err := bindRequest(c, &req); err != nil {
		return common.SendAppError(c, h.log, err)
	}

	msg, err := h.whatsAppService.SendToTenant(c.Request().Context(), ownerID, req.TenantID, req.Message)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, msg)
}

// ListMessages returns the conversation with one tenant, newest first.
func (h *WhatsAppHandlers) ListMessages(c echo.Context) error {
	ownerID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	limit, skip, err := pagination(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	tenantID, err := optionalQueryID(c, "tenant_id")
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	if tenantID == nil {
		return common.SendAppError(c, h.log, common.NewValidation("tenant_id is required"))
	}

	messages, err := h.whatsAppService.ListByTenant(c.Request().Context(), ownerID, *tenantID, limit, skip)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, listResponse("messages", messages, limit, skip))
}
