package handlers

import (
	"net/http"
	"time"

	"rentguy/internal/common"
	"rentguy/internal/models"
	"rentguy/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// InvoiceHandlers handles invoice issue, payment and document requests
type InvoiceHandlers struct {
	invoiceService services.InvoiceService
	log            logrus.FieldLogger
	now            func() time.Time
}

func NewInvoiceHandlers(invoiceService services.InvoiceService, log logrus.FieldLogger) *InvoiceHandlers {
	return &InvoiceHandlers{invoiceService: invoiceService, log: log, now: time.Now}
}

type CreateInvoiceRequest struct {
	LeaseID uuid.UUID `json:"lease_id" validate:"required"`
}

// InvoiceResponse adds the derived overdue flag
type InvoiceResponse struct {
	*models.Invoice
	IsOverdue bool `json:"is_overdue"`
}

func (h *InvoiceHandlers) present(invoice *models.Invoice) InvoiceResponse {
	now := h.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return InvoiceResponse{Invoice: invoice, IsOverdue: invoice.IsOverdue(today)}
}

// ListInvoices filters by lease when lease_id is given; the lease must belong to the caller
func (h *InvoiceHandlers) ListInvoices(c echo.Context) error {
	ownerID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	limit, skip, err := pagination(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	leaseID, err := optionalQueryID(c, "lease_id")
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}

	ctx := c.Request().Context()
	var invoices []*models.Invoice
	if leaseID != nil {
		invoices, err = h.invoiceService.ListByLease(ctx, ownerID, *leaseID, limit, skip)
	} else {
		invoices, err = h.invoiceService.ListByOwner(ctx, ownerID, limit, skip)
	}
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	out := make([]InvoiceResponse, 0, len(invoices))
	for _, invoice := range invoices {
		out = append(out, h.present(invoice))
	}
	return c.JSON(http.StatusOK, listResponse("invoices", out, limit, skip))
}

func (h *InvoiceHandlers) CreateInvoice(c echo.Context) error {
	ownerID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	var req CreateInvoiceRequest
	if err := bindRequest(c, &req); err != nil {
		return common.SendAppError(c, h.log, err)
	}

	invoice, err := h.invoiceService.CreateForLease(c.Request().Context(), ownerID, req.LeaseID)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, h.present(invoice))
}

func (h *InvoiceHandlers) GetInvoice(c echo.Context) error {
	ownerID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}

	invoice, err := h.invoiceService.GetByID(c.Request().Context(), ownerID, id)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, h.present(invoice))
}

func (h *InvoiceHandlers) MarkPaid(c echo.Context) error {
	ownerID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}

	invoice, err := h.invoiceService.MarkPaid(c.Request().Context(), ownerID, id)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, h.present(invoice))
}

func (h *InvoiceHandlers) CancelInvoice(c echo.Context) error {
	ownerID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}

	invoice, err := h.invoiceService.Cancel(c.Request().Context(), ownerID, id)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, h.present(invoice))
}

// GenerateDocument renders the invoice PDF and returns a download link
func (h *InvoiceHandlers) GenerateDocument(c echo.Context) error {
	ownerID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}

	url, err := h.invoiceService.RenderDocument(c.Request().Context(), ownerID, id)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"download_url": url})
}
