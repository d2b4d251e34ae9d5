package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"rentguy/internal/models"
	"rentguy/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	invoicePaymentTerm = 14 * 24 * time.Hour
	documentURLExpiry  = 15 * time.Minute
)

type InvoiceService interface {
	CreateForLease(ctx context.Context, ownerID, leaseID uuid.UUID) (*models.Invoice, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Invoice, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Invoice, error)
	ListByLease(ctx context.Context, ownerID, leaseID uuid.UUID, limit, offset int) ([]*models.Invoice, error)
	MarkPaid(ctx context.Context, ownerID, id uuid.UUID) (*models.Invoice, error)
	Cancel(ctx context.Context, ownerID, id uuid.UUID) (*models.Invoice, error)
	RenderDocument(ctx context.Context, ownerID, id uuid.UUID) (string, error)
}

// CalculateVAT returns the VAT on net at rate percent, rounded to cents, and
// the gross total.
func CalculateVAT(net, rate decimal.Decimal) (vat, total decimal.Decimal) {
	vat = net.Mul(rate).Div(hundred).Round(2)
	return vat, net.Add(vat)
}

type invoiceService struct {
	invoiceRepo repositories.InvoiceRepository
	leaseRepo   repositories.LeaseRepository
	documents   DocumentStore
	notifier    Notifier
	log         logrus.FieldLogger
	now         func() time.Time
}

// NewInvoiceService accepts a nil DocumentStore when object storage is not configured.
func NewInvoiceService(
	invoiceRepo repositories.InvoiceRepository,
	leaseRepo repositories.LeaseRepository,
	documents DocumentStore,
	notifier Notifier,
	log logrus.FieldLogger,
) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		leaseRepo:   leaseRepo,
		documents:   documents,
		notifier:    notifier,
		log:         log,
		now:         time.Now,
	}
}

func (s *invoiceService) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// derive builds the invoice and its VAT line from lease terms. No VAT line
// is produced for a zero rate.
func (s *invoiceService) derive(billing *models.LeaseBilling) (*models.Invoice, *models.VATEntry, error) {
	issue := s.today()
	net := billing.RentAmount
	vat, total := CalculateVAT(net, billing.VATRate)

	inv := &models.Invoice{
		ID:          uuid.New(),
		LeaseID:     billing.LeaseID,
		IssueDate:   issue,
		DueDate:     issue.Add(invoicePaymentTerm),
		Amount:      net,
		VATAmount:   vat,
		TotalAmount: total,
		CurrencyISO: billing.CurrencyISO,
		Status:      models.InvoicePending,
	}
	if !vat.IsPositive() {
		return inv, nil, nil
	}
	return inv, &models.VATEntry{
		ID:          uuid.New(),
		VATRate:     billing.VATRate,
		NetAmount:   net,
		VATAmount:   vat,
		GrossAmount: total,
		CountryISO:  billing.CountryISO,
	}, nil
}

func (s *invoiceService) CreateForLease(ctx context.Context, ownerID, leaseID uuid.UUID) (*models.Invoice, error) {
	inv, err := s.invoiceRepo.CreateForLease(ctx, ownerID, leaseID, s.derive)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"invoice_id":     inv.ID,
		"invoice_number": inv.InvoiceNumber,
		"lease_id":       leaseID,
	}).Info("Invoice issued")

	s.announce(ctx, ownerID, inv.ID)
	return inv, nil
}

func (s *invoiceService) announce(ctx context.Context, ownerID, invoiceID uuid.UUID) {
	doc, err := s.invoiceRepo.GetDocument(ctx, ownerID, invoiceID)
	if err != nil {
		s.log.WithError(err).WithField("invoice_id", invoiceID).Warn("Could not load invoice for notification")
		return
	}
	inv := doc.Invoice
	s.notifier.NotifyTenant(ctx, TenantNotice{
		Name:    doc.TenantName,
		Email:   doc.TenantEmail,
		Subject: fmt.Sprintf("Invoice %s", inv.InvoiceNumber),
		Body: fmt.Sprintf("Dear %s,\n\nInvoice %s for %s, unit %s is due on %s.\nTotal: %s %s.",
			doc.TenantName, inv.InvoiceNumber, doc.PropertyName, doc.UnitNumber,
			inv.DueDate.Format("2006-01-02"), inv.TotalAmount.StringFixed(2), inv.CurrencyISO),
	})
}

func (s *invoiceService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, ownerID, id)
}

func (s *invoiceService) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	return s.invoiceRepo.ListByOwner(ctx, ownerID, limit, offset)
}

// ListByLease checks lease ownership before listing; the repository query is unscoped.
func (s *invoiceService) ListByLease(ctx context.Context, ownerID, leaseID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	if _, err := s.leaseRepo.GetByID(ctx, ownerID, leaseID); err != nil {
		return nil, err
	}
	return s.invoiceRepo.ListByLease(ctx, leaseID, limit, offset)
}

func (s *invoiceService) MarkPaid(ctx context.Context, ownerID, id uuid.UUID) (*models.Invoice, error) {
	return s.invoiceRepo.Transition(ctx, ownerID, id,
		[]models.InvoiceStatus{models.InvoicePending, models.InvoiceOverdue}, models.InvoicePaid)
}

func (s *invoiceService) Cancel(ctx context.Context, ownerID, id uuid.UUID) (*models.Invoice, error) {
	return s.invoiceRepo.Transition(ctx, ownerID, id,
		[]models.InvoiceStatus{models.InvoicePending, models.InvoiceOverdue}, models.InvoiceCancelled)
}

func invoiceObjectKey(ownerID uuid.UUID, number string) string {
	return fmt.Sprintf("invoices/%s/%s.pdf", ownerID, number)
}

// RenderDocument renders the invoice PDF, stores it and returns a short-lived download URL.
func (s *invoiceService) RenderDocument(ctx context.Context, ownerID, id uuid.UUID) (string, error) {
	if s.documents == nil {
		return "", validationErr("document storage is not configured")
	}
	doc, err := s.invoiceRepo.GetDocument(ctx, ownerID, id)
	if err != nil {
		return "", err
	}
	pdf, err := RenderInvoicePDF(doc)
	if err != nil {
		return "", err
	}

	key := invoiceObjectKey(ownerID, doc.Invoice.InvoiceNumber)
	if err := s.documents.Upload(ctx, key, "application/pdf", bytes.NewReader(pdf), int64(len(pdf))); err != nil {
		return "", fmt.Errorf("failed to upload invoice document: %w", err)
	}
	if err := s.invoiceRepo.SetDocumentKey(ctx, ownerID, id, key); err != nil {
		return "", err
	}
	return s.documents.PresignedURL(ctx, key, documentURLExpiry)
}
