package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoicePending   InvoiceStatus = "pending"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

type Invoice struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	LeaseID       uuid.UUID       `json:"lease_id" db:"lease_id"`
	InvoiceNumber string          `json:"invoice_number" db:"invoice_number"`
	IssueDate     time.Time       `json:"issue_date" db:"issue_date"`
	DueDate       time.Time       `json:"due_date" db:"due_date"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	VATAmount     decimal.Decimal `json:"vat_amount" db:"vat_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount" db:"total_amount"`
	CurrencyISO   string          `json:"currency_iso" db:"currency_iso"`
	Status        InvoiceStatus   `json:"status" db:"status"`
	PaidAt        *time.Time      `json:"paid_at" db:"paid_at"`
	DocumentKey   *string         `json:"document_key,omitempty" db:"document_key"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
	VATEntries    []*VATEntry     `json:"vat_entries,omitempty" db:"-"`
}

// IsOverdue reports whether a pending invoice is past its due date on the given day.
func (i *Invoice) IsOverdue(today time.Time) bool {
	return i.Status == InvoicePending && i.DueDate.Before(today)
}

type VATEntry struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	InvoiceID   uuid.UUID       `json:"invoice_id" db:"invoice_id"`
	VATRate     decimal.Decimal `json:"vat_rate" db:"vat_rate"`
	NetAmount   decimal.Decimal `json:"net_amount" db:"net_amount"`
	VATAmount   decimal.Decimal `json:"vat_amount" db:"vat_amount"`
	GrossAmount decimal.Decimal `json:"gross_amount" db:"gross_amount"`
	CountryISO  string          `json:"country_iso" db:"country_iso"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// FormatInvoiceNumber renders INV-YYYYMMDD-NNNNNN from the issue date and a
// database sequence value.
func FormatInvoiceNumber(issueDate time.Time, seq int64) string {
	return fmt.Sprintf("INV-%s-%06d", issueDate.Format("20060102"), seq)
}

// InvoiceDocument is everything needed to render or announce an invoice.
type InvoiceDocument struct {
	Invoice      *Invoice
	OwnerID      uuid.UUID
	TenantName   string
	TenantEmail  string
	TenantPhone  *string
	PropertyName string
	Address      string
	UnitNumber   string
}
