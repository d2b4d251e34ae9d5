package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LeaseStatus string

const (
	LeasePendingSignature LeaseStatus = "pending_signature"
	LeaseActive           LeaseStatus = "active"
	LeaseExpired          LeaseStatus = "expired"
	LeaseTerminated       LeaseStatus = "terminated"
)

type Lease struct {
	ID                 uuid.UUID       `json:"id" db:"id"`
	UnitID             uuid.UUID       `json:"unit_id" db:"unit_id"`
	TenantID           uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	StartDate          time.Time       `json:"lease_start_date" db:"lease_start_date"`
	EndDate            time.Time       `json:"lease_end_date" db:"lease_end_date"`
	RentAmount         decimal.Decimal `json:"rent_amount" db:"rent_amount"`
	CurrencyISO        string          `json:"currency_iso" db:"currency_iso"`
	SecurityDeposit    decimal.Decimal `json:"security_deposit" db:"security_deposit"`
	DepositCurrencyISO string          `json:"deposit_currency_iso" db:"deposit_currency_iso"`
	VATRate            decimal.Decimal `json:"vat_rate" db:"vat_rate"`
	Status             LeaseStatus     `json:"status" db:"status"`
	SignedAt           *time.Time      `json:"digital_signed_at" db:"digital_signed_at"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}

func (l *Lease) IsActive() bool {
	return l.Status == LeaseActive
}

// LeaseBilling is the slice of lease data an invoice is derived from.
type LeaseBilling struct {
	LeaseID     uuid.UUID
	OwnerID     uuid.UUID
	TenantID    uuid.UUID
	RentAmount  decimal.Decimal
	CurrencyISO string
	VATRate     decimal.Decimal
	CountryISO  string
}
