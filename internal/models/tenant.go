package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Tenant is a renter record owned by a landlord user.
type Tenant struct {
	ID             uuid.UUID        `json:"id" db:"id"`
	OwnerID        uuid.UUID        `json:"owner_id" db:"owner_id"`
	FirstName      string           `json:"first_name" db:"first_name"`
	LastName       string           `json:"last_name" db:"last_name"`
	Email          string           `json:"email" db:"email"`
	PhoneNumber    *string          `json:"phone_number" db:"phone_number"`
	DateOfBirth    *time.Time       `json:"date_of_birth" db:"date_of_birth"`
	NationalityISO *string          `json:"nationality_iso" db:"nationality_iso"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at" db:"updated_at"`
	Screening      *ScreeningResult `json:"screening,omitempty" db:"-"`
}

func (t *Tenant) FullName() string {
	return t.FirstName + " " + t.LastName
}

type ScreeningStatus string

const (
	ScreeningNotSubmitted ScreeningStatus = "not_submitted"
	ScreeningPending      ScreeningStatus = "pending"
	ScreeningApproved     ScreeningStatus = "approved"
	ScreeningDenied       ScreeningStatus = "denied"
)

type ScreeningResult struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	TenantID    uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	Provider    string          `json:"screening_provider" db:"screening_provider"`
	Status      ScreeningStatus `json:"status" db:"status"`
	ResultData  json.RawMessage `json:"result_data,omitempty" db:"result_data"`
	RequestedAt time.Time       `json:"requested_at" db:"requested_at"`
	CompletedAt *time.Time      `json:"completed_at" db:"completed_at"`
}
