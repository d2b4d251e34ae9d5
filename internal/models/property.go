package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PropertyType string

const (
	PropertyResidential PropertyType = "residential"
	PropertyCommercial  PropertyType = "commercial"
	PropertyMixed       PropertyType = "mixed"
)

type Property struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	OwnerID        uuid.UUID       `json:"owner_id" db:"owner_id"`
	Name           string          `json:"name" db:"name"`
	AddressLine1   string          `json:"address_line1" db:"address_line1"`
	AddressLine2   *string         `json:"address_line2" db:"address_line2"`
	City           string          `json:"city" db:"city"`
	PostalCode     string          `json:"postal_code" db:"postal_code"`
	Region         *string         `json:"region" db:"region"`
	CountryISO     string          `json:"country_iso" db:"country_iso"`
	PropertyType   PropertyType    `json:"property_type" db:"property_type"`
	DefaultVATRate decimal.Decimal `json:"default_vat_rate" db:"default_vat_rate"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// PropertyStats is a derived, read-only view over a property's units.
type PropertyStats struct {
	PropertyID       uuid.UUID       `json:"property_id"`
	TotalUnits       int             `json:"total_units"`
	VacantUnits      int             `json:"vacant_units"`
	OccupiedUnits    int             `json:"occupied_units"`
	VacancyRate      decimal.Decimal `json:"vacancy_rate"`
	TotalMonthlyRent decimal.Decimal `json:"total_monthly_rent"`
}
