package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Unit struct {
	ID            uuid.UUID        `json:"id" db:"id"`
	PropertyID    uuid.UUID        `json:"property_id" db:"property_id"`
	UnitNumber    string           `json:"unit_number" db:"unit_number"`
	Floor         *int             `json:"floor" db:"floor"`
	Bedrooms      int              `json:"bedrooms" db:"bedrooms"`
	Bathrooms     int              `json:"bathrooms" db:"bathrooms"`
	SquareMeters  *decimal.Decimal `json:"square_meters" db:"square_meters"`
	CurrentRent   decimal.Decimal  `json:"current_rent" db:"current_rent"`
	CurrencyISO   string           `json:"currency_iso" db:"currency_iso"`
	DepositAmount decimal.Decimal  `json:"deposit_amount" db:"deposit_amount"`
	IsVacant      bool             `json:"is_vacant" db:"is_vacant"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at" db:"updated_at"`
}

func (u *Unit) Status() string {
	if u.IsVacant {
		return "vacant"
	}
	return "occupied"
}
