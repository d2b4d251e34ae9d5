package models

import (
	"time"

	"github.com/google/uuid"
)

type MessageDirection string

const (
	DirectionInbound  MessageDirection = "inbound"
	DirectionOutbound MessageDirection = "outbound"
)

type WhatsAppMessage struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	ProviderSID string           `json:"provider_sid" db:"provider_sid"`
	Direction   MessageDirection `json:"direction" db:"direction"`
	FromNumber  string           `json:"from_number" db:"from_number"`
	ToNumber    string           `json:"to_number" db:"to_number"`
	Body        string           `json:"body" db:"body"`
	OwnerID     *uuid.UUID       `json:"owner_id" db:"owner_id"`
	TenantID    *uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
}
