package repositories

import (
	"context"
	"fmt"

	"rentguy/internal/models"

	"github.com/google/uuid"
)

type WhatsAppMessageRepository interface {
	Save(ctx context.Context, msg *models.WhatsAppMessage) error
	ListByTenant(ctx context.Context, ownerID, tenantID uuid.UUID, limit, offset int) ([]*models.WhatsAppMessage, error)
}

type whatsAppMessageRepo struct {
	db Database
}

func NewWhatsAppMessageRepo(db Database) WhatsAppMessageRepository {
	return &whatsAppMessageRepo{db: db}
}

// Save ignores redelivered webhooks carrying a provider SID already stored.
func (r *whatsAppMessageRepo) Save(ctx context.Context, msg *models.WhatsAppMessage) error {
	query := `
		INSERT INTO whatsapp_messages (id, provider_sid, direction, from_number, to_number, body, owner_id, tenant_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (provider_sid) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, msg.ID, msg.ProviderSID, msg.Direction, msg.FromNumber, msg.ToNumber, msg.Body,
		msg.OwnerID, msg.TenantID)
	if err != nil {
		return fmt.Errorf("failed to save whatsapp message: %w", err)
	}
	return nil
}

func (r *whatsAppMessageRepo) ListByTenant(ctx context.Context, ownerID, tenantID uuid.UUID, limit, offset int) ([]*models.WhatsAppMessage, error) {
	query := `
		SELECT id, provider_sid, direction, from_number, to_number, body, owner_id, tenant_id, created_at
		FROM whatsapp_messages
		WHERE owner_id = $1 AND tenant_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, ownerID, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list whatsapp messages: %w", err)
	}
	defer rows.Close()

	messages := []*models.WhatsAppMessage{}
	for rows.Next() {
		m := &models.WhatsAppMessage{}
		if err := rows.Scan(&m.ID, &m.ProviderSID, &m.Direction, &m.FromNumber, &m.ToNumber, &m.Body,
			&m.OwnerID, &m.TenantID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan whatsapp message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
