package repositories

import (
	"context"
	"fmt"

	"rentguy/internal/common"
	"rentguy/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type PropertyRepository interface {
	Create(ctx context.Context, property *models.Property) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Property, error)
	Update(ctx context.Context, property *models.Property) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Property, error)
	Stats(ctx context.Context, ownerID, id uuid.UUID) (*models.PropertyStats, error)
}

const propertyColumns = `p.id, p.owner_id, p.name, p.address_line1, p.address_line2, p.city, p.postal_code, p.region, p.country_iso, p.property_type, p.default_vat_rate, p.created_at, p.updated_at`

type propertyRepo struct {
	db Database
}

func NewPropertyRepo(db Database) PropertyRepository {
	return &propertyRepo{db: db}
}

func scanProperty(row pgx.Row) (*models.Property, error) {
	p := &models.Property{}
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.AddressLine1, &p.AddressLine2, &p.City, &p.PostalCode,
		&p.Region, &p.CountryISO, &p.PropertyType, &p.DefaultVATRate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *propertyRepo) Create(ctx context.Context, property *models.Property) error {
	query := `
		INSERT INTO properties (id, owner_id, name, address_line1, address_line2, city, postal_code, region, country_iso, property_type, default_vat_rate, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, property.ID, property.OwnerID, property.Name, property.AddressLine1,
		property.AddressLine2, property.City, property.PostalCode, property.Region, property.CountryISO,
		property.PropertyType, property.DefaultVATRate).Scan(&property.CreatedAt, &property.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

func (r *propertyRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties p WHERE p.id = $1 AND ` + propertyScope.SQL(2)
	p, err := scanProperty(r.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		return nil, notFoundOr(err, "property", "get property")
	}
	return p, nil
}

func (r *propertyRepo) Update(ctx context.Context, property *models.Property) error {
	query := `
		UPDATE properties p
		SET name = $3, address_line1 = $4, address_line2 = $5, city = $6, postal_code = $7, region = $8,
		    country_iso = $9, property_type = $10, default_vat_rate = $11, updated_at = NOW()
		WHERE p.id = $1 AND ` + propertyScope.SQL(2) + `
		RETURNING p.updated_at
	`
	err := r.db.QueryRow(ctx, query, property.ID, property.OwnerID, property.Name, property.AddressLine1,
		property.AddressLine2, property.City, property.PostalCode, property.Region, property.CountryISO,
		property.PropertyType, property.DefaultVATRate).Scan(&property.UpdatedAt)
	if err != nil {
		return notFoundOr(err, "property", "update property")
	}
	return nil
}

// Delete removes the property; units go with it through ON DELETE CASCADE.
func (r *propertyRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM properties p WHERE p.id = $1 AND `+propertyScope.SQL(2), id, ownerID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return common.NewValidation("property still has units with leases or maintenance requests")
		}
		return fmt.Errorf("failed to delete property: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFound("property")
	}
	return nil
}

func (r *propertyRepo) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties p WHERE ` + propertyScope.SQL(1) +
		` ORDER BY p.created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	properties := []*models.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

func (r *propertyRepo) Stats(ctx context.Context, ownerID, id uuid.UUID) (*models.PropertyStats, error) {
	query := `
		SELECT COUNT(un.id),
		       COUNT(un.id) FILTER (WHERE un.is_vacant),
		       COALESCE(SUM(un.current_rent), 0)
		FROM properties p
		LEFT JOIN units un ON un.property_id = p.id
		WHERE p.id = $1 AND ` + propertyScope.SQL(2) + `
		GROUP BY p.id
	`
	stats := &models.PropertyStats{PropertyID: id}
	err := r.db.QueryRow(ctx, query, id, ownerID).Scan(&stats.TotalUnits, &stats.VacantUnits, &stats.TotalMonthlyRent)
	if err != nil {
		return nil, notFoundOr(err, "property", "compute property stats")
	}

	stats.OccupiedUnits = stats.TotalUnits - stats.VacantUnits
	stats.VacancyRate = decimal.Zero
	if stats.TotalUnits > 0 {
		stats.VacancyRate = decimal.NewFromInt(int64(stats.VacantUnits)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(stats.TotalUnits))).
			Round(2)
	}
	return stats, nil
}
