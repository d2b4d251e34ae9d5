package repositories

import (
	"context"
	"errors"
	"fmt"

	"rentguy/internal/common"
	"rentguy/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UnitRepository interface {
	// Create inserts the unit only if its property belongs to ownerID.
	Create(ctx context.Context, ownerID uuid.UUID, unit *models.Unit) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Unit, error)
	Update(ctx context.Context, ownerID uuid.UUID, unit *models.Unit) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	ListByProperty(ctx context.Context, ownerID, propertyID uuid.UUID, limit, offset int) ([]*models.Unit, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Unit, error)
}

const unitColumns = `un.id, un.property_id, un.unit_number, un.floor, un.bedrooms, un.bathrooms, un.square_meters, un.current_rent, un.currency_iso, un.deposit_amount, un.is_vacant, un.created_at, un.updated_at`

type unitRepo struct {
	db Database
}

func NewUnitRepo(db Database) UnitRepository {
	return &unitRepo{db: db}
}

func scanUnit(row pgx.Row) (*models.Unit, error) {
	u := &models.Unit{}
	err := row.Scan(&u.ID, &u.PropertyID, &u.UnitNumber, &u.Floor, &u.Bedrooms, &u.Bathrooms, &u.SquareMeters,
		&u.CurrentRent, &u.CurrencyISO, &u.DepositAmount, &u.IsVacant, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *unitRepo) Create(ctx context.Context, ownerID uuid.UUID, unit *models.Unit) error {
	query := `
		INSERT INTO units (id, property_id, unit_number, floor, bedrooms, bathrooms, square_meters, current_rent, currency_iso, deposit_amount, is_vacant, created_at, updated_at)
		SELECT $1, p.id, $3, $4, $5, $6, $7, $8, $9, $10, TRUE, NOW(), NOW()
		FROM properties p
		WHERE p.id = $2 AND p.owner_id = $11
		RETURNING is_vacant, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, unit.ID, unit.PropertyID, unit.UnitNumber, unit.Floor, unit.Bedrooms,
		unit.Bathrooms, unit.SquareMeters, unit.CurrentRent, unit.CurrencyISO, unit.DepositAmount, ownerID).
		Scan(&unit.IsVacant, &unit.CreatedAt, &unit.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.NewValidation("property not found or not owned by you")
		}
		if isUniqueViolation(err) {
			return common.NewValidation("unit number %q already exists in this property", unit.UnitNumber)
		}
		return fmt.Errorf("failed to create unit: %w", err)
	}
	return nil
}

func (r *unitRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units un WHERE un.id = $1 AND ` + unitScope.SQL(2)
	u, err := scanUnit(r.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		return nil, notFoundOr(err, "unit", "get unit")
	}
	return u, nil
}

// Update leaves is_vacant alone; vacancy is owned by the lease lifecycle.
func (r *unitRepo) Update(ctx context.Context, ownerID uuid.UUID, unit *models.Unit) error {
	query := `
		UPDATE units un
		SET unit_number = $3, floor = $4, bedrooms = $5, bathrooms = $6, square_meters = $7,
		    current_rent = $8, currency_iso = $9, deposit_amount = $10, updated_at = NOW()
		WHERE un.id = $1 AND ` + unitScope.SQL(2) + `
		RETURNING un.property_id, un.is_vacant, un.updated_at
	`
	err := r.db.QueryRow(ctx, query, unit.ID, ownerID, unit.UnitNumber, unit.Floor, unit.Bedrooms, unit.Bathrooms,
		unit.SquareMeters, unit.CurrentRent, unit.CurrencyISO, unit.DepositAmount).
		Scan(&unit.PropertyID, &unit.IsVacant, &unit.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return common.NewValidation("unit number %q already exists in this property", unit.UnitNumber)
		}
		return notFoundOr(err, "unit", "update unit")
	}
	return nil
}

func (r *unitRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM units un WHERE un.id = $1 AND `+unitScope.SQL(2), id, ownerID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return common.NewValidation("unit still has leases or maintenance requests")
		}
		return fmt.Errorf("failed to delete unit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFound("unit")
	}
	return nil
}

func (r *unitRepo) ListByProperty(ctx context.Context, ownerID, propertyID uuid.UUID, limit, offset int) ([]*models.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units un WHERE un.property_id = $1 AND ` + unitScope.SQL(2) +
		` ORDER BY un.unit_number LIMIT $3 OFFSET $4`
	return r.list(ctx, query, propertyID, ownerID, limit, offset)
}

func (r *unitRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units un WHERE ` + unitScope.SQL(1) +
		` ORDER BY un.created_at DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, ownerID, limit, offset)
}

func (r *unitRepo) list(ctx context.Context, query string, args ...any) ([]*models.Unit, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	defer rows.Close()

	units := []*models.Unit{}
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unit: %w", err)
		}
		units = append(units, u)
	}
	return units, rows.Err()
}
