package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"rentguy/internal/common"
	"rentguy/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TenantRepository interface {
	Create(ctx context.Context, tenant *models.Tenant) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Tenant, error)
	EmailExists(ctx context.Context, ownerID uuid.UUID, email string) (bool, error)
	FindByPhone(ctx context.Context, phone string) (*models.Tenant, error)
	Update(ctx context.Context, tenant *models.Tenant) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Tenant, error)

	GetScreening(ctx context.Context, ownerID, tenantID uuid.UUID) (*models.ScreeningResult, error)
	CreateScreening(ctx context.Context, result *models.ScreeningResult) error
	CompleteScreening(ctx context.Context, ownerID, tenantID uuid.UUID, status models.ScreeningStatus, data json.RawMessage) (*models.ScreeningResult, error)
}

const tenantColumns = `t.id, t.owner_id, t.first_name, t.last_name, t.email, t.phone_number, t.date_of_birth, t.nationality_iso, t.created_at, t.updated_at`

const screeningColumns = `s.id, s.tenant_id, s.screening_provider, s.status, s.result_data, s.requested_at, s.completed_at`

type tenantRepo struct {
	db Database
}

func NewTenantRepo(db Database) TenantRepository {
	return &tenantRepo{db: db}
}

func scanTenant(row pgx.Row) (*models.Tenant, error) {
	t := &models.Tenant{}
	err := row.Scan(&t.ID, &t.OwnerID, &t.FirstName, &t.LastName, &t.Email, &t.PhoneNumber, &t.DateOfBirth,
		&t.NationalityISO, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func scanScreening(row pgx.Row) (*models.ScreeningResult, error) {
	s := &models.ScreeningResult{}
	err := row.Scan(&s.ID, &s.TenantID, &s.Provider, &s.Status, &s.ResultData, &s.RequestedAt, &s.CompletedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *tenantRepo) Create(ctx context.Context, tenant *models.Tenant) error {
	query := `
		INSERT INTO tenants (id, owner_id, first_name, last_name, email, phone_number, date_of_birth, nationality_iso, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, tenant.ID, tenant.OwnerID, tenant.FirstName, tenant.LastName,
		strings.ToLower(tenant.Email), tenant.PhoneNumber, tenant.DateOfBirth, tenant.NationalityISO).
		Scan(&tenant.CreatedAt, &tenant.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return common.NewValidation("a tenant with this email already exists")
		}
		return fmt.Errorf("failed to create tenant: %w", err)
	}
	return nil
}

func (r *tenantRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants t WHERE t.id = $1 AND ` + tenantScope.SQL(2)
	t, err := scanTenant(r.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		return nil, notFoundOr(err, "tenant", "get tenant")
	}
	return t, nil
}

func (r *tenantRepo) EmailExists(ctx context.Context, ownerID uuid.UUID, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tenants WHERE owner_id = $1 AND lower(email) = $2)`,
		ownerID, strings.ToLower(email)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check tenant email: %w", err)
	}
	return exists, nil
}

// FindByPhone returns the most recently created tenant with the given phone
// number, across owners.
func (r *tenantRepo) FindByPhone(ctx context.Context, phone string) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants t WHERE t.phone_number = $1 ORDER BY t.created_at DESC LIMIT 1`
	t, err := scanTenant(r.db.QueryRow(ctx, query, phone))
	if err != nil {
		return nil, notFoundOr(err, "tenant", "find tenant by phone")
	}
	return t, nil
}

func (r *tenantRepo) Update(ctx context.Context, tenant *models.Tenant) error {
	query := `
		UPDATE tenants t
		SET first_name = $3, last_name = $4, email = $5, phone_number = $6, date_of_birth = $7, nationality_iso = $8, updated_at = NOW()
		WHERE t.id = $1 AND ` + tenantScope.SQL(2) + `
		RETURNING t.updated_at
	`
	err := r.db.QueryRow(ctx, query, tenant.ID, tenant.OwnerID, tenant.FirstName, tenant.LastName,
		strings.ToLower(tenant.Email), tenant.PhoneNumber, tenant.DateOfBirth, tenant.NationalityISO).
		Scan(&tenant.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return common.NewValidation("a tenant with this email already exists")
		}
		return notFoundOr(err, "tenant", "update tenant")
	}
	return nil
}

func (r *tenantRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tenants t WHERE t.id = $1 AND `+tenantScope.SQL(2), id, ownerID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return common.NewValidation("tenant still has leases")
		}
		return fmt.Errorf("failed to delete tenant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFound("tenant")
	}
	return nil
}

func (r *tenantRepo) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants t WHERE ` + tenantScope.SQL(1) +
		` ORDER BY t.last_name, t.first_name LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	tenants := []*models.Tenant{}
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

func (r *tenantRepo) GetScreening(ctx context.Context, ownerID, tenantID uuid.UUID) (*models.ScreeningResult, error) {
	query := `SELECT ` + screeningColumns + ` FROM screening_results s WHERE s.tenant_id = $1 AND ` + screeningScope.SQL(2)
	s, err := scanScreening(r.db.QueryRow(ctx, query, tenantID, ownerID))
	if err != nil {
		return nil, notFoundOr(err, "screening result", "get screening result")
	}
	return s, nil
}

// CreateScreening relies on UNIQUE(tenant_id) so two concurrent requests
// cannot both create a result.
func (r *tenantRepo) CreateScreening(ctx context.Context, result *models.ScreeningResult) error {
	query := `
		INSERT INTO screening_results (id, tenant_id, screening_provider, status, result_data, requested_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING requested_at
	`
	err := r.db.QueryRow(ctx, query, result.ID, result.TenantID, result.Provider, result.Status, result.ResultData).
		Scan(&result.RequestedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return common.NewValidation("screening already requested for this tenant")
		}
		return fmt.Errorf("failed to create screening result: %w", err)
	}
	return nil
}

// CompleteScreening moves a pending result to approved or denied. It returns
// NotFound when no result is visible to the owner and StateConflict when the
// result is no longer pending.
func (r *tenantRepo) CompleteScreening(ctx context.Context, ownerID, tenantID uuid.UUID, status models.ScreeningStatus, data json.RawMessage) (*models.ScreeningResult, error) {
	query := `
		UPDATE screening_results s
		SET status = $3, result_data = COALESCE($4, s.result_data), completed_at = NOW()
		WHERE s.tenant_id = $1 AND s.status = 'pending' AND ` + screeningScope.SQL(2) + `
		RETURNING ` + screeningColumns
	s, err := scanScreening(r.db.QueryRow(ctx, query, tenantID, ownerID, status, data))
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to complete screening: %w", err)
	}

	existing, getErr := r.GetScreening(ctx, ownerID, tenantID)
	if getErr != nil {
		return nil, getErr
	}
	return nil, common.NewStateConflict("screening is already %s", existing.Status)
}
