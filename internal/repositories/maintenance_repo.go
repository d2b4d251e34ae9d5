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

type MaintenanceRepository interface {
	// CanReport reports whether userID owns the unit's property or is the
	// tenant (matched by email) of an active lease on the unit.
	CanReport(ctx context.Context, userID, unitID uuid.UUID) (bool, error)
	Create(ctx context.Context, request *models.MaintenanceRequest) error
	// GetVisible returns a request the user either reported or owns.
	GetVisible(ctx context.Context, userID, id uuid.UUID) (*models.MaintenanceRequest, error)
	GetOwned(ctx context.Context, ownerID, id uuid.UUID) (*models.MaintenanceRequest, error)
	Assign(ctx context.Context, ownerID, id, assigneeID uuid.UUID) (*models.MaintenanceRequest, error)
	Resolve(ctx context.Context, ownerID, id uuid.UUID, actualCost *string) (*models.MaintenanceRequest, error)
	Close(ctx context.Context, ownerID, id uuid.UUID) (*models.MaintenanceRequest, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.MaintenanceRequest, error)
	ListByReporter(ctx context.Context, reporterID uuid.UUID, limit, offset int) ([]*models.MaintenanceRequest, error)
	ListByReporterForOwner(ctx context.Context, ownerID, reporterID uuid.UUID, limit, offset int) ([]*models.MaintenanceRequest, error)
}

const maintenanceColumns = `m.id, m.unit_id, m.reported_by, m.assigned_to, m.category, m.priority, m.status, m.title, m.description, m.reported_at, m.assigned_at, m.resolved_at, m.closed_at, m.estimated_cost, m.actual_cost, m.created_at, m.updated_at`

type maintenanceRepo struct {
	db Database
}

func NewMaintenanceRepo(db Database) MaintenanceRepository {
	return &maintenanceRepo{db: db}
}

func scanMaintenance(row pgx.Row) (*models.MaintenanceRequest, error) {
	m := &models.MaintenanceRequest{}
	err := row.Scan(&m.ID, &m.UnitID, &m.ReportedBy, &m.AssignedTo, &m.Category, &m.Priority, &m.Status, &m.Title,
		&m.Description, &m.ReportedAt, &m.AssignedAt, &m.ResolvedAt, &m.ClosedAt, &m.EstimatedCost, &m.ActualCost,
		&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *maintenanceRepo) CanReport(ctx context.Context, userID, unitID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM units un JOIN properties p ON p.id = un.property_id
			WHERE un.id = $1 AND p.owner_id = $2
		) OR EXISTS (
			SELECT 1 FROM leases l
			JOIN tenants t ON t.id = l.tenant_id
			JOIN users u ON u.email = t.email
			WHERE l.unit_id = $1 AND l.status = 'active' AND u.id = $2
		)
	`
	var ok bool
	if err := r.db.QueryRow(ctx, query, unitID, userID).Scan(&ok); err != nil {
		return false, fmt.Errorf("failed to check unit access: %w", err)
	}
	return ok, nil
}

func (r *maintenanceRepo) Create(ctx context.Context, m *models.MaintenanceRequest) error {
	query := `
		INSERT INTO maintenance_requests (id, unit_id, reported_by, category, priority, status, title, description,
		                                  estimated_cost, reported_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW(), NOW())
		RETURNING reported_at, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, m.ID, m.UnitID, m.ReportedBy, m.Category, m.Priority, m.Status, m.Title,
		m.Description, m.EstimatedCost).Scan(&m.ReportedAt, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create maintenance request: %w", err)
	}
	return nil
}

func (r *maintenanceRepo) GetVisible(ctx context.Context, userID, id uuid.UUID) (*models.MaintenanceRequest, error) {
	query := `SELECT ` + maintenanceColumns + ` FROM maintenance_requests m
		WHERE m.id = $1 AND (m.reported_by = $2 OR ` + maintenanceScope.SQL(2) + `)`
	m, err := scanMaintenance(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, notFoundOr(err, "maintenance request", "get maintenance request")
	}
	return m, nil
}

func (r *maintenanceRepo) GetOwned(ctx context.Context, ownerID, id uuid.UUID) (*models.MaintenanceRequest, error) {
	query := `SELECT ` + maintenanceColumns + ` FROM maintenance_requests m WHERE m.id = $1 AND ` + maintenanceScope.SQL(2)
	m, err := scanMaintenance(r.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		return nil, notFoundOr(err, "maintenance request", "get maintenance request")
	}
	return m, nil
}

func (r *maintenanceRepo) Assign(ctx context.Context, ownerID, id, assigneeID uuid.UUID) (*models.MaintenanceRequest, error) {
	query := `
		UPDATE maintenance_requests m
		SET assigned_to = $3, assigned_at = NOW(), status = 'in_progress', updated_at = NOW()
		WHERE m.id = $1 AND m.status IN ('open', 'in_progress') AND ` + maintenanceScope.SQL(2) + `
		RETURNING ` + maintenanceColumns
	return r.transition(ctx, ownerID, id, "assigned", query, id, ownerID, assigneeID)
}

func (r *maintenanceRepo) Resolve(ctx context.Context, ownerID, id uuid.UUID, actualCost *string) (*models.MaintenanceRequest, error) {
	query := `
		UPDATE maintenance_requests m
		SET status = 'resolved', resolved_at = NOW(), actual_cost = COALESCE($3, m.actual_cost), updated_at = NOW()
		WHERE m.id = $1 AND m.status IN ('open', 'in_progress') AND ` + maintenanceScope.SQL(2) + `
		RETURNING ` + maintenanceColumns
	return r.transition(ctx, ownerID, id, "resolved", query, id, ownerID, actualCost)
}

func (r *maintenanceRepo) Close(ctx context.Context, ownerID, id uuid.UUID) (*models.MaintenanceRequest, error) {
	query := `
		UPDATE maintenance_requests m
		SET status = 'closed', closed_at = NOW(), updated_at = NOW()
		WHERE m.id = $1 AND m.status = 'resolved' AND ` + maintenanceScope.SQL(2) + `
		RETURNING ` + maintenanceColumns
	return r.transition(ctx, ownerID, id, "closed", query, id, ownerID)
}

// transition runs a guarded UPDATE. When nothing matched it tells a missing
// or foreign request (NotFound) apart from one in the wrong state.
func (r *maintenanceRepo) transition(ctx context.Context, ownerID, id uuid.UUID, verb, query string, args ...any) (*models.MaintenanceRequest, error) {
	m, err := scanMaintenance(r.db.QueryRow(ctx, query, args...))
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to update maintenance request: %w", err)
	}

	current, getErr := r.GetOwned(ctx, ownerID, id)
	if getErr != nil {
		return nil, getErr
	}
	return nil, common.NewStateConflict("a %s request cannot be %s", current.Status, verb)
}

func (r *maintenanceRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.MaintenanceRequest, error) {
	query := `SELECT ` + maintenanceColumns + ` FROM maintenance_requests m WHERE ` + maintenanceScope.SQL(1) +
		` ORDER BY m.reported_at DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, ownerID, limit, offset)
}

func (r *maintenanceRepo) ListByReporter(ctx context.Context, reporterID uuid.UUID, limit, offset int) ([]*models.MaintenanceRequest, error) {
	query := `SELECT ` + maintenanceColumns + ` FROM maintenance_requests m WHERE m.reported_by = $1
		ORDER BY m.reported_at DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, reporterID, limit, offset)
}

func (r *maintenanceRepo) ListByReporterForOwner(ctx context.Context, ownerID, reporterID uuid.UUID, limit, offset int) ([]*models.MaintenanceRequest, error) {
	query := `SELECT ` + maintenanceColumns + ` FROM maintenance_requests m WHERE m.reported_by = $1 AND ` +
		maintenanceScope.SQL(2) + ` ORDER BY m.reported_at DESC LIMIT $3 OFFSET $4`
	return r.list(ctx, query, reporterID, ownerID, limit, offset)
}

func (r *maintenanceRepo) list(ctx context.Context, query string, args ...any) ([]*models.MaintenanceRequest, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list maintenance requests: %w", err)
	}
	defer rows.Close()

	requests := []*models.MaintenanceRequest{}
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan maintenance request: %w", err)
		}
		requests = append(requests, m)
	}
	return requests, rows.Err()
}
