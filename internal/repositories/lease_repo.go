package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rentguy/internal/common"
	"rentguy/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type LeaseRepository interface {
	// Create inserts a pending_signature lease and marks its unit occupied in
	// one transaction, holding a row lock on the unit throughout.
	Create(ctx context.Context, ownerID uuid.UUID, lease *models.Lease) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Lease, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Lease, error)
	ListByUnit(ctx context.Context, ownerID, unitID uuid.UUID, limit, offset int) ([]*models.Lease, error)
	Sign(ctx context.Context, ownerID, id uuid.UUID) (*models.Lease, error)
	Terminate(ctx context.Context, ownerID, id uuid.UUID) (*models.Lease, error)
	ExpireEnded(ctx context.Context, today time.Time) (int64, error)
}

const leaseColumns = `l.id, l.unit_id, l.tenant_id, l.lease_start_date, l.lease_end_date, l.rent_amount, l.currency_iso, l.security_deposit, l.deposit_currency_iso, l.vat_rate, l.status, l.digital_signed_at, l.created_at, l.updated_at`

type leaseRepo struct {
	db Database
}

func NewLeaseRepo(db Database) LeaseRepository {
	return &leaseRepo{db: db}
}

func scanLease(row pgx.Row) (*models.Lease, error) {
	l := &models.Lease{}
	err := row.Scan(&l.ID, &l.UnitID, &l.TenantID, &l.StartDate, &l.EndDate, &l.RentAmount, &l.CurrencyISO,
		&l.SecurityDeposit, &l.DepositCurrencyISO, &l.VATRate, &l.Status, &l.SignedAt, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *leaseRepo) Create(ctx context.Context, ownerID uuid.UUID, lease *models.Lease) error {
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		var isVacant bool
		err := tx.QueryRow(ctx, `
			SELECT un.is_vacant
			FROM units un
			JOIN properties p ON p.id = un.property_id
			WHERE un.id = $1 AND p.owner_id = $2
			FOR UPDATE OF un
		`, lease.UnitID, ownerID).Scan(&isVacant)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return common.NewValidation("unit not found or not owned by you")
			}
			return fmt.Errorf("failed to lock unit: %w", err)
		}
		if !isVacant {
			return common.NewValidation("unit is not vacant")
		}

		var tenantOwned bool
		err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tenants WHERE id = $1 AND owner_id = $2)`,
			lease.TenantID, ownerID).Scan(&tenantOwned)
		if err != nil {
			return fmt.Errorf("failed to check tenant: %w", err)
		}
		if !tenantOwned {
			return common.NewValidation("tenant not found or not owned by you")
		}

		var hasActive bool
		err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM leases WHERE unit_id = $1 AND status = 'active')`,
			lease.UnitID).Scan(&hasActive)
		if err != nil {
			return fmt.Errorf("failed to check active leases: %w", err)
		}
		if hasActive {
			return common.NewValidation("unit already has an active lease")
		}

		lease.Status = models.LeasePendingSignature
		err = tx.QueryRow(ctx, `
			INSERT INTO leases (id, unit_id, tenant_id, lease_start_date, lease_end_date, rent_amount, currency_iso,
			                    security_deposit, deposit_currency_iso, vat_rate, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
			RETURNING created_at, updated_at
		`, lease.ID, lease.UnitID, lease.TenantID, lease.StartDate, lease.EndDate, lease.RentAmount, lease.CurrencyISO,
			lease.SecurityDeposit, lease.DepositCurrencyISO, lease.VATRate, lease.Status).
			Scan(&lease.CreatedAt, &lease.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert lease: %w", err)
		}

		if _, err := tx.Exec(ctx, `UPDATE units SET is_vacant = FALSE, updated_at = NOW() WHERE id = $1`, lease.UnitID); err != nil {
			return fmt.Errorf("failed to mark unit occupied: %w", err)
		}
		return nil
	})
}

func (r *leaseRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Lease, error) {
	query := `SELECT ` + leaseColumns + ` FROM leases l WHERE l.id = $1 AND ` + leaseScope.SQL(2)
	l, err := scanLease(r.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		return nil, notFoundOr(err, "lease", "get lease")
	}
	return l, nil
}

func (r *leaseRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Lease, error) {
	query := `SELECT ` + leaseColumns + ` FROM leases l WHERE ` + leaseScope.SQL(1) +
		` ORDER BY l.created_at DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, ownerID, limit, offset)
}

func (r *leaseRepo) ListByUnit(ctx context.Context, ownerID, unitID uuid.UUID, limit, offset int) ([]*models.Lease, error) {
	query := `SELECT ` + leaseColumns + ` FROM leases l WHERE l.unit_id = $1 AND ` + leaseScope.SQL(2) +
		` ORDER BY l.lease_start_date DESC LIMIT $3 OFFSET $4`
	return r.list(ctx, query, unitID, ownerID, limit, offset)
}

func (r *leaseRepo) list(ctx context.Context, query string, args ...any) ([]*models.Lease, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leases: %w", err)
	}
	defer rows.Close()

	leases := []*models.Lease{}
	for rows.Next() {
		l, err := scanLease(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lease: %w", err)
		}
		leases = append(leases, l)
	}
	return leases, rows.Err()
}

// Sign activates a pending_signature lease. Absent, foreign and ineligible
// leases all yield the same NotFound.
func (r *leaseRepo) Sign(ctx context.Context, ownerID, id uuid.UUID) (*models.Lease, error) {
	query := `
		UPDATE leases l
		SET status = 'active', digital_signed_at = NOW(), updated_at = NOW()
		WHERE l.id = $1 AND l.status = 'pending_signature' AND ` + leaseScope.SQL(2) + `
		RETURNING ` + leaseColumns
	l, err := scanLease(r.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundMessage("lease not found or not eligible for signing")
		}
		if isUniqueViolation(err) {
			return nil, common.NewValidation("unit already has an active lease")
		}
		return nil, fmt.Errorf("failed to sign lease: %w", err)
	}
	return l, nil
}

// Terminate ends a pending or active lease and frees its unit.
func (r *leaseRepo) Terminate(ctx context.Context, ownerID, id uuid.UUID) (*models.Lease, error) {
	var lease *models.Lease
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		query := `SELECT ` + leaseColumns + ` FROM leases l WHERE l.id = $1 AND ` + leaseScope.SQL(2) + ` FOR UPDATE OF l`
		current, err := scanLease(tx.QueryRow(ctx, query, id, ownerID))
		if err != nil {
			return notFoundOr(err, "lease", "lock lease")
		}
		if !current.IsActive() && current.Status != models.LeasePendingSignature {
			return common.NewStateConflict("lease is already %s", current.Status)
		}

		lease, err = scanLease(tx.QueryRow(ctx, `
			UPDATE leases l SET status = 'terminated', updated_at = NOW()
			WHERE l.id = $1
			RETURNING `+leaseColumns, id))
		if err != nil {
			return fmt.Errorf("failed to terminate lease: %w", err)
		}

		if _, err := tx.Exec(ctx, `UPDATE units SET is_vacant = TRUE, updated_at = NOW() WHERE id = $1`, lease.UnitID); err != nil {
			return fmt.Errorf("failed to mark unit vacant: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lease, nil
}

// ExpireEnded marks active leases whose end date is before today as expired
// and frees their units, in a single statement.
func (r *leaseRepo) ExpireEnded(ctx context.Context, today time.Time) (int64, error) {
	query := `
		WITH expired AS (
			UPDATE leases SET status = 'expired', updated_at = NOW()
			WHERE status = 'active' AND lease_end_date < $1
			RETURNING unit_id
		)
		UPDATE units SET is_vacant = TRUE, updated_at = NOW()
		WHERE id IN (SELECT unit_id FROM expired)
	`
	tag, err := r.db.Exec(ctx, query, today)
	if err != nil {
		return 0, fmt.Errorf("failed to expire leases: %w", err)
	}
	return tag.RowsAffected(), nil
}
