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

// InvoiceDeriver builds the invoice and optional VAT entry from lease terms.
// It runs inside the creation transaction.
type InvoiceDeriver func(billing *models.LeaseBilling) (*models.Invoice, *models.VATEntry, error)

type InvoiceRepository interface {
	CreateForLease(ctx context.Context, ownerID, leaseID uuid.UUID, derive InvoiceDeriver) (*models.Invoice, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Invoice, error)
	GetDocument(ctx context.Context, ownerID, id uuid.UUID) (*models.InvoiceDocument, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Invoice, error)
	// ListByLease applies no ownership filter; callers verify the lease first.
	ListByLease(ctx context.Context, leaseID uuid.UUID, limit, offset int) ([]*models.Invoice, error)
	Transition(ctx context.Context, ownerID, id uuid.UUID, from []models.InvoiceStatus, to models.InvoiceStatus) (*models.Invoice, error)
	SetDocumentKey(ctx context.Context, ownerID, id uuid.UUID, key string) error
	MarkOverdue(ctx context.Context, today time.Time) (int64, error)
}

const invoiceColumns = `i.id, i.lease_id, i.invoice_number, i.issue_date, i.due_date, i.amount, i.vat_amount, i.total_amount, i.currency_iso, i.status, i.paid_at, i.document_key, i.created_at, i.updated_at`

const vatEntryColumns = `id, invoice_id, vat_rate, net_amount, vat_amount, gross_amount, country_iso, created_at`

type invoiceRepo struct {
	db Database
}

func NewInvoiceRepo(db Database) InvoiceRepository {
	return &invoiceRepo{db: db}
}

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	i := &models.Invoice{}
	err := row.Scan(&i.ID, &i.LeaseID, &i.InvoiceNumber, &i.IssueDate, &i.DueDate, &i.Amount, &i.VATAmount,
		&i.TotalAmount, &i.CurrencyISO, &i.Status, &i.PaidAt, &i.DocumentKey, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return i, nil
}

func (r *invoiceRepo) CreateForLease(ctx context.Context, ownerID, leaseID uuid.UUID, derive InvoiceDeriver) (*models.Invoice, error) {
	var invoice *models.Invoice
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		billing := &models.LeaseBilling{LeaseID: leaseID, OwnerID: ownerID}
		err := tx.QueryRow(ctx, `
			SELECT l.tenant_id, l.rent_amount, l.currency_iso, l.vat_rate, p.country_iso
			FROM leases l
			JOIN units un ON un.id = l.unit_id
			JOIN properties p ON p.id = un.property_id
			WHERE l.id = $1 AND p.owner_id = $2
			FOR SHARE OF l
		`, leaseID, ownerID).Scan(&billing.TenantID, &billing.RentAmount, &billing.CurrencyISO, &billing.VATRate, &billing.CountryISO)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return common.NewValidation("lease not found or not owned by you")
			}
			return fmt.Errorf("failed to load lease terms: %w", err)
		}

		inv, vat, err := derive(billing)
		if err != nil {
			return err
		}

		var seq int64
		if err := tx.QueryRow(ctx, `SELECT nextval('invoice_number_seq')`).Scan(&seq); err != nil {
			return fmt.Errorf("failed to allocate invoice number: %w", err)
		}
		inv.InvoiceNumber = models.FormatInvoiceNumber(inv.IssueDate, seq)

		err = tx.QueryRow(ctx, `
			INSERT INTO invoices (id, lease_id, invoice_number, issue_date, due_date, amount, vat_amount, total_amount,
			                      currency_iso, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
			RETURNING created_at, updated_at
		`, inv.ID, inv.LeaseID, inv.InvoiceNumber, inv.IssueDate, inv.DueDate, inv.Amount, inv.VATAmount,
			inv.TotalAmount, inv.CurrencyISO, inv.Status).Scan(&inv.CreatedAt, &inv.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert invoice: %w", err)
		}

		if vat != nil {
			err = tx.QueryRow(ctx, `
				INSERT INTO vat_entries (id, invoice_id, vat_rate, net_amount, vat_amount, gross_amount, country_iso, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
				RETURNING created_at
			`, vat.ID, inv.ID, vat.VATRate, vat.NetAmount, vat.VATAmount, vat.GrossAmount, vat.CountryISO).Scan(&vat.CreatedAt)
			if err != nil {
				return fmt.Errorf("failed to insert vat entry: %w", err)
			}
			vat.InvoiceID = inv.ID
			inv.VATEntries = []*models.VATEntry{vat}
		}

		invoice = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices i WHERE i.id = $1 AND ` + invoiceScope.SQL(2)
	inv, err := scanInvoice(r.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		return nil, notFoundOr(err, "invoice", "get invoice")
	}

	entries, err := r.vatEntries(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	inv.VATEntries = entries
	return inv, nil
}

func (r *invoiceRepo) vatEntries(ctx context.Context, invoiceID uuid.UUID) ([]*models.VATEntry, error) {
	rows, err := r.db.Query(ctx, `SELECT `+vatEntryColumns+` FROM vat_entries WHERE invoice_id = $1 ORDER BY created_at`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vat entries: %w", err)
	}
	defer rows.Close()

	entries := []*models.VATEntry{}
	for rows.Next() {
		v := &models.VATEntry{}
		if err := rows.Scan(&v.ID, &v.InvoiceID, &v.VATRate, &v.NetAmount, &v.VATAmount, &v.GrossAmount, &v.CountryISO, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vat entry: %w", err)
		}
		entries = append(entries, v)
	}
	return entries, rows.Err()
}

func (r *invoiceRepo) GetDocument(ctx context.Context, ownerID, id uuid.UUID) (*models.InvoiceDocument, error) {
	query := `
		SELECT ` + invoiceColumns + `,
		       t.first_name || ' ' || t.last_name, t.email, t.phone_number,
		       p.name, p.address_line1 || ', ' || p.city || ' ' || p.postal_code, un.unit_number
		FROM invoices i
		JOIN leases l ON l.id = i.lease_id
		JOIN tenants t ON t.id = l.tenant_id
		JOIN units un ON un.id = l.unit_id
		JOIN properties p ON p.id = un.property_id
		WHERE i.id = $1 AND p.owner_id = $2
	`
	inv := &models.Invoice{}
	doc := &models.InvoiceDocument{Invoice: inv, OwnerID: ownerID}
	err := r.db.QueryRow(ctx, query, id, ownerID).Scan(&inv.ID, &inv.LeaseID, &inv.InvoiceNumber, &inv.IssueDate,
		&inv.DueDate, &inv.Amount, &inv.VATAmount, &inv.TotalAmount, &inv.CurrencyISO, &inv.Status, &inv.PaidAt,
		&inv.DocumentKey, &inv.CreatedAt, &inv.UpdatedAt,
		&doc.TenantName, &doc.TenantEmail, &doc.TenantPhone, &doc.PropertyName, &doc.Address, &doc.UnitNumber)
	if err != nil {
		return nil, notFoundOr(err, "invoice", "load invoice document")
	}
	return doc, nil
}

func (r *invoiceRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices i WHERE ` + invoiceScope.SQL(1) +
		` ORDER BY i.issue_date DESC, i.invoice_number DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, ownerID, limit, offset)
}

func (r *invoiceRepo) ListByLease(ctx context.Context, leaseID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices i WHERE i.lease_id = $1
		ORDER BY i.issue_date DESC, i.invoice_number DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, leaseID, limit, offset)
}

func (r *invoiceRepo) list(ctx context.Context, query string, args ...any) ([]*models.Invoice, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	invoices := []*models.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// Transition moves an owned invoice from one of the allowed states to `to`.
// paid_at is stamped when moving to paid.
func (r *invoiceRepo) Transition(ctx context.Context, ownerID, id uuid.UUID, from []models.InvoiceStatus, to models.InvoiceStatus) (*models.Invoice, error) {
	allowed := make([]string, len(from))
	for n, s := range from {
		allowed[n] = string(s)
	}

	query := `
		UPDATE invoices i
		SET status = $3,
		    paid_at = CASE WHEN $3 = 'paid' THEN NOW() ELSE i.paid_at END,
		    updated_at = NOW()
		WHERE i.id = $1 AND i.status = ANY($4) AND ` + invoiceScope.SQL(2) + `
		RETURNING ` + invoiceColumns
	inv, err := scanInvoice(r.db.QueryRow(ctx, query, id, ownerID, string(to), allowed))
	if err == nil {
		return inv, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to update invoice status: %w", err)
	}

	current, getErr := r.GetByID(ctx, ownerID, id)
	if getErr != nil {
		return nil, getErr
	}
	return nil, common.NewStateConflict("invoice is %s and cannot become %s", current.Status, to)
}

func (r *invoiceRepo) SetDocumentKey(ctx context.Context, ownerID, id uuid.UUID, key string) error {
	query := `UPDATE invoices i SET document_key = $3, updated_at = NOW() WHERE i.id = $1 AND ` + invoiceScope.SQL(2)
	tag, err := r.db.Exec(ctx, query, id, ownerID, key)
	if err != nil {
		return fmt.Errorf("failed to store document key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFound("invoice")
	}
	return nil
}

func (r *invoiceRepo) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE invoices SET status = 'overdue', updated_at = NOW()
		WHERE status = 'pending' AND due_date < $1
	`, today)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue invoices: %w", err)
	}
	return tag.RowsAffected(), nil
}
