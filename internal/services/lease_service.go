package services

import (
	"context"
	"fmt"

	"rentguy/internal/models"
	"rentguy/internal/repositories"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type LeaseService interface {
	Create(ctx context.Context, ownerID uuid.UUID, lease *models.Lease) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Lease, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Lease, error)
	ListByUnit(ctx context.Context, ownerID, unitID uuid.UUID, limit, offset int) ([]*models.Lease, error)
	Sign(ctx context.Context, ownerID, id uuid.UUID) (*models.Lease, error)
	Terminate(ctx context.Context, ownerID, id uuid.UUID) (*models.Lease, error)
}

type leaseService struct {
	leaseRepo  repositories.LeaseRepository
	unitRepo   repositories.UnitRepository
	tenantRepo repositories.TenantRepository
	notifier   Notifier
	log        logrus.FieldLogger
}

func NewLeaseService(
	leaseRepo repositories.LeaseRepository,
	unitRepo repositories.UnitRepository,
	tenantRepo repositories.TenantRepository,
	notifier Notifier,
	log logrus.FieldLogger,
) LeaseService {
	return &leaseService{
		leaseRepo:  leaseRepo,
		unitRepo:   unitRepo,
		tenantRepo: tenantRepo,
		notifier:   notifier,
		log:        log,
	}
}

func (s *leaseService) validate(lease *models.Lease) error {
	if lease.StartDate.IsZero() || lease.EndDate.IsZero() {
		return validationErr("lease_start_date and lease_end_date are required")
	}
	if !lease.EndDate.After(lease.StartDate) {
		return validationErr("lease_end_date must be after lease_start_date")
	}
	if !lease.RentAmount.IsPositive() {
		return validationErr("rent_amount must be greater than zero")
	}
	if err := validateNonNegative("security_deposit", lease.SecurityDeposit); err != nil {
		return err
	}
	if err := validateRate("vat_rate", lease.VATRate); err != nil {
		return err
	}

	lease.CurrencyISO = normalizeCode(lease.CurrencyISO)
	if lease.CurrencyISO == "" {
		lease.CurrencyISO = "EUR"
	}
	if err := validateCurrency("currency_iso", lease.CurrencyISO); err != nil {
		return err
	}
	lease.DepositCurrencyISO = normalizeCode(lease.DepositCurrencyISO)
	if lease.DepositCurrencyISO == "" {
		lease.DepositCurrencyISO = lease.CurrencyISO
	}
	return validateCurrency("deposit_currency_iso", lease.DepositCurrencyISO)
}

// Create stores a pending_signature lease and takes the unit off the market.
func (s *leaseService) Create(ctx context.Context, ownerID uuid.UUID, lease *models.Lease) error {
	if err := s.validate(lease); err != nil {
		return err
	}
	lease.ID = uuid.New()
	if err := s.leaseRepo.Create(ctx, ownerID, lease); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"lease_id": lease.ID, "unit_id": lease.UnitID}).Info("Lease created")
	return nil
}

func (s *leaseService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Lease, error) {
	return s.leaseRepo.GetByID(ctx, ownerID, id)
}

func (s *leaseService) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Lease, error) {
	return s.leaseRepo.ListByOwner(ctx, ownerID, limit, offset)
}

func (s *leaseService) ListByUnit(ctx context.Context, ownerID, unitID uuid.UUID, limit, offset int) ([]*models.Lease, error) {
	if _, err := s.unitRepo.GetByID(ctx, ownerID, unitID); err != nil {
		return nil, err
	}
	return s.leaseRepo.ListByUnit(ctx, ownerID, unitID, limit, offset)
}

func (s *leaseService) Sign(ctx context.Context, ownerID, id uuid.UUID) (*models.Lease, error) {
	lease, err := s.leaseRepo.Sign(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	s.log.WithField("lease_id", lease.ID).Info("Lease signed")

	if tenant, err := s.tenantRepo.GetByID(ctx, ownerID, lease.TenantID); err == nil {
		s.notifier.NotifyTenant(ctx, TenantNotice{
			Name:    tenant.FullName(),
			Phone:   tenant.PhoneNumber,
			Subject: "Your lease is now active",
			Body: fmt.Sprintf("Hello %s, your lease running %s to %s is signed and active. Monthly rent: %s %s.",
				tenant.FirstName, lease.StartDate.Format("2006-01-02"), lease.EndDate.Format("2006-01-02"),
				lease.RentAmount.StringFixed(2), lease.CurrencyISO),
		})
	} else {
		s.log.WithError(err).WithField("lease_id", lease.ID).Warn("Could not load tenant for lease notification")
	}
	return lease, nil
}

func (s *leaseService) Terminate(ctx context.Context, ownerID, id uuid.UUID) (*models.Lease, error) {
	lease, err := s.leaseRepo.Terminate(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"lease_id": lease.ID, "unit_id": lease.UnitID}).Info("Lease terminated")
	return lease, nil
}
