package services

import (
	"context"

	"rentguy/internal/models"
	"rentguy/internal/repositories"

	"github.com/google/uuid"
)

type UnitService interface {
	Create(ctx context.Context, ownerID uuid.UUID, unit *models.Unit) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Unit, error)
	Update(ctx context.Context, ownerID uuid.UUID, unit *models.Unit) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	ListByProperty(ctx context.Context, ownerID, propertyID uuid.UUID, limit, offset int) ([]*models.Unit, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Unit, error)
}

type unitService struct {
	unitRepo     repositories.UnitRepository
	propertyRepo repositories.PropertyRepository
}

func NewUnitService(unitRepo repositories.UnitRepository, propertyRepo repositories.PropertyRepository) UnitService {
	return &unitService{unitRepo: unitRepo, propertyRepo: propertyRepo}
}

func (s *unitService) validate(unit *models.Unit) error {
	if err := validateRequired("unit_number", unit.UnitNumber); err != nil {
		return err
	}
	if unit.Bedrooms < 0 || unit.Bathrooms < 0 {
		return validationErr("bedrooms and bathrooms cannot be negative")
	}
	if unit.SquareMeters != nil {
		if err := validateNonNegative("square_meters", *unit.SquareMeters); err != nil {
			return err
		}
	}
	if err := validateNonNegative("current_rent", unit.CurrentRent); err != nil {
		return err
	}
	if err := validateNonNegative("deposit_amount", unit.DepositAmount); err != nil {
		return err
	}
	if unit.CurrencyISO == "" {
		unit.CurrencyISO = "EUR"
	}
	unit.CurrencyISO = normalizeCode(unit.CurrencyISO)
	return validateCurrency("currency_iso", unit.CurrencyISO)
}

// Create fails with a validation error, and persists nothing, when the
// property does not belong to the caller.
func (s *unitService) Create(ctx context.Context, ownerID uuid.UUID, unit *models.Unit) error {
	if err := s.validate(unit); err != nil {
		return err
	}
	unit.ID = uuid.New()
	unit.IsVacant = true
	return s.unitRepo.Create(ctx, ownerID, unit)
}

func (s *unitService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Unit, error) {
	return s.unitRepo.GetByID(ctx, ownerID, id)
}

func (s *unitService) Update(ctx context.Context, ownerID uuid.UUID, unit *models.Unit) error {
	if err := s.validate(unit); err != nil {
		return err
	}
	return s.unitRepo.Update(ctx, ownerID, unit)
}

func (s *unitService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.unitRepo.Delete(ctx, ownerID, id)
}

func (s *unitService) ListByProperty(ctx context.Context, ownerID, propertyID uuid.UUID, limit, offset int) ([]*models.Unit, error) {
	if _, err := s.propertyRepo.GetByID(ctx, ownerID, propertyID); err != nil {
		return nil, err
	}
	return s.unitRepo.ListByProperty(ctx, ownerID, propertyID, limit, offset)
}

func (s *unitService) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Unit, error) {
	return s.unitRepo.ListByOwner(ctx, ownerID, limit, offset)
}
