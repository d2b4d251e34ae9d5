package services

import (
	"context"

	"rentguy/internal/models"
	"rentguy/internal/repositories"

	"github.com/google/uuid"
)

type PropertyService interface {
	Create(ctx context.Context, ownerID uuid.UUID, property *models.Property) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Property, error)
	Update(ctx context.Context, ownerID uuid.UUID, property *models.Property) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Property, error)
	Stats(ctx context.Context, ownerID, id uuid.UUID) (*models.PropertyStats, error)
}

type propertyService struct {
	propertyRepo repositories.PropertyRepository
}

func NewPropertyService(propertyRepo repositories.PropertyRepository) PropertyService {
	return &propertyService{propertyRepo: propertyRepo}
}

func (s *propertyService) validate(property *models.Property) error {
	for field, value := range map[string]string{
		"name":          property.Name,
		"address_line1": property.AddressLine1,
		"city":          property.City,
		"postal_code":   property.PostalCode,
	} {
		if err := validateRequired(field, value); err != nil {
			return err
		}
	}

	property.CountryISO = normalizeCode(property.CountryISO)
	if err := validateCountry("country_iso", property.CountryISO); err != nil {
		return err
	}
	if property.PropertyType == "" {
		property.PropertyType = models.PropertyResidential
	}
	switch property.PropertyType {
	case models.PropertyResidential, models.PropertyCommercial, models.PropertyMixed:
	default:
		return validationErr("property_type must be residential, commercial or mixed")
	}
	return validateRate("default_vat_rate", property.DefaultVATRate)
}

func (s *propertyService) Create(ctx context.Context, ownerID uuid.UUID, property *models.Property) error {
	if err := s.validate(property); err != nil {
		return err
	}
	property.ID = uuid.New()
	property.OwnerID = ownerID
	return s.propertyRepo.Create(ctx, property)
}

func (s *propertyService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Property, error) {
	return s.propertyRepo.GetByID(ctx, ownerID, id)
}

func (s *propertyService) Update(ctx context.Context, ownerID uuid.UUID, property *models.Property) error {
	if err := s.validate(property); err != nil {
		return err
	}
	property.OwnerID = ownerID
	return s.propertyRepo.Update(ctx, property)
}

func (s *propertyService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.propertyRepo.Delete(ctx, ownerID, id)
}

func (s *propertyService) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Property, error) {
	return s.propertyRepo.List(ctx, ownerID, limit, offset)
}

func (s *propertyService) Stats(ctx context.Context, ownerID, id uuid.UUID) (*models.PropertyStats, error) {
	return s.propertyRepo.Stats(ctx, ownerID, id)
}
