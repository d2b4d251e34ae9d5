package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"rentguy/internal/common"
	"rentguy/internal/models"
	"rentguy/internal/repositories"

	"github.com/google/uuid"
)

const defaultScreeningProvider = "internal"

type TenantService interface {
	Create(ctx context.Context, ownerID uuid.UUID, tenant *models.Tenant) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Tenant, error)
	Update(ctx context.Context, ownerID uuid.UUID, tenant *models.Tenant) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Tenant, error)

	RequestScreening(ctx context.Context, ownerID, tenantID uuid.UUID, provider string) (*models.ScreeningResult, error)
	CompleteScreening(ctx context.Context, ownerID, tenantID uuid.UUID, status models.ScreeningStatus, data json.RawMessage) (*models.ScreeningResult, error)
	GetScreening(ctx context.Context, ownerID, tenantID uuid.UUID) (*models.ScreeningResult, error)
}

type tenantService struct {
	tenantRepo repositories.TenantRepository
	notifier   Notifier
}

func NewTenantService(tenantRepo repositories.TenantRepository, notifier Notifier) TenantService {
	return &tenantService{tenantRepo: tenantRepo, notifier: notifier}
}

func (s *tenantService) validate(tenant *models.Tenant) error {
	if err := validateRequired("first_name", tenant.FirstName); err != nil {
		return err
	}
	if err := validateRequired("last_name", tenant.LastName); err != nil {
		return err
	}
	tenant.Email = strings.ToLower(strings.TrimSpace(tenant.Email))
	if !strings.Contains(tenant.Email, "@") {
		return validationErr("email must be a valid email address")
	}
	if tenant.NationalityISO != nil {
		code := normalizeCode(*tenant.NationalityISO)
		if err := validateCountry("nationality_iso", code); err != nil {
			return err
		}
		tenant.NationalityISO = &code
	}
	return nil
}

func (s *tenantService) Create(ctx context.Context, ownerID uuid.UUID, tenant *models.Tenant) error {
	if err := s.validate(tenant); err != nil {
		return err
	}
	exists, err := s.tenantRepo.EmailExists(ctx, ownerID, tenant.Email)
	if err != nil {
		return err
	}
	if exists {
		return validationErr("a tenant with this email already exists")
	}
	tenant.ID = uuid.New()
	tenant.OwnerID = ownerID
	return s.tenantRepo.Create(ctx, tenant)
}

// GetByID attaches the screening result when one exists.
func (s *tenantService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	screening, err := s.tenantRepo.GetScreening(ctx, ownerID, id)
	switch {
	case err == nil:
		tenant.Screening = screening
	case !errors.Is(err, common.ErrNotFoundKind):
		return nil, err
	}
	return tenant, nil
}

func (s *tenantService) Update(ctx context.Context, ownerID uuid.UUID, tenant *models.Tenant) error {
	if err := s.validate(tenant); err != nil {
		return err
	}
	tenant.OwnerID = ownerID
	return s.tenantRepo.Update(ctx, tenant)
}

func (s *tenantService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.tenantRepo.Delete(ctx, ownerID, id)
}

func (s *tenantService) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Tenant, error) {
	return s.tenantRepo.List(ctx, ownerID, limit, offset)
}

func (s *tenantService) RequestScreening(ctx context.Context, ownerID, tenantID uuid.UUID, provider string) (*models.ScreeningResult, error) {
	if _, err := s.tenantRepo.GetByID(ctx, ownerID, tenantID); err != nil {
		return nil, err
	}
	if _, err := s.tenantRepo.GetScreening(ctx, ownerID, tenantID); err == nil {
		return nil, validationErr("screening already requested for this tenant")
	} else if !errors.Is(err, common.ErrNotFoundKind) {
		return nil, err
	}

	provider = strings.TrimSpace(provider)
	if provider == "" {
		provider = defaultScreeningProvider
	}
	result := &models.ScreeningResult{
		ID:       uuid.New(),
		TenantID: tenantID,
		Provider: provider,
		Status:   models.ScreeningPending,
	}
	if err := s.tenantRepo.CreateScreening(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *tenantService) CompleteScreening(ctx context.Context, ownerID, tenantID uuid.UUID, status models.ScreeningStatus, data json.RawMessage) (*models.ScreeningResult, error) {
	if status != models.ScreeningApproved && status != models.ScreeningDenied {
		return nil, validationErr("status must be approved or denied")
	}
	if len(data) > 0 && !json.Valid(data) {
		return nil, validationErr("result_data must be valid JSON")
	}
	if len(data) == 0 {
		data = nil
	}

	result, err := s.tenantRepo.CompleteScreening(ctx, ownerID, tenantID, status, data)
	if err != nil {
		return nil, err
	}

	if tenant, err := s.tenantRepo.GetByID(ctx, ownerID, tenantID); err == nil {
		s.notifier.NotifyTenant(ctx, TenantNotice{
			Name:    tenant.FullName(),
			Email:   tenant.Email,
			Subject: "Your tenant screening is complete",
			Body:    fmt.Sprintf("Hello %s,\n\nYour screening result is: %s.", tenant.FirstName, status),
		})
	}
	return result, nil
}

func (s *tenantService) GetScreening(ctx context.Context, ownerID, tenantID uuid.UUID) (*models.ScreeningResult, error) {
	return s.tenantRepo.GetScreening(ctx, ownerID, tenantID)
}
