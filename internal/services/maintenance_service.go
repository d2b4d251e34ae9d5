package services

import (
	"context"
	"strings"

	"rentguy/internal/common"
	"rentguy/internal/models"
	"rentguy/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type MaintenanceService interface {
	Create(ctx context.Context, reporterID uuid.UUID, request *models.MaintenanceRequest) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.MaintenanceRequest, error)
	Assign(ctx context.Context, ownerID, id, assigneeID uuid.UUID) (*models.MaintenanceRequest, error)
	Resolve(ctx context.Context, ownerID, id uuid.UUID, actualCost *decimal.Decimal) (*models.MaintenanceRequest, error)
	Close(ctx context.Context, ownerID, id uuid.UUID) (*models.MaintenanceRequest, error)
	List(ctx context.Context, callerID uuid.UUID, reporterID *uuid.UUID, limit, offset int) ([]*models.MaintenanceRequest, error)
}

type maintenanceService struct {
	maintenanceRepo repositories.MaintenanceRepository
	userRepo        repositories.UserRepository
	log             logrus.FieldLogger
}

func NewMaintenanceService(
	maintenanceRepo repositories.MaintenanceRepository,
	userRepo repositories.UserRepository,
	log logrus.FieldLogger,
) MaintenanceService {
	return &maintenanceService{maintenanceRepo: maintenanceRepo, userRepo: userRepo, log: log}
}

func validCategory(c models.MaintenanceCategory) bool {
	switch c {
	case models.CategoryPlumbing, models.CategoryElectrical, models.CategoryHVAC, models.CategoryAppliances,
		models.CategoryCleaning, models.CategoryPainting, models.CategoryFlooring, models.CategoryWindows,
		models.CategoryDoors, models.CategoryOther:
		return true
	}
	return false
}

func validPriority(p models.MaintenancePriority) bool {
	switch p {
	case models.PriorityLow, models.PriorityNormal, models.PriorityHigh, models.PriorityUrgent:
		return true
	}
	return false
}

func (s *maintenanceService) validate(m *models.MaintenanceRequest) error {
	m.Title = strings.TrimSpace(m.Title)
	if err := validateRequired("title", m.Title); err != nil {
		return err
	}
	if len(m.Title) > 200 {
		return validationErr("title must be at most 200 characters")
	}
	if err := validateRequired("description", m.Description); err != nil {
		return err
	}
	if m.Category == "" {
		m.Category = models.CategoryOther
	}
	if !validCategory(m.Category) {
		return validationErr("category is not a known maintenance category")
	}
	if m.Priority == "" {
		m.Priority = models.PriorityNormal
	}
	if !validPriority(m.Priority) {
		return validationErr("priority must be low, normal, high or urgent")
	}
	if m.EstimatedCost != nil {
		cost, err := decimal.NewFromString(*m.EstimatedCost)
		if err != nil || cost.IsNegative() {
			return validationErr("estimated_cost must be a non-negative amount")
		}
	}
	return nil
}

// Create records a request from the property owner or from the tenant on an
// active lease for the unit. Anyone else gets NotFound on the unit.
func (s *maintenanceService) Create(ctx context.Context, reporterID uuid.UUID, m *models.MaintenanceRequest) error {
	if err := s.validate(m); err != nil {
		return err
	}
	ok, err := s.maintenanceRepo.CanReport(ctx, reporterID, m.UnitID)
	if err != nil {
		return err
	}
	if !ok {
		return common.NewNotFound("unit")
	}

	m.ID = uuid.New()
	m.ReportedBy = reporterID
	m.Status = models.MaintenanceOpen
	m.AssignedTo = nil
	if err := s.maintenanceRepo.Create(ctx, m); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"request_id": m.ID, "unit_id": m.UnitID, "priority": m.Priority}).
		Info("Maintenance request created")
	return nil
}

func (s *maintenanceService) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.MaintenanceRequest, error) {
	return s.maintenanceRepo.GetVisible(ctx, userID, id)
}

func (s *maintenanceService) Assign(ctx context.Context, ownerID, id, assigneeID uuid.UUID) (*models.MaintenanceRequest, error) {
	if _, err := s.maintenanceRepo.GetOwned(ctx, ownerID, id); err != nil {
		return nil, err
	}
	assignee, err := s.userRepo.GetByID(ctx, assigneeID)
	if err != nil {
		return nil, err
	}
	if !assignee.IsActive {
		return nil, validationErr("assignee is not an active user")
	}
	return s.maintenanceRepo.Assign(ctx, ownerID, id, assigneeID)
}

func (s *maintenanceService) Resolve(ctx context.Context, ownerID, id uuid.UUID, actualCost *decimal.Decimal) (*models.MaintenanceRequest, error) {
	var cost *string
	if actualCost != nil {
		if actualCost.IsNegative() {
			return nil, validationErr("actual_cost cannot be negative")
		}
		v := actualCost.StringFixed(2)
		cost = &v
	}
	return s.maintenanceRepo.Resolve(ctx, ownerID, id, cost)
}

func (s *maintenanceService) Close(ctx context.Context, ownerID, id uuid.UUID) (*models.MaintenanceRequest, error) {
	return s.maintenanceRepo.Close(ctx, ownerID, id)
}

// List returns every request on the caller's properties, the caller's own
// reports when reporterID is the caller, or another reporter's requests
// limited to the caller's properties.
func (s *maintenanceService) List(ctx context.Context, callerID uuid.UUID, reporterID *uuid.UUID, limit, offset int) ([]*models.MaintenanceRequest, error) {
	switch {
	case reporterID == nil:
		return s.maintenanceRepo.ListByOwner(ctx, callerID, limit, offset)
	case *reporterID == callerID:
		return s.maintenanceRepo.ListByReporter(ctx, callerID, limit, offset)
	default:
		return s.maintenanceRepo.ListByReporterForOwner(ctx, callerID, *reporterID, limit, offset)
	}
}
