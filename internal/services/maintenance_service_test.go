package services

import (
	"context"
	"testing"

	"rentguy/internal/common"
	"rentguy/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MaintenanceServiceTestSuite struct {
	suite.Suite
	maintenanceRepo *MockMaintenanceRepository
	userRepo        *MockUserRepository
	service         MaintenanceService
	userID          uuid.UUID
	ctx             context.Context
}

func (s *MaintenanceServiceTestSuite) SetupTest() {
	s.maintenanceRepo = new(MockMaintenanceRepository)
	s.userRepo = new(MockUserRepository)
	logger, _ := test.NewNullLogger()
	s.service = NewMaintenanceService(s.maintenanceRepo, s.userRepo, logger)
	s.userID = uuid.New()
	s.ctx = context.Background()
}

func (s *MaintenanceServiceTestSuite) TestCreate_DefaultsAndOpens() {
	req := &models.MaintenanceRequest{UnitID: uuid.New(), Title: " Leaking tap ", Description: "Kitchen tap drips"}
	s.maintenanceRepo.On("CanReport", s.ctx, s.userID, req.UnitID).Return(true, nil)
	s.maintenanceRepo.On("Create", s.ctx, req).Return(nil)

	err := s.service.Create(s.ctx, s.userID, req)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Leaking tap", req.Title)
	assert.Equal(s.T(), models.CategoryOther, req.Category)
	assert.Equal(s.T(), models.PriorityNormal, req.Priority)
	assert.Equal(s.T(), models.MaintenanceOpen, req.Status)
	assert.Equal(s.T(), s.userID, req.ReportedBy)
}

func (s *MaintenanceServiceTestSuite) TestCreate_UnrelatedReporterSeesNotFound() {
	req := &models.MaintenanceRequest{UnitID: uuid.New(), Title: "Broken window", Description: "Cracked pane"}
	s.maintenanceRepo.On("CanReport", s.ctx, s.userID, req.UnitID).Return(false, nil)

	err := s.service.Create(s.ctx, s.userID, req)

	assert.Equal(s.T(), common.KindNotFound, common.KindOf(err))
	s.maintenanceRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *MaintenanceServiceTestSuite) TestCreate_InvalidPriority() {
	req := &models.MaintenanceRequest{UnitID: uuid.New(), Title: "Heating", Description: "No heat", Priority: "asap"}

	err := s.service.Create(s.ctx, s.userID, req)

	assert.Equal(s.T(), common.KindValidation, common.KindOf(err))
}

func (s *MaintenanceServiceTestSuite) TestAssign_ByNonOwnerIsNotFound() {
	id := uuid.New()
	s.maintenanceRepo.On("GetOwned", s.ctx, s.userID, id).Return(nil, common.NewNotFound("maintenance request"))

	_, err := s.service.Assign(s.ctx, s.userID, id, uuid.New())

	assert.Equal(s.T(), common.KindNotFound, common.KindOf(err))
	s.maintenanceRepo.AssertNotCalled(s.T(), "Assign", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *MaintenanceServiceTestSuite) TestAssign_Success() {
	id, assignee := uuid.New(), uuid.New()
	s.maintenanceRepo.On("GetOwned", s.ctx, s.userID, id).Return(&models.MaintenanceRequest{ID: id}, nil)
	s.userRepo.On("GetByID", s.ctx, assignee).Return(&models.User{ID: assignee, IsActive: true}, nil)
	s.maintenanceRepo.On("Assign", s.ctx, s.userID, id, assignee).
		Return(&models.MaintenanceRequest{ID: id, AssignedTo: &assignee, Status: models.MaintenanceInProgress}, nil)

	req, err := s.service.Assign(s.ctx, s.userID, id, assignee)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.MaintenanceInProgress, req.Status)
	assert.Equal(s.T(), assignee, *req.AssignedTo)
}

func (s *MaintenanceServiceTestSuite) TestResolve_FormatsCost() {
	id := uuid.New()
	cost := decimal.RequireFromString("149.5")
	s.maintenanceRepo.On("Resolve", s.ctx, s.userID, id, mock.MatchedBy(func(c *string) bool {
		return c != nil && *c == "149.50"
	})).Return(&models.MaintenanceRequest{ID: id, Status: models.MaintenanceResolved}, nil)

	req, err := s.service.Resolve(s.ctx, s.userID, id, &cost)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.MaintenanceResolved, req.Status)
}

func (s *MaintenanceServiceTestSuite) TestList_Routing() {
	other := uuid.New()
	s.maintenanceRepo.On("ListByOwner", s.ctx, s.userID, 100, 0).Return([]*models.MaintenanceRequest{}, nil).Once()
	s.maintenanceRepo.On("ListByReporter", s.ctx, s.userID, 100, 0).Return([]*models.MaintenanceRequest{}, nil).Once()
	s.maintenanceRepo.On("ListByReporterForOwner", s.ctx, s.userID, other, 100, 0).Return([]*models.MaintenanceRequest{}, nil).Once()

	_, err := s.service.List(s.ctx, s.userID, nil, 100, 0)
	require.NoError(s.T(), err)
	_, err = s.service.List(s.ctx, s.userID, &s.userID, 100, 0)
	require.NoError(s.T(), err)
	_, err = s.service.List(s.ctx, s.userID, &other, 100, 0)
	require.NoError(s.T(), err)

	s.maintenanceRepo.AssertExpectations(s.T())
}

func TestMaintenanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MaintenanceServiceTestSuite))
}
