package services

import (
	"context"
	"encoding/json"
	"testing"

	"rentguy/internal/common"
	"rentguy/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type TenantServiceTestSuite struct {
	suite.Suite
	tenantRepo *MockTenantRepository
	notifier   *MockNotifier
	service    TenantService
	ownerID    uuid.UUID
	ctx        context.Context
}

func (s *TenantServiceTestSuite) SetupTest() {
	s.tenantRepo = new(MockTenantRepository)
	s.notifier = new(MockNotifier)
	s.service = NewTenantService(s.tenantRepo, s.notifier)
	s.ownerID = uuid.New()
	s.ctx = context.Background()
}

func (s *TenantServiceTestSuite) TestCreate_NormalizesAndStores() {
	nat := "nl"
	tenant := &models.Tenant{FirstName: "Ada", LastName: "Lovelace", Email: " Ada@Example.com ", NationalityISO: &nat}
	s.tenantRepo.On("EmailExists", s.ctx, s.ownerID, "ada@example.com").Return(false, nil)
	s.tenantRepo.On("Create", s.ctx, tenant).Return(nil)

	err := s.service.Create(s.ctx, s.ownerID, tenant)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), s.ownerID, tenant.OwnerID)
	assert.Equal(s.T(), "NL", *tenant.NationalityISO)
	assert.NotEqual(s.T(), uuid.Nil, tenant.ID)
}

func (s *TenantServiceTestSuite) TestCreate_DuplicateEmail() {
	tenant := &models.Tenant{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
	s.tenantRepo.On("EmailExists", s.ctx, s.ownerID, "ada@example.com").Return(true, nil)

	err := s.service.Create(s.ctx, s.ownerID, tenant)

	assert.Equal(s.T(), common.KindValidation, common.KindOf(err))
	assert.Equal(s.T(), "a tenant with this email already exists", err.Error())
	s.tenantRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *TenantServiceTestSuite) TestGetByID_IncludesScreening() {
	id := uuid.New()
	s.tenantRepo.On("GetByID", s.ctx, s.ownerID, id).Return(&models.Tenant{ID: id}, nil)
	s.tenantRepo.On("GetScreening", s.ctx, s.ownerID, id).
		Return(&models.ScreeningResult{TenantID: id, Status: models.ScreeningPending}, nil)

	tenant, err := s.service.GetByID(s.ctx, s.ownerID, id)

	require.NoError(s.T(), err)
	require.NotNil(s.T(), tenant.Screening)
	assert.Equal(s.T(), models.ScreeningPending, tenant.Screening.Status)
}

func (s *TenantServiceTestSuite) TestGetByID_WithoutScreening() {
	id := uuid.New()
	s.tenantRepo.On("GetByID", s.ctx, s.ownerID, id).Return(&models.Tenant{ID: id}, nil)
	s.tenantRepo.On("GetScreening", s.ctx, s.ownerID, id).Return(nil, common.NewNotFound("screening result"))

	tenant, err := s.service.GetByID(s.ctx, s.ownerID, id)

	require.NoError(s.T(), err)
	assert.Nil(s.T(), tenant.Screening)
}

func (s *TenantServiceTestSuite) TestRequestScreening_CreatesPending() {
	id := uuid.New()
	s.tenantRepo.On("GetByID", s.ctx, s.ownerID, id).Return(&models.Tenant{ID: id}, nil)
	s.tenantRepo.On("GetScreening", s.ctx, s.ownerID, id).Return(nil, common.NewNotFound("screening result"))
	s.tenantRepo.On("CreateScreening", s.ctx, mock.AnythingOfType("*models.ScreeningResult")).Return(nil)

	result, err := s.service.RequestScreening(s.ctx, s.ownerID, id, "")

	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.ScreeningPending, result.Status)
	assert.Equal(s.T(), "internal", result.Provider)
	assert.Equal(s.T(), id, result.TenantID)
}

func (s *TenantServiceTestSuite) TestRequestScreening_AlreadyRequested() {
	id := uuid.New()
	s.tenantRepo.On("GetByID", s.ctx, s.ownerID, id).Return(&models.Tenant{ID: id}, nil)
	s.tenantRepo.On("GetScreening", s.ctx, s.ownerID, id).
		Return(&models.ScreeningResult{Status: models.ScreeningApproved}, nil)

	_, err := s.service.RequestScreening(s.ctx, s.ownerID, id, "acme")

	assert.Equal(s.T(), common.KindValidation, common.KindOf(err))
	s.tenantRepo.AssertNotCalled(s.T(), "CreateScreening", mock.Anything, mock.Anything)
}

func (s *TenantServiceTestSuite) TestRequestScreening_ForeignTenant() {
	id := uuid.New()
	s.tenantRepo.On("GetByID", s.ctx, s.ownerID, id).Return(nil, common.NewNotFound("tenant"))

	_, err := s.service.RequestScreening(s.ctx, s.ownerID, id, "")

	assert.Equal(s.T(), common.KindNotFound, common.KindOf(err))
}

func (s *TenantServiceTestSuite) TestCompleteScreening_RejectsNonTerminalStatus() {
	_, err := s.service.CompleteScreening(s.ctx, s.ownerID, uuid.New(), models.ScreeningPending, nil)

	assert.Equal(s.T(), common.KindValidation, common.KindOf(err))
}

func (s *TenantServiceTestSuite) TestCompleteScreening_NotifiesTenant() {
	id := uuid.New()
	data := json.RawMessage(`{"score":712}`)
	s.tenantRepo.On("CompleteScreening", s.ctx, s.ownerID, id, models.ScreeningApproved, data).
		Return(&models.ScreeningResult{TenantID: id, Status: models.ScreeningApproved}, nil)
	s.tenantRepo.On("GetByID", s.ctx, s.ownerID, id).
		Return(&models.Tenant{ID: id, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}, nil)
	s.notifier.On("NotifyTenant", s.ctx, mock.MatchedBy(func(n TenantNotice) bool {
		return n.Email == "ada@example.com" && n.Name == "Ada Lovelace"
	})).Return()

	result, err := s.service.CompleteScreening(s.ctx, s.ownerID, id, models.ScreeningApproved, data)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.ScreeningApproved, result.Status)
	s.notifier.AssertExpectations(s.T())
}

func (s *TenantServiceTestSuite) TestCompleteScreening_AlreadyCompleted() {
	id := uuid.New()
	s.tenantRepo.On("CompleteScreening", s.ctx, s.ownerID, id, models.ScreeningDenied, json.RawMessage(nil)).
		Return(nil, common.NewStateConflict("screening is already approved"))

	_, err := s.service.CompleteScreening(s.ctx, s.ownerID, id, models.ScreeningDenied, nil)

	assert.Equal(s.T(), common.KindStateConflict, common.KindOf(err))
	s.notifier.AssertNotCalled(s.T(), "NotifyTenant", mock.Anything, mock.Anything)
}

func TestTenantServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TenantServiceTestSuite))
}
