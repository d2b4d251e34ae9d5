package services

import (
	"context"
	"testing"
	"time"

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

type LeaseServiceTestSuite struct {
	suite.Suite
	leaseRepo  *MockLeaseRepository
	unitRepo   *MockUnitRepository
	tenantRepo *MockTenantRepository
	notifier   *MockNotifier
	service    LeaseService
	ownerID    uuid.UUID
	ctx        context.Context
}

func (s *LeaseServiceTestSuite) SetupTest() {
	s.leaseRepo = new(MockLeaseRepository)
	s.unitRepo = new(MockUnitRepository)
	s.tenantRepo = new(MockTenantRepository)
	s.notifier = new(MockNotifier)
	logger, _ := test.NewNullLogger()
	s.service = NewLeaseService(s.leaseRepo, s.unitRepo, s.tenantRepo, s.notifier, logger)
	s.ownerID = uuid.New()
	s.ctx = context.Background()
}

func validLease() *models.Lease {
	return &models.Lease{
		UnitID:          uuid.New(),
		TenantID:        uuid.New(),
		StartDate:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		RentAmount:      decimal.NewFromInt(1200),
		CurrencyISO:     "eur",
		SecurityDeposit: decimal.NewFromInt(2400),
		VATRate:         decimal.NewFromInt(21),
	}
}

func (s *LeaseServiceTestSuite) TestCreate_Success() {
	lease := validLease()
	s.leaseRepo.On("Create", s.ctx, s.ownerID, lease).Return(nil)

	err := s.service.Create(s.ctx, s.ownerID, lease)

	require.NoError(s.T(), err)
	assert.NotEqual(s.T(), uuid.Nil, lease.ID)
	assert.Equal(s.T(), "EUR", lease.CurrencyISO)
	assert.Equal(s.T(), "EUR", lease.DepositCurrencyISO)
	s.leaseRepo.AssertExpectations(s.T())
}

func (s *LeaseServiceTestSuite) TestCreate_ValidationFailures() {
	cases := map[string]func(l *models.Lease){
		"end before start": func(l *models.Lease) { l.EndDate = l.StartDate.AddDate(0, 0, -1) },
		"end equals start": func(l *models.Lease) { l.EndDate = l.StartDate },
		"zero rent":        func(l *models.Lease) { l.RentAmount = decimal.Zero },
		"negative deposit": func(l *models.Lease) { l.SecurityDeposit = decimal.NewFromInt(-1) },
		"vat above 100":    func(l *models.Lease) { l.VATRate = decimal.NewFromInt(101) },
		"bad currency":     func(l *models.Lease) { l.CurrencyISO = "EURO" },
	}
	for name, mutate := range cases {
		s.Run(name, func() {
			lease := validLease()
			mutate(lease)
			err := s.service.Create(s.ctx, s.ownerID, lease)
			assert.Equal(s.T(), common.KindValidation, common.KindOf(err))
		})
	}
	s.leaseRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything, mock.Anything)
}

func (s *LeaseServiceTestSuite) TestCreate_UnitNotVacant() {
	lease := validLease()
	s.leaseRepo.On("Create", s.ctx, s.ownerID, lease).Return(common.NewValidation("unit is not vacant"))

	err := s.service.Create(s.ctx, s.ownerID, lease)

	require.Error(s.T(), err)
	assert.Equal(s.T(), "unit is not vacant", err.Error())
}

func (s *LeaseServiceTestSuite) TestSign_NotifiesTenant() {
	phone := "+31612345678"
	lease := validLease()
	lease.ID = uuid.New()
	lease.Status = models.LeaseActive
	tenant := &models.Tenant{ID: lease.TenantID, FirstName: "Ada", LastName: "Lovelace", PhoneNumber: &phone}

	s.leaseRepo.On("Sign", s.ctx, s.ownerID, lease.ID).Return(lease, nil)
	s.tenantRepo.On("GetByID", s.ctx, s.ownerID, lease.TenantID).Return(tenant, nil)
	s.notifier.On("NotifyTenant", s.ctx, mock.MatchedBy(func(n TenantNotice) bool {
		return n.Phone != nil && *n.Phone == phone
	})).Return()

	signed, err := s.service.Sign(s.ctx, s.ownerID, lease.ID)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.LeaseActive, signed.Status)
	s.notifier.AssertExpectations(s.T())
}

func (s *LeaseServiceTestSuite) TestSign_NotEligible() {
	id := uuid.New()
	s.leaseRepo.On("Sign", s.ctx, s.ownerID, id).
		Return(nil, common.NewNotFoundMessage("lease not found or not eligible for signing"))

	_, err := s.service.Sign(s.ctx, s.ownerID, id)

	assert.Equal(s.T(), common.KindNotFound, common.KindOf(err))
	s.notifier.AssertNotCalled(s.T(), "NotifyTenant", mock.Anything, mock.Anything)
}

func (s *LeaseServiceTestSuite) TestListByUnit_UnitNotOwned() {
	unitID := uuid.New()
	s.unitRepo.On("GetByID", s.ctx, s.ownerID, unitID).Return(nil, common.NewNotFound("unit"))

	leases, err := s.service.ListByUnit(s.ctx, s.ownerID, unitID, 100, 0)

	assert.Nil(s.T(), leases)
	assert.Equal(s.T(), common.KindNotFound, common.KindOf(err))
}

func (s *LeaseServiceTestSuite) TestTerminate() {
	id := uuid.New()
	s.leaseRepo.On("Terminate", s.ctx, s.ownerID, id).
		Return(&models.Lease{ID: id, Status: models.LeaseTerminated}, nil)

	lease, err := s.service.Terminate(s.ctx, s.ownerID, id)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.LeaseTerminated, lease.Status)
}

func TestLeaseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LeaseServiceTestSuite))
}
