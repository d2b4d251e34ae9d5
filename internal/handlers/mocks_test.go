package handlers

import (
	"context"
	"encoding/json"

	"rentguy/internal/models"
	"rentguy/internal/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockPropertyService struct {
	mock.Mock
}

func (m *MockPropertyService) Create(ctx context.Context, ownerID uuid.UUID, property *models.Property) error {
	return m.Called(ctx, ownerID, property).Error(0)
}

func (m *MockPropertyService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Property, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) Update(ctx context.Context, ownerID uuid.UUID, property *models.Property) error {
	return m.Called(ctx, ownerID, property).Error(0)
}

func (m *MockPropertyService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

func (m *MockPropertyService) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Property, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	return args.Get(0).([]*models.Property), args.Error(1)
}

func (m *MockPropertyService) Stats(ctx context.Context, ownerID, id uuid.UUID) (*models.PropertyStats, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PropertyStats), args.Error(1)
}

type MockTenantService struct {
	mock.Mock
}

func (m *MockTenantService) Create(ctx context.Context, ownerID uuid.UUID, tenant *models.Tenant) error {
	return m.Called(ctx, ownerID, tenant).Error(0)
}

func (m *MockTenantService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantService) Update(ctx context.Context, ownerID uuid.UUID, tenant *models.Tenant) error {
	return m.Called(ctx, ownerID, tenant).Error(0)
}

func (m *MockTenantService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

func (m *MockTenantService) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Tenant, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	return args.Get(0).([]*models.Tenant), args.Error(1)
}

func (m *MockTenantService) RequestScreening(ctx context.Context, ownerID, tenantID uuid.UUID, provider string) (*models.ScreeningResult, error) {
	args := m.Called(ctx, ownerID, tenantID, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScreeningResult), args.Error(1)
}

func (m *MockTenantService) CompleteScreening(ctx context.Context, ownerID, tenantID uuid.UUID, status models.ScreeningStatus, data json.RawMessage) (*models.ScreeningResult, error) {
	args := m.Called(ctx, ownerID, tenantID, status, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScreeningResult), args.Error(1)
}

func (m *MockTenantService) GetScreening(ctx context.Context, ownerID, tenantID uuid.UUID) (*models.ScreeningResult, error) {
	args := m.Called(ctx, ownerID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScreeningResult), args.Error(1)
}

type MockLeaseService struct {
	mock.Mock
}

func (m *MockLeaseService) Create(ctx context.Context, ownerID uuid.UUID, lease *models.Lease) error {
	return m.Called(ctx, ownerID, lease).Error(0)
}

func (m *MockLeaseService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Lease, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lease), args.Error(1)
}

func (m *MockLeaseService) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Lease, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	return args.Get(0).([]*models.Lease), args.Error(1)
}

func (m *MockLeaseService) ListByUnit(ctx context.Context, ownerID, unitID uuid.UUID, limit, offset int) ([]*models.Lease, error) {
	args := m.Called(ctx, ownerID, unitID, limit, offset)
	return args.Get(0).([]*models.Lease), args.Error(1)
}

func (m *MockLeaseService) Sign(ctx context.Context, ownerID, id uuid.UUID) (*models.Lease, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lease), args.Error(1)
}

func (m *MockLeaseService) Terminate(ctx context.Context, ownerID, id uuid.UUID) (*models.Lease, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lease), args.Error(1)
}

type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) invoice(args mock.Arguments) (*models.Invoice, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceService) CreateForLease(ctx context.Context, ownerID, leaseID uuid.UUID) (*models.Invoice, error) {
	return m.invoice(m.Called(ctx, ownerID, leaseID))
}

func (m *MockInvoiceService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Invoice, error) {
	return m.invoice(m.Called(ctx, ownerID, id))
}

func (m *MockInvoiceService) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *MockInvoiceService) ListByLease(ctx context.Context, ownerID, leaseID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	args := m.Called(ctx, ownerID, leaseID, limit, offset)
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *MockInvoiceService) MarkPaid(ctx context.Context, ownerID, id uuid.UUID) (*models.Invoice, error) {
	return m.invoice(m.Called(ctx, ownerID, id))
}

func (m *MockInvoiceService) Cancel(ctx context.Context, ownerID, id uuid.UUID) (*models.Invoice, error) {
	return m.invoice(m.Called(ctx, ownerID, id))
}

func (m *MockInvoiceService) RenderDocument(ctx context.Context, ownerID, id uuid.UUID) (string, error) {
	args := m.Called(ctx, ownerID, id)
	return args.String(0), args.Error(1)
}

type MockMaintenanceService struct {
	mock.Mock
}

func (m *MockMaintenanceService) request(args mock.Arguments) (*models.MaintenanceRequest, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaintenanceRequest), args.Error(1)
}

func (m *MockMaintenanceService) Create(ctx context.Context, reporterID uuid.UUID, req *models.MaintenanceRequest) error {
	return m.Called(ctx, reporterID, req).Error(0)
}

func (m *MockMaintenanceService) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.MaintenanceRequest, error) {
	return m.request(m.Called(ctx, userID, id))
}

func (m *MockMaintenanceService) Assign(ctx context.Context, ownerID, id, assigneeID uuid.UUID) (*models.MaintenanceRequest, error) {
	return m.request(m.Called(ctx, ownerID, id, assigneeID))
}

func (m *MockMaintenanceService) Resolve(ctx context.Context, ownerID, id uuid.UUID, actualCost *decimal.Decimal) (*models.MaintenanceRequest, error) {
	return m.request(m.Called(ctx, ownerID, id, actualCost))
}

func (m *MockMaintenanceService) Close(ctx context.Context, ownerID, id uuid.UUID) (*models.MaintenanceRequest, error) {
	return m.request(m.Called(ctx, ownerID, id))
}

func (m *MockMaintenanceService) List(ctx context.Context, callerID uuid.UUID, reporterID *uuid.UUID, limit, offset int) ([]*models.MaintenanceRequest, error) {
	args := m.Called(ctx, callerID, reporterID, limit, offset)
	return args.Get(0).([]*models.MaintenanceRequest), args.Error(1)
}

type MockWhatsAppService struct {
	mock.Mock
}

func (m *MockWhatsAppService) VerifySignature(params map[string]string, signature string) bool {
	return m.Called(params, signature).Bool(0)
}

func (m *MockWhatsAppService) HandleInbound(ctx context.Context, msg services.InboundMessage) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

func (m *MockWhatsAppService) SendToTenant(ctx context.Context, ownerID, tenantID uuid.UUID, body string) (*models.WhatsAppMessage, error) {
	args := m.Called(ctx, ownerID, tenantID, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WhatsAppMessage), args.Error(1)
}

func (m *MockWhatsAppService) ListByTenant(ctx context.Context, ownerID, tenantID uuid.UUID, limit, offset int) ([]*models.WhatsAppMessage, error) {
	args := m.Called(ctx, ownerID, tenantID, limit, offset)
	return args.Get(0).([]*models.WhatsAppMessage), args.Error(1)
}
