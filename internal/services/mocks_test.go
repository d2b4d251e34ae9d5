package services

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"rentguy/internal/models"
	"rentguy/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.User), args.Error(1)
}

type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) Create(ctx context.Context, property *models.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Property, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) Update(ctx context.Context, property *models.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockPropertyRepository) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Property, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	return args.Get(0).([]*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) Stats(ctx context.Context, ownerID, id uuid.UUID) (*models.PropertyStats, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PropertyStats), args.Error(1)
}

type MockUnitRepository struct {
	mock.Mock
}

func (m *MockUnitRepository) Create(ctx context.Context, ownerID uuid.UUID, unit *models.Unit) error {
	args := m.Called(ctx, ownerID, unit)
	return args.Error(0)
}

func (m *MockUnitRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Unit, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Unit), args.Error(1)
}

func (m *MockUnitRepository) Update(ctx context.Context, ownerID uuid.UUID, unit *models.Unit) error {
	args := m.Called(ctx, ownerID, unit)
	return args.Error(0)
}

func (m *MockUnitRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockUnitRepository) ListByProperty(ctx context.Context, ownerID, propertyID uuid.UUID, limit, offset int) ([]*models.Unit, error) {
	args := m.Called(ctx, ownerID, propertyID, limit, offset)
	return args.Get(0).([]*models.Unit), args.Error(1)
}

func (m *MockUnitRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Unit, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	return args.Get(0).([]*models.Unit), args.Error(1)
}

type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) Create(ctx context.Context, tenant *models.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) EmailExists(ctx context.Context, ownerID uuid.UUID, email string) (bool, error) {
	args := m.Called(ctx, ownerID, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockTenantRepository) FindByPhone(ctx context.Context, phone string) (*models.Tenant, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) Update(ctx context.Context, tenant *models.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockTenantRepository) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Tenant, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	return args.Get(0).([]*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) GetScreening(ctx context.Context, ownerID, tenantID uuid.UUID) (*models.ScreeningResult, error) {
	args := m.Called(ctx, ownerID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScreeningResult), args.Error(1)
}

func (m *MockTenantRepository) CreateScreening(ctx context.Context, result *models.ScreeningResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockTenantRepository) CompleteScreening(ctx context.Context, ownerID, tenantID uuid.UUID, status models.ScreeningStatus, data json.RawMessage) (*models.ScreeningResult, error) {
	args := m.Called(ctx, ownerID, tenantID, status, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScreeningResult), args.Error(1)
}

type MockLeaseRepository struct {
	mock.Mock
}

func (m *MockLeaseRepository) Create(ctx context.Context, ownerID uuid.UUID, lease *models.Lease) error {
	args := m.Called(ctx, ownerID, lease)
	return args.Error(0)
}

func (m *MockLeaseRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Lease, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lease), args.Error(1)
}

func (m *MockLeaseRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Lease, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	return args.Get(0).([]*models.Lease), args.Error(1)
}

func (m *MockLeaseRepository) ListByUnit(ctx context.Context, ownerID, unitID uuid.UUID, limit, offset int) ([]*models.Lease, error) {
	args := m.Called(ctx, ownerID, unitID, limit, offset)
	return args.Get(0).([]*models.Lease), args.Error(1)
}

func (m *MockLeaseRepository) Sign(ctx context.Context, ownerID, id uuid.UUID) (*models.Lease, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lease), args.Error(1)
}

func (m *MockLeaseRepository) Terminate(ctx context.Context, ownerID, id uuid.UUID) (*models.Lease, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lease), args.Error(1)
}

func (m *MockLeaseRepository) ExpireEnded(ctx context.Context, today time.Time) (int64, error) {
	args := m.Called(ctx, today)
	return args.Get(0).(int64), args.Error(1)
}

type MockInvoiceRepository struct {
	mock.Mock
}

// CreateForLease runs derive against the billing returned by the expectation,
// mirroring what the repository does inside its transaction.
func (m *MockInvoiceRepository) CreateForLease(ctx context.Context, ownerID, leaseID uuid.UUID, derive repositories.InvoiceDeriver) (*models.Invoice, error) {
	args := m.Called(ctx, ownerID, leaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	inv, vat, err := derive(args.Get(0).(*models.LeaseBilling))
	if err != nil {
		return nil, err
	}
	inv.InvoiceNumber = models.FormatInvoiceNumber(inv.IssueDate, 1)
	if vat != nil {
		vat.InvoiceID = inv.ID
		inv.VATEntries = []*models.VATEntry{vat}
	}
	return inv, args.Error(1)
}

func (m *MockInvoiceRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Invoice, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) GetDocument(ctx context.Context, ownerID, id uuid.UUID) (*models.InvoiceDocument, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InvoiceDocument), args.Error(1)
}

func (m *MockInvoiceRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListByLease(ctx context.Context, leaseID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	args := m.Called(ctx, leaseID, limit, offset)
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Transition(ctx context.Context, ownerID, id uuid.UUID, from []models.InvoiceStatus, to models.InvoiceStatus) (*models.Invoice, error) {
	args := m.Called(ctx, ownerID, id, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) SetDocumentKey(ctx context.Context, ownerID, id uuid.UUID, key string) error {
	args := m.Called(ctx, ownerID, id, key)
	return args.Error(0)
}

func (m *MockInvoiceRepository) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	args := m.Called(ctx, today)
	return args.Get(0).(int64), args.Error(1)
}

type MockMaintenanceRepository struct {
	mock.Mock
}

func (m *MockMaintenanceRepository) CanReport(ctx context.Context, userID, unitID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, unitID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMaintenanceRepository) Create(ctx context.Context, request *models.MaintenanceRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockMaintenanceRepository) GetVisible(ctx context.Context, userID, id uuid.UUID) (*models.MaintenanceRequest, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaintenanceRequest), args.Error(1)
}

func (m *MockMaintenanceRepository) GetOwned(ctx context.Context, ownerID, id uuid.UUID) (*models.MaintenanceRequest, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaintenanceRequest), args.Error(1)
}

func (m *MockMaintenanceRepository) Assign(ctx context.Context, ownerID, id, assigneeID uuid.UUID) (*models.MaintenanceRequest, error) {
	args := m.Called(ctx, ownerID, id, assigneeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaintenanceRequest), args.Error(1)
}

func (m *MockMaintenanceRepository) Resolve(ctx context.Context, ownerID, id uuid.UUID, actualCost *string) (*models.MaintenanceRequest, error) {
	args := m.Called(ctx, ownerID, id, actualCost)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaintenanceRequest), args.Error(1)
}

func (m *MockMaintenanceRepository) Close(ctx context.Context, ownerID, id uuid.UUID) (*models.MaintenanceRequest, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaintenanceRequest), args.Error(1)
}

func (m *MockMaintenanceRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.MaintenanceRequest, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	return args.Get(0).([]*models.MaintenanceRequest), args.Error(1)
}

func (m *MockMaintenanceRepository) ListByReporter(ctx context.Context, reporterID uuid.UUID, limit, offset int) ([]*models.MaintenanceRequest, error) {
	args := m.Called(ctx, reporterID, limit, offset)
	return args.Get(0).([]*models.MaintenanceRequest), args.Error(1)
}

func (m *MockMaintenanceRepository) ListByReporterForOwner(ctx context.Context, ownerID, reporterID uuid.UUID, limit, offset int) ([]*models.MaintenanceRequest, error) {
	args := m.Called(ctx, ownerID, reporterID, limit, offset)
	return args.Get(0).([]*models.MaintenanceRequest), args.Error(1)
}

type MockWhatsAppMessageRepository struct {
	mock.Mock
}

func (m *MockWhatsAppMessageRepository) Save(ctx context.Context, msg *models.WhatsAppMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockWhatsAppMessageRepository) ListByTenant(ctx context.Context, ownerID, tenantID uuid.UUID, limit, offset int) ([]*models.WhatsAppMessage, error) {
	args := m.Called(ctx, ownerID, tenantID, limit, offset)
	return args.Get(0).([]*models.WhatsAppMessage), args.Error(1)
}

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) SaveRefreshToken(ctx context.Context, tokenHash string, userID uuid.UUID, ttl time.Duration) error {
	args := m.Called(ctx, tokenHash, userID, ttl)
	return args.Error(0)
}

func (m *MockSessionStore) ConsumeRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockSessionStore) RevokeAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockSessionStore) IsAccessTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessionStore) IsRateLimited(ctx context.Context, key string, limit int) (bool, error) {
	args := m.Called(ctx, key, limit)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessionStore) IncrementRateLimit(ctx context.Context, key string, window time.Duration) error {
	args := m.Called(ctx, key, window)
	return args.Error(0)
}

func (m *MockSessionStore) ResetRateLimit(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockSessionStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockGoogleVerifier struct {
	mock.Mock
}

func (m *MockGoogleVerifier) Verify(ctx context.Context, idToken string) (*GoogleIdentity, error) {
	args := m.Called(ctx, idToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*GoogleIdentity), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyTenant(ctx context.Context, n TenantNotice) {
	m.Called(ctx, n)
}

type MockMessenger struct {
	mock.Mock
}

func (m *MockMessenger) SendWhatsApp(ctx context.Context, to, body string) (string, error) {
	args := m.Called(ctx, to, body)
	return args.String(0), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendEmail(ctx context.Context, toName, toEmail, subject, body string) error {
	args := m.Called(ctx, toName, toEmail, subject, body)
	return args.Error(0)
}

type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Upload(ctx context.Context, objectName, contentType string, reader io.Reader, objectSize int64) error {
	args := m.Called(ctx, objectName, contentType, reader, objectSize)
	return args.Error(0)
}

func (m *MockDocumentStore) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDocumentStore) EnsureBucket(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockSignatureValidator struct {
	mock.Mock
}

func (m *MockSignatureValidator) Validate(url string, params map[string]string, expectedSignature string) bool {
	args := m.Called(url, params, expectedSignature)
	return args.Bool(0)
}
