package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"rentguy/internal/common"
	"rentguy/internal/models"
	"rentguy/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type HandlersTestSuite struct {
	suite.Suite
	e       *echo.Echo
	log     logrus.FieldLogger
	ownerID uuid.UUID

	properties  *MockPropertyService
	tenants     *MockTenantService
	leases      *MockLeaseService
	invoices    *MockInvoiceService
	maintenance *MockMaintenanceService
	whatsapp    *MockWhatsAppService
}

func (s *HandlersTestSuite) SetupTest() {
	s.e = echo.New()
	s.e.Validator = NewRequestValidator()
	s.log, _ = test.NewNullLogger()
	s.ownerID = uuid.New()
	s.properties = new(MockPropertyService)
	s.tenants = new(MockTenantService)
	s.leases = new(MockLeaseService)
	s.invoices = new(MockInvoiceService)
	s.maintenance = new(MockMaintenanceService)
	s.whatsapp = new(MockWhatsAppService)
}

func (s *HandlersTestSuite) TearDownTest() {
	s.properties.AssertExpectations(s.T())
	s.tenants.AssertExpectations(s.T())
	s.leases.AssertExpectations(s.T())
	s.invoices.AssertExpectations(s.T())
	s.maintenance.AssertExpectations(s.T())
	s.whatsapp.AssertExpectations(s.T())
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

// request builds an authenticated echo context; params alternate name, value.
func (s *HandlersTestSuite) request(method, target, body string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	req = req.WithContext(context.WithValue(req.Context(), common.UserIDKey, s.ownerID))
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)
	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	if len(names) > 0 {
		c.SetParamValues(values...)
		c.SetParamNames(names...)
	}
	return c, rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) common.ErrorResponse {
	t.Helper()
	var resp common.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func (s *HandlersTestSuite) TestCreateProperty_Success() {
	h := NewPropertyHandlers(s.properties, s.log)
	body := `{"name":"Canal House","address_line1":"Keizersgracht 1","city":"Amsterdam","postal_code":"1015CJ","country_iso":"NL","default_vat_rate":"21"}`
	s.properties.On("Create", mock.Anything, s.ownerID, mock.MatchedBy(func(p *models.Property) bool {
		return p.Name == "Canal House" && p.DefaultVATRate.Equal(decimal.NewFromInt(21))
	})).Return(nil)

	c, rec := s.request(http.MethodPost, "/api/v1/properties", body)
	s.Require().NoError(h.CreateProperty(c))
	s.Equal(http.StatusCreated, rec.Code)
}

func (s *HandlersTestSuite) TestCreateProperty_MissingField() {
	h := NewPropertyHandlers(s.properties, s.log)

	c, rec := s.request(http.MethodPost, "/api/v1/properties", `{"name":"Canal House","city":"Amsterdam"}`)
	s.Require().NoError(h.CreateProperty(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("VALIDATION_ERROR", decodeError(s.T(), rec).Error.Code)
}

func (s *HandlersTestSuite) TestGetProperty_NotOwned() {
	h := NewPropertyHandlers(s.properties, s.log)
	id := uuid.New()
	s.properties.On("GetByID", mock.Anything, s.ownerID, id).Return(nil, common.NewNotFound("property"))

	c, rec := s.request(http.MethodGet, "/", "", "id", id.String())
	s.Require().NoError(h.GetProperty(c))
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlersTestSuite) TestGetProperty_BadID() {
	h := NewPropertyHandlers(s.properties, s.log)

	c, rec := s.request(http.MethodGet, "/", "", "id", "not-a-uuid")
	s.Require().NoError(h.GetProperty(c))
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlersTestSuite) TestUnauthenticatedCaller() {
	h := NewPropertyHandlers(s.properties, s.log)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/properties", nil)
	rec := httptest.NewRecorder()

	s.Require().NoError(h.ListProperties(s.e.NewContext(req, rec)))
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlersTestSuite) TestListProperties_EmptyRendersArray() {
	h := NewPropertyHandlers(s.properties, s.log)
	s.properties.On("List", mock.Anything, s.ownerID, 10, 5).Return([]*models.Property{}, nil)

	c, rec := s.request(http.MethodGet, "/api/v1/properties?limit=10&skip=5", "")
	s.Require().NoError(h.ListProperties(c))
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"properties":[],"limit":10,"skip":5}`, rec.Body.String())
}

func (s *HandlersTestSuite) TestCompleteScreening_RejectsPending() {
	h := NewTenantHandlers(s.tenants, s.log)

	c, rec := s.request(http.MethodPost, "/", `{"status":"pending"}`, "tenant_id", uuid.NewString())
	s.Require().NoError(h.CompleteScreening(c))
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlersTestSuite) TestCompleteScreening_Conflict() {
	h := NewTenantHandlers(s.tenants, s.log)
	tenantID := uuid.New()
	s.tenants.On("CompleteScreening", mock.Anything, s.ownerID, tenantID, models.ScreeningApproved, mock.Anything).
		Return(nil, common.NewStateConflict("screening already completed"))

	c, rec := s.request(http.MethodPost, "/", `{"status":"approved","result_data":{"score":700}}`, "tenant_id", tenantID.String())
	s.Require().NoError(h.CompleteScreening(c))
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("STATE_CONFLICT", decodeError(s.T(), rec).Error.Code)
}

func (s *HandlersTestSuite) TestRequestScreening_Accepted() {
	h := NewTenantHandlers(s.tenants, s.log)
	tenantID := uuid.New()
	result := &models.ScreeningResult{ID: uuid.New(), TenantID: tenantID, Status: models.ScreeningPending, RequestedAt: time.Now()}
	s.tenants.On("RequestScreening", mock.Anything, s.ownerID, tenantID, "").Return(result, nil)

	c, rec := s.request(http.MethodPost, "/", `{"tenant_id":"`+tenantID.String()+`"}`)
	s.Require().NoError(h.RequestScreening(c))
	s.Equal(http.StatusAccepted, rec.Code)

	var body map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("pending", body["status"])
	s.Equal(result.ID.String(), body["screening_id"])
}

func (s *HandlersTestSuite) TestCreateLease_BadDate() {
	h := NewLeaseHandlers(s.leases, s.log)
	body := `{"unit_id":"` + uuid.NewString() + `","tenant_id":"` + uuid.NewString() + `","lease_start_date":"01/03/2025","lease_end_date":"2026-02-28","rent_amount":"1000"}`

	c, rec := s.request(http.MethodPost, "/api/v1/leases", body)
	s.Require().NoError(h.CreateLease(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(decodeError(s.T(), rec).Error.Message, "lease_start_date")
}

func (s *HandlersTestSuite) TestCreateLease_Success() {
	h := NewLeaseHandlers(s.leases, s.log)
	unitID, tenantID := uuid.New(), uuid.New()
	body := `{"unit_id":"` + unitID.String() + `","tenant_id":"` + tenantID.String() + `","lease_start_date":"2025-03-01","lease_end_date":"2026-02-28","rent_amount":"1000","vat_rate":"20"}`
	s.leases.On("Create", mock.Anything, s.ownerID, mock.MatchedBy(func(l *models.Lease) bool {
		return l.UnitID == unitID && l.StartDate.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) &&
			l.RentAmount.Equal(decimal.NewFromInt(1000))
	})).Return(nil)

	c, rec := s.request(http.MethodPost, "/api/v1/leases", body)
	s.Require().NoError(h.CreateLease(c))
	s.Equal(http.StatusCreated, rec.Code)
}

func (s *HandlersTestSuite) TestListLeases_ByUnit() {
	h := NewLeaseHandlers(s.leases, s.log)
	unitID := uuid.New()
	s.leases.On("ListByUnit", mock.Anything, s.ownerID, unitID, 100, 0).Return([]*models.Lease{}, nil)

	c, rec := s.request(http.MethodGet, "/api/v1/leases?unit_id="+unitID.String(), "")
	s.Require().NoError(h.ListLeases(c))
	s.Equal(http.StatusOK, rec.Code)
}

func (s *HandlersTestSuite) TestSignLease_NotEligible() {
	h := NewLeaseHandlers(s.leases, s.log)
	id := uuid.New()
	s.leases.On("Sign", mock.Anything, s.ownerID, id).
		Return(nil, common.NewNotFoundMessage("lease not found or not eligible for signing"))

	c, rec := s.request(http.MethodPut, "/", "", "id", id.String())
	s.Require().NoError(h.SignLease(c))
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlersTestSuite) TestGenerateDocument() {
	h := NewInvoiceHandlers(s.invoices, s.log)
	id := uuid.New()
	s.invoices.On("RenderDocument", mock.Anything, s.ownerID, id).Return("https://files.example/inv.pdf", nil)

	c, rec := s.request(http.MethodPost, "/", "", "id", id.String())
	s.Require().NoError(h.GenerateDocument(c))
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"download_url":"https://files.example/inv.pdf"}`, rec.Body.String())
}

func (s *HandlersTestSuite) TestMarkPaid_InternalErrorIsGeneric() {
	h := NewInvoiceHandlers(s.invoices, s.log)
	id := uuid.New()
	s.invoices.On("MarkPaid", mock.Anything, s.ownerID, id).Return(nil, errors.New("connection reset"))

	c, rec := s.request(http.MethodPut, "/", "", "id", id.String())
	s.Require().NoError(h.MarkPaid(c))
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.NotContains(rec.Body.String(), "connection reset")
}

func (s *HandlersTestSuite) TestListInvoices_FlagsOverdue() {
	h := NewInvoiceHandlers(s.invoices, s.log)
	h.now = func() time.Time { return time.Date(2025, 3, 10, 1, 30, 0, 0, time.FixedZone("CEST", 2*60*60)) }
	pastDue := &models.Invoice{ID: uuid.New(), Status: models.InvoicePending, DueDate: time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)}
	dueToday := &models.Invoice{ID: uuid.New(), Status: models.InvoicePending, DueDate: time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)}
	s.invoices.On("ListByOwner", mock.Anything, s.ownerID, 100, 0).Return([]*models.Invoice{pastDue, dueToday}, nil)

	c, rec := s.request(http.MethodGet, "/api/v1/invoices", "")
	s.Require().NoError(h.ListInvoices(c))
	s.Equal(http.StatusOK, rec.Code)

	var resp struct {
		Invoices []struct {
			ID        uuid.UUID `json:"id"`
			Status    string    `json:"status"`
			IsOverdue bool      `json:"is_overdue"`
		} `json:"invoices"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Require().Len(resp.Invoices, 2)
	s.Equal(pastDue.ID, resp.Invoices[0].ID)
	s.Equal("pending", resp.Invoices[0].Status)
	s.True(resp.Invoices[0].IsOverdue)
	s.False(resp.Invoices[1].IsOverdue)
}

func (s *HandlersTestSuite) TestResolveMaintenance_WithCost() {
	h := NewMaintenanceHandlers(s.maintenance, s.log)
	id := uuid.New()
	resolved := &models.MaintenanceRequest{ID: id, Status: models.MaintenanceResolved, Priority: models.PriorityUrgent}
	s.maintenance.On("Resolve", mock.Anything, s.ownerID, id, mock.MatchedBy(func(cost *decimal.Decimal) bool {
		return cost != nil && cost.Equal(decimal.RequireFromString("125.50"))
	})).Return(resolved, nil)

	c, rec := s.request(http.MethodPut, "/", `{"actual_cost":"125.50"}`, "id", id.String())
	s.Require().NoError(h.ResolveRequest(c))
	s.Equal(http.StatusOK, rec.Code)

	var body map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal(false, body["is_overdue"])
}

func (s *HandlersTestSuite) TestResolveMaintenance_NoBody() {
	h := NewMaintenanceHandlers(s.maintenance, s.log)
	id := uuid.New()
	s.maintenance.On("Resolve", mock.Anything, s.ownerID, id, (*decimal.Decimal)(nil)).
		Return(&models.MaintenanceRequest{ID: id, Status: models.MaintenanceResolved}, nil)

	c, rec := s.request(http.MethodPut, "/", "", "id", id.String())
	s.Require().NoError(h.ResolveRequest(c))
	s.Equal(http.StatusOK, rec.Code)
}

func (s *HandlersTestSuite) TestCreateMaintenance_MarksOverdue() {
	h := NewMaintenanceHandlers(s.maintenance, s.log)
	h.now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }
	unitID := uuid.New()
	s.maintenance.On("Create", mock.Anything, s.ownerID, mock.AnythingOfType("*models.MaintenanceRequest")).
		Run(func(args mock.Arguments) {
			m := args.Get(2).(*models.MaintenanceRequest)
			m.Status = models.MaintenanceOpen
			m.ReportedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		}).Return(nil)

	body := `{"unit_id":"` + unitID.String() + `","title":"Leaking tap","description":"Kitchen tap drips","estimated_cost":"40"}`
	c, rec := s.request(http.MethodPost, "/api/v1/maintenance/requests", body)
	s.Require().NoError(h.CreateRequest(c))
	s.Equal(http.StatusCreated, rec.Code)

	var resp struct {
		EstimatedCost string `json:"estimated_cost"`
		IsOverdue     bool   `json:"is_overdue"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("40.00", resp.EstimatedCost)
	s.True(resp.IsOverdue)
}

func (s *HandlersTestSuite) TestListMaintenance_ByReporter() {
	h := NewMaintenanceHandlers(s.maintenance, s.log)
	reporterID := uuid.New()
	s.maintenance.On("List", mock.Anything, s.ownerID, &reporterID, 100, 0).Return([]*models.MaintenanceRequest{}, nil)

	c, rec := s.request(http.MethodGet, "/api/v1/maintenance/requests?reporter_id="+reporterID.String(), "")
	s.Require().NoError(h.ListRequests(c))
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"requests":[],"limit":100,"skip":0}`, rec.Body.String())
}

func (s *HandlersTestSuite) webhookRequest(form url.Values, signature string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/whatsapp/webhook", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	if signature != "" {
		req.Header.Set("X-Twilio-Signature", signature)
	}
	rec := httptest.NewRecorder()
	return s.e.NewContext(req, rec), rec
}

func (s *HandlersTestSuite) TestWebhook_BadSignature() {
	h := NewWhatsAppHandlers(s.whatsapp, s.log)
	form := url.Values{"MessageSid": {"SM1"}, "From": {"whatsapp:+31611111111"}, "Body": {"hi"}}
	s.whatsapp.On("VerifySignature", mock.Anything, "forged").Return(false)

	c, rec := s.webhookRequest(form, "forged")
	s.Require().NoError(h.ReceiveWebhook(c))
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *HandlersTestSuite) TestWebhook_Inbound() {
	h := NewWhatsAppHandlers(s.whatsapp, s.log)
	form := url.Values{"MessageSid": {"SM1"}, "From": {"whatsapp:+31611111111"}, "To": {"whatsapp:+14155238886"}, "Body": {"my rent"}}
	s.whatsapp.On("VerifySignature", map[string]string{
		"MessageSid": "SM1", "From": "whatsapp:+31611111111", "To": "whatsapp:+14155238886", "Body": "my rent",
	}, "sig").Return(true)
	s.whatsapp.On("HandleInbound", mock.Anything, services.InboundMessage{
		SID: "SM1", From: "whatsapp:+31611111111", To: "whatsapp:+14155238886", Body: "my rent",
	}).Return("Rent is due", nil)

	c, rec := s.webhookRequest(form, "sig")
	s.Require().NoError(h.ReceiveWebhook(c))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "<Response>")
}

func (s *HandlersTestSuite) TestSendWhatsApp_RequiresMessage() {
	h := NewWhatsAppHandlers(s.whatsapp, s.log)

	c, rec := s.request(http.MethodPost, "/api/v1/whatsapp/messages", `{"tenant_id":"`+uuid.NewString()+`"}`)
	s.Require().NoError(h.SendMessage(c))
	s.Equal(http.StatusBadRequest, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	e := echo.New()
	log, _ := test.NewNullLogger()

	tests := []struct {
		name       string
		checks     map[string]Pinger
		wantCode   int
		wantStatus string
	}{
		{
			name: "all healthy",
			checks: map[string]Pinger{
				"database": PingFunc(func(context.Context) error { return nil }),
				"redis":    PingFunc(func(context.Context) error { return nil }),
			},
			wantCode:   http.StatusOK,
			wantStatus: "healthy",
		},
		{
			name: "redis down",
			checks: map[string]Pinger{
				"database": PingFunc(func(context.Context) error { return nil }),
				"redis":    PingFunc(func(context.Context) error { return errors.New("dial tcp: refused") }),
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "degraded",
		},
		{
			name:       "nil checks skipped",
			checks:     map[string]Pinger{"storage": nil},
			wantCode:   http.StatusOK,
			wantStatus: "healthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandlers(tt.checks, "test", log)
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil), rec)

			require.NoError(t, h.HealthCheck(c))
			assert.Equal(t, tt.wantCode, rec.Code)

			var status HealthStatus
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
			assert.Equal(t, tt.wantStatus, status.Status)
			assert.NotContains(t, status.Services, "storage")
		})
	}
}
