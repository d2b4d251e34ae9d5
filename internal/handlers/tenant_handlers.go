package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"rentguy/internal/common"
	"rentguy/internal/models"
	"rentguy/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// TenantHandlers handles tenant records and screening
type TenantHandlers struct {
	tenantService services.TenantService
	log           logrus.FieldLogger
}

func NewTenantHandlers(tenantService services.TenantService, log logrus.FieldLogger) *TenantHandlers {
	return &TenantHandlers{tenantService: tenantService, log: log}
}

type TenantRequest struct {
	FirstName      string  `json:"first_name" validate:"required,max=100"`
	LastName       string  `json:"last_name" validate:"required,max=100"`
	Email          string  `json:"email" validate:"required,email"`
	PhoneNumber    *string `json:"phone_number" validate:"omitempty,e164"`
	DateOfBirth    *string `json:"date_of_birth"`
	NationalityISO *string `json:"nationality_iso" validate:"omitempty,len=2"`
}

func (r *TenantRequest) toModel() (*models.Tenant, error) {
	tenant := &models.Tenant{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		PhoneNumber:    r.PhoneNumber,
		NationalityISO: r.NationalityISO,
	}
	if r.DateOfBirth != nil && *r.DateOfBirth != "" {
		dob, err := parseDate("date_of_birth", *r.DateOfBirth)
		if err != nil {
			return nil, err
		}
		tenant.DateOfBirth = &dob
	}
	return tenant, nil
}

type ScreeningRequest struct {
	TenantID          uuid.UUID `json:"tenant_id" validate:"required"`
	ScreeningProvider string    `json:"screening_provider" validate:"omitempty,max=100"`
}

type CompleteScreeningRequest struct {
	Status     models.ScreeningStatus `json:"status" validate:"required,oneof=approved denied"`
	ResultData json.RawMessage        `json:"result_data"`
}

func (h *TenantHandlers) ListTenants(c echo.Context) error {
	ownerID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	limit, skip, err := pagination(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}

	tenants, err := h.tenantService.List(c.Request().Context(), ownerID, limit, skip)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, listResponse("tenants", tenants, limit, skip))
}

func (h *TenantHandlers) CreateTenant(c echo.Context) error {
	ownerID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	var req TenantRequest
	if err := bindRequest(c, &req); err != nil {
		return common.SendAppError(c, h.log, err)
	}
	tenant, err := req.toModel()
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}

	if err := h.tenantService.Create(c.Request().Context(), ownerID, tenant); err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, tenant)
}

// GetTenant includes the screening result when one exists
func (h *TenantHandlers) GetTenant(c echo.Context) error {
	ownerID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}

	tenant, err := h.tenantService.GetByID(c.Request().Context(), ownerID, id)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, tenant)
}

func (h *TenantHandlers) UpdateTenant(c echo.Context) error {
	ownerID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	var req TenantRequest
	if err := bindRequest(c, &req); err != nil {
		return common.SendAppError(c, h.log, err)
	}
	tenant, err := req.toModel()
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}

	tenant.ID = id
	if err := h.tenantService.Update(c.Request().Context(), ownerID, tenant); err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, tenant)
}

func (h *TenantHandlers) DeleteTenant(c echo.Context) error {
	ownerID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}

	if err := h.tenantService.Delete(c.Request().Context(), ownerID, id); err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RequestScreening opens a pending screening; the decision arrives later through CompleteScreening
func (h *TenantHandlers) RequestScreening(c echo.Context) error {
	ownerID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	var req ScreeningRequest
	if err := bindRequest(c, &req); err != nil {
		return common.SendAppError(c, h.log, err)
	}

	result, err := h.tenantService.RequestScreening(c.Request().Context(), ownerID, req.TenantID, req.ScreeningProvider)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusAccepted, map[string]any{
		"message":      "Screening requested",
		"screening_id": result.ID,
		"status":       result.Status,
		"requested_at": result.RequestedAt.Format(time.RFC3339),
	})
}

func (h *TenantHandlers) GetScreening(c echo.Context) error {
	ownerID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	tenantID, err := pathID(c, "tenant_id")
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}

	result, err := h.tenantService.GetScreening(c.Request().Context(), ownerID, tenantID)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *TenantHandlers) CompleteScreening(c echo.Context) error {
	ownerID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	tenantID, err := pathID(c, "tenant_id")
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	var req CompleteScreeningRequest
	if err := bindRequest(c, &req); err != nil {
		return common.SendAppError(c, h.log, err)
	}

	result, err := h.tenantService.CompleteScreening(c.Request().Context(), ownerID, tenantID, req.Status, req.ResultData)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, result)
}
