package handlers

import (
	"net/http"
	"time"

	"rentguy/internal/common"
	"rentguy/internal/models"
	"rentguy/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type MaintenanceHandlers struct {
	maintenanceService services.MaintenanceService
	log                logrus.FieldLogger
	now                func() time.Time
}

func NewMaintenanceHandlers(maintenanceService services.MaintenanceService, log logrus.FieldLogger) *MaintenanceHandlers {
	return &MaintenanceHandlers{maintenanceService: maintenanceService, log: log, now: time.Now}
}

type CreateMaintenanceRequest struct {
	UnitID        uuid.UUID                  `json:"unit_id" validate:"required"`
	Title         string                     `json:"title" validate:"required,max=200"`
	Description   string                     `json:"description" validate:"required"`
	Category      models.MaintenanceCategory `json:"category"`
	Priority      models.MaintenancePriority `json:"priority"`
	EstimatedCost *decimal.Decimal           `json:"estimated_cost"`
}

type AssignMaintenanceRequest struct {
	AssignedTo uuid.UUID `json:"assigned_to" validate:"required"`
}

type ResolveMaintenanceRequest struct {
	ActualCost *decimal.Decimal `json:"actual_cost"`
}

// MaintenanceResponse adds the derived overdue flag
type MaintenanceResponse struct {
	*models.MaintenanceRequest
	IsOverdue bool `json:"is_overdue"`
}

func (h *MaintenanceHandlers) present(m *models.MaintenanceRequest) MaintenanceResponse {
	return MaintenanceResponse{MaintenanceRequest: m, IsOverdue: m.IsOverdue(h.now())}
}

// ListRequests returns requests on the caller's properties, or by reporter when reporter_id is set
func (h *MaintenanceHandlers) ListRequests(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	limit, skip, err := pagination(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	reporterID, err := optionalQueryID(c, "reporter_id")
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}

	requests, err := h.maintenanceService.List(c.Request().Context(), userID, reporterID, limit, skip)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	out := make([]MaintenanceResponse, 0, len(requests))
	for _, m := range requests {
		out = append(out, h.present(m))
	}
	return c.JSON(http.StatusOK, listResponse("requests", out, limit, skip))
}

func (h *MaintenanceHandlers) CreateRequest(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	var req CreateMaintenanceRequest
	if err := bindRequest(c, &req); err != nil {
		return common.SendAppError(c, h.log, err)
	}

	m := &models.MaintenanceRequest{
		UnitID:      req.UnitID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
	}
	if req.EstimatedCost != nil {
		cost := req.EstimatedCost.StringFixed(2)
		m.EstimatedCost = &cost
	}
	if err := h.maintenanceService.Create(c.Request().Context(), userID, m); err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, h.present(m))
}

func (h *MaintenanceHandlers) GetRequest(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}

	m, err := h.maintenanceService.GetByID(c.Request().Context(), userID, id)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, h.present(m))
}

func (h *MaintenanceHandlers) AssignRequest(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	var req AssignMaintenanceRequest
	if err := bindRequest(c, &req); err != nil {
		return common.SendAppError(c, h.log, err)
	}

	m, err := h.maintenanceService.Assign(c.Request().Context(), userID, id, req.AssignedTo)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, h.present(m))
}

func (h *MaintenanceHandlers) ResolveRequest(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	var req ResolveMaintenanceRequest
	if c.Request().ContentLength != 0 {
		if err := bindRequest(c, &req); err != nil {
			return common.SendAppError(c, h.log, err)
		}
	}

	m, err := h.maintenanceService.Resolve(c.Request().Context(), userID, id, req.ActualCost)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, h.present(m))
}

func (h *MaintenanceHandlers) CloseRequest(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}

	m, err := h.maintenanceService.Close(c.Request().Context(), userID, id)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, h.present(m))
}
