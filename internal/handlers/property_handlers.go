package handlers

import (
	"net/http"

	"rentguy/internal/common"
	"rentguy/internal/models"
	"rentguy/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// PropertyHandlers handles property requests. Every call is scoped to the caller.
type PropertyHandlers struct {
	propertyService services.PropertyService
	log             logrus.FieldLogger
}

func NewPropertyHandlers(propertyService services.PropertyService, log logrus.FieldLogger) *PropertyHandlers {
	return &PropertyHandlers{propertyService: propertyService, log: log}
}

type PropertyRequest struct {
	Name           string              `json:"name" validate:"required,max=200"`
	AddressLine1   string              `json:"address_line1" validate:"required"`
	AddressLine2   *string             `json:"address_line2"`
	City           string              `json:"city" validate:"required"`
	PostalCode     string              `json:"postal_code" validate:"required"`
	Region         *string             `json:"region"`
	CountryISO     string              `json:"country_iso" validate:"required,len=2"`
	PropertyType   models.PropertyType `json:"property_type" validate:"omitempty,oneof=residential commercial mixed"`
	DefaultVATRate decimal.Decimal     `json:"default_vat_rate"`
}

func (r *PropertyRequest) toModel() *models.Property {
	return &models.Property{
		Name:           r.Name,
		AddressLine1:   r.AddressLine1,
		AddressLine2:   r.AddressLine2,
		City:           r.City,
		PostalCode:     r.PostalCode,
		Region:         r.Region,
		CountryISO:     r.CountryISO,
		PropertyType:   r.PropertyType,
		DefaultVATRate: r.DefaultVATRate,
	}
}

func (h *PropertyHandlers) ListProperties(c echo.Context) error {
	ownerID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	limit, skip, err := pagination(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}

	properties, err := h.propertyService.List(c.Request().Context(), ownerID, limit, skip)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, listResponse("properties", properties, limit, skip))
}

func (h *PropertyHandlers) CreateProperty(c echo.Context) error {
	ownerID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	var req PropertyRequest
	if err := bindRequest(c, &req); err != nil {
		return common.SendAppError(c, h.log, err)
	}

	property := req.toModel()
	if err := h.propertyService.Create(c.Request().Context(), ownerID, property); err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, property)
}

func (h *PropertyHandlers) GetProperty(c echo.Context) error {
	ownerID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}

	property, err := h.propertyService.GetByID(c.Request().Context(), ownerID, id)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, property)
}

func (h *PropertyHandlers) UpdateProperty(c echo.Context) error {
	ownerID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	var req PropertyRequest
	if err := bindRequest(c, &req); err != nil {
		return common.SendAppError(c, h.log, err)
	}

	property := req.toModel()
	property.ID = id
	if err := h.propertyService.Update(c.Request().Context(), ownerID, property); err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, property)
}

func (h *PropertyHandlers) DeleteProperty(c echo.Context) error {
	ownerID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}

	if err := h.propertyService.Delete(c.Request().Context(), ownerID, id); err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetPropertyStats returns unit counts, vacancy rate and monthly rent roll
func (h *PropertyHandlers) GetPropertyStats(c echo.Context) error {
	ownerID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}

	stats, err := h.propertyService.Stats(c.Request().Context(), ownerID, id)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, stats)
}
