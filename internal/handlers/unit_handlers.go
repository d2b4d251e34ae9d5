package handlers

import (
	"net/http"

	"rentguy/internal/common"
	"rentguy/internal/models"
	"rentguy/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type UnitHandlers struct {
	unitService services.UnitService
	log         logrus.FieldLogger
}

func NewUnitHandlers(unitService services.UnitService, log logrus.FieldLogger) *UnitHandlers {
	return &UnitHandlers{unitService: unitService, log: log}
}

// UnitRequest has no vacancy field; vacancy follows the lease lifecycle.
type UnitRequest struct {
	PropertyID    uuid.UUID        `json:"property_id" validate:"required"`
	UnitNumber    string           `json:"unit_number" validate:"required,max=50"`
	Floor         *int             `json:"floor"`
	Bedrooms      int              `json:"bedrooms" validate:"gte=0"`
	Bathrooms     int              `json:"bathrooms" validate:"gte=0"`
	SquareMeters  *decimal.Decimal `json:"square_meters"`
	CurrentRent   decimal.Decimal  `json:"current_rent"`
	CurrencyISO   string           `json:"currency_iso" validate:"omitempty,len=3"`
	DepositAmount decimal.Decimal  `json:"deposit_amount"`
}

func (r *UnitRequest) toModel() *models.Unit {
	return &models.Unit{
		PropertyID:    r.PropertyID,
		UnitNumber:    r.UnitNumber,
		Floor:         r.Floor,
		Bedrooms:      r.Bedrooms,
		Bathrooms:     r.Bathrooms,
		SquareMeters:  r.SquareMeters,
		CurrentRent:   r.CurrentRent,
		CurrencyISO:   r.CurrencyISO,
		DepositAmount: r.DepositAmount,
	}
}

// ListUnits lists units of one property when property_id is given, otherwise all of the caller's units
func (h *UnitHandlers) ListUnits(c echo.Context) error {
	ownerID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	limit, skip, err := pagination(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	propertyID, err := optionalQueryID(c, "property_id")
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}

	ctx := c.Request().Context()
	var units []*models.Unit
	if propertyID != nil {
		units, err = h.unitService.ListByProperty(ctx, ownerID, *propertyID, limit, skip)
	} else {
		units, err = h.unitService.ListByOwner(ctx, ownerID, limit, skip)
	}
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, listResponse("units", units, limit, skip))
}

func (h *UnitHandlers) CreateUnit(c echo.Context) error {
	ownerID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	var req UnitRequest
	if err := bindRequest(c, &req); err != nil {
		return common.SendAppError(c, h.log, err)
	}

	unit := req.toModel()
	if err := h.unitService.Create(c.Request().Context(), ownerID, unit); err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, unit)
}

func (h *UnitHandlers) GetUnit(c echo.Context) error {
	ownerID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}

	unit, err := h.unitService.GetByID(c.Request().Context(), ownerID, id)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, unit)
}

func (h *UnitHandlers) UpdateUnit(c echo.Context) error {
	ownerID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	var req UnitRequest
	if err := bindRequest(c, &req); err != nil {
		return common.SendAppError(c, h.log, err)
	}

	unit := req.toModel()
	unit.ID = id
	if err := h.unitService.Update(c.Request().Context(), ownerID, unit); err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, unit)
}

func (h *UnitHandlers) DeleteUnit(c echo.Context) error {
	ownerID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}

	if err := h.unitService.Delete(c.Request().Context(), ownerID, id); err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
