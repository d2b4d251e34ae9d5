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

type LeaseHandlers struct {
	leaseService services.LeaseService
	log          logrus.FieldLogger
}

func NewLeaseHandlers(leaseService services.LeaseService, log logrus.FieldLogger) *LeaseHandlers {
	return &LeaseHandlers{leaseService: leaseService, log: log}
}

type CreateLeaseRequest struct {
	UnitID             uuid.UUID       `json:"unit_id" validate:"required"`
	TenantID           uuid.UUID       `json:"tenant_id" validate:"required"`
	StartDate          string          `json:"lease_start_date" validate:"required"`
	EndDate            string          `json:"lease_end_date" validate:"required"`
	RentAmount         decimal.Decimal `json:"rent_amount"`
	CurrencyISO        string          `json:"currency_iso" validate:"omitempty,len=3"`
	SecurityDeposit    decimal.Decimal `json:"security_deposit"`
	DepositCurrencyISO string          `json:"deposit_currency_iso" validate:"omitempty,len=3"`
	VATRate            decimal.Decimal `json:"vat_rate"`
}

func (h *LeaseHandlers) ListLeases(c echo.Context) error {
	ownerID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	limit, skip, err := pagination(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	unitID, err := optionalQueryID(c, "unit_id")
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}

	ctx := c.Request().Context()
	var leases []*models.Lease
	if unitID != nil {
		leases, err = h.leaseService.ListByUnit(ctx, ownerID, *unitID, limit, skip)
	} else {
		leases, err = h.leaseService.ListByOwner(ctx, ownerID, limit, skip)
	}
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, listResponse("leases", leases, limit, skip))
}

// CreateLease creates a pending_signature lease and marks the unit occupied
func (h *LeaseHandlers) CreateLease(c echo.Context) error {
	ownerID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	var req CreateLeaseRequest
	if err := bindRequest(c, &req); err != nil {
		return common.SendAppError(c, h.log, err)
	}
	start, err := parseDate("lease_start_date", req.StartDate)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	end, err := parseDate("lease_end_date", req.EndDate)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}

	lease := &models.Lease{
		UnitID:             req.UnitID,
		TenantID:           req.TenantID,
		StartDate:          start,
		EndDate:            end,
		RentAmount:         req.RentAmount,
		CurrencyISO:        req.CurrencyISO,
		SecurityDeposit:    req.SecurityDeposit,
		DepositCurrencyISO: req.DepositCurrencyISO,
		VATRate:            req.VATRate,
	}
	if err := h.leaseService.Create(c.Request().Context(), ownerID, lease); err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, lease)
}

func (h *LeaseHandlers) GetLease(c echo.Context) error {
	ownerID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}

	lease, err := h.leaseService.GetByID(c.Request().Context(), ownerID, id)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, lease)
}

func (h *LeaseHandlers) SignLease(c echo.Context) error {
	ownerID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}

	lease, err := h.leaseService.Sign(c.Request().Context(), ownerID, id)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, lease)
}

func (h *LeaseHandlers) TerminateLease(c echo.Context) error {
	ownerID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}

	lease, err := h.leaseService.Terminate(c.Request().Context(), ownerID, id)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, lease)
}
