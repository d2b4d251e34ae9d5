package handlers

import (
	"net/http"

	"rentguy/internal/common"
	"rentguy/internal/models"
	"rentguy/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// UserHandlers handles profile and user administration requests
type UserHandlers struct {
	userService services.UserService
	log         logrus.FieldLogger
}

func NewUserHandlers(userService services.UserService, log logrus.FieldLogger) *UserHandlers {
	return &UserHandlers{userService: userService, log: log}
}

type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name" validate:"omitempty,max=100"`
	LastName    *string `json:"last_name" validate:"omitempty,max=100"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=32"`
	Password    *string `json:"password" validate:"omitempty,min=8"`
}

type CreateUserRequest struct {
	Email       string      `json:"email" validate:"required,email"`
	Password    string      `json:"password" validate:"required,min=8"`
	FirstName   *string     `json:"first_name"`
	LastName    *string     `json:"last_name"`
	PhoneNumber *string     `json:"phone_number"`
	Role        models.Role `json:"role" validate:"omitempty,oneof=user property_manager maintenance admin"`
	IsSuperuser bool        `json:"is_superuser"`
}

func (h *UserHandlers) GetMe(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	user, err := h.userService.GetMe(c.Request().Context(), userID)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandlers) UpdateMe(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	var req UpdateProfileRequest
	if err := bindRequest(c, &req); err != nil {
		return common.SendAppError(c, h.log, err)
	}

	user, err := h.userService.UpdateMe(c.Request().Context(), userID, services.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.PhoneNumber,
		Password:  req.Password,
	})
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, user)
}

// ListUsers is admin only
func (h *UserHandlers) ListUsers(c echo.Context) error {
	limit, skip, err := pagination(c)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	users, err := h.userService.List(c.Request().Context(), limit, skip)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, listResponse("users", users, limit, skip))
}

func (h *UserHandlers) GetUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	user, err := h.userService.GetByID(c.Request().Context(), id)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandlers) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := bindRequest(c, &req); err != nil {
		return common.SendAppError(c, h.log, err)
	}

	user, err := h.userService.Create(c.Request().Context(), services.SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.PhoneNumber,
		Role:      req.Role,
		Superuser: req.IsSuperuser,
	})
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, user)
}
