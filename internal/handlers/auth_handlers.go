package handlers

import (
	"net/http"

	"rentguy/internal/common"
	"rentguy/internal/middleware"
	"rentguy/internal/models"
	"rentguy/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// AuthHandlers handles sign-up, login and token lifecycle requests
type AuthHandlers struct {
	authService services.AuthService
	log         logrus.FieldLogger
}

func NewAuthHandlers(authService services.AuthService, log logrus.FieldLogger) *AuthHandlers {
	return &AuthHandlers{authService: authService, log: log}
}

type SignupRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	PhoneNumber *string `json:"phone_number"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// Signup registers a regular user account
func (h *AuthHandlers) Signup(c echo.Context) error {
	var req SignupRequest
	if err := bindRequest(c, &req); err != nil {
		return common.SendAppError(c, h.log, err)
	}

	user, err := h.authService.Signup(c.Request().Context(), services.SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.PhoneNumber,
		Role:      models.RoleUser,
	})
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, user)
}

// Login exchanges email and password for a token pair
func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindRequest(c, &req); err != nil {
		return common.SendAppError(c, h.log, err)
	}

	tokens, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, tokens)
}

func (h *AuthHandlers) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := bindRequest(c, &req); err != nil {
		return common.SendAppError(c, h.log, err)
	}

	tokens, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, tokens)
}

func (h *AuthHandlers) GoogleLogin(c echo.Context) error {
	var req GoogleLoginRequest
	if err := bindRequest(c, &req); err != nil {
		return common.SendAppError(c, h.log, err)
	}

	tokens, err := h.authService.GoogleLogin(c.Request().Context(), req.IDToken)
	if err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, tokens)
}

// Logout revokes the access token used for this request
func (h *AuthHandlers) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	tokenID, ok := common.GetTokenIDFromContext(ctx)
	expiresAt, hasExpiry := middleware.TokenExpiry(c)
	if !ok || !hasExpiry {
		return common.SendUnauthorizedError(c)
	}

	if err := h.authService.Logout(ctx, tokenID, expiresAt); err != nil {
		return common.SendAppError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
