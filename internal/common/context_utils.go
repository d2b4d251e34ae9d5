package common

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	UserIDKey  contextKey = "user_id"
	EmailKey   contextKey = "email"
	RolesKey   contextKey = "roles"
	TokenIDKey contextKey = "token_id"
)

const (
	DefaultPageLimit = 100
	MaxPageLimit     = 1000
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendServerError sends a server error response
func SendServerError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", message, nil))
}

// SendUnauthorizedError sends an unauthorized error response
func SendUnauthorizedError(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, CreateErrorResponse("UNAUTHORIZED", "Unauthorized access", nil))
}

// ParseIDParam reads a path parameter as a UUID.
func ParseIDParam(c echo.Context, name string) (uuid.UUID, error) {
	return ValidateUUID(c.Param(name), name)
}

// ValidateUUID validates UUID format
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", fieldName)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s must be a valid UUID", fieldName)
	}
	return id, nil
}

// ParsePagination reads skip/limit query parameters, applying defaults and caps.
func ParsePagination(c echo.Context) (limit, skip int, err error) {
	limit, skip = DefaultPageLimit, 0
	if v := c.QueryParam("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil {
			return 0, 0, fmt.Errorf("limit must be an integer")
		}
	}
	if v := c.QueryParam("skip"); v != "" {
		if skip, err = strconv.Atoi(v); err != nil {
			return 0, 0, fmt.Errorf("skip must be an integer")
		}
	}
	return ValidatePaginationParams(limit, skip)
}

// ValidatePaginationParams validates pagination parameters
func ValidatePaginationParams(limit, offset int) (int, int, error) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	if offset > 1000000 {
		return 0, 0, fmt.Errorf("skip cannot exceed 1,000,000")
	}
	return limit, offset, nil
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetRolesFromContext extracts the caller's roles from the request context
func GetRolesFromContext(ctx context.Context) []string {
	roles, _ := ctx.Value(RolesKey).([]string)
	return roles
}

// GetTokenIDFromContext extracts the access token id (jti) from the request context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	jti, ok := ctx.Value(TokenIDKey).(string)
	return jti, ok
}

// HasRole reports whether the caller carries the given role.
func HasRole(ctx context.Context, role string) bool {
	for _, r := range GetRolesFromContext(ctx) {
		if r == role {
			return true
		}
	}
	return false
}
