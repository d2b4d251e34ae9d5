package middleware

import (
	"net/http"

	"rentguy/internal/common"
	"rentguy/internal/models"

	"github.com/labstack/echo/v4"
)

// RequireRole lets the request through when the caller holds any of roles.
func RequireRole(roles ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			if _, ok := common.GetUserIDFromContext(ctx); !ok {
				return common.SendUnauthorizedError(c)
			}
			for _, role := range roles {
				if common.HasRole(ctx, string(role)) {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, common.CreateErrorResponse("FORBIDDEN", "Insufficient permissions", nil))
		}
	}
}
