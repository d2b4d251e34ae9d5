package middleware

import (
	"context"
	"net/http"
	"time"

	"rentguy/internal/common"
	"rentguy/internal/services"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	tokenContextKey = "user"
	tokenExpiryKey  = "token_expires_at"
)

// RevocationChecker reports whether an access token id has been logged out.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// JWTMiddleware validates HS256 bearer tokens and puts the caller's identity
// on the request context. Revoked tokens are rejected.
func JWTMiddleware(jwtSecret string, revocations RevocationChecker, log logrus.FieldLogger) echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(jwtSecret),
		SigningMethod: echojwt.AlgorithmHS256,
		ContextKey:    tokenContextKey,
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return new(services.TokenClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, common.CreateErrorResponse("UNAUTHORIZED", "Invalid or missing token", nil))
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(withClaims(next, revocations, log))
	}
}

func withClaims(next echo.HandlerFunc, revocations RevocationChecker, log logrus.FieldLogger) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get(tokenContextKey).(*jwt.Token)
		if !ok {
			return common.SendUnauthorizedError(c)
		}
		claims, ok := token.Claims.(*services.TokenClaims)
		if !ok {
			return common.SendUnauthorizedError(c)
		}
		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			return common.SendUnauthorizedError(c)
		}

		ctx := c.Request().Context()
		if claims.ID != "" {
			revoked, err := revocations.IsRevoked(ctx, claims.ID)
			if err != nil {
				log.WithError(err).Error("Failed to check token revocation")
				return common.SendServerError(c, "Internal server error")
			}
			if revoked {
				return c.JSON(http.StatusUnauthorized, common.CreateErrorResponse("UNAUTHORIZED", "Token has been revoked", nil))
			}
		}

		ctx = context.WithValue(ctx, common.UserIDKey, userID)
		ctx = context.WithValue(ctx, common.EmailKey, claims.Email)
		ctx = context.WithValue(ctx, common.RolesKey, claims.Roles)
		ctx = context.WithValue(ctx, common.TokenIDKey, claims.ID)
		c.SetRequest(c.Request().WithContext(ctx))
		if claims.ExpiresAt != nil {
			c.Set(tokenExpiryKey, claims.ExpiresAt.Time)
		}
		return next(c)
	}
}

// TokenExpiry returns the expiry of the access token on the request, if any.
func TokenExpiry(c echo.Context) (time.Time, bool) {
	exp, ok := c.Get(tokenExpiryKey).(time.Time)
	return exp, ok
}
