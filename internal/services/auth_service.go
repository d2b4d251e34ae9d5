package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"rentguy/internal/common"
	"rentguy/internal/models"
	"rentguy/internal/repositories"
	"rentguy/internal/sessions"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer      = "rentguy-auth"
	loginAttemptMax  = 5
	loginLockoutTime = 15 * time.Minute
)

// AuthService issues and revokes tokens for every login flow.
type AuthService interface {
	Signup(ctx context.Context, req SignupInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.TokenResponse, error)
	GoogleLogin(ctx context.Context, idToken string) (*models.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenResponse, error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	GenerateTokens(ctx context.Context, user *models.User) (*models.TokenResponse, error)
}

// TokenClaims is the access token payload.
type TokenClaims struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

type SignupInput struct {
	Email     string
	Password  string
	FirstName *string
	LastName  *string
	Phone     *string
	Role      models.Role
	Superuser bool
}

type authService struct {
	users      repositories.UserRepository
	store      sessions.Store
	google     GoogleVerifier
	jwtSecret  []byte
	tokenTTL   time.Duration
	refreshTTL time.Duration
	log        logrus.FieldLogger
}

// NewAuthService wires the auth flows. google may be nil when Google sign-in
// is not configured.
func NewAuthService(users repositories.UserRepository, store sessions.Store, google GoogleVerifier,
	jwtSecret string, tokenTTL, refreshTTL time.Duration, log logrus.FieldLogger) AuthService {
	return &authService{
		users:      users,
		store:      store,
		google:     google,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTL,
		refreshTTL: refreshTTL,
		log:        log,
	}
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *authService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	if len(in.Password) < 8 {
		return nil, common.NewValidation("password must be at least 8 characters")
	}
	if in.Role == "" {
		in.Role = models.RoleUser
	}
	if !in.Role.Valid() {
		return nil, common.NewValidation("invalid role %q", in.Role)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PhoneNumber:  in.Phone,
		Role:         in.Role,
		IsActive:     true,
		IsSuperuser:  in.Superuser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	limitKey := "login:" + email

	limited, err := s.store.IsRateLimited(ctx, limitKey, loginAttemptMax)
	if err != nil {
		s.log.WithError(err).Warn("Rate limit check failed, allowing login attempt")
	} else if limited {
		return nil, common.NewUnauthorized("too many failed login attempts, try again later")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, common.ErrNotFoundKind) {
		return nil, err
	}
	if user == nil || !CheckPassword(user.PasswordHash, password) {
		if incErr := s.store.IncrementRateLimit(ctx, limitKey, loginLockoutTime); incErr != nil {
			s.log.WithError(incErr).Warn("Failed to record login attempt")
		}
		return nil, common.NewUnauthorized("incorrect email or password")
	}
	if !user.IsActive {
		return nil, common.NewUnauthorized("inactive user")
	}

	if err := s.store.ResetRateLimit(ctx, limitKey); err != nil {
		s.log.WithError(err).Warn("Failed to reset login attempts")
	}
	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Warn("Failed to update last login")
	}
	return s.GenerateTokens(ctx, user)
}

// GoogleLogin signs in with a Google ID token, creating the user on first use.
func (s *authService) GoogleLogin(ctx context.Context, idToken string) (*models.TokenResponse, error) {
	if s.google == nil {
		return nil, common.NewValidation("google sign-in is not enabled")
	}

	identity, err := s.google.Verify(ctx, idToken)
	if err != nil {
		s.log.WithError(err).Info("Rejected google id token")
		return nil, common.NewUnauthorized("invalid google token")
	}

	user, err := s.users.GetByEmail(ctx, identity.Email)
	switch {
	case err == nil:
	case errors.Is(err, common.ErrNotFoundKind):
		// Google users never log in with a password; store an unusable random one.
		hash, hashErr := HashPassword(randomToken())
		if hashErr != nil {
			return nil, hashErr
		}
		user = &models.User{
			ID:           uuid.New(),
			Email:        identity.Email,
			PasswordHash: hash,
			FirstName:    identity.GivenName,
			LastName:     identity.FamilyName,
			Role:         models.RoleUser,
			IsActive:     true,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if !user.IsActive {
		return nil, common.NewUnauthorized("inactive user")
	}
	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Warn("Failed to update last login")
	}
	return s.GenerateTokens(ctx, user)
}

func (s *authService) GenerateTokens(ctx context.Context, user *models.User) (*models.TokenResponse, error) {
	now := time.Now()
	tokenID := uuid.NewString()

	claims := TokenClaims{
		Email: user.Email,
		Roles: user.Roles(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        tokenID,
		},
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT: %w", err)
	}

	refreshToken := randomToken()
	if err := s.store.SaveRefreshToken(ctx, hashToken(refreshToken), user.ID, s.refreshTTL); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &models.TokenResponse{
		AccessToken:  accessToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.tokenTTL.Seconds()),
		RefreshToken: refreshToken,
		UserID:       user.ID.String(),
		TokenID:      tokenID,
		IssuedAt:     now,
	}, nil
}

// Refresh exchanges a refresh token for a new pair. Refresh tokens are single use.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	userID, err := s.store.ConsumeRefreshToken(ctx, hashToken(refreshToken))
	if err != nil {
		if errors.Is(err, sessions.ErrTokenNotFound) {
			return nil, common.NewUnauthorized("invalid refresh token")
		}
		return nil, fmt.Errorf("failed to read refresh token: %w", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFoundKind) {
			return nil, common.NewUnauthorized("invalid refresh token")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, common.NewUnauthorized("inactive user")
	}
	return s.GenerateTokens(ctx, user)
}

func (s *authService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if err := s.store.RevokeAccessToken(ctx, tokenID, time.Until(expiresAt)); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *authService) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return s.store.IsAccessTokenRevoked(ctx, tokenID)
}

func randomToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
