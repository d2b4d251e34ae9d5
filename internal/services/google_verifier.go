package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// GoogleIdentity is the verified subset of a Google ID token.
type GoogleIdentity struct {
	Subject    string
	Email      string
	GivenName  *string
	FamilyName *string
}

type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleIdentity, error)
}

type googleClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	jwt.RegisteredClaims
}

type jwksGoogleVerifier struct {
	jwks     *keyfunc.JWKS
	clientID string
}

// NewGoogleVerifier fetches Google's signing keys and keeps them refreshed.
func NewGoogleVerifier(ctx context.Context, jwksURL, clientID string, log logrus.FieldLogger) (GoogleVerifier, error) {
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.WithError(err).Warn("Failed to refresh Google JWKS")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load google jwks: %w", err)
	}
	return &jwksGoogleVerifier{jwks: jwks, clientID: clientID}, nil
}

func (v *jwksGoogleVerifier) Verify(_ context.Context, idToken string) (*GoogleIdentity, error) {
	claims := &googleClaims{}
	_, err := jwt.ParseWithClaims(idToken, claims, v.jwks.Keyfunc,
		jwt.WithAudience(v.clientID),
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if claims.Issuer != "accounts.google.com" && claims.Issuer != "https://accounts.google.com" {
		return nil, fmt.Errorf("unexpected issuer %q", claims.Issuer)
	}
	if claims.Email == "" || !claims.EmailVerified {
		return nil, errors.New("google account email is not verified")
	}

	identity := &GoogleIdentity{Subject: claims.Subject, Email: strings.ToLower(claims.Email)}
	if claims.GivenName != "" {
		identity.GivenName = &claims.GivenName
	}
	if claims.FamilyName != "" {
		identity.FamilyName = &claims.FamilyName
	}
	return identity, nil
}
