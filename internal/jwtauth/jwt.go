// Package jwtauth validates bearer tokens and extracts the actor identity
// recorded on changelog entries. The service never issues end-user tokens in
// production; an upstream identity provider does. Issuing lives here for
// development and tests.
package jwtauth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "conforma/pkg/domain-errors"
	"conforma/pkg/requestcontext"
)

// Claims are the JWT claims this service understands.
type Claims struct {
	DisplayName string `json:"name"`
	jwt.RegisteredClaims
}

// JWTService handles JWT creation and validation.
type JWTService struct {
	signingKey []byte
	issuer     string
}

func NewJWTService(signingKey string, issuer string) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
	}
}

// GenerateToken issues an HS256 token for an actor. Development and test use.
func (s *JWTService) GenerateToken(actorID, displayName string, expiresIn time.Duration) (string, error) {
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		DisplayName: displayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actorID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})
	return newToken.SignedString(s.signingKey)
}

// ValidateToken checks signature and expiry and returns the actor identity.
func (s *JWTService) ValidateToken(tokenString string) (requestcontext.ActorIdentity, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return requestcontext.ActorIdentity{}, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return requestcontext.ActorIdentity{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if !parsed.Valid {
		return requestcontext.ActorIdentity{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return requestcontext.ActorIdentity{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	return requestcontext.ActorIdentity{
		ID:          claims.Subject,
		DisplayName: claims.DisplayName,
	}, nil
}
