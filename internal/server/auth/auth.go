// Package auth validates the bearer tokens that gate the admin surface.
// Tokens are issued out of band by the operator's identity layer; this
// service only verifies signature, expiry and issuer.
package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

type AuthService struct {
	config *Config
}

func NewAuthService(config *Config) *AuthService {
	return &AuthService{config: config}
}

func (s *AuthService) IsEnabled() bool {
	return s.config.Enabled
}

// ValidateAccessToken checks the token's HMAC signature and standard claims
// and returns them. The subject identifies the admin user.
func (s *AuthService) ValidateAccessToken(_ context.Context, accessToken string) (*jwt.RegisteredClaims, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("invalid access token")
	}

	claims, err := ParseClaims(accessToken, s.config.TokenSecret, s.config.TokenIssuer)
	if err != nil {
		return nil, fmt.Errorf("invalid access token: %w", err)
	}
	return claims, nil
}

// ParseClaims verifies tokenString against the shared HS256 secret. When
// issuer is non-empty the token's iss claim must match it.
func ParseClaims(tokenString, jwtSecret, issuer string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(jwtSecret), nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
