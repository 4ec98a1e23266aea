package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		Enabled:     true,
		TokenIssuer: "harborline-test",
		TokenSecret: "test-secret",
	}
}

func signToken(t *testing.T, secret, issuer string, expiry time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   "admin@harborline.example",
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestValidateAccessToken(t *testing.T) {
	cfg := testConfig()
	svc := NewAuthService(cfg)

	token := signToken(t, cfg.TokenSecret, cfg.TokenIssuer, time.Minute)
	claims, err := svc.ValidateAccessToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "admin@harborline.example", claims.Subject)
}

func TestValidateAccessToken_Errors(t *testing.T) {
	cfg := testConfig()
	svc := NewAuthService(cfg)

	_, err := svc.ValidateAccessToken(context.Background(), "")
	assert.Error(t, err)

	// wrong secret
	_, err = svc.ValidateAccessToken(context.Background(),
		signToken(t, "other-secret", cfg.TokenIssuer, time.Minute))
	assert.Error(t, err)

	// wrong issuer
	_, err = svc.ValidateAccessToken(context.Background(),
		signToken(t, cfg.TokenSecret, "someone-else", time.Minute))
	assert.Error(t, err)

	// expired
	_, err = svc.ValidateAccessToken(context.Background(),
		signToken(t, cfg.TokenSecret, cfg.TokenIssuer, -time.Minute))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{Enabled: true}
	assert.Error(t, cfg.Validate())

	cfg.TokenSecret = "secret"
	assert.NoError(t, cfg.Validate())

	disabled := &Config{Enabled: false}
	assert.NoError(t, disabled.Validate())
}
