package auth

import (
	"fmt"
	"log/slog"

	"github.com/harborline/harborline/internal/utils"
)

type Config struct {
	Enabled     bool   `mapstructure:"enabled"`
	TokenIssuer string `mapstructure:"token_issuer"`
	TokenSecret string `mapstructure:"token_secret"`
}

func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("enabled", c.Enabled),
		slog.String("token_issuer", c.TokenIssuer),
		slog.String("token_secret", utils.MaskSecret(c.TokenSecret)),
	)
}

func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.TokenSecret == "" {
		return fmt.Errorf("auth `token_secret` is required when auth is enabled")
	}
	return nil
}
