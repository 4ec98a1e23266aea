package email

import (
	"fmt"
	"log/slog"

	"github.com/harborline/harborline/internal/utils"
)

type Config struct {
	Enabled        bool   `mapstructure:"enabled"`
	SendgridAPIKey string `mapstructure:"sendgrid_api_key"`
	FromName       string `mapstructure:"from_name"`
	FromEmail      string `mapstructure:"from_email"`
	// NotifyEmail receives a copy of every contact-form inquiry.
	NotifyEmail string `mapstructure:"notify_email"`
}

func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("enabled", c.Enabled),
		slog.String("sendgrid_api_key", utils.MaskSecret(c.SendgridAPIKey)),
		slog.String("from_email", c.FromEmail),
		slog.String("notify_email", c.NotifyEmail),
	)
}

func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.SendgridAPIKey == "" {
		return fmt.Errorf("sendgrid_api_key is required")
	}
	if err := utils.ValidateEmail(c.FromEmail); err != nil {
		return fmt.Errorf("from_email: %w", err)
	}
	if err := utils.ValidateEmail(c.NotifyEmail); err != nil {
		return fmt.Errorf("notify_email: %w", err)
	}
	return nil
}
