package server

import (
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/harborline/harborline/internal/server/auth"
	"github.com/harborline/harborline/internal/server/email"
	"github.com/harborline/harborline/internal/server/geo"
	"github.com/harborline/harborline/internal/server/media"
	"github.com/harborline/harborline/internal/utils"
)

const (
	DefaultAddr          = "0.0.0.0:8080"
	DefaultMaxUploadSize = 50 << 20 // 50 MiB
	DefaultContactRate   = "5-M"    // five submissions per minute per client
)

type Config struct {
	HTTP    HTTPConfig    `mapstructure:"http"`
	DBPath  string        `mapstructure:"db_path"`
	Media   media.Config  `mapstructure:"media"`
	Email   email.Config  `mapstructure:"email"`
	Auth    auth.Config   `mapstructure:"auth"`
	Contact ContactConfig `mapstructure:"contact"`

	// Geocode is a fixed address table for the static resolver. External
	// lookup providers are wired in by the operator, not this config.
	Geocode map[string]geo.Coordinates `mapstructure:"geocode"`
}

type HTTPConfig struct {
	Addr     string `mapstructure:"addr"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
	// MaxUploadSize caps a single multipart file, in bytes.
	MaxUploadSize int64 `mapstructure:"max_upload_size"`
}

type ContactConfig struct {
	// RateLimit uses limiter's formatted notation, e.g. "5-M".
	RateLimit string `mapstructure:"rate_limit"`
}

func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultAddr
	}
	if c.HTTP.MaxUploadSize <= 0 {
		c.HTTP.MaxUploadSize = DefaultMaxUploadSize
	}
	if c.Contact.RateLimit == "" {
		c.Contact.RateLimit = DefaultContactRate
	}
	if c.DBPath == "" {
		return fmt.Errorf("`db_path` is required")
	}
	dbPath, err := utils.ResolvePath(c.DBPath)
	if err != nil {
		return fmt.Errorf("`db_path`: %w", err)
	}
	c.DBPath = dbPath
	if c.HTTP.CertFile != "" && !utils.FileExists(c.HTTP.CertFile) {
		return fmt.Errorf("`http.cert_file` %q does not exist", c.HTTP.CertFile)
	}
	if c.HTTP.KeyFile != "" && !utils.FileExists(c.HTTP.KeyFile) {
		return fmt.Errorf("`http.key_file` %q does not exist", c.HTTP.KeyFile)
	}
	if err := c.Media.Validate(); err != nil {
		return fmt.Errorf("media: %w", err)
	}
	if err := c.Email.Validate(); err != nil {
		return fmt.Errorf("email: %w", err)
	}
	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	return nil
}

func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("http.addr", c.HTTP.Addr),
		slog.Bool("http.tls", c.HTTP.CertFile != "" && c.HTTP.KeyFile != ""),
		slog.String("http.max_upload_size", humanize.IBytes(uint64(c.HTTP.MaxUploadSize))),
		slog.String("db_path", c.DBPath),
		slog.Any("media", c.Media),
		slog.Any("email", c.Email),
		slog.Any("auth", c.Auth),
		slog.String("contact.rate_limit", c.Contact.RateLimit),
	)
}
