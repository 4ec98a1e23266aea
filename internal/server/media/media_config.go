package media

import (
	"fmt"
	"log/slog"
)

// Policy controls how superseded and orphaned blobs are deleted.
type Policy string

const (
	// PolicyBestEffort retires blobs on a background queue; failures are
	// logged and never surfaced. This favors latency over storage cleanliness.
	PolicyBestEffort Policy = "best-effort"

	// PolicyStrict retires blobs synchronously and surfaces a lone cleanup
	// failure to the caller. A cleanup failure never masks a primary error.
	PolicyStrict Policy = "strict"
)

const defaultQueueSize = 64

type Config struct {
	CleanupPolicy    Policy `mapstructure:"cleanup_policy"`
	CleanupQueueSize int    `mapstructure:"cleanup_queue_size"`
}

func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("cleanup_policy", string(c.CleanupPolicy)),
		slog.Int("cleanup_queue_size", c.CleanupQueueSize),
	)
}

func (c *Config) Validate() error {
	switch c.CleanupPolicy {
	case "":
		c.CleanupPolicy = PolicyBestEffort
	case PolicyBestEffort, PolicyStrict:
	default:
		return fmt.Errorf("cleanup_policy must be %q or %q", PolicyBestEffort, PolicyStrict)
	}
	if c.CleanupQueueSize <= 0 {
		c.CleanupQueueSize = defaultQueueSize
	}
	return nil
}
