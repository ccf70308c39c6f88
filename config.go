package guardkit

import (
	"fmt"
	"time"

	"github.com/guardkit/guardkit/remember"
)

// Config defines guardkit's tunable behavior. Instances are configured during
// initialization and treated as immutable after [Builder.Build].
type Config struct {
	Remember RememberConfig
	Cookie   CookieConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

// RememberConfig controls the remember-me token subsystem.
type RememberConfig struct {
	// TokenAge is the lifetime of a minted or refreshed token, as a TTL
	// expression: Go duration syntax or a human-readable relative value
	// ("2 years", "30 days").
	TokenAge string
	// RotationGrace is the window after a token's last rotation during which
	// re-authentication re-issues the presented secret unchanged. Concurrent
	// requests inside the window all observe the same stored value instead of
	// racing to mint distinct secrets. Zero disables the window and rotates
	// on every remember-me authentication.
	RotationGrace time.Duration
}

// CookieConfig controls the attributes of issued remember-me cookies.
type CookieConfig struct {
	HTTPOnly bool
}

// AuditConfig controls lifecycle event dispatch.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		Remember: RememberConfig{
			TokenAge:      "2 years",
			RotationGrace: 60 * time.Second,
		},
		Cookie: CookieConfig{
			HTTPOnly: true,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate checks the configuration for values that would be unsafe or
// meaningless at runtime. Invalid TTL expressions are rejected here rather
// than surfacing later as login failures.
func (c Config) Validate() error {
	if _, err := remember.ParseTTL(c.Remember.TokenAge); err != nil {
		return fmt.Errorf("guardkit: Remember.TokenAge: %w", err)
	}
	if c.Remember.RotationGrace < 0 {
		return fmt.Errorf("guardkit: Remember.RotationGrace must not be negative")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	// All fields are value types; a shallow copy is a deep copy.
	return cfg
}
