package guardkit

import (
	"errors"

	"github.com/guardkit/guardkit/remember"
)

// Builder assembles a [Guardian]. A Builder is single-use: Build consumes it.
type Builder struct {
	config Config

	userProvider  UserProvider
	tokenProvider TokenProvider
	auditSink     AuditSink

	built bool
}

// New returns a Builder seeded with the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the builder's configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithUserProvider registers the user-lookup collaborator. Required.
func (b *Builder) WithUserProvider(up UserProvider) *Builder {
	b.userProvider = up
	return b
}

// WithTokenProvider registers the remember-me token persistence collaborator.
// Optional: without it, remember-me cookies are ignored during
// authentication and remember-login fails with [ErrTokenProviderRequired].
func (b *Builder) WithTokenProvider(tp TokenProvider) *Builder {
	b.tokenProvider = tp
	return b
}

// WithAuditSink registers the lifecycle event sink. Optional.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and constructs the [Guardian].
func (b *Builder) Build() (*Guardian, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.userProvider == nil {
		return nil, errors.New("user provider required")
	}

	tokenAge, err := remember.ParseTTL(cfg.Remember.TokenAge)
	if err != nil {
		return nil, err
	}

	g := &Guardian{
		config:        cfg,
		tokenAge:      tokenAge,
		userProvider:  b.userProvider,
		tokenProvider: b.tokenProvider,
		audit:         newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:       NewMetrics(cfg.Metrics),
	}

	b.built = true

	return g, nil
}
