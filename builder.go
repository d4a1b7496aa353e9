package sessionauth

import (
	"errors"
	"log/slog"

	"github.com/MrEthical07/sessionauth/internal/rate"
	"github.com/MrEthical07/sessionauth/jwt"
	"github.com/MrEthical07/sessionauth/password"
	"github.com/MrEthical07/sessionauth/session"
	"github.com/redis/go-redis/v9"
	"github.com/thejerf/abtime"
	"go.opentelemetry.io/otel/trace"
)

// Builder assembles an [Engine]. A Builder is single-use.
type Builder struct {
	config Config
	logger *slog.Logger
	clock  abtime.AbstractTime

	backend session.Backend
	redis   redis.UniversalClient
	tracer  trace.TracerProvider

	users     UserDirectory
	auditSink AuditSink

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithLogger sets the engine logger. The default is slog.Default.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithClock sets the clock used for session timestamps and expiry.
func (b *Builder) WithClock(clock abtime.AbstractTime) *Builder {
	b.clock = clock
	return b
}

// WithBackend sets the durable store for [AuthTypePersistentSession].
func (b *Builder) WithBackend(backend session.Backend) *Builder {
	b.backend = backend
	return b
}

// WithRedis supplies the client used for login throttling. When no
// backend is set it also backs [AuthTypePersistentSession].
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithTracerProvider wraps the durable backend in OpenTelemetry spans.
func (b *Builder) WithTracerProvider(provider trace.TracerProvider) *Builder {
	b.tracer = provider
	return b
}

func (b *Builder) WithUserDirectory(users UserDirectory) *Builder {
	b.users = users
	return b
}

func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and composes the engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := b.clock
	if clock == nil {
		clock = abtime.NewRealTime()
	}

	// -------- STRATEGY --------
	strategy, err := b.buildStrategy(cfg, clock)
	if err != nil {
		return nil, err
	}

	// -------- PASSWORDS --------
	hasher, err := password.NewArgon2(password.Config{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	// -------- LOGIN THROTTLE --------
	var limiter *rate.Limiter
	if cfg.Security.LoginThrottle {
		if b.redis == nil {
			return nil, errors.New("LoginThrottle requires redis client")
		}
		limiter = rate.New(b.redis, rate.Config{
			EnableIPThrottle:      cfg.Security.EnableIPThrottle,
			MaxLoginAttempts:      cfg.Security.MaxLoginAttempts,
			LoginCooldownDuration: cfg.Security.LoginCooldownDuration,
		})
	}

	b.built = true

	engine := &Engine{
		config:   cfg,
		strategy: strategy,
		users:    b.users,
		hasher:   hasher,
		limiter:  limiter,
		audit:    newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:  NewMetrics(cfg.Metrics),
		logger:   logger,
		clock:    clock,
	}

	logger.Info("session engine ready",
		"strategy", strategy.Kind(),
		"ttl", cfg.Session.Duration,
		"ttl_policy", cfg.Session.NonPositiveTTL.String(),
		"excluded_paths", len(cfg.Paths.Excluded),
		"login_throttle", limiter != nil,
	)

	return engine, nil
}

func (b *Builder) buildStrategy(cfg Config, clock abtime.AbstractTime) (Strategy, error) {
	switch cfg.AuthType {
	case AuthTypeSession:
		return NewSessionAuth(clock), nil

	case AuthTypeExpiringSession:
		return NewExpiringSessionAuth(NewSessionAuth(clock), cfg.Session.Duration, cfg.Session.NonPositiveTTL), nil

	case AuthTypePersistentSession:
		backend := b.backend
		if backend == nil && b.redis != nil {
			backend = session.NewRedisBackend(b.redis, cfg.Redis.Prefix, cfg.Redis.Retention, clock)
		}
		if backend == nil {
			return nil, ErrBackendRequired
		}
		if b.tracer != nil {
			backend = session.WithTracing(backend, b.tracer)
		}
		expiring := NewExpiringSessionAuth(NewSessionAuth(clock), cfg.Session.Duration, cfg.Session.NonPositiveTTL)
		return NewPersistentSessionAuth(expiring, backend), nil

	case AuthTypeBearer:
		manager, err := jwt.NewManager(jwt.Config{
			AccessTTL:     cfg.JWT.AccessTTL,
			SigningMethod: jwt.SigningMethod(cfg.JWT.SigningMethod),
			PrivateKey:    cfg.JWT.PrivateKey,
			PublicKey:     cfg.JWT.PublicKey,
			Issuer:        cfg.JWT.Issuer,
			Now:           clock.Now,
		})
		if err != nil {
			return nil, err
		}
		return NewBearerAuth(manager), nil
	}

	return nil, errors.New("unsupported AuthType")
}
