package sessionauth

import (
	"errors"
	"strings"
	"time"
)

// DefaultSessionName is the cookie that carries the session token when
// SESSION_NAME is unset.
const DefaultSessionName = "_my_session_id"

// AuthType selects the strategy the engine is built with.
type AuthType string

const (
	// AuthTypeSession keeps sessions in process memory with no expiry.
	AuthTypeSession AuthType = "session_auth"
	// AuthTypeExpiringSession adds a TTL to in-memory sessions.
	AuthTypeExpiringSession AuthType = "session_exp_auth"
	// AuthTypePersistentSession stores expiring sessions in a durable backend.
	AuthTypePersistentSession AuthType = "session_db_auth"
	// AuthTypeBearer issues stateless signed tokens read from the Authorization header.
	AuthTypeBearer AuthType = "bearer_auth"
)

// TTLPolicy decides how a non-positive session duration is read.
type TTLPolicy int

const (
	// TTLNeverExpires treats a duration <= 0 as "no expiration configured".
	TTLNeverExpires TTLPolicy = iota
	// TTLRejects treats a duration <= 0 as "every session is already expired".
	TTLRejects
)

// String returns the env spelling of p.
func (p TTLPolicy) String() string {
	switch p {
	case TTLNeverExpires:
		return "never_expires"
	case TTLRejects:
		return "reject"
	default:
		return "unknown"
	}
}

// Config defines the options the engine is built from.
//
// Config instances are intended to be configured during initialization and then treated as immutable.
type Config struct {
	AuthType AuthType
	Session  SessionConfig
	Paths    PathConfig
	Redis    RedisConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Password PasswordConfig
	Security SecurityConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls cookie naming and expiry.
//
// Duration is read once when the strategy is built. NonPositiveTTL decides
// what a Duration <= 0 means for the expiring and persistent strategies.
type SessionConfig struct {
	CookieName     string
	Duration       time.Duration
	NonPositiveTTL TTLPolicy
	CookieSecure   bool
}

// PathConfig lists request paths that skip authentication. See [RequireAuth].
type PathConfig struct {
	Excluded []string
}

/*
====================================
BACKEND CONFIG
====================================
*/

// RedisConfig is consumed by the CLI when wiring a Redis client.
type RedisConfig struct {
	Addr      string
	Prefix    string
	Retention time.Duration // key TTL in Redis, 0 keeps keys until destroyed
}

// DatabaseConfig is consumed by the CLI when wiring a SQL backend.
type DatabaseConfig struct {
	URL         string
	Dialect     string // "postgres" (default), "mysql", "sqlite"
	Table       string
	AutoMigrate bool
}

/*
====================================
TOKEN + PASSWORD CONFIG
====================================
*/

// JWTConfig configures the bearer strategy.
type JWTConfig struct {
	AccessTTL     time.Duration
	SigningMethod string // "hs256" (default) or "ed25519"
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
}

// PasswordConfig holds argon2id parameters for login verification and hashing.
type PasswordConfig struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

/*
====================================
SECURITY CONFIG
====================================
*/

// SecurityConfig controls login throttling. Throttling needs a Redis client.
type SecurityConfig struct {
	LoginThrottle         bool
	EnableIPThrottle      bool
	MaxLoginAttempts      int
	LoginCooldownDuration time.Duration
}

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		AuthType: AuthTypeSession,
		Session: SessionConfig{
			CookieName:     DefaultSessionName,
			Duration:       0,
			NonPositiveTTL: TTLNeverExpires,
		},
		Paths: PathConfig{
			Excluded: []string{
				"/api/v1/status/",
				"/api/v1/unauthorized/",
				"/api/v1/forbidden/",
				"/api/v1/auth_session/login/",
			},
		},
		Redis: RedisConfig{
			Prefix: "us",
		},
		Database: DatabaseConfig{
			Dialect:     "postgres",
			Table:       "user_sessions",
			AutoMigrate: true,
		},
		JWT: JWTConfig{
			AccessTTL:     15 * time.Minute,
			SigningMethod: "hs256",
			Issuer:        "sessionauth",
		},
		Password: PasswordConfig{
			Memory:      65536,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		Security: SecurityConfig{
			LoginThrottle:         false,
			EnableIPThrottle:      true,
			MaxLoginAttempts:      5,
			LoginCooldownDuration: 15 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Paths.Excluded = append([]string(nil), cfg.Paths.Excluded...)
	out.JWT.PrivateKey = cloneBytes(cfg.JWT.PrivateKey)
	out.JWT.PublicKey = cloneBytes(cfg.JWT.PublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Validate reports the first configuration error, if any.
func (c *Config) Validate() error {
	switch c.AuthType {
	case AuthTypeSession, AuthTypeExpiringSession, AuthTypePersistentSession, AuthTypeBearer:
	default:
		return errors.New("unsupported AuthType")
	}

	// Session
	if strings.TrimSpace(c.Session.CookieName) == "" {
		return errors.New("Session CookieName must not be empty")
	}
	if c.Session.NonPositiveTTL != TTLNeverExpires && c.Session.NonPositiveTTL != TTLRejects {
		return errors.New("Session NonPositiveTTL is not a known policy")
	}

	// JWT
	if c.AuthType == AuthTypeBearer {
		if c.JWT.AccessTTL <= 0 {
			return errors.New("JWT AccessTTL must be > 0")
		}
		switch c.JWT.SigningMethod {
		case "hs256":
			if len(c.JWT.PrivateKey) == 0 {
				return errors.New("hs256 requires PrivateKey")
			}
		case "ed25519":
			if len(c.JWT.PrivateKey) == 0 || len(c.JWT.PublicKey) == 0 {
				return errors.New("ed25519 requires PrivateKey and PublicKey")
			}
		default:
			return errors.New("unsupported JWT signing method")
		}
	}

	// Password
	if c.Password.Memory < 8*1024 {
		return errors.New("Password Memory must be >= 8192 KiB")
	}
	if c.Password.Time < 1 || c.Password.Parallelism < 1 {
		return errors.New("Password Time and Parallelism must be >= 1")
	}
	if c.Password.SaltLength < 16 || c.Password.KeyLength < 16 {
		return errors.New("Password SaltLength and KeyLength must be >= 16")
	}

	// Security
	if c.Security.LoginThrottle {
		if c.Security.MaxLoginAttempts <= 0 {
			return errors.New("Security MaxLoginAttempts must be > 0 when LoginThrottle is enabled")
		}
		if c.Security.LoginCooldownDuration <= 0 {
			return errors.New("Security LoginCooldownDuration must be > 0 when LoginThrottle is enabled")
		}
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}

	// Metrics
	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return errors.New("Metrics EnableLatencyHistograms requires Metrics Enabled")
	}

	return nil
}
