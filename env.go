package sessionauth

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var sessionDurationPattern = regexp.MustCompile(`^[+-]?\d+$`)

// ParseSessionDuration reads a SESSION_DURATION value as whole seconds.
// Anything that is not an optionally signed integer yields 0.
func ParseSessionDuration(raw string) time.Duration {
	raw = strings.TrimSpace(raw)
	if !sessionDurationPattern.MatchString(raw) {
		return 0
	}
	seconds, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	const maxSeconds = int64(1<<63-1) / int64(time.Second)
	if seconds > maxSeconds {
		seconds = maxSeconds
	}
	if seconds < -maxSeconds {
		seconds = -maxSeconds
	}
	return time.Duration(seconds) * time.Second
}

// ConfigFromEnv overlays process environment variables on [DefaultConfig].
// Load a .env file first (the CLI uses godotenv) if one is wanted.
func ConfigFromEnv() (Config, error) {
	return configFromLookup(os.LookupEnv)
}

func configFromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := defaultConfig()

	if v, ok := lookup("AUTH_TYPE"); ok && strings.TrimSpace(v) != "" {
		cfg.AuthType = AuthType(strings.TrimSpace(v))
	}
	if v, ok := lookup("SESSION_NAME"); ok && v != "" {
		cfg.Session.CookieName = v
	}
	if v, ok := lookup("SESSION_DURATION"); ok {
		cfg.Session.Duration = ParseSessionDuration(v)
	}
	if v, ok := lookup("SESSION_TTL_POLICY"); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "never_expires":
			cfg.Session.NonPositiveTTL = TTLNeverExpires
		case "reject":
			cfg.Session.NonPositiveTTL = TTLRejects
		default:
			return Config{}, fmt.Errorf("SESSION_TTL_POLICY: unknown policy %q", v)
		}
	}
	if v, ok := lookup("SESSION_COOKIE_SECURE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("SESSION_COOKIE_SECURE: %w", err)
		}
		cfg.Session.CookieSecure = b
	}
	if v, ok := lookup("AUTH_EXCLUDED_PATHS"); ok {
		cfg.Paths.Excluded = splitList(v)
	}

	if v, ok := lookup("REDIS_ADDR"); ok {
		cfg.Redis.Addr = strings.TrimSpace(v)
	}
	if v, ok := lookup("REDIS_PREFIX"); ok && v != "" {
		cfg.Redis.Prefix = v
	}
	if v, ok := lookup("DATABASE_URL"); ok {
		cfg.Database.URL = strings.TrimSpace(v)
	}
	if v, ok := lookup("DATABASE_DIALECT"); ok && v != "" {
		cfg.Database.Dialect = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup("SESSION_TABLE"); ok && v != "" {
		cfg.Database.Table = v
	}

	if v, ok := lookup("JWT_SECRET"); ok && v != "" {
		cfg.JWT.PrivateKey = []byte(v)
	}
	if v, ok := lookup("JWT_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("JWT_TTL: %w", err)
		}
		cfg.JWT.AccessTTL = d
	}

	for _, flag := range []struct {
		name string
		dst  *bool
	}{
		{"METRICS_ENABLED", &cfg.Metrics.Enabled},
		{"METRICS_LATENCY", &cfg.Metrics.EnableLatencyHistograms},
		{"AUDIT_ENABLED", &cfg.Audit.Enabled},
		{"LOGIN_THROTTLE", &cfg.Security.LoginThrottle},
	} {
		v, ok := lookup(flag.name)
		if !ok || v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", flag.name, err)
		}
		*flag.dst = b
	}

	return cfg, nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
