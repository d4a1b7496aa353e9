package sessionauth

import "time"

// SecurityReport summarises the session posture an engine was built with.
type SecurityReport struct {
	Strategy         AuthType
	SessionTTL       time.Duration
	TTLPolicy        string
	SessionsExpire   bool
	Durable          bool
	Revocable        bool
	CookieName       string
	CookieSecure     bool
	SigningAlgorithm string
	Argon2           PasswordConfigReport
	LoginThrottle    bool
	AuditEnabled     bool
	ExcludedPaths    []string
}

type PasswordConfigReport struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

func (e *Engine) SecurityReport() SecurityReport {
	if e == nil {
		return SecurityReport{}
	}

	kind := e.strategy.Kind()
	report := SecurityReport{
		Strategy:     kind,
		TTLPolicy:    e.config.Session.NonPositiveTTL.String(),
		Durable:      kind == AuthTypePersistentSession,
		Revocable:    kind != AuthTypeBearer,
		CookieName:   e.config.Session.CookieName,
		CookieSecure: e.config.Session.CookieSecure,
		Argon2: PasswordConfigReport{
			Memory:      e.config.Password.Memory,
			Time:        e.config.Password.Time,
			Parallelism: e.config.Password.Parallelism,
			SaltLength:  e.config.Password.SaltLength,
			KeyLength:   e.config.Password.KeyLength,
		},
		LoginThrottle: e.limiter != nil,
		AuditEnabled:  e.audit != nil,
		ExcludedPaths: append([]string(nil), e.config.Paths.Excluded...),
	}

	switch kind {
	case AuthTypeExpiringSession, AuthTypePersistentSession:
		report.SessionTTL = e.config.Session.Duration
		report.SessionsExpire = e.config.Session.Duration > 0 || e.config.Session.NonPositiveTTL == TTLRejects
	case AuthTypeBearer:
		report.SessionTTL = e.config.JWT.AccessTTL
		report.SessionsExpire = true
		report.SigningAlgorithm = e.config.JWT.SigningMethod
		report.CookieName = ""
	}

	return report
}
