package internaldefs

import (
	"github.com/MrEthical07/sessionauth"
)

// CounterDef names one engine counter for exporters.
type CounterDef struct {
	ID   sessionauth.MetricID
	Name string
	Help string
}

// HistogramDef names one engine histogram for exporters.
type HistogramDef struct {
	ID   sessionauth.MetricID
	Name string
	Help string
}

// AuditDroppedName is the counter exported for [sessionauth.Engine.AuditDropped].
const AuditDroppedName = "sessionauth_audit_dropped_total"

// CounterDefs lists every exported counter in a stable order.
var CounterDefs = []CounterDef{
	{ID: sessionauth.MetricSessionCreated, Name: "sessionauth_session_created_total", Help: "Sessions created."},
	{ID: sessionauth.MetricSessionCreateRejected, Name: "sessionauth_session_create_rejected_total", Help: "Session creations that failed."},
	{ID: sessionauth.MetricSessionResolved, Name: "sessionauth_session_resolved_total", Help: "Tokens resolved to a user."},
	{ID: sessionauth.MetricSessionResolveMiss, Name: "sessionauth_session_resolve_miss_total", Help: "Lookups of unknown tokens."},
	{ID: sessionauth.MetricSessionExpired, Name: "sessionauth_session_expired_total", Help: "Lookups of expired sessions."},
	{ID: sessionauth.MetricBackendFault, Name: "sessionauth_backend_fault_total", Help: "Durable backend errors."},
	{ID: sessionauth.MetricSessionDestroyed, Name: "sessionauth_session_destroyed_total", Help: "Sessions destroyed."},
	{ID: sessionauth.MetricSessionDestroyMiss, Name: "sessionauth_session_destroy_miss_total", Help: "Destroy calls that found no session."},
	{ID: sessionauth.MetricAuthRequired, Name: "sessionauth_auth_required_total", Help: "Requests to paths that need authentication."},
	{ID: sessionauth.MetricAuthExempt, Name: "sessionauth_auth_exempt_total", Help: "Requests to excluded paths."},
	{ID: sessionauth.MetricLoginSuccess, Name: "sessionauth_login_success_total", Help: "Successful logins."},
	{ID: sessionauth.MetricLoginFailure, Name: "sessionauth_login_failure_total", Help: "Failed logins."},
	{ID: sessionauth.MetricLoginRateLimited, Name: "sessionauth_login_rate_limited_total", Help: "Logins denied by the throttle."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: sessionauth.MetricResolveLatency, Name: "sessionauth_resolve_latency_seconds", Help: "Session resolve latency."},
}

// HistogramUpperBounds are the finite bucket bounds in seconds. The engine
// keeps one extra +Inf bucket after them.
var HistogramUpperBounds = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5}

// HistogramBoundSuffix spells each bucket, +Inf included, for instrument names.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets copies raw into a fixed-size array, zero filling.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
