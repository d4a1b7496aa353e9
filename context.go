package sessionauth

import "context"

type clientIPContextKey struct{}
type userIDContextKey struct{}
type userContextKey struct{}

// WithClientIP attaches the caller's IP address to ctx. The engine uses it
// for per-IP login throttling and audit events.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPContextKey{}, ip)
}

// WithUserID attaches the authenticated user id to ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey{}, userID)
}

// WithUser attaches the authenticated user record to ctx.
func WithUser(ctx context.Context, user UserRecord) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserIDFromContext returns the id stored by [WithUserID].
func UserIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(userIDContextKey{}).(string)
	return id, ok && id != ""
}

// UserFromContext returns the record stored by [WithUser].
func UserFromContext(ctx context.Context) (UserRecord, bool) {
	if ctx == nil {
		return UserRecord{}, false
	}
	user, ok := ctx.Value(userContextKey{}).(UserRecord)
	return user, ok
}

// ClientIPFromContext returns the address stored by [WithClientIP].
func ClientIPFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	ip, _ := ctx.Value(clientIPContextKey{}).(string)
	return ip
}
