// Package sessionauth authenticates HTTP requests with opaque session
// tokens.
//
// Four strategies share the [Strategy] interface and are selected by
// [Config.AuthType]:
//
//   - session_auth: in-memory registry, sessions never expire.
//   - session_exp_auth: in-memory registry with a fixed lifetime.
//   - session_db_auth: expiring sessions kept in a [session.Backend].
//   - bearer_auth: signed stateless tokens read from the Authorization header.
//
// Session strategies read the token from a cookie (default "_my_session_id").
// Every failure to resolve or destroy a session matches [ErrSessionNotFound];
// backend faults additionally match [ErrBackendUnavailable].
//
// # Architecture boundaries
//
// sessionauth is the public surface: [Engine], [Builder], [Config] and the
// strategies. Token minting, the login flow and throttling live under
// internal/. Storage lives in the session package.
//
// # What this package must NOT do
//
//   - Sweep expired sessions in the background. Expiry is checked on read.
//   - Log or audit session tokens.
//   - Import a sub-package that re-imports sessionauth.
package sessionauth
