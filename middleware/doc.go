// Package middleware adapts sessionauth.Engine to net/http middleware.
//
// # Guards
//
//   - [RequireSession]: path policy, credential presence (401) and session
//     resolution (403).
//   - [RequireStrict]: as RequireSession, and the user must exist in the directory.
//   - [ClientIP]: stores the caller's address for login throttling and audit.
//
// # What this package must NOT do
//
//   - Read or mint tokens itself. The engine picks the header or the cookie.
//   - Echo internal error detail to clients.
package middleware
