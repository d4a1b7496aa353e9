// Package internal contains helpers private to sessionauth.
//
// # Sub-packages
//
//   - flows: login orchestration as a pure function over injected dependencies
//   - rate: Redis-backed fixed-window login throttling
//   - users: in-memory user directory used by the CLI and tests
//
// # What this package must NOT do
//
//   - Export types that appear in the public sessionauth API.
//   - Be imported by any package outside the sessionauth module.
package internal
