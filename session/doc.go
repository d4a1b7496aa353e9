// Package session owns session records and the places they live.
//
// # Stores
//
// [MemoryRegistry] is the process-local map used by the plain and expiring
// strategies. [Backend] is the durable contract used by the persistent
// strategy; [RedisBackend] and [SQLBackend] implement it, and [WithTracing]
// decorates any backend with OpenTelemetry spans.
//
// # Binary encoding
//
// Redis values use a compact versioned binary layout ([Encode], [Decode]).
// New versions append fields and never reinterpret old ones.
//
// # What this package must NOT do
//
//   - Import sessionauth or jwt (no upward imports).
//   - Decide whether a record is expired. Expiry belongs to the strategies.
//   - Mint tokens.
package session
