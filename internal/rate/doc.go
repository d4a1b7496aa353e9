// Package rate throttles failed logins with Redis fixed-window counters.
//
// # Window semantics
//
// INCR plus EXPIRE on the first hit. Key prefixes:
//   - al:  login per identifier
//   - ali: login per IP
//
// # What this package must NOT do
//
//   - Decide what counts as a failed login. Callers do.
//   - Be imported outside the sessionauth module.
package rate
