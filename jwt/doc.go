// Package jwt signs and verifies the stateless access tokens used by the
// bearer strategy. Tokens carry only a user id and a per-token id; there is
// no server-side record and no revocation.
package jwt
