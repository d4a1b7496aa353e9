// Package api mounts the session HTTP surface on a chi router.
//
// Every route below /api/v1 runs behind [middleware.RequireSession]; the
// engine's exclusion list decides which of them are public. Error bodies
// are always {"error": "..."} and never carry internal detail.
package api
