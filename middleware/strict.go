package middleware

import (
	"net/http"

	"github.com/MrEthical07/sessionauth"
)

// RequireStrict is RequireSession that also demands the user still exists
// in the engine's directory. An engine without a directory rejects every
// protected request.
func RequireStrict(engine *sessionauth.Engine) func(http.Handler) http.Handler {
	return guard(engine, modeStrict)
}
