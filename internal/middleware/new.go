package middleware

import (
	"chronix/pkg/log"
)

type Middleware struct {
	l       log.Logger
	limiter *rateLimiter
}

// New creates the HTTP middleware set. syncRatePerMin bounds how often one
// client may trigger a sync; zero or less disables the limit.
func New(l log.Logger, syncRatePerMin int) Middleware {
	mw := Middleware{l: l}
	if syncRatePerMin > 0 {
		mw.limiter = newRateLimiter(syncRatePerMin)
	}
	return mw
}
