package ratelimiter

import "time"

// Limiter decides whether a client identified by key may make another request.
// When it may not, the returned duration says how long until it may retry.
type Limiter interface {
	Allow(key string) (bool, time.Duration)
}
