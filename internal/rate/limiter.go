// Package rate implementa rate limiting de ventana fija para los endpoints
// públicos (verify/confirm/concern), keyed por IP.
package rate

import (
	"context"
	"time"
)

type Result struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}
