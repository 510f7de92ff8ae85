package ratelimit

import (
	"context"
	"time"

	"nanolez-eduai/internal/common/logger"
	"nanolez-eduai/internal/common/metrics"
)

// Limiter rejects a user's request when their previous accepted request was
// less than Window ago.
type Limiter struct {
	store  Store
	window time.Duration
	now    func() time.Time
	logger logger.Logger
}

func NewLimiter(store Store, window time.Duration, log logger.Logger) *Limiter {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Limiter{
		store:  store,
		window: window,
		now:    time.Now,
		logger: log,
	}
}

// Allow records the request and reports whether it may proceed. Store
// failures let the request through.
func (l *Limiter) Allow(ctx context.Context, userID string) bool {
	if l.window <= 0 {
		return true
	}

	ok, err := l.store.Acquire(ctx, userID, l.now(), l.window)
	if err != nil {
		l.logger.Warn("rate limit store unavailable", map[string]interface{}{
			"userId": userID,
			"error":  err,
		})
		return true
	}
	if !ok {
		metrics.RateLimitRejections.Inc()
	}
	return ok
}
