package ai

import (
	"context"
	"strings"
	"time"

	"nanolez-eduai/internal/common/logger"
	"nanolez-eduai/internal/common/metrics"
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// DefaultRetryDelays is the reference schedule: attempt 0 waits 1s, attempt 1 waits 2s.
var DefaultRetryDelays = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

// RetryController drives the attempts against a single provider.
type RetryController struct {
	MaxRetries int
	// Delays[i] is slept after failed attempt i. The last entry is reused
	// when the schedule is shorter than the attempt budget.
	Delays []time.Duration
	Sleep  SleepFunc
	// AttemptTimeout bounds a single provider call. Zero leaves the bound to
	// the caller's context and the HTTP client.
	AttemptTimeout time.Duration
	logger         logger.Logger
}

func NewRetryController(maxRetries int, delays []time.Duration, log logger.Logger) *RetryController {
	if maxRetries < 1 {
		maxRetries = 1
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &RetryController{
		MaxRetries: maxRetries,
		Delays:     delays,
		Sleep:      sleepContext,
		logger:     log,
	}
}

func (rc *RetryController) delay(attempt int) time.Duration {
	if len(rc.Delays) == 0 {
		return 0
	}
	if attempt < len(rc.Delays) {
		return rc.Delays[attempt]
	}
	return rc.Delays[len(rc.Delays)-1]
}

func (rc *RetryController) attempt(ctx context.Context, p Provider, req Request) Result {
	if rc.AttemptTimeout <= 0 {
		return p.Adapter.Complete(ctx, req)
	}
	actx, cancel := context.WithTimeout(ctx, rc.AttemptTimeout)
	defer cancel()
	return p.Adapter.Complete(actx, req)
}

func (rc *RetryController) budget(p Provider) int {
	if p.MaxRetries > 0 {
		return p.MaxRetries
	}
	return rc.MaxRetries
}

// Budget is the longest Run can take for p when every attempt uses its
// full AttemptTimeout. It is zero when attempts are unbounded.
func (rc *RetryController) Budget(p Provider) time.Duration {
	if rc.AttemptTimeout <= 0 {
		return 0
	}
	n := rc.budget(p)
	total := time.Duration(n) * rc.AttemptTimeout
	for attempt := 0; attempt < n-1; attempt++ {
		total += rc.delay(attempt)
	}
	return total
}

// attemptLog is the per-provider record kept for diagnostics.
type attemptLog struct {
	Attempts int
	Last     Result
}

// Run calls p until it yields text or the attempt budget is spent. A
// misconfigured provider is given up on immediately. The returned error is
// non-nil only when ctx ended.
func (rc *RetryController) Run(ctx context.Context, p Provider, req Request) (attemptLog, error) {
	budget := rc.budget(p)
	sleep := rc.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var log attemptLog
	for attempt := 0; attempt < budget; attempt++ {
		if err := ctx.Err(); err != nil {
			return log, err
		}

		start := time.Now()
		res := rc.attempt(ctx, p, req)
		if res.OK() && strings.TrimSpace(res.Text) == "" {
			res = empty("blank text")
		}
		metrics.ProviderCallDuration.WithLabelValues(p.Name).Observe(time.Since(start).Seconds())
		metrics.ProviderAttempts.WithLabelValues(p.Name, res.Outcome.String()).Inc()

		// The caller's deadline ended during this attempt.
		if err := ctx.Err(); err != nil && !res.OK() {
			log.Attempts++
			log.Last = res
			return log, err
		}

		if res.Outcome == OutcomeMisconfigured {
			rc.logger.Warn("provider skipped", map[string]interface{}{
				"provider": p.Name,
				"error":    res.Err,
			})
			log.Last = res
			return log, nil
		}

		log.Attempts++
		log.Last = res
		if res.OK() {
			return log, nil
		}

		rc.logger.Warn("provider attempt failed", map[string]interface{}{
			"provider":   p.Name,
			"attempt":    attempt + 1,
			"outcome":    res.Outcome.String(),
			"statusCode": res.StatusCode,
			"error":      res.Err,
		})

		if attempt < budget-1 {
			if err := sleep(ctx, rc.delay(attempt)); err != nil {
				return log, err
			}
		}
	}
	return log, nil
}
