package ai

import (
	"context"
	"fmt"
	"time"

	"nanolez-eduai/internal/common/logger"
	"nanolez-eduai/internal/common/metrics"
)

// ProviderAttempts records how many calls one provider received during a
// failed sequence.
type ProviderAttempts struct {
	Provider      string
	Attempts      int
	Misconfigured bool
}

// ExhaustedError is returned by Sequencer.Call once every provider has failed.
type ExhaustedError struct {
	Providers []ProviderAttempts
	// LastErr is the last failure observed, kept for diagnostics.
	LastErr error
}

func (e *ExhaustedError) Error() string {
	if e.LastErr == nil {
		return ErrAllProvidersExhausted.Error()
	}
	return fmt.Sprintf("%s: last error: %v", ErrAllProvidersExhausted, e.LastErr)
}

func (e *ExhaustedError) Unwrap() []error {
	if e.LastErr == nil {
		return []error{ErrAllProvidersExhausted}
	}
	return []error{ErrAllProvidersExhausted, e.LastErr}
}

// AllMisconfigured reports whether no provider had a credential.
func (e *ExhaustedError) AllMisconfigured() bool {
	if len(e.Providers) == 0 {
		return false
	}
	for _, p := range e.Providers {
		if !p.Misconfigured {
			return false
		}
	}
	return true
}

// Sequencer walks an ordered provider list and returns the first non-empty
// completion.
type Sequencer struct {
	providers []Provider
	retry     *RetryController
	logger    logger.Logger
}

func NewSequencer(providers []Provider, retry *RetryController, log logger.Logger) *Sequencer {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if retry == nil {
		retry = NewRetryController(3, DefaultRetryDelays, log)
	}
	return &Sequencer{
		providers: append([]Provider(nil), providers...),
		retry:     retry,
		logger:    log,
	}
}

// Providers returns the names of the configured providers in call order.
func (s *Sequencer) Providers() []string {
	names := make([]string, len(s.providers))
	for i, p := range s.providers {
		names[i] = p.Name
	}
	return names
}

// Budget is the worst-case duration of Call: every provider spends its
// whole attempt budget. Callers size their deadlines from it so a hanging
// provider cannot starve the ones after it. Zero means unbounded.
func (s *Sequencer) Budget() time.Duration {
	var total time.Duration
	for _, p := range s.providers {
		b := s.retry.Budget(p)
		if b == 0 {
			return 0
		}
		total += b
	}
	return total
}

// Call never returns blank text with a nil error.
func (s *Sequencer) Call(ctx context.Context, req Request) (string, error) {
	exhausted := &ExhaustedError{}

	for _, p := range s.providers {
		log, err := s.retry.Run(ctx, p, req)
		if err != nil {
			return "", fmt.Errorf("ai call on %s interrupted: %w", p.Name, err)
		}
		if log.Last.OK() {
			if len(exhausted.Providers) > 0 {
				s.logger.Info("fallback provider answered", map[string]interface{}{
					"provider": p.Name,
					"skipped":  len(exhausted.Providers),
				})
			}
			return log.Last.Text, nil
		}

		exhausted.Providers = append(exhausted.Providers, ProviderAttempts{
			Provider:      p.Name,
			Attempts:      log.Attempts,
			Misconfigured: log.Last.Outcome == OutcomeMisconfigured,
		})
		if log.Last.Err != nil {
			exhausted.LastErr = log.Last.Err
		}
	}

	metrics.ProvidersExhausted.Inc()
	s.logger.Error("all providers exhausted", map[string]interface{}{
		"providers": len(s.providers),
		"error":     exhausted.LastErr,
	})
	return "", exhausted
}

// CallBudget is c's worst-case Call duration, or zero when c is not a
// Sequencer or its attempts are unbounded.
func CallBudget(c Caller) time.Duration {
	if s, ok := c.(*Sequencer); ok {
		return s.Budget()
	}
	return 0
}
