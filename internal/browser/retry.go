package browser

import (
	"context"
	"fmt"
	"time"
)

// RetryPolicy bounds page-load attempts with exponential backoff. It is an
// explicit value applied around the navigation call, not implicit
// control flow.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64
}

// DefaultRetryPolicy matches the portal crawl defaults: three attempts,
// waits growing 1s, 2s, capped at 6s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: time.Second,
		MaxBackoff:     6 * time.Second,
		Multiplier:     2,
	}
}

// Backoff returns the wait after the given 1-based failed attempt.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	d := float64(p.InitialBackoff)
	for i := 1; i < attempt; i++ {
		d *= p.Multiplier
	}
	if cap := float64(p.MaxBackoff); d > cap {
		d = cap
	}
	return time.Duration(d)
}

// Do runs fn up to MaxAttempts times, sleeping the backoff between failed
// attempts. The last error is returned once attempts are exhausted;
// context cancellation cuts the wait short.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		timer := time.NewTimer(p.Backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}

// NavigationError reports a page load that failed after all retries.
// Callers decide whether it is fatal to the run or skippable for one
// record.
type NavigationError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigate %s: giving up after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}
