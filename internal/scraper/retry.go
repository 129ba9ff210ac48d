package scraper

import (
	"context"
	"math"
	"time"

	"github.com/raysh454/kumo/internal/logging"
)

// Policy bounds the retry loop around one scrape operation.
type Policy struct {
	// MaxAttempts is the total number of tries, the first one included.
	MaxAttempts int
	MinDelay    time.Duration
	MaxDelay    time.Duration
	// Multiplier scales the exponential term, in seconds.
	Multiplier float64
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		MinDelay:    4 * time.Second,
		MaxDelay:    10 * time.Second,
		Multiplier:  1,
	}
}

// Delay returns the backoff after the nth failed attempt (1-based):
// Multiplier * 2^n seconds, clamped into [MinDelay, MaxDelay].
func (p Policy) Delay(attempt int) time.Duration {
	d := time.Duration(p.Multiplier * math.Exp2(float64(attempt)) * float64(time.Second))
	if d < p.MinDelay {
		d = p.MinDelay
	}
	if d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

// Retrier re-runs an operation until it stops returning an error or the
// attempt budget is spent. It never inspects the Response: a success=false
// envelope is a result, not a reason to retry.
type Retrier struct {
	policy Policy
	logger logging.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewRetrier(policy Policy, logger logging.Logger) *Retrier {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &Retrier{
		policy: policy,
		logger: logger,
		sleep:  sleepCtx,
	}
}

// Do runs op up to MaxAttempts times, backing off between failures. onRetry,
// when non-nil, fires before each backoff with the failed attempt number,
// the planned delay and the error. The last error is returned once the
// budget is spent or the context dies during a backoff sleep.
func (r *Retrier) Do(ctx context.Context, op func(context.Context) (Response, error), onRetry func(attempt int, delay time.Duration, err error)) (Response, error) {
	var lastErr error
	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		resp, err := op(ctx)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if attempt == r.policy.MaxAttempts {
			break
		}

		delay := r.policy.Delay(attempt)
		r.logger.Warn("scrape attempt failed, backing off",
			logging.Field{Key: "attempt", Value: attempt},
			logging.Field{Key: "delay", Value: delay.String()},
			logging.Field{Key: "error", Value: err.Error()})
		if onRetry != nil {
			onRetry(attempt, delay, err)
		}

		if err := r.sleep(ctx, delay); err != nil {
			// the caller is gone; further attempts would be wasted
			break
		}
	}
	return Response{}, lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
