package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// RetryProvider repeats failed calls with capped exponential backoff.
// An invalid response is retried once: a model that produced bad JSON twice
// in a row will usually keep doing it.
type RetryProvider struct {
	inner  Provider
	policy RetryConfig
	log    *zap.Logger

	// sleep waits for d or until ctx is done. Replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// WithRetry wraps p. A policy with MaxAttempts below 1 makes a single
// attempt.
func WithRetry(p Provider, policy RetryConfig, log *zap.Logger) Provider {
	if log == nil {
		log = zap.NewNop()
	}
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &RetryProvider{inner: p, policy: policy, log: log, sleep: sleepCtx}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var err error
	invalidSeen := false

	for attempt := 1; ; attempt++ {
		var resp *Response
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if attempt >= r.policy.MaxAttempts || !retryable(err) {
			return nil, err
		}

		var invalid *ErrInvalidResponse
		if errors.As(err, &invalid) {
			if invalidSeen {
				return nil, err
			}
			invalidSeen = true
		}

		wait := r.delay(attempt, err)
		r.log.Debug("retrying llm request",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
		if serr := r.sleep(ctx, wait); serr != nil {
			return nil, serr
		}
	}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// delay is the pause after the given 1-based attempt. A vendor Retry-After
// wins over the computed backoff.
func (r *RetryProvider) delay(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	d := float64(r.policy.InitialWait)
	for i := 1; i < attempt; i++ {
		d *= r.policy.Multiplier
	}
	if ceiling := float64(r.policy.MaxWait); ceiling > 0 && d > ceiling {
		d = ceiling
	}
	// ±20% jitter
	d *= 0.8 + 0.4*rand.Float64()
	return time.Duration(d)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// timeoutProvider bounds each Generate call, retries included.
type timeoutProvider struct {
	Provider
	limit time.Duration
}

// WithTimeout wraps p so every call gets at most limit. Zero disables it.
func WithTimeout(p Provider, limit time.Duration) Provider {
	if limit <= 0 {
		return p
	}
	return &timeoutProvider{Provider: p, limit: limit}
}

func (t *timeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.limit)
	defer cancel()
	return t.Provider.Generate(ctx, req)
}
