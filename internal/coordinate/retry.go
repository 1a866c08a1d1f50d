package coordinate

import (
	"context"
	"math/rand"
	"time"

	"aegis/internal/faults"
)

// RetryPolicy governs per-stage retries. Only transient errors are retried;
// validation and conflict errors surface immediately.
type RetryPolicy struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
	Factor      float64       `yaml:"factor"`
}

// DefaultRetryPolicy is three attempts with 500ms base delay doubling each
// attempt, plus jitter.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: 500 * time.Millisecond, Factor: 2}
}

// Config tunes the coordinator.
type Config struct {
	// Workers bounds concurrent control judgments in the assessing stage.
	Workers int `yaml:"workers"`
	// CallTimeout bounds each assessor or reporter call within a stage. A
	// timed-out call counts as transient and the stage is retried under the
	// same policy.
	CallTimeout time.Duration `yaml:"call_timeout"`
	Retry       RetryPolicy   `yaml:"retry"`
}

// DefaultConfig returns the coordinator defaults.
func DefaultConfig() Config {
	return Config{Workers: 4, CallTimeout: 2 * time.Minute, Retry: DefaultRetryPolicy()}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = d.CallTimeout
	}
	if c.Retry.MaxAttempts <= 0 {
		c.Retry.MaxAttempts = d.Retry.MaxAttempts
	}
	if c.Retry.BaseDelay <= 0 {
		c.Retry.BaseDelay = d.Retry.BaseDelay
	}
	if c.Retry.Factor < 1 {
		c.Retry.Factor = d.Retry.Factor
	}
	return c
}

// withRetry runs fn up to the policy's attempt budget, backing off between
// transient failures. Returns the number of attempts made alongside the final
// error. Context cancellation aborts the wait immediately.
func withRetry(ctx context.Context, p RetryPolicy, fn func(context.Context) error) (int, error) {
	delay := p.BaseDelay
	var err error
	for attempt := 1; ; attempt++ {
		err = fn(ctx)
		if err == nil {
			return attempt, nil
		}
		if !faults.IsTransient(err) || attempt >= p.MaxAttempts {
			return attempt, err
		}

		// Full delay plus up to half again of jitter, to spread retries
		// from concurrent stages.
		wait := delay + time.Duration(rand.Int63n(int64(delay)/2+1))
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return attempt, ctx.Err()
		}
		delay = time.Duration(float64(delay) * p.Factor)
	}
}
