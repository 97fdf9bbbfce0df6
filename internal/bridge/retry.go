package bridge

import (
	"context"
	"errors"
	"time"
)

// ErrRetryExhausted indicates all retry attempts have been exhausted.
var ErrRetryExhausted = errors.New("retry attempts exhausted")

// RetryPolicy is the panel-wide reconnect policy: a fixed interval
// between attempts and a bounded attempt count, then give up. The live
// event client and the flow save path share it.
type RetryPolicy struct {
	Interval    time.Duration
	MaxAttempts int
}

// DefaultRetryPolicy mirrors the event client's defaults: 5 attempts,
// 3 seconds apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Interval: 3 * time.Second, MaxAttempts: 5}
}

// Do runs fn up to MaxAttempts times, sleeping Interval between failed
// attempts. The first success wins. After the last failure it returns
// the last error wrapped with ErrRetryExhausted; a cancelled context
// stops immediately.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(p.Interval):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if lastErr = fn(ctx); lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return errors.Join(ErrRetryExhausted, lastErr)
}
