package pool

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/codefionn/taskwire/internal/logger"
)

const (
	// DefaultReconnectAttempts is how many build-and-probe cycles a
	// reconnection runs before giving up.
	DefaultReconnectAttempts = 3
	// DefaultReconnectInterval is the delay before the first retry; each
	// subsequent delay doubles.
	DefaultReconnectInterval = 100 * time.Millisecond
)

// UnreachableError reports that reconnection exhausted every attempt. It
// wraps the last failure so callers can still inspect the underlying cause.
type UnreachableError struct {
	Workspace string
	Attempts  int
	Err       error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("daemon for %s unreachable after %d attempts: %v\nRestart it with: twd serve",
		e.Workspace, e.Attempts, e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }

// Reconnector rebuilds a handle for a workspace whose daemon stopped
// answering. Each attempt constructs a fresh handle and probes it; delays
// between attempts double, with no delay after the final failure.
type Reconnector struct {
	attempts int
	interval time.Duration
	prober   *Prober
	notify   backoff.Notify
	log      *logger.Logger
}

// ReconnectorOption customizes a Reconnector.
type ReconnectorOption func(*Reconnector)

// WithAttempts overrides the attempt budget.
func WithAttempts(n int) ReconnectorOption {
	return func(r *Reconnector) {
		if n > 0 {
			r.attempts = n
		}
	}
}

// WithInterval overrides the first retry delay.
func WithInterval(d time.Duration) ReconnectorOption {
	return func(r *Reconnector) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithNotify installs a hook called with the error and upcoming delay before
// each retry sleep.
func WithNotify(notify backoff.Notify) ReconnectorOption {
	return func(r *Reconnector) {
		r.notify = notify
	}
}

// NewReconnector creates a reconnector using the given prober to validate
// freshly built handles.
func NewReconnector(prober *Prober, opts ...ReconnectorOption) *Reconnector {
	r := &Reconnector{
		attempts: DefaultReconnectAttempts,
		interval: DefaultReconnectInterval,
		prober:   prober,
		log:      logger.Global().WithPrefix("reconnect"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Reconnect tries to build and validate a fresh handle for ws. On success
// the new handle is returned; after the attempt budget is spent it fails
// with *UnreachableError wrapping the last attempt's error.
func (r *Reconnector) Reconnect(ctx context.Context, ws string, build Factory) (Handle, error) {
	var (
		handle  Handle
		lastErr error
	)

	operation := func() error {
		h, err := build(ctx, ws)
		if err != nil {
			lastErr = err
			return err
		}
		if !r.prober.Healthy(ctx, h) {
			lastErr = fmt.Errorf("daemon for %s failed health probe", ws)
			return lastErr
		}
		handle = h
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = r.interval
	policy.RandomizationFactor = 0
	policy.Multiplier = 2
	policy.MaxInterval = 30 * time.Second
	policy.MaxElapsedTime = 0
	policy.Reset()

	notify := func(err error, delay time.Duration) {
		r.log.Debug("reconnect attempt for %s failed, retrying in %s: %v", ws, delay, err)
		if r.notify != nil {
			r.notify(err, delay)
		}
	}

	retries := uint64(r.attempts - 1)
	err := backoff.RetryNotify(operation, backoff.WithContext(backoff.WithMaxRetries(policy, retries), ctx), notify)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		r.log.Warn("giving up on %s after %d attempts: %v", ws, r.attempts, lastErr)
		return nil, &UnreachableError{Workspace: ws, Attempts: r.attempts, Err: lastErr}
	}

	r.log.Info("reconnected to daemon for %s", ws)
	return handle, nil
}
