package template

import (
	"context"
	"time"

	"github.com/cenkalti/backoff"
	"go.uber.org/zap"
)

// Retry retries failed fetches from a remote store. Unknown references are
// not retried.
type Retry struct {
	Store Store

	// Backoff is the backoff algorithm used for retries. If not set,
	// exponential backoff is used.
	Backoff func() backoff.BackOff

	// Logger logs retries. If not set, logs are discarded.
	Logger *zap.Logger
}

// Get fetches a template, retrying transient errors.
func (r *Retry) Get(ctx context.Context, uri string) (string, error) {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	algo := r.Backoff
	if algo == nil {
		algo = func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		}
	}

	var text string
	op := func() error {
		t, err := r.Store.Get(ctx, uri)
		if err != nil {
			if _, ok := err.(*UnknownReferenceError); ok {
				return backoff.Permanent(err)
			}
			return err
		}
		text = t
		return nil
	}
	notify := func(err error, dur time.Duration) {
		logger.Info("Retrying template fetch", zap.String("uri", uri), zap.Error(err), zap.Duration("duration", dur))
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(algo(), ctx), notify); err != nil {
		return "", err
	}
	return text, nil
}
