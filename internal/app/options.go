// Package app holds the application services and business logic.
package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Option configures the services in this package.
type Option func(*options)

type options struct {
	now     func() time.Time
	log     *zap.Logger
	latency time.Duration
}

func newOptions(opts []Option) options {
	o := options{now: time.Now, log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClock overrides time.Now. The returned time's location decides which
// calendar day "today" is.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the logger used for swallowed storage faults.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithSimulatedLatency delays authentication calls and form submissions by
// d, the way a remote service would.
func WithSimulatedLatency(d time.Duration) Option {
	return func(o *options) { o.latency = d }
}

// wait blocks for the simulated latency or until ctx is done.
func (o options) wait(ctx context.Context) error {
	if o.latency <= 0 {
		return nil
	}
	t := time.NewTimer(o.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type scopeKey struct{}

// WithScope namespaces every storage key used under ctx, so one store can
// hold many patients' data. An empty scope leaves keys untouched.
func WithScope(ctx context.Context, scope string) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

// ScopeFromContext returns the scope set by WithScope.
func ScopeFromContext(ctx context.Context) string {
	s, _ := ctx.Value(scopeKey{}).(string)
	return s
}

func scopedKey(ctx context.Context, key string) string {
	if s := ScopeFromContext(ctx); s != "" {
		return s + "/" + key
	}
	return key
}
