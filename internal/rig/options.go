package rig

import (
	"io"
	"log/slog"
)

type options struct {
	logger   *slog.Logger
	strict   bool
	registry *Registry
}

// Option configures a Builder or Synchronizer.
type Option func(*options)

// WithLogger sets the diagnostics sink (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithStrict makes the builder report non-joint endpoints as NOT_JOINT
// errors instead of returning a nil handle.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithRegistry shares a solver registry between builders on the same scene.
func WithRegistry(r *Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

func applyOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}
