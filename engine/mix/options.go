package mix

import (
	"runtime"

	"go.uber.org/zap"
)

type options struct {
	logger    *zap.Logger
	maskLight bool
	workers   int
}

// Option configures decoding.
type Option func(*options)

func defaultOptions() options {
	return options{
		logger:  zap.NewNop(),
		workers: runtime.NumCPU(),
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger reports substituted frames to l.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithLightColorsMasked blacks out palette indices 0xF4-0xF7 in every palette.
// Alpha stays 255.
func WithLightColorsMasked() Option {
	return func(o *options) { o.maskLight = true }
}

// WithWorkers bounds the number of entries DecodeAll decodes at once.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}
