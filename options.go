package sbm

import (
	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/sbm/parser"
	"github.com/deepnoodle-ai/sbm/vm"
)

// Option configures loading or execution.
type Option func(*options)

type options struct {
	filename  string
	observers []vm.Observer
	logger    *zerolog.Logger
}

func collectOptions(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) parserOpts() []parser.Option {
	var opts []parser.Option
	if o.filename != "" {
		opts = append(opts, parser.WithFilename(o.filename))
	}
	return opts
}

func (o *options) vmOpts() []vm.Option {
	var opts []vm.Option
	switch len(o.observers) {
	case 0:
	case 1:
		opts = append(opts, vm.WithObserver(o.observers[0]))
	default:
		opts = append(opts, vm.WithObserver(vm.Observers(o.observers)))
	}
	if o.logger != nil {
		opts = append(opts, vm.WithLogger(*o.logger))
	}
	return opts
}

// WithFilename sets the filename reported in errors.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithObserver adds an observer for execution steps. This option is additive.
func WithObserver(observer vm.Observer) Option {
	return func(o *options) {
		o.observers = append(o.observers, observer)
	}
}

// WithMaxSteps halts execution with vm.ErrHalted after n instructions.
func WithMaxSteps(n int) Option {
	return WithObserver(&vm.StepLimiter{Max: n})
}

// WithLogger sets the logger for run lifecycle events.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}
