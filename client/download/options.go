package download

import (
	"context"
	"errors"
)

// Option configures [Handle], a [Saver] or an [Opener]. Options that do
// not apply to the receiving component are ignored.
//
// WithSkipExisting leaves an existing destination file untouched and
// reports success without writing.
//
// WithUniqueNames makes a [Saver] pick "name (1).ext", "name (2).ext"
// and so on when the destination already exists.
//
// WithLauncher replaces the platform viewer used by an [Opener].
type Option func(*options) error

type options struct {
	skipExisting bool
	uniqueNames  bool
	launcher     Launcher
}

// Launcher hands a written file to whatever displays it.
type Launcher func(ctx context.Context, path string) error

func WithSkipExisting() Option {
	return func(opts *options) error {
		opts.skipExisting = true
		return nil
	}
}

func WithUniqueNames() Option {
	return func(opts *options) error {
		opts.uniqueNames = true
		return nil
	}
}

func WithLauncher(l Launcher) Option {
	return func(opts *options) error {
		if l == nil {
			return errors.New("launcher must not be nil")
		}
		opts.launcher = l
		return nil
	}
}

func applyOptions(optFns []Option) (options, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return options{}, err
		}
	}

	return opts, nil
}
