package cart

import "github.com/op/go-logging"

type Option func(*Store)

// WithKey overrides the storage key of the snapshot.
func WithKey(key string) Option {
	return func(module *Store) {
		if key != "" {
			module.key = key
		}
	}
}

func WithLogger(log *logging.Logger) Option {
	return func(module *Store) {
		if log != nil {
			module.log = log
		}
	}
}

func WithEvents(emitter Emitter) Option {
	return func(module *Store) {
		module.emitter = emitter
	}
}

func WithReporter(reporter Reporter) Option {
	return func(module *Store) {
		module.reporter = reporter
	}
}

func WithRecorder(recorder Recorder) Option {
	return func(module *Store) {
		module.recorder = recorder
	}
}
