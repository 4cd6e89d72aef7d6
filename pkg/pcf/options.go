package pcf

import "github.com/samcharles93/pcf/internal/logger"

type options struct {
	log    logger.Logger
	append bool
	atomic bool
	mmap   bool
}

// Option configures a Saver or Loader.
type Option func(*options)

// WithLogger routes debug events to l. Nil restores the silent default.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = logger.Discard()
		}
		o.log = l
	}
}

// WithAppend makes NewSaver append to an existing file instead of
// truncating it.
func WithAppend(on bool) Option {
	return func(o *options) { o.append = on }
}

// WithAtomic makes NewSaver write to a temporary file beside the target and
// rename it into place on Close, so readers never observe a partial file.
// It cannot be combined with WithAppend.
func WithAtomic(on bool) Option {
	return func(o *options) { o.atomic = on }
}

// WithMmap makes NewLoader memory-map the file for each operation instead of
// reading it through a buffered handle.
func WithMmap(mmap bool) Option {
	return func(o *options) { o.mmap = mmap }
}

func buildOptions(opts []Option) options {
	o := options{log: logger.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
