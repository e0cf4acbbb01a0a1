package mempool

import (
	"io"
	"log/slog"
)

// DefaultBlockSize is the default block size for new pools (4 KiB).
const DefaultBlockSize = 4096

// Option configures a Pool at construction time.
type Option func(*config)

type config struct {
	source BlockSource
	logger *slog.Logger
}

// WithSource sets the block source the pool acquires memory from.
// A nil source selects the Go heap.
func WithSource(src BlockSource) Option {
	return func(c *config) {
		c.source = src
	}
}

// WithLogger sets the logger used for block acquisition and release events.
// A nil logger discards all output.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

func newConfig(opts []Option) config {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	if c.source == nil {
		c.source = HeapSource{}
	}
	if c.logger == nil {
		c.logger = discardLogger
	}
	return c
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
