package hashtab

import (
	"io"
	"log/slog"
)

// Option configures a Table at construction.
type Option func(*config)

type config struct {
	seed     uint32
	hasSeed  bool
	hashFunc HashFunc
	logger   *slog.Logger
}

func newConfig(opts []Option) config {
	c := config{hashFunc: XXH3}
	for _, opt := range opts {
		opt(&c)
	}
	if !c.hasSeed {
		c.seed = randomSeed()
	}
	if c.hashFunc == nil {
		c.hashFunc = XXH3
	}
	if c.logger == nil {
		c.logger = discardLogger
	}
	return c
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// WithSeed fixes the hash seed instead of drawing a random one. Two
// tables built with the same seed and HashFunc place keys identically,
// which makes ForEach order reproducible.
func WithSeed(seed uint32) Option {
	return func(c *config) {
		c.seed = seed
		c.hasSeed = true
	}
}

// WithHashFunc selects the seeded string hash. A nil fn keeps XXH3.
func WithHashFunc(fn HashFunc) Option {
	return func(c *config) {
		c.hashFunc = fn
	}
}

// WithLogger sets the logger used for debug traces of bucket resizes.
// Tables log nothing by default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}
