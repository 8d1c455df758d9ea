// Package render implements the tile queue builder and the per-pixel
// Monte-Carlo integrator (§4.5): the performance-critical inner loop.
package render

// Config is the render configuration handed to each worker once at
// registration time (§3), not repeated per task.
type Config struct {
	ImageWidth      int
	ImageHeight     int
	TileSize        int
	SamplesPerPixel int
	MaxDepth        int
}

// Option overrides a Config field, following the functional-options shape
// of the teacher's vu.Attr/vu.Config (config.go): small composable
// setters over a value built from sane defaults, rather than a
// many-argument constructor.
type Option func(*Config)

// defaultConfig mirrors the CLI surface's documented defaults (§6).
var defaultConfig = Config{
	ImageWidth:      1200,
	ImageHeight:     800,
	TileSize:        64,
	SamplesPerPixel: 100,
	MaxDepth:        50,
}

// NewConfig returns a Config built from the defaults and then overridden
// by opts, in order.
func NewConfig(opts ...Option) Config {
	cfg := defaultConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithImageSize overrides the output image dimensions.
func WithImageSize(width, height int) Option {
	return func(c *Config) { c.ImageWidth, c.ImageHeight = width, height }
}

// WithTileSize overrides the tile edge length.
func WithTileSize(size int) Option {
	return func(c *Config) { c.TileSize = size }
}

// WithSamples overrides the samples-per-pixel count.
func WithSamples(samples int) Option {
	return func(c *Config) { c.SamplesPerPixel = samples }
}

// WithMaxDepth overrides the maximum recursion depth.
func WithMaxDepth(depth int) Option {
	return func(c *Config) { c.MaxDepth = depth }
}
