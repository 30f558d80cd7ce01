package prob3

// Config defines how a [Propagator] chains layers.
type Config struct {
	// LayerCache reuses the transition matrix of an earlier layer with the
	// same density and distance (the Earth profile is crossed twice).
	LayerCache bool
	// CacheTolerance is the absolute tolerance on density and distance for
	// a cache hit.
	CacheTolerance Real
	// MassEigenstateInput starts each row from a mass eigenstate instead of
	// a flavor eigenstate.
	MassEigenstateInput bool
	// MaxLayers bounds the number of layers per call and sizes the cache.
	MaxLayers int
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the cached, flavor-input configuration sized for a
// 59-layer PREM profile plus atmosphere.
func DefaultConfig() Config {
	return Config{
		LayerCache:     true,
		CacheTolerance: 1e-5,
		MaxLayers:      120,
	}
}

// WithLayerCache enables or disables the layer cache.
func WithLayerCache(enabled bool) Option {
	return func(cfg *Config) {
		cfg.LayerCache = enabled
	}
}

// WithCacheTolerance sets the cache match tolerance.
func WithCacheTolerance(tol Real) Option {
	return func(cfg *Config) {
		if tol >= 0 {
			cfg.CacheTolerance = tol
		}
	}
}

// WithMassEigenstateInput propagates mass eigenstates instead of flavor
// eigenstates.
func WithMassEigenstateInput() Option {
	return func(cfg *Config) {
		cfg.MassEigenstateInput = true
	}
}

// WithMaxLayers sets the maximum number of layers.
func WithMaxLayers(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.MaxLayers = n
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
