package batch

import (
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/cwbudde/algo-nuosc/osc/prob3"
)

// Config controls how an Engine dispatches jobs.
type Config struct {
	// Workers bounds the number of goroutines evaluating jobs.
	Workers int
	// ChunkSize is the number of consecutive jobs one goroutine takes at a
	// time. Zero picks a size from the batch length.
	ChunkSize int
	// Logger receives progress messages. Nil discards them.
	Logger *log.Logger
	// Metrics records job outcomes and batch durations. Nil disables them.
	Metrics *Metrics
	// PropagatorOptions configure every per-goroutine prob3.Propagator.
	PropagatorOptions []prob3.Option
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig uses one worker per available CPU.
func DefaultConfig() Config {
	return Config{Workers: runtime.GOMAXPROCS(0)}
}

// WithWorkers sets the worker count. Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.Workers = n
		}
	}
}

// WithChunkSize sets the number of jobs handed to a goroutine at once.
func WithChunkSize(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.ChunkSize = n
		}
	}
}

// WithLogger sets the progress logger.
func WithLogger(l *log.Logger) Option {
	return func(cfg *Config) {
		cfg.Logger = l
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *Metrics) Option {
	return func(cfg *Config) {
		cfg.Metrics = m
	}
}

// WithPropagatorOptions forwards options to each prob3.Propagator.
func WithPropagatorOptions(opts ...prob3.Option) Option {
	return func(cfg *Config) {
		cfg.PropagatorOptions = append(cfg.PropagatorOptions, opts...)
	}
}

// ApplyOptions applies opts to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
