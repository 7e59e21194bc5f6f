package reactor

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Config holds the runtime limits and switches of a Root.
type Config struct {
	// MaxPasses bounds the render/commit/effect passes of one flush, and
	// the renders of a single instance within one render phase. A root
	// that exceeds it halts with ErrRenderLimit.
	// Default: 50
	MaxPasses int

	// MaxEffectRunsPerFlush caps effect bodies run in one flush. Effects
	// over the cap stay pending and run on the next flush. 0 disables it.
	// Default: 0
	MaxEffectRunsPerFlush int

	// MaxFlushesPerSecond caps how often Run flushes on its own. Flush
	// requests over the cap are retried shortly after. 0 disables it.
	// Default: 0
	MaxFlushesPerSecond int

	// EagerBailout drops a state update that would leave the value the
	// same, when nothing else is queued for that cell.
	// Default: true
	EagerBailout bool

	// DebugMode logs every render and effect run at debug level.
	DebugMode bool

	// DispatchQueue is the capacity of the Dispatch queue. Dispatch drops
	// functions when it is full.
	// Default: 256
	DispatchQueue int
}

// DefaultConfig returns the default runtime configuration.
func DefaultConfig() Config {
	return Config{
		MaxPasses:     50,
		EagerBailout:  true,
		DispatchQueue: 256,
	}
}

func (c Config) normalize() Config {
	d := DefaultConfig()
	if c.MaxPasses <= 0 {
		c.MaxPasses = d.MaxPasses
	}
	if c.DispatchQueue <= 0 {
		c.DispatchQueue = d.DispatchQueue
	}
	if c.MaxEffectRunsPerFlush < 0 {
		c.MaxEffectRunsPerFlush = 0
	}
	if c.MaxFlushesPerSecond < 0 {
		c.MaxFlushesPerSecond = 0
	}
	return c
}

// Option configures a Root.
type Option func(*Root)

// WithConfig replaces the runtime configuration. Zero limits fall back to
// their defaults.
func WithConfig(cfg Config) Option {
	return func(r *Root) {
		r.cfg = cfg.normalize()
	}
}

// WithLogger sets the logger. The root adds a root_id attribute.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Root) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithErrorBoundary sets the collaborator that receives contained errors.
// The default boundary logs them.
func WithErrorBoundary(b ErrorBoundary) Option {
	return func(r *Root) {
		r.boundary = b
	}
}

// WithMetrics records runtime metrics into m. Several roots may share one
// Metrics value.
func WithMetrics(m *Metrics) Option {
	return func(r *Root) {
		r.metrics = m
	}
}

// WithTracer sets the tracer used for flush and render spans. The default
// is the global OpenTelemetry provider's tracer.
func WithTracer(t trace.Tracer) Option {
	return func(r *Root) {
		if t != nil {
			r.tracer = t
		}
	}
}

// WithContext sets the base context handed to Render. Values stored in it
// are visible to every component.
func WithContext(ctx context.Context) Option {
	return func(r *Root) {
		if ctx != nil {
			r.ctx = ctx
		}
	}
}

// WithID overrides the generated root id.
func WithID(id string) Option {
	return func(r *Root) {
		if id != "" {
			r.id = id
		}
	}
}
