package quadbuckets

const (
	// DefaultCapacity is the number of members a leaf holds before it splits.
	DefaultCapacity = 48

	// DefaultMaxDepth bounds subdivision. Nodes at this depth never split.
	DefaultMaxDepth = 20
)

type options struct {
	capacity int
	maxDepth int
	world    BBox
	logger   *Logger
	metrics  MetricsCollector
}

// Option configures a QuadBuckets or a PrimitiveStore.
type Option func(*options)

func defaultOptions() options {
	return options{
		capacity: DefaultCapacity,
		maxDepth: DefaultMaxDepth,
		world:    World,
		logger:   NoopLogger(),
		metrics:  NoopMetricsCollector{},
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// WithCapacity sets the leaf capacity. Minimum 1.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = max(n, 1)
	}
}

// WithMaxDepth sets the maximum subdivision depth. Minimum 0, which disables splitting.
func WithMaxDepth(d int) Option {
	return func(o *options) {
		o.maxDepth = max(d, 0)
	}
}

// WithWorld sets the root region. Invalid boxes are ignored.
//
// Use this when members are in a projected coordinate space rather than lon/lat.
func WithWorld(b BBox) Option {
	return func(o *options) {
		if b.Valid() {
			o.world = b
		}
	}
}

// WithLogger configures logging. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetrics configures a metrics collector. If nil is passed, metrics are disabled.
func WithMetrics(m MetricsCollector) Option {
	return func(o *options) {
		if m == nil {
			m = NoopMetricsCollector{}
		}
		o.metrics = m
	}
}
