package topoindex

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	initialCapacity  int
	parallelism      int
	incremental      bool
}

func defaultOptions() options {
	return options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		parallelism:      1,
		incremental:      true,
	}
}

// Option configures Index construction.
type Option func(*options)

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics sink. If nil is passed, metrics are
// discarded.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithInitialCapacity pre-sizes the entity index for n entities.
func WithInitialCapacity(n int) Option {
	return func(o *options) {
		o.initialCapacity = n
	}
}

// WithRebuildParallelism sets how many goroutines a closure rebuild may use.
// The default of 1 keeps rebuilds on the calling goroutine.
//
// Parallel rebuilds pay off for graphs with tens of thousands of nodes;
// below that the goroutine overhead dominates.
func WithRebuildParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithIncrementalClosure toggles in-place closure extension on Link while
// the cache is valid. Disabled, every Link defers to the next lazy rebuild.
func WithIncrementalClosure(enabled bool) Option {
	return func(o *options) {
		o.incremental = enabled
	}
}
