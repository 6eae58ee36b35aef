// Package metrics exports presenter activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
)

// Config configures the metrics observer.
type Config struct {
	// Namespace is the metrics namespace (default: "toastui").
	Namespace string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for visible time.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: a new registry owned by the observer.
	Registry *prometheus.Registry

	// Now returns the current time. Default: time.Now.
	Now func() time.Time
}

// Option configures the metrics observer.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

// WithNow sets the time source used to measure visible time.
func WithNow(now func() time.Time) Option {
	return func(c *Config) {
		c.Now = now
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "toastui",
		Buckets:   []float64{0.25, 0.5, 1, 2, 3.5, 5, 10, 30},
		Now:       time.Now,
	}
}

// Observer records presenter lifecycle events.
type Observer struct {
	toast.NoopObserver

	registry *prometheus.Registry
	now      func() time.Time

	queued    prometheus.Counter
	presented prometheus.Counter
	dismissed *prometheus.CounterVec
	skipped   prometheus.Counter
	cancelled prometheus.Counter
	depth     prometheus.Gauge
	visible   prometheus.Histogram
}

var _ toast.Observer = (*Observer)(nil)

// New creates an observer and registers its metrics.
func New(opts ...Option) *Observer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	factory := promauto.With(cfg.Registry)
	return &Observer{
		registry: cfg.Registry,
		now:      cfg.Now,

		queued: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "toasts_queued_total",
			Help:        "Total number of toasts accepted into the queue",
			ConstLabels: cfg.ConstLabels,
		}),

		presented: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "toasts_presented_total",
			Help:        "Total number of toasts that started presenting",
			ConstLabels: cfg.ConstLabels,
		}),

		dismissed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "toasts_dismissed_total",
			Help:        "Total number of dismissed toasts by reason",
			ConstLabels: cfg.ConstLabels,
		}, []string{"reason"}),

		skipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "toasts_skipped_total",
			Help:        "Total number of queued toasts skipped because their screen was gone or mounting failed",
			ConstLabels: cfg.ConstLabels,
		}),

		cancelled: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "toasts_cancelled_total",
			Help:        "Total number of queued toasts cancelled before presenting",
			ConstLabels: cfg.ConstLabels,
		}),

		depth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Name:        "queue_depth",
			Help:        "Number of toasts waiting to be presented",
			ConstLabels: cfg.ConstLabels,
		}),

		visible: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Name:        "visible_seconds",
			Help:        "Time toasts spent fully visible before dismissal began",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}),
	}
}

// Registry returns the registry the metrics are registered on.
func (o *Observer) Registry() *prometheus.Registry {
	return o.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (o *Observer) Handler() http.Handler {
	return promhttp.HandlerFor(o.registry, promhttp.HandlerOpts{})
}

func (o *Observer) OnQueued(model.Descriptor) {
	o.queued.Inc()
}

func (o *Observer) OnQueueChanged(depth int) {
	o.depth.Set(float64(depth))
}

func (o *Observer) OnSkipped(model.Descriptor, error) {
	o.skipped.Inc()
}

func (o *Observer) OnCancelled(model.Descriptor) {
	o.cancelled.Inc()
}

func (o *Observer) OnPresenting(*toast.Session) {
	o.presented.Inc()
}

func (o *Observer) OnDismissing(s *toast.Session, _ model.Reason) {
	if visibleAt := s.VisibleAt(); !visibleAt.IsZero() {
		o.visible.Observe(o.now().Sub(visibleAt).Seconds())
	}
}

func (o *Observer) OnDismissed(_ *toast.Session, reason model.Reason) {
	o.dismissed.WithLabelValues(reason.String()).Inc()
}
