package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records the outcome of cart mutations and refetches.
type CartMetrics struct {
	duration  *prometheus.HistogramVec
	mutations *prometheus.CounterVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_mutation_duration_seconds",
		Help:    "Duration of cart mutations including the refetch in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations by operation and outcome.",
	}, []string{"op", "outcome"})
	reg.MustRegister(duration, mutations)
	return &CartMetrics{
		duration:  duration,
		mutations: mutations,
	}
}

// ObserveDuration records the duration for the named mutation.
func (c *CartMetrics) ObserveDuration(op string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(op)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named mutation.
func (c *CartMetrics) IncSuccess(op string) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(normalizeLabel(op), "success").Inc()
}

// IncFailure increments the failure counter for the named mutation.
func (c *CartMetrics) IncFailure(op string) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(normalizeLabel(op), "failure").Inc()
}

// OrderCacheMetrics tracks cache effectiveness for order queries.
type OrderCacheMetrics struct {
	hits   prometheus.Counter
	misses prometheus.Counter
}

// NewOrderCacheMetrics registers the order cache metrics on the provided registerer.
func NewOrderCacheMetrics(reg prometheus.Registerer) *OrderCacheMetrics {
	if reg == nil {
		return &OrderCacheMetrics{}
	}
	hits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_cache_hits_total",
		Help: "Order list reads served from the local cache.",
	})
	misses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_cache_misses_total",
		Help: "Order list reads with no cached entry.",
	})
	reg.MustRegister(hits, misses)
	return &OrderCacheMetrics{hits: hits, misses: misses}
}

// IncHit increments the cache hit counter.
func (o *OrderCacheMetrics) IncHit() {
	if o == nil || o.hits == nil {
		return
	}
	o.hits.Inc()
}

// IncMiss increments the cache miss counter.
func (o *OrderCacheMetrics) IncMiss() {
	if o == nil || o.misses == nil {
		return
	}
	o.misses.Inc()
}

func normalizeLabel(op string) string {
	if op == "" {
		return "unknown"
	}
	return op
}
