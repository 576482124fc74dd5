// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector records storefront metrics on a Prometheus registry.
type Collector struct {
	httpRequests   *prometheus.CounterVec
	httpLatency    *prometheus.HistogramVec
	cartItemsAdded prometheus.Counter
	ordersCreated  prometheus.Counter
	checkoutFailed *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "HTTP requests by method, path and status code",
		}, []string{"method", "path", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		cartItemsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_cart_items_added_total",
			Help: "Items added to carts",
		}),
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_orders_created_total",
			Help: "Orders created by checkout",
		}),
		checkoutFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_checkout_failures_total",
			Help: "Checkout failures by reason",
		}, []string{"reason"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.cartItemsAdded,
		c.ordersCreated,
		c.checkoutFailed,
	)

	return c
}

// RecordHTTPRequest records one completed HTTP request.
func (c *Collector) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	c.httpLatency.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordCartItemAdded records a successful add-to-cart.
func (c *Collector) RecordCartItemAdded() {
	c.cartItemsAdded.Inc()
}

// RecordOrderCreated records a successful checkout.
func (c *Collector) RecordOrderCreated() {
	c.ordersCreated.Inc()
}

// RecordCheckoutFailure records a failed checkout with its reason.
func (c *Collector) RecordCheckoutFailure(reason string) {
	c.checkoutFailed.WithLabelValues(reason).Inc()
}
