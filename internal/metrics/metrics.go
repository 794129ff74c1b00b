// Package metrics exposes ledger and HTTP activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"eatsplit/internal/core"
)

const namespace = "eatsplit"

// Collector owns its own registry so several can coexist in tests.
type Collector struct {
	registry *prometheus.Registry

	friendsAdded     prometheus.Counter
	friends          prometheus.Gauge
	settlements      *prometheus.CounterVec
	settlementAmount prometheus.Histogram
	rejected         *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	rateLimited      prometheus.Counter
}

func New() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		friendsAdded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "friends_added_total",
			Help:      "Friends added to the ledger.",
		}),
		friends: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "friends",
			Help:      "Friends currently in the ledger.",
		}),
		settlements: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlements_total",
			Help:      "Bill splits applied, by who paid.",
		}, []string{"payer"}),
		settlementAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "settlement_delta_units",
			Help:      "Absolute balance change per settlement.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_submissions_total",
			Help:      "Submissions silently rejected, by form.",
		}, []string{"form"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		rateLimited: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests refused by the rate limiter.",
		}),
	}
}

// SetFriends initializes the friend gauge, typically after seeding.
func (c *Collector) SetFriends(n int) { c.friends.Set(float64(n)) }

// FriendAdded implements ledger.Observer.
func (c *Collector) FriendAdded(core.Friend) {
	c.friendsAdded.Inc()
	c.friends.Inc()
}

// Settled implements ledger.Observer.
func (c *Collector) Settled(_ core.Friend, delta core.Money) {
	v, _ := delta.Abs().Decimal().Float64()
	c.settlementAmount.Observe(v)
}

// SplitSubmitted implements session.Observer.
func (c *Collector) SplitSubmitted(payer core.Payer) {
	c.settlements.WithLabelValues(string(payer)).Inc()
}

// Rejected implements session.Observer.
func (c *Collector) Rejected(form string) {
	c.rejected.WithLabelValues(form).Inc()
}

// ObserveRequest records one finished HTTP request. route is the matched
// pattern, not the raw path, to keep label cardinality bounded.
func (c *Collector) ObserveRequest(method, route string, status int, d time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (c *Collector) RateLimited() { c.rateLimited.Inc() }

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
