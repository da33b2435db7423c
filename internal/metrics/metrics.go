// Package metrics exports engine, history and HTTP events as Prometheus
// metrics. A Collector implements every hook interface of
// pkg/observability; Install registers it there.
//
//	m := metrics.New()
//	m.Install()
//	defer observability.Reset()
//	http.Handle("/metrics", m.Handler())
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/nodedesign/pkg/observability"
)

const namespace = "nodedesign"

// Collector owns a private registry so tests and embedders never collide
// with the global one.
type Collector struct {
	registry *prometheus.Registry

	layouts        *prometheus.CounterVec
	layoutDuration *prometheus.HistogramVec
	layoutNodes    prometheus.Histogram

	history       *prometheus.CounterVec
	evictions     prometheus.Counter
	refreshErrors prometheus.Counter

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
}

// New builds a Collector with every metric registered.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		layouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layouts_total",
			Help:      "Layout operations by operation and outcome.",
		}, []string{"op", "outcome"}),
		layoutDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_duration_seconds",
			Help:      "Time to plan and apply a layout operation.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"op"}),
		layoutNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_selection_size",
			Help:      "Number of selected nodes per layout operation.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		history: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_commands_total",
			Help:      "Command history transitions by action, command and outcome.",
		}, []string{"action", "command", "outcome"}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_evictions_total",
			Help:      "Commands dropped from a full undo stack.",
		}),
		refreshErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_refresh_errors_total",
			Help:      "Failed host refresh requests.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP responses by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Requests currently being served.",
		}),
	}
	c.registry.MustRegister(
		c.layouts, c.layoutDuration, c.layoutNodes,
		c.history, c.evictions, c.refreshErrors,
		c.requests, c.requestDuration, c.inFlight,
	)
	return c
}

// Install registers c as the process-wide layout, history and HTTP hooks.
func (c *Collector) Install() {
	observability.SetLayoutHooks(c)
	observability.SetHistoryHooks(c)
	observability.SetHTTPHooks(c)
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

func (c *Collector) OnLayoutStart(string, int) {}

func (c *Collector) OnLayoutComplete(op string, nodeCount int, d time.Duration, applied bool) {
	c.layouts.WithLabelValues(op, outcome(applied)).Inc()
	c.layoutDuration.WithLabelValues(op).Observe(d.Seconds())
	c.layoutNodes.Observe(float64(nodeCount))
}

func (c *Collector) OnExecute(command string, _ int) {
	c.history.WithLabelValues("execute", command, "ok").Inc()
}

func (c *Collector) OnUndo(command string, err error) {
	c.history.WithLabelValues("undo", command, outcome(err == nil)).Inc()
}

func (c *Collector) OnRedo(command string, err error) {
	c.history.WithLabelValues("redo", command, outcome(err == nil)).Inc()
}

func (c *Collector) OnEvict(string) { c.evictions.Inc() }

func (c *Collector) OnRefreshError(error) { c.refreshErrors.Inc() }

func (c *Collector) OnRequest(context.Context, string, string) { c.inFlight.Inc() }

// OnResponse expects route patterns ("/sessions/{id}"), not raw paths, to
// keep label cardinality bounded.
func (c *Collector) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	c.inFlight.Dec()
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func outcome(ok bool) string {
	if ok {
		return "ok"
	}
	return "rejected"
}

var (
	_ observability.LayoutHooks  = (*Collector)(nil)
	_ observability.HistoryHooks = (*Collector)(nil)
	_ observability.HTTPHooks    = (*Collector)(nil)
)
