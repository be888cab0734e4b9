// Package metrics exposes Prometheus counters for HTTP traffic and
// participation activity.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	joins           *prometheus.CounterVec
	toggles         *prometheus.CounterVec
	liveSubscribers prometheus.Gauge
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linkcook",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "linkcook",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		joins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linkcook",
			Name:      "groupbuy_joins_total",
			Help:      "Group-buy join attempts by outcome.",
		}, []string{"outcome"}),
		toggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linkcook",
			Name:      "engagement_toggles_total",
			Help:      "Bookmark and like toggles by kind and resulting state.",
		}, []string{"kind", "state"}),
		liveSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "linkcook",
			Name:      "live_subscribers",
			Help:      "Open live-feed websocket connections.",
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.duration,
		m.joins,
		m.toggles,
		m.liveSubscribers,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records every request under its chi route pattern so that ids
// do not explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) ObserveJoin(outcome string) {
	m.joins.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveToggle(kind string, isMember bool) {
	state := "removed"
	if isMember {
		state = "added"
	}
	m.toggles.WithLabelValues(kind, state).Inc()
}

func (m *Metrics) LiveSubscribed() {
	m.liveSubscribers.Inc()
}

func (m *Metrics) LiveUnsubscribed() {
	m.liveSubscribers.Dec()
}
