package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricPrefix = "bedboard_"

var (
	registerOnce sync.Once

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	bedTransitions *prometheus.CounterVec
)

// Register installs the collectors on the default registry. Safe to call
// more than once.
func Register() {
	registerOnce.Do(func() {
		httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricPrefix + "http_requests_total",
			Help: "HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"})

		httpLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    metricPrefix + "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"})

		bedTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricPrefix + "bed_transitions_total",
			Help: "Bed status transitions by action.",
		}, []string{"action"})

		prometheus.MustRegister(httpRequests, httpLatency, bedTransitions)
	})
}

// ObserveBedTransition counts one assign/release/repair/available action.
func ObserveBedTransition(action string) {
	if bedTransitions == nil {
		return
	}
	bedTransitions.WithLabelValues(action).Inc()
}

// HTTPMiddleware records request counts and latency per route.
func HTTPMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			if httpRequests != nil {
				path := c.Path()
				if path == "" {
					path = c.Request().URL.Path
				}
				httpRequests.WithLabelValues(
					c.Request().Method, path, strconv.Itoa(c.Response().Status),
				).Inc()
				httpLatency.WithLabelValues(c.Request().Method, path).
					Observe(time.Since(start).Seconds())
			}

			return err
		}
	}
}

// Handler serves the prometheus scrape endpoint.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
