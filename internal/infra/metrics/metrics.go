package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "foodtruck",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foodtruck",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "foodtruck",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	sessionsSwept = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foodtruck",
			Subsystem: "sessions",
			Name:      "sweep_runs_total",
			Help:      "Expired-session sweep runs by result.",
		},
		[]string{"success"},
	)

	sessionsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "foodtruck",
			Subsystem: "sessions",
			Name:      "expired_deleted_total",
			Help:      "Expired sessions removed by the sweeper.",
		},
	)

	ordersPlaced = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "foodtruck",
			Subsystem: "orders",
			Name:      "placed_total",
			Help:      "Orders created from carts.",
		},
	)

	orderTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foodtruck",
			Subsystem: "orders",
			Name:      "status_changes_total",
			Help:      "Order status changes by target status.",
		},
		[]string{"status"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		sessionsSwept,
		sessionsDeleted,
		ordersPlaced,
		orderTransitions,
	)
}

// Handler exposes the registry for scraping.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency by route pattern.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			httpInFlight.Inc()
			defer httpInFlight.Dec()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			//ルートのパターン（/trucks/:id）で集計する
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			status := c.Response().Status

			httpRequests.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
			httpDuration.WithLabelValues(c.Request().Method, path).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

func RecordSweep(deleted int64, err error) {
	if err != nil {
		sessionsSwept.WithLabelValues("false").Inc()
		return
	}
	sessionsSwept.WithLabelValues("true").Inc()
	sessionsDeleted.Add(float64(deleted))
}

func RecordOrderPlaced() {
	ordersPlaced.Inc()
}

func RecordOrderStatus(status string) {
	orderTransitions.WithLabelValues(status).Inc()
}
