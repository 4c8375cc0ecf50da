package echoutil

import (
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a middleware counting requests and observing their latency.
//
// Requests are labeled with the route pattern, not the actual path.
func Metrics(reg prometheus.Registerer) echo.MiddlewareFunc {
	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "photoshare",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)
	latency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "photoshare",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	reg.MustRegister(requests, latency)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			begin := time.Now()
			err := next(c)

			status := c.Response().Status
			var herr *echo.HTTPError
			if errors.As(err, &herr) {
				status = herr.Code
			} else if err != nil {
				status = 500
			}

			route := c.Path()
			if route == "" {
				route = "(unmatched)"
			}
			method := c.Request().Method
			requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			latency.WithLabelValues(method, route).Observe(time.Since(begin).Seconds())
			return err
		}
	}
}
