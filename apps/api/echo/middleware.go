package echoapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// metricsMiddleware records the latency of every request by route & status code.
// Errors are handled here so the recorded status is the one sent to the client.
func metricsMiddleware(reg prometheus.Registerer) echo.MiddlewareFunc {
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "campus",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Latency of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "code"})
	if reg != nil {
		reg.MustRegister(latency)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			if err := next(ctx); err != nil {
				ctx.Error(err)
			}

			route := ctx.Path()
			if route == "" {
				route = "unmatched"
			}
			latency.
				WithLabelValues(ctx.Request().Method, route, strconv.Itoa(ctx.Response().Status)).
				Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
