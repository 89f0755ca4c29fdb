package api

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Number of HTTP requests served, by path, method and status.",
		},
		[]string{"path", "method", "status"},
	)

	datasetRows = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dataset_rows",
		Help: "Number of rows in the loaded dataset.",
	})
)

func countRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		err := next(ctx)

		// Uses the route path, not the request URL, to keep label cardinality bounded.
		requestsTotal.WithLabelValues(
			ctx.Path(),
			ctx.Request().Method,
			strconv.Itoa(ctx.Response().Status),
		).Inc()

		return err
	}
}

func metricsHandler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
