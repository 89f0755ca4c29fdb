// Package api exposes the dashboard's aggregation queries over HTTP.
package api

import (
	"fmt"
	"sync/atomic"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"hermannm.dev/orderstats/config"
	"hermannm.dev/orderstats/dataset"
)

type DashboardAPI struct {
	// Set once at startup before requests are served; read-only afterwards. Requests
	// arriving before then get a "dataset not loaded" error.
	data   atomic.Pointer[dataset.Dataset]
	router *echo.Echo
	config config.Config
}

func NewDashboardAPI(config config.Config) *DashboardAPI {
	router := echo.New()
	router.HideBanner = true

	api := &DashboardAPI{router: router, config: config}

	router.Use(middleware.Recover())
	router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     config.API.CORSOrigins,
		AllowCredentials: true,
	}))
	router.Use(countRequests)

	api.registerRoutes()
	return api
}

func (api *DashboardAPI) SetDataset(data *dataset.Dataset) {
	api.data.Store(data)
	datasetRows.Set(float64(data.NumRows()))
}

// Dataset returns the loaded dataset, or nil before loading has completed.
func (api *DashboardAPI) Dataset() *dataset.Dataset {
	return api.data.Load()
}

func (api *DashboardAPI) ListenAndServe() error {
	return api.router.Start(fmt.Sprintf(":%s", api.config.API.Port))
}

func (api *DashboardAPI) registerRoutes() {
	root := api.router.Group("/api")
	root.GET("/health", api.Health)
	root.GET("/columns", api.Columns)
	root.GET("/count", api.Count)
	root.GET("/data", api.Data)
	root.GET("/feature/:column/summary", api.FeatureSummary)

	overview := root.Group("/dashboard/overview")
	overview.GET("/kpis", api.OverviewKPIs)
	overview.GET("/timeseries_orders", api.OrdersTimeseries)
	overview.GET("/by_platform", api.OrdersByPlatform)
	overview.GET("/status_distribution", api.StatusDistribution)
	overview.GET("/macro_bairro_avg_receita", api.AvgRevenueByRegion)
	overview.GET("/orders_by_hour", api.OrdersByHour)
	overview.GET("/orders_by_weekday", api.OrdersByWeekday)

	finance := root.Group("/dashboard/finance")
	finance.GET("/kpis", api.FinanceKPIs)
	finance.GET("/timeseries_revenue", api.RevenueTimeseries)
	finance.GET("/margin_by_platform", api.MarginByPlatform)
	finance.GET("/revenue_by_class", api.RevenueByClass)
	finance.GET("/top_clients", api.TopClients)
	finance.GET("/ticket_histogram", api.TicketHistogram)

	ops := root.Group("/dashboard/ops")
	ops.GET("/kpis", api.OperationalKPIs)
	ops.GET("/timeseries_delivery", api.DeliveryTimeseries)
	ops.GET("/delivery_by_macro", api.DeliveryByRegion)
	ops.GET("/heatmap_delay_by_macro", api.DelayByRegion)
	ops.GET("/scatter_distance_vs_delivery", api.DistanceVsDelivery)
	ops.GET("/late_rate_by_platform", api.LateRateByPlatform)
	ops.GET("/late_rate_by_macro", api.LateRateByRegion)

	satisfaction := root.Group("/dashboard/satisfaction")
	satisfaction.GET("/kpis", api.SatisfactionKPIs)
	satisfaction.GET("/by_macro_bairro", api.SatisfactionByRegion)
	satisfaction.GET("/scatter_time_vs_score", api.TimeVsScore)
	satisfaction.GET("/timeseries", api.SatisfactionTimeseries)
	satisfaction.GET("/heatmap_platform", api.SatisfactionByPlatform)

	meta := root.Group("/dashboard/meta")
	meta.GET("/platforms", api.Platforms)
	meta.GET("/macros", api.MacroBairros)
	meta.GET("/classes", api.OrderClasses)
	meta.GET("/date_range", api.DateRange)

	api.router.GET("/metrics", metricsHandler())
}
