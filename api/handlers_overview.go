package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"hermannm.dev/orderstats/query"
)

func (api *DashboardAPI) OverviewKPIs(ctx echo.Context) error {
	criteria, err := decodeCriteria(ctx)
	if err != nil {
		return sendError(ctx, err)
	}

	kpis, err := query.GetOverviewKPIs(api.Dataset(), criteria, decodeOverrides(ctx))
	if err != nil {
		return sendError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, kpis)
}

func (api *DashboardAPI) OrdersTimeseries(ctx echo.Context) error {
	criteria, err := decodeCriteria(ctx)
	if err != nil {
		return sendError(ctx, err)
	}
	freq, err := decodeFreq(ctx)
	if err != nil {
		return sendError(ctx, err)
	}

	points, err := query.GetOrdersTimeseries(api.Dataset(), criteria, decodeOverrides(ctx), freq)
	if err != nil {
		return sendError(ctx, err)
	}
	return sendData(ctx, points)
}

func (api *DashboardAPI) OrdersByPlatform(ctx echo.Context) error {
	criteria, err := decodeCriteria(ctx)
	if err != nil {
		return sendError(ctx, err)
	}

	results, err := query.GetOrdersByPlatform(api.Dataset(), criteria, decodeOverrides(ctx))
	if err != nil {
		return sendError(ctx, err)
	}
	return sendData(ctx, results)
}

func (api *DashboardAPI) StatusDistribution(ctx echo.Context) error {
	criteria, err := decodeCriteria(ctx)
	if err != nil {
		return sendError(ctx, err)
	}

	results, err := query.GetStatusDistribution(api.Dataset(), criteria, decodeOverrides(ctx))
	if err != nil {
		return sendError(ctx, err)
	}
	return sendData(ctx, results)
}

func (api *DashboardAPI) AvgRevenueByRegion(ctx echo.Context) error {
	criteria, err := decodeCriteria(ctx)
	if err != nil {
		return sendError(ctx, err)
	}

	results, err := query.GetAvgRevenueByRegion(api.Dataset(), criteria, decodeOverrides(ctx))
	if err != nil {
		return sendError(ctx, err)
	}
	return sendData(ctx, results)
}

func (api *DashboardAPI) OrdersByHour(ctx echo.Context) error {
	criteria, err := decodeCriteria(ctx)
	if err != nil {
		return sendError(ctx, err)
	}

	results, err := query.GetOrdersByHour(api.Dataset(), criteria, decodeOverrides(ctx))
	if err != nil {
		return sendError(ctx, err)
	}
	return sendData(ctx, results)
}

func (api *DashboardAPI) OrdersByWeekday(ctx echo.Context) error {
	criteria, err := decodeCriteria(ctx)
	if err != nil {
		return sendError(ctx, err)
	}

	results, err := query.GetOrdersByWeekday(api.Dataset(), criteria, decodeOverrides(ctx))
	if err != nil {
		return sendError(ctx, err)
	}
	return sendData(ctx, results)
}
