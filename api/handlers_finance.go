package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"hermannm.dev/orderstats/query"
)

func (api *DashboardAPI) FinanceKPIs(ctx echo.Context) error {
	criteria, err := decodeCriteria(ctx)
	if err != nil {
		return sendError(ctx, err)
	}

	kpis, err := query.GetFinanceKPIs(api.Dataset(), criteria, decodeOverrides(ctx))
	if err != nil {
		return sendError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, kpis)
}

func (api *DashboardAPI) RevenueTimeseries(ctx echo.Context) error {
	criteria, err := decodeCriteria(ctx)
	if err != nil {
		return sendError(ctx, err)
	}
	freq, err := decodeFreq(ctx)
	if err != nil {
		return sendError(ctx, err)
	}

	points, err := query.GetRevenueTimeseries(api.Dataset(), criteria, decodeOverrides(ctx), freq)
	if err != nil {
		return sendError(ctx, err)
	}
	return sendData(ctx, points)
}

func (api *DashboardAPI) MarginByPlatform(ctx echo.Context) error {
	criteria, err := decodeCriteria(ctx)
	if err != nil {
		return sendError(ctx, err)
	}

	results, err := query.GetMarginByPlatform(api.Dataset(), criteria, decodeOverrides(ctx))
	if err != nil {
		return sendError(ctx, err)
	}
	return sendData(ctx, results)
}

func (api *DashboardAPI) RevenueByClass(ctx echo.Context) error {
	criteria, err := decodeCriteria(ctx)
	if err != nil {
		return sendError(ctx, err)
	}

	results, err := query.GetRevenueByClass(api.Dataset(), criteria, decodeOverrides(ctx))
	if err != nil {
		return sendError(ctx, err)
	}
	return sendData(ctx, results)
}

func (api *DashboardAPI) TopClients(ctx echo.Context) error {
	criteria, err := decodeCriteria(ctx)
	if err != nil {
		return sendError(ctx, err)
	}
	topN, err := intParam(ctx, "top_n", 10)
	if err != nil {
		return sendError(ctx, err)
	}

	results, err := query.GetTopClients(api.Dataset(), criteria, decodeOverrides(ctx), topN)
	if err != nil {
		return sendError(ctx, err)
	}
	return sendData(ctx, results)
}

func (api *DashboardAPI) TicketHistogram(ctx echo.Context) error {
	criteria, err := decodeCriteria(ctx)
	if err != nil {
		return sendError(ctx, err)
	}
	bins, err := intParam(ctx, "bins", 10)
	if err != nil {
		return sendError(ctx, err)
	}

	buckets, err := query.GetTicketHistogram(api.Dataset(), criteria, decodeOverrides(ctx), bins)
	if err != nil {
		return sendError(ctx, err)
	}
	return sendData(ctx, buckets)
}
