package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"hermannm.dev/orderstats/query"
)

func (api *DashboardAPI) SatisfactionKPIs(ctx echo.Context) error {
	criteria, err := decodeCriteria(ctx)
	if err != nil {
		return sendError(ctx, err)
	}

	kpis, err := query.GetSatisfactionKPIs(api.Dataset(), criteria, decodeOverrides(ctx))
	if err != nil {
		return sendError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, kpis)
}

func (api *DashboardAPI) SatisfactionByRegion(ctx echo.Context) error {
	criteria, err := decodeCriteria(ctx)
	if err != nil {
		return sendError(ctx, err)
	}

	results, err := query.GetSatisfactionByRegion(api.Dataset(), criteria, decodeOverrides(ctx))
	if err != nil {
		return sendError(ctx, err)
	}
	return sendData(ctx, results)
}

func (api *DashboardAPI) TimeVsScore(ctx echo.Context) error {
	criteria, err := decodeCriteria(ctx)
	if err != nil {
		return sendError(ctx, err)
	}

	points, err := query.GetTimeVsScore(api.Dataset(), criteria, decodeOverrides(ctx))
	if err != nil {
		return sendError(ctx, err)
	}
	return sendData(ctx, points)
}

func (api *DashboardAPI) SatisfactionTimeseries(ctx echo.Context) error {
	criteria, err := decodeCriteria(ctx)
	if err != nil {
		return sendError(ctx, err)
	}
	freq, err := decodeFreq(ctx)
	if err != nil {
		return sendError(ctx, err)
	}

	points, err := query.GetSatisfactionTimeseries(
		api.Dataset(), criteria, decodeOverrides(ctx), freq,
	)
	if err != nil {
		return sendError(ctx, err)
	}
	return sendData(ctx, points)
}

func (api *DashboardAPI) SatisfactionByPlatform(ctx echo.Context) error {
	criteria, err := decodeCriteria(ctx)
	if err != nil {
		return sendError(ctx, err)
	}

	results, err := query.GetSatisfactionByPlatform(api.Dataset(), criteria, decodeOverrides(ctx))
	if err != nil {
		return sendError(ctx, err)
	}
	return sendData(ctx, results)
}
