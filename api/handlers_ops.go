package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"hermannm.dev/orderstats/query"
)

func (api *DashboardAPI) OperationalKPIs(ctx echo.Context) error {
	criteria, err := decodeCriteria(ctx)
	if err != nil {
		return sendError(ctx, err)
	}

	kpis, err := query.GetOperationalKPIs(api.Dataset(), criteria, decodeOverrides(ctx))
	if err != nil {
		return sendError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, kpis)
}

func (api *DashboardAPI) DeliveryTimeseries(ctx echo.Context) error {
	criteria, err := decodeCriteria(ctx)
	if err != nil {
		return sendError(ctx, err)
	}
	freq, err := decodeFreq(ctx)
	if err != nil {
		return sendError(ctx, err)
	}

	points, err := query.GetDeliveryTimeseries(api.Dataset(), criteria, decodeOverrides(ctx), freq)
	if err != nil {
		return sendError(ctx, err)
	}
	return sendData(ctx, points)
}

func (api *DashboardAPI) DeliveryByRegion(ctx echo.Context) error {
	criteria, err := decodeCriteria(ctx)
	if err != nil {
		return sendError(ctx, err)
	}

	results, err := query.GetDeliveryByRegion(api.Dataset(), criteria, decodeOverrides(ctx))
	if err != nil {
		return sendError(ctx, err)
	}
	return sendData(ctx, results)
}

func (api *DashboardAPI) DelayByRegion(ctx echo.Context) error {
	criteria, err := decodeCriteria(ctx)
	if err != nil {
		return sendError(ctx, err)
	}

	results, err := query.GetDelayByRegion(api.Dataset(), criteria, decodeOverrides(ctx))
	if err != nil {
		return sendError(ctx, err)
	}
	return sendData(ctx, results)
}

func (api *DashboardAPI) DistanceVsDelivery(ctx echo.Context) error {
	criteria, err := decodeCriteria(ctx)
	if err != nil {
		return sendError(ctx, err)
	}

	points, err := query.GetDistanceVsDelivery(api.Dataset(), criteria, decodeOverrides(ctx))
	if err != nil {
		return sendError(ctx, err)
	}
	return sendData(ctx, points)
}

func (api *DashboardAPI) LateRateByPlatform(ctx echo.Context) error {
	criteria, err := decodeCriteria(ctx)
	if err != nil {
		return sendError(ctx, err)
	}

	results, err := query.GetLateRateByPlatform(api.Dataset(), criteria, decodeOverrides(ctx))
	if err != nil {
		return sendError(ctx, err)
	}
	return sendData(ctx, results)
}

func (api *DashboardAPI) LateRateByRegion(ctx echo.Context) error {
	criteria, err := decodeCriteria(ctx)
	if err != nil {
		return sendError(ctx, err)
	}

	results, err := query.GetLateRateByRegion(api.Dataset(), criteria, decodeOverrides(ctx))
	if err != nil {
		return sendError(ctx, err)
	}
	return sendData(ctx, results)
}
