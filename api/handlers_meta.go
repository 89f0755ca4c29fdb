package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"hermannm.dev/orderstats/query"
)

func (api *DashboardAPI) Platforms(ctx echo.Context) error {
	values, err := query.GetPlatforms(api.Dataset(), decodeOverrides(ctx))
	if err != nil {
		return sendError(ctx, err)
	}
	return sendData(ctx, values)
}

func (api *DashboardAPI) MacroBairros(ctx echo.Context) error {
	values, err := query.GetMacroBairros(api.Dataset(), decodeOverrides(ctx))
	if err != nil {
		return sendError(ctx, err)
	}
	return sendData(ctx, values)
}

func (api *DashboardAPI) OrderClasses(ctx echo.Context) error {
	values, err := query.GetOrderClasses(api.Dataset(), decodeOverrides(ctx))
	if err != nil {
		return sendError(ctx, err)
	}
	return sendData(ctx, values)
}

func (api *DashboardAPI) DateRange(ctx echo.Context) error {
	period, err := query.GetDateRange(api.Dataset(), decodeOverrides(ctx))
	if err != nil {
		return sendError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, map[string]any{"periodo": period})
}
