package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"hermannm.dev/orderstats/query"
)

func (api *DashboardAPI) Health(ctx echo.Context) error {
	rows := 0
	status := "loading"
	if data := api.Dataset(); data != nil {
		rows = data.NumRows()
		status = "ok"
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"status": status,
		"rows":   rows,
		"file":   api.config.DataFile,
	})
}

func (api *DashboardAPI) Columns(ctx echo.Context) error {
	data := api.Dataset()
	if data == nil {
		return sendError(ctx, query.ErrNotLoaded)
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"columns": data.ColumnNames(),
		"dtypes":  data.DataTypes(),
	})
}

func (api *DashboardAPI) Count(ctx echo.Context) error {
	criteria, err := decodeCriteria(ctx)
	if err != nil {
		return sendError(ctx, err)
	}

	page, err := query.GetDataPage(
		api.Dataset(),
		criteria,
		decodeOverrides(ctx),
		query.DataPageParams{SearchTerm: ctx.QueryParam("q"), Limit: 1},
	)
	if err != nil {
		return sendError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]any{"count": page.Meta.Total})
}

func (api *DashboardAPI) Data(ctx echo.Context) error {
	criteria, err := decodeCriteria(ctx)
	if err != nil {
		return sendError(ctx, err)
	}

	offset, err := intParam(ctx, "offset", 0)
	if err != nil {
		return sendError(ctx, err)
	}
	limit, err := intParam(ctx, "limit", 200)
	if err != nil {
		return sendError(ctx, err)
	}

	params := query.DataPageParams{
		SearchTerm: ctx.QueryParam("q"),
		Columns:    ctx.QueryParams()["columns"],
		SortBy:     ctx.QueryParam("sort"),
		Descending: ctx.QueryParam("order") != "1",
		Offset:     offset,
		Limit:      limit,
	}

	page, err := query.GetDataPage(api.Dataset(), criteria, decodeOverrides(ctx), params)
	if err != nil {
		return sendError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, page)
}

func (api *DashboardAPI) FeatureSummary(ctx echo.Context) error {
	summary, err := query.GetFeatureSummary(api.Dataset(), ctx.Param("column"))
	if err != nil {
		return sendError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, summary)
}
