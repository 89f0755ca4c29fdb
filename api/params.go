package api

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"hermannm.dev/orderstats/query"
)

// decodeCriteria reads the shared filter parameters from the request's query string.
// Absent parameters leave their criterion unset; malformed values are client errors
// surfaced before any aggregation runs.
func decodeCriteria(ctx echo.Context) (query.Criteria, error) {
	criteria := query.Criteria{
		StartDate:    ctx.QueryParam("start_date"),
		EndDate:      ctx.QueryParam("end_date"),
		Platforms:    ctx.QueryParams()["platform"],
		MacroBairros: ctx.QueryParams()["macro_bairro"],
		OrderClasses: ctx.QueryParams()["classe_pedido"],
	}

	var err error
	if criteria.ScoreMin, err = floatParam(ctx, "score_min"); err != nil {
		return query.Criteria{}, err
	}
	if criteria.ScoreMax, err = floatParam(ctx, "score_max"); err != nil {
		return query.Criteria{}, err
	}

	if criteria.DeliveryStatus, err = query.ParseDeliveryStatus(
		ctx.QueryParam("delivery_status"),
	); err != nil {
		return query.Criteria{}, err
	}

	// threshold_min and grace_min are aliases; threshold_min wins when both are set.
	if criteria.ThresholdMinutes, err = floatParam(ctx, "threshold_min"); err != nil {
		return query.Criteria{}, err
	}
	if criteria.ThresholdMinutes == nil {
		if criteria.ThresholdMinutes, err = floatParam(ctx, "grace_min"); err != nil {
			return query.Criteria{}, err
		}
	}

	return criteria, nil
}

func decodeOverrides(ctx echo.Context) query.ColumnOverrides {
	return query.ColumnOverrides{
		Date:        ctx.QueryParam("date_col"),
		Platform:    ctx.QueryParam("platform_col"),
		MacroBairro: ctx.QueryParam("macro_col"),
		OrderClass:  ctx.QueryParam("class_col"),
		Status:      ctx.QueryParam("status_col"),
		Delivery:    ctx.QueryParam("delivery_col"),
		ETA:         ctx.QueryParam("eta_col"),
		Score:       ctx.QueryParam("score_col"),
		Total:       ctx.QueryParam("total_col"),
		Items:       ctx.QueryParam("items_col"),
		Prep:        ctx.QueryParam("prep_col"),
		Distance:    ctx.QueryParam("distance_col"),
		Commission:  ctx.QueryParam("pct_col"),
		Client:      ctx.QueryParam("client_col"),
	}
}

func decodeFreq(ctx echo.Context) (query.Freq, error) {
	return query.ParseFreq(ctx.QueryParam("freq"))
}

func floatParam(ctx echo.Context, name string) (*float64, error) {
	value := ctx.QueryParam(name)
	if value == "" {
		return nil, nil
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, query.InvalidFilterValueError{Param: name, Reason: "must be a number"}
	}
	return &parsed, nil
}

func intParam(ctx echo.Context, name string, defaultValue int) (int, error) {
	value := ctx.QueryParam(name)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, query.InvalidFilterValueError{Param: name, Reason: "must be an integer"}
	}
	return parsed, nil
}
