package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"hermannm.dev/devlog/log"
	"hermannm.dev/orderstats/query"
)

type dataEnvelope struct {
	Data any `json:"data"`
}

func sendData(ctx echo.Context, rows any) error {
	return ctx.JSON(http.StatusOK, dataEnvelope{Data: rows})
}

type errorResponse struct {
	Error string `json:"error"`
}

// sendError maps errors from the query layer to HTTP statuses: client input errors
// carry their own status, everything else (including "dataset not loaded") is a 500.
func sendError(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError

	var statusErr interface{ HTTPStatus() int }
	if !errors.Is(err, query.ErrNotLoaded) && errors.As(err, &statusErr) {
		status = statusErr.HTTPStatus()
	}

	if status == http.StatusInternalServerError {
		log.ErrorCause(err, "request failed")
	}

	return ctx.JSON(status, errorResponse{Error: err.Error()})
}
