package query

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotLoaded is returned when a query arrives before the dataset has been loaded.
// It is the only server-side failure in this package; everything else is caused by
// client input.
var ErrNotLoaded = errors.New("dataset not loaded")

// ColumnNotFoundError means a logical field required by the request could not be
// resolved to any column of the dataset.
type ColumnNotFoundError struct {
	Fields []LogicalField
}

func (err ColumnNotFoundError) Error() string {
	names := make([]string, len(err.Fields))
	for i, field := range err.Fields {
		names[i] = string(field)
	}
	return fmt.Sprintf("columns not found for: %s", strings.Join(names, ", "))
}

func (err ColumnNotFoundError) HTTPStatus() int {
	return http.StatusBadRequest
}

// InvalidFilterValueError means a filter parameter was supplied with a malformed or
// out-of-domain value.
type InvalidFilterValueError struct {
	Param  string
	Reason string
}

func (err InvalidFilterValueError) Error() string {
	return fmt.Sprintf("invalid value for '%s': %s", err.Param, err.Reason)
}

func (err InvalidFilterValueError) HTTPStatus() int {
	return http.StatusUnprocessableEntity
}

func columnNotFound(fields ...LogicalField) ColumnNotFoundError {
	return ColumnNotFoundError{Fields: fields}
}

// InvalidColumnError means the request named a physical column that does not exist
// in the dataset.
type InvalidColumnError struct {
	Column string
}

func (err InvalidColumnError) Error() string {
	return fmt.Sprintf("no column '%s' in dataset", err.Column)
}

func (err InvalidColumnError) HTTPStatus() int {
	return http.StatusBadRequest
}
