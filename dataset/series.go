package dataset

import (
	"strconv"
	"strings"
	"time"
)

// NumericSeries holds a column coerced to floating-point values, aligned with row
// order. Values[i] is only meaningful where Valid[i] is true; fields that failed to
// parse as numbers are missing, not errors.
type NumericSeries struct {
	Values []float64
	Valid  []bool
}

// TimeSeries holds a column coerced to the datetime domain, aligned with row order.
// Unparseable fields are missing, not errors.
type TimeSeries struct {
	Values []time.Time
	Valid  []bool
}

// Numeric coerces the named column to numbers. Fields that cannot parse become
// missing values, so the same physical column can be treated as numeric in one query
// and as text in another.
func (data *Dataset) Numeric(columnName string) (NumericSeries, bool) {
	index, ok := data.columnIndex[columnName]
	if !ok {
		return NumericSeries{}, false
	}

	column := data.columns[index]
	series := NumericSeries{
		Values: make([]float64, len(column.values)),
		Valid:  make([]bool, len(column.values)),
	}
	for i, value := range column.values {
		series.Values[i], series.Valid[i] = parseNumber(value)
	}

	return series, true
}

// Times coerces the named column to datetimes. Columns deduced as Timestamp at load
// time reuse their pre-parsed values instead of reparsing.
func (data *Dataset) Times(columnName string) (TimeSeries, bool) {
	index, ok := data.columnIndex[columnName]
	if !ok {
		return TimeSeries{}, false
	}

	column := data.columns[index]
	if column.times != nil {
		return TimeSeries{Values: column.times, Valid: column.timesValid}, true
	}

	series := TimeSeries{
		Values: make([]time.Time, len(column.values)),
		Valid:  make([]bool, len(column.values)),
	}
	for i, value := range column.values {
		series.Values[i], series.Valid[i] = parseTime(value)
	}

	return series, true
}

func parseNumber(field string) (float64, bool) {
	if field == "" {
		return 0, false
	}

	number, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil {
		return 0, false
	}
	return number, true
}

// Layouts tried when parsing datetime fields, from most to least specific. Both
// RFC3339 exports and the date formats spreadsheet tools produce are covered.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
}

func parseTime(field string) (time.Time, bool) {
	field = strings.TrimSpace(field)
	if field == "" {
		return time.Time{}, false
	}

	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, field); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
