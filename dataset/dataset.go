// Package dataset implements the in-memory table that all dashboard queries read
// from. A Dataset is loaded once at startup and never mutated afterwards: every
// narrowing operation produces a new Dataset, so concurrent requests need no
// synchronization.
package dataset

import (
	"fmt"
	"time"
)

type Dataset struct {
	columns     []column
	columnIndex map[string]int
	numRows     int
}

type column struct {
	name     string
	dataType DataType
	// Raw field values as they appeared in the source file, blank for empty cells.
	// Coercion to numeric/datetime domains happens lazily, per use.
	values []string
	// Pre-parsed values for columns deduced as Timestamp, so repeated datetime
	// coercions don't reparse.
	times      []time.Time
	timesValid []bool
}

// FromRecords builds a Dataset from a header row and data rows, deducing a data type
// for every column. Rows shorter than the header are padded with blanks; longer rows
// are an error.
func FromRecords(header []string, rows [][]string) (*Dataset, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("dataset must have at least one column")
	}

	columns := make([]column, len(header))
	columnIndex := make(map[string]int, len(header))
	for i, name := range header {
		if name == "" {
			return nil, fmt.Errorf("column %d has blank name", i+1)
		}
		if _, duplicate := columnIndex[name]; duplicate {
			return nil, fmt.Errorf("duplicate column name '%s'", name)
		}

		columns[i] = column{name: name, values: make([]string, 0, len(rows))}
		columnIndex[name] = i
	}

	for rowNumber, row := range rows {
		if len(row) > len(header) {
			return nil, fmt.Errorf(
				"row %d has %d fields, but there are only %d columns",
				rowNumber+1,
				len(row),
				len(header),
			)
		}

		for i := range columns {
			field := ""
			if i < len(row) {
				field = row[i]
			}
			columns[i].values = append(columns[i].values, field)
			columns[i].dataType = deduceColumnType(columns[i].dataType, field)
		}
	}

	for i := range columns {
		if columns[i].dataType == 0 {
			// Column with only blank values
			columns[i].dataType = DataTypeText
		}
		if columns[i].dataType == DataTypeTimestamp {
			columns[i].parseTimes()
		}
	}

	return &Dataset{columns: columns, columnIndex: columnIndex, numRows: len(rows)}, nil
}

func (column *column) parseTimes() {
	column.times = make([]time.Time, len(column.values))
	column.timesValid = make([]bool, len(column.values))
	for i, value := range column.values {
		column.times[i], column.timesValid[i] = parseTime(value)
	}
}

func (data *Dataset) NumRows() int {
	return data.numRows
}

func (data *Dataset) ColumnNames() []string {
	names := make([]string, len(data.columns))
	for i, column := range data.columns {
		names[i] = column.name
	}
	return names
}

func (data *Dataset) DataTypes() map[string]DataType {
	dataTypes := make(map[string]DataType, len(data.columns))
	for _, column := range data.columns {
		dataTypes[column.name] = column.dataType
	}
	return dataTypes
}

func (data *Dataset) HasColumn(name string) bool {
	_, ok := data.columnIndex[name]
	return ok
}

// Text returns the column's values converted to text, aligned with row order.
// Blank fields stay blank.
func (data *Dataset) Text(columnName string) ([]string, bool) {
	index, ok := data.columnIndex[columnName]
	if !ok {
		return nil, false
	}
	return data.columns[index].values, true
}

// Row returns the values of a single row, keyed by column name. Cells of numeric
// columns are converted to numbers, with nil for missing values; other cells keep
// their source text.
func (data *Dataset) Row(rowIndex int) map[string]any {
	row := make(map[string]any, len(data.columns))
	for _, column := range data.columns {
		row[column.name] = column.cell(rowIndex)
	}
	return row
}

func (column *column) cell(rowIndex int) any {
	if column.dataType == DataTypeInt || column.dataType == DataTypeFloat {
		if number, ok := parseNumber(column.values[rowIndex]); ok {
			return number
		}
		return nil
	}
	return column.values[rowIndex]
}

// Take produces a new Dataset containing only the given rows, in the given order.
// The receiver is left untouched.
func (data *Dataset) Take(rowIndices []int) (*Dataset, error) {
	columns := make([]column, len(data.columns))

	for i, original := range data.columns {
		narrowed := column{
			name:     original.name,
			dataType: original.dataType,
			values:   make([]string, len(rowIndices)),
		}
		if original.times != nil {
			narrowed.times = make([]time.Time, len(rowIndices))
			narrowed.timesValid = make([]bool, len(rowIndices))
		}

		for j, rowIndex := range rowIndices {
			if rowIndex < 0 || rowIndex >= data.numRows {
				return nil, fmt.Errorf(
					"row index %d out of range for dataset with %d rows", rowIndex, data.numRows,
				)
			}

			narrowed.values[j] = original.values[rowIndex]
			if original.times != nil {
				narrowed.times[j] = original.times[rowIndex]
				narrowed.timesValid[j] = original.timesValid[rowIndex]
			}
		}

		columns[i] = narrowed
	}

	return &Dataset{columns: columns, columnIndex: data.columnIndex, numRows: len(rowIndices)}, nil
}
