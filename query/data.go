package query

import (
	"sort"
	"strings"

	"hermannm.dev/orderstats/dataset"
)

// DataPage is one page of raw rows from the (optionally filtered) dataset, for the
// dashboard's table view.
type DataPage struct {
	Meta DataPageMeta     `json:"meta"`
	Rows []map[string]any `json:"data"`
}

type DataPageMeta struct {
	Total    int      `json:"total"`
	Returned int      `json:"returned"`
	Offset   int      `json:"offset"`
	Limit    int      `json:"limit"`
	Columns  []string `json:"columns"`
	SortedBy string   `json:"sorted_by,omitempty"`
	Order    string   `json:"order,omitempty"`
}

type DataPageParams struct {
	// SearchTerm matches rows where any text column contains it, case-insensitively.
	SearchTerm string
	// Columns restricts which columns are returned; empty means all.
	Columns []string
	SortBy  string
	// Descending applies to SortBy; ignored when SortBy is blank.
	Descending bool
	Offset     int
	Limit      int
}

func GetDataPage(
	data *dataset.Dataset,
	criteria Criteria,
	overrides ColumnOverrides,
	params DataPageParams,
) (DataPage, error) {
	if data == nil {
		return DataPage{}, ErrNotLoaded
	}
	data, _, err := ApplyFilters(data, criteria, overrides)
	if err != nil {
		return DataPage{}, err
	}

	rowIndices := searchRows(data, params.SearchTerm)
	total := len(rowIndices)

	columns := data.ColumnNames()
	if len(params.Columns) > 0 {
		for _, columnName := range params.Columns {
			if !data.HasColumn(columnName) {
				return DataPage{}, InvalidColumnError{Column: columnName}
			}
		}
		columns = params.Columns
	}

	if params.SortBy != "" {
		if !data.HasColumn(params.SortBy) {
			return DataPage{}, InvalidColumnError{Column: params.SortBy}
		}
		sortRows(data, params, rowIndices)
	}

	if params.Limit <= 0 {
		params.Limit = 200
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	start := params.Offset
	if start > total {
		start = total
	}
	end := start + params.Limit
	if end > total {
		end = total
	}

	rows := make([]map[string]any, 0, end-start)
	for _, rowIndex := range rowIndices[start:end] {
		fullRow := data.Row(rowIndex)
		row := make(map[string]any, len(columns))
		for _, columnName := range columns {
			row[columnName] = fullRow[columnName]
		}
		rows = append(rows, row)
	}

	order := ""
	if params.SortBy != "" {
		if params.Descending {
			order = "desc"
		} else {
			order = "asc"
		}
	}

	return DataPage{
		Meta: DataPageMeta{
			Total:    total,
			Returned: len(rows),
			Offset:   params.Offset,
			Limit:    params.Limit,
			Columns:  columns,
			SortedBy: params.SortBy,
			Order:    order,
		},
		Rows: rows,
	}, nil
}

// sortRows orders the page's rows by the sort column: numerically for numeric
// columns, with missing values sorted last, and by text otherwise.
func sortRows(data *dataset.Dataset, params DataPageParams, rowIndices []int) {
	dataType := data.DataTypes()[params.SortBy]
	if dataType == dataset.DataTypeInt || dataType == dataset.DataTypeFloat {
		series, _ := data.Numeric(params.SortBy)
		sort.SliceStable(rowIndices, func(i, j int) bool {
			a, b := rowIndices[i], rowIndices[j]
			if series.Valid[a] != series.Valid[b] {
				return series.Valid[a]
			}
			if !series.Valid[a] {
				return false
			}
			if params.Descending {
				return series.Values[a] > series.Values[b]
			}
			return series.Values[a] < series.Values[b]
		})
		return
	}

	values, _ := data.Text(params.SortBy)
	sort.SliceStable(rowIndices, func(i, j int) bool {
		if params.Descending {
			return values[rowIndices[i]] > values[rowIndices[j]]
		}
		return values[rowIndices[i]] < values[rowIndices[j]]
	})
}

func searchRows(data *dataset.Dataset, searchTerm string) []int {
	rowIndices := make([]int, 0, data.NumRows())

	if searchTerm == "" {
		for i := 0; i < data.NumRows(); i++ {
			rowIndices = append(rowIndices, i)
		}
		return rowIndices
	}

	searchTerm = strings.ToLower(searchTerm)
	textColumns := make([][]string, 0)
	for columnName, dataType := range data.DataTypes() {
		if dataType == dataset.DataTypeText {
			values, _ := data.Text(columnName)
			textColumns = append(textColumns, values)
		}
	}

	for i := 0; i < data.NumRows(); i++ {
		for _, values := range textColumns {
			if strings.Contains(strings.ToLower(values[i]), searchTerm) {
				rowIndices = append(rowIndices, i)
				break
			}
		}
	}
	return rowIndices
}

// FeatureSummary describes one column: quantile statistics for numeric columns, the
// most frequent values otherwise.
type FeatureSummary struct {
	Column    string          `json:"column"`
	Type      string          `json:"type"`
	Summary   *NumericSummary `json:"summary,omitempty"`
	TopCounts []ValueCount    `json:"top_counts,omitempty"`
}

type NumericSummary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	P25   float64 `json:"25%"`
	P50   float64 `json:"50%"`
	P75   float64 `json:"75%"`
	Max   float64 `json:"max"`
}

type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

const maxTopCounts = 20

func GetFeatureSummary(data *dataset.Dataset, columnName string) (FeatureSummary, error) {
	if data == nil {
		return FeatureSummary{}, ErrNotLoaded
	}
	if !data.HasColumn(columnName) {
		return FeatureSummary{}, InvalidColumnError{Column: columnName}
	}

	dataType := data.DataTypes()[columnName]
	if dataType == dataset.DataTypeInt || dataType == dataset.DataTypeFloat {
		series, _ := data.Numeric(columnName)
		values := validValues(series)

		summary := &NumericSummary{
			Count: len(values),
			Mean:  meanSeries(series),
			Std:   stddev(values),
			P25:   quantile(values, 0.25),
			P50:   quantile(values, 0.50),
			P75:   quantile(values, 0.75),
		}
		if len(values) > 0 {
			summary.Min = quantile(values, 0)
			summary.Max = quantile(values, 1)
		}

		return FeatureSummary{Column: columnName, Type: "numeric", Summary: summary}, nil
	}

	values, _ := data.Text(columnName)
	groups := groupRowsByText(values)
	counts := make([]ValueCount, len(groups))
	for i, group := range groups {
		counts[i] = ValueCount{Value: group.Key, Count: len(group.RowIndices)}
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	if len(counts) > maxTopCounts {
		counts = counts[:maxTopCounts]
	}

	return FeatureSummary{Column: columnName, Type: "categorical", TopCounts: counts}, nil
}
