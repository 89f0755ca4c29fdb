package query

import (
	"sort"

	"hermannm.dev/orderstats/dataset"
)

// The meta operations feed the dashboard's filter dropdowns with the values present
// in the loaded dataset.

func GetPlatforms(data *dataset.Dataset, overrides ColumnOverrides) ([]string, error) {
	return distinctValues(data, overrides.Platform, FieldPlatform)
}

func GetMacroBairros(data *dataset.Dataset, overrides ColumnOverrides) ([]string, error) {
	return distinctValues(data, overrides.MacroBairro, FieldMacroBairro)
}

func GetOrderClasses(data *dataset.Dataset, overrides ColumnOverrides) ([]string, error) {
	return distinctValues(data, overrides.OrderClass, FieldOrderClass)
}

func distinctValues(
	data *dataset.Dataset,
	override string,
	field LogicalField,
) ([]string, error) {
	if data == nil {
		return nil, ErrNotLoaded
	}

	columnName, ok := ResolveColumn(data, override, field)
	if !ok {
		return nil, columnNotFound(field)
	}

	values, _ := data.Text(columnName)
	seen := make(map[string]bool)
	distinct := make([]string, 0)
	for _, value := range values {
		if value != "" && !seen[value] {
			seen[value] = true
			distinct = append(distinct, value)
		}
	}

	sort.Strings(distinct)
	return distinct, nil
}

func GetDateRange(data *dataset.Dataset, overrides ColumnOverrides) (*Period, error) {
	if data == nil {
		return nil, ErrNotLoaded
	}

	dateColumn, ok := resolveDateColumn(data, overrides.Date)
	if !ok {
		return nil, columnNotFound(FieldOrderDateTime)
	}

	times, _ := data.Times(dateColumn)
	return observedPeriod(times), nil
}
