package query

import (
	"time"

	"hermannm.dev/orderstats/dataset"
	"hermannm.dev/wrap"
)

// Criteria is the set of optional filter parameters shared by every aggregation
// endpoint. Each criterion applies only when supplied; a supplied criterion whose
// column cannot be resolved is a client error, never a silent skip.
type Criteria struct {
	StartDate      string
	EndDate        string
	Platforms      []string
	MacroBairros   []string
	OrderClasses   []string
	ScoreMin       *float64
	ScoreMax       *float64
	DeliveryStatus DeliveryStatus
	// ThresholdMinutes is the grace period for the late/on-time classification,
	// in minutes. Defaults to 0: any delivery past its ETA counts as late.
	ThresholdMinutes *float64
}

func (criteria Criteria) IsEmpty() bool {
	return criteria.StartDate == "" &&
		criteria.EndDate == "" &&
		len(criteria.Platforms) == 0 &&
		len(criteria.MacroBairros) == 0 &&
		len(criteria.OrderClasses) == 0 &&
		criteria.ScoreMin == nil &&
		criteria.ScoreMax == nil &&
		criteria.DeliveryStatus == 0
}

func (criteria Criteria) threshold() float64 {
	if criteria.ThresholdMinutes != nil {
		return *criteria.ThresholdMinutes
	}
	return 0
}

// ColumnOverrides carries the caller's explicit column names for logical fields. An
// override that names an existing column always wins over alias resolution.
type ColumnOverrides struct {
	Date        string
	Platform    string
	MacroBairro string
	OrderClass  string
	Status      string
	Delivery    string
	ETA         string
	Score       string
	Total       string
	Items       string
	Prep        string
	Distance    string
	Commission  string
	Client      string
}

// ResolvedColumns holds the physical columns the filter engine resolved, so
// operations reuse them instead of resolving again. Blank means unresolved, which is
// only an error when something actually needs the column.
type ResolvedColumns struct {
	Date        string
	Platform    string
	MacroBairro string
	OrderClass  string
	Delivery    string
	ETA         string
	Score       string
}

func resolveFilterColumns(data *dataset.Dataset, overrides ColumnOverrides) ResolvedColumns {
	var resolved ResolvedColumns
	resolved.Date, _ = resolveDateColumn(data, overrides.Date)
	resolved.Platform, _ = ResolveColumn(data, overrides.Platform, FieldPlatform)
	resolved.MacroBairro, _ = ResolveColumn(data, overrides.MacroBairro, FieldMacroBairro)
	resolved.OrderClass, _ = ResolveColumn(data, overrides.OrderClass, FieldOrderClass)
	resolved.Delivery, _ = ResolveColumn(data, overrides.Delivery, FieldDeliveryMinutes)
	resolved.ETA, _ = ResolveColumn(data, overrides.ETA, FieldETAMinutes)
	resolved.Score, _ = ResolveColumn(data, overrides.Score, FieldSatisfactionScore)
	return resolved
}

// Natural limits of the satisfaction score domain, used to default an open-ended
// score range.
const (
	scoreDomainMin = 1
	scoreDomainMax = 5
)

// ApplyFilters narrows the dataset to the rows matching every supplied criterion.
// Criteria compose by intersection, so their evaluation order does not affect the
// result. The resolved columns are returned alongside the narrowed dataset so that
// operations don't resolve them a second time.
func ApplyFilters(
	data *dataset.Dataset,
	criteria Criteria,
	overrides ColumnOverrides,
) (*dataset.Dataset, ResolvedColumns, error) {
	resolved := resolveFilterColumns(data, overrides)
	if criteria.IsEmpty() {
		return data, resolved, nil
	}

	keep := make([]bool, data.NumRows())
	for i := range keep {
		keep[i] = true
	}

	if err := filterDateRange(data, criteria, resolved, keep); err != nil {
		return nil, ResolvedColumns{}, err
	}

	memberships := []struct {
		field    LogicalField
		column   string
		accepted []string
	}{
		{FieldPlatform, resolved.Platform, criteria.Platforms},
		{FieldMacroBairro, resolved.MacroBairro, criteria.MacroBairros},
		{FieldOrderClass, resolved.OrderClass, criteria.OrderClasses},
	}
	for _, membership := range memberships {
		if err := filterMembership(
			data, membership.field, membership.column, membership.accepted, keep,
		); err != nil {
			return nil, ResolvedColumns{}, err
		}
	}

	if err := filterScoreRange(data, criteria, resolved, keep); err != nil {
		return nil, ResolvedColumns{}, err
	}

	if err := filterDeliveryStatus(data, criteria, resolved, keep); err != nil {
		return nil, ResolvedColumns{}, err
	}

	rowIndices := make([]int, 0, data.NumRows())
	for i, keepRow := range keep {
		if keepRow {
			rowIndices = append(rowIndices, i)
		}
	}

	filtered, err := data.Take(rowIndices)
	if err != nil {
		return nil, ResolvedColumns{}, wrap.Error(err, "failed to narrow dataset to filtered rows")
	}

	return filtered, resolved, nil
}

const dateParamLayout = "2006-01-02"

func filterDateRange(
	data *dataset.Dataset,
	criteria Criteria,
	resolved ResolvedColumns,
	keep []bool,
) error {
	if criteria.StartDate == "" && criteria.EndDate == "" {
		return nil
	}
	if resolved.Date == "" {
		return columnNotFound(FieldOrderDateTime)
	}

	var start, end time.Time
	if criteria.StartDate != "" {
		parsed, err := time.Parse(dateParamLayout, criteria.StartDate)
		if err != nil {
			return InvalidFilterValueError{
				Param: "start_date", Reason: "invalid date, expected yyyy-mm-dd",
			}
		}
		start = parsed
	}
	if criteria.EndDate != "" {
		parsed, err := time.Parse(dateParamLayout, criteria.EndDate)
		if err != nil {
			return InvalidFilterValueError{
				Param: "end_date", Reason: "invalid date, expected yyyy-mm-dd",
			}
		}
		// The range is inclusive, so the bound covers the whole end day.
		end = parsed.AddDate(0, 0, 1)
	}

	times, _ := data.Times(resolved.Date)
	for i := range keep {
		if !keep[i] {
			continue
		}
		// Rows with missing datetime values are excluded from a date-bounded query.
		if !times.Valid[i] {
			keep[i] = false
			continue
		}
		if criteria.StartDate != "" && times.Values[i].Before(start) {
			keep[i] = false
		}
		if criteria.EndDate != "" && !times.Values[i].Before(end) {
			keep[i] = false
		}
	}

	return nil
}

func filterMembership(
	data *dataset.Dataset,
	field LogicalField,
	columnName string,
	accepted []string,
	keep []bool,
) error {
	if len(accepted) == 0 {
		return nil
	}
	if columnName == "" {
		return columnNotFound(field)
	}

	acceptedSet := make(map[string]bool, len(accepted))
	for _, value := range accepted {
		acceptedSet[value] = true
	}

	values, _ := data.Text(columnName)
	for i := range keep {
		if keep[i] && !acceptedSet[values[i]] {
			keep[i] = false
		}
	}

	return nil
}

func filterScoreRange(
	data *dataset.Dataset,
	criteria Criteria,
	resolved ResolvedColumns,
	keep []bool,
) error {
	if criteria.ScoreMin == nil && criteria.ScoreMax == nil {
		return nil
	}

	min := float64(scoreDomainMin)
	max := float64(scoreDomainMax)
	if criteria.ScoreMin != nil {
		min = *criteria.ScoreMin
	}
	if criteria.ScoreMax != nil {
		max = *criteria.ScoreMax
	}
	if min > max {
		return InvalidFilterValueError{
			Param: "score_min", Reason: "score_min is greater than score_max",
		}
	}

	if resolved.Score == "" {
		return columnNotFound(FieldSatisfactionScore)
	}

	scores, _ := data.Numeric(resolved.Score)
	for i := range keep {
		if !keep[i] {
			continue
		}
		if !scores.Valid[i] || scores.Values[i] < min || scores.Values[i] > max {
			keep[i] = false
		}
	}

	return nil
}

func filterDeliveryStatus(
	data *dataset.Dataset,
	criteria Criteria,
	resolved ResolvedColumns,
	keep []bool,
) error {
	if criteria.DeliveryStatus == 0 {
		return nil
	}
	if !criteria.DeliveryStatus.IsValid() {
		return InvalidFilterValueError{
			Param: "delivery_status", Reason: "must be 'atrasado' or 'no_prazo'",
		}
	}

	var missing []LogicalField
	if resolved.Delivery == "" {
		missing = append(missing, FieldDeliveryMinutes)
	}
	if resolved.ETA == "" {
		missing = append(missing, FieldETAMinutes)
	}
	if len(missing) > 0 {
		return columnNotFound(missing...)
	}

	deliveries, _ := data.Numeric(resolved.Delivery)
	etas, _ := data.Numeric(resolved.ETA)
	threshold := criteria.threshold()

	for i := range keep {
		if !keep[i] {
			continue
		}
		if !deliveries.Valid[i] || !etas.Valid[i] {
			keep[i] = false
			continue
		}

		late := deliveries.Values[i]-etas.Values[i] > threshold
		if criteria.DeliveryStatus == DeliveryStatusLate {
			keep[i] = late
		} else {
			keep[i] = !late
		}
	}

	return nil
}
