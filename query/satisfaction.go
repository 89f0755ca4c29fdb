package query

import (
	"sort"

	"hermannm.dev/orderstats/dataset"
)

type SatisfactionKPIs struct {
	NivelMedio float64 `json:"nivel_medio"`
	// Share of orders with a score of 4.5 or higher, in percent.
	PctMuitoSatisfeitos float64 `json:"%_muito_satisfeitos"`
}

const verySatisfiedThreshold = 4.5

func GetSatisfactionKPIs(
	data *dataset.Dataset,
	criteria Criteria,
	overrides ColumnOverrides,
) (SatisfactionKPIs, error) {
	if data == nil {
		return SatisfactionKPIs{}, ErrNotLoaded
	}
	data, resolved, err := ApplyFilters(data, criteria, overrides)
	if err != nil {
		return SatisfactionKPIs{}, err
	}
	if resolved.Score == "" {
		return SatisfactionKPIs{}, columnNotFound(FieldSatisfactionScore)
	}

	scores, _ := data.Numeric(resolved.Score)

	var kpis SatisfactionKPIs
	kpis.NivelMedio = meanSeries(scores)

	var verySatisfied, total int
	for i := range scores.Values {
		if !scores.Valid[i] {
			continue
		}
		total++
		if scores.Values[i] >= verySatisfiedThreshold {
			verySatisfied++
		}
	}
	kpis.PctMuitoSatisfeitos = safeDivide(float64(verySatisfied), float64(total)) * 100

	return kpis, nil
}

type RegionSatisfaction struct {
	MacroBairro   string  `json:"macro_bairro"`
	AvgSatisfacao float64 `json:"avg_satisfacao"`
}

func GetSatisfactionByRegion(
	data *dataset.Dataset,
	criteria Criteria,
	overrides ColumnOverrides,
) ([]RegionSatisfaction, error) {
	if data == nil {
		return nil, ErrNotLoaded
	}
	data, resolved, err := ApplyFilters(data, criteria, overrides)
	if err != nil {
		return nil, err
	}

	var missing []LogicalField
	if resolved.MacroBairro == "" {
		missing = append(missing, FieldMacroBairro)
	}
	if resolved.Score == "" {
		missing = append(missing, FieldSatisfactionScore)
	}
	if len(missing) > 0 {
		return nil, columnNotFound(missing...)
	}

	regions, _ := data.Text(resolved.MacroBairro)
	scores, _ := data.Numeric(resolved.Score)

	groups := groupRowsByText(regions)
	results := make([]RegionSatisfaction, len(groups))
	for i, group := range groups {
		results[i] = RegionSatisfaction{
			MacroBairro:   group.Key,
			AvgSatisfacao: meanSeries(pick(scores, group.RowIndices)),
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].AvgSatisfacao > results[j].AvgSatisfacao
	})
	return results, nil
}

type TimeScorePoint struct {
	DeliveryMinutes float64 `json:"delivery_minutes"`
	Satisfacao      float64 `json:"satisfacao"`
}

func GetTimeVsScore(
	data *dataset.Dataset,
	criteria Criteria,
	overrides ColumnOverrides,
) ([]TimeScorePoint, error) {
	if data == nil {
		return nil, ErrNotLoaded
	}
	data, resolved, err := ApplyFilters(data, criteria, overrides)
	if err != nil {
		return nil, err
	}

	var missing []LogicalField
	if resolved.Delivery == "" {
		missing = append(missing, FieldDeliveryMinutes)
	}
	if resolved.Score == "" {
		missing = append(missing, FieldSatisfactionScore)
	}
	if len(missing) > 0 {
		return nil, columnNotFound(missing...)
	}

	deliveries, _ := data.Numeric(resolved.Delivery)
	scores, _ := data.Numeric(resolved.Score)

	points := make([]TimeScorePoint, 0, data.NumRows())
	for i := range deliveries.Values {
		if deliveries.Valid[i] && scores.Valid[i] {
			points = append(points, TimeScorePoint{
				DeliveryMinutes: deliveries.Values[i],
				Satisfacao:      scores.Values[i],
			})
		}
	}
	return points, nil
}

type SatisfactionPoint struct {
	Date          string  `json:"date"`
	AvgSatisfacao float64 `json:"avg_satisfacao"`
}

func GetSatisfactionTimeseries(
	data *dataset.Dataset,
	criteria Criteria,
	overrides ColumnOverrides,
	freq Freq,
) ([]SatisfactionPoint, error) {
	if data == nil {
		return nil, ErrNotLoaded
	}
	data, resolved, err := ApplyFilters(data, criteria, overrides)
	if err != nil {
		return nil, err
	}

	var missing []LogicalField
	if resolved.Date == "" {
		missing = append(missing, FieldOrderDateTime)
	}
	if resolved.Score == "" {
		missing = append(missing, FieldSatisfactionScore)
	}
	if len(missing) > 0 {
		return nil, columnNotFound(missing...)
	}

	times, _ := data.Times(resolved.Date)
	scores, _ := data.Numeric(resolved.Score)

	points := resampleMean(times, scores, freq)
	results := make([]SatisfactionPoint, len(points))
	for i, point := range points {
		results[i] = SatisfactionPoint{Date: point.Date, AvgSatisfacao: point.Value}
	}
	return results, nil
}

type PlatformSatisfaction struct {
	Platform      string  `json:"platform"`
	AvgSatisfacao float64 `json:"avg_satisfacao"`
}

func GetSatisfactionByPlatform(
	data *dataset.Dataset,
	criteria Criteria,
	overrides ColumnOverrides,
) ([]PlatformSatisfaction, error) {
	if data == nil {
		return nil, ErrNotLoaded
	}
	data, resolved, err := ApplyFilters(data, criteria, overrides)
	if err != nil {
		return nil, err
	}

	var missing []LogicalField
	if resolved.Platform == "" {
		missing = append(missing, FieldPlatform)
	}
	if resolved.Score == "" {
		missing = append(missing, FieldSatisfactionScore)
	}
	if len(missing) > 0 {
		return nil, columnNotFound(missing...)
	}

	platforms, _ := data.Text(resolved.Platform)
	scores, _ := data.Numeric(resolved.Score)

	groups := groupRowsByText(platforms)
	results := make([]PlatformSatisfaction, len(groups))
	for i, group := range groups {
		results[i] = PlatformSatisfaction{
			Platform:      group.Key,
			AvgSatisfacao: meanSeries(pick(scores, group.RowIndices)),
		}
	}
	return results, nil
}
