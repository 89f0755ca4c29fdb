package query

import (
	"sort"

	"hermannm.dev/orderstats/dataset"
)

type OperationalKPIs struct {
	TempoMedioPreparo float64 `json:"tempo_medio_preparo"`
	TempoMedioEntrega float64 `json:"tempo_medio_entrega"`
	AtrasoMedio       float64 `json:"atraso_medio"`
	DistanciaMedia    float64 `json:"distancia_media"`
	PctNoPrazo        float64 `json:"pct_no_prazo"`
}

func GetOperationalKPIs(
	data *dataset.Dataset,
	criteria Criteria,
	overrides ColumnOverrides,
) (OperationalKPIs, error) {
	if data == nil {
		return OperationalKPIs{}, ErrNotLoaded
	}
	data, resolved, err := ApplyFilters(data, criteria, overrides)
	if err != nil {
		return OperationalKPIs{}, err
	}

	var kpis OperationalKPIs

	if prepColumn, ok := ResolveColumn(data, overrides.Prep, FieldPrepMinutes); ok {
		preps, _ := data.Numeric(prepColumn)
		kpis.TempoMedioPreparo = meanSeries(preps)
	}
	if distanceColumn, ok := ResolveColumn(data, overrides.Distance, FieldDistanceKM); ok {
		distances, _ := data.Numeric(distanceColumn)
		kpis.DistanciaMedia = meanSeries(distances)
	}

	if resolved.Delivery != "" {
		deliveries, _ := data.Numeric(resolved.Delivery)
		kpis.TempoMedioEntrega = meanSeries(deliveries)

		if resolved.ETA != "" {
			etas, _ := data.Numeric(resolved.ETA)

			// Mean delay and on-time share over rows where both values are present.
			// On-time uses the same threshold rule as the delivery-status filter.
			threshold := criteria.threshold()
			var delaySum float64
			var total, onTime int
			for i := range deliveries.Values {
				if !deliveries.Valid[i] || !etas.Valid[i] {
					continue
				}
				delta := deliveries.Values[i] - etas.Values[i]
				delaySum += delta
				total++
				if delta <= threshold {
					onTime++
				}
			}
			kpis.AtrasoMedio = safeDivide(delaySum, float64(total))
			kpis.PctNoPrazo = safeDivide(float64(onTime), float64(total)) * 100
		}
	}

	return kpis, nil
}

type DeliveryPoint struct {
	Date               string  `json:"date"`
	AvgDeliveryMinutes float64 `json:"avg_delivery_minutes"`
}

func GetDeliveryTimeseries(
	data *dataset.Dataset,
	criteria Criteria,
	overrides ColumnOverrides,
	freq Freq,
) ([]DeliveryPoint, error) {
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
	if resolved.Delivery == "" {
		missing = append(missing, FieldDeliveryMinutes)
	}
	if len(missing) > 0 {
		return nil, columnNotFound(missing...)
	}

	times, _ := data.Times(resolved.Date)
	deliveries, _ := data.Numeric(resolved.Delivery)

	points := resampleMean(times, deliveries, freq)
	results := make([]DeliveryPoint, len(points))
	for i, point := range points {
		results[i] = DeliveryPoint{Date: point.Date, AvgDeliveryMinutes: point.Value}
	}
	return results, nil
}

type RegionDeliveryStats struct {
	MacroBairro string  `json:"macro_bairro"`
	Count       int     `json:"count"`
	P50         float64 `json:"p50"`
	P75         float64 `json:"p75"`
	P90         float64 `json:"p90"`
}

// GetDeliveryByRegion summarizes the delivery-time distribution per macro-region
// with p50/p75/p90 quantiles, ordered by region name.
func GetDeliveryByRegion(
	data *dataset.Dataset,
	criteria Criteria,
	overrides ColumnOverrides,
) ([]RegionDeliveryStats, error) {
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
	if resolved.Delivery == "" {
		missing = append(missing, FieldDeliveryMinutes)
	}
	if len(missing) > 0 {
		return nil, columnNotFound(missing...)
	}

	regions, _ := data.Text(resolved.MacroBairro)
	deliveries, _ := data.Numeric(resolved.Delivery)

	groups := groupRowsByText(regions)
	results := make([]RegionDeliveryStats, len(groups))
	for i, group := range groups {
		values := validValues(pick(deliveries, group.RowIndices))
		results[i] = RegionDeliveryStats{
			MacroBairro: group.Key,
			Count:       len(values),
			P50:         quantile(values, 0.50),
			P75:         quantile(values, 0.75),
			P90:         quantile(values, 0.90),
		}
	}
	return results, nil
}

type RegionDelay struct {
	MacroBairro string  `json:"macro_bairro"`
	AvgDelay    float64 `json:"avg_delay"`
}

func GetDelayByRegion(
	data *dataset.Dataset,
	criteria Criteria,
	overrides ColumnOverrides,
) ([]RegionDelay, error) {
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
	if resolved.Delivery == "" {
		missing = append(missing, FieldDeliveryMinutes)
	}
	if resolved.ETA == "" {
		missing = append(missing, FieldETAMinutes)
	}
	if len(missing) > 0 {
		return nil, columnNotFound(missing...)
	}

	regions, _ := data.Text(resolved.MacroBairro)
	delays := deliveryDelays(data, resolved)

	groups := groupRowsByText(regions)
	results := make([]RegionDelay, len(groups))
	for i, group := range groups {
		results[i] = RegionDelay{
			MacroBairro: group.Key,
			AvgDelay:    meanSeries(pick(delays, group.RowIndices)),
		}
	}
	return results, nil
}

// deliveryDelays derives per-row delay (delivery minus ETA); missing where either
// value is missing. Callers must have checked that both columns resolved.
func deliveryDelays(data *dataset.Dataset, resolved ResolvedColumns) dataset.NumericSeries {
	deliveries, _ := data.Numeric(resolved.Delivery)
	etas, _ := data.Numeric(resolved.ETA)

	delays := dataset.NumericSeries{
		Values: make([]float64, len(deliveries.Values)),
		Valid:  make([]bool, len(deliveries.Values)),
	}
	for i := range deliveries.Values {
		if deliveries.Valid[i] && etas.Valid[i] {
			delays.Values[i] = deliveries.Values[i] - etas.Values[i]
			delays.Valid[i] = true
		}
	}
	return delays
}

type DistanceDeliveryPoint struct {
	DistanceKM      float64 `json:"distance_km"`
	DeliveryMinutes float64 `json:"delivery_minutes"`
}

func GetDistanceVsDelivery(
	data *dataset.Dataset,
	criteria Criteria,
	overrides ColumnOverrides,
) ([]DistanceDeliveryPoint, error) {
	if data == nil {
		return nil, ErrNotLoaded
	}
	data, resolved, err := ApplyFilters(data, criteria, overrides)
	if err != nil {
		return nil, err
	}

	distanceColumn, hasDistance := ResolveColumn(data, overrides.Distance, FieldDistanceKM)
	var missing []LogicalField
	if !hasDistance {
		missing = append(missing, FieldDistanceKM)
	}
	if resolved.Delivery == "" {
		missing = append(missing, FieldDeliveryMinutes)
	}
	if len(missing) > 0 {
		return nil, columnNotFound(missing...)
	}

	distances, _ := data.Numeric(distanceColumn)
	deliveries, _ := data.Numeric(resolved.Delivery)

	points := make([]DistanceDeliveryPoint, 0, data.NumRows())
	for i := range distances.Values {
		if distances.Valid[i] && deliveries.Valid[i] {
			points = append(points, DistanceDeliveryPoint{
				DistanceKM:      distances.Values[i],
				DeliveryMinutes: deliveries.Values[i],
			})
		}
	}
	return points, nil
}

type PlatformLateRate struct {
	Platform  string  `json:"platform"`
	LateCount int     `json:"late_count"`
	Total     int     `json:"total"`
	LateRate  float64 `json:"late_rate"`
}

func GetLateRateByPlatform(
	data *dataset.Dataset,
	criteria Criteria,
	overrides ColumnOverrides,
) ([]PlatformLateRate, error) {
	if data == nil {
		return nil, ErrNotLoaded
	}
	rates, err := lateRatesByGroup(data, criteria, overrides, FieldPlatform)
	if err != nil {
		return nil, err
	}

	results := make([]PlatformLateRate, len(rates))
	for i, rate := range rates {
		results[i] = PlatformLateRate{
			Platform:  rate.key,
			LateCount: rate.lateCount,
			Total:     rate.total,
			LateRate:  rate.lateRate,
		}
	}
	return results, nil
}

type RegionLateRate struct {
	MacroBairro string  `json:"macro_bairro"`
	LateCount   int     `json:"late_count"`
	Total       int     `json:"total"`
	LateRate    float64 `json:"late_rate"`
}

func GetLateRateByRegion(
	data *dataset.Dataset,
	criteria Criteria,
	overrides ColumnOverrides,
) ([]RegionLateRate, error) {
	if data == nil {
		return nil, ErrNotLoaded
	}
	rates, err := lateRatesByGroup(data, criteria, overrides, FieldMacroBairro)
	if err != nil {
		return nil, err
	}

	results := make([]RegionLateRate, len(rates))
	for i, rate := range rates {
		results[i] = RegionLateRate{
			MacroBairro: rate.key,
			LateCount:   rate.lateCount,
			Total:       rate.total,
			LateRate:    rate.lateRate,
		}
	}
	return results, nil
}

type lateRateGroup struct {
	key       string
	lateCount int
	total     int
	lateRate  float64
}

// lateRatesByGroup computes late_count/total per group, where total counts the rows
// with both delivery and ETA present. A group with no such rows has rate 0, never
// NaN. Groups are sorted descending by rate.
func lateRatesByGroup(
	data *dataset.Dataset,
	criteria Criteria,
	overrides ColumnOverrides,
	groupField LogicalField,
) ([]lateRateGroup, error) {
	data, resolved, err := ApplyFilters(data, criteria, overrides)
	if err != nil {
		return nil, err
	}

	groupColumn := resolved.Platform
	if groupField == FieldMacroBairro {
		groupColumn = resolved.MacroBairro
	}

	var missing []LogicalField
	if groupColumn == "" {
		missing = append(missing, groupField)
	}
	if resolved.Delivery == "" {
		missing = append(missing, FieldDeliveryMinutes)
	}
	if resolved.ETA == "" {
		missing = append(missing, FieldETAMinutes)
	}
	if len(missing) > 0 {
		return nil, columnNotFound(missing...)
	}

	keys, _ := data.Text(groupColumn)
	delays := deliveryDelays(data, resolved)
	threshold := criteria.threshold()

	groups := groupRowsByText(keys)
	rates := make([]lateRateGroup, len(groups))
	for i, group := range groups {
		rate := lateRateGroup{key: group.Key}
		for _, rowIndex := range group.RowIndices {
			if !delays.Valid[rowIndex] {
				continue
			}
			rate.total++
			if delays.Values[rowIndex] > threshold {
				rate.lateCount++
			}
		}
		rate.lateRate = safeDivide(float64(rate.lateCount), float64(rate.total))
		rates[i] = rate
	}

	sort.SliceStable(rates, func(i, j int) bool {
		return rates[i].lateRate > rates[j].lateRate
	})
	return rates, nil
}
