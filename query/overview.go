package query

import (
	"sort"
	"time"

	"hermannm.dev/orderstats/dataset"
)

type OverviewKPIs struct {
	TotalPedidos int     `json:"total_pedidos"`
	ReceitaTotal float64 `json:"receita_total"`
	TicketMedio  float64 `json:"ticket_medio"`
	Periodo      *Period `json:"periodo"`
}

type Period struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

func GetOverviewKPIs(
	data *dataset.Dataset,
	criteria Criteria,
	overrides ColumnOverrides,
) (OverviewKPIs, error) {
	if data == nil {
		return OverviewKPIs{}, ErrNotLoaded
	}
	data, resolved, err := ApplyFilters(data, criteria, overrides)
	if err != nil {
		return OverviewKPIs{}, err
	}

	kpis := OverviewKPIs{TotalPedidos: data.NumRows()}

	totalColumn, hasTotal := ResolveColumn(data, overrides.Total, FieldTotalBRL)
	if hasTotal {
		totals, _ := data.Numeric(totalColumn)
		kpis.ReceitaTotal, _ = sumSeries(totals)

		if itemsColumn, ok := ResolveColumn(data, overrides.Items, FieldNumItems); ok {
			items, _ := data.Numeric(itemsColumn)
			kpis.TicketMedio = meanTicket(totals, items)
		}
	}

	if resolved.Date != "" {
		times, _ := data.Times(resolved.Date)
		kpis.Periodo = observedPeriod(times)
	}

	return kpis, nil
}

// meanTicket averages the per-order ticket (order total divided by item count),
// skipping rows where either value is missing or the item count is 0.
func meanTicket(totals dataset.NumericSeries, items dataset.NumericSeries) float64 {
	var sum float64
	var count int
	for i := range totals.Values {
		if totals.Valid[i] && items.Valid[i] && items.Values[i] != 0 {
			sum += totals.Values[i] / items.Values[i]
			count++
		}
	}
	return safeDivide(sum, float64(count))
}

func observedPeriod(times dataset.TimeSeries) *Period {
	var min, max time.Time
	for i, value := range times.Values {
		if !times.Valid[i] {
			continue
		}
		if min.IsZero() || value.Before(min) {
			min = value
		}
		if max.IsZero() || value.After(max) {
			max = value
		}
	}

	if min.IsZero() {
		return nil
	}
	return &Period{Min: min.Format(time.RFC3339), Max: max.Format(time.RFC3339)}
}

type OrdersPoint struct {
	Date   string `json:"date"`
	Orders int    `json:"orders"`
}

func GetOrdersTimeseries(
	data *dataset.Dataset,
	criteria Criteria,
	overrides ColumnOverrides,
	freq Freq,
) ([]OrdersPoint, error) {
	if data == nil {
		return nil, ErrNotLoaded
	}
	data, resolved, err := ApplyFilters(data, criteria, overrides)
	if err != nil {
		return nil, err
	}
	if resolved.Date == "" {
		return nil, columnNotFound(FieldOrderDateTime)
	}

	times, _ := data.Times(resolved.Date)
	points := resampleSum(times, nil, freq)

	orders := make([]OrdersPoint, len(points))
	for i, point := range points {
		orders[i] = OrdersPoint{Date: point.Date, Orders: point.Count}
	}
	return orders, nil
}

type PlatformOrders struct {
	Platform string `json:"platform"`
	Orders   int    `json:"orders"`
}

func GetOrdersByPlatform(
	data *dataset.Dataset,
	criteria Criteria,
	overrides ColumnOverrides,
) ([]PlatformOrders, error) {
	if data == nil {
		return nil, ErrNotLoaded
	}
	data, resolved, err := ApplyFilters(data, criteria, overrides)
	if err != nil {
		return nil, err
	}
	if resolved.Platform == "" {
		return nil, columnNotFound(FieldPlatform)
	}

	platforms, _ := data.Text(resolved.Platform)
	groups := groupRowsByText(platforms)

	results := make([]PlatformOrders, len(groups))
	for i, group := range groups {
		results[i] = PlatformOrders{Platform: group.Key, Orders: len(group.RowIndices)}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Orders > results[j].Orders
	})
	return results, nil
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

func GetStatusDistribution(
	data *dataset.Dataset,
	criteria Criteria,
	overrides ColumnOverrides,
) ([]StatusCount, error) {
	if data == nil {
		return nil, ErrNotLoaded
	}
	data, _, err := ApplyFilters(data, criteria, overrides)
	if err != nil {
		return nil, err
	}

	statusColumn, ok := ResolveColumn(data, overrides.Status, FieldStatus)
	if !ok {
		return nil, columnNotFound(FieldStatus)
	}

	statuses, _ := data.Text(statusColumn)
	groups := groupRowsByText(statuses)

	results := make([]StatusCount, len(groups))
	for i, group := range groups {
		results[i] = StatusCount{Status: group.Key, Count: len(group.RowIndices)}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Count > results[j].Count
	})
	return results, nil
}

type RegionRevenue struct {
	MacroBairro string  `json:"macro_bairro"`
	AvgReceita  float64 `json:"avg_receita"`
}

func GetAvgRevenueByRegion(
	data *dataset.Dataset,
	criteria Criteria,
	overrides ColumnOverrides,
) ([]RegionRevenue, error) {
	if data == nil {
		return nil, ErrNotLoaded
	}
	data, resolved, err := ApplyFilters(data, criteria, overrides)
	if err != nil {
		return nil, err
	}

	totalColumn, hasTotal := ResolveColumn(data, overrides.Total, FieldTotalBRL)
	var missing []LogicalField
	if resolved.MacroBairro == "" {
		missing = append(missing, FieldMacroBairro)
	}
	if !hasTotal {
		missing = append(missing, FieldTotalBRL)
	}
	if len(missing) > 0 {
		return nil, columnNotFound(missing...)
	}

	regions, _ := data.Text(resolved.MacroBairro)
	totals, _ := data.Numeric(totalColumn)

	groups := groupRowsByText(regions)
	results := make([]RegionRevenue, len(groups))
	for i, group := range groups {
		results[i] = RegionRevenue{
			MacroBairro: group.Key,
			AvgReceita:  meanSeries(pick(totals, group.RowIndices)),
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].AvgReceita > results[j].AvgReceita
	})
	return results, nil
}

type HourOrders struct {
	Hour   int `json:"hour"`
	Orders int `json:"orders"`
}

// GetOrdersByHour counts orders per hour of day, 0 through 23, zero-filling hours
// with no orders.
func GetOrdersByHour(
	data *dataset.Dataset,
	criteria Criteria,
	overrides ColumnOverrides,
) ([]HourOrders, error) {
	if data == nil {
		return nil, ErrNotLoaded
	}
	data, resolved, err := ApplyFilters(data, criteria, overrides)
	if err != nil {
		return nil, err
	}
	if resolved.Date == "" {
		return nil, columnNotFound(FieldOrderDateTime)
	}

	times, _ := data.Times(resolved.Date)
	counts := make([]int, 24)
	for i := range times.Values {
		if times.Valid[i] {
			counts[times.Values[i].Hour()]++
		}
	}

	results := make([]HourOrders, 24)
	for hour, count := range counts {
		results[hour] = HourOrders{Hour: hour, Orders: count}
	}
	return results, nil
}

type WeekdayOrders struct {
	Weekday string `json:"weekday"`
	Orders  int    `json:"orders"`
}

// GetOrdersByWeekday counts orders per day of week, Monday through Sunday,
// zero-filling days with no orders.
func GetOrdersByWeekday(
	data *dataset.Dataset,
	criteria Criteria,
	overrides ColumnOverrides,
) ([]WeekdayOrders, error) {
	if data == nil {
		return nil, ErrNotLoaded
	}
	data, resolved, err := ApplyFilters(data, criteria, overrides)
	if err != nil {
		return nil, err
	}
	if resolved.Date == "" {
		return nil, columnNotFound(FieldOrderDateTime)
	}

	times, _ := data.Times(resolved.Date)
	counts := make([]int, 7)
	for i := range times.Values {
		if times.Valid[i] {
			// Monday-first index
			counts[(int(times.Values[i].Weekday())+6)%7]++
		}
	}

	weekdays := []string{
		"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
	}
	results := make([]WeekdayOrders, 7)
	for i, count := range counts {
		results[i] = WeekdayOrders{Weekday: weekdays[i], Orders: count}
	}
	return results, nil
}
