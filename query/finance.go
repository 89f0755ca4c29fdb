package query

import (
	"math"
	"sort"

	"hermannm.dev/orderstats/dataset"
)

type FinanceKPIs struct {
	ReceitaTotal   float64 `json:"receita_total"`
	ReceitaLiquida float64 `json:"receita_liquida"`
}

func GetFinanceKPIs(
	data *dataset.Dataset,
	criteria Criteria,
	overrides ColumnOverrides,
) (FinanceKPIs, error) {
	if data == nil {
		return FinanceKPIs{}, ErrNotLoaded
	}
	data, _, err := ApplyFilters(data, criteria, overrides)
	if err != nil {
		return FinanceKPIs{}, err
	}

	totalColumn, hasTotal := ResolveColumn(data, overrides.Total, FieldTotalBRL)
	if !hasTotal {
		return FinanceKPIs{}, nil
	}

	totals, _ := data.Numeric(totalColumn)

	var kpis FinanceKPIs
	kpis.ReceitaTotal, _ = sumSeries(totals)

	// Net revenue is only reported when a commission column is present.
	if commissionColumn, ok := ResolveColumn(data, overrides.Commission, FieldCommissionPct); ok {
		commissions, _ := data.Numeric(commissionColumn)
		net, _ := sumSeries(netRevenue(totals, commissions))
		kpis.ReceitaLiquida = net
	}

	return kpis, nil
}

// netRevenue derives per-order net revenue: total minus the platform's commission
// share. Rows where either value is missing stay missing.
func netRevenue(
	totals dataset.NumericSeries,
	commissions dataset.NumericSeries,
) dataset.NumericSeries {
	net := dataset.NumericSeries{
		Values: make([]float64, len(totals.Values)),
		Valid:  make([]bool, len(totals.Values)),
	}
	for i := range totals.Values {
		if totals.Valid[i] && commissions.Valid[i] {
			net.Values[i] = totals.Values[i] * (1 - commissions.Values[i])
			net.Valid[i] = true
		}
	}
	return net
}

type RevenuePoint struct {
	Date  string   `json:"date"`
	Gross float64  `json:"gross"`
	Net   *float64 `json:"net,omitempty"`
}

func GetRevenueTimeseries(
	data *dataset.Dataset,
	criteria Criteria,
	overrides ColumnOverrides,
	freq Freq,
) ([]RevenuePoint, error) {
	if data == nil {
		return nil, ErrNotLoaded
	}
	data, resolved, err := ApplyFilters(data, criteria, overrides)
	if err != nil {
		return nil, err
	}

	totalColumn, hasTotal := ResolveColumn(data, overrides.Total, FieldTotalBRL)
	var missing []LogicalField
	if resolved.Date == "" {
		missing = append(missing, FieldOrderDateTime)
	}
	if !hasTotal {
		missing = append(missing, FieldTotalBRL)
	}
	if len(missing) > 0 {
		return nil, columnNotFound(missing...)
	}

	times, _ := data.Times(resolved.Date)
	totals, _ := data.Numeric(totalColumn)

	grossPoints := resampleSum(times, &totals, freq)
	results := make([]RevenuePoint, len(grossPoints))
	for i, point := range grossPoints {
		results[i] = RevenuePoint{Date: point.Date, Gross: point.Value}
	}

	if commissionColumn, ok := ResolveColumn(data, overrides.Commission, FieldCommissionPct); ok {
		commissions, _ := data.Numeric(commissionColumn)
		net := netRevenue(totals, commissions)
		netPoints := resampleSum(times, &net, freq)

		// Gross and net series span the same zero-filled bucket range, since both
		// derive from the same datetime column.
		netByDate := make(map[string]float64, len(netPoints))
		for _, point := range netPoints {
			netByDate[point.Date] = point.Value
		}
		for i := range results {
			netValue := netByDate[results[i].Date]
			results[i].Net = &netValue
		}
	}

	return results, nil
}

type PlatformMargin struct {
	Platform  string  `json:"platform"`
	Gross     float64 `json:"gross"`
	Net       float64 `json:"net"`
	MarginPct float64 `json:"margin_pct"`
}

func GetMarginByPlatform(
	data *dataset.Dataset,
	criteria Criteria,
	overrides ColumnOverrides,
) ([]PlatformMargin, error) {
	if data == nil {
		return nil, ErrNotLoaded
	}
	data, resolved, err := ApplyFilters(data, criteria, overrides)
	if err != nil {
		return nil, err
	}

	totalColumn, hasTotal := ResolveColumn(data, overrides.Total, FieldTotalBRL)
	commissionColumn, hasCommission := ResolveColumn(data, overrides.Commission, FieldCommissionPct)
	var missing []LogicalField
	if resolved.Platform == "" {
		missing = append(missing, FieldPlatform)
	}
	if !hasTotal {
		missing = append(missing, FieldTotalBRL)
	}
	if !hasCommission {
		missing = append(missing, FieldCommissionPct)
	}
	if len(missing) > 0 {
		return nil, columnNotFound(missing...)
	}

	platforms, _ := data.Text(resolved.Platform)
	totals, _ := data.Numeric(totalColumn)
	commissions, _ := data.Numeric(commissionColumn)
	net := netRevenue(totals, commissions)

	groups := groupRowsByText(platforms)
	results := make([]PlatformMargin, len(groups))
	for i, group := range groups {
		grossMean := meanSeries(pick(totals, group.RowIndices))
		netMean := meanSeries(pick(net, group.RowIndices))
		results[i] = PlatformMargin{
			Platform:  group.Key,
			Gross:     grossMean,
			Net:       netMean,
			MarginPct: safeDivide(netMean, grossMean),
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MarginPct > results[j].MarginPct
	})
	return results, nil
}

type ClassRevenue struct {
	Classe  string  `json:"classe"`
	Revenue float64 `json:"revenue"`
}

// GetRevenueByClass sums revenue per order class. When no order-class column
// resolves, it falls back to grouping by order mode and then by platform, so the
// dashboard's revenue breakdown still renders for datasets without a class column.
func GetRevenueByClass(
	data *dataset.Dataset,
	criteria Criteria,
	overrides ColumnOverrides,
) ([]ClassRevenue, error) {
	if data == nil {
		return nil, ErrNotLoaded
	}
	data, resolved, err := ApplyFilters(data, criteria, overrides)
	if err != nil {
		return nil, err
	}

	totalColumn, hasTotal := ResolveColumn(data, overrides.Total, FieldTotalBRL)
	if !hasTotal {
		return nil, columnNotFound(FieldTotalBRL)
	}

	groupColumn := resolved.OrderClass
	if groupColumn == "" {
		for _, fallback := range []LogicalField{FieldOrderMode, FieldPlatform} {
			if columnName, ok := ResolveColumn(data, "", fallback); ok {
				groupColumn = columnName
				break
			}
		}
	}
	if groupColumn == "" {
		return nil, columnNotFound(FieldOrderClass, FieldOrderMode, FieldPlatform)
	}

	classes, _ := data.Text(groupColumn)
	totals, _ := data.Numeric(totalColumn)

	groups := groupRowsByText(classes)
	results := make([]ClassRevenue, len(groups))
	for i, group := range groups {
		revenue, _ := sumSeries(pick(totals, group.RowIndices))
		results[i] = ClassRevenue{Classe: group.Key, Revenue: revenue}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Revenue > results[j].Revenue
	})
	return results, nil
}

type ClientSpend struct {
	Cliente string  `json:"cliente"`
	Spent   float64 `json:"spent"`
}

// GetTopClients returns the topN clients by total spend. When no client column
// resolves it returns an empty list instead of an error: client data is optional in
// uploaded datasets, and the dashboard must not break without it.
func GetTopClients(
	data *dataset.Dataset,
	criteria Criteria,
	overrides ColumnOverrides,
	topN int,
) ([]ClientSpend, error) {
	if data == nil {
		return nil, ErrNotLoaded
	}
	data, _, err := ApplyFilters(data, criteria, overrides)
	if err != nil {
		return nil, err
	}

	totalColumn, hasTotal := ResolveColumn(data, overrides.Total, FieldTotalBRL)
	if !hasTotal {
		return nil, columnNotFound(FieldTotalBRL)
	}

	clientColumn, hasClient := ResolveColumn(data, overrides.Client, FieldClientID)
	if !hasClient {
		return []ClientSpend{}, nil
	}

	clients, _ := data.Text(clientColumn)
	totals, _ := data.Numeric(totalColumn)

	groups := groupRowsByText(clients)
	results := make([]ClientSpend, len(groups))
	for i, group := range groups {
		spent, _ := sumSeries(pick(totals, group.RowIndices))
		results[i] = ClientSpend{Cliente: group.Key, Spent: spent}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Spent > results[j].Spent
	})

	if topN > 0 && topN < len(results) {
		results = results[:topN]
	}
	return results, nil
}

type HistogramBucket struct {
	From  float64 `json:"from"`
	To    float64 `json:"to"`
	Count int     `json:"count"`
}

// GetTicketHistogram produces a fixed-width histogram over the per-order ticket
// (total divided by item count).
func GetTicketHistogram(
	data *dataset.Dataset,
	criteria Criteria,
	overrides ColumnOverrides,
	bins int,
) ([]HistogramBucket, error) {
	if data == nil {
		return nil, ErrNotLoaded
	}
	if bins <= 0 {
		return nil, InvalidFilterValueError{Param: "bins", Reason: "must be a positive integer"}
	}
	data, _, err := ApplyFilters(data, criteria, overrides)
	if err != nil {
		return nil, err
	}

	totalColumn, hasTotal := ResolveColumn(data, overrides.Total, FieldTotalBRL)
	itemsColumn, hasItems := ResolveColumn(data, overrides.Items, FieldNumItems)
	var missing []LogicalField
	if !hasTotal {
		missing = append(missing, FieldTotalBRL)
	}
	if !hasItems {
		missing = append(missing, FieldNumItems)
	}
	if len(missing) > 0 {
		return nil, columnNotFound(missing...)
	}

	totals, _ := data.Numeric(totalColumn)
	items, _ := data.Numeric(itemsColumn)

	var tickets []float64
	for i := range totals.Values {
		if totals.Valid[i] && items.Valid[i] && items.Values[i] != 0 {
			tickets = append(tickets, totals.Values[i]/items.Values[i])
		}
	}
	return histogram(tickets, bins), nil
}

// histogram computes equal-width buckets spanning the min..max of the given values.
// The final bucket's upper bound is inclusive, so the maximum value is counted.
func histogram(values []float64, bins int) []HistogramBucket {
	if len(values) == 0 {
		return []HistogramBucket{}
	}

	min, max := values[0], values[0]
	for _, value := range values {
		min = math.Min(min, value)
		max = math.Max(max, value)
	}

	width := (max - min) / float64(bins)
	buckets := make([]HistogramBucket, bins)
	for i := range buckets {
		buckets[i] = HistogramBucket{
			From: min + float64(i)*width,
			To:   min + float64(i+1)*width,
		}
	}

	for _, value := range values {
		index := bins - 1
		if width > 0 {
			index = int((value - min) / width)
			if index >= bins {
				index = bins - 1
			}
		}
		buckets[index].Count++
	}

	return buckets
}
