package query

import (
	"math"
	"sort"

	"hermannm.dev/orderstats/dataset"
)

// The aggregation helpers below all skip missing values, and fall back to 0 instead
// of NaN or infinity when no values remain. Dashboard consumers plot these numbers
// directly, so every result must be finite.

func sumSeries(series dataset.NumericSeries) (sum float64, count int) {
	for i, value := range series.Values {
		if series.Valid[i] {
			sum += value
			count++
		}
	}
	return sum, count
}

func meanSeries(series dataset.NumericSeries) float64 {
	sum, count := sumSeries(series)
	return safeDivide(sum, float64(count))
}

func validValues(series dataset.NumericSeries) []float64 {
	values := make([]float64, 0, len(series.Values))
	for i, value := range series.Values {
		if series.Valid[i] {
			values = append(values, value)
		}
	}
	return values
}

// safeDivide maps division by zero to 0, so that rates and means over empty groups
// stay finite.
func safeDivide(numerator float64, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// quantile computes the given quantile (0 to 1) with linear interpolation between
// the two nearest ranks, matching the interpolation rule dashboard consumers expect
// from their previous tooling. The input values need not be sorted. Returns 0 for an
// empty input.
func quantile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := p * float64(len(sorted)-1)
	below := int(math.Floor(rank))
	above := int(math.Ceil(rank))
	if below == above {
		return sorted[below]
	}

	fraction := rank - float64(below)
	return sorted[below]*(1-fraction) + sorted[above]*fraction
}

func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	var mean float64
	for _, value := range values {
		mean += value
	}
	mean /= float64(len(values))

	var squaredDiffs float64
	for _, value := range values {
		diff := value - mean
		squaredDiffs += diff * diff
	}

	// Sample standard deviation (n-1 denominator).
	return math.Sqrt(squaredDiffs / float64(len(values)-1))
}

// groupRowsByText groups row indices by the text value of the given column, skipping
// rows with blank values. Group keys are returned in ascending order, so operations
// that re-sort by a metric stay deterministic for equal metric values.
func groupRowsByText(values []string) []textGroup {
	indicesByKey := make(map[string][]int)
	for i, value := range values {
		if value == "" {
			continue
		}
		indicesByKey[value] = append(indicesByKey[value], i)
	}

	keys := make([]string, 0, len(indicesByKey))
	for key := range indicesByKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	groups := make([]textGroup, 0, len(keys))
	for _, key := range keys {
		groups = append(groups, textGroup{Key: key, RowIndices: indicesByKey[key]})
	}
	return groups
}

type textGroup struct {
	Key        string
	RowIndices []int
}

// pick returns the subset of the series at the given row indices.
func pick(series dataset.NumericSeries, rowIndices []int) dataset.NumericSeries {
	picked := dataset.NumericSeries{
		Values: make([]float64, len(rowIndices)),
		Valid:  make([]bool, len(rowIndices)),
	}
	for i, rowIndex := range rowIndices {
		picked.Values[i] = series.Values[rowIndex]
		picked.Valid[i] = series.Valid[rowIndex]
	}
	return picked
}
