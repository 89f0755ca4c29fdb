package query

import (
	"math"
	"testing"

	"hermannm.dev/orderstats/dataset"
)

func TestMeanSkipsMissingValues(t *testing.T) {
	series := dataset.NumericSeries{
		Values: []float64{10, 0, 20},
		Valid:  []bool{true, false, true},
	}

	if mean := meanSeries(series); mean != 15 {
		t.Errorf("expected mean 15, got %v", mean)
	}
}

func TestMeanOfEmptySeries(t *testing.T) {
	if mean := meanSeries(dataset.NumericSeries{}); mean != 0 {
		t.Errorf("expected 0 for empty series, got %v", mean)
	}
}

func TestSafeDivide(t *testing.T) {
	if result := safeDivide(10, 4); result != 2.5 {
		t.Errorf("expected 2.5, got %v", result)
	}
	if result := safeDivide(10, 0); result != 0 {
		t.Errorf("expected 0 for division by zero, got %v", result)
	}
}

func TestQuantileInterpolatesLinearly(t *testing.T) {
	values := []float64{10, 20, 30, 40}

	testCases := []struct {
		p        float64
		expected float64
	}{
		{0, 10},
		{0.5, 25},
		{0.75, 32.5},
		{1, 40},
	}
	for _, testCase := range testCases {
		if result := quantile(values, testCase.p); !almostEqual(result, testCase.expected) {
			t.Errorf("quantile(%v): expected %v, got %v", testCase.p, testCase.expected, result)
		}
	}
}

func TestQuantileDoesNotMutateInput(t *testing.T) {
	values := []float64{30, 10, 20}
	quantile(values, 0.5)

	if values[0] != 30 || values[1] != 10 || values[2] != 20 {
		t.Errorf("expected input untouched, got %v", values)
	}
}

func TestQuantileOfEmptySlice(t *testing.T) {
	if result := quantile(nil, 0.5); result != 0 {
		t.Errorf("expected 0 for empty input, got %v", result)
	}
}

func TestStddev(t *testing.T) {
	// Sample standard deviation of 2, 4, 4, 4, 5, 5, 7, 9.
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	if result := stddev(values); !almostEqual(result, 2.13808993529939) {
		t.Errorf("unexpected stddev %v", result)
	}
}

func TestStddevOfSingleValue(t *testing.T) {
	if result := stddev([]float64{5}); result != 0 {
		t.Errorf("expected 0 for single value, got %v", result)
	}
}

func TestGroupRowsByTextSkipsBlanksAndSortsKeys(t *testing.T) {
	groups := groupRowsByText([]string{"b", "", "a", "b", "a", "a"})

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Key != "a" || groups[1].Key != "b" {
		t.Errorf("expected keys in ascending order, got %v, %v", groups[0].Key, groups[1].Key)
	}
	if len(groups[0].RowIndices) != 3 || len(groups[1].RowIndices) != 2 {
		t.Errorf(
			"unexpected group sizes: %d and %d",
			len(groups[0].RowIndices),
			len(groups[1].RowIndices),
		)
	}
}

func almostEqual(a float64, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
