package query

import (
	"time"

	"hermannm.dev/orderstats/dataset"
)

// TimePoint is one calendar bucket of a resampled time series.
type TimePoint struct {
	Date  string
	Value float64
	Count int
}

const bucketDateLayout = "2006-01-02"

// resampleSum buckets the rows of a datetime series into calendar intervals and sums
// the paired values per bucket. Rows where either the datetime or the value is
// missing are skipped. Empty buckets between the first and last observed bucket are
// zero-filled, so time-series charts have no gaps.
//
// Passing a nil values series counts rows instead, i.e. each row contributes 1.
func resampleSum(times dataset.TimeSeries, values *dataset.NumericSeries, freq Freq) []TimePoint {
	sums := make(map[time.Time]float64)
	counts := make(map[time.Time]int)
	var first, last time.Time

	for i := range times.Values {
		if !times.Valid[i] {
			continue
		}
		value := 1.0
		if values != nil {
			if !values.Valid[i] {
				continue
			}
			value = values.Values[i]
		}

		bucket := bucketStart(times.Values[i], freq)
		sums[bucket] += value
		counts[bucket]++

		if first.IsZero() || bucket.Before(first) {
			first = bucket
		}
		if last.IsZero() || bucket.After(last) {
			last = bucket
		}
	}

	if len(sums) == 0 {
		return []TimePoint{}
	}

	var points []TimePoint
	for bucket := first; !bucket.After(last); bucket = nextBucket(bucket, freq) {
		points = append(points, TimePoint{
			Date:  bucket.Format(bucketDateLayout),
			Value: sums[bucket],
			Count: counts[bucket],
		})
	}
	return points
}

// resampleMean is resampleSum with each bucket reduced to the mean of its values.
// Zero-filled buckets report 0.
func resampleMean(times dataset.TimeSeries, values dataset.NumericSeries, freq Freq) []TimePoint {
	points := resampleSum(times, &values, freq)
	for i, point := range points {
		points[i].Value = safeDivide(point.Value, float64(point.Count))
	}
	return points
}

// bucketStart truncates a timestamp to the start of its calendar bucket: midnight
// for daily buckets, Monday for weekly buckets, the 1st for monthly buckets.
func bucketStart(t time.Time, freq Freq) time.Time {
	switch freq {
	case FreqWeekly:
		daysSinceMonday := (int(t.Weekday()) + 6) % 7
		t = t.AddDate(0, 0, -daysSinceMonday)
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case FreqMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
}

func nextBucket(bucket time.Time, freq Freq) time.Time {
	switch freq {
	case FreqWeekly:
		return bucket.AddDate(0, 0, 7)
	case FreqMonthly:
		return bucket.AddDate(0, 1, 0)
	default:
		return bucket.AddDate(0, 0, 1)
	}
}
