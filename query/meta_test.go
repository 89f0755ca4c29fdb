package query

import (
	"errors"
	"testing"
)

func TestGetPlatformsReturnsSortedDistinctValues(t *testing.T) {
	data := newTestDataset(
		t,
		[]string{"plataforma"},
		[][]string{{"rappi"}, {"ifood"}, {"rappi"}, {""}, {"site"}},
	)

	platforms, err := GetPlatforms(data, ColumnOverrides{})
	if err != nil {
		t.Fatal(err)
	}

	expected := []string{"ifood", "rappi", "site"}
	if len(platforms) != len(expected) {
		t.Fatalf("expected %d platforms, got %d", len(expected), len(platforms))
	}
	for i, platform := range expected {
		if platforms[i] != platform {
			t.Errorf("expected platforms[%d] == '%s', got '%s'", i, platform, platforms[i])
		}
	}
}

func TestGetMacroBairrosWithoutColumn(t *testing.T) {
	data := newTestDataset(t, []string{"unrelated"}, [][]string{{"x"}})

	_, err := GetMacroBairros(data, ColumnOverrides{})

	var notFound ColumnNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ColumnNotFoundError, got %v", err)
	}
}

func TestGetDateRange(t *testing.T) {
	data := newTestDataset(
		t,
		[]string{"order_datetime"},
		[][]string{
			{"2024-01-05 10:00:00"},
			{"2024-01-02 09:00:00"},
			{"garbage"},
		},
	)

	period, err := GetDateRange(data, ColumnOverrides{})
	if err != nil {
		t.Fatal(err)
	}

	if period == nil {
		t.Fatal("expected a period")
	}
	if period.Min != "2024-01-02T09:00:00Z" || period.Max != "2024-01-05T10:00:00Z" {
		t.Errorf("unexpected period: %+v", period)
	}
}

func TestGetMetaOnNilDataset(t *testing.T) {
	if _, err := GetPlatforms(nil, ColumnOverrides{}); err != ErrNotLoaded {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
	if _, err := GetDateRange(nil, ColumnOverrides{}); err != ErrNotLoaded {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
}
