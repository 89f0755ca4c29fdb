package query

import (
	"testing"

	"hermannm.dev/orderstats/dataset"
)

func newOpsTestDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	return newTestDataset(
		t,
		[]string{"plataforma", "macro_bairro", "actual_delivery_minutes", "eta_minutes_quote"},
		[][]string{
			{"A", "Centro", "30", "25"},
			{"A", "Centro", "20", "25"},
			{"B", "Zona Sul", "40", "20"},
		},
	)
}

func TestGetLateRateByPlatform(t *testing.T) {
	data := newOpsTestDataset(t)

	rates, err := GetLateRateByPlatform(data, Criteria{}, ColumnOverrides{})
	if err != nil {
		t.Fatal(err)
	}

	if len(rates) != 2 {
		t.Fatalf("expected 2 platforms, got %d", len(rates))
	}
	// Sorted descending by rate: B (1/1) before A (1/2).
	if rates[0].Platform != "B" || rates[0].LateCount != 1 || rates[0].Total != 1 ||
		rates[0].LateRate != 1 {
		t.Errorf("unexpected stats for B: %+v", rates[0])
	}
	if rates[1].Platform != "A" || rates[1].LateCount != 1 || rates[1].Total != 2 ||
		rates[1].LateRate != 0.5 {
		t.Errorf("unexpected stats for A: %+v", rates[1])
	}
}

func TestGetLateRateByRegionSkipsRowsWithMissingValues(t *testing.T) {
	data := newTestDataset(
		t,
		[]string{"macro_bairro", "actual_delivery_minutes", "eta_minutes_quote", "plataforma"},
		[][]string{
			{"Centro", "30", "25", "A"},
			{"Centro", "", "25", "A"},
		},
	)

	rates, err := GetLateRateByRegion(data, Criteria{}, ColumnOverrides{})
	if err != nil {
		t.Fatal(err)
	}

	if rates[0].Total != 1 || rates[0].LateCount != 1 {
		t.Errorf("expected the row with missing delivery skipped, got %+v", rates[0])
	}
}

func TestGetOperationalKPIs(t *testing.T) {
	data := newTestDataset(
		t,
		[]string{
			"tempo_preparo_minutos",
			"actual_delivery_minutes",
			"eta_minutes_quote",
			"distance_km",
		},
		[][]string{
			{"10", "30", "25", "2.0"},
			{"20", "20", "25", "4.0"},
		},
	)

	kpis, err := GetOperationalKPIs(data, Criteria{}, ColumnOverrides{})
	if err != nil {
		t.Fatal(err)
	}

	if kpis.TempoMedioPreparo != 15 {
		t.Errorf("expected mean prep time 15, got %v", kpis.TempoMedioPreparo)
	}
	if kpis.TempoMedioEntrega != 25 {
		t.Errorf("expected mean delivery time 25, got %v", kpis.TempoMedioEntrega)
	}
	// Deltas are +5 and -5, so the mean delay is 0 and half the orders are on time.
	if kpis.AtrasoMedio != 0 {
		t.Errorf("expected mean delay 0, got %v", kpis.AtrasoMedio)
	}
	if kpis.PctNoPrazo != 50 {
		t.Errorf("expected 50%% on time, got %v", kpis.PctNoPrazo)
	}
	if kpis.DistanciaMedia != 3 {
		t.Errorf("expected mean distance 3, got %v", kpis.DistanciaMedia)
	}
}

func TestGetOperationalKPIsWithoutOptionalColumns(t *testing.T) {
	data := newTestDataset(
		t,
		[]string{"actual_delivery_minutes"},
		[][]string{{"30"}, {"20"}},
	)

	kpis, err := GetOperationalKPIs(data, Criteria{}, ColumnOverrides{})
	if err != nil {
		t.Fatal(err)
	}

	// Prep, distance and ETA columns are absent: their KPIs report 0, not an error.
	if kpis.TempoMedioPreparo != 0 || kpis.DistanciaMedia != 0 || kpis.PctNoPrazo != 0 {
		t.Errorf("expected zeroed KPIs for absent columns, got %+v", kpis)
	}
	if kpis.TempoMedioEntrega != 25 {
		t.Errorf("expected mean delivery time 25, got %v", kpis.TempoMedioEntrega)
	}
}

func TestGetDeliveryByRegionQuantiles(t *testing.T) {
	data := newTestDataset(
		t,
		[]string{"macro_bairro", "actual_delivery_minutes"},
		[][]string{
			{"Centro", "10"},
			{"Centro", "20"},
			{"Centro", "30"},
			{"Centro", "40"},
			{"Zona Sul", "15"},
		},
	)

	stats, err := GetDeliveryByRegion(data, Criteria{}, ColumnOverrides{})
	if err != nil {
		t.Fatal(err)
	}

	if len(stats) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(stats))
	}
	centro := stats[0]
	if centro.MacroBairro != "Centro" || centro.Count != 4 {
		t.Fatalf("unexpected first region: %+v", centro)
	}
	if !almostEqual(centro.P50, 25) || !almostEqual(centro.P75, 32.5) ||
		!almostEqual(centro.P90, 37) {
		t.Errorf("unexpected quantiles: %+v", centro)
	}
}

func TestGetDistanceVsDelivery(t *testing.T) {
	data := newTestDataset(
		t,
		[]string{"distance_km", "actual_delivery_minutes"},
		[][]string{
			{"2.5", "30"},
			{"", "20"},
			{"4.0", ""},
			{"1.0", "15"},
		},
	)

	points, err := GetDistanceVsDelivery(data, Criteria{}, ColumnOverrides{})
	if err != nil {
		t.Fatal(err)
	}

	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].DistanceKM != 2.5 || points[0].DeliveryMinutes != 30 {
		t.Errorf("unexpected first point: %+v", points[0])
	}
}

func TestGetDelayByRegion(t *testing.T) {
	data := newOpsTestDataset(t)

	delays, err := GetDelayByRegion(data, Criteria{}, ColumnOverrides{})
	if err != nil {
		t.Fatal(err)
	}

	if len(delays) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(delays))
	}
	// Group keys come back in ascending order.
	if delays[0].MacroBairro != "Centro" || delays[0].AvgDelay != 0 {
		t.Errorf("unexpected stats for Centro: %+v", delays[0])
	}
	if delays[1].MacroBairro != "Zona Sul" || delays[1].AvgDelay != 20 {
		t.Errorf("unexpected stats for Zona Sul: %+v", delays[1])
	}
}

func TestOperationsOnNilDataset(t *testing.T) {
	if _, err := GetOperationalKPIs(nil, Criteria{}, ColumnOverrides{}); err != ErrNotLoaded {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
	if _, err := GetLateRateByPlatform(nil, Criteria{}, ColumnOverrides{}); err != ErrNotLoaded {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
}
