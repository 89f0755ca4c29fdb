package query

import (
	"errors"
	"testing"
)

func TestGetFinanceKPIs(t *testing.T) {
	data := newTestDataset(
		t,
		[]string{"total_brl", "platform_commision_pct"},
		[][]string{
			{"100", "0.2"},
			{"50", "0.1"},
		},
	)

	kpis, err := GetFinanceKPIs(data, Criteria{}, ColumnOverrides{})
	if err != nil {
		t.Fatal(err)
	}

	if kpis.ReceitaTotal != 150 {
		t.Errorf("expected gross revenue 150, got %v", kpis.ReceitaTotal)
	}
	// 100*(1-0.2) + 50*(1-0.1)
	if !almostEqual(kpis.ReceitaLiquida, 125) {
		t.Errorf("expected net revenue 125, got %v", kpis.ReceitaLiquida)
	}
}

func TestGetFinanceKPIsWithoutCommissionColumn(t *testing.T) {
	data := newTestDataset(t, []string{"total_brl"}, [][]string{{"100"}})

	kpis, err := GetFinanceKPIs(data, Criteria{}, ColumnOverrides{})
	if err != nil {
		t.Fatal(err)
	}

	if kpis.ReceitaTotal != 100 || kpis.ReceitaLiquida != 0 {
		t.Errorf("expected net revenue to stay 0 without commission column, got %+v", kpis)
	}
}

func TestGetMarginByPlatform(t *testing.T) {
	data := newTestDataset(
		t,
		[]string{"plataforma", "total_brl", "platform_commision_pct"},
		[][]string{
			{"ifood", "100", "0.3"},
			{"site", "100", "0.0"},
		},
	)

	margins, err := GetMarginByPlatform(data, Criteria{}, ColumnOverrides{})
	if err != nil {
		t.Fatal(err)
	}

	if len(margins) != 2 {
		t.Fatalf("expected 2 platforms, got %d", len(margins))
	}
	// Sorted descending by margin: the commission-free channel first.
	if margins[0].Platform != "site" || !almostEqual(margins[0].MarginPct, 1) {
		t.Errorf("unexpected first margin: %+v", margins[0])
	}
	if margins[1].Platform != "ifood" || !almostEqual(margins[1].MarginPct, 0.7) {
		t.Errorf("unexpected second margin: %+v", margins[1])
	}
}

func TestGetRevenueByClassFallsBackToPlatform(t *testing.T) {
	data := newTestDataset(
		t,
		[]string{"plataforma", "total_brl"},
		[][]string{
			{"ifood", "100"},
			{"rappi", "60"},
			{"ifood", "40"},
		},
	)

	revenues, err := GetRevenueByClass(data, Criteria{}, ColumnOverrides{})
	if err != nil {
		t.Fatal(err)
	}

	if len(revenues) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(revenues))
	}
	if revenues[0].Classe != "ifood" || revenues[0].Revenue != 140 {
		t.Errorf("unexpected first group: %+v", revenues[0])
	}
	if revenues[1].Classe != "rappi" || revenues[1].Revenue != 60 {
		t.Errorf("unexpected second group: %+v", revenues[1])
	}
}

func TestGetRevenueByClassWithoutAnyGroupColumn(t *testing.T) {
	data := newTestDataset(t, []string{"total_brl"}, [][]string{{"100"}})

	_, err := GetRevenueByClass(data, Criteria{}, ColumnOverrides{})

	var notFound ColumnNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ColumnNotFoundError, got %v", err)
	}
}

func TestGetTopClients(t *testing.T) {
	data := newTestDataset(
		t,
		[]string{"cliente_id", "total_brl"},
		[][]string{
			{"c1", "100"},
			{"c2", "300"},
			{"c1", "50"},
			{"c3", "200"},
		},
	)

	clients, err := GetTopClients(data, Criteria{}, ColumnOverrides{}, 2)
	if err != nil {
		t.Fatal(err)
	}

	if len(clients) != 2 {
		t.Fatalf("expected top 2 clients, got %d", len(clients))
	}
	if clients[0].Cliente != "c2" || clients[0].Spent != 300 {
		t.Errorf("unexpected first client: %+v", clients[0])
	}
	if clients[1].Cliente != "c3" || clients[1].Spent != 200 {
		t.Errorf("unexpected second client: %+v", clients[1])
	}
}

func TestGetTopClientsWithoutClientColumn(t *testing.T) {
	data := newTestDataset(t, []string{"total_brl"}, [][]string{{"100"}})

	clients, err := GetTopClients(data, Criteria{}, ColumnOverrides{}, 10)
	if err != nil {
		t.Fatal(err)
	}

	if clients == nil || len(clients) != 0 {
		t.Errorf("expected empty (non-nil) list without client column, got %v", clients)
	}
}

func TestGetTicketHistogram(t *testing.T) {
	data := newTestDataset(
		t,
		[]string{"total_brl", "num_itens"},
		[][]string{
			{"10", "1"},
			{"10", "1"},
			{"20", "1"},
			{"30", "1"},
			{"100", "0"},
		},
	)

	buckets, err := GetTicketHistogram(data, Criteria{}, ColumnOverrides{}, 2)
	if err != nil {
		t.Fatal(err)
	}

	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	// Tickets 10, 10, 20, 30; the zero-item row is skipped. Buckets span 10..30.
	if buckets[0].From != 10 || buckets[0].To != 20 || buckets[0].Count != 2 {
		t.Errorf("unexpected first bucket: %+v", buckets[0])
	}
	if buckets[1].From != 20 || buckets[1].To != 30 || buckets[1].Count != 2 {
		t.Errorf("unexpected second bucket: %+v", buckets[1])
	}
}

func TestGetTicketHistogramInvalidBins(t *testing.T) {
	data := newTestDataset(t, []string{"total_brl", "num_itens"}, [][]string{{"10", "1"}})

	_, err := GetTicketHistogram(data, Criteria{}, ColumnOverrides{}, 0)

	var invalidValue InvalidFilterValueError
	if !errors.As(err, &invalidValue) {
		t.Fatalf("expected InvalidFilterValueError, got %v", err)
	}
}

func TestGetRevenueTimeseriesIncludesNet(t *testing.T) {
	data := newTestDataset(
		t,
		[]string{"order_datetime", "total_brl", "platform_commision_pct"},
		[][]string{
			{"2024-01-01 10:00:00", "100", "0.2"},
			{"2024-01-01 20:00:00", "100", "0.2"},
			{"2024-01-02 10:00:00", "50", "0.0"},
		},
	)

	points, err := GetRevenueTimeseries(data, Criteria{}, ColumnOverrides{}, FreqDaily)
	if err != nil {
		t.Fatal(err)
	}

	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].Gross != 200 || points[0].Net == nil || !almostEqual(*points[0].Net, 160) {
		t.Errorf("unexpected first point: %+v", points[0])
	}
	if points[1].Gross != 50 || points[1].Net == nil || !almostEqual(*points[1].Net, 50) {
		t.Errorf("unexpected second point: %+v", points[1])
	}
}
