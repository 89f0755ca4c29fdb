package query

import (
	"testing"

	"hermannm.dev/orderstats/dataset"
)

func TestResolveColumnOverrideWins(t *testing.T) {
	data := newTestDataset(
		t,
		[]string{"plataforma", "custom_platform"},
		[][]string{{"ifood", "rappi"}},
	)

	columnName, ok := ResolveColumn(data, "custom_platform", FieldPlatform)
	if !ok || columnName != "custom_platform" {
		t.Errorf("expected override 'custom_platform' to win, got '%s'", columnName)
	}
}

func TestResolveColumnIgnoresAbsentOverride(t *testing.T) {
	data := newTestDataset(t, []string{"plataforma"}, [][]string{{"ifood"}})

	columnName, ok := ResolveColumn(data, "no_such_column", FieldPlatform)
	if !ok || columnName != "plataforma" {
		t.Errorf("expected fallback to alias 'plataforma', got '%s'", columnName)
	}
}

func TestResolveColumnAliasOrder(t *testing.T) {
	data := newTestDataset(
		t,
		[]string{"delivery_minutes", "actual_delivery_minutes"},
		[][]string{{"30", "32"}},
	)

	columnName, ok := ResolveColumn(data, "", FieldDeliveryMinutes)
	if !ok || columnName != "actual_delivery_minutes" {
		t.Errorf("expected highest-priority alias 'actual_delivery_minutes', got '%s'", columnName)
	}
}

func TestResolveColumnNotFound(t *testing.T) {
	data := newTestDataset(t, []string{"unrelated"}, [][]string{{"x"}})

	if _, ok := ResolveColumn(data, "", FieldPlatform); ok {
		t.Error("expected resolution to fail for absent column")
	}
}

func TestResolveDateColumnPrefersDatetime(t *testing.T) {
	data := newTestDataset(
		t,
		[]string{"order_date", "order_datetime"},
		[][]string{{"2024-01-02", "2024-01-02 12:00:00"}},
	)

	columnName, ok := resolveDateColumn(data, "")
	if !ok || columnName != "order_datetime" {
		t.Errorf("expected 'order_datetime' to take priority, got '%s'", columnName)
	}
}

func TestResolveDateColumnFallsBackToDate(t *testing.T) {
	data := newTestDataset(t, []string{"order_date"}, [][]string{{"2024-01-02"}})

	columnName, ok := resolveDateColumn(data, "")
	if !ok || columnName != "order_date" {
		t.Errorf("expected fallback to 'order_date', got '%s'", columnName)
	}
}

func newTestDataset(t *testing.T, header []string, rows [][]string) *dataset.Dataset {
	t.Helper()

	data, err := dataset.FromRecords(header, rows)
	if err != nil {
		t.Fatal(err)
	}
	return data
}
