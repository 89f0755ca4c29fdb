package dataset_test

import (
	"strings"
	"testing"

	"hermannm.dev/orderstats/dataset"
)

func TestFromCSVDeducesColumnTypes(t *testing.T) {
	csvData := `order_id,platform,total_brl,num_itens,order_datetime
550e8400-e29b-41d4-a716-446655440000,ifood,120.5,3,2024-01-02 12:30:00
66e6f1de-7c17-4bba-9d45-6563214f88d8,rappi,80,2,2024-01-03 19:00:00`

	data, err := dataset.FromCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatal(err)
	}

	if data.NumRows() != 2 {
		t.Fatalf("expected 2 rows, got %d", data.NumRows())
	}

	expectedTypes := map[string]dataset.DataType{
		"order_id":       dataset.DataTypeUUID,
		"platform":       dataset.DataTypeText,
		"total_brl":      dataset.DataTypeFloat,
		"num_itens":      dataset.DataTypeInt,
		"order_datetime": dataset.DataTypeTimestamp,
	}
	dataTypes := data.DataTypes()
	for columnName, expected := range expectedTypes {
		if dataTypes[columnName] != expected {
			t.Errorf(
				"expected column '%s' to have type %v, got %v",
				columnName,
				expected,
				dataTypes[columnName],
			)
		}
	}
}

func TestMixedIntAndFloatWidensToFloat(t *testing.T) {
	data := newTestDataset(t, []string{"value"}, [][]string{{"1"}, {"2.5"}})

	if dataType := data.DataTypes()["value"]; dataType != dataset.DataTypeFloat {
		t.Errorf("expected Float, got %v", dataType)
	}
}

func TestMixedIncompatibleTypesWidenToText(t *testing.T) {
	data := newTestDataset(t, []string{"value"}, [][]string{{"1"}, {"abc"}})

	if dataType := data.DataTypes()["value"]; dataType != dataset.DataTypeText {
		t.Errorf("expected Text, got %v", dataType)
	}
}

func TestNumericCoercionTreatsUnparseableAsMissing(t *testing.T) {
	data := newTestDataset(
		t,
		[]string{"value"},
		[][]string{{"10"}, {"not-a-number"}, {"20.5"}, {""}},
	)

	series, ok := data.Numeric("value")
	if !ok {
		t.Fatal("expected column 'value' to exist")
	}

	expectedValid := []bool{true, false, true, false}
	for i, valid := range expectedValid {
		if series.Valid[i] != valid {
			t.Errorf("expected Valid[%d] == %v", i, valid)
		}
	}
	if series.Values[0] != 10 || series.Values[2] != 20.5 {
		t.Errorf("unexpected values: %v", series.Values)
	}
}

func TestTimeCoercion(t *testing.T) {
	data := newTestDataset(
		t,
		[]string{"date"},
		[][]string{{"2024-01-02"}, {"garbage"}, {"2024-02-29 18:00:00"}},
	)

	series, ok := data.Times("date")
	if !ok {
		t.Fatal("expected column 'date' to exist")
	}

	if !series.Valid[0] || series.Valid[1] || !series.Valid[2] {
		t.Fatalf("unexpected validity: %v", series.Valid)
	}
	if series.Values[0].Format("2006-01-02") != "2024-01-02" {
		t.Errorf("unexpected parsed date: %v", series.Values[0])
	}
	if series.Values[2].Hour() != 18 {
		t.Errorf("expected hour 18, got %d", series.Values[2].Hour())
	}
}

func TestTimesMissingColumn(t *testing.T) {
	data := newTestDataset(t, []string{"value"}, [][]string{{"1"}})

	if _, ok := data.Times("nonexistent"); ok {
		t.Error("expected Times to report missing column")
	}
}

func TestRowConvertsNumericCells(t *testing.T) {
	data := newTestDataset(
		t,
		[]string{"platform", "total_brl"},
		[][]string{{"ifood", "100"}, {"rappi", ""}},
	)

	row := data.Row(0)
	if row["platform"] != "ifood" {
		t.Errorf("expected text cell 'ifood', got %v", row["platform"])
	}
	if row["total_brl"] != float64(100) {
		t.Errorf("expected numeric cell 100, got %v", row["total_brl"])
	}

	if missing := data.Row(1)["total_brl"]; missing != nil {
		t.Errorf("expected nil for missing numeric cell, got %v", missing)
	}
}

func TestTakeNarrowsRows(t *testing.T) {
	data := newTestDataset(
		t,
		[]string{"platform"},
		[][]string{{"ifood"}, {"rappi"}, {"site"}},
	)

	narrowed, err := data.Take([]int{2, 0})
	if err != nil {
		t.Fatal(err)
	}

	if narrowed.NumRows() != 2 {
		t.Fatalf("expected 2 rows, got %d", narrowed.NumRows())
	}
	values, _ := narrowed.Text("platform")
	if values[0] != "site" || values[1] != "ifood" {
		t.Errorf("unexpected values after Take: %v", values)
	}

	// The original dataset must be left untouched
	original, _ := data.Text("platform")
	if len(original) != 3 {
		t.Errorf("expected original dataset to keep 3 rows, got %d", len(original))
	}
}

func TestTakeOutOfRange(t *testing.T) {
	data := newTestDataset(t, []string{"value"}, [][]string{{"1"}})

	if _, err := data.Take([]int{3}); err == nil {
		t.Error("expected error for out-of-range row index")
	}
}

func TestShortRowsArePadded(t *testing.T) {
	data := newTestDataset(t, []string{"a", "b"}, [][]string{{"1"}})

	values, _ := data.Text("b")
	if values[0] != "" {
		t.Errorf("expected padded blank value, got '%s'", values[0])
	}
}

func TestDuplicateColumnNames(t *testing.T) {
	if _, err := dataset.FromRecords([]string{"a", "a"}, nil); err == nil {
		t.Error("expected error for duplicate column names")
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
