package dataset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"hermannm.dev/orderstats/csv"
	"hermannm.dev/wrap"
)

// Load reads the spreadsheet at the given path into a Dataset. Excel workbooks
// (.xlsx/.xlsm) and CSV files are supported.
func Load(path string) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FromExcel(path)
	default:
		file, err := os.Open(path)
		if err != nil {
			return nil, wrap.Errorf(err, "failed to open data file '%s'", path)
		}
		defer file.Close()

		return FromCSV(file)
	}
}

func FromCSV(file io.ReadSeeker) (*Dataset, error) {
	reader, err := csv.NewReader(file)
	if err != nil {
		return nil, wrap.Error(err, "failed to read CSV file")
	}

	header, err := reader.ReadHeaderRow()
	if err != nil {
		return nil, err
	}

	var rows [][]string
	for {
		row, done, err := reader.ReadRow()
		if done {
			break
		}
		if err != nil {
			return nil, wrap.Errorf(err, "failed to read row %d of CSV file", reader.CurrentRow())
		}
		rows = append(rows, row)
	}

	data, err := FromRecords(header, rows)
	if err != nil {
		return nil, wrap.Error(err, "failed to build dataset from CSV file")
	}
	return data, nil
}

func FromExcel(path string) (*Dataset, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, wrap.Errorf(err, "failed to open Excel workbook '%s'", path)
	}
	defer file.Close()

	sheet := file.GetSheetName(0)
	rows, err := file.GetRows(sheet)
	if err != nil {
		return nil, wrap.Errorf(err, "failed to read sheet '%s' from Excel workbook", sheet)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet '%s' in Excel workbook is empty", sheet)
	}

	data, err := FromRecords(rows[0], rows[1:])
	if err != nil {
		return nil, wrap.Error(err, "failed to build dataset from Excel workbook")
	}
	return data, nil
}

// deduceColumnType combines the type deduced from previous fields in a column with
// the type of the given field. Unlike a database ingest, an uploaded spreadsheet with
// mixed values in a column is not an error: conflicting deductions widen (integers
// and floats to Float, everything else to Text), and coercion failures become missing
// values at query time.
func deduceColumnType(previous DataType, field string) DataType {
	if field == "" {
		return previous
	}

	deduced := deduceTypeFromField(field)
	switch {
	case previous == 0 || previous == deduced:
		return deduced
	case (previous == DataTypeInt && deduced == DataTypeFloat) ||
		(previous == DataTypeFloat && deduced == DataTypeInt):
		return DataTypeFloat
	default:
		return DataTypeText
	}
}

func deduceTypeFromField(field string) DataType {
	if _, err := strconv.ParseInt(field, 10, 64); err == nil {
		return DataTypeInt
	}
	if _, err := strconv.ParseFloat(field, 64); err == nil {
		return DataTypeFloat
	}
	if _, ok := parseTime(field); ok {
		return DataTypeTimestamp
	}
	if _, err := uuid.Parse(field); err == nil {
		return DataTypeUUID
	}
	return DataTypeText
}
