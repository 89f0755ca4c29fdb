package csv

import (
	"encoding/csv"
	"errors"
	"io"

	"hermannm.dev/wrap"
)

type Reader struct {
	inner      *csv.Reader
	currentRow int
}

func NewReader(csvFile io.ReadSeeker) (*Reader, error) {
	delimiter, err := DeduceFieldDelimiter(csvFile, 20)
	if err != nil {
		return nil, err
	}

	inner := csv.NewReader(csvFile)
	inner.Comma = delimiter
	// Spreadsheet exports commonly have ragged rows; lengths are reconciled against
	// the header by the dataset builder instead.
	inner.FieldsPerRecord = -1

	return &Reader{inner: inner, currentRow: 0}, nil
}

func (reader *Reader) ReadHeaderRow() ([]string, error) {
	if reader.currentRow != 0 {
		return nil, errors.New("tried to read header row after reading previous rows")
	}

	header, done, err := reader.ReadRow()
	if done {
		return nil, errors.New("csv file ended before header row")
	}
	if err != nil {
		return nil, wrap.Error(err, "failed to read CSV header row")
	}

	return header, nil
}

func (reader *Reader) ReadRow() (row []string, done bool, err error) {
	reader.currentRow++

	row, err = reader.inner.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, true, nil
		}
		return nil, false, err
	}

	return row, false, nil
}

func (reader *Reader) CurrentRow() int {
	return reader.currentRow
}
