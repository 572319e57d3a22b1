package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/wellchart/internal/dataset"
)

// Parse reads normalized text into a dataset named name. The first record
// is the header; blank lines are skipped and cells are dynamically typed.
func Parse(name string, n Normalized) (*dataset.Dataset, error) {
	r := csv.NewReader(strings.NewReader(n.Text))
	r.Comma = n.Delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrHeaderNotFound
		}
		return nil, fmt.Errorf("invalid csv header: %w", err)
	}
	header = append([]string(nil), header...)

	var rows [][]dataset.Value
	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid csv at line %d: %w", line, err)
		}

		row := make([]dataset.Value, len(rec))
		for i, cell := range rec {
			row[i] = dataset.ParseValue(cell)
		}
		rows = append(rows, row)
	}

	return dataset.New(name, header, n.Delimiter, rows), nil
}
