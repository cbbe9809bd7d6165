package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"

	"adscount/adscount/utils/types"
)

// Table is an in-memory CSV: a header row plus data records.
type Table struct {
	Header  []string
	Records [][]string
}

func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows
	all, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse input table: %w", err)
	}
	if len(all) == 0 {
		return nil, errors.New("input table is empty")
	}
	return &Table{Header: all[0], Records: all[1:]}, nil
}

// DetectURLColumn finds the column holding URLs: a header containing "url" or
// "link" (case-insensitive), else the first column if its first data cell
// looks like an HTTP URL.
func (t *Table) DetectURLColumn() (int, error) {
	for i, name := range t.Header {
		lower := strings.ToLower(name)
		if strings.Contains(lower, "url") || strings.Contains(lower, "link") {
			return i, nil
		}
	}
	if len(t.Records) > 0 && len(t.Records[0]) > 0 && strings.HasPrefix(t.Records[0][0], "http") {
		return 0, nil
	}
	return -1, errors.New("could not detect a URL column; name it 'url' or similar")
}

// Rows materializes the given column as work rows. Missing cells become empty
// URLs, which the batch runner rejects per row instead of failing the load.
func (t *Table) Rows(col int) []types.Row {
	rows := make([]types.Row, len(t.Records))
	for i, rec := range t.Records {
		url := ""
		if col < len(rec) {
			url = rec[col]
		}
		rows[i] = types.Row{Index: i, URL: url}
	}
	return rows
}

// SetColumn replaces the named column, or appends it when absent. values is
// index-aligned with Records.
func (t *Table) SetColumn(name string, values []string) {
	idx := -1
	for i, h := range t.Header {
		if h == name {
			idx = i
			break
		}
	}
	if idx == -1 {
		t.Header = append(t.Header, name)
	}
	for i := range t.Records {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		if idx == -1 {
			t.Records[i] = append(t.Records[i], v)
			continue
		}
		for len(t.Records[i]) <= idx {
			t.Records[i] = append(t.Records[i], "")
		}
		t.Records[i][idx] = v
	}
}

func (t *Table) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output table: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		f.Close()
		return fmt.Errorf("write output table: %w", err)
	}
	for _, rec := range t.Records {
		if err := w.Write(rec); err != nil {
			f.Close()
			return fmt.Errorf("write output table: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("write output table: %w", err)
	}
	return f.Close()
}
