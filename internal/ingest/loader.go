// Package ingest loads job spreadsheets, normalizes each row and replaces the
// stored job collection with the result.
package ingest

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

// LoadFile reads raw records from an .xlsx (first sheet), .csv or .json
// (array of objects) file. Spreadsheet header cells become keys and empty
// cells become nil.
func LoadFile(path string) ([]map[string]any, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return loadXLSX(path)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return LoadCSV(f)
	case ".json":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return LoadJSON(f)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

func loadXLSX(path string) ([]map[string]any, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return table(rows), nil
}

// LoadCSV reads a header row followed by data rows.
func LoadCSV(r io.Reader) ([]map[string]any, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return table(rows), nil
}

// LoadJSON reads an array of objects.
func LoadJSON(r io.Reader) ([]map[string]any, error) {
	var out []map[string]any
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode json records: %w", err)
	}
	return out, nil
}

// table turns a header row plus data rows into records. Short rows are
// padded with nil and fully empty rows are dropped.
func table(rows [][]string) []map[string]any {
	if len(rows) == 0 {
		return nil
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	out := make([]map[string]any, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(map[string]any, len(header))
		empty := true
		for i, key := range header {
			if key == "" {
				continue
			}
			var cell any
			if i < len(row) && strings.TrimSpace(row[i]) != "" {
				cell = row[i]
				empty = false
			}
			rec[key] = cell
		}
		if !empty {
			out = append(out, rec)
		}
	}
	return out
}
