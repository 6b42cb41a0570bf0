package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Dataset defines one titled table of export content.
type Dataset struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// CSVExporter renders datasets into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render writes each dataset as a header row and its rows. Consecutive
// datasets are separated by an empty record and prefixed with their title.
func (e *CSVExporter) Render(datasets ...Dataset) ([]byte, error) {
	if len(datasets) == 0 {
		return nil, fmt.Errorf("csv requires at least one dataset")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	for i, data := range datasets {
		if len(data.Headers) == 0 {
			return nil, fmt.Errorf("csv dataset %q has no headers", data.Title)
		}
		if len(datasets) > 1 {
			if i > 0 {
				if err := writer.Write([]string{""}); err != nil {
					return nil, fmt.Errorf("write csv separator: %w", err)
				}
			}
			if err := writer.Write([]string{data.Title}); err != nil {
				return nil, fmt.Errorf("write csv title: %w", err)
			}
		}
		if err := writer.Write(data.Headers); err != nil {
			return nil, fmt.Errorf("write csv headers: %w", err)
		}
		for _, row := range data.Rows {
			record := make([]string, len(data.Headers))
			copy(record, row)
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("write csv row: %w", err)
			}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
