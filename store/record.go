package store

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Record is one flat row of a table, keyed by column name.
type Record map[string]string

// Clone returns a copy that can be modified without touching r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func cloneRecords(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}

// normalizeNumber canonicalises a numeric cell. Unparsable or empty values become "0".
func normalizeNumber(raw string) string {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return "0"
	}
	return d.String()
}

// decodeRows maps raw rows onto records using header, then normalises them
// against the declared schema. Columns not declared are kept as-is.
func decodeRows(schema Schema, header []string, rows [][]string) []Record {
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		rec := make(Record, len(header)+len(schema.Columns))
		for i, col := range header {
			col = strings.TrimSpace(col)
			if col == "" {
				continue
			}
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = ""
			}
		}
		normalize(schema, rec)
		records = append(records, rec)
	}
	return records
}

func normalize(schema Schema, rec Record) {
	for _, col := range schema.Columns {
		if _, ok := rec[col]; !ok {
			rec[col] = ""
		}
	}
	for col, v := range rec {
		if IsNumeric(col) {
			rec[col] = normalizeNumber(v)
		}
	}
}

// encodeRows projects records onto the declared columns, in order.
func encodeRows(schema Schema, records []Record) [][]string {
	rows := make([][]string, len(records))
	for i, rec := range records {
		row := make([]string, len(schema.Columns))
		for j, col := range schema.Columns {
			row[j] = rec[col]
		}
		rows[i] = row
	}
	return rows
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// NextID returns 1 for an empty collection or one without an id column,
// otherwise the largest id plus one. Gaps are never reused.
func NextID(records []Record) int {
	highest := int64(0)
	found := false
	for _, rec := range records {
		raw, ok := rec["id"]
		if !ok {
			continue
		}
		found = true
		d, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			continue
		}
		if id := d.IntPart(); id > highest {
			highest = id
		}
	}
	if !found {
		return 1
	}
	return int(highest) + 1
}
