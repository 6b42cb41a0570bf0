package report

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Pivot is a name × date table of summed hours.
type Pivot struct {
	Label   string            `json:"label"`
	Columns []string          `json:"columns"`
	Rows    []PivotRow        `json:"rows"`
	Totals  []decimal.Decimal `json:"totals"`
	Total   decimal.Decimal   `json:"total"`
}

type PivotRow struct {
	Name   string            `json:"name"`
	Values []decimal.Decimal `json:"values"`
	Total  decimal.Decimal   `json:"total"`
}

type cell struct {
	row   string
	col   string
	value decimal.Decimal
}

// buildPivot sums cells into a pivot. Rows follow the order in which names
// are first seen. Columns are the given ones, or the distinct cell columns
// in ascending order when columns is nil. Cells outside the columns are ignored.
func buildPivot(label string, cells []cell, columns []string) Pivot {
	if columns == nil {
		seen := map[string]bool{}
		for _, c := range cells {
			if !seen[c.col] {
				seen[c.col] = true
				columns = append(columns, c.col)
			}
		}
		sort.Strings(columns)
	}
	colIndex := make(map[string]int, len(columns))
	for i, c := range columns {
		colIndex[c] = i
	}

	p := Pivot{Label: label, Columns: columns, Rows: []PivotRow{}, Totals: zeros(len(columns)), Total: decimal.Zero}
	rowIndex := map[string]int{}
	for _, c := range cells {
		j, ok := colIndex[c.col]
		if !ok {
			continue
		}
		i, ok := rowIndex[c.row]
		if !ok {
			i = len(p.Rows)
			rowIndex[c.row] = i
			p.Rows = append(p.Rows, PivotRow{Name: c.row, Values: zeros(len(columns)), Total: decimal.Zero})
		}
		row := &p.Rows[i]
		row.Values[j] = row.Values[j].Add(c.value)
		row.Total = row.Total.Add(c.value)
		p.Totals[j] = p.Totals[j].Add(c.value)
		p.Total = p.Total.Add(c.value)
	}
	return p
}

func zeros(n int) []decimal.Decimal {
	out := make([]decimal.Decimal, n)
	for i := range out {
		out[i] = decimal.Zero
	}
	return out
}

// Empty reports whether the pivot has no rows.
func (p Pivot) Empty() bool {
	return len(p.Rows) == 0
}

// Value returns the cell at (row, column), or zero.
func (p Pivot) Value(row, column string) decimal.Decimal {
	for _, r := range p.Rows {
		if r.Name != row {
			continue
		}
		for j, c := range p.Columns {
			if c == column {
				return r.Values[j]
			}
		}
	}
	return decimal.Zero
}
