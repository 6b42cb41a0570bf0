package report

import (
	"strconv"

	"timetracker/export"
)

// Dataset renders the pivot as a table with a trailing Total column and row.
func (p Pivot) Dataset() export.Dataset {
	headers := make([]string, 0, len(p.Columns)+2)
	headers = append(headers, p.Label)
	headers = append(headers, p.Columns...)
	headers = append(headers, "Total")

	rows := make([][]string, 0, len(p.Rows)+1)
	for _, r := range p.Rows {
		row := make([]string, 0, len(headers))
		row = append(row, r.Name)
		for _, v := range r.Values {
			row = append(row, v.String())
		}
		rows = append(rows, append(row, r.Total.String()))
	}
	if len(p.Rows) > 0 {
		total := []string{"Total"}
		for _, v := range p.Totals {
			total = append(total, v.String())
		}
		rows = append(rows, append(total, p.Total.String()))
	}
	return export.Dataset{Title: p.Label, Headers: headers, Rows: rows}
}

// AssetDataset renders asset sums as a two-column table.
func AssetDataset(title string, amounts []AssetAmount) export.Dataset {
	rows := make([][]string, len(amounts))
	for i, a := range amounts {
		rows[i] = []string{a.Asset, strconv.Itoa(a.Amount)}
	}
	return export.Dataset{Title: title, Headers: []string{"Asset", "Amount"}, Rows: rows}
}

// Datasets lists every view of s in display order.
func (s Summary) Datasets() []export.Dataset {
	byEmployee := s.ByEmployee.Dataset()
	byEmployee.Title = "Hours by employee"
	byClient := s.ByClient.Dataset()
	byClient.Title = "Hours by client"
	out := []export.Dataset{byEmployee, byClient, AssetDataset("Assets produced", s.Assets)}
	if s.SelectedClient != "" {
		out = append(out, AssetDataset("Assets for "+s.SelectedClient, s.ClientAssets))
	}
	return out
}
