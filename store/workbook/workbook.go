/*
Package workbook stores tables as worksheets of an XLSX file through excelize.

The first row of each worksheet is the header. WriteTable builds the new
contents on a scratch worksheet, swaps it in place of the old one and saves
the file, so readers never observe a half-written table.
*/
package workbook

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"

	"timetracker/store"
)

const scratchSuffix = "~new"

type Backend struct {
	mu          sync.Mutex
	path        string
	file        *excelize.File
	placeholder string
}

// Open loads the workbook at path, or starts an empty one when the file does
// not exist yet. An empty path keeps the workbook in memory only.
func Open(path string) (*Backend, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			f, err := excelize.OpenFile(path)
			if err != nil {
				return nil, fmt.Errorf("open workbook %s: %w", path, err)
			}
			return &Backend{path: path, file: f}, nil
		}
	}
	f := excelize.NewFile()
	// NewFile starts with a default sheet; it is dropped once a real table exists.
	return &Backend{path: path, file: f, placeholder: f.GetSheetName(0)}, nil
}

func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.file.Close()
}

func (b *Backend) Tables(_ context.Context) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var names []string
	for _, name := range b.file.GetSheetList() {
		if name == b.placeholder {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

func (b *Backend) hasSheet(name string) bool {
	for _, s := range b.file.GetSheetList() {
		if s == name {
			return true
		}
	}
	return false
}

func (b *Backend) ReadTable(_ context.Context, name string) ([]string, [][]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if name == b.placeholder || !b.hasSheet(name) {
		return nil, nil, fmt.Errorf("read %s: %w", name, store.ErrTableNotFound)
	}
	rows, err := b.file.GetRows(name)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, nil, nil
	}
	return rows[0], rows[1:], nil
}

func (b *Backend) WriteTable(_ context.Context, name string, header []string, rows [][]string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	scratch := name + scratchSuffix
	if b.hasSheet(scratch) {
		if err := b.file.DeleteSheet(scratch); err != nil {
			return fmt.Errorf("drop stale scratch sheet for %s: %w", name, err)
		}
	}
	if _, err := b.file.NewSheet(scratch); err != nil {
		return fmt.Errorf("create scratch sheet for %s: %w", name, err)
	}
	if err := writeRow(b.file, scratch, 1, header); err != nil {
		return fmt.Errorf("write header of %s: %w", name, err)
	}
	for i, row := range rows {
		if err := writeRow(b.file, scratch, i+2, row); err != nil {
			return fmt.Errorf("write row %d of %s: %w", i+1, name, err)
		}
	}

	if b.hasSheet(name) {
		if err := b.file.DeleteSheet(name); err != nil {
			return fmt.Errorf("replace %s: %w", name, err)
		}
	}
	if err := b.file.SetSheetName(scratch, name); err != nil {
		return fmt.Errorf("rename scratch sheet to %s: %w", name, err)
	}
	if b.placeholder != "" && b.placeholder != name && b.hasSheet(b.placeholder) {
		if err := b.file.DeleteSheet(b.placeholder); err != nil {
			return fmt.Errorf("drop default sheet: %w", err)
		}
	}
	b.placeholder = ""

	if b.path == "" {
		return nil
	}
	if err := b.file.SaveAs(b.path); err != nil {
		return fmt.Errorf("save workbook %s: %w", b.path, err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	return f.SetSheetRow(sheet, cell, &values)
}
