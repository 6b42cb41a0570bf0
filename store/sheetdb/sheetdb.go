/*
Package sheetdb stores tables in a SQL database through gorm.

Each table is one Sheet row (its header) plus one SheetRow per data row,
ordered by Position. WriteTable replaces a table inside a single database
transaction, so a failed overwrite leaves the previous contents untouched.
*/
package sheetdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"timetracker/store"
)

type Sheet struct {
	Name      string   `gorm:"primaryKey;size:100"`
	Header    []string `gorm:"serializer:json;type:text"`
	UpdatedAt time.Time
}

type SheetRow struct {
	ID       uint     `gorm:"primaryKey"`
	Sheet    string   `gorm:"not null;size:100;index:idx_sheet_position,priority:1"`
	Position int      `gorm:"not null;index:idx_sheet_position,priority:2"`
	Cells    []string `gorm:"serializer:json;type:text"`
}

const insertBatchSize = 500

type Backend struct {
	db *gorm.DB
}

// New migrates the sheet tables and returns a backend on db.
func New(db *gorm.DB) (*Backend, error) {
	if err := db.AutoMigrate(&Sheet{}, &SheetRow{}); err != nil {
		return nil, fmt.Errorf("migrate sheet tables: %w", err)
	}
	return &Backend{db: db}, nil
}

func (b *Backend) Tables(ctx context.Context) ([]string, error) {
	var names []string
	if err := b.db.WithContext(ctx).Model(&Sheet{}).Order("name").Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("list sheets: %w", err)
	}
	return names, nil
}

func (b *Backend) ReadTable(ctx context.Context, name string) ([]string, [][]string, error) {
	db := b.db.WithContext(ctx)

	var sheet Sheet
	if err := db.Where("name = ?", name).First(&sheet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("read %s: %w", name, store.ErrTableNotFound)
		}
		return nil, nil, fmt.Errorf("read sheet %s: %w", name, err)
	}

	var rows []SheetRow
	if err := db.Where("sheet = ?", name).Order("position asc").Find(&rows).Error; err != nil {
		return nil, nil, fmt.Errorf("read rows of %s: %w", name, err)
	}

	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = r.Cells
	}
	return sheet.Header, out, nil
}

func (b *Backend) WriteTable(ctx context.Context, name string, header []string, rows [][]string) error {
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sheet := Sheet{Name: name, Header: header, UpdatedAt: time.Now().UTC()}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&sheet).Error; err != nil {
			return fmt.Errorf("write header of %s: %w", name, err)
		}
		if err := tx.Where("sheet = ?", name).Delete(&SheetRow{}).Error; err != nil {
			return fmt.Errorf("clear %s: %w", name, err)
		}
		if len(rows) == 0 {
			return nil
		}
		batch := make([]SheetRow, len(rows))
		for i, cells := range rows {
			batch[i] = SheetRow{Sheet: name, Position: i, Cells: cells}
		}
		if err := tx.CreateInBatches(batch, insertBatchSize).Error; err != nil {
			return fmt.Errorf("write rows of %s: %w", name, err)
		}
		return nil
	})
}
