package sheetdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"timetracker/store"
)

func newBackend(t *testing.T) *Backend {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sheets.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	b, err := New(db)
	require.NoError(t, err)
	return b
}

func TestReadTable_Missing(t *testing.T) {
	b := newBackend(t)
	_, _, err := b.ReadTable(context.Background(), "Users")
	assert.ErrorIs(t, err, store.ErrTableNotFound)
}

func TestWriteTable_RoundTripKeepsRowOrder(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()

	header := []string{"id", "name", "date_added"}
	rows := [][]string{{"3", "C", ""}, {"1", "A", ""}, {"2", "B", ""}}
	require.NoError(t, b.WriteTable(ctx, "Clients", header, rows))

	gotHeader, gotRows, err := b.ReadTable(ctx, "Clients")
	require.NoError(t, err)
	assert.Equal(t, header, gotHeader)
	assert.Equal(t, rows, gotRows)
}

func TestWriteTable_ReplacesPreviousContents(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()
	header := []string{"id", "name", "date_added"}

	require.NoError(t, b.WriteTable(ctx, "Assets", header, [][]string{{"1", "A", ""}, {"2", "B", ""}}))
	require.NoError(t, b.WriteTable(ctx, "Assets", header, [][]string{{"2", "B", ""}}))
	require.NoError(t, b.WriteTable(ctx, "Clients", header, nil))

	_, rows, err := b.ReadTable(ctx, "Assets")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"2", "B", ""}}, rows)

	_, rows, err = b.ReadTable(ctx, "Clients")
	require.NoError(t, err)
	assert.Empty(t, rows)

	names, err := b.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Assets", "Clients"}, names)
}

func TestBackend_WithStore(t *testing.T) {
	s := store.New(newBackend(t), store.Options{})
	ctx := context.Background()

	require.NoError(t, s.Init(ctx, store.Record{"id": "1", "username": "admin", "role": "Admin"}))
	require.NoError(t, s.Save(ctx, store.TimeEntries, []store.Record{
		{"user_id": "7", "client_id": "2", "date": "2024-06-03", "hours": "4", "week_start": "2024-06-03"},
	}))

	entries, err := s.LoadStrict(ctx, store.TimeEntries)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "4", entries[0]["hours"])
	assert.Len(t, s.Load(ctx, store.Users), 1)
}
