package workbook

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timetracker/store"
)

func TestOpen_NewWorkbookHasNoTables(t *testing.T) {
	b, err := Open(filepath.Join(t.TempDir(), "tracker.xlsx"))
	require.NoError(t, err)
	defer b.Close()

	names, err := b.Tables(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)

	_, _, err = b.ReadTable(context.Background(), "Users")
	assert.ErrorIs(t, err, store.ErrTableNotFound)
}

func TestWriteTable_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.xlsx")
	ctx := context.Background()
	header := []string{"id", "name", "date_added"}

	b, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, b.WriteTable(ctx, "Clients", header, [][]string{{"1", "Acme", "2024-01-02"}, {"2", "Globex", ""}}))
	require.NoError(t, b.WriteTable(ctx, "Clients", header, [][]string{{"2", "Globex", ""}}))
	require.NoError(t, b.WriteTable(ctx, "Assets", header, nil))
	require.NoError(t, b.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	names, err := reopened.Tables(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Clients", "Assets"}, names)

	gotHeader, rows, err := reopened.ReadTable(ctx, "Clients")
	require.NoError(t, err)
	assert.Equal(t, header, gotHeader)
	require.Len(t, rows, 1)
	assert.Equal(t, "Globex", rows[0][1])
}

func TestBackend_WithStore(t *testing.T) {
	b, err := Open("")
	require.NoError(t, err)
	defer b.Close()

	s := store.New(b, store.Options{})
	ctx := context.Background()
	require.NoError(t, s.Init(ctx, store.Record{"id": "1", "username": "admin", "role": "Admin"}))
	require.NoError(t, s.Save(ctx, store.SubmittedWeeks, []store.Record{
		{"user_id": "7", "week_start": "2024-06-03", "status": "Submitted", "submitted_at": "2024-06-07 17:00:00"},
	}))

	weeks, err := s.LoadStrict(ctx, store.SubmittedWeeks)
	require.NoError(t, err)
	require.Len(t, weeks, 1)
	assert.Equal(t, "Submitted", weeks[0]["status"])
	assert.Equal(t, "7", weeks[0]["user_id"])
}
