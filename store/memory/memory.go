// Package memory provides an in-memory table backend (for testing/dev).
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"timetracker/store"
)

type table struct {
	header []string
	rows   [][]string
}

type Backend struct {
	mu       sync.RWMutex
	tables   map[string]table
	readErr  error
	writeErr error
	reads    map[string]int
}

func New() *Backend {
	return &Backend{tables: map[string]table{}, reads: map[string]int{}}
}

// FailReads makes every following read return err until it is reset with nil.
func (b *Backend) FailReads(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.readErr = err
}

// FailWrites makes every following write return err until it is reset with nil.
func (b *Backend) FailWrites(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writeErr = err
}

// Reads returns how many times name was read from the backend.
func (b *Backend) Reads(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.reads[name]
}

// Put replaces a table directly, bypassing write failure injection.
// Rows may carry columns the store does not declare.
func (b *Backend) Put(name string, header []string, rows ...[]string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tables[name] = table{header: copyRow(header), rows: copyRows(rows)}
}

func (b *Backend) Tables(_ context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.readErr != nil {
		return nil, b.readErr
	}
	names := make([]string, 0, len(b.tables))
	for name := range b.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (b *Backend) ReadTable(_ context.Context, name string) ([]string, [][]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reads[name]++
	if b.readErr != nil {
		return nil, nil, b.readErr
	}
	t, ok := b.tables[name]
	if !ok {
		return nil, nil, fmt.Errorf("read %s: %w", name, store.ErrTableNotFound)
	}
	return copyRow(t.header), copyRows(t.rows), nil
}

func (b *Backend) WriteTable(_ context.Context, name string, header []string, rows [][]string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.writeErr != nil {
		return b.writeErr
	}
	b.tables[name] = table{header: copyRow(header), rows: copyRows(rows)}
	return nil
}

// Rows returns a copy of the raw rows of name, for assertions.
func (b *Backend) Rows(name string) [][]string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return copyRows(b.tables[name].rows)
}

func copyRow(row []string) []string {
	return append([]string(nil), row...)
}

func copyRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = copyRow(r)
	}
	return out
}
