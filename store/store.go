/*
Package store is the record store adapter: uniform load/save of named tables
as ordered collections of flat records.

Every write is a full overwrite of one table. There is no row-level patch
primitive; callers read the whole table, compute the complete desired
contents and save them back.

Reads come in two flavours:

	Load        snapshot read through the cache; a failed read degrades to
	            an empty result after one bounded pause and one retry.
	LoadStrict  uncached read that surfaces apperr.ErrStoreUnavailable. Use
	            it before any Save so an overwrite is never computed from a
	            stale or empty snapshot.
*/
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"timetracker/apperr"
	"timetracker/metrics"
)

// ErrTableNotFound is returned by backends when a table has never been written.
var ErrTableNotFound = errors.New("table not found")

// Backend is the raw tabular storage: named tables of a header row plus data rows.
type Backend interface {
	Tables(ctx context.Context) ([]string, error)
	ReadTable(ctx context.Context, name string) (header []string, rows [][]string, err error)
	// WriteTable replaces the whole table with header and rows.
	WriteTable(ctx context.Context, name string, header []string, rows [][]string) error
}

// Cache holds recent table snapshots.
type Cache interface {
	Get(ctx context.Context, table Table) ([]Record, bool)
	Set(ctx context.Context, table Table, records []Record)
	Invalidate(ctx context.Context, table Table)
}

// Options tunes a Store.
type Options struct {
	Cache Cache
	// ReadPause is the single backoff pause before retrying a failed read.
	ReadPause time.Duration
	Logger    *zap.Logger
}

type Store struct {
	backend   Backend
	cache     Cache
	readPause time.Duration
	logger    *zap.Logger
}

func New(backend Backend, opts Options) *Store {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Cache == nil {
		opts.Cache = NoCache{}
	}
	if opts.ReadPause < 0 {
		opts.ReadPause = 0
	}
	return &Store{
		backend:   backend,
		cache:     opts.Cache,
		readPause: opts.ReadPause,
		logger:    opts.Logger,
	}
}

// Load returns the normalised contents of t, preferring a cached snapshot.
// Read failures are absorbed: the caller gets an empty collection.
func (s *Store) Load(ctx context.Context, t Table) []Record {
	if cached, ok := s.cache.Get(ctx, t); ok {
		return cached
	}
	records, err := s.read(ctx, t)
	if err != nil {
		s.logger.Warn("store read failed, returning empty table",
			zap.String("table", string(t)), zap.Error(err))
		return []Record{}
	}
	s.cache.Set(ctx, t, records)
	return cloneRecords(records)
}

// LoadStrict reads t straight from the backend and reports failures.
func (s *Store) LoadStrict(ctx context.Context, t Table) ([]Record, error) {
	records, err := s.read(ctx, t)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.ErrStoreUnavailable, fmt.Sprintf("read %s", t))
	}
	return records, nil
}

func (s *Store) read(ctx context.Context, t Table) ([]Record, error) {
	records, err := s.readOnce(ctx, t)
	if err == nil {
		return records, nil
	}
	s.logger.Warn("store read failed, retrying once",
		zap.String("table", string(t)),
		zap.Duration("pause", s.readPause),
		zap.Error(err))

	timer := time.NewTimer(s.readPause)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}
	return s.readOnce(ctx, t)
}

func (s *Store) readOnce(ctx context.Context, t Table) ([]Record, error) {
	start := time.Now()
	header, rows, err := s.backend.ReadTable(ctx, string(t))
	metrics.ObserveStoreOp(string(t), "read", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	return decodeRows(SchemaOf(t), header, rows), nil
}

// Save overwrites t with exactly records, restricted to the declared columns.
func (s *Store) Save(ctx context.Context, t Table, records []Record) error {
	schema := SchemaOf(t)
	start := time.Now()
	err := s.backend.WriteTable(ctx, string(t), schema.Columns, encodeRows(schema, records))
	metrics.ObserveStoreOp(string(t), "write", err, time.Since(start))
	s.cache.Invalidate(ctx, t)
	if err != nil {
		s.logger.Error("store write failed", zap.String("table", string(t)), zap.Error(err))
		return apperr.Wrap(err, apperr.ErrStoreWriteFailure, fmt.Sprintf("save %s", t))
	}
	s.logger.Debug("table saved", zap.String("table", string(t)), zap.Int("rows", len(records)))
	return nil
}

// Init creates every missing table with its header row. When the Users table
// is created, seed is written as its only row.
func (s *Store) Init(ctx context.Context, seed Record) error {
	existing, err := s.backend.Tables(ctx)
	if err != nil {
		return apperr.Wrap(err, apperr.ErrStoreUnavailable, "list tables")
	}
	have := make(map[string]bool, len(existing))
	for _, name := range existing {
		have[name] = true
	}
	for _, t := range AllTables() {
		if have[string(t)] {
			continue
		}
		var records []Record
		if t == Users && seed != nil {
			records = []Record{seed}
		}
		if err := s.Save(ctx, t, records); err != nil {
			return err
		}
		s.logger.Info("table created", zap.String("table", string(t)))
	}
	return nil
}
