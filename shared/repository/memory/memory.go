// Package memory is an in-process implementation of repository.Table and
// repository.Transactor for tests. By default transactions are serialised and
// roll back by restoring a snapshot of every table. With Concurrent they
// interleave like READ COMMITTED transactions and roll back from an undo log.
package memory

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"poolbook/shared/dto"
	"poolbook/shared/repository"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
)

// Unique emulates a (partial) unique index: no two rows matching Where may
// share the same values for Columns. Rows with a NULL in Columns are ignored.
type Unique struct {
	Columns []string
	Where   dto.FilterGroup
}

var errRequiredFilter = errors.New("required filter")

type DB struct {
	txMu   sync.Mutex
	mu     sync.Mutex
	tables map[string]*Table

	concurrent   bool
	countLatency time.Duration
}

type Option func(*DB)

// Concurrent stops serialising transactions. Each transaction sees the
// writes of the others as soon as they happen, and a rollback only undoes
// its own writes.
func Concurrent() Option {
	return func(db *DB) {
		db.concurrent = true
	}
}

// CountLatency delays every count after it has been taken, widening the gap
// between a read and the writes that depend on it.
func CountLatency(latency time.Duration) Option {
	return func(db *DB) {
		db.countLatency = latency
	}
}

func NewDB(opts ...Option) *DB {
	db := &DB{tables: map[string]*Table{}}

	for _, opt := range opts {
		opt(db)
	}

	return db
}

// Table returns the named table, creating it on first use.
func (db *DB) Table(name, primaryColumn string, uniques ...Unique) *Table {
	db.mu.Lock()
	defer db.mu.Unlock()

	if table, ok := db.tables[name]; ok {
		return table
	}

	table := &Table{db: db, name: name, primaryColumn: primaryColumn, uniques: uniques}
	db.tables[name] = table

	return table
}

// WithTx implements repository.Transactor. fn receives a nil *sqlx.Tx.
func (db *DB) WithTx(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) (err error) {
	if db.concurrent {
		return db.withJournal(ctx, fn)
	}

	db.txMu.Lock()
	defer db.txMu.Unlock()

	snapshot := db.snapshot()

	defer func() {
		if p := recover(); p != nil {
			db.restore(snapshot)

			panic(p)
		}

		if err != nil {
			db.restore(snapshot)
		}
	}()

	return fn(ctx, nil)
}

type journalKey struct{}

// journal holds the undo steps of one transaction, newest last.
type journal struct {
	undo []func()
}

func (db *DB) withJournal(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) (err error) {
	entries := &journal{}

	defer func() {
		if p := recover(); p != nil {
			db.rollback(entries)

			panic(p)
		}

		if err != nil {
			db.rollback(entries)
		}
	}()

	return fn(context.WithValue(ctx, journalKey{}, entries), nil)
}

func (db *DB) rollback(entries *journal) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, undo := range slices.Backward(entries.undo) {
		undo()
	}
}

// record adds an undo step to the transaction carried by ctx. db.mu must be
// held.
func record(ctx context.Context, undo func()) {
	if entries, ok := ctx.Value(journalKey{}).(*journal); ok {
		entries.undo = append(entries.undo, undo)
	}
}

type tableState struct {
	rows   []map[string]any
	nextID int64
}

func (db *DB) snapshot() map[string]tableState {
	db.mu.Lock()
	defer db.mu.Unlock()

	state := make(map[string]tableState, len(db.tables))
	for name, table := range db.tables {
		state[name] = tableState{rows: cloneRows(table.rows), nextID: table.nextID}
	}

	return state
}

func (db *DB) restore(state map[string]tableState) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for name, table := range db.tables {
		saved, ok := state[name]
		if !ok {
			table.rows = nil
			table.nextID = 0

			continue
		}

		table.rows = saved.rows
		table.nextID = saved.nextID
	}
}

type Table struct {
	db            *DB
	name          string
	primaryColumn string
	uniques       []Unique
	rows          []map[string]any
	nextID        int64

	// FailOn makes the named operation return the error once.
	FailOn map[string]error
}

var _ repository.Table = (*Table)(nil)

// Rows returns a copy of every stored row.
func (t *Table) Rows() []map[string]any {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	return cloneRows(t.rows)
}

func (t *Table) Name() string {
	return t.name
}

func (t *Table) failure(operation string) error {
	err, ok := t.FailOn[operation]
	if !ok {
		return nil
	}

	delete(t.FailOn, operation)

	return err
}

func (t *Table) InsertTx(ctx context.Context, _ *sqlx.Tx, fields map[string]any) (int64, error) {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	if err := t.failure("InsertTx"); err != nil {
		return 0, err
	}

	row := maps.Clone(fields)

	if err := t.checkUnique(row, -1); err != nil {
		return 0, err
	}

	var id int64
	if t.primaryColumn != "" {
		t.nextID++
		id = t.nextID
		row[t.primaryColumn] = id
	}

	t.rows = append(t.rows, row)

	record(ctx, func() {
		t.rows = slices.DeleteFunc(t.rows, func(stored map[string]any) bool {
			return sameRow(stored, row)
		})
	})

	return id, nil
}

func (t *Table) UpdateTx(ctx context.Context, _ *sqlx.Tx, fields map[string]any, filter dto.FilterGroup) (int64, error) {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	if err := t.failure("UpdateTx"); err != nil {
		return 0, err
	}

	var affected int64

	for idx, row := range t.rows {
		if !Match(row, filter) {
			continue
		}

		updated := maps.Clone(row)
		maps.Copy(updated, fields)

		if err := t.checkUnique(updated, idx); err != nil {
			return affected, err
		}

		previous := maps.Clone(row)
		maps.Copy(row, fields)

		record(ctx, func() {
			clear(row)
			maps.Copy(row, previous)
		})

		affected++
	}

	return affected, nil
}

func (t *Table) DeleteTx(ctx context.Context, _ *sqlx.Tx, filter dto.FilterGroup) (int64, error) {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	if err := t.failure("DeleteTx"); err != nil {
		return 0, err
	}

	if filter.IsEmpty() {
		return 0, errRequiredFilter
	}

	var removed []map[string]any

	t.rows = slices.DeleteFunc(t.rows, func(row map[string]any) bool {
		if !Match(row, filter) {
			return false
		}

		removed = append(removed, row)

		return true
	})

	record(ctx, func() {
		t.rows = append(t.rows, removed...)
	})

	return int64(len(removed)), nil
}

func (t *Table) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	return t.CountTx(ctx, nil, filter)
}

func (t *Table) CountTx(_ context.Context, _ *sqlx.Tx, filter dto.FilterGroup) (int, error) {
	count, err := t.count(filter)
	if err == nil && t.db.countLatency > 0 {
		time.Sleep(t.db.countLatency)
	}

	return count, err
}

func (t *Table) count(filter dto.FilterGroup) (int, error) {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	if err := t.failure("CountTx"); err != nil {
		return 0, err
	}

	count := 0

	for _, row := range t.rows {
		if Match(row, filter) {
			count++
		}
	}

	return count, nil
}

func (t *Table) Select(_ context.Context, filter dto.FilterGroup, columns ...string) ([]map[string]any, error) {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	if err := t.failure("Select"); err != nil {
		return nil, err
	}

	result := []map[string]any{}

	for _, row := range t.rows {
		if !Match(row, filter) {
			continue
		}

		if len(columns) == 0 {
			result = append(result, maps.Clone(row))

			continue
		}

		projected := make(map[string]any, len(columns))
		for _, column := range columns {
			projected[column] = row[column]
		}

		result = append(result, projected)
	}

	return result, nil
}

func (t *Table) checkUnique(candidate map[string]any, skip int) error {
	for _, unique := range t.uniques {
		if !Match(candidate, unique.Where) || hasNull(candidate, unique.Columns) {
			continue
		}

		for idx, row := range t.rows {
			if idx == skip || !Match(row, unique.Where) {
				continue
			}

			if sameValues(row, candidate, unique.Columns) {
				return fmt.Errorf("%w: %s %v", repository.ErrUniqueViolation, t.name, unique.Columns)
			}
		}
	}

	return nil
}

func hasNull(row map[string]any, columns []string) bool {
	for _, column := range columns {
		if row[column] == nil {
			return true
		}
	}

	return false
}

func sameValues(a, b map[string]any, columns []string) bool {
	for _, column := range columns {
		if !equal(a[column], b[column]) {
			return false
		}
	}

	return true
}

// sameRow reports whether a and b are the same stored map, not just equal.
func sameRow(a, b map[string]any) bool {
	return reflect.ValueOf(a).UnsafePointer() == reflect.ValueOf(b).UnsafePointer()
}

func cloneRows(rows []map[string]any) []map[string]any {
	cloned := make([]map[string]any, len(rows))
	for idx, row := range rows {
		cloned[idx] = maps.Clone(row)
	}

	return cloned
}
