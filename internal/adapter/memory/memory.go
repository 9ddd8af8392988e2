// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"fmt"
	"sync"

	"weightlog/internal/domain"
)

// DB implements an in-memory entry store keyed by day.
type DB struct {
	mu      sync.Mutex
	entries map[string]domain.Entry
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{entries: make(map[string]domain.Entry)}
}

// Ensure interfaces are met.
var (
	_ domain.EntryRepository = (*DB)(nil)
	_ domain.BulkUpserter    = (*DB)(nil)
)

// Insert adds e unless its day is already stored.
func (db *DB) Insert(ctx context.Context, e domain.Entry) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.insertLocked(e)
}

// Upsert adds or replaces the entry for e.Day.
func (db *DB) Upsert(ctx context.Context, e domain.Entry) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.upsertLocked(e), nil
}

// UpsertAll upserts every entry and reports how many days were new.
func (db *DB) UpsertAll(ctx context.Context, entries []domain.Entry) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	created := 0
	for _, e := range entries {
		if db.upsertLocked(e) {
			created++
		}
	}
	return created, nil
}

// Replace swaps the entry stored at day for e.
func (db *DB) Replace(ctx context.Context, day string, e domain.Entry) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.replaceLocked(day, e)
}

// Delete removes the entry for day.
func (db *DB) Delete(ctx context.Context, day string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.deleteLocked(day)
}

// Get returns the entry for day.
func (db *DB) Get(ctx context.Context, day string) (*domain.Entry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	e, ok := db.entries[day]
	if !ok {
		return nil, fmt.Errorf("%w: no entry for %s", domain.ErrNotFound, day)
	}
	out := e.Clone()
	return &out, nil
}

// List returns every entry, ascending by day.
func (db *DB) List(ctx context.Context) ([]domain.Entry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.snapshotLocked(), nil
}

// ListRange returns the entries within r, ascending by day.
func (db *DB) ListRange(ctx context.Context, r domain.DateRange) ([]domain.Entry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return domain.FilterRange(db.snapshotLocked(), r), nil
}

// Load replaces the whole content of the store.
func (db *DB) Load(entries []domain.Entry) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.entries = make(map[string]domain.Entry, len(entries))
	for _, e := range entries {
		db.entries[e.Day] = e.Clone()
	}
}

// Mutate runs fn against the store while holding its lock. If commit
// fails the store is restored to its state before fn ran.
func (db *DB) Mutate(fn func(tx *Tx) error, commit func([]domain.Entry) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	prev := db.entries
	db.entries = make(map[string]domain.Entry, len(prev))
	for k, v := range prev {
		db.entries[k] = v
	}
	if err := fn(&Tx{db: db}); err != nil {
		db.entries = prev
		return err
	}
	if commit != nil {
		if err := commit(db.snapshotLocked()); err != nil {
			db.entries = prev
			return err
		}
	}
	return nil
}

// Tx exposes the store's mutations inside Mutate.
type Tx struct {
	db *DB

	// Created is set by Upsert.
	Created bool
}

// Insert adds e unless its day is already stored.
func (tx *Tx) Insert(e domain.Entry) error { return tx.db.insertLocked(e) }

// Upsert adds or replaces the entry for e.Day.
func (tx *Tx) Upsert(e domain.Entry) { tx.Created = tx.db.upsertLocked(e) }

// Replace swaps the entry stored at day for e.
func (tx *Tx) Replace(day string, e domain.Entry) error { return tx.db.replaceLocked(day, e) }

// Delete removes the entry for day.
func (tx *Tx) Delete(day string) error { return tx.db.deleteLocked(day) }

func (db *DB) insertLocked(e domain.Entry) error {
	if _, ok := db.entries[e.Day]; ok {
		return fmt.Errorf("%w: %s", domain.ErrDuplicate, e.Day)
	}
	db.entries[e.Day] = e.Clone()
	return nil
}

func (db *DB) upsertLocked(e domain.Entry) bool {
	_, exists := db.entries[e.Day]
	db.entries[e.Day] = e.Clone()
	return !exists
}

func (db *DB) replaceLocked(day string, e domain.Entry) error {
	if _, ok := db.entries[day]; !ok {
		return fmt.Errorf("%w: no entry for %s", domain.ErrNotFound, day)
	}
	if e.Day != day {
		if _, taken := db.entries[e.Day]; taken {
			return fmt.Errorf("%w: %s", domain.ErrDuplicate, e.Day)
		}
		delete(db.entries, day)
	}
	db.entries[e.Day] = e.Clone()
	return nil
}

func (db *DB) deleteLocked(day string) error {
	if _, ok := db.entries[day]; !ok {
		return fmt.Errorf("%w: no entry for %s", domain.ErrNotFound, day)
	}
	delete(db.entries, day)
	return nil
}

func (db *DB) snapshotLocked() []domain.Entry {
	out := make([]domain.Entry, 0, len(db.entries))
	for _, e := range db.entries {
		out = append(out, e.Clone())
	}
	domain.SortByDay(out)
	return out
}
