// Package sqlite stores entries in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"weightlog/internal/domain"

	_ "modernc.org/sqlite"
)

// DB is a SQLite-backed domain.EntryRepository.
type DB struct {
	sql *sql.DB
}

var (
	_ domain.EntryRepository = (*DB)(nil)
	_ domain.BulkUpserter    = (*DB)(nil)
)

// Open creates the database file if needed, pings it and runs migrations.
func Open(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create db directory: %w", domain.ErrIO, err)
	}

	s, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite database: %w", domain.ErrIO, err)
	}
	// One writer at a time; SQLite serializes anyway.
	s.SetMaxOpenConns(1)

	if err := s.Ping(); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%w: ping database: %w", domain.ErrIO, err)
	}
	if err := RunMigrations(dbPath); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	return &DB{sql: s}, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

// Insert adds e unless its day is already stored.
func (d *DB) Insert(ctx context.Context, e domain.Entry) error {
	res, err := d.sql.ExecContext(ctx,
		"INSERT INTO entries(day, weight, calories, photo_path) VALUES(?, ?, ?, ?) ON CONFLICT(day) DO NOTHING;",
		e.Day, e.Weight, nullInt(e.Calories), e.PhotoPath,
	)
	if err != nil {
		return wrap(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrap(err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrDuplicate, e.Day)
	}
	return nil
}

// Upsert adds or replaces the entry for e.Day.
func (d *DB) Upsert(ctx context.Context, e domain.Entry) (bool, error) {
	created, err := d.UpsertAll(ctx, []domain.Entry{e})
	return created == 1, err
}

// UpsertAll upserts every entry in a single transaction.
func (d *DB) UpsertAll(ctx context.Context, entries []domain.Entry) (int, error) {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return 0, wrap(err)
	}
	defer func() { _ = tx.Rollback() }()

	created := 0
	for _, e := range entries {
		exists, err := dayExists(ctx, tx, e.Day)
		if err != nil {
			return 0, err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO entries(day, weight, calories, photo_path) VALUES(?, ?, ?, ?)
			 ON CONFLICT(day) DO UPDATE SET weight=excluded.weight, calories=excluded.calories,
			 photo_path=excluded.photo_path, updated_at=strftime('%Y-%m-%dT%H:%M:%fZ', 'now');`,
			e.Day, e.Weight, nullInt(e.Calories), e.PhotoPath,
		)
		if err != nil {
			return 0, wrap(err)
		}
		if !exists {
			created++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, wrap(err)
	}
	return created, nil
}

// Replace swaps the entry stored at day for e.
func (d *DB) Replace(ctx context.Context, day string, e domain.Entry) error {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return wrap(err)
	}
	defer func() { _ = tx.Rollback() }()

	if e.Day != day {
		taken, err := dayExists(ctx, tx, e.Day)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: %s", domain.ErrDuplicate, e.Day)
		}
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE entries SET day=?, weight=?, calories=?, photo_path=?,
		 updated_at=strftime('%Y-%m-%dT%H:%M:%fZ', 'now') WHERE day=?;`,
		e.Day, e.Weight, nullInt(e.Calories), e.PhotoPath, day,
	)
	if err != nil {
		return wrap(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return wrap(err)
	} else if n == 0 {
		return fmt.Errorf("%w: no entry for %s", domain.ErrNotFound, day)
	}
	return wrap(tx.Commit())
}

// Delete removes the entry for day.
func (d *DB) Delete(ctx context.Context, day string) error {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM entries WHERE day=?;", day)
	if err != nil {
		return wrap(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrap(err)
	}
	if n == 0 {
		return fmt.Errorf("%w: no entry for %s", domain.ErrNotFound, day)
	}
	return nil
}

// Get returns the entry for day.
func (d *DB) Get(ctx context.Context, day string) (*domain.Entry, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT day, weight, calories, photo_path FROM entries WHERE day=?;", day)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no entry for %s", domain.ErrNotFound, day)
	}
	if err != nil {
		return nil, wrap(err)
	}
	return &e, nil
}

// List returns every entry, ascending by day.
func (d *DB) List(ctx context.Context) ([]domain.Entry, error) {
	return d.query(ctx, "SELECT day, weight, calories, photo_path FROM entries ORDER BY day ASC;")
}

// ListRange returns the entries within r, ascending by day.
func (d *DB) ListRange(ctx context.Context, r domain.DateRange) ([]domain.Entry, error) {
	return d.query(ctx,
		"SELECT day, weight, calories, photo_path FROM entries WHERE day >= ? AND day <= ? ORDER BY day ASC;",
		r.From, r.To)
}

func (d *DB) query(ctx context.Context, q string, args ...any) ([]domain.Entry, error) {
	rows, err := d.sql.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, wrap(err)
	}
	defer rows.Close()

	out := []domain.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, wrap(err)
		}
		out = append(out, e)
	}
	return out, wrap(rows.Err())
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (domain.Entry, error) {
	var e domain.Entry
	var cal sql.NullInt64
	if err := s.Scan(&e.Day, &e.Weight, &cal, &e.PhotoPath); err != nil {
		return e, err
	}
	if cal.Valid {
		c := int(cal.Int64)
		e.Calories = &c
	}
	return e, nil
}

func dayExists(ctx context.Context, tx *sql.Tx, day string) (bool, error) {
	var n int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(1) FROM entries WHERE day=?;", day).Scan(&n); err != nil {
		return false, wrap(err)
	}
	return n > 0, nil
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: sqlite: %w", domain.ErrIO, err)
}
