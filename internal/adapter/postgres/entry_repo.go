package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"weightlog/internal/domain"
)

const selectEntry = "SELECT day, weight, calories, photo_path FROM entries"

// Insert adds e unless its day is already stored.
func (d *DB) Insert(ctx context.Context, e domain.Entry) error {
	res, err := d.sql.ExecContext(ctx,
		"INSERT INTO entries(day, weight, calories, photo_path) VALUES($1, $2, $3, $4) ON CONFLICT (day) DO NOTHING;",
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

const upsertEntry = `INSERT INTO entries(day, weight, calories, photo_path) VALUES($1, $2, $3, $4)
	ON CONFLICT (day) DO UPDATE SET weight=EXCLUDED.weight, calories=EXCLUDED.calories,
	photo_path=EXCLUDED.photo_path, updated_at=now()
	RETURNING (xmax = 0);`

// Upsert adds or replaces the entry for e.Day. xmax is zero only for a
// freshly inserted row, which tells an insert from an update.
func (d *DB) Upsert(ctx context.Context, e domain.Entry) (bool, error) {
	var created bool
	err := d.sql.QueryRowContext(ctx, upsertEntry,
		e.Day, e.Weight, nullInt(e.Calories), e.PhotoPath,
	).Scan(&created)
	return created, wrap(err)
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
		var isNew bool
		if err := tx.QueryRowContext(ctx, upsertEntry,
			e.Day, e.Weight, nullInt(e.Calories), e.PhotoPath,
		).Scan(&isNew); err != nil {
			return 0, wrap(err)
		}
		if isNew {
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
		var taken bool
		if err := tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM entries WHERE day=$1);", e.Day).Scan(&taken); err != nil {
			return wrap(err)
		}
		if taken {
			return fmt.Errorf("%w: %s", domain.ErrDuplicate, e.Day)
		}
	}
	res, err := tx.ExecContext(ctx,
		"UPDATE entries SET day=$1, weight=$2, calories=$3, photo_path=$4, updated_at=now() WHERE day=$5;",
		e.Day, e.Weight, nullInt(e.Calories), e.PhotoPath, day,
	)
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
	return wrap(tx.Commit())
}

// Delete removes the entry for day.
func (d *DB) Delete(ctx context.Context, day string) error {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM entries WHERE day=$1;", day)
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

// Get returns the entry for a day.
func (d *DB) Get(ctx context.Context, day string) (*domain.Entry, error) {
	e, err := scanEntry(d.sql.QueryRowContext(ctx, selectEntry+" WHERE day=$1;", day))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: no entry for %s", domain.ErrNotFound, day)
		}
		return nil, wrap(err)
	}
	return &e, nil
}

// List returns every entry, ascending by day.
func (d *DB) List(ctx context.Context) ([]domain.Entry, error) {
	return d.query(ctx, selectEntry+" ORDER BY day ASC;")
}

// ListRange returns the entries within r, ascending by day.
func (d *DB) ListRange(ctx context.Context, r domain.DateRange) ([]domain.Entry, error) {
	return d.query(ctx, selectEntry+" WHERE day BETWEEN $1 AND $2 ORDER BY day ASC;", r.From, r.To)
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
	var (
		e   domain.Entry
		day time.Time
		cal sql.NullInt64
	)
	if err := s.Scan(&day, &e.Weight, &cal, &e.PhotoPath); err != nil {
		return e, err
	}
	e.Day = day.Format(domain.DayLayout)
	if cal.Valid {
		c := int(cal.Int64)
		e.Calories = &c
	}
	return e, nil
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
	return fmt.Errorf("%w: postgres: %w", domain.ErrIO, err)
}
