// Package csvfile persists entries in a single CSV file, the tracker's
// original data format. The whole file is held in memory and rewritten on
// every change.
package csvfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"weightlog/internal/adapter/memory"
	"weightlog/internal/domain"
)

// Store is a CSV-backed domain.EntryRepository.
type Store struct {
	path string
	mem  *memory.DB
}

var (
	_ domain.EntryRepository = (*Store)(nil)
	_ domain.BulkUpserter    = (*Store)(nil)
)

// Open loads the CSV file at path. When it does not exist but legacyJSON
// does, the JSON data is imported and the CSV written. When neither
// exists the store starts empty and the file is created on first write.
func Open(path, legacyJSON string) (*Store, error) {
	s := &Store{path: path, mem: memory.New()}

	dec, err := readFile(path, ReadCSV)
	switch {
	case err == nil:
		slog.Debug("loaded entries", "path", path, "count", len(dec.Entries))
	case errors.Is(err, fs.ErrNotExist) && legacyJSON != "":
		dec, err = readFile(legacyJSON, ReadJSON)
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		if err != nil {
			return nil, err
		}
		// Later rows win on a repeated day; flush what memory kept.
		s.mem.Load(dec.Entries)
		entries, _ := s.mem.List(context.Background())
		if err := s.flush(entries); err != nil {
			return nil, err
		}
		slog.Info("imported legacy json data", "from", legacyJSON, "to", path, "count", len(entries))
		dec.Entries = entries
	case errors.Is(err, fs.ErrNotExist):
		return s, nil
	default:
		return nil, err
	}

	for _, raw := range dec.Skipped {
		slog.Warn("skipping entry with invalid date format", "date", raw, "path", path)
	}
	s.mem.Load(dec.Entries)
	return s, nil
}

// Path returns the CSV file location.
func (s *Store) Path() string { return s.path }

// Close is a no-op; every write is already durable.
func (s *Store) Close() error { return nil }

// Insert adds e unless its day is already stored.
func (s *Store) Insert(ctx context.Context, e domain.Entry) error {
	return s.mem.Mutate(func(tx *memory.Tx) error { return tx.Insert(e) }, s.flush)
}

// Upsert adds or replaces the entry for e.Day.
func (s *Store) Upsert(ctx context.Context, e domain.Entry) (bool, error) {
	var created bool
	err := s.mem.Mutate(func(tx *memory.Tx) error {
		tx.Upsert(e)
		created = tx.Created
		return nil
	}, s.flush)
	return created, err
}

// UpsertAll upserts every entry and rewrites the file once.
func (s *Store) UpsertAll(ctx context.Context, entries []domain.Entry) (int, error) {
	var created int
	err := s.mem.Mutate(func(tx *memory.Tx) error {
		created = 0
		for _, e := range entries {
			tx.Upsert(e)
			if tx.Created {
				created++
			}
		}
		return nil
	}, s.flush)
	if err != nil {
		return 0, err
	}
	return created, nil
}

// Replace swaps the entry stored at day for e.
func (s *Store) Replace(ctx context.Context, day string, e domain.Entry) error {
	return s.mem.Mutate(func(tx *memory.Tx) error { return tx.Replace(day, e) }, s.flush)
}

// Delete removes the entry for day. The photo it references is left alone.
func (s *Store) Delete(ctx context.Context, day string) error {
	return s.mem.Mutate(func(tx *memory.Tx) error { return tx.Delete(day) }, s.flush)
}

// Get returns the entry for day.
func (s *Store) Get(ctx context.Context, day string) (*domain.Entry, error) {
	return s.mem.Get(ctx, day)
}

// List returns every entry, ascending by day.
func (s *Store) List(ctx context.Context) ([]domain.Entry, error) {
	return s.mem.List(ctx)
}

// ListRange returns the entries within r, ascending by day.
func (s *Store) ListRange(ctx context.Context, r domain.DateRange) ([]domain.Entry, error) {
	return s.mem.ListRange(ctx, r)
}

// flush writes entries to a temporary file next to the target and renames
// it into place.
func (s *Store) flush(entries []domain.Entry) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create data dir: %w", domain.ErrIO, err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+"-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", domain.ErrIO, err)
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if err := WriteCSV(f, entries); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: sync: %w", domain.ErrIO, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close: %w", domain.ErrIO, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%w: rename: %w", domain.ErrIO, err)
	}
	return nil
}

// ReadFile decodes a CSV or legacy JSON data file, chosen by extension.
func ReadFile(path string) (Decoded, error) {
	if filepath.Ext(path) == ".json" {
		return readFile(path, ReadJSON)
	}
	return readFile(path, ReadCSV)
}

// WriteFile writes entries to path as CSV, replacing it atomically.
func WriteFile(path string, entries []domain.Entry) error {
	return (&Store{path: path}).flush(entries)
}

func readFile(path string, decode func(r io.Reader) (Decoded, error)) (Decoded, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Decoded{}, err
		}
		return Decoded{}, fmt.Errorf("%w: open %s: %w", domain.ErrIO, path, err)
	}
	defer func() { _ = f.Close() }()
	return decode(f)
}
