package app

import (
	"context"
	"fmt"
	"log/slog"

	"weightlog/internal/domain"
)

// EntryService encapsulates the entry store use cases: validation happens
// here, uniqueness and ordering in the repository.
type EntryService struct {
	repo domain.EntryRepository
}

// NewEntryService creates an EntryService backed by the given repository.
func NewEntryService(repo domain.EntryRepository) *EntryService {
	return &EntryService{repo: repo}
}

// Add validates and stores a new entry. A day that already has an entry
// fails with domain.ErrDuplicate; use Save or Update to overwrite.
func (s *EntryService) Add(ctx context.Context, e domain.Entry) (*domain.Entry, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Insert(ctx, e); err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "entry added", "day", e.Day, "weight", e.Weight)
	return &e, nil
}

// Save validates e and stores it, replacing any entry on the same day. It
// reports whether a new day was created.
func (s *EntryService) Save(ctx context.Context, e domain.Entry) (*domain.Entry, bool, error) {
	if err := e.Validate(); err != nil {
		return nil, false, err
	}
	created, err := s.repo.Upsert(ctx, e)
	if err != nil {
		return nil, false, err
	}
	slog.DebugContext(ctx, "entry saved", "day", e.Day, "created", created)
	return &e, created, nil
}

// Update replaces the entry at day with e. e.Day may name a different day
// to move the entry, provided that day is free.
func (s *EntryService) Update(ctx context.Context, day string, e domain.Entry) (*domain.Entry, error) {
	key, err := domain.ParseDay(day)
	if err != nil {
		return nil, err
	}
	if e.Day == "" {
		e.Day = key
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Replace(ctx, key, e); err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "entry updated", "day", key, "new_day", e.Day)
	return &e, nil
}

// Delete removes the entry at day. Its photo file is not touched.
func (s *EntryService) Delete(ctx context.Context, day string) error {
	key, err := domain.ParseDay(day)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, key)
}

// Get returns the entry at day.
func (s *EntryService) Get(ctx context.Context, day string) (*domain.Entry, error) {
	key, err := domain.ParseDay(day)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, key)
}

// ListAll returns every entry, ascending by day.
func (s *EntryService) ListAll(ctx context.Context) ([]domain.Entry, error) {
	return s.repo.List(ctx)
}

// Filter returns the entries between from and to inclusive, ascending by
// day. from after to fails with domain.ErrInvalidRange.
func (s *EntryService) Filter(ctx context.Context, from, to string) ([]domain.Entry, error) {
	r, err := domain.NewDateRange(from, to)
	if err != nil {
		return nil, err
	}
	return s.repo.ListRange(ctx, r)
}

// ImportResult counts what Import did.
type ImportResult struct {
	Created  int `json:"created"`
	Replaced int `json:"replaced"`
}

// Import validates all entries up front, then saves them, overwriting
// existing days. Nothing is written if any entry is invalid. Repositories
// implementing domain.BulkUpserter take every entry in one commit.
func (s *EntryService) Import(ctx context.Context, entries []domain.Entry) (ImportResult, error) {
	var res ImportResult
	valid := make([]domain.Entry, len(entries))
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return res, fmt.Errorf("entry %d (%s): %w", i+1, e.Day, err)
		}
		valid[i] = e
	}
	if bulk, ok := s.repo.(domain.BulkUpserter); ok {
		created, err := bulk.UpsertAll(ctx, valid)
		if err != nil {
			return res, err
		}
		res = ImportResult{Created: created, Replaced: len(valid) - created}
		slog.InfoContext(ctx, "entries imported", "created", res.Created, "replaced", res.Replaced)
		return res, nil
	}
	for _, e := range valid {
		created, err := s.repo.Upsert(ctx, e)
		if err != nil {
			return res, err
		}
		if created {
			res.Created++
		} else {
			res.Replaced++
		}
	}
	slog.InfoContext(ctx, "entries imported", "created", res.Created, "replaced", res.Replaced)
	return res, nil
}
