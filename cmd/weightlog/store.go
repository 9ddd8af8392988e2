package main

import (
	"fmt"

	"weightlog/internal/adapter/csvfile"
	"weightlog/internal/adapter/memory"
	"weightlog/internal/adapter/postgres"
	"weightlog/internal/adapter/sqlite"
	"weightlog/internal/config"
	"weightlog/internal/domain"
)

// openRepository opens the configured backend. The returned func releases
// it.
func openRepository(cfg *config.Config) (domain.EntryRepository, func() error, error) {
	switch cfg.Backend {
	case config.BackendCSV:
		s, err := csvfile.Open(cfg.CSVPath, cfg.JSONPath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.BackendSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	case config.BackendPostgres:
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	case config.BackendMemory:
		return memory.New(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
