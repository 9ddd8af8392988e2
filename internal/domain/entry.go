// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// MaxCalories is the largest calorie count every backend can store
// (a 32-bit SQL INTEGER).
const MaxCalories = math.MaxInt32

// Entry is one logged day: a weight, optionally the calories eaten and a
// photo taken that day.
type Entry struct {
	Day       string  `json:"day"`
	Weight    float64 `json:"weight"`
	Calories  *int    `json:"calories,omitempty"`
	PhotoPath string  `json:"photoPath,omitempty"`
}

// Validate normalizes e.Day to the canonical layout and checks the
// remaining fields. The photo path is a weak reference and is not checked
// against the filesystem.
func (e *Entry) Validate() error {
	day, err := ParseDay(e.Day)
	if err != nil {
		return err
	}
	e.Day = day
	if math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) || e.Weight <= 0 {
		return fmt.Errorf("%w: weight must be a positive number", ErrValidation)
	}
	if e.Calories != nil && (*e.Calories < 0 || *e.Calories > MaxCalories) {
		return fmt.Errorf("%w: calories must be between 0 and %d", ErrValidation, MaxCalories)
	}
	e.PhotoPath = strings.TrimSpace(e.PhotoPath)
	return nil
}

// HasPhoto reports whether a photo is attached.
func (e Entry) HasPhoto() bool { return e.PhotoPath != "" }

// Clone returns a copy that shares no memory with e.
func (e Entry) Clone() Entry {
	if e.Calories != nil {
		c := *e.Calories
		e.Calories = &c
	}
	return e
}

// Equal reports whether two entries hold the same values.
func (e Entry) Equal(o Entry) bool {
	if e.Day != o.Day || e.Weight != o.Weight || e.PhotoPath != o.PhotoPath {
		return false
	}
	if e.Calories == nil || o.Calories == nil {
		return e.Calories == nil && o.Calories == nil
	}
	return *e.Calories == *o.Calories
}

// Calories returns a pointer to n, for building entries inline.
func Calories(n int) *int { return &n }

// EntryRepository is the port for entry persistence. Days passed in are
// canonical; implementations keep one entry per day and return lists in
// ascending day order.
type EntryRepository interface {
	// Insert stores e, failing with ErrDuplicate if its day is taken.
	Insert(ctx context.Context, e Entry) error
	// Upsert stores e, replacing any entry on the same day.
	Upsert(ctx context.Context, e Entry) (created bool, err error)
	// Replace swaps the entry at day for e. e.Day may differ from day.
	Replace(ctx context.Context, day string, e Entry) error
	Delete(ctx context.Context, day string) error
	Get(ctx context.Context, day string) (*Entry, error)
	List(ctx context.Context) ([]Entry, error)
	ListRange(ctx context.Context, r DateRange) ([]Entry, error)
}

// BulkUpserter is implemented by repositories that can upsert many entries
// in one commit. A failure leaves the repository unchanged.
type BulkUpserter interface {
	UpsertAll(ctx context.Context, entries []Entry) (created int, err error)
}
