package domain_test

import (
	"errors"
	"math"
	"testing"

	"weightlog/internal/domain"
)

func TestParseDay(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2024-01-05", "2024-01-05", false},
		{" 2024-01-05 ", "2024-01-05", false},
		{"01/05/2024", "2024-01-05", false},
		{"25/12/2024", "2024-12-25", false},
		{"2024-02-30", "", true},
		{"yesterday", "", true},
		{"", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := domain.ParseDay(tc.in)
			if tc.wantErr {
				if !errors.Is(err, domain.ErrValidation) {
					t.Fatalf("expected ErrValidation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("ParseDay(%q) = %q; want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestEntryValidate(t *testing.T) {
	tests := []struct {
		name    string
		entry   domain.Entry
		wantErr bool
	}{
		{"valid", domain.Entry{Day: "2024-01-01", Weight: 80}, false},
		{"valid with calories", domain.Entry{Day: "2024-01-01", Weight: 80, Calories: domain.Calories(0)}, false},
		{"zero weight", domain.Entry{Day: "2024-01-01", Weight: 0}, true},
		{"negative weight", domain.Entry{Day: "2024-01-01", Weight: -5}, true},
		{"NaN weight", domain.Entry{Day: "2024-01-01", Weight: math.NaN()}, true},
		{"infinite weight", domain.Entry{Day: "2024-01-01", Weight: math.Inf(1)}, true},
		{"negative calories", domain.Entry{Day: "2024-01-01", Weight: 80, Calories: domain.Calories(-1)}, true},
		{"max calories", domain.Entry{Day: "2024-01-01", Weight: 80, Calories: domain.Calories(domain.MaxCalories)}, false},
		{"calories overflow int32", domain.Entry{Day: "2024-01-01", Weight: 80, Calories: domain.Calories(domain.MaxCalories + 1)}, true},
		{"missing day", domain.Entry{Weight: 80}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.entry.Validate()
			if tc.wantErr && !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestEntryValidate_NormalizesDay(t *testing.T) {
	e := domain.Entry{Day: "03/04/2024", Weight: 70, PhotoPath: "  pics/a.jpg "}
	if err := e.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Day != "2024-03-04" {
		t.Errorf("expected 2024-03-04, got %s", e.Day)
	}
	if e.PhotoPath != "pics/a.jpg" {
		t.Errorf("expected trimmed photo path, got %q", e.PhotoPath)
	}
}

func TestEntryEqualAndClone(t *testing.T) {
	a := domain.Entry{Day: "2024-01-01", Weight: 80, Calories: domain.Calories(2000)}
	b := a.Clone()
	if !a.Equal(b) {
		t.Fatal("clone should be equal")
	}
	*b.Calories = 1500
	if *a.Calories != 2000 {
		t.Fatal("clone shares calories pointer")
	}
	if a.Equal(b) {
		t.Fatal("entries with different calories should differ")
	}
	if a.Equal(domain.Entry{Day: "2024-01-01", Weight: 80}) {
		t.Fatal("nil calories should differ from set calories")
	}
}
