package csvfile

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"weightlog/internal/domain"
)

func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data", "weight_data.csv")
	ctx := context.Background()

	s, err := Open(path, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Insert(ctx, domain.Entry{Day: "2024-01-10", Weight: 79.5}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := s.Insert(ctx, domain.Entry{Day: "2024-01-01", Weight: 80, Calories: domain.Calories(2200), PhotoPath: "/pics/jan1.jpg"}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	want := "date,weight,calories,picture_path\n2024-01-01,80,2200,/pics/jan1.jpg\n2024-01-10,79.5,,\n"
	if string(raw) != want {
		t.Errorf("file content:\n%s\nwant:\n%s", raw, want)
	}

	reopened, err := Open(path, "")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	entries, _ := reopened.List(ctx)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Calories == nil || *entries[0].Calories != 2200 || entries[0].PhotoPath != "/pics/jan1.jpg" {
		t.Errorf("unexpected first entry %+v", entries[0])
	}
	if entries[1].Calories != nil {
		t.Errorf("expected nil calories, got %v", *entries[1].Calories)
	}
}

func TestStoreDeleteKeepsPhoto(t *testing.T) {
	dir := t.TempDir()
	photo := filepath.Join(dir, "me.jpg")
	if err := os.WriteFile(photo, []byte("jpeg"), 0o600); err != nil {
		t.Fatal(err)
	}
	s, _ := Open(filepath.Join(dir, "d.csv"), "")
	ctx := context.Background()
	_ = s.Insert(ctx, domain.Entry{Day: "2024-01-01", Weight: 80, PhotoPath: photo})

	if err := s.Delete(ctx, "2024-01-01"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(photo); err != nil {
		t.Errorf("photo should remain after delete: %v", err)
	}
	if err := s.Delete(ctx, "2024-01-01"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreImportsLegacyJSON(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "weight_data.json")
	csvPath := filepath.Join(dir, "weight_data.csv")
	legacy := `[
		{"date": "01/15/2024", "weight": 82.1, "calories": 1900, "picture_path": null},
		{"date": "2024-01-02", "weight": 83, "calories": 2500, "picture_path": "a.png"},
		{"date": "Jan 3rd", "weight": 83, "calories": 2500}
	]`
	if err := os.WriteFile(jsonPath, []byte(legacy), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := Open(csvPath, jsonPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	entries, _ := s.List(context.Background())
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Day != "2024-01-02" || entries[1].Day != "2024-01-15" {
		t.Errorf("unexpected days: %v", entries)
	}
	if _, err := os.Stat(csvPath); err != nil {
		t.Errorf("csv should be written after import: %v", err)
	}
}

func TestStoreFailedWriteRollsBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "d.csv")
	s, _ := Open(path, "")
	ctx := context.Background()
	_ = s.Insert(ctx, domain.Entry{Day: "2024-01-01", Weight: 80})

	// A directory in place of the target makes the rename fail.
	s.path = filepath.Join(dir, "blocked")
	if err := os.Mkdir(s.path, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(s.path, "x"), nil, 0o600); err != nil {
		t.Fatal(err)
	}
	err := s.Insert(ctx, domain.Entry{Day: "2024-01-02", Weight: 79})
	if !errors.Is(err, domain.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	entries, _ := s.List(ctx)
	if len(entries) != 1 {
		t.Errorf("expected rollback to 1 entry, got %d", len(entries))
	}
}

func TestStoreLegacyJSONRepeatedDay(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "weight_data.json")
	csvPath := filepath.Join(dir, "weight_data.csv")
	legacy := `[
		{"date": "2024-01-05", "weight": 82, "calories": null, "picture_path": null},
		{"date": "01/05/2024", "weight": 81.5, "calories": 2000, "picture_path": null}
	]`
	if err := os.WriteFile(jsonPath, []byte(legacy), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Open(csvPath, jsonPath); err != nil {
		t.Fatalf("Open: %v", err)
	}
	raw, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	want := "date,weight,calories,picture_path\n2024-01-05,81.5,2000,\n"
	if string(raw) != want {
		t.Errorf("file content:\n%s\nwant:\n%s", raw, want)
	}

	reopened, err := Open(csvPath, "")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	entries, _ := reopened.List(context.Background())
	if len(entries) != 1 || entries[0].Weight != 81.5 {
		t.Errorf("unexpected entries after reopen: %v", entries)
	}
}

func TestStoreUpsertAll(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "d.csv")
	s, _ := Open(path, "")
	ctx := context.Background()
	_ = s.Insert(ctx, domain.Entry{Day: "2024-01-01", Weight: 80})

	created, err := s.UpsertAll(ctx, []domain.Entry{
		{Day: "2024-01-01", Weight: 81},
		{Day: "2024-01-02", Weight: 80.5},
	})
	if err != nil {
		t.Fatalf("UpsertAll: %v", err)
	}
	if created != 1 {
		t.Errorf("expected 1 created, got %d", created)
	}
	raw, _ := os.ReadFile(path)
	want := "date,weight,calories,picture_path\n2024-01-01,81,,\n2024-01-02,80.5,,\n"
	if string(raw) != want {
		t.Errorf("file content:\n%s\nwant:\n%s", raw, want)
	}

	// A failed write imports nothing.
	s.path = filepath.Join(dir, "blocked")
	if err := os.Mkdir(s.path, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(s.path, "x"), nil, 0o600); err != nil {
		t.Fatal(err)
	}
	_, err = s.UpsertAll(ctx, []domain.Entry{
		{Day: "2024-01-01", Weight: 70},
		{Day: "2024-01-03", Weight: 79},
	})
	if !errors.Is(err, domain.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	entries, _ := s.List(ctx)
	if len(entries) != 2 || entries[0].Weight != 81 {
		t.Errorf("expected rollback to previous entries, got %v", entries)
	}
}

func TestReadCSV(t *testing.T) {
	t.Run("skips bad dates", func(t *testing.T) {
		in := "date,weight,calories,picture_path\n2024-01-01,80,2000,\nsomeday,79,1800,\n12/31/2023,81,,x.jpg\n"
		dec, err := ReadCSV(strings.NewReader(in))
		if err != nil {
			t.Fatalf("ReadCSV: %v", err)
		}
		if len(dec.Entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(dec.Entries))
		}
		if len(dec.Skipped) != 1 || dec.Skipped[0] != "someday" {
			t.Errorf("unexpected skipped: %v", dec.Skipped)
		}
		if dec.Entries[1].Day != "2023-12-31" || dec.Entries[1].PhotoPath != "x.jpg" {
			t.Errorf("unexpected entry %+v", dec.Entries[1])
		}
	})

	t.Run("reordered columns", func(t *testing.T) {
		in := "weight,date\n70.5,2024-05-05\n"
		dec, err := ReadCSV(strings.NewReader(in))
		if err != nil {
			t.Fatalf("ReadCSV: %v", err)
		}
		if len(dec.Entries) != 1 || dec.Entries[0].Weight != 70.5 {
			t.Errorf("unexpected entries %v", dec.Entries)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		dec, err := ReadCSV(strings.NewReader(""))
		if err != nil || len(dec.Entries) != 0 {
			t.Errorf("expected no entries and no error, got %v, %v", dec.Entries, err)
		}
	})

	errorCases := map[string]string{
		"missing weight column": "date,calories\n2024-01-01,100\n",
		"bad weight":            "date,weight\n2024-01-01,heavy\n",
		"negative weight":       "date,weight\n2024-01-01,-5\n",
		"bad calories":          "date,weight,calories\n2024-01-01,80,lots\n",
	}
	for name, in := range errorCases {
		t.Run(name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(in)); !errors.Is(err, domain.ErrIO) {
				t.Errorf("expected ErrIO, got %v", err)
			}
		})
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []domain.Entry{{Day: "2024-01-01", Weight: 80.25, PhotoPath: "a,b.jpg"}})
	if err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	want := "date,weight,calories,picture_path\n2024-01-01,80.25,,\"a,b.jpg\"\n"
	if buf.String() != want {
		t.Errorf("got %q; want %q", buf.String(), want)
	}
}
