package csvfile

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"weightlog/internal/domain"
)

// Header is the column layout of the data file.
var Header = []string{"date", "weight", "calories", "picture_path"}

// Decoded is the result of reading a data file. Skipped holds the raw date
// of every row dropped because its date matched no supported layout.
type Decoded struct {
	Entries []domain.Entry
	Skipped []string
}

// ReadCSV decodes entries from r. Columns are located by header name so
// extra or reordered columns are tolerated; date and weight are required.
func ReadCSV(r io.Reader) (Decoded, error) {
	var out Decoded
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("%w: read header: %w", domain.ErrIO, err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, required := range []string{"date", "weight"} {
		if _, ok := col[required]; !ok {
			return out, fmt.Errorf("%w: missing %q column", domain.ErrIO, required)
		}
	}
	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return out, fmt.Errorf("%w: line %d: %w", domain.ErrIO, line, err)
		}
		e, skip, err := decodeRow(field(rec, "date"), field(rec, "weight"), field(rec, "calories"), field(rec, "picture_path"))
		if err != nil {
			return out, fmt.Errorf("%w: line %d: %w", domain.ErrIO, line, err)
		}
		if skip {
			out.Skipped = append(out.Skipped, field(rec, "date"))
			continue
		}
		out.Entries = append(out.Entries, e)
	}
	return out, nil
}

func decodeRow(date, weight, calories, photo string) (domain.Entry, bool, error) {
	day, err := domain.ParseDay(date)
	if err != nil {
		return domain.Entry{}, true, nil
	}
	w, err := strconv.ParseFloat(weight, 64)
	if err != nil {
		return domain.Entry{}, false, fmt.Errorf("weight %q: %w", weight, err)
	}
	e := domain.Entry{Day: day, Weight: w, PhotoPath: photo}
	if calories != "" {
		c, err := strconv.Atoi(calories)
		if err != nil {
			return domain.Entry{}, false, fmt.Errorf("calories %q: %w", calories, err)
		}
		e.Calories = &c
	}
	if err := e.Validate(); err != nil {
		return domain.Entry{}, false, err
	}
	return e, false, nil
}

// WriteCSV encodes entries to w in the order given.
func WriteCSV(w io.Writer, entries []domain.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	for _, e := range entries {
		calories := ""
		if e.Calories != nil {
			calories = strconv.Itoa(*e.Calories)
		}
		rec := []string{e.Day, strconv.FormatFloat(e.Weight, 'f', -1, 64), calories, e.PhotoPath}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrIO, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	return nil
}

type jsonEntry struct {
	Date        string  `json:"date"`
	Weight      float64 `json:"weight"`
	Calories    *int    `json:"calories"`
	PicturePath *string `json:"picture_path"`
}

// ReadJSON decodes the legacy JSON data file: an array of objects with the
// same fields as the CSV columns.
func ReadJSON(r io.Reader) (Decoded, error) {
	var out Decoded
	var rows []jsonEntry
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return out, fmt.Errorf("%w: decode json: %w", domain.ErrIO, err)
	}
	for i, row := range rows {
		day, err := domain.ParseDay(row.Date)
		if err != nil {
			out.Skipped = append(out.Skipped, row.Date)
			continue
		}
		e := domain.Entry{Day: day, Weight: row.Weight, Calories: row.Calories}
		if row.PicturePath != nil {
			e.PhotoPath = *row.PicturePath
		}
		if err := e.Validate(); err != nil {
			return out, fmt.Errorf("%w: item %d: %w", domain.ErrIO, i, err)
		}
		out.Entries = append(out.Entries, e)
	}
	return out, nil
}
