package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"weightlog/internal/domain"
)

// ChartFormat names an export document type.
type ChartFormat string

// Supported export formats.
const (
	FormatPDF ChartFormat = "pdf"
	FormatPNG ChartFormat = "png"
	FormatSVG ChartFormat = "svg"
)

// ParseChartFormat accepts "pdf", "png" or "svg" in any case; empty means pdf.
func ParseChartFormat(s string) (ChartFormat, error) {
	switch f := ChartFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatPDF, nil
	case FormatPDF, FormatPNG, FormatSVG:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unsupported chart format %q", domain.ErrValidation, s)
	}
}

// ContentType returns the MIME type of documents in format f.
func (f ChartFormat) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatSVG:
		return "image/svg+xml"
	default:
		return "application/pdf"
	}
}

// ChartPoint is one day on the trend chart.
type ChartPoint struct {
	Day      string  `json:"day"`
	Weight   float64 `json:"weight"`
	Calories *int    `json:"calories"`
}

// Chart is everything a renderer needs to draw the trend chart.
type Chart struct {
	Range  domain.DateRange `json:"range"`
	Unit   string           `json:"unit"`
	Points []ChartPoint     `json:"points"`
}

// ChartRenderer draws a chart into w in the given format.
type ChartRenderer interface {
	Render(w io.Writer, c Chart, format ChartFormat) error
}

// ChartsService encapsulates chart data retrieval and export use cases.
type ChartsService struct {
	repo        domain.EntryRepository
	renderer    ChartRenderer
	storageUnit string
}

// NewChartsService creates a ChartsService. storageUnit is the unit
// entries are recorded in.
func NewChartsService(repo domain.EntryRepository, renderer ChartRenderer, storageUnit string) *ChartsService {
	return &ChartsService{repo: repo, renderer: renderer, storageUnit: storageUnit}
}

// Series returns the chart for the inclusive range [from, to] with weights
// converted to unit.
func (s *ChartsService) Series(ctx context.Context, from, to, unit string) (*Chart, error) {
	if err := domain.ValidateUnit(unit); err != nil {
		return nil, err
	}
	r, err := domain.NewDateRange(from, to)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.ListRange(ctx, r)
	if err != nil {
		return nil, err
	}

	points := make([]ChartPoint, 0, len(entries))
	for _, e := range entries {
		points = append(points, ChartPoint{
			Day:      e.Day,
			Weight:   domain.ConvertWeight(e.Weight, s.storageUnit, unit),
			Calories: e.Calories,
		})
	}
	return &Chart{Range: r, Unit: unit, Points: points}, nil
}

// Export renders the chart for [from, to] into w. A range without entries
// fails with domain.ErrNotFound.
func (s *ChartsService) Export(ctx context.Context, w io.Writer, from, to, unit string, format ChartFormat) error {
	c, err := s.Series(ctx, from, to, unit)
	if err != nil {
		return err
	}
	if len(c.Points) == 0 {
		return fmt.Errorf("%w: no entries between %s and %s", domain.ErrNotFound, c.Range.From, c.Range.To)
	}
	if err := s.renderer.Render(w, *c, format); err != nil {
		return fmt.Errorf("%w: render chart: %w", domain.ErrIO, err)
	}
	return nil
}
