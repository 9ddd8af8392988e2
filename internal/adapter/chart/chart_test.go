package chart

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"weightlog/internal/app"
	"weightlog/internal/domain"
)

func sampleChart() app.Chart {
	return app.Chart{
		Range: domain.DateRange{From: "2024-01-01", To: "2024-01-31"},
		Unit:  "kg",
		Points: []app.ChartPoint{
			{Day: "2024-01-01", Weight: 80, Calories: domain.Calories(2200)},
			{Day: "2024-01-05", Weight: 79.6},
			{Day: "2024-01-10", Weight: 79.5, Calories: domain.Calories(1900)},
		},
	}
}

func TestRenderPDF(t *testing.T) {
	var buf bytes.Buffer
	if err := New().Render(&buf, sampleChart(), app.FormatPDF); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Errorf("output is not a PDF: %q", buf.Bytes()[:min(16, buf.Len())])
	}
}

func TestRenderPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := New().Render(&buf, sampleChart(), app.FormatPNG); err != nil {
		t.Fatalf("Render: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		t.Errorf("empty image %v", img.Bounds())
	}
}

func TestRenderSVG_SinglePointNoCalories(t *testing.T) {
	c := app.Chart{
		Range:  domain.DateRange{From: "2024-01-01", To: "2024-01-01"},
		Unit:   "lb",
		Points: []app.ChartPoint{{Day: "2024-01-01", Weight: 176}},
	}
	var buf bytes.Buffer
	if err := New().Render(&buf, c, app.FormatSVG); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		t.Errorf("output is not SVG")
	}
}

func TestRenderErrors(t *testing.T) {
	if err := New().Render(&bytes.Buffer{}, app.Chart{}, app.FormatPDF); err == nil {
		t.Error("expected error for empty chart")
	}
	if err := New().Render(&bytes.Buffer{}, sampleChart(), app.ChartFormat("gif")); err == nil {
		t.Error("expected error for unknown format")
	}
}
