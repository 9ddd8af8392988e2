// Package chart renders the weight and calorie trend chart with gonum/plot.
package chart

import (
	"fmt"
	"image/color"
	"io"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"

	"weightlog/internal/app"
	"weightlog/internal/domain"
)

const tickFormat = "2006-01-02"

var (
	weightColor   = color.RGBA{B: 255, A: 255}
	caloriesColor = color.RGBA{R: 220, A: 255}
)

// Renderer implements app.ChartRenderer. The weight panel sits above the
// calorie panel and both share the date axis.
type Renderer struct {
	Width  vg.Length
	Height vg.Length
}

var _ app.ChartRenderer = (*Renderer)(nil)

// New returns a renderer producing 10x6 inch documents.
func New() *Renderer {
	return &Renderer{Width: 10 * vg.Inch, Height: 6 * vg.Inch}
}

// Render draws c and writes it to w.
func (r *Renderer) Render(w io.Writer, c app.Chart, format app.ChartFormat) error {
	if len(c.Points) == 0 {
		return fmt.Errorf("no points to plot")
	}
	weights := make(plotter.XYs, 0, len(c.Points))
	calories := make(plotter.XYs, 0, len(c.Points))
	for _, p := range c.Points {
		t, err := domain.DayTime(p.Day)
		if err != nil {
			return err
		}
		x := float64(t.Unix())
		weights = append(weights, plotter.XY{X: x, Y: p.Weight})
		if p.Calories != nil {
			calories = append(calories, plotter.XY{X: x, Y: float64(*p.Calories)})
		}
	}
	xmin, xmax := weights[0].X, weights[len(weights)-1].X
	if xmin == xmax {
		half := (12 * time.Hour).Seconds()
		xmin, xmax = xmin-half, xmax+half
	}

	top, err := panel(weights, fmt.Sprintf("Weight (%s)", c.Unit), "Weight", weightColor, xmin, xmax)
	if err != nil {
		return err
	}
	top.Title.Text = fmt.Sprintf("Progress from %s to %s", c.Range.From, c.Range.To)
	plots := [][]*plot.Plot{{top}}

	if len(calories) > 0 {
		bottom, err := panel(calories, "Calories", "Calories", caloriesColor, xmin, xmax)
		if err != nil {
			return err
		}
		bottom.X.Label.Text = "Date"
		plots = append(plots, []*plot.Plot{bottom})
	} else {
		top.X.Label.Text = "Date"
	}

	canvas, err := r.canvas(format)
	if err != nil {
		return err
	}
	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      1,
		PadTop:    vg.Points(6),
		PadBottom: vg.Points(6),
		PadLeft:   vg.Points(6),
		PadRight:  vg.Points(12),
		PadY:      vg.Points(10),
	}
	canvases := plot.Align(plots, tiles, draw.New(canvas))
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}
	_, err = canvas.WriteTo(w)
	return err
}

func (r *Renderer) canvas(format app.ChartFormat) (vg.CanvasWriterTo, error) {
	switch format {
	case app.FormatPDF:
		return vgpdf.New(r.Width, r.Height), nil
	case app.FormatPNG:
		return vgimg.PngCanvas{Canvas: vgimg.New(r.Width, r.Height)}, nil
	case app.FormatSVG:
		return vgsvg.New(r.Width, r.Height), nil
	default:
		return nil, fmt.Errorf("unsupported chart format %q", format)
	}
}

func panel(xys plotter.XYs, yLabel, legend string, c color.Color, xmin, xmax float64) (*plot.Plot, error) {
	p := plot.New()
	p.Y.Label.Text = yLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: tickFormat}
	p.X.Min, p.X.Max = xmin, xmax
	p.Add(plotter.NewGrid())

	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return nil, err
	}
	line.Color = c
	line.Width = vg.Points(1.5)
	points.Shape = draw.CircleGlyph{}
	points.Color = c
	p.Add(line, points)
	p.Legend.Add(legend, line, points)
	p.Legend.Top = true
	return p, nil
}
