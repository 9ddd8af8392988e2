// Package imaging decodes entry photos and composes side-by-side
// comparisons.
package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"strings"

	_ "image/gif"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"weightlog/internal/app"
	"weightlog/internal/domain"
)

// Gutter is the gap between the two panes.
const Gutter = 8

// Background fills the area no photo covers.
var Background color.Color = color.Black

// Renderer implements app.PhotoRenderer.
type Renderer struct {
	// Scaler resamples photos; Catmull-Rom unless set.
	Scaler xdraw.Scaler
}

var _ app.PhotoRenderer = (*Renderer)(nil)

// New returns a Renderer using Catmull-Rom resampling.
func New() *Renderer {
	return &Renderer{Scaler: xdraw.CatmullRom}
}

// Decode opens and decodes the image at path.
func (r *Renderer) Decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Compose draws left and right into two panes of size pane, each placed
// and scaled by its viewport and clipped to its pane.
func (r *Renderer) Compose(left, right image.Image, lv, rv domain.Viewport, pane image.Point) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, 2*pane.X+Gutter, pane.Y))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(Background), image.Point{}, xdraw.Src)

	leftPane := image.Rectangle{Max: pane}
	rightPane := leftPane.Add(image.Pt(pane.X+Gutter, 0))
	r.drawPane(dst, leftPane, left, lv)
	r.drawPane(dst, rightPane, right, rv)
	return dst
}

func (r *Renderer) drawPane(dst *image.RGBA, paneRect image.Rectangle, src image.Image, v domain.Viewport) {
	b := src.Bounds()
	target := v.Rect(b.Size()).Add(paneRect.Min)
	visible := target.Intersect(paneRect)
	if target.Empty() || visible.Empty() {
		return
	}
	sub, ok := dst.SubImage(paneRect).(*image.RGBA)
	if !ok {
		return
	}
	scaler := r.Scaler
	if scaler == nil {
		scaler = xdraw.CatmullRom
	}
	sr, dr := cropToVisible(b, target, visible)
	scaler.Scale(sub, dr, src, sr, xdraw.Over, nil)
}

// kernelMargin is the number of source pixels kept around the crop so the
// resampling kernel sees the same neighbours at the pane edge.
const kernelMargin = 2

// cropToVisible returns the part sr of a source with bounds b that lands
// inside visible when b is scaled onto target, and the rectangle dr that sr
// scales onto. Scaling only sr keeps the scaler's scratch buffers bounded
// by the pane instead of the zoomed photo.
func cropToVisible(b, target, visible image.Rectangle) (sr, dr image.Rectangle) {
	kx := float64(target.Dx()) / float64(b.Dx())
	ky := float64(target.Dy()) / float64(b.Dy())

	sr = image.Rect(
		b.Min.X+int(math.Floor(float64(visible.Min.X-target.Min.X)/kx))-kernelMargin,
		b.Min.Y+int(math.Floor(float64(visible.Min.Y-target.Min.Y)/ky))-kernelMargin,
		b.Min.X+int(math.Ceil(float64(visible.Max.X-target.Min.X)/kx))+kernelMargin,
		b.Min.Y+int(math.Ceil(float64(visible.Max.Y-target.Min.Y)/ky))+kernelMargin,
	).Intersect(b)

	dr = image.Rect(
		target.Min.X+int(math.Round(float64(sr.Min.X-b.Min.X)*kx)),
		target.Min.Y+int(math.Round(float64(sr.Min.Y-b.Min.Y)*ky)),
		target.Min.X+int(math.Round(float64(sr.Max.X-b.Min.X)*kx)),
		target.Min.Y+int(math.Round(float64(sr.Max.Y-b.Min.Y)*ky)),
	)
	return sr, dr
}

// Format is an encoding for composed images.
type Format string

// Supported output encodings.
const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
)

// ParseFormat accepts png, jpg or jpeg; empty means png.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	default:
		return "", fmt.Errorf("%w: unsupported image format %q", domain.ErrValidation, s)
	}
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == JPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// Encode writes img to w.
func Encode(w io.Writer, img image.Image, f Format) error {
	if f == JPEG {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
	}
	return png.Encode(w, img)
}
