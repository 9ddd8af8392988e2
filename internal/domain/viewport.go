package domain

import "image"

// Zoom factors applied per wheel step.
const (
	ZoomInFactor  = 1.1
	ZoomOutFactor = 0.9

	MinScale = 0.05
	MaxScale = 20.0
)

// Viewport is the zoom and pan state of one photo pane. The image's top
// left corner is drawn at (OffsetX, OffsetY) in pane coordinates, scaled
// by Scale.
type Viewport struct {
	Scale   float64 `json:"scale"`
	OffsetX int     `json:"offsetX"`
	OffsetY int     `json:"offsetY"`
}

// NewViewport returns the identity viewport.
func NewViewport() Viewport {
	return Viewport{Scale: 1}
}

// Normalize fills a zero scale with 1 and clamps it to [MinScale, MaxScale].
func (v Viewport) Normalize() Viewport {
	if v.Scale == 0 {
		v.Scale = 1
	}
	v.Scale = clampScale(v.Scale)
	return v
}

// ZoomIn scales up by one step, keeping the pane origin fixed.
func (v Viewport) ZoomIn() Viewport { return v.Zoom(ZoomInFactor) }

// ZoomOut scales down by one step, keeping the pane origin fixed.
func (v Viewport) ZoomOut() Viewport { return v.Zoom(ZoomOutFactor) }

// Zoom multiplies the scale by factor.
func (v Viewport) Zoom(factor float64) Viewport {
	v = v.Normalize()
	v.Scale = clampScale(v.Scale * factor)
	return v
}

// ZoomAt multiplies the scale by factor while keeping the image point
// under pane position p in place.
func (v Viewport) ZoomAt(factor float64, p image.Point) Viewport {
	v = v.Normalize()
	old := v.Scale
	v.Scale = clampScale(old * factor)
	ratio := v.Scale / old
	v.OffsetX = p.X - int(float64(p.X-v.OffsetX)*ratio)
	v.OffsetY = p.Y - int(float64(p.Y-v.OffsetY)*ratio)
	return v
}

// Pan moves the image by (dx, dy) pane pixels.
func (v Viewport) Pan(dx, dy int) Viewport {
	v.OffsetX += dx
	v.OffsetY += dy
	return v
}

// Rect returns where an image of size src lands in pane coordinates.
func (v Viewport) Rect(src image.Point) image.Rectangle {
	w := int(float64(src.X) * v.Scale)
	h := int(float64(src.Y) * v.Scale)
	origin := image.Pt(v.OffsetX, v.OffsetY)
	return image.Rectangle{Min: origin, Max: origin.Add(image.Pt(w, h))}
}

func clampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}
