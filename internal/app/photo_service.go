package app

import (
	"context"
	"fmt"
	"image"

	"weightlog/internal/domain"
)

// PhotoRenderer decodes photos and lays two of them out side by side.
type PhotoRenderer interface {
	Decode(path string) (image.Image, error)
	Compose(left, right image.Image, lv, rv domain.Viewport, pane image.Point) image.Image
}

// Default comparison pane size in pixels.
const (
	DefaultPaneWidth  = 600
	DefaultPaneHeight = 800
)

// CompareRequest selects two entries and how each photo is framed.
type CompareRequest struct {
	LeftDay   string
	RightDay  string
	LeftView  domain.Viewport
	RightView domain.Viewport
	Pane      image.Point
}

// PhotoService resolves entry photos and builds comparisons.
type PhotoService struct {
	repo     domain.EntryRepository
	renderer PhotoRenderer
}

// NewPhotoService creates a PhotoService.
func NewPhotoService(repo domain.EntryRepository, renderer PhotoRenderer) *PhotoService {
	return &PhotoService{repo: repo, renderer: renderer}
}

// PhotoPath returns the photo path of the entry at day. An entry without a
// photo fails with domain.ErrNotFound.
func (s *PhotoService) PhotoPath(ctx context.Context, day string) (string, error) {
	key, err := domain.ParseDay(day)
	if err != nil {
		return "", err
	}
	e, err := s.repo.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if !e.HasPhoto() {
		return "", fmt.Errorf("%w: entry %s has no photo", domain.ErrNotFound, key)
	}
	return e.PhotoPath, nil
}

// Compare decodes the photos of both entries and composes them.
func (s *PhotoService) Compare(ctx context.Context, req CompareRequest) (image.Image, error) {
	if req.Pane.X <= 0 || req.Pane.Y <= 0 {
		req.Pane = image.Pt(DefaultPaneWidth, DefaultPaneHeight)
	}
	left, err := s.load(ctx, req.LeftDay)
	if err != nil {
		return nil, err
	}
	right, err := s.load(ctx, req.RightDay)
	if err != nil {
		return nil, err
	}
	return s.renderer.Compose(left, right, req.LeftView.Normalize(), req.RightView.Normalize(), req.Pane), nil
}

func (s *PhotoService) load(ctx context.Context, day string) (image.Image, error) {
	path, err := s.PhotoPath(ctx, day)
	if err != nil {
		return nil, err
	}
	img, err := s.renderer.Decode(path)
	if err != nil {
		return nil, fmt.Errorf("%w: photo for %s: %w", domain.ErrIO, day, err)
	}
	return img, nil
}
