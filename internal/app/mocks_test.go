package app_test

import (
	"context"
	"image"
	"io"

	"weightlog/internal/app"
	"weightlog/internal/domain"
)

type mockEntryRepo struct {
	insertFn    func(ctx context.Context, e domain.Entry) error
	upsertFn    func(ctx context.Context, e domain.Entry) (bool, error)
	replaceFn   func(ctx context.Context, day string, e domain.Entry) error
	deleteFn    func(ctx context.Context, day string) error
	getFn       func(ctx context.Context, day string) (*domain.Entry, error)
	listFn      func(ctx context.Context) ([]domain.Entry, error)
	listRangeFn func(ctx context.Context, r domain.DateRange) ([]domain.Entry, error)
}

func (m *mockEntryRepo) Insert(ctx context.Context, e domain.Entry) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, e)
	}
	return nil
}

func (m *mockEntryRepo) Upsert(ctx context.Context, e domain.Entry) (bool, error) {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, e)
	}
	return true, nil
}

func (m *mockEntryRepo) Replace(ctx context.Context, day string, e domain.Entry) error {
	if m.replaceFn != nil {
		return m.replaceFn(ctx, day, e)
	}
	return nil
}

func (m *mockEntryRepo) Delete(ctx context.Context, day string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, day)
	}
	return nil
}

func (m *mockEntryRepo) Get(ctx context.Context, day string) (*domain.Entry, error) {
	if m.getFn != nil {
		return m.getFn(ctx, day)
	}
	return nil, domain.ErrNotFound
}

func (m *mockEntryRepo) List(ctx context.Context) ([]domain.Entry, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockEntryRepo) ListRange(ctx context.Context, r domain.DateRange) ([]domain.Entry, error) {
	if m.listRangeFn != nil {
		return m.listRangeFn(ctx, r)
	}
	return nil, nil
}

type mockBulkRepo struct {
	mockEntryRepo
	upsertAllFn func(ctx context.Context, entries []domain.Entry) (int, error)
}

func (m *mockBulkRepo) UpsertAll(ctx context.Context, entries []domain.Entry) (int, error) {
	if m.upsertAllFn != nil {
		return m.upsertAllFn(ctx, entries)
	}
	return 0, nil
}

type mockChartRenderer struct {
	renderFn func(w io.Writer, c app.Chart, f app.ChartFormat) error
}

func (m *mockChartRenderer) Render(w io.Writer, c app.Chart, f app.ChartFormat) error {
	if m.renderFn != nil {
		return m.renderFn(w, c, f)
	}
	_, err := io.WriteString(w, "chart")
	return err
}

type mockPhotoRenderer struct {
	decodeFn  func(path string) (image.Image, error)
	composeFn func(l, r image.Image, lv, rv domain.Viewport, pane image.Point) image.Image
}

func (m *mockPhotoRenderer) Decode(path string) (image.Image, error) {
	if m.decodeFn != nil {
		return m.decodeFn(path)
	}
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

func (m *mockPhotoRenderer) Compose(l, r image.Image, lv, rv domain.Viewport, pane image.Point) image.Image {
	if m.composeFn != nil {
		return m.composeFn(l, r, lv, rv, pane)
	}
	return image.NewRGBA(image.Rect(0, 0, pane.X*2, pane.Y))
}
