package adapthttp

import (
	"bytes"
	"fmt"
	"image"
	"net/http"
	"os"

	"weightlog/internal/adapter/imaging"
	"weightlog/internal/app"
	"weightlog/internal/domain"
)

// maxPaneSide caps the requested pane size.
const maxPaneSide = 4000

func (s *Server) handlePhoto(w http.ResponseWriter, r *http.Request) {
	path, err := s.photos.PhotoPath(r.Context(), r.PathValue("day"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("%w: photo file %s", domain.ErrNotFound, path))
		return
	}
	http.ServeFile(w, r, path)
}

func viewportQuery(r *http.Request, prefix string) (domain.Viewport, error) {
	v := domain.NewViewport()
	scale, err := floatQuery(r, prefix+"zoom", 1)
	if err != nil {
		return v, err
	}
	x, err := offsetQuery(r, prefix+"x")
	if err != nil {
		return v, err
	}
	y, err := offsetQuery(r, prefix+"y")
	if err != nil {
		return v, err
	}
	v.Scale = scale
	v.OffsetX, v.OffsetY = x, y
	return v.Normalize(), nil
}

func (s *Server) handlePhotoCompare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := app.CompareRequest{
		LeftDay:  q.Get("left"),
		RightDay: q.Get("right"),
		Pane: image.Pt(
			min(intQuery(r, "w", app.DefaultPaneWidth), maxPaneSide),
			min(intQuery(r, "h", app.DefaultPaneHeight), maxPaneSide),
		),
	}
	if req.LeftDay == "" || req.RightDay == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: left and right are required", domain.ErrValidation))
		return
	}

	var err error
	if req.LeftView, err = viewportQuery(r, "l"); err != nil {
		writeServiceError(w, err)
		return
	}
	if req.RightView, err = viewportQuery(r, "r"); err != nil {
		writeServiceError(w, err)
		return
	}
	format, err := imaging.ParseFormat(q.Get("format"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	img, err := s.photos.Compare(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
