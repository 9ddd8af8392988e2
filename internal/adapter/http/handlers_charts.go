package adapthttp

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"weightlog/internal/app"
	"weightlog/internal/domain"
)

// chartQuery resolves from/to/unit. Missing bounds default to the last
// `days` days ending today.
func (s *Server) chartQuery(r *http.Request) (from, to, unit string, err error) {
	q := r.URL.Query()
	unit = q.Get("unit")
	if unit == "" {
		unit = s.unit
	}
	to = q.Get("to")
	if to == "" {
		to = localDayString(time.Now())
	}
	from = q.Get("from")
	if from == "" {
		day, err := domain.ParseDay(to)
		if err != nil {
			return "", "", "", fmt.Errorf("%w: %w", domain.ErrInvalidRange, err)
		}
		end, err := domain.DayTime(day)
		if err != nil {
			return "", "", "", fmt.Errorf("%w: %w", domain.ErrInvalidRange, err)
		}
		// Day arithmetic stays in UTC; DayOf would shift it to local time.
		days := intQuery(r, "days", 90)
		from = end.AddDate(0, 0, -(days - 1)).Format(domain.DayLayout)
		to = day
	}
	return from, to, unit, nil
}

func (s *Server) handleChartsDaily(w http.ResponseWriter, r *http.Request) {
	from, to, unit, err := s.chartQuery(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	chart, err := s.charts.Series(r.Context(), from, to, unit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"from":  chart.Range.From,
		"to":    chart.Range.To,
		"unit":  chart.Unit,
		"today": localDayString(time.Now()),
		"items": chart.Points,
	})
}

func (s *Server) handleChartsExport(w http.ResponseWriter, r *http.Request) {
	from, to, unit, err := s.chartQuery(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	format, err := app.ParseChartFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Buffer so a render failure still yields a JSON error.
	var buf bytes.Buffer
	if err := s.charts.Export(r.Context(), &buf, from, to, unit, format); err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("weightlog-%s-%s.%s", from, to, format)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
