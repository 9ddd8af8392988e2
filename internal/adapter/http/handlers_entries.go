package adapthttp

import (
	"net/http"

	"weightlog/internal/domain"
)

const (
	earliestDay = "0001-01-01"
	latestDay   = "9999-12-31"
)

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")

	var (
		items []domain.Entry
		err   error
	)
	if from == "" && to == "" {
		items, err = s.entries.ListAll(r.Context())
	} else {
		if from == "" {
			from = earliestDay
		}
		if to == "" {
			to = latestDay
		}
		items, err = s.entries.Filter(r.Context(), from, to)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	var e domain.Entry
	if err := parseJSON(r, &e); err != nil {
		writeServiceError(w, err)
		return
	}
	created, err := s.entries.Add(r.Context(), e)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleSaveEntry(w http.ResponseWriter, r *http.Request) {
	var e domain.Entry
	if err := parseJSON(r, &e); err != nil {
		writeServiceError(w, err)
		return
	}
	saved, created, err := s.entries.Save(r.Context(), e)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, saved)
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	e, err := s.entries.Get(r.Context(), r.PathValue("day"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	var e domain.Entry
	if err := parseJSON(r, &e); err != nil {
		writeServiceError(w, err)
		return
	}
	updated, err := s.entries.Update(r.Context(), r.PathValue("day"), e)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.entries.Delete(r.Context(), r.PathValue("day")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
