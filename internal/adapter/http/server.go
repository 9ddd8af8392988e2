// Package adapthttp is the JSON/HTTP driving adapter over the application
// services.
package adapthttp

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"weightlog/internal/app"
	"weightlog/internal/domain"
)

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	entries *app.EntryService
	charts  *app.ChartsService
	photos  *app.PhotoService
	webDir  string
	unit    string
	metrics *metrics
}

// New creates a Server wired to the given application services. webDir
// may be empty to serve the API only.
func New(es *app.EntryService, cs *app.ChartsService, ps *app.PhotoService, webDir string) *Server {
	return &Server{
		entries: es,
		charts:  cs,
		photos:  ps,
		webDir:  webDir,
		unit:    domain.UnitKg,
		metrics: newMetrics(),
	}
}

// WithDefaultUnit sets the chart unit used when a request names none.
func (s *Server) WithDefaultUnit(unit string) *Server {
	s.unit = unit
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	s.route(api, "GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	s.route(api, "GET /entries", s.handleListEntries)
	s.route(api, "POST /entries", s.handleAddEntry)
	s.route(api, "POST /entries/save", s.handleSaveEntry)
	s.route(api, "GET /entries/{day}", s.handleGetEntry)
	s.route(api, "PUT /entries/{day}", s.handleUpdateEntry)
	s.route(api, "DELETE /entries/{day}", s.handleDeleteEntry)

	s.route(api, "GET /charts/daily", s.handleChartsDaily)
	s.route(api, "GET /charts/export", s.handleChartsExport)

	s.route(api, "GET /photos/compare", s.handlePhotoCompare)
	s.route(api, "GET /photos/{day}", s.handlePhoto)

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))
	root.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	if s.webDir != "" {
		root.Handle("/", spaFromDisk(s.webDir))
	}

	return s.loggingMiddleware(withNoCache(root))
}

func (s *Server) route(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.Handle(pattern, s.metrics.instrument(pattern, h))
}
