package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kailas-cloud/taxodex/internal/metrics"
	"github.com/kailas-cloud/taxodex/internal/transport/api"
)

// Router builds the chi router with the middleware stack. When staticDir
// is set, its files are served at / for the browser page.
func (s *Server) Router(staticDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(metrics.Middleware())

	r.Get(api.PathStats, s.GetStats)
	r.Get(api.PathGenerateID, s.GenerateID)
	r.Get(api.PathCollection, s.SearchCollection)
	r.Get(api.PathHealth, s.HealthCheck)
	r.Get(api.PathMetrics, s.Metrics)

	if staticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(staticDir)))
	} else {
		r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
			writeError(w, http.StatusNotFound, api.ErrorResponseCodeNotFound, "not found")
		})
	}
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, api.ErrorResponseCodeMethodNotAllowed, "method not allowed")
	})
	return r
}
