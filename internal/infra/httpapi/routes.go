package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.logger))

	r.Get("/health", h.ServeHealth)
	r.Route("/api", func(api chi.Router) {
		api.Get("/grading", h.ServeOverview)
		api.Get("/grading/counts", h.ServeCounts)
		api.Get("/courses", h.ServeCourses)
		api.Get("/courses/{courseID}/lessons", h.ServeLessons)
	})
	return r
}

// requestLogger logs every request with its chi request id.
func requestLogger(logger *logrus.Entry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.WithFields(logrus.Fields{
				"http_request_id": middleware.GetReqID(r.Context()),
				"method":          r.Method,
				"path":            r.URL.Path,
				"status":          ww.Status(),
				"duration_ms":     time.Since(start).Milliseconds(),
			}).Debug("HTTP request served")
		})
	}
}

// NewServer wraps the API routes in an http.Server listening on addr.
func NewServer(addr string, h *Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           Routes(h),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
