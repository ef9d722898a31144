package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"grading_overview_bot/internal/app"
	"grading_overview_bot/internal/domain/catalog"
	"grading_overview_bot/internal/domain/grading"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

const requestTimeout = 30 * time.Second

// Catalog lists the course and lesson selectors.
type Catalog interface {
	Courses(ctx context.Context) ([]catalog.Post, error)
	Lessons(ctx context.Context, courseID int64) ([]catalog.Post, error)
}

// Handler serves the grading overview as JSON.
type Handler struct {
	reporter app.GradingReporter
	catalog  Catalog
	logger   *logrus.Entry
}

func NewHandler(reporter app.GradingReporter, c Catalog, logger *logrus.Entry) *Handler {
	return &Handler{reporter: reporter, catalog: c, logger: logger}
}

// ServeOverview returns one overview page for the request's query parameters.
func (h *Handler) ServeOverview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	criteria := grading.CriteriaFromValues(r.URL.Query(), h.reporter.Defaults())
	writeJSON(w, http.StatusOK, h.reporter.Overview(ctx, criteria))
}

// ServeCounts returns the header counts, scoped to ?lesson_id= when given.
func (h *Handler) ServeCounts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	lessonID, _ := strconv.ParseInt(r.URL.Query().Get(grading.ParamLessonID), 10, 64)
	writeJSON(w, http.StatusOK, h.reporter.Counts(ctx, lessonID))
}

func (h *Handler) ServeCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.catalog.Courses(r.Context())
	if err != nil {
		h.logger.WithError(err).WithField("path", r.URL.Path).Error("Failed to list courses")
		writeError(w, http.StatusInternalServerError, "failed to list courses")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"courses": courses})
}

// ServeLessons lists the lessons of {courseID}. A non-numeric id selects no course.
func (h *Handler) ServeLessons(w http.ResponseWriter, r *http.Request) {
	courseID, err := strconv.ParseInt(chi.URLParam(r, "courseID"), 10, 64)
	if err != nil {
		courseID = 0
	}

	lessons, err := h.catalog.Lessons(r.Context(), courseID)
	if err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"path":      r.URL.Path,
			"course_id": courseID,
		}).Error("Failed to list lessons")
		writeError(w, http.StatusInternalServerError, "failed to list lessons")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"course_id": courseID, "lessons": lessons})
}

func (h *Handler) ServeHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
