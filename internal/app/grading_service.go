package app

import (
	"context"
	"net/url"
	"strconv"

	"grading_overview_bot/internal/domain/activity"
	"grading_overview_bot/internal/domain/catalog"
	"grading_overview_bot/internal/domain/grading"
	"grading_overview_bot/internal/domain/learner"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// EmptyMessage is shown when an overview page has no rows.
const EmptyMessage = "No learners/quizzes found."

// DefaultGradingScreenURL is the grading screen linked from row actions.
const DefaultGradingScreenURL = "/admin/grading"

// GradingReporter is the read side of the grading overview used by transports.
type GradingReporter interface {
	// Overview computes one page of the grading overview.
	Overview(ctx context.Context, c grading.FilterCriteria) *Overview
	// Counts computes the header counts, scoped to lessonID when it is positive.
	Counts(ctx context.Context, lessonID int64) grading.Counts
	// Defaults are applied to criteria parsed from request parameters.
	Defaults() grading.Defaults
}

// RowDecorator may add to or rewrite an assembled row before it is sorted and returned.
type RowDecorator interface {
	DecorateRow(ctx context.Context, row grading.Row) grading.Row
}

// RowDecoratorFunc adapts a function to RowDecorator.
type RowDecoratorFunc func(ctx context.Context, row grading.Row) grading.Row

func (f RowDecoratorFunc) DecorateRow(ctx context.Context, row grading.Row) grading.Row {
	return f(ctx, row)
}

// Overview is one computed page of the grading overview.
type Overview struct {
	RequestID    string                 `json:"request_id"`
	Criteria     grading.FilterCriteria `json:"criteria"`
	Columns      []grading.Column       `json:"columns"`
	Rows         []grading.Row          `json:"rows"`
	Counts       grading.Counts         `json:"counts"`
	Total        int                    `json:"total"`
	HasNext      bool                   `json:"has_next"`
	EmptyMessage string                 `json:"empty_message,omitempty"`
}

// GradingService derives grading rows and counts from activity facts.
// Every call works on fresh reads; nothing is kept between calls.
type GradingService struct {
	activities  activity.Store
	learners    learner.Repository
	catalogRepo catalog.Repository
	gradingURL  string
	defaults    grading.Defaults
	decorators  []RowDecorator
	logger      *logrus.Entry
}

// Option configures a GradingService.
type Option func(*GradingService)

// WithRowDecorators registers decorators, applied in the given order.
func WithRowDecorators(d ...RowDecorator) Option {
	return func(s *GradingService) {
		s.decorators = append(s.decorators, d...)
	}
}

// WithGradingScreenURL sets the base URL of the "Grade quiz" and "Review grade" links.
func WithGradingScreenURL(u string) Option {
	return func(s *GradingService) {
		if u != "" {
			s.gradingURL = u
		}
	}
}

// WithDefaults sets the per-page size and learner role used when a request omits them.
func WithDefaults(d grading.Defaults) Option {
	return func(s *GradingService) {
		s.defaults = d
	}
}

func NewGradingService(
	as activity.Store,
	lr learner.Repository,
	cr catalog.Repository,
	logger *logrus.Entry,
	opts ...Option,
) *GradingService {
	s := &GradingService{
		activities:  as,
		learners:    lr,
		catalogRepo: cr,
		gradingURL:  DefaultGradingScreenURL,
		defaults:    grading.Defaults{PerPage: grading.DefaultPerPage},
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *GradingService) Defaults() grading.Defaults {
	return s.defaults
}

// Overview resolves candidate pairs, classifies and filters them, builds rows,
// sorts and pages them, and recomputes the header counts.
func (s *GradingService) Overview(ctx context.Context, c grading.FilterCriteria) *Overview {
	c = c.Normalize(s.defaults)
	requestID := uuid.NewString()
	run := s.newRun(s.logger.WithFields(logrus.Fields{
		"request_id":     requestID,
		"lesson_id":      c.LessonID,
		"grading_status": c.Status,
		"page":           c.Page,
	}))

	resolver := s.resolverFor(c, run)
	res := resolver.resolve(ctx, c)

	rows := make([]grading.Row, 0, len(res.candidates))
	for _, cand := range res.candidates {
		row, ok := run.buildRow(ctx, cand, c.Status)
		if !ok {
			continue
		}
		rows = append(rows, row)
	}

	sortRows(rows, c.SortColumn, c.SortDirection)

	total := res.total
	if !res.paged {
		total = len(rows)
		rows = paginate(rows, c.Offset(), c.PerPage)
	}

	ov := &Overview{
		RequestID: requestID,
		Criteria:  c,
		Columns:   grading.Columns,
		Rows:      rows,
		Counts:    run.count(ctx, resolver.workingSet(ctx)),
		Total:     total,
		HasNext:   c.Offset()+c.PerPage < total,
	}
	if len(rows) == 0 {
		ov.EmptyMessage = EmptyMessage
	}

	run.log.WithFields(logrus.Fields{
		"rows":  len(rows),
		"total": total,
		"all":   ov.Counts.All,
	}).Debug("Grading overview computed")
	return ov
}

// Counts recomputes the header counts without building rows.
func (s *GradingService) Counts(ctx context.Context, lessonID int64) grading.Counts {
	if lessonID < 0 {
		lessonID = 0
	}
	c := grading.FilterCriteria{LessonID: lessonID}
	run := s.newRun(s.logger.WithFields(logrus.Fields{
		"request_id": uuid.NewString(),
		"lesson_id":  lessonID,
	}))
	return run.count(ctx, s.resolverFor(c, run).workingSet(ctx))
}

// resolverFor picks the identity resolution strategy once per request.
func (s *GradingService) resolverFor(c grading.FilterCriteria, run *gradingRun) identityResolver {
	if c.PinnedLesson() {
		return &pinnedLessonResolver{run: run, lessonID: c.LessonID}
	}
	return &allLessonsResolver{run: run}
}

// quizLink points at the grading screen for one learner's quiz.
func (s *GradingService) quizLink(userID, quizID int64) string {
	u, err := url.Parse(s.gradingURL)
	if err != nil {
		u = &url.URL{Path: DefaultGradingScreenURL}
	}
	q := u.Query()
	q.Set("user", strconv.FormatInt(userID, 10))
	q.Set("quiz_id", strconv.FormatInt(quizID, 10))
	u.RawQuery = q.Encode()
	return u.String()
}
