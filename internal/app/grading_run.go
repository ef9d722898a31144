package app

import (
	"context"
	"errors"

	"grading_overview_bot/internal/domain/activity"
	"grading_overview_bot/internal/domain/catalog"
	"grading_overview_bot/internal/domain/grading"
	"grading_overview_bot/internal/domain/learner"

	"github.com/sirupsen/logrus"
)

// gradingRun holds the reads of a single request. Lookups are memoised for the
// lifetime of the run only; a failed read counts as an empty result.
type gradingRun struct {
	s   *GradingService
	log *logrus.Entry

	quizIDs   map[int64]int64
	courseIDs map[int64]int64
	titles    map[int64]string
	learners  map[int64]*learner.Learner
	facts     map[grading.Pair]grading.Facts
}

func (s *GradingService) newRun(log *logrus.Entry) *gradingRun {
	return &gradingRun{
		s:         s,
		log:       log,
		quizIDs:   make(map[int64]int64),
		courseIDs: make(map[int64]int64),
		titles:    make(map[int64]string),
		learners:  make(map[int64]*learner.Learner),
		facts:     make(map[grading.Pair]grading.Facts),
	}
}

func (r *gradingRun) activityIDs(ctx context.Context, q activity.Query, field activity.IDField) []int64 {
	ids, err := r.s.activities.ActivityIDs(ctx, q, field)
	if err != nil {
		r.log.WithError(err).WithFields(logrus.Fields{
			"kind":    q.Kind,
			"post_id": q.PostID,
			"field":   field,
		}).Warn("Activity id lookup failed, treating as empty")
		return nil
	}
	return ids
}

func (r *gradingRun) activity(ctx context.Context, q activity.Query) *activity.Record {
	rec, err := r.s.activities.Activity(ctx, q)
	if err != nil {
		if !errors.Is(err, activity.ErrActivityNotFound) {
			r.log.WithError(err).WithFields(logrus.Fields{
				"kind":    q.Kind,
				"post_id": q.PostID,
				"user_id": q.UserID,
			}).Warn("Activity lookup failed, treating as absent")
		}
		return nil
	}
	return rec
}

// pairFacts loads the start, end and quiz grade facts of one pair.
func (r *gradingRun) pairFacts(ctx context.Context, p grading.Pair) grading.Facts {
	if f, ok := r.facts[p]; ok {
		return f
	}

	var f grading.Facts
	if rec := r.activity(ctx, activity.Query{Kind: activity.KindLessonStart, PostID: p.LessonID, UserID: p.UserID}); rec != nil {
		f.Start = rec.Timestamp
	}
	if rec := r.activity(ctx, activity.Query{Kind: activity.KindLessonEnd, PostID: p.LessonID, UserID: p.UserID}); rec != nil {
		f.End = rec.Timestamp
	}
	if quizID := r.quizID(ctx, p.LessonID); quizID > 0 {
		if rec := r.activity(ctx, activity.Query{Kind: activity.KindQuizGrade, PostID: quizID, UserID: p.UserID}); rec != nil {
			f.Grade = rec.Value
			f.GradeDate = rec.Timestamp
		}
	}

	r.facts[p] = f
	return f
}

func (r *gradingRun) quizID(ctx context.Context, lessonID int64) int64 {
	if id, ok := r.quizIDs[lessonID]; ok {
		return id
	}
	id, err := r.s.catalogRepo.LessonQuizID(ctx, lessonID)
	if err != nil {
		if !errors.Is(err, catalog.ErrPostNotFound) {
			r.log.WithError(err).WithField("post_id", lessonID).Warn("Lesson quiz lookup failed")
		}
		id = 0
	}
	r.quizIDs[lessonID] = id
	return id
}

func (r *gradingRun) courseID(ctx context.Context, lessonID int64) int64 {
	if id, ok := r.courseIDs[lessonID]; ok {
		return id
	}
	id, err := r.s.catalogRepo.LessonCourseID(ctx, lessonID)
	if err != nil {
		if !errors.Is(err, catalog.ErrPostNotFound) {
			r.log.WithError(err).WithField("post_id", lessonID).Warn("Lesson course lookup failed")
		}
		id = 0
	}
	r.courseIDs[lessonID] = id
	return id
}

func (r *gradingRun) title(ctx context.Context, postID int64) string {
	if postID <= 0 {
		return ""
	}
	if t, ok := r.titles[postID]; ok {
		return t
	}
	t, err := r.s.catalogRepo.Title(ctx, postID)
	if err != nil {
		if !errors.Is(err, catalog.ErrPostNotFound) {
			r.log.WithError(err).WithField("post_id", postID).Warn("Title lookup failed")
		}
		t = ""
	}
	r.titles[postID] = t
	return t
}

// learner returns nil when the learner cannot be loaded.
func (r *gradingRun) learner(ctx context.Context, userID int64) *learner.Learner {
	if l, ok := r.learners[userID]; ok {
		return l
	}
	l, err := r.s.learners.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, learner.ErrLearnerNotFound) {
			r.log.WithError(err).WithField("user_id", userID).Warn("Learner lookup failed")
		}
		l = nil
	}
	r.learners[userID] = l
	return l
}
