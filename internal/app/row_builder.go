package app

import (
	"context"

	"grading_overview_bot/internal/domain/grading"
)

// buildRow classifies a candidate and assembles its row. The second result is
// false when the pair is excluded, either unclassified or filtered out.
func (r *gradingRun) buildRow(ctx context.Context, cand candidate, filter grading.StatusFilter) (grading.Row, bool) {
	facts := r.pairFacts(ctx, cand.pair)
	cl := grading.Evaluate(facts)
	if !filter.Admits(cl.Status) {
		return grading.Row{}, false
	}

	lessonID := cand.pair.LessonID
	quizID := r.quizID(ctx, lessonID)
	courseID := r.courseID(ctx, lessonID)

	l := cand.learner
	if l == nil {
		l = r.learner(ctx, cand.pair.UserID)
	}

	row := grading.Row{
		UserID:       cand.pair.UserID,
		CourseID:     courseID,
		CourseTitle:  r.title(ctx, courseID),
		LessonID:     lessonID,
		LessonTitle:  r.title(ctx, lessonID),
		QuizID:       quizID,
		UpdatedAt:    cl.UpdatedAt,
		Status:       cl.Status,
		StatusLabel:  cl.Status.Label(),
		Grade:        grading.GradeValue(facts.Grade),
		GradeDisplay: grading.FormatGrade(facts.Grade),
		Action:       r.s.action(cl.Status, cand.pair.UserID, quizID),
	}
	if l != nil {
		row.UserLogin = l.Login
		row.UserDisplayName = l.DisplayName
	}

	for _, d := range r.s.decorators {
		row = d.DecorateRow(ctx, row)
	}
	return row, true
}

// action returns the row link for a status. In-progress rows have none.
func (s *GradingService) action(status grading.Status, userID, quizID int64) grading.Action {
	switch status {
	case grading.StatusUngraded:
		return grading.Action{Kind: grading.ActionPrimary, Label: "Grade quiz", URL: s.quizLink(userID, quizID)}
	case grading.StatusGraded:
		return grading.Action{Kind: grading.ActionSecondary, Label: "Review grade", URL: s.quizLink(userID, quizID)}
	default:
		return grading.Action{}
	}
}
