package catalog

import (
	"context"
	"errors"
)

var ErrPostNotFound = errors.New("post not found")

// Repository resolves titles and the course/lesson/quiz hierarchy.
type Repository interface {
	Title(ctx context.Context, postID int64) (string, error)
	LessonCourseID(ctx context.Context, lessonID int64) (int64, error)
	// LessonQuizID returns the lesson's quiz id, 0 when the lesson has none.
	LessonQuizID(ctx context.Context, lessonID int64) (int64, error)
	ListCourses(ctx context.Context) ([]Post, error)
	ListLessons(ctx context.Context, courseID int64) ([]Post, error)
}
