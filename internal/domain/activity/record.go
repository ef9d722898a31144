package activity

import "time"

// Kind identifies the type of learner activity fact.
type Kind string

const (
	KindLessonStart Kind = "lesson_start"
	KindLessonEnd   Kind = "lesson_end"
	KindQuizGrade   Kind = "quiz_grade"
)

// IDField selects which id column ActivityIDs returns.
type IDField string

const (
	FieldPostID IDField = "post_id"
	FieldUserID IDField = "user_id"
)

// Record is an immutable activity fact.
// Corresponds to the 'activity' table.
type Record struct {
	ID        int64
	SubjectID int64 // lesson or quiz post id
	UserID    int64
	Kind      Kind
	Timestamp time.Time
	Value     string // quiz grade for KindQuizGrade, empty otherwise
}

// Query scopes an activity lookup. Zero ids are not applied as filters.
type Query struct {
	Kind   Kind
	PostID int64
	UserID int64
}
