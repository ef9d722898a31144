package grading

import "time"

// Pair identifies one candidate row before classification.
type Pair struct {
	UserID   int64
	LessonID int64
}

// ActionKind is the prominence of a row's action link.
type ActionKind string

const (
	ActionNone      ActionKind = ""
	ActionPrimary   ActionKind = "primary"
	ActionSecondary ActionKind = "secondary"
)

// Action is the link a reviewer follows from a row.
type Action struct {
	Kind  ActionKind `json:"kind,omitempty"`
	Label string     `json:"label,omitempty"`
	URL   string     `json:"url,omitempty"`
}

// Row is one line of the grading overview. Typed fields (UpdatedAt, Grade,
// titles) are the sort keys; StatusLabel and GradeDisplay are presentation only.
type Row struct {
	UserID          int64     `json:"user_id"`
	UserLogin       string    `json:"user_login"`
	UserDisplayName string    `json:"user_display_name"`
	CourseID        int64     `json:"course_id"`
	CourseTitle     string    `json:"course_title"`
	LessonID        int64     `json:"lesson_id"`
	LessonTitle     string    `json:"lesson_title"`
	QuizID          int64     `json:"quiz_id"`
	UpdatedAt       time.Time `json:"updated_at"`
	Status          Status    `json:"status"`
	StatusLabel     string    `json:"status_label"`
	Grade           float64   `json:"grade"`
	GradeDisplay    string    `json:"grade_display"`
	Action          Action    `json:"action"`
}
