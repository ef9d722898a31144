package catalog

// PostType distinguishes the content entities the grading overview refers to.
type PostType string

const (
	PostTypeCourse PostType = "course"
	PostTypeLesson PostType = "lesson"
	PostTypeQuiz   PostType = "quiz"
)

// Post is a course, lesson or quiz.
type Post struct {
	ID       int64    `json:"id"`
	Type     PostType `json:"type"`
	Title    string   `json:"title"`
	ParentID int64    `json:"parent_id,omitempty"` // course of a lesson, lesson of a quiz
}
