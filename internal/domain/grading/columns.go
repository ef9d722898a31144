package grading

// Column keys of the grading overview. Sortable keys are accepted as FilterCriteria.SortColumn.
const (
	ColumnLearner = "user_login"
	ColumnCourse  = "course"
	ColumnLesson  = "lesson"
	ColumnUpdated = "updated"
	ColumnStatus  = "user_status"
	ColumnGrade   = "user_grade"
	ColumnAction  = "action"
)

type Column struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Sortable bool   `json:"sortable"`
}

// Columns lists the overview columns in display order.
var Columns = []Column{
	{Key: ColumnLearner, Title: "Learner", Sortable: true},
	{Key: ColumnCourse, Title: "Course", Sortable: true},
	{Key: ColumnLesson, Title: "Lesson", Sortable: true},
	{Key: ColumnUpdated, Title: "Updated", Sortable: true},
	{Key: ColumnStatus, Title: "Status", Sortable: true},
	{Key: ColumnGrade, Title: "Grade", Sortable: true},
	{Key: ColumnAction, Title: "", Sortable: false},
}

// Sortable reports whether key names a sortable column.
func Sortable(key string) bool {
	for _, c := range Columns {
		if c.Key == key {
			return c.Sortable
		}
	}
	return false
}
