package app

import (
	"sort"
	"strings"

	"grading_overview_bot/internal/domain/grading"
)

type rowLess func(a, b grading.Row) bool

// lessByColumn compares the typed value behind each sortable column.
var lessByColumn = map[string]rowLess{
	grading.ColumnLearner: func(a, b grading.Row) bool {
		return strings.ToLower(a.UserDisplayName) < strings.ToLower(b.UserDisplayName)
	},
	grading.ColumnCourse: func(a, b grading.Row) bool {
		return strings.ToLower(a.CourseTitle) < strings.ToLower(b.CourseTitle)
	},
	grading.ColumnLesson: func(a, b grading.Row) bool {
		return strings.ToLower(a.LessonTitle) < strings.ToLower(b.LessonTitle)
	},
	grading.ColumnUpdated: func(a, b grading.Row) bool {
		return a.UpdatedAt.Before(b.UpdatedAt)
	},
	grading.ColumnStatus: func(a, b grading.Row) bool {
		return a.Status.Rank() < b.Status.Rank()
	},
	grading.ColumnGrade: func(a, b grading.Row) bool {
		return a.Grade < b.Grade
	},
}

// sortRows orders rows in place. Equal rows keep their discovery order and an
// unknown column leaves the order untouched.
func sortRows(rows []grading.Row, column string, dir grading.SortDirection) {
	less, ok := lessByColumn[column]
	if !ok {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if dir == grading.SortDesc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}

// paginate returns at most limit rows starting at offset.
func paginate(rows []grading.Row, offset, limit int) []grading.Row {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return []grading.Row{}
	}
	end := len(rows)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return rows[offset:end]
}
