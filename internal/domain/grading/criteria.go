package grading

import (
	"errors"
	"html"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// SortDirection orders a sorted listing.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

const (
	DefaultPerPage  = 20
	MaxPerPage      = 100
	MaxPage         = 10000000 // MaxPage*MaxPerPage stays well inside int
	maxSearchLength = 100
)

// Request parameter names accepted by CriteriaFromValues.
const (
	ParamSearch   = "s"
	ParamPage     = "paged"
	ParamStatus   = "grading_status"
	ParamCourseID = "course_id"
	ParamLessonID = "lesson_id"
	ParamRole     = "role"
	ParamOrderBy  = "orderby"
	ParamOrder    = "order"
	ParamPerPage  = "per_page"
)

// FilterCriteria is everything one overview request asks for.
// LessonID > 0 pins the listing to a single lesson.
type FilterCriteria struct {
	Search        string        `json:"search,omitempty" validate:"max=100"`
	Status        StatusFilter  `json:"grading_status" validate:"oneof=all ungraded graded in-progress"`
	CourseID      int64         `json:"course_id,omitempty" validate:"gte=0"`
	LessonID      int64         `json:"lesson_id,omitempty" validate:"gte=0"`
	Role          string        `json:"role,omitempty" validate:"max=60"`
	Page          int           `json:"page" validate:"gte=1,lte=10000000"`
	PerPage       int           `json:"per_page" validate:"gte=1,lte=100"`
	SortColumn    string        `json:"orderby,omitempty" validate:"omitempty,oneof=user_login course lesson updated user_status user_grade"`
	SortDirection SortDirection `json:"order" validate:"oneof=asc desc"`
}

// Defaults fill in what a request leaves out.
type Defaults struct {
	PerPage int
	Role    string
}

var (
	validate     = validator.New()
	searchPolicy = bluemonday.StrictPolicy()
)

// Offset is the number of rows before the requested page.
func (c FilterCriteria) Offset() int {
	if c.Page < 1 {
		return 0
	}
	if c.Page > MaxPage {
		return c.PerPage * (MaxPage - 1)
	}
	return c.PerPage * (c.Page - 1)
}

// PinnedLesson reports whether the request is scoped to one lesson.
func (c FilterCriteria) PinnedLesson() bool {
	return c.LessonID > 0
}

// CriteriaFromValues builds criteria from raw request parameters. Bad or
// missing values fall back to defaults; parsing never fails.
func CriteriaFromValues(v url.Values, d Defaults) FilterCriteria {
	c := FilterCriteria{
		Search:        sanitizeSearch(v.Get(ParamSearch)),
		Status:        ParseStatusFilter(strings.TrimSpace(v.Get(ParamStatus))),
		CourseID:      parseID(v.Get(ParamCourseID)),
		LessonID:      parseID(v.Get(ParamLessonID)),
		Role:          strings.TrimSpace(v.Get(ParamRole)),
		Page:          int(parseID(v.Get(ParamPage))),
		PerPage:       int(parseID(v.Get(ParamPerPage))),
		SortColumn:    strings.TrimSpace(v.Get(ParamOrderBy)),
		SortDirection: SortDirection(strings.ToLower(strings.TrimSpace(v.Get(ParamOrder)))),
	}
	return c.Normalize(d)
}

// Normalize validates c and replaces every invalid field with its default.
func (c FilterCriteria) Normalize(d Defaults) FilterCriteria {
	if c.Role == "" {
		c.Role = d.Role
	}
	if c.SortDirection == "" {
		c.SortDirection = SortAsc
	}
	if c.Page == 0 {
		c.Page = 1
	}
	if c.PerPage == 0 {
		c.PerPage = d.perPage()
	}

	err := validate.Struct(c)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return c
	}
	for _, fe := range verrs {
		switch fe.StructField() {
		case "Search":
			c.Search = string([]rune(c.Search)[:maxSearchLength])
		case "Status":
			c.Status = DefaultFilter
		case "CourseID":
			c.CourseID = 0
		case "LessonID":
			c.LessonID = 0
		case "Role":
			c.Role = d.Role
		case "Page":
			if c.Page > MaxPage {
				c.Page = MaxPage
			} else {
				c.Page = 1
			}
		case "PerPage":
			c.PerPage = d.perPage()
		case "SortColumn":
			c.SortColumn = ""
		case "SortDirection":
			c.SortDirection = SortAsc
		}
	}
	return c
}

// Values encodes c back into request parameters, omitting defaults.
func (c FilterCriteria) Values() url.Values {
	v := url.Values{}
	if c.Search != "" {
		v.Set(ParamSearch, c.Search)
	}
	if c.Status != DefaultFilter {
		v.Set(ParamStatus, string(c.Status))
	}
	if c.CourseID > 0 {
		v.Set(ParamCourseID, strconv.FormatInt(c.CourseID, 10))
	}
	if c.LessonID > 0 {
		v.Set(ParamLessonID, strconv.FormatInt(c.LessonID, 10))
	}
	if c.Role != "" {
		v.Set(ParamRole, c.Role)
	}
	if c.Page > 1 {
		v.Set(ParamPage, strconv.Itoa(c.Page))
	}
	if c.PerPage != DefaultPerPage {
		v.Set(ParamPerPage, strconv.Itoa(c.PerPage))
	}
	if c.SortColumn != "" {
		v.Set(ParamOrderBy, c.SortColumn)
	}
	if c.SortDirection == SortDesc {
		v.Set(ParamOrder, string(c.SortDirection))
	}
	return v
}

func (d Defaults) perPage() int {
	if d.PerPage < 1 || d.PerPage > MaxPerPage {
		return DefaultPerPage
	}
	return d.PerPage
}

// parseID returns 0 for anything that is not a base-10 integer.
func parseID(raw string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// sanitizeSearch strips markup from a search term and keeps its plain text.
func sanitizeSearch(raw string) string {
	return strings.TrimSpace(html.UnescapeString(searchPolicy.Sanitize(raw)))
}
