package grading

// Counts are the header totals of the grading overview.
type Counts struct {
	All        int `json:"all"`
	Ungraded   int `json:"ungraded"`
	Graded     int `json:"graded"`
	InProgress int `json:"in-progress"`
}

// Record adds one started pair. Unclassified pairs count towards All only.
func (c *Counts) Record(cl Classification) {
	c.All++
	switch cl.Status {
	case StatusUngraded:
		c.Ungraded++
	case StatusGraded:
		c.Graded++
	case StatusInProgress:
		c.InProgress++
	}
}

// For returns the count shown next to filter f.
func (c Counts) For(f StatusFilter) int {
	switch f {
	case FilterAll:
		return c.All
	case FilterUngraded:
		return c.Ungraded
	case FilterGraded:
		return c.Graded
	case FilterInProgress:
		return c.InProgress
	default:
		return 0
	}
}
