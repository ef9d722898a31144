package grading

import "time"

// Facts are the raw activity values of one learner/lesson pair.
// Zero times and an empty Grade mean the fact is absent.
type Facts struct {
	Start     time.Time
	End       time.Time
	Grade     string
	GradeDate time.Time
}

// Started reports whether the pair has a lesson start fact.
func (f Facts) Started() bool {
	return !f.Start.IsZero()
}

// Classification is the outcome of Classify. The zero value is excluded.
type Classification struct {
	Status    Status
	UpdatedAt time.Time // timestamp of the fact that decided Status
}

// Excluded reports whether the pair must not appear in rows or counts.
func (c Classification) Excluded() bool {
	return c.Status == StatusUnclassified
}

// Classify derives the grading status from raw facts. Rules are evaluated in
// order and the first match wins:
//
//  1. lesson ended and no grade recorded  -> Ungraded, at End
//  2. grade greater than zero             -> Graded, at GradeDate
//  3. lesson started and not ended        -> InProgress, at Start
//
// Anything else is unclassified. A grade of exactly zero counts as no grade.
func Classify(f Facts) Classification {
	switch {
	case !f.End.IsZero() && gradeEmpty(f.Grade):
		return Classification{Status: StatusUngraded, UpdatedAt: f.End}
	case gradeInt(f.Grade) > 0:
		return Classification{Status: StatusGraded, UpdatedAt: f.GradeDate}
	case !f.Start.IsZero() && f.End.IsZero():
		return Classification{Status: StatusInProgress, UpdatedAt: f.Start}
	default:
		return Classification{}
	}
}

// Evaluate gates on the start fact and then classifies. Pairs without a
// start fact are excluded whatever their other facts say. Both the row
// listing and the summary counts go through here.
func Evaluate(f Facts) Classification {
	if !f.Started() {
		return Classification{}
	}
	return Classify(f)
}
