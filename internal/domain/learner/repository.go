package learner

import (
	"context"
	"errors"
)

var ErrLearnerNotFound = errors.New("learner not found")

// Fields selects how much of a learner record a query loads.
type Fields string

const (
	FieldsAll Fields = "all"
	FieldsID  Fields = "id"
)

// Query is a paginated learner lookup.
// An empty IncludeIDs slice matches nobody.
type Query struct {
	Count      int
	IncludeIDs []int64
	Offset     int
	Role       string
	Search     string // case-insensitive substring of login, display name or email
	Fields     Fields
}

// Page is one page of a Query result. Total counts all matches before Offset/Count.
type Page struct {
	Learners []*Learner
	Total    int
}

// Repository defines the read operations on learners.
type Repository interface {
	Query(ctx context.Context, q Query) (*Page, error)
	GetByID(ctx context.Context, id int64) (*Learner, error)
}
