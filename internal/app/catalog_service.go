package app

import (
	"context"
	"fmt"

	"grading_overview_bot/internal/domain/catalog"
)

// CatalogService serves the course and lesson selectors of the grading overview.
type CatalogService struct {
	catalogRepo catalog.Repository
}

func NewCatalogService(cr catalog.Repository) *CatalogService {
	return &CatalogService{catalogRepo: cr}
}

// Courses lists every course, ordered by title descending.
func (s *CatalogService) Courses(ctx context.Context) ([]catalog.Post, error) {
	courses, err := s.catalogRepo.ListCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

// Lessons lists the lessons of a course. No course selected yields no lessons.
func (s *CatalogService) Lessons(ctx context.Context, courseID int64) ([]catalog.Post, error) {
	if courseID <= 0 {
		return []catalog.Post{}, nil
	}
	lessons, err := s.catalogRepo.ListLessons(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons for course %d: %w", courseID, err)
	}
	return lessons, nil
}
