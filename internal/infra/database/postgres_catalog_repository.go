package database

import (
	"context"
	"database/sql"
	"fmt"

	"grading_overview_bot/internal/domain/catalog"
)

type PostgresCatalogRepository struct {
	db *sql.DB
}

func NewPostgresCatalogRepository(db *sql.DB) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{db: db}
}

func (r *PostgresCatalogRepository) Title(ctx context.Context, postID int64) (string, error) {
	var title string
	err := r.db.QueryRowContext(ctx, `SELECT title FROM posts WHERE id = $1`, postID).Scan(&title)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", catalog.ErrPostNotFound
		}
		return "", fmt.Errorf("error getting post title: %w", err)
	}
	return title, nil
}

func (r *PostgresCatalogRepository) LessonCourseID(ctx context.Context, lessonID int64) (int64, error) {
	query := `SELECT COALESCE(parent_id, 0) FROM posts WHERE id = $1 AND post_type = $2`
	var courseID int64
	err := r.db.QueryRowContext(ctx, query, lessonID, string(catalog.PostTypeLesson)).Scan(&courseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, catalog.ErrPostNotFound
		}
		return 0, fmt.Errorf("error getting lesson course: %w", err)
	}
	return courseID, nil
}

func (r *PostgresCatalogRepository) LessonQuizID(ctx context.Context, lessonID int64) (int64, error) {
	query := `SELECT id FROM posts WHERE parent_id = $1 AND post_type = $2 ORDER BY id DESC LIMIT 1`
	var quizID int64
	err := r.db.QueryRowContext(ctx, query, lessonID, string(catalog.PostTypeQuiz)).Scan(&quizID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("error getting lesson quiz: %w", err)
	}
	return quizID, nil
}

func (r *PostgresCatalogRepository) ListCourses(ctx context.Context) ([]catalog.Post, error) {
	query := `SELECT id, post_type, title, COALESCE(parent_id, 0)
               FROM posts WHERE post_type = $1 ORDER BY title DESC, id`
	rows, err := r.db.QueryContext(ctx, query, string(catalog.PostTypeCourse))
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()
	return scanPosts(rows)
}

func (r *PostgresCatalogRepository) ListLessons(ctx context.Context, courseID int64) ([]catalog.Post, error) {
	query := `SELECT id, post_type, title, COALESCE(parent_id, 0)
               FROM posts WHERE post_type = $1 AND parent_id = $2 ORDER BY title, id`
	rows, err := r.db.QueryContext(ctx, query, string(catalog.PostTypeLesson), courseID)
	if err != nil {
		return nil, fmt.Errorf("error listing lessons: %w", err)
	}
	defer rows.Close()
	return scanPosts(rows)
}

// Create inserts a post and sets its ID. Used to seed fixtures only.
func (r *PostgresCatalogRepository) Create(ctx context.Context, p *catalog.Post) error {
	var parent any
	if p.ParentID > 0 {
		parent = p.ParentID
	}
	query := `INSERT INTO posts (post_type, title, parent_id) VALUES ($1, $2, $3) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, string(p.Type), p.Title, parent).Scan(&p.ID); err != nil {
		return fmt.Errorf("error creating post: %w", err)
	}
	return nil
}

// Helper to scan multiple rows
func scanPosts(rows *sql.Rows) ([]catalog.Post, error) {
	posts := make([]catalog.Post, 0)
	for rows.Next() {
		var (
			p        catalog.Post
			postType string
		)
		if err := rows.Scan(&p.ID, &postType, &p.Title, &p.ParentID); err != nil {
			return nil, fmt.Errorf("error scanning post row: %w", err)
		}
		p.Type = catalog.PostType(postType)
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}
	return posts, nil
}
