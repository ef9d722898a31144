package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"grading_overview_bot/internal/domain/activity"
)

type PostgresActivityRepository struct {
	db *sql.DB
}

func NewPostgresActivityRepository(db *sql.DB) *PostgresActivityRepository {
	return &PostgresActivityRepository{db: db}
}

// activityWhere builds the WHERE clause for q. Zero fields are not filtered on.
func activityWhere(q activity.Query) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if q.Kind != "" {
		add("kind = $%d", string(q.Kind))
	}
	if q.PostID != 0 {
		add("subject_id = $%d", q.PostID)
	}
	if q.UserID != 0 {
		add("user_id = $%d", q.UserID)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func idColumn(field activity.IDField) (string, error) {
	switch field {
	case activity.FieldPostID:
		return "subject_id", nil
	case activity.FieldUserID:
		return "user_id", nil
	default:
		return "", fmt.Errorf("unknown activity id field %q", field)
	}
}

func (r *PostgresActivityRepository) ActivityIDs(ctx context.Context, q activity.Query, field activity.IDField) ([]int64, error) {
	col, err := idColumn(field)
	if err != nil {
		return nil, err
	}
	where, args := activityWhere(q)
	query := `SELECT ` + col + ` FROM activity` + where + `
               GROUP BY ` + col + `
               ORDER BY MAX(recorded_at) DESC, ` + col

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing activity ids: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning activity id: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity ids: %w", err)
	}
	return ids, nil
}

func (r *PostgresActivityRepository) Activity(ctx context.Context, q activity.Query) (*activity.Record, error) {
	where, args := activityWhere(q)
	query := `SELECT id, subject_id, user_id, kind, recorded_at, value
               FROM activity` + where + `
               ORDER BY recorded_at DESC, id DESC LIMIT 1`

	rec := &activity.Record{}
	var kind string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&rec.ID, &rec.SubjectID, &rec.UserID, &kind, &rec.Timestamp, &rec.Value)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, activity.ErrActivityNotFound
		}
		return nil, fmt.Errorf("error getting activity: %w", err)
	}
	rec.Kind = activity.Kind(kind)
	return rec, nil
}

// Record stores one activity fact. Facts are written by the LMS that owns
// them; Record only seeds database fixtures.
func (r *PostgresActivityRepository) Record(ctx context.Context, rec *activity.Record) error {
	query := `INSERT INTO activity (subject_id, user_id, kind, recorded_at, value)
               VALUES ($1, $2, $3, $4, $5)
               RETURNING id`
	err := r.db.QueryRowContext(ctx, query, rec.SubjectID, rec.UserID, string(rec.Kind), rec.Timestamp, rec.Value).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("error recording activity: %w", err)
	}
	return nil
}
