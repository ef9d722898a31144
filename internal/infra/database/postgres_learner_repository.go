package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"grading_overview_bot/internal/domain/learner"

	"github.com/lib/pq" // For pq.Array
)

// ErrDuplicateLogin is returned by Create when the login is taken.
// The bot only reads learners; Create seeds fixtures.
var ErrDuplicateLogin = errors.New("learner with this login already exists")

const uniqueViolation = "23505"

type PostgresLearnerRepository struct {
	db *sql.DB
}

func NewPostgresLearnerRepository(db *sql.DB) *PostgresLearnerRepository {
	return &PostgresLearnerRepository{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns a search term into an ILIKE substring pattern.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

func (r *PostgresLearnerRepository) Query(ctx context.Context, q learner.Query) (*learner.Page, error) {
	if len(q.IncludeIDs) == 0 {
		return &learner.Page{Learners: []*learner.Learner{}}, nil
	}

	args := []any{pq.Array(q.IncludeIDs)}
	conds := []string{"id = ANY($1)"}
	if q.Role != "" {
		args = append(args, q.Role)
		conds = append(conds, fmt.Sprintf("role = $%d", len(args)))
	}
	if q.Search != "" {
		args = append(args, containsPattern(q.Search))
		n := len(args)
		conds = append(conds, fmt.Sprintf("(login ILIKE $%d OR display_name ILIKE $%d OR email ILIKE $%d)", n, n, n))
	}

	query := `SELECT id, login, display_name, email, role, COUNT(*) OVER()
               FROM users WHERE ` + strings.Join(conds, " AND ") + `
               ORDER BY login, id`
	if q.Count > 0 {
		args = append(args, q.Count)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if q.Offset > 0 {
		args = append(args, q.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying learners: %w", err)
	}
	defer rows.Close()

	page := &learner.Page{Learners: make([]*learner.Learner, 0)}
	for rows.Next() {
		l := &learner.Learner{}
		if err := rows.Scan(&l.ID, &l.Login, &l.DisplayName, &l.Email, &l.Role, &page.Total); err != nil {
			return nil, fmt.Errorf("error scanning learner: %w", err)
		}
		if q.Fields == learner.FieldsID {
			l = &learner.Learner{ID: l.ID}
		}
		page.Learners = append(page.Learners, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating learners: %w", err)
	}

	// The window count is absent when the requested page is past the last match.
	if len(page.Learners) == 0 && q.Offset > 0 {
		total, err := r.count(ctx, conds, args[:len(args)-countPagingArgs(q)])
		if err != nil {
			return nil, err
		}
		page.Total = total
	}
	return page, nil
}

func countPagingArgs(q learner.Query) int {
	n := 0
	if q.Count > 0 {
		n++
	}
	if q.Offset > 0 {
		n++
	}
	return n
}

func (r *PostgresLearnerRepository) count(ctx context.Context, conds []string, args []any) (int, error) {
	query := `SELECT COUNT(*) FROM users WHERE ` + strings.Join(conds, " AND ")
	var total int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("error counting learners: %w", err)
	}
	return total, nil
}

func (r *PostgresLearnerRepository) GetByID(ctx context.Context, id int64) (*learner.Learner, error) {
	query := `SELECT id, login, display_name, email, role FROM users WHERE id = $1`
	l := &learner.Learner{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&l.ID, &l.Login, &l.DisplayName, &l.Email, &l.Role)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, learner.ErrLearnerNotFound
		}
		return nil, fmt.Errorf("error getting learner by ID: %w", err)
	}
	return l, nil
}

// Create inserts a learner and sets its ID. It seeds database fixtures;
// the grading overview never writes learners.
func (r *PostgresLearnerRepository) Create(ctx context.Context, l *learner.Learner) error {
	query := `INSERT INTO users (login, display_name, email, role)
               VALUES ($1, $2, $3, $4)
               RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, l.Login, l.DisplayName, l.Email, l.Role).Scan(&l.ID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateLogin
		}
		return fmt.Errorf("error creating learner: %w", err)
	}
	return nil
}
