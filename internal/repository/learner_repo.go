package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"tutor-match/internal/domain"
)

type LearnerRepository interface {
	GetByID(ctx context.Context, id string) (domain.Learner, error)
	GetByEmail(ctx context.Context, email string) (domain.Learner, error)
}

type PgLearnerRepository struct {
	pool *pgxpool.Pool
}

func NewPgLearnerRepository(pool *pgxpool.Pool) *PgLearnerRepository {
	return &PgLearnerRepository{pool: pool}
}

const learnerColumns = `id, name, email, password, grade, subjects, budget, created_at`

func (r *PgLearnerRepository) GetByID(ctx context.Context, id string) (domain.Learner, error) {
	const query = `SELECT ` + learnerColumns + ` FROM learners WHERE id = $1`
	return r.scanLearner(r.pool.QueryRow(ctx, query, id))
}

func (r *PgLearnerRepository) GetByEmail(ctx context.Context, email string) (domain.Learner, error) {
	const query = `SELECT ` + learnerColumns + ` FROM learners WHERE email = $1`
	return r.scanLearner(r.pool.QueryRow(ctx, query, email))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PgLearnerRepository) scanLearner(row rowScanner) (domain.Learner, error) {
	var (
		l        domain.Learner
		grade    sql.NullString
		subjects sql.NullString
		budget   sql.NullFloat64
	)
	if err := row.Scan(&l.ID, &l.Name, &l.Email, &l.PasswordHash, &grade, &subjects, &budget, &l.CreatedAt); err != nil {
		return domain.Learner{}, err
	}
	if grade.Valid {
		l.Grade = grade.String
	}
	if budget.Valid {
		val := budget.Float64
		l.Budget = &val
	}
	l.Subjects = decodeSubjects(subjects)
	return l, nil
}

// decodeSubjects parsea la columna subjects (JSON array en texto, legado).
// Un valor invalido se trata como lista vacia, no como error.
func decodeSubjects(raw sql.NullString) []string {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw.String), &out); err != nil {
		return nil
	}
	return out
}
