package repository

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"

	"tutor-match/internal/domain"
)

// TutorRepository entrega el pool de candidatos para matching.
type TutorRepository interface {
	FindQualified(ctx context.Context) ([]domain.TutorCandidate, error)
}

type PgTutorRepository struct {
	pool *pgxpool.Pool
}

func NewPgTutorRepository(pool *pgxpool.Pool) *PgTutorRepository {
	return &PgTutorRepository{pool: pool}
}

// FindQualified devuelve tutores con perfil pedagogico completo (los ocho tags definidos).
func (r *PgTutorRepository) FindQualified(ctx context.Context) ([]domain.TutorCandidate, error) {
	const query = `
		SELECT t.id, t.name, t.lesson_price, t.subjects, t.created_at,
		       p.tcs, p.tspi, p.twmls, p.tpo, p.tecp, p.tet, p.tics, p.trd
		FROM tutors t
		JOIN pedagogy_profiles p ON p.tutor_id = t.id
		WHERE p.tcs IS NOT NULL AND p.tspi IS NOT NULL AND p.twmls IS NOT NULL
		  AND p.tpo IS NOT NULL AND p.tecp IS NOT NULL AND p.tet IS NOT NULL
		  AND p.tics IS NOT NULL AND p.trd IS NOT NULL
		ORDER BY t.created_at
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tutors []domain.TutorCandidate
	for rows.Next() {
		var (
			t        domain.TutorCandidate
			subjects sql.NullString
		)
		if err := rows.Scan(
			&t.ID,
			&t.Name,
			&t.LessonPrice,
			&subjects,
			&t.CreatedAt,
			&t.Pedagogy.TCS,
			&t.Pedagogy.TSPI,
			&t.Pedagogy.TWMLS,
			&t.Pedagogy.TPO,
			&t.Pedagogy.TECP,
			&t.Pedagogy.TET,
			&t.Pedagogy.TICS,
			&t.Pedagogy.TRD,
		); err != nil {
			return nil, err
		}
		t.Subjects = decodeSubjects(subjects)
		tutors = append(tutors, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tutors, nil
}
