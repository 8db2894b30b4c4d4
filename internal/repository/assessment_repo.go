package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"tutor-match/internal/domain"
)

// AssessmentRepository entrega el perfil cognitivo finalizado de un learner.
// pgx.ErrNoRows significa "sin assessment"; el servicio lo traduce a su error propio.
type AssessmentRepository interface {
	GetByLearnerID(ctx context.Context, learnerID string) (domain.CognitiveProfile, error)
}

type PgAssessmentRepository struct {
	pool *pgxpool.Pool
}

func NewPgAssessmentRepository(pool *pgxpool.Pool) *PgAssessmentRepository {
	return &PgAssessmentRepository{pool: pool}
}

func (r *PgAssessmentRepository) GetByLearnerID(ctx context.Context, learnerID string) (domain.CognitiveProfile, error) {
	const query = `
		SELECT learner_id, confidence_score, anxiety_score, processing_speed_score,
		       working_memory_score, precision_score, error_correction_ability_score,
		       exploratory_nature_score, impulsivity_score, logical_reasoning_score,
		       hypothetical_reasoning_score, finalized_at
		FROM cognitive_assessments
		WHERE learner_id = $1
		ORDER BY finalized_at DESC
		LIMIT 1
	`

	var p domain.CognitiveProfile
	err := r.pool.QueryRow(ctx, query, learnerID).Scan(
		&p.LearnerID,
		&p.Confidence,
		&p.Anxiety,
		&p.ProcessingSpeed,
		&p.WorkingMemory,
		&p.Precision,
		&p.ErrorCorrection,
		&p.Exploration,
		&p.Impulsivity,
		&p.LogicalReasoning,
		&p.HypotheticalReasoning,
		&p.FinalizedAt,
	)
	if err != nil {
		return domain.CognitiveProfile{}, err
	}
	return p, nil
}
