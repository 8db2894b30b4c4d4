package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"tutor-match/internal/domain"
	"tutor-match/internal/repository"
)

var (
	ErrLearnerNotFound    = errors.New("learner not found")
	ErrAssessmentRequired = errors.New("cognitive assessment required")
	ErrNoQualifiedTutors  = errors.New("no qualified tutors available")
)

// RateLimitedError se devuelve cuando el learner agoto su cuota de matching.
// Lleva el retry-after porque el caller lo expone en la respuesta.
type RateLimitedError struct {
	RetryAfterSeconds int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited: retry in %d seconds", e.RetryAfterSeconds)
}

// MatchService orquesta el matching end-to-end: rate limit, cache, scoring por
// reglas, refinamiento con AI (con fallback silencioso) y almacenamiento.
type MatchService struct {
	logger      *zap.Logger
	learners    repository.LearnerRepository
	assessments repository.AssessmentRepository
	tutors      repository.TutorRepository
	scorer      *CandidateScorer
	ranker      *AIRanker
	cache       MatchCache
	limiter     MatchRateLimiter
	cacheTTL    time.Duration
	now         func() time.Time
}

func NewMatchService(
	logger *zap.Logger,
	learners repository.LearnerRepository,
	assessments repository.AssessmentRepository,
	tutors repository.TutorRepository,
	scorer *CandidateScorer,
	ranker *AIRanker,
	cache MatchCache,
	limiter MatchRateLimiter,
	cacheTTL time.Duration,
) *MatchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if scorer == nil {
		scorer = NewCandidateScorer(DefaultCognitiveWeight, DefaultSubjectWeight)
	}
	if cache == nil {
		cache = NewMemoryMatchCache()
	}
	if limiter == nil {
		limiter = NewMemoryMatchRateLimiter(5*time.Minute, 5)
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Hour
	}
	return &MatchService{
		logger:      logger,
		learners:    learners,
		assessments: assessments,
		tutors:      tutors,
		scorer:      scorer,
		ranker:      ranker,
		cache:       cache,
		limiter:     limiter,
		cacheTTL:    cacheTTL,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// FindMatches devuelve los (hasta) tres mejores tutores para el learner.
// Los errores de precondicion y rate limit abortan antes de cualquier scoring;
// las fallas de AI nunca pasan de aca: degradan al ranking por reglas.
func (s *MatchService) FindMatches(ctx context.Context, learnerID string) (domain.MatchResponse, error) {
	start := s.now()

	allowed, retryAfter, err := s.limiter.Allow(ctx, learnerID)
	if err != nil {
		return domain.MatchResponse{}, fmt.Errorf("rate limiter: %w", err)
	}
	if !allowed {
		return domain.MatchResponse{}, &RateLimitedError{RetryAfterSeconds: retryAfter}
	}

	learner, err := s.learners.GetByID(ctx, learnerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.MatchResponse{}, ErrLearnerNotFound
		}
		return domain.MatchResponse{}, fmt.Errorf("get learner: %w", err)
	}

	cognitive, err := s.assessments.GetByLearnerID(ctx, learnerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.MatchResponse{}, ErrAssessmentRequired
		}
		return domain.MatchResponse{}, fmt.Errorf("get assessment: %w", err)
	}

	pool, err := s.tutors.FindQualified(ctx)
	if err != nil {
		return domain.MatchResponse{}, fmt.Errorf("get qualified tutors: %w", err)
	}
	if len(pool) == 0 {
		return domain.MatchResponse{}, ErrNoQualifiedTutors
	}

	fingerprint := MatchFingerprint(learnerID, pool, cognitive)

	if cached, hit, cacheErr := s.cache.Get(ctx, fingerprint); cacheErr != nil {
		s.logger.Warn("match cache get failed", zap.Error(cacheErr))
	} else if hit {
		return domain.MatchResponse{
			Matches:          cached,
			CacheHit:         true,
			ProcessingTimeMS: s.elapsedMS(start),
		}, nil
	}

	scored := s.scorer.ScoreAll(learner.Subjects, cognitive, pool)

	matches, aiRanked := s.refineWithFallback(ctx, cognitive, learner.Subjects, scored)

	if err := s.cache.Put(ctx, fingerprint, matches, s.cacheTTL); err != nil {
		// Cache caida no debe fallar un matching ya computado.
		s.logger.Warn("match cache put failed", zap.Error(err))
	}

	return domain.MatchResponse{
		Matches:          matches,
		CacheHit:         false,
		AIRanked:         aiRanked,
		ProcessingTimeMS: s.elapsedMS(start),
	}, nil
}

// refineWithFallback intenta el ranking con AI y cae al orden por reglas ante
// cualquier falla. Sin retry: una sola falla degrada, la latencia queda acotada.
func (s *MatchService) refineWithFallback(ctx context.Context, cognitive domain.CognitiveProfile, learnerSubjects []string, scored []domain.ScoredCandidate) ([]domain.MatchResult, bool) {
	if s.ranker == nil {
		return ruleBasedTop(scored), false
	}

	shortlist := scored
	if k := s.ranker.ShortlistSize(); len(shortlist) > k {
		shortlist = shortlist[:k]
	}

	matches, err := s.ranker.Refine(ctx, cognitive, learnerSubjects, shortlist)
	if err != nil {
		s.logger.Warn("ai ranking failed, using rule-based fallback", zap.Error(err))
		return ruleBasedTop(scored), false
	}
	return matches, true
}

// ruleBasedTop trunca el orden por reglas a los tres primeros.
// Este es el ranking de fallback: deterministico y auditable.
func ruleBasedTop(scored []domain.ScoredCandidate) []domain.MatchResult {
	n := len(scored)
	if n > maxMatchResults {
		n = maxMatchResults
	}
	results := make([]domain.MatchResult, 0, n)
	for _, sc := range scored[:n] {
		results = append(results, domain.MatchResult{
			TutorID:            sc.Candidate.ID,
			TutorName:          sc.Candidate.Name,
			LessonPrice:        sc.Candidate.LessonPrice,
			CompatibilityScore: sc.CompatibilityScore,
			Reasoning:          sc.Reasoning,
			SubjectExplanation: sc.SubjectExplanation,
		})
	}
	return results
}

func (s *MatchService) elapsedMS(start time.Time) int64 {
	return s.now().Sub(start).Milliseconds()
}
