package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"tutor-match/internal/domain"
	"tutor-match/internal/service"
)

type stubLearnerRepo struct{ learner domain.Learner }

func (s stubLearnerRepo) GetByID(_ context.Context, _ string) (domain.Learner, error) {
	return s.learner, nil
}

func (s stubLearnerRepo) GetByEmail(_ context.Context, _ string) (domain.Learner, error) {
	return s.learner, nil
}

type stubAssessmentRepo struct {
	profile domain.CognitiveProfile
	err     error
}

func (s stubAssessmentRepo) GetByLearnerID(_ context.Context, _ string) (domain.CognitiveProfile, error) {
	return s.profile, s.err
}

type stubTutorRepo struct{ pool []domain.TutorCandidate }

func (s stubTutorRepo) FindQualified(_ context.Context) ([]domain.TutorCandidate, error) {
	return s.pool, nil
}

func highSupportPedagogy() domain.PedagogyProfile {
	return domain.PedagogyProfile{
		TCS: domain.SupportHigh, TSPI: domain.SupportHigh, TWMLS: domain.SupportHigh,
		TPO: domain.SupportHigh, TECP: domain.SupportHigh, TET: domain.SupportHigh,
		TICS: domain.SupportHigh, TRD: domain.SupportHigh,
	}
}

func matchTestRouter(t *testing.T, assessments stubAssessmentRepo, rateLimit int) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtSvc := service.NewJWTService("secret", 15*time.Minute)
	token, err := jwtSvc.GenerateAccessToken(domain.Learner{ID: "l1", Email: "learner@example.com"})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	pool := []domain.TutorCandidate{
		{ID: "t1", Name: "Ana", LessonPrice: 500, Subjects: []string{"Math"}, Pedagogy: highSupportPedagogy()},
	}
	matchSvc := service.NewMatchService(
		zap.NewNop(),
		stubLearnerRepo{learner: domain.Learner{ID: "l1", Subjects: []string{"Math"}}},
		assessments,
		stubTutorRepo{pool: pool},
		service.NewCandidateScorer(service.DefaultCognitiveWeight, service.DefaultSubjectWeight),
		nil,
		service.NewMemoryMatchCache(),
		service.NewMemoryMatchRateLimiter(5*time.Minute, rateLimit),
		time.Hour,
	)

	authH := NewAuthHandler(zap.NewNop(), stubLearnerRepo{}, jwtSvc)
	matchH := NewMatchHandler(zap.NewNop(), matchSvc)
	return NewRouter(zap.NewNop(), jwtSvc, authH, matchH), token
}

func doMatchRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/learner/match-tutors", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestMatchTutors_Success(t *testing.T) {
	assessments := stubAssessmentRepo{profile: domain.CognitiveProfile{
		Confidence: 20, Anxiety: 30, ProcessingSpeed: 30, WorkingMemory: 25,
		Precision: 35, ErrorCorrection: 30, Exploration: 20, Impulsivity: 30,
		LogicalReasoning: 30, HypotheticalReasoning: 30,
	}}
	r, token := matchTestRouter(t, assessments, 5)

	rec := doMatchRequest(r, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Success bool                 `json:"success"`
		Matches []domain.MatchResult `json:"matches"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !body.Success || len(body.Matches) != 1 || body.Matches[0].TutorID != "t1" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestMatchTutors_MissingAssessment(t *testing.T) {
	r, token := matchTestRouter(t, stubAssessmentRepo{err: pgx.ErrNoRows}, 5)

	rec := doMatchRequest(r, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMatchTutors_RateLimited(t *testing.T) {
	assessments := stubAssessmentRepo{profile: domain.CognitiveProfile{Confidence: 20}}
	r, token := matchTestRouter(t, assessments, 1)

	if rec := doMatchRequest(r, token); rec.Code != http.StatusOK {
		t.Fatalf("expected first call to pass, got %d", rec.Code)
	}

	rec := doMatchRequest(r, token)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		RetryAfterSeconds int `json:"retry_after_seconds"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body.RetryAfterSeconds <= 0 {
		t.Fatalf("expected positive retry_after_seconds, got %d", body.RetryAfterSeconds)
	}
}
