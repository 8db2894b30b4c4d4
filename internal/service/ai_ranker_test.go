package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"tutor-match/internal/domain"
	"tutor-match/internal/llm"
)

func rankerShortlist() []domain.ScoredCandidate {
	return []domain.ScoredCandidate{
		{
			Candidate:           domain.TutorCandidate{ID: "t1", Name: "Ana", LessonPrice: 800, Subjects: []string{"Math"}, Pedagogy: allHighPedagogy()},
			CognitiveMatchCount: 8, CognitiveScore: 100, SubjectOverlapRatio: 1, SubjectScore: 100,
			CompatibilityScore: 100, Reasoning: "Cognitive compatibility: 8/8.", SubjectExplanation: "Full subject match: Math.",
		},
		{
			Candidate:           domain.TutorCandidate{ID: "t2", Name: "Luis", LessonPrice: 600, Subjects: []string{"Math"}, Pedagogy: mixedPedagogy()},
			CognitiveMatchCount: 4, CognitiveScore: 50, SubjectOverlapRatio: 1, SubjectScore: 100,
			CompatibilityScore: 65, Reasoning: "Cognitive compatibility: 4/8.", SubjectExplanation: "Full subject match: Math.",
		},
	}
}

func TestRefine_SuccessKeepsRuleBasedScores(t *testing.T) {
	mock := &llm.MockClient{
		Response: `{"matches":[{"tutor_id":"t2","reasoning":"Better pace fit."},{"tutor_id":"t1","reasoning":"Solid overall."}]}`,
	}
	ranker := NewAIRanker(mock, zap.NewNop(), time.Second, 8)

	results, err := ranker.Refine(context.Background(), neutralProfile(), []string{"Math"}, rankerShortlist())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	// El modelo reordena, pero el score queda el de reglas.
	if results[0].TutorID != "t2" || results[0].CompatibilityScore != 65 {
		t.Fatalf("unexpected first result: %+v", results[0])
	}
	if results[1].TutorID != "t1" || results[1].CompatibilityScore != 100 {
		t.Fatalf("unexpected second result: %+v", results[1])
	}
	if results[0].Reasoning != "Better pace fit." {
		t.Fatalf("expected AI reasoning, got %q", results[0].Reasoning)
	}
}

func TestRefine_UnknownTutorIDInvalidatesResponse(t *testing.T) {
	mock := &llm.MockClient{
		Response: `{"matches":[{"tutor_id":"ghost","reasoning":"made up"}]}`,
	}
	ranker := NewAIRanker(mock, zap.NewNop(), time.Second, 8)

	_, err := ranker.Refine(context.Background(), neutralProfile(), []string{"Math"}, rankerShortlist())
	if !errors.Is(err, ErrAIResponseInvalid) {
		t.Fatalf("expected ErrAIResponseInvalid, got %v", err)
	}
}

func TestRefine_DuplicatedTutorIDInvalidatesResponse(t *testing.T) {
	mock := &llm.MockClient{
		Response: `{"matches":[{"tutor_id":"t1"},{"tutor_id":"t1"}]}`,
	}
	ranker := NewAIRanker(mock, zap.NewNop(), time.Second, 8)

	_, err := ranker.Refine(context.Background(), neutralProfile(), []string{"Math"}, rankerShortlist())
	if !errors.Is(err, ErrAIResponseInvalid) {
		t.Fatalf("expected ErrAIResponseInvalid, got %v", err)
	}
}

func TestRefine_UnknownIDBeyondTopThreeInvalidatesResponse(t *testing.T) {
	shortlist := rankerShortlist()
	shortlist = append(shortlist, domain.ScoredCandidate{
		Candidate:           domain.TutorCandidate{ID: "t3", Name: "Eva", LessonPrice: 500, Subjects: []string{"Math"}, Pedagogy: allLowPedagogy()},
		CompatibilityScore:  30,
		Reasoning:           "Cognitive compatibility: 0/8.",
		SubjectExplanation:  "Full subject match: Math.",
		SubjectOverlapRatio: 1,
	})

	// El cuarto id es desconocido: invalida el ranking completo aunque los
	// tres primeros alcancen para el top-3.
	mock := &llm.MockClient{
		Response: `{"matches":[{"tutor_id":"t1"},{"tutor_id":"t2"},{"tutor_id":"t3"},{"tutor_id":"ghost"}]}`,
	}
	ranker := NewAIRanker(mock, zap.NewNop(), time.Second, 8)

	_, err := ranker.Refine(context.Background(), neutralProfile(), []string{"Math"}, shortlist)
	if !errors.Is(err, ErrAIResponseInvalid) {
		t.Fatalf("expected ErrAIResponseInvalid, got %v", err)
	}
}

func TestRefine_ProviderErrorAndTimeout(t *testing.T) {
	mock := &llm.MockClient{Err: errors.New("quota exhausted")}
	ranker := NewAIRanker(mock, zap.NewNop(), time.Second, 8)

	if _, err := ranker.Refine(context.Background(), neutralProfile(), nil, rankerShortlist()); !errors.Is(err, ErrAIUnavailable) {
		t.Fatalf("expected ErrAIUnavailable, got %v", err)
	}

	slow := &llm.MockClient{
		GenerateFn: func(ctx context.Context, _ string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	}
	ranker = NewAIRanker(slow, zap.NewNop(), 10*time.Millisecond, 8)
	if _, err := ranker.Refine(context.Background(), neutralProfile(), nil, rankerShortlist()); !errors.Is(err, ErrAIUnavailable) {
		t.Fatalf("expected ErrAIUnavailable on timeout, got %v", err)
	}
}

func TestBuildRankingPrompt_CompactAndScrubbed(t *testing.T) {
	ranker := NewAIRanker(&llm.MockClient{}, zap.NewNop(), time.Second, 8)

	prompt := ranker.buildRankingPrompt(neutralProfile(), []string{"Math"}, rankerShortlist())

	for _, want := range []string{"t1", "t2", "cog:8/8", "Return top 3 as JSON"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("expected prompt to contain %q:\n%s", want, prompt)
		}
	}
	// Solo ids, scores y materias: sin nombres ni identidad del learner.
	if strings.Contains(prompt, "Ana") || strings.Contains(prompt, "Luis") {
		t.Fatalf("unexpected personal data in prompt:\n%s", prompt)
	}
	// Presupuesto aproximado de tokens: el prompt se mantiene compacto.
	if len(prompt) > 2200 {
		t.Fatalf("prompt too long: %d chars", len(prompt))
	}
}
