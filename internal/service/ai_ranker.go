package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"tutor-match/internal/domain"
	"tutor-match/internal/llm"
)

var (
	ErrAIUnavailable     = errors.New("ai ranker unavailable")
	ErrAIResponseInvalid = errors.New("ai ranking response invalid")
)

const maxMatchResults = 3

// AIRanker refina el shortlist basado en reglas con un ranking del LLM.
// Cualquier falla (error, timeout, respuesta invalida, id desconocido) se
// reporta al orquestador, que cae en silencio al orden por reglas: nunca se
// expone un resultado parcial del modelo.
type AIRanker struct {
	llmClient llm.LLMClient
	parser    RankingParser
	logger    *zap.Logger
	timeout   time.Duration
	shortlist int
}

func NewAIRanker(llmClient llm.LLMClient, logger *zap.Logger, timeout time.Duration, shortlist int) *AIRanker {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if shortlist <= 0 {
		shortlist = 8
	}
	return &AIRanker{
		llmClient: llmClient,
		logger:    logger,
		timeout:   timeout,
		shortlist: shortlist,
	}
}

// ShortlistSize acota cuantos candidatos salen hacia el proveedor (control de costo).
func (r *AIRanker) ShortlistSize() int { return r.shortlist }

// Refine pide al LLM un top-3 con reasoning sobre el shortlist ya ordenado por
// reglas. El compatibility_score NUNCA lo inventa el modelo: se retiene el
// calculado por reglas para que los scores sean reproducibles y auditables.
func (r *AIRanker) Refine(ctx context.Context, cognitive domain.CognitiveProfile, learnerSubjects []string, shortlist []domain.ScoredCandidate) ([]domain.MatchResult, error) {
	if r.llmClient == nil {
		return nil, ErrAIUnavailable
	}
	if len(shortlist) == 0 {
		return nil, ErrAIResponseInvalid
	}

	prompt := r.buildRankingPrompt(cognitive, learnerSubjects, shortlist)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	raw, err := r.llmClient.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}

	ranking, err := r.parser.ParseRanking(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAIResponseInvalid, err)
	}

	return r.validateRanking(ranking, shortlist)
}

// validateRanking cruza el ranking del modelo contra el shortlist: ids
// desconocidos o duplicados invalidan la respuesta completa.
func (r *AIRanker) validateRanking(ranking domain.AIRanking, shortlist []domain.ScoredCandidate) ([]domain.MatchResult, error) {
	byID := make(map[string]domain.ScoredCandidate, len(shortlist))
	for _, sc := range shortlist {
		byID[sc.Candidate.ID] = sc
	}

	// Primero se valida la respuesta completa: un solo id desconocido o
	// duplicado, aunque quede fuera del top-3, invalida todo el ranking.
	seen := make(map[string]bool)
	for _, m := range ranking.Matches {
		if _, ok := byID[m.TutorID]; !ok {
			return nil, fmt.Errorf("%w: unknown tutor id %q", ErrAIResponseInvalid, m.TutorID)
		}
		if seen[m.TutorID] {
			return nil, fmt.Errorf("%w: duplicated tutor id %q", ErrAIResponseInvalid, m.TutorID)
		}
		seen[m.TutorID] = true
	}

	results := make([]domain.MatchResult, 0, maxMatchResults)
	for _, m := range ranking.Matches {
		if len(results) == maxMatchResults {
			break
		}
		sc := byID[m.TutorID]

		reasoning := strings.TrimSpace(m.Reasoning)
		if reasoning == "" {
			reasoning = sc.Reasoning
		}
		subjectExplanation := strings.TrimSpace(m.SubjectExplanation)
		if subjectExplanation == "" {
			subjectExplanation = sc.SubjectExplanation
		}

		results = append(results, domain.MatchResult{
			TutorID:            sc.Candidate.ID,
			TutorName:          sc.Candidate.Name,
			LessonPrice:        sc.Candidate.LessonPrice,
			CompatibilityScore: sc.CompatibilityScore,
			Reasoning:          reasoning,
			SubjectExplanation: subjectExplanation,
		})
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("%w: empty ranking", ErrAIResponseInvalid)
	}

	return results, nil
}

// buildRankingPrompt arma un prompt compacto (~400 tokens objetivo): solo ids,
// scores, precios y materias. Nada de identidad del learner sale al proveedor.
func (r *AIRanker) buildRankingPrompt(cognitive domain.CognitiveProfile, learnerSubjects []string, shortlist []domain.ScoredCandidate) string {
	var sb strings.Builder

	sb.WriteString("You are a tutor-student matching expert. Rank tutors by cognitive+subject compatibility+price.\n\n")

	sb.WriteString(fmt.Sprintf(
		"Student: confidence=%d, anxiety=%d, processing_speed=%d, working_memory=%d, precision=%d, error_correction=%d, exploration=%d, impulsivity=%d, logical_reasoning=%d, hypothetical_reasoning=%d\n",
		cognitive.Confidence, cognitive.Anxiety, cognitive.ProcessingSpeed,
		cognitive.WorkingMemory, cognitive.Precision, cognitive.ErrorCorrection,
		cognitive.Exploration, cognitive.Impulsivity,
		cognitive.LogicalReasoning, cognitive.HypotheticalReasoning,
	))
	sb.WriteString(fmt.Sprintf("Subjects: %s\n\n", strings.Join(learnerSubjects, ", ")))

	sb.WriteString("Tutors (trait_matches/8, subject_overlap%, price):\n")
	for i, sc := range shortlist {
		pedagogy := make([]string, 0, len(domain.PedagogyTags))
		levels := sc.Candidate.Pedagogy.Levels()
		for j, tag := range domain.PedagogyTags {
			pedagogy = append(pedagogy, fmt.Sprintf("%s:%s", tag, levels[j]))
		}
		sb.WriteString(fmt.Sprintf(
			"%d. %s (cog:%d/8, subj:%.0f%%, price:%.2f) subjects:%q pedagogy:%q\n",
			i+1, sc.Candidate.ID, sc.CognitiveMatchCount, sc.SubjectScore,
			sc.Candidate.LessonPrice,
			strings.Join(sc.Candidate.Subjects, ","),
			strings.Join(pedagogy, ","),
		))
	}

	sb.WriteString("\nSubject matching rules:\n")
	sb.WriteString("- Handle variations: Maths=Mathematics, Science=Physics/Chemistry/Biology\n")
	sb.WriteString("- Partial overlap allowed, reward close matches\n")
	sb.WriteString("- Consider semantic similarity\n\n")

	sb.WriteString("Return top 3 as JSON:\n")
	sb.WriteString(`{"matches":[{"tutor_id":"id","reasoning":"High TCS matches low confidence. Strong subject match.","subject_explanation":"Maths matches Mathematics expertise"}]}`)
	sb.WriteString("\n\nRank by: 1)Cognitive compatibility 2)Subject overlap 3)Lower price for ties. Be concise but clear.")

	return sb.String()
}
