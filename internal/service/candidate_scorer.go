package service

import (
	"fmt"
	"math"
	"sort"

	"tutor-match/internal/domain"
)

// Pesos por defecto de la mezcla: la compatibilidad cognitiva es la señal
// primaria, el solapamiento de materias la secundaria.
const (
	DefaultCognitiveWeight = 0.7
	DefaultSubjectWeight   = 0.3
)

// CandidateScorer compone los dos scorers puros en un registro por tutor
// y produce el orden total basado en reglas (el ranking de fallback).
type CandidateScorer struct {
	traits    TraitScorer
	subjects  SubjectScorer
	cogWeight float64
	subWeight float64
}

func NewCandidateScorer(cogWeight, subWeight float64) *CandidateScorer {
	if cogWeight <= 0 && subWeight <= 0 {
		cogWeight = DefaultCognitiveWeight
		subWeight = DefaultSubjectWeight
	}
	return &CandidateScorer{cogWeight: cogWeight, subWeight: subWeight}
}

// ScoreAll evalua cada candidato del pool sin mutarlo y devuelve los registros
// ya ordenados: match cognitivo desc, solapamiento desc, precio asc.
func (s *CandidateScorer) ScoreAll(learnerSubjects []string, cognitive domain.CognitiveProfile, pool []domain.TutorCandidate) []domain.ScoredCandidate {
	scored := make([]domain.ScoredCandidate, 0, len(pool))

	for _, tutor := range pool {
		matchCount, traitReasoning := s.traits.Score(cognitive, tutor.Pedagogy)
		ratio, subjectExplanation := s.subjects.Score(learnerSubjects, tutor.Subjects)

		cognitiveScore := float64(matchCount) / 8 * 100
		subjectScore := ratio * 100

		reasoning := fmt.Sprintf("Cognitive compatibility: %d/8.", matchCount)
		if traitReasoning != "" {
			reasoning += " " + traitReasoning
		}

		scored = append(scored, domain.ScoredCandidate{
			Candidate:           tutor,
			CognitiveMatchCount: matchCount,
			CognitiveScore:      round1(cognitiveScore),
			SubjectOverlapRatio: ratio,
			SubjectScore:        round1(subjectScore),
			CompatibilityScore:  s.blend(cognitiveScore, subjectScore),
			Reasoning:           reasoning,
			SubjectExplanation:  subjectExplanation,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.CognitiveMatchCount != b.CognitiveMatchCount {
			return a.CognitiveMatchCount > b.CognitiveMatchCount
		}
		if a.SubjectOverlapRatio != b.SubjectOverlapRatio {
			return a.SubjectOverlapRatio > b.SubjectOverlapRatio
		}
		return a.Candidate.LessonPrice < b.Candidate.LessonPrice
	})

	return scored
}

func (s *CandidateScorer) blend(cognitiveScore, subjectScore float64) float64 {
	blended := s.cogWeight*cognitiveScore + s.subWeight*subjectScore
	return round1(clamp(blended, 0, 100))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// round1 redondea a un decimal; los scores se exponen con esa precision.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
