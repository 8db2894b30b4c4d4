package service

import (
	"strings"
	"testing"
)

func TestSubjectScore_SynonymFullMatch(t *testing.T) {
	scorer := SubjectScorer{}

	ratio, explanation := scorer.Score([]string{"Math"}, []string{"Mathematics"})
	if ratio != 1.0 {
		t.Fatalf("expected ratio 1.0 for Math vs Mathematics, got %v", ratio)
	}
	if !strings.Contains(explanation, "Full subject match") {
		t.Fatalf("expected full match explanation, got %q", explanation)
	}
	if !strings.Contains(explanation, "Math") {
		t.Fatalf("expected explanation to name the subject, got %q", explanation)
	}
}

func TestSubjectScore_NoOverlap(t *testing.T) {
	scorer := SubjectScorer{}

	ratio, explanation := scorer.Score([]string{"Biology"}, []string{"Mathematics", "Physics"})
	if ratio != 0.0 {
		t.Fatalf("expected ratio 0.0, got %v", ratio)
	}
	if !strings.Contains(explanation, "No subject overlap") {
		t.Fatalf("expected no-overlap explanation, got %q", explanation)
	}
}

func TestSubjectScore_ScienceCoversMembers(t *testing.T) {
	scorer := SubjectScorer{}

	// Tutor ofrece la categoria.
	ratio, _ := scorer.Score([]string{"Physics"}, []string{"Science"})
	if ratio != 1.0 {
		t.Fatalf("expected Science to cover Physics, got %v", ratio)
	}

	// Learner pide la categoria y el tutor ofrece un miembro.
	ratio, _ = scorer.Score([]string{"Science"}, []string{"chemistry"})
	if ratio != 1.0 {
		t.Fatalf("expected chemistry to satisfy Science, got %v", ratio)
	}
}

func TestSubjectScore_PartialOverlap(t *testing.T) {
	scorer := SubjectScorer{}

	ratio, explanation := scorer.Score([]string{"Maths", "History"}, []string{"Mathematics"})
	if ratio != 0.5 {
		t.Fatalf("expected ratio 0.5, got %v", ratio)
	}
	if !strings.Contains(explanation, "Partial subject match") {
		t.Fatalf("expected partial match explanation, got %q", explanation)
	}
	if !strings.Contains(explanation, "Maths") || !strings.Contains(explanation, "History") {
		t.Fatalf("expected explanation to name covered and missing subjects, got %q", explanation)
	}
}

func TestSubjectScore_NormalizationAndEmptyInputs(t *testing.T) {
	scorer := SubjectScorer{}

	ratio, _ := scorer.Score([]string{"  MATH  "}, []string{"mathematics "})
	if ratio != 1.0 {
		t.Fatalf("expected trimming and case folding, got %v", ratio)
	}

	if ratio, _ := scorer.Score(nil, []string{"Math"}); ratio != 0 {
		t.Fatalf("expected 0 without requested subjects, got %v", ratio)
	}
	if ratio, _ := scorer.Score([]string{"Math"}, nil); ratio != 0 {
		t.Fatalf("expected 0 without offered subjects, got %v", ratio)
	}
}
