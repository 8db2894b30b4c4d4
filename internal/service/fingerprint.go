package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"tutor-match/internal/domain"
)

// MatchFingerprint deriva la clave de cache para una combinacion
// (learner, pool de candidatos, assessment). Es una funcion pura: cualquier
// cambio de membresia del pool, de contenido de un tutor o de un parametro
// cognitivo produce un fingerprint distinto (invalidacion implicita).
func MatchFingerprint(learnerID string, pool []domain.TutorCandidate, cognitive domain.CognitiveProfile) string {
	entries := make([]string, 0, len(pool))
	for _, t := range pool {
		levels := t.Pedagogy.Levels()
		pedagogy := make([]string, 0, len(levels))
		for _, lvl := range levels {
			pedagogy = append(pedagogy, string(lvl))
		}
		entries = append(entries, fmt.Sprintf("%s:%.2f:%s:%s",
			t.ID, t.LessonPrice,
			strings.Join(normalizedCopy(t.Subjects), ","),
			strings.Join(pedagogy, ","),
		))
	}
	// Orden estable: la identidad del pool no depende del orden de llegada.
	sort.Strings(entries)

	params := cognitive.Parameters()
	scores := make([]string, 0, len(params))
	for _, v := range params {
		scores = append(scores, fmt.Sprintf("%d", v))
	}

	sum := sha256.Sum256([]byte(
		"match|" + learnerID + "|" + strings.Join(entries, ";") + "|" + strings.Join(scores, "|"),
	))
	return hex.EncodeToString(sum[:16])
}

func normalizedCopy(subjects []string) []string {
	out := make([]string, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, strings.ToLower(strings.TrimSpace(s)))
	}
	sort.Strings(out)
	return out
}
