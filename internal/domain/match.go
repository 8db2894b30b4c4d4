package domain

// ScoredCandidate es el registro efimero que produce el scoring por tutor.
// Se crea fresco por request y nunca se comparte entre requests.
type ScoredCandidate struct {
	Candidate           TutorCandidate `json:"candidate"`
	CognitiveMatchCount int            `json:"cognitive_match_count"` // 0..8
	CognitiveScore      float64        `json:"cognitive_score"`       // 0..100
	SubjectOverlapRatio float64        `json:"subject_overlap_ratio"` // 0..1
	SubjectScore        float64        `json:"subject_score"`         // 0..100
	CompatibilityScore  float64        `json:"compatibility_score"`   // 0..100, mezcla ponderada
	Reasoning           string         `json:"reasoning"`
	SubjectExplanation  string         `json:"subject_explanation"`
}

// MatchResult es una de las (hasta) tres entradas finales expuestas al caller.
// Inmutable una vez producido.
type MatchResult struct {
	TutorID            string  `json:"tutor_id"`
	TutorName          string  `json:"tutor_name"`
	LessonPrice        float64 `json:"lesson_price"`
	CompatibilityScore float64 `json:"compatibility_score"`
	Reasoning          string  `json:"reasoning"`
	SubjectExplanation string  `json:"subject_explanation"`
}

// MatchResponse envuelve los resultados con metadata del request.
type MatchResponse struct {
	Matches          []MatchResult `json:"matches"`
	CacheHit         bool          `json:"cache_hit"`
	AIRanked         bool          `json:"ai_ranked"`
	ProcessingTimeMS int64         `json:"processing_time_ms"`
}

// AIRankedMatch es una entrada del ranking que devuelve el LLM.
// El score final NO viene del modelo: se retiene el calculado por reglas.
type AIRankedMatch struct {
	TutorID            string `json:"tutor_id"`
	Reasoning          string `json:"reasoning"`
	SubjectExplanation string `json:"subject_explanation"`
}

// AIRanking es la estructura esperada del LLM al rankear candidatos.
type AIRanking struct {
	Matches []AIRankedMatch `json:"matches"`
}
