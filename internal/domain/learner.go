package domain

import "time"

type Learner struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Grade        string    `json:"grade,omitempty"`
	Subjects     []string  `json:"subjects"`
	Budget       *float64  `json:"budget,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// CognitiveProfile es el resultado del assessment cognitivo del learner.
// Diez parametros en escala 0-100; inmutable una vez finalizado.
type CognitiveProfile struct {
	LearnerID             string    `json:"learner_id"`
	Confidence            int       `json:"confidence"`
	Anxiety               int       `json:"anxiety"`
	ProcessingSpeed       int       `json:"processing_speed"`
	WorkingMemory         int       `json:"working_memory"`
	Precision             int       `json:"precision"`
	ErrorCorrection       int       `json:"error_correction"`
	Exploration           int       `json:"exploration"`
	Impulsivity           int       `json:"impulsivity"`
	LogicalReasoning      int       `json:"logical_reasoning"`
	HypotheticalReasoning int       `json:"hypothetical_reasoning"`
	FinalizedAt           time.Time `json:"finalized_at"`
}

// Parameters devuelve los diez valores en orden fijo.
// El orden importa: se usa para el fingerprint de cache.
func (p CognitiveProfile) Parameters() [10]int {
	return [10]int{
		p.Confidence,
		p.Anxiety,
		p.ProcessingSpeed,
		p.WorkingMemory,
		p.Precision,
		p.ErrorCorrection,
		p.Exploration,
		p.Impulsivity,
		p.LogicalReasoning,
		p.HypotheticalReasoning,
	}
}
