package domain

import "time"

// SupportLevel indica si el tutor enfatiza soporte alto o bajo en una dimension cognitiva.
type SupportLevel string

const (
	SupportHigh SupportLevel = "HIGH"
	SupportLow  SupportLevel = "LOW"
)

// PedagogyProfile son los ocho tags pedagogicos del tutor.
// TCS: confidence support, TSPI: processing speed instruction,
// TWMLS: working memory load support, TPO: precision orientation,
// TECP: error correction patience, TET: exploration tolerance,
// TICS: impulse control structure, TRD: reasoning depth.
type PedagogyProfile struct {
	TCS   SupportLevel `json:"tcs"`
	TSPI  SupportLevel `json:"tspi"`
	TWMLS SupportLevel `json:"twmls"`
	TPO   SupportLevel `json:"tpo"`
	TECP  SupportLevel `json:"tecp"`
	TET   SupportLevel `json:"tet"`
	TICS  SupportLevel `json:"tics"`
	TRD   SupportLevel `json:"trd"`
}

// Complete indica si los ocho tags estan definidos.
// Solo tutores con perfil completo califican para matching.
func (p PedagogyProfile) Complete() bool {
	for _, lvl := range p.Levels() {
		if lvl != SupportHigh && lvl != SupportLow {
			return false
		}
	}
	return true
}

// Levels devuelve los ocho niveles en el orden canonico de tags.
func (p PedagogyProfile) Levels() [8]SupportLevel {
	return [8]SupportLevel{p.TCS, p.TSPI, p.TWMLS, p.TPO, p.TECP, p.TET, p.TICS, p.TRD}
}

// PedagogyTags lista los tags en el mismo orden que Levels.
var PedagogyTags = [8]string{"TCS", "TSPI", "TWMLS", "TPO", "TECP", "TET", "TICS", "TRD"}

// TutorCandidate es un tutor calificado dentro del pool de matching.
// El pool llega fresco por request desde el directorio de tutores; nunca se persiste aca.
type TutorCandidate struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	LessonPrice float64         `json:"lesson_price"`
	Subjects    []string        `json:"subjects"`
	Pedagogy    PedagogyProfile `json:"pedagogy"`
	CreatedAt   time.Time       `json:"created_at"`
}
