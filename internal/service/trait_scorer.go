package service

import (
	"fmt"
	"strings"

	"tutor-match/internal/domain"
)

/*
========================
 Pairings rasgo-parametro
========================
*/

// traitPairing vincula un tag pedagogico del tutor con el parametro cognitivo
// del learner que lo gobierna. La tabla es fija y exhaustiva: ocho entradas,
// una por tag, en el orden canonico de domain.PedagogyTags.
type traitPairing struct {
	Tag       string
	Dimension string
	value     func(domain.CognitiveProfile) float64
	// need deriva la necesidad de soporte; nil usa la regla estandar
	// sobre value(). Solo TCS la sobreescribe (la ansiedad pesa ademas
	// de la confianza).
	need  func(domain.CognitiveProfile) domain.SupportLevel
	level func(domain.PedagogyProfile) domain.SupportLevel
}

var traitPairings = [8]traitPairing{
	{
		Tag:       "TCS",
		Dimension: "confidence",
		value:     func(p domain.CognitiveProfile) float64 { return float64(p.Confidence) },
		need:      confidenceSupportNeed,
		level:     func(p domain.PedagogyProfile) domain.SupportLevel { return p.TCS },
	},
	{
		Tag:       "TSPI",
		Dimension: "processing speed",
		value:     func(p domain.CognitiveProfile) float64 { return float64(p.ProcessingSpeed) },
		level:     func(p domain.PedagogyProfile) domain.SupportLevel { return p.TSPI },
	},
	{
		Tag:       "TWMLS",
		Dimension: "working memory",
		value:     func(p domain.CognitiveProfile) float64 { return float64(p.WorkingMemory) },
		level:     func(p domain.PedagogyProfile) domain.SupportLevel { return p.TWMLS },
	},
	{
		Tag:       "TPO",
		Dimension: "precision",
		value:     func(p domain.CognitiveProfile) float64 { return float64(p.Precision) },
		level:     func(p domain.PedagogyProfile) domain.SupportLevel { return p.TPO },
	},
	{
		Tag:       "TECP",
		Dimension: "error correction",
		value:     func(p domain.CognitiveProfile) float64 { return float64(p.ErrorCorrection) },
		level:     func(p domain.PedagogyProfile) domain.SupportLevel { return p.TECP },
	},
	{
		Tag:       "TET",
		Dimension: "exploration",
		value:     func(p domain.CognitiveProfile) float64 { return float64(p.Exploration) },
		level:     func(p domain.PedagogyProfile) domain.SupportLevel { return p.TET },
	},
	{
		Tag:       "TICS",
		Dimension: "impulsivity",
		value:     func(p domain.CognitiveProfile) float64 { return float64(p.Impulsivity) },
		level:     func(p domain.PedagogyProfile) domain.SupportLevel { return p.TICS },
	},
	{
		Tag:       "TRD",
		Dimension: "reasoning",
		value: func(p domain.CognitiveProfile) float64 {
			// Compuesto: promedio de razonamiento logico e hipotetico.
			return (float64(p.LogicalReasoning) + float64(p.HypotheticalReasoning)) / 2
		},
		level: func(p domain.PedagogyProfile) domain.SupportLevel { return p.TRD },
	},
}

/*
========================
 Derivacion de necesidad
========================
*/

const (
	lowValueThreshold  = 40 // v <= 40: necesita soporte ALTO
	highValueThreshold = 70 // v >= 70: necesita soporte BAJO
)

// deriveSupportNeed mapea el valor del parametro (0-100) a la necesidad de soporte.
// v <= 40 y el rango medio (40,70) piden HIGH; v >= 70 pide LOW.
func deriveSupportNeed(v float64) domain.SupportLevel {
	if v >= highValueThreshold {
		return domain.SupportLow
	}
	return domain.SupportHigh
}

// confidenceSupportNeed es el caso especial de TCS: la ansiedad alta fuerza
// soporte ALTO aunque la confianza sea alta, y LOW exige ademas ansiedad baja.
func confidenceSupportNeed(p domain.CognitiveProfile) domain.SupportLevel {
	if p.Anxiety >= highValueThreshold {
		return domain.SupportHigh
	}
	if p.Confidence >= highValueThreshold && p.Anxiety <= lowValueThreshold {
		return domain.SupportLow
	}
	return domain.SupportHigh
}

/*
========================
 Scorer
========================
*/

// TraitScorer evalua compatibilidad cognitiva learner-tutor. Funcion pura:
// mismas entradas, mismo resultado.
type TraitScorer struct{}

// Score cuenta cuantos de los ocho pairings son compatibles (0..8) y arma la
// justificacion agregada, preservando el orden de los tags.
func (TraitScorer) Score(cognitive domain.CognitiveProfile, pedagogy domain.PedagogyProfile) (int, string) {
	matchCount := 0
	var reasons []string

	for _, pairing := range traitPairings {
		needed := deriveSupportNeed(pairing.value(cognitive))
		if pairing.need != nil {
			needed = pairing.need(cognitive)
		}
		if pairing.level(pedagogy) != needed {
			continue
		}
		matchCount++
		reasons = append(reasons, describeTraitMatch(pairing, cognitive, needed))
	}

	return matchCount, strings.Join(reasons, " ")
}

func describeTraitMatch(pairing traitPairing, cognitive domain.CognitiveProfile, needed domain.SupportLevel) string {
	v := pairing.value(cognitive)
	qualifier := "low"
	switch {
	case v >= highValueThreshold:
		qualifier = "high"
	case v > lowValueThreshold:
		qualifier = "moderate"
	}
	return fmt.Sprintf("%s %s suits %s %s (%.0f/100).", pairing.Tag, needed, qualifier, pairing.Dimension, v)
}
