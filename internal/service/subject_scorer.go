package service

import (
	"fmt"
	"strings"
)

/*
========================
 Normalizacion de materias
========================
*/

// subjectSynonyms colapsa variantes a una forma canonica.
var subjectSynonyms = map[string]string{
	"math":        "mathematics",
	"maths":       "mathematics",
	"mathematics": "mathematics",
	"bio":         "biology",
	"chem":        "chemistry",
}

// subjectCategories expande una categoria a las materias que la componen.
// "science" cubre fisica, quimica y biologia.
var subjectCategories = map[string][]string{
	"science": {"physics", "chemistry", "biology"},
}

// canonicalSubject baja a minusculas, recorta y resuelve sinonimos.
func canonicalSubject(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if canon, ok := subjectSynonyms[s]; ok {
		return canon
	}
	return s
}

// subjectSatisfies indica si una materia ofrecida cubre una pedida,
// despues de normalizar y expandir categorias en ambas direcciones.
func subjectSatisfies(requested, offered string) bool {
	if requested == "" || offered == "" {
		return false
	}
	if requested == offered {
		return true
	}
	// Tutor ofrece la categoria que contiene lo pedido ("Science" cubre "Physics").
	for _, member := range subjectCategories[offered] {
		if member == requested {
			return true
		}
	}
	// Learner pide la categoria y el tutor ofrece un miembro.
	for _, member := range subjectCategories[requested] {
		if member == offered {
			return true
		}
	}
	return false
}

/*
========================
 Scorer
========================
*/

// SubjectScorer calcula el solapamiento de materias learner-tutor. Funcion pura.
type SubjectScorer struct{}

// Score devuelve la proporcion de materias pedidas que algun tutor cubre (0..1)
// y una explicacion que nombra las materias que coinciden.
func (SubjectScorer) Score(requested, offered []string) (float64, string) {
	if len(requested) == 0 {
		return 0, "No subjects requested."
	}
	if len(offered) == 0 {
		return 0, "No subject overlap: tutor lists no subjects."
	}

	offeredCanon := make([]string, 0, len(offered))
	for _, s := range offered {
		if canon := canonicalSubject(s); canon != "" {
			offeredCanon = append(offeredCanon, canon)
		}
	}

	var matched, missing []string
	seen := make(map[string]bool)
	total := 0
	for _, raw := range requested {
		canon := canonicalSubject(raw)
		if canon == "" || seen[canon] {
			continue
		}
		seen[canon] = true
		total++

		satisfied := false
		for _, off := range offeredCanon {
			if subjectSatisfies(canon, off) {
				satisfied = true
				break
			}
		}
		if satisfied {
			matched = append(matched, strings.TrimSpace(raw))
		} else {
			missing = append(missing, strings.TrimSpace(raw))
		}
	}

	if total == 0 {
		return 0, "No subjects requested."
	}

	ratio := float64(len(matched)) / float64(total)
	return ratio, subjectExplanation(ratio, matched, missing)
}

func subjectExplanation(ratio float64, matched, missing []string) string {
	switch {
	case ratio >= 1:
		return fmt.Sprintf("Full subject match: %s.", strings.Join(matched, ", "))
	case ratio > 0:
		return fmt.Sprintf("Partial subject match: %s covered; %s not covered.",
			strings.Join(matched, ", "), strings.Join(missing, ", "))
	default:
		return "No subject overlap with this tutor."
	}
}
