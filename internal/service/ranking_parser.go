package service

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"tutor-match/internal/domain"
)

// RankingParser centraliza la limpieza y parseo de la respuesta de ranking del LLM.
type RankingParser struct{}

// ParseRanking intenta parsear la respuesta del LLM como un AIRanking valido.
// El modelo suele envolver el JSON en fences o agregar texto alrededor; se
// intenta primero el objeto extraido, despues el texto limpio y por ultimo el crudo.
func (RankingParser) ParseRanking(raw string) (domain.AIRanking, error) {
	cleaned := CleanRankingResponse(raw)

	candidates := []string{}
	if obj := extractFirstJSONObject(cleaned); obj != "" {
		candidates = append(candidates, obj)
	}
	if obj := extractFirstJSONObject(raw); obj != "" {
		candidates = append(candidates, obj)
	}
	candidates = append(candidates, cleaned, raw)

	for _, candidate := range candidates {
		ranking, ok := tryUnmarshalRanking(candidate)
		if ok {
			return ranking, nil
		}
	}

	return domain.AIRanking{}, fmt.Errorf("could not parse ranking response")
}

func tryUnmarshalRanking(candidate string) (domain.AIRanking, bool) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return domain.AIRanking{}, false
	}

	var ranking domain.AIRanking
	if err := json.Unmarshal([]byte(candidate), &ranking); err != nil {
		return domain.AIRanking{}, false
	}
	if len(ranking.Matches) == 0 {
		return domain.AIRanking{}, false
	}
	for _, m := range ranking.Matches {
		if strings.TrimSpace(m.TutorID) == "" {
			return domain.AIRanking{}, false
		}
	}
	return ranking, true
}

// CleanRankingResponse quita fences ```json ... ``` y BOM, dejando el contenido usable.
func CleanRankingResponse(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	s = strings.TrimPrefix(s, "\uFEFF")

	reStart := regexp.MustCompile("(?is)^\\s*```(?:json)?\\s*")
	reEnd := regexp.MustCompile("(?is)\\s*```\\s*$")
	s = reStart.ReplaceAllString(s, "")
	s = reEnd.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func extractFirstJSONObject(input string) string {
	start := strings.IndexByte(input, '{')
	if start == -1 {
		return ""
	}

	inString := false
	escape := false
	depth := 0

	for i := start; i < len(input); i++ {
		ch := input[i]

		if inString {
			if escape {
				escape = false
				continue
			}
			if ch == '\\' {
				escape = true
				continue
			}
			if ch == '"' {
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
			if depth < 0 {
				return ""
			}
		}
	}

	return ""
}
