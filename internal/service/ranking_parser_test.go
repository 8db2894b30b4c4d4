package service

import "testing"

func TestParseRanking_CleanJSON(t *testing.T) {
	parser := RankingParser{}

	raw := `{"matches":[{"tutor_id":"t1","reasoning":"Strong cognitive fit.","subject_explanation":"Maths matches Mathematics."}]}`
	ranking, err := parser.ParseRanking(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranking.Matches) != 1 || ranking.Matches[0].TutorID != "t1" {
		t.Fatalf("unexpected ranking: %+v", ranking)
	}
}

func TestParseRanking_FencedAndNoisy(t *testing.T) {
	parser := RankingParser{}

	raw := "Here is the ranking:\n```json\n{\"matches\":[{\"tutor_id\":\"t2\",\"reasoning\":\"ok\"}]}\n```\nHope this helps!"
	ranking, err := parser.ParseRanking(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranking.Matches) != 1 || ranking.Matches[0].TutorID != "t2" {
		t.Fatalf("unexpected ranking: %+v", ranking)
	}
}

func TestParseRanking_Invalid(t *testing.T) {
	parser := RankingParser{}

	cases := []string{
		"",
		"no json here",
		`{"matches":[]}`,
		`{"matches":[{"tutor_id":"   "}]}`,
		`{"other":"shape"}`,
	}
	for _, raw := range cases {
		if _, err := parser.ParseRanking(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
