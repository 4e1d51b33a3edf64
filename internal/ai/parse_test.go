package ai

import (
	"testing"

	"github.com/google/uuid"
)

func TestParseUniqueness(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		text       string
		wantScore  int
		wantUnique bool
	}{
		{
			name:       "well_formed",
			text:       "Similarity: 72%\nUnique: no",
			wantScore:  72,
			wantUnique: false,
		},
		{
			name:       "unique_yes_mixed_case",
			text:       "similarity: 12%\nUNIQUE: YES",
			wantScore:  12,
			wantUnique: true,
		},
		{
			name:       "markers_buried_in_prose",
			text:       "After careful analysis, Similarity: 33% overall.\nI would say Unique: yes here.",
			wantScore:  33,
			wantUnique: true,
		},
		{
			name:       "missing_similarity_defaults_to_50",
			text:       "The idea seems fairly novel.\nUnique: yes",
			wantScore:  50,
			wantUnique: true,
		},
		{
			name:       "missing_unique_defaults_to_false",
			text:       "Similarity: 10%",
			wantScore:  10,
			wantUnique: false,
		},
		{
			name:       "empty_reply_uses_both_defaults",
			text:       "",
			wantScore:  50,
			wantUnique: false,
		},
		{
			name:       "whitespace_after_colon",
			text:       "Similarity:   5%\nUnique:  no",
			wantScore:  5,
			wantUnique: false,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ParseUniqueness(tc.text)
			if got.SimilarityScore != tc.wantScore {
				t.Fatalf("SimilarityScore=%d, want %d", got.SimilarityScore, tc.wantScore)
			}
			if got.IsUnique != tc.wantUnique {
				t.Fatalf("IsUnique=%v, want %v", got.IsUnique, tc.wantUnique)
			}
		})
	}
}

func TestParseRankingOmitsMissingCandidates(t *testing.T) {
	t.Parallel()

	candidates := []Candidate{
		{ID: uuid.New(), Title: "First"},
		{ID: uuid.New(), Title: "Second"},
		{ID: uuid.New(), Title: "Third"},
	}
	text := "[1]: 80%\n[3]: 40%"

	got := ParseRanking(text, candidates)
	if len(got) != 2 {
		t.Fatalf("len=%d, want 2", len(got))
	}
	if got[0].ID != candidates[0].ID || got[0].Similarity != 80 {
		t.Fatalf("first entry = %+v, want candidate 1 at 80", got[0])
	}
	if got[1].ID != candidates[2].ID || got[1].Similarity != 40 {
		t.Fatalf("second entry = %+v, want candidate 3 at 40", got[1])
	}
}

func TestParseRankingEmptyReply(t *testing.T) {
	t.Parallel()

	candidates := []Candidate{{ID: uuid.New(), Title: "Only"}}
	if got := ParseRanking("no percentages here", candidates); len(got) != 0 {
		t.Fatalf("len=%d, want 0", len(got))
	}
}

func TestParseRankingCaseInsensitiveAndSpaced(t *testing.T) {
	t.Parallel()

	candidates := []Candidate{{ID: uuid.New(), Title: "Only"}}
	got := ParseRanking("[1]:    95%", candidates)
	if len(got) != 1 || got[0].Similarity != 95 {
		t.Fatalf("got %+v, want one entry at 95", got)
	}
}
