package quiz

import (
	"testing"

	"github.com/revisely/backend/internal/generator"
	"github.com/revisely/backend/internal/models"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestNormalize_CompleteCandidate(t *testing.T) {
	raw := generator.RawQuestion{
		ID:              intPtr(7),
		QuestionType:    strPtr("mcq"),
		Text:            "What gas do plants release during photosynthesis?",
		OptionMap:       map[string]string{"A": "Oxygen", "B": "Carbon dioxide", "C": "Nitrogen", "D": "Methane"},
		CorrectAnswer:   strPtr("a"),
		Explanation:     strPtr("Oxygen is a byproduct of the light reactions."),
		BloomTaxonomy:   strPtr("Understand"),
		DifficultyLevel: strPtr("Basic"),
		SetNumber:       intPtr(3),
	}

	q := Normalize(raw, 0, 80)

	if q.ID != 7 {
		t.Errorf("ID = %d, want 7", q.ID)
	}
	if q.QuestionType != models.TypeMCQ {
		t.Errorf("QuestionType = %q, want mcq", q.QuestionType)
	}
	if q.CorrectAnswer != "A" {
		t.Errorf("CorrectAnswer = %q, want uppercased A", q.CorrectAnswer)
	}
	if q.DifficultyLevel != models.DifficultyBasic {
		t.Errorf("DifficultyLevel = %q, want Basic", q.DifficultyLevel)
	}
	if q.SetNumber != 3 {
		t.Errorf("SetNumber = %d, want 3", q.SetNumber)
	}
	if len(q.Options) != 4 || q.Options["A"] != "Oxygen" {
		t.Errorf("Options not carried over: %v", q.Options)
	}
}

func TestNormalize_EmptyCandidateFallbacks(t *testing.T) {
	q := Normalize(generator.RawQuestion{Text: "Sparse question"}, 4, 80)

	if q.ID != 5 {
		t.Errorf("ID fallback = %d, want index+1 = 5", q.ID)
	}
	if q.QuestionType != models.TypeMCQ {
		t.Errorf("QuestionType fallback = %q, want mcq", q.QuestionType)
	}
	if q.CorrectAnswer != "A" {
		t.Errorf("CorrectAnswer fallback = %q, want A", q.CorrectAnswer)
	}
	if q.Explanation != "Explanation not provided" {
		t.Errorf("Explanation fallback = %q", q.Explanation)
	}
	if q.BloomTaxonomy != "Application" {
		t.Errorf("BloomTaxonomy fallback = %q", q.BloomTaxonomy)
	}
	if q.DifficultyLevel != models.DifficultyModerate {
		t.Errorf("DifficultyLevel fallback = %q", q.DifficultyLevel)
	}
	if len(q.Options) != 2 {
		t.Errorf("Options placeholder should have 2 entries, got %v", q.Options)
	}
}

func TestNormalize_ListOptionsPrefixStripping(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want map[string]string
	}{
		{
			name: "dot prefixes",
			in:   []string{"A. Heart", "B. Lung", "C. Liver"},
			want: map[string]string{"A": "Heart", "B": "Lung", "C": "Liver"},
		},
		{
			name: "paren prefixes",
			in:   []string{"A) Mitochondria", "B) Nucleus"},
			want: map[string]string{"A": "Mitochondria", "B": "Nucleus"},
		},
		{
			name: "wrapped paren prefixes",
			in:   []string{"(A) Xylem", "(B) Phloem"},
			want: map[string]string{"A": "Xylem", "B": "Phloem"},
		},
		{
			name: "no prefixes",
			in:   []string{"Red", "Green"},
			want: map[string]string{"A": "Red", "B": "Green"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := Normalize(generator.RawQuestion{Text: "x", OptionList: tc.in}, 0, 80)
			if len(q.Options) != len(tc.want) {
				t.Fatalf("got %d options, want %d: %v", len(q.Options), len(tc.want), q.Options)
			}
			for letter, text := range tc.want {
				if q.Options[letter] != text {
					t.Errorf("option %s = %q, want %q", letter, q.Options[letter], text)
				}
			}
		})
	}
}

func TestNormalize_TrueFalseDefaultOptions(t *testing.T) {
	raw := generator.RawQuestion{Text: "The heart has four chambers.", QuestionType: strPtr("true-false")}
	q := Normalize(raw, 0, 80)

	if q.Options["A"] != "True" || q.Options["B"] != "False" {
		t.Errorf("true-false should default to True/False pair, got %v", q.Options)
	}
}

func TestNormalize_InvalidEnumFallsBack(t *testing.T) {
	raw := generator.RawQuestion{
		Text:            "x",
		QuestionType:    strPtr("essay"),
		DifficultyLevel: strPtr("impossible"),
	}
	q := Normalize(raw, 0, 80)

	if q.QuestionType != models.TypeMCQ {
		t.Errorf("unknown type should fall back to mcq, got %q", q.QuestionType)
	}
	if q.DifficultyLevel != models.DifficultyModerate {
		t.Errorf("unknown difficulty should fall back to Moderate, got %q", q.DifficultyLevel)
	}
}

func TestNormalize_DifficultyCasing(t *testing.T) {
	q := Normalize(generator.RawQuestion{Text: "x", DifficultyLevel: strPtr("challenging")}, 0, 80)
	if q.DifficultyLevel != models.DifficultyChallenging {
		t.Errorf("lowercase difficulty should canonicalize, got %q", q.DifficultyLevel)
	}
}

func TestNormalize_SetNumberFallbackByPosition(t *testing.T) {
	// 80 candidates spread over 8 sets: 10 per set.
	cases := []struct {
		index int
		want  int
	}{
		{0, 1},
		{9, 1},
		{10, 2},
		{39, 4},
		{79, 8},
	}
	for _, tc := range cases {
		q := Normalize(generator.RawQuestion{Text: "x"}, tc.index, 80)
		if q.SetNumber != tc.want {
			t.Errorf("index %d of 80: SetNumber = %d, want %d", tc.index, q.SetNumber, tc.want)
		}
	}
}

func TestNormalize_SetNumberOutOfRangeTagClamped(t *testing.T) {
	for _, tagged := range []int{0, -2, 9, 100} {
		q := Normalize(generator.RawQuestion{Text: "x", SetNumber: intPtr(tagged)}, 75, 80)
		// Out-of-range tags are ignored in favor of the positional fallback.
		if q.SetNumber < 1 || q.SetNumber > models.NumSets {
			t.Errorf("tag %d: SetNumber %d out of range", tagged, q.SetNumber)
		}
		if q.SetNumber != 8 {
			t.Errorf("tag %d at index 75 of 80: SetNumber = %d, want positional 8", tagged, q.SetNumber)
		}
	}
}

func TestNormalizeBatch_DuplicateIDsReassigned(t *testing.T) {
	// A generator that restarts numbering midway through the batch.
	raws := []generator.RawQuestion{
		{ID: intPtr(1), Text: "first"},
		{ID: intPtr(2), Text: "second"},
		{ID: intPtr(1), Text: "third"},
		{ID: intPtr(2), Text: "fourth"},
	}

	qs := NormalizeBatch(raws)

	seen := map[int]bool{}
	for _, q := range qs {
		if seen[q.ID] {
			t.Fatalf("duplicate id %d in normalized batch", q.ID)
		}
		seen[q.ID] = true
	}
	if qs[0].ID != 1 || qs[1].ID != 2 {
		t.Errorf("first occurrences should keep their ids, got %d and %d", qs[0].ID, qs[1].ID)
	}
	if qs[2].ID != 3 {
		t.Errorf("repeated id should fall back to position, got %d", qs[2].ID)
	}
}

func TestNormalizeBatch_PositionalFallbackCollision(t *testing.T) {
	// The positional fallback (index+1) is itself already taken.
	raws := []generator.RawQuestion{
		{ID: intPtr(2), Text: "first"},
		{ID: intPtr(2), Text: "second"},
	}

	qs := NormalizeBatch(raws)
	if qs[0].ID == qs[1].ID {
		t.Fatalf("ids must be unique within a batch, both %d", qs[0].ID)
	}
}

func TestNormalize_SetNumberOverflowClamped(t *testing.T) {
	// Index beyond the nominal total still lands in set 8.
	q := Normalize(generator.RawQuestion{Text: "x"}, 95, 80)
	if q.SetNumber != models.NumSets {
		t.Errorf("overflow index: SetNumber = %d, want %d", q.SetNumber, models.NumSets)
	}
}
