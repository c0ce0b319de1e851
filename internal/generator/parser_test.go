package generator

import (
	"testing"
)

func TestParseCandidates_LetterMapOptions(t *testing.T) {
	input := `{"questions":[{
		"id": 3,
		"question_type": "mcq",
		"question": "What gas do plants absorb during photosynthesis?",
		"options": {"A": "Oxygen", "B": "Carbon dioxide", "C": "Nitrogen", "D": "Hydrogen"},
		"correct_answer": "B",
		"explanation": "Plants fix carbon from atmospheric CO2.",
		"bloom_taxonomy": "Remember",
		"difficulty_level": "Basic",
		"set_number": 2
	}]}`

	candidates, err := ParseCandidates(input)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}

	c := candidates[0]
	if c.ID == nil || *c.ID != 3 {
		t.Errorf("expected id 3, got %v", c.ID)
	}
	if len(c.OptionMap) != 4 {
		t.Errorf("expected 4 map options, got %d", len(c.OptionMap))
	}
	if c.OptionList != nil {
		t.Error("expected no list options for map-shaped input")
	}
	if c.OptionMap["B"] != "Carbon dioxide" {
		t.Errorf("option B = %q, want 'Carbon dioxide'", c.OptionMap["B"])
	}
	if c.CorrectAnswer == nil || *c.CorrectAnswer != "B" {
		t.Errorf("expected correct answer B, got %v", c.CorrectAnswer)
	}
	if c.SetNumber == nil || *c.SetNumber != 2 {
		t.Errorf("expected set number 2, got %v", c.SetNumber)
	}
}

func TestParseCandidates_ListOptions(t *testing.T) {
	input := `{"questions":[{
		"question": "Which organ pumps blood?",
		"options": ["A. Heart", "B. Lung", "C. Liver", "D. Kidney"],
		"correct_answer": "A"
	}]}`

	candidates, err := ParseCandidates(input)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	c := candidates[0]
	if c.OptionMap != nil {
		t.Error("expected no map options for list-shaped input")
	}
	if len(c.OptionList) != 4 {
		t.Fatalf("expected 4 list options, got %d", len(c.OptionList))
	}
	if c.OptionList[0] != "A. Heart" {
		t.Errorf("list option 0 = %q, want raw 'A. Heart' (prefix stripping is the normalizer's job)", c.OptionList[0])
	}
}

func TestParseCandidates_MissingFields(t *testing.T) {
	input := `{"questions":[{"question": "A bare question with nothing else"}]}`

	candidates, err := ParseCandidates(input)
	if err != nil {
		t.Fatalf("expected no error for sparse candidate, got: %v", err)
	}

	c := candidates[0]
	if c.ID != nil || c.QuestionType != nil || c.CorrectAnswer != nil ||
		c.Explanation != nil || c.DifficultyLevel != nil || c.SetNumber != nil {
		t.Error("expected all optional fields to be nil for sparse candidate")
	}
	if c.Text != "A bare question with nothing else" {
		t.Errorf("unexpected text: %q", c.Text)
	}
}

func TestParseCandidates_AlternateKeys(t *testing.T) {
	input := `{"questions":[{
		"text": "Alternate key shapes",
		"type": "true-false",
		"answer": "A",
		"difficulty": "Challenging",
		"bloom_level": "Analyze"
	}]}`

	candidates, err := ParseCandidates(input)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	c := candidates[0]
	if c.Text != "Alternate key shapes" {
		t.Errorf("text not picked up from 'text' key: %q", c.Text)
	}
	if c.QuestionType == nil || *c.QuestionType != "true-false" {
		t.Errorf("type not picked up from 'type' key: %v", c.QuestionType)
	}
	if c.CorrectAnswer == nil || *c.CorrectAnswer != "A" {
		t.Errorf("answer not picked up from 'answer' key: %v", c.CorrectAnswer)
	}
	if c.DifficultyLevel == nil || *c.DifficultyLevel != "Challenging" {
		t.Errorf("difficulty not picked up from 'difficulty' key: %v", c.DifficultyLevel)
	}
}

func TestParseCandidates_TopLevelArray(t *testing.T) {
	input := `[{"question": "q1"}, {"question": "q2"}]`

	candidates, err := ParseCandidates(input)
	if err != nil {
		t.Fatalf("expected no error for top-level array, got: %v", err)
	}
	if len(candidates) != 2 {
		t.Errorf("expected 2 candidates, got %d", len(candidates))
	}
}

func TestParseCandidates_MarkdownFences(t *testing.T) {
	input := "```json\n{\"questions\":[{\"question\": \"fenced\"}]}\n```"

	candidates, err := ParseCandidates(input)
	if err != nil {
		t.Fatalf("expected no error with markdown fences, got: %v", err)
	}
	if len(candidates) != 1 {
		t.Errorf("expected 1 candidate, got %d", len(candidates))
	}
}

func TestParseCandidates_MalformedJSON(t *testing.T) {
	if _, err := ParseCandidates("this is not json at all"); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestParseCandidates_NoQuestionsArray(t *testing.T) {
	if _, err := ParseCandidates(`{"result": "ok"}`); err == nil {
		t.Fatal("expected error when questions array is absent")
	}
}

func TestParseCandidates_EmptyArray(t *testing.T) {
	if _, err := ParseCandidates(`{"questions":[]}`); err == nil {
		t.Fatal("expected error for zero candidates")
	}
}

func TestParseCandidates_MockPayload(t *testing.T) {
	candidates, err := ParseCandidates(buildMockJSON())
	if err != nil {
		t.Fatalf("mock payload should parse, got: %v", err)
	}
	if len(candidates) != mockCandidateCount {
		t.Errorf("expected %d mock candidates, got %d", mockCandidateCount, len(candidates))
	}

	sawList := false
	sawMap := false
	sawMissingAnswer := false
	for _, c := range candidates {
		if c.OptionList != nil {
			sawList = true
		}
		if c.OptionMap != nil {
			sawMap = true
		}
		if c.CorrectAnswer == nil {
			sawMissingAnswer = true
		}
	}
	if !sawList || !sawMap || !sawMissingAnswer {
		t.Errorf("mock payload should mix shapes: list=%v map=%v missingAnswer=%v",
			sawList, sawMap, sawMissingAnswer)
	}
}
