package generator

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// RawQuestion is the tagged intermediate representation of one
// candidate record as the model emitted it. Nothing here is trusted:
// pointer fields are nil when the model omitted them, and options may
// arrive as either a letter-keyed object or a plain list. The quiz
// normalizer is the only consumer and fills every gap.
type RawQuestion struct {
	ID                 *int
	QuestionType       *string
	Text               string
	OptionMap          map[string]string
	OptionList         []string
	CorrectAnswer      *string
	Explanation        *string
	BloomTaxonomy      *string
	DifficultyLevel    *string
	SetNumber          *int
	DiagramInstruction *string
}

// ParseCandidates extracts candidate records from a raw model response.
// It fails only at the envelope level (unparseable JSON, no question
// array, zero candidates); individual malformed candidates are carried
// through as-is for the normalizer to repair.
func ParseCandidates(responseBody string) ([]RawQuestion, error) {
	cleaned := stripCodeFences(responseBody)

	if !gjson.Valid(cleaned) {
		return nil, fmt.Errorf("generator response is not valid JSON")
	}

	root := gjson.Parse(cleaned)
	arr := root
	if root.IsObject() {
		arr = root.Get("questions")
	}
	if !arr.IsArray() {
		return nil, fmt.Errorf("generator response has no questions array")
	}

	var candidates []RawQuestion
	arr.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			return true
		}
		candidates = append(candidates, parseCandidate(item))
		return true
	})

	if len(candidates) == 0 {
		return nil, fmt.Errorf("generator returned zero candidates")
	}
	return candidates, nil
}

func parseCandidate(item gjson.Result) RawQuestion {
	raw := RawQuestion{
		Text:               firstString(item, "question", "question_text", "text"),
		QuestionType:       optString(item, "question_type", "type"),
		CorrectAnswer:      optString(item, "correct_answer", "answer", "correct_option"),
		Explanation:        optString(item, "explanation"),
		BloomTaxonomy:      optString(item, "bloom_taxonomy", "bloom_level"),
		DifficultyLevel:    optString(item, "difficulty_level", "difficulty"),
		DiagramInstruction: optString(item, "diagram_instruction"),
		ID:                 optInt(item, "id"),
		SetNumber:          optInt(item, "set_number"),
	}

	opts := item.Get("options")
	switch {
	case opts.IsObject():
		raw.OptionMap = make(map[string]string)
		opts.ForEach(func(key, value gjson.Result) bool {
			raw.OptionMap[key.String()] = value.String()
			return true
		})
	case opts.IsArray():
		opts.ForEach(func(_, value gjson.Result) bool {
			raw.OptionList = append(raw.OptionList, value.String())
			return true
		})
	}

	return raw
}

func firstString(item gjson.Result, keys ...string) string {
	for _, key := range keys {
		if r := item.Get(key); r.Exists() && r.Type == gjson.String {
			return r.String()
		}
	}
	return ""
}

func optString(item gjson.Result, keys ...string) *string {
	for _, key := range keys {
		if r := item.Get(key); r.Exists() && r.Type == gjson.String && r.String() != "" {
			s := r.String()
			return &s
		}
	}
	return nil
}

func optInt(item gjson.Result, keys ...string) *int {
	for _, key := range keys {
		if r := item.Get(key); r.Exists() && r.Type == gjson.Number {
			n := int(r.Int())
			return &n
		}
	}
	return nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```json"))
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```"))
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}
