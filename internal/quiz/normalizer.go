package quiz

import (
	"math"
	"strings"

	"github.com/revisely/backend/internal/generator"
	"github.com/revisely/backend/internal/models"
)

// Fallback values for fields the generator omitted. The correct-answer
// fallback is documented legacy behavior: when the model drops the
// answer key we do NOT try to infer it from content, we default to "A".
const (
	fallbackExplanation = "Explanation not provided"
	fallbackBloom       = "Application"
	fallbackDifficulty  = models.DifficultyModerate
	fallbackAnswer      = "A"
)

var optionLetters = []string{"A", "B", "C", "D", "E", "F", "G", "H"}

// Normalize coerces one raw candidate into a Question that satisfies
// every data-model invariant. It never fails: every missing or
// misshapen field is filled from a fallback. index is the candidate's
// 0-based position in the batch and total the batch size; both feed the
// set-number fallback.
func Normalize(raw generator.RawQuestion, index, total int) models.Question {
	q := models.Question{
		ID:              index + 1,
		QuestionType:    models.TypeMCQ,
		Text:            strings.TrimSpace(raw.Text),
		CorrectAnswer:   fallbackAnswer,
		Explanation:     fallbackExplanation,
		BloomTaxonomy:   fallbackBloom,
		DifficultyLevel: fallbackDifficulty,
	}

	if raw.ID != nil && *raw.ID > 0 {
		q.ID = *raw.ID
	}
	if raw.QuestionType != nil {
		if t := models.QuestionType(strings.ToLower(strings.TrimSpace(*raw.QuestionType))); models.ValidQuestionTypes[t] {
			q.QuestionType = t
		}
	}
	if raw.CorrectAnswer != nil {
		q.CorrectAnswer = strings.ToUpper(strings.TrimSpace(*raw.CorrectAnswer))
	}
	if raw.Explanation != nil {
		q.Explanation = *raw.Explanation
	}
	if raw.BloomTaxonomy != nil {
		q.BloomTaxonomy = *raw.BloomTaxonomy
	}
	if raw.DifficultyLevel != nil {
		if d := models.DifficultyLevel(normalizeDifficulty(*raw.DifficultyLevel)); models.ValidDifficultyLevels[d] {
			q.DifficultyLevel = d
		}
	}
	if raw.DiagramInstruction != nil {
		q.DiagramInstruction = *raw.DiagramInstruction
	}

	q.Options = normalizeOptions(raw, q.QuestionType)
	q.SetNumber = normalizeSetNumber(raw.SetNumber, index, total)

	return q
}

// NormalizeBatch runs Normalize over a whole candidate batch and
// enforces id uniqueness across it. Generators sometimes restart
// numbering partway through a batch; a repeated id falls back to the
// candidate's position, then to the next free id.
func NormalizeBatch(raws []generator.RawQuestion) []models.Question {
	questions := make([]models.Question, len(raws))
	seen := make(map[int]bool, len(raws))
	for i, raw := range raws {
		q := Normalize(raw, i, len(raws))
		if seen[q.ID] {
			q.ID = i + 1
		}
		for seen[q.ID] {
			q.ID++
		}
		seen[q.ID] = true
		questions[i] = q
	}
	return questions
}

// normalizeOptions produces a non-empty letter-keyed option map from
// whatever shape the candidate carried.
func normalizeOptions(raw generator.RawQuestion, qtype models.QuestionType) map[string]string {
	if len(raw.OptionMap) > 0 {
		options := make(map[string]string, len(raw.OptionMap))
		for letter, text := range raw.OptionMap {
			options[strings.ToUpper(strings.TrimSpace(letter))] = strings.TrimSpace(text)
		}
		if len(options) > 0 {
			return options
		}
	}

	if len(raw.OptionList) > 0 {
		options := make(map[string]string, len(raw.OptionList))
		for i, text := range raw.OptionList {
			if i >= len(optionLetters) {
				break
			}
			options[optionLetters[i]] = stripLetterPrefix(strings.TrimSpace(text))
		}
		if len(options) > 0 {
			return options
		}
	}

	// True-false with no usable options gets the canonical pair.
	if qtype == models.TypeTrueFalse {
		return map[string]string{"A": "True", "B": "False"}
	}

	// Degenerate fallback: the invariant is "options non-empty", so an
	// optionless candidate still gets a two-entry placeholder.
	return map[string]string{"A": "True", "B": "False"}
}

// stripLetterPrefix removes "A. ", "A) ", "(A) " style prefixes from
// list-shaped option text; the letter becomes the map key instead.
func stripLetterPrefix(text string) string {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "(") && len(trimmed) > 3 && trimmed[2] == ')' && isOptionLetter(trimmed[1]) {
		return strings.TrimSpace(trimmed[3:])
	}
	if len(trimmed) > 2 && isOptionLetter(trimmed[0]) && (trimmed[1] == '.' || trimmed[1] == ')' || trimmed[1] == ':') {
		return strings.TrimSpace(trimmed[2:])
	}
	return trimmed
}

func isOptionLetter(c byte) bool {
	return c >= 'A' && c <= 'H'
}

// normalizeSetNumber distributes untagged candidates evenly across the
// 8 sets by batch position: floor(index / (total/8)) + 1, clamped.
func normalizeSetNumber(tagged *int, index, total int) int {
	if tagged != nil && *tagged >= 1 && *tagged <= models.NumSets {
		return *tagged
	}

	if total < 1 {
		total = 1
	}
	perSet := float64(total) / float64(models.NumSets)
	set := int(math.Floor(float64(index)/perSet)) + 1
	if set < 1 {
		set = 1
	}
	if set > models.NumSets {
		set = models.NumSets
	}
	return set
}

// normalizeDifficulty maps loose difficulty spellings to canonical
// enum casing ("basic" → "Basic", "MODERATE" → "Moderate").
func normalizeDifficulty(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
