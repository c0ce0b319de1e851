package generator

import (
	"fmt"
	"strings"

	"github.com/revisely/backend/internal/models"
)

var typeRules = map[models.QuestionType]string{
	models.TypeMCQ: `
RULES (mcq):
- Exactly 4 options keyed "A" through "D"
- Exactly one option is correct; the other three must be plausible distractors
- Distractors should reflect common student misconceptions, not random facts`,

	models.TypeTrueFalse: `
RULES (true-false):
- Options must be exactly {"A": "True", "B": "False"}
- The statement must be unambiguously true or false at the stated grade level
- Avoid trivia; test a concept, not a memorized number`,

	models.TypeAssertionReasoning: `
RULES (assertion-reasoning):
- The question text contains an Assertion (A) and a Reason (R)
- Options are the standard four: both true and R explains A; both true but R
  does not explain A; A true R false; A false R true
- The relationship between A and R must require understanding, not recall`,

	models.TypeFillInBlank: `
RULES (fill-in-blank):
- The question text contains exactly one blank written as "_____"
- Options are 4 candidate fillings keyed "A" through "D"
- Only one filling makes the statement correct`,
}

// SystemPrompt is the fixed instruction block for question-bank
// generation. The JSON contract here is what the parser expects, but
// the normalizer tolerates deviations from it.
func SystemPrompt() string {
	return `You are an expert K-12 curriculum question writer. You write exam-quality
questions aligned to the requested board syllabus, grade level, and Bloom's
taxonomy levels.

OUTPUT FORMAT:
Respond with ONLY a JSON object, no prose, no markdown fences:
{
  "questions": [
    {
      "id": 1,
      "question_type": "mcq",
      "question": "...",
      "options": {"A": "...", "B": "...", "C": "...", "D": "..."},
      "correct_answer": "A",
      "explanation": "...",
      "bloom_taxonomy": "Apply",
      "difficulty_level": "Moderate",
      "set_number": 1,
      "diagram_instruction": "..."
    }
  ]
}

REQUIREMENTS:
- difficulty_level must be one of: Basic, Moderate, Challenging, Advanced
- set_number must be an integer from 1 to 8, assigned evenly across the batch
- explanation must teach the concept, not just restate the answer
- every question must be answerable from the topic alone, without the diagram
- omit diagram_instruction unless the question genuinely needs a figure`
}

// BuildBankPrompt asks for the full bank in one call, tagged with the
// spaced-repetition difficulty distribution: early review sets lean
// easy, later sets lean hard, so 60% of the raw material must be
// Challenging/Advanced.
func BuildBankPrompt(req models.LearningRequest, totalQuestions int) string {
	var b strings.Builder

	easyCount := totalQuestions * 20 / 100
	midCount := totalQuestions * 20 / 100
	hardCount := totalQuestions - easyCount - midCount

	fmt.Fprintf(&b, "Generate %d questions for the following topic.\n\n", totalQuestions)
	fmt.Fprintf(&b, "Subject: %s\n", req.Subject)
	if req.Chapter != "" {
		fmt.Fprintf(&b, "Chapter: %s\n", req.Chapter)
	}
	fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	fmt.Fprintf(&b, "Grade: %d\n", req.Grade)
	fmt.Fprintf(&b, "Board: %s\n", req.Board)

	if len(req.BloomLevels) > 0 {
		fmt.Fprintf(&b, "Bloom's taxonomy levels to cover: %s\n", strings.Join(req.BloomLevels, ", "))
	}

	fmt.Fprintf(&b, "\nDIFFICULTY DISTRIBUTION (target, not exact):\n")
	fmt.Fprintf(&b, "- %d questions: Basic to Moderate\n", easyCount)
	fmt.Fprintf(&b, "- %d questions: Moderate to Challenging\n", midCount)
	fmt.Fprintf(&b, "- %d questions: Challenging to Advanced\n", hardCount)

	types := req.QuestionTypes
	if len(types) == 0 {
		types = []string{string(models.TypeMCQ)}
	}
	fmt.Fprintf(&b, "\nQuestion types to use: %s\n", strings.Join(types, ", "))
	for _, t := range types {
		if rules, ok := typeRules[models.QuestionType(t)]; ok {
			b.WriteString(rules)
			b.WriteString("\n")
		}
	}

	if req.DiagramSupport {
		b.WriteString("\nFor questions that benefit from a figure, include a diagram_instruction\n")
		b.WriteString("field: a one-sentence drawing instruction for a diagram renderer.\n")
	}

	fmt.Fprintf(&b, "\nAssign set_number 1-8 evenly across all %d questions.\n", totalQuestions)
	b.WriteString("Respond with the JSON object only.")

	return b.String()
}
