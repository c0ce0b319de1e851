package models

import "time"

type QuestionType string

const (
	TypeMCQ                QuestionType = "mcq"
	TypeTrueFalse          QuestionType = "true-false"
	TypeAssertionReasoning QuestionType = "assertion-reasoning"
	TypeFillInBlank        QuestionType = "fill-in-blank"
)

var ValidQuestionTypes = map[QuestionType]bool{
	TypeMCQ:                true,
	TypeTrueFalse:          true,
	TypeAssertionReasoning: true,
	TypeFillInBlank:        true,
}

type DifficultyLevel string

const (
	DifficultyBasic       DifficultyLevel = "Basic"
	DifficultyModerate    DifficultyLevel = "Moderate"
	DifficultyChallenging DifficultyLevel = "Challenging"
	DifficultyAdvanced    DifficultyLevel = "Advanced"
)

var ValidDifficultyLevels = map[DifficultyLevel]bool{
	DifficultyBasic:       true,
	DifficultyModerate:    true,
	DifficultyChallenging: true,
	DifficultyAdvanced:    true,
}

var ValidBloomLevels = map[string]bool{
	"Remember":    true,
	"Understand":  true,
	"Apply":       true,
	"Application": true,
	"Analyze":     true,
	"Evaluate":    true,
	"Create":      true,
}

// NumSets is the number of question sets per bank, one per review date
// on the 180-day curve. Fixed at the type level so a bank can never hold
// a partial schedule's worth of sets.
const NumSets = 8

// Question is the fully-normalized internal representation. Every
// instance that leaves the normalizer satisfies: non-empty options,
// valid difficulty and bloom strings, set number in [1, NumSets].
type Question struct {
	ID                 int               `json:"id"`
	QuestionType       QuestionType      `json:"question_type"`
	Text               string            `json:"question"`
	Options            map[string]string `json:"options"`
	CorrectAnswer      string            `json:"correct_answer"`
	Explanation        string            `json:"explanation"`
	BloomTaxonomy      string            `json:"bloom_taxonomy"`
	DifficultyLevel    DifficultyLevel   `json:"difficulty_level"`
	SetNumber          int               `json:"set_number"`
	DiagramInstruction string            `json:"diagram_instruction,omitempty"`
	DiagramURL         string            `json:"diagram_url,omitempty"`
}

type QuestionSet []Question

// QuestionBank is the shared pool of generated questions for one request
// signature, partitioned into NumSets ordered sets. Banks are created
// once per unique signature and read-shared across every later topic
// with the same signature.
type QuestionBank struct {
	ID        int64                `json:"id"`
	Signature BankSignature        `json:"signature"`
	Sets      [NumSets]QuestionSet `json:"sets"`
	CreatedAt time.Time            `json:"created_at"`
}

// Complete reports whether every set is present and non-empty. Only
// complete banks are eligible for reuse.
func (b *QuestionBank) Complete() bool {
	for _, set := range b.Sets {
		if len(set) == 0 {
			return false
		}
	}
	return true
}

// Set returns the questions for a 1-based set number.
func (b *QuestionBank) Set(setNumber int) QuestionSet {
	if setNumber < 1 || setNumber > NumSets {
		return nil
	}
	return b.Sets[setNumber-1]
}

// TotalQuestions counts questions across all sets.
func (b *QuestionBank) TotalQuestions() int {
	n := 0
	for _, set := range b.Sets {
		n += len(set)
	}
	return n
}
