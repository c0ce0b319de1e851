package models

import (
	"sort"
	"strings"
)

type Board string

const (
	BoardCBSE      Board = "CBSE"
	BoardICSE      Board = "ICSE"
	BoardState     Board = "State Board"
	BoardIB        Board = "IB"
	BoardCambridge Board = "Cambridge"
)

var ValidBoards = map[Board]bool{
	BoardCBSE:      true,
	BoardICSE:      true,
	BoardState:     true,
	BoardIB:        true,
	BoardCambridge: true,
}

// LearningRequest is a learner's submission to start a 180-day
// spaced-repetition cycle on a topic. Immutable once submitted.
type LearningRequest struct {
	Subject          string   `json:"subject"`
	Chapter          string   `json:"chapter"`
	Topic            string   `json:"topic"`
	Grade            int      `json:"grade"`
	Board            Board    `json:"board"`
	QuestionTypes    []string `json:"question_types"`
	BloomLevels      []string `json:"bloom_levels"`
	DifficultyLevels []string `json:"difficulty_levels"`
	QuestionCount    int      `json:"question_count"`
	DiagramSupport   bool     `json:"diagram_support"`
}

// BankSignature is the composite key used for cross-request bank
// deduplication. Matching is exact: a near-miss signature is a cache
// miss. Set-valued fields are stored sorted and comma-joined so that
// ordering and casing differences in the request cannot defeat a match.
type BankSignature struct {
	Subject          string `json:"subject"`
	Topic            string `json:"topic"`
	Grade            int    `json:"grade"`
	Board            string `json:"board"`
	QuestionTypes    string `json:"question_types"`
	DifficultyLevels string `json:"difficulty_levels"`
	QuestionCount    int    `json:"question_count"`
}

// NewBankSignature derives the canonical dedup key from a request.
func NewBankSignature(req LearningRequest) BankSignature {
	return BankSignature{
		Subject:          strings.ToLower(strings.TrimSpace(req.Subject)),
		Topic:            strings.ToLower(strings.TrimSpace(req.Topic)),
		Grade:            req.Grade,
		Board:            strings.ToLower(strings.TrimSpace(string(req.Board))),
		QuestionTypes:    canonicalSet(req.QuestionTypes),
		DifficultyLevels: canonicalSet(req.DifficultyLevels),
		QuestionCount:    req.QuestionCount,
	}
}

func canonicalSet(values []string) string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return strings.Join(out, ",")
}
