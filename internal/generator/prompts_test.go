package generator

import (
	"strings"
	"testing"

	"github.com/revisely/backend/internal/models"
)

func TestAllQuestionTypesHaveRules(t *testing.T) {
	for qt := range models.ValidQuestionTypes {
		if _, ok := typeRules[qt]; !ok {
			t.Errorf("question type %q has no prompt rules defined", qt)
		}
	}
}

func TestSystemPrompt(t *testing.T) {
	prompt := SystemPrompt()

	required := []string{"JSON", "questions", "difficulty_level", "set_number", "Basic", "Advanced", "1 to 8"}
	for _, keyword := range required {
		if !strings.Contains(prompt, keyword) {
			t.Errorf("system prompt missing keyword %q", keyword)
		}
	}
}

func TestBuildBankPrompt(t *testing.T) {
	req := models.LearningRequest{
		Subject:       "Biology",
		Chapter:       "Life Processes",
		Topic:         "Photosynthesis",
		Grade:         10,
		Board:         models.BoardCBSE,
		QuestionTypes: []string{"mcq", "true-false"},
		BloomLevels:   []string{"Understand", "Apply"},
	}

	prompt := BuildBankPrompt(req, 100)

	required := []string{"100", "Photosynthesis", "Biology", "Grade: 10", "CBSE", "mcq", "true-false", "Understand"}
	for _, keyword := range required {
		if !strings.Contains(prompt, keyword) {
			t.Errorf("bank prompt missing keyword %q", keyword)
		}
	}
}

func TestBuildBankPrompt_Distribution(t *testing.T) {
	req := models.LearningRequest{Subject: "Physics", Topic: "Optics", Grade: 9, Board: models.BoardICSE}
	prompt := BuildBankPrompt(req, 100)

	// 20 / 20 / 60 split of 100
	for _, line := range []string{
		"20 questions: Basic to Moderate",
		"20 questions: Moderate to Challenging",
		"60 questions: Challenging to Advanced",
	} {
		if !strings.Contains(prompt, line) {
			t.Errorf("bank prompt missing distribution line %q", line)
		}
	}
}

func TestBuildBankPrompt_DiagramSupport(t *testing.T) {
	req := models.LearningRequest{Subject: "Biology", Topic: "Cells", Grade: 8, Board: models.BoardCBSE}

	without := BuildBankPrompt(req, 80)
	if strings.Contains(without, "diagram_instruction") {
		t.Error("prompt should not ask for diagrams when diagram support is off")
	}

	req.DiagramSupport = true
	with := BuildBankPrompt(req, 80)
	if !strings.Contains(with, "diagram_instruction") {
		t.Error("prompt should ask for diagrams when diagram support is on")
	}
}
