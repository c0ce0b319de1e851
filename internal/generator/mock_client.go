package generator

import (
	"context"
	"fmt"

	"github.com/tidwall/sjson"
)

// MockClient serves canned candidates for local development. The
// payload deliberately mixes record shapes (options as lists and as
// letter maps, fields missing here and there) so the mock exercises
// the same normalization paths real model output does.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

const mockCandidateCount = 96

func (m *MockClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	return &LLMResponse{
		Content:      buildMockJSON(),
		PromptTokens: 1200,
		OutputTokens: 9000,
	}, nil
}

func buildMockJSON() string {
	letters := []string{"A", "B", "C", "D"}
	difficulties := []string{"Basic", "Moderate", "Challenging", "Advanced"}
	blooms := []string{"Remember", "Understand", "Apply", "Analyze"}
	concepts := []string{
		"photosynthesis", "cell respiration", "osmosis",
		"transpiration", "chlorophyll", "stomata",
	}

	payload := `{"questions":[]}`

	for i := 0; i < mockCandidateCount; i++ {
		concept := concepts[i%len(concepts)]
		correct := letters[i%len(letters)]

		q := `{}`
		q, _ = sjson.Set(q, "question",
			fmt.Sprintf("[Mock %d] Which statement about %s is correct?", i+1, concept))
		q, _ = sjson.Set(q, "explanation",
			fmt.Sprintf("[Mock] Option %s is correct because it describes how %s actually works.", correct, concept))
		q, _ = sjson.Set(q, "difficulty_level", difficulties[(i/24)%len(difficulties)])
		q, _ = sjson.Set(q, "bloom_taxonomy", blooms[i%len(blooms)])
		q, _ = sjson.Set(q, "set_number", i%8+1)

		// Every third candidate uses list-shaped options with letter
		// prefixes baked into the text, the way weaker models emit them.
		if i%3 == 0 {
			var opts []string
			for j, letter := range letters {
				opts = append(opts, fmt.Sprintf("%s. Statement %d about %s", letter, j+1, concept))
			}
			q, _ = sjson.Set(q, "options", opts)
		} else {
			for j, letter := range letters {
				q, _ = sjson.Set(q, "options."+letter,
					fmt.Sprintf("Statement %d about %s", j+1, concept))
			}
		}

		// Occasionally drop fields so the normalizer's fallbacks stay exercised.
		if i%11 != 0 {
			q, _ = sjson.Set(q, "correct_answer", correct)
		}
		if i%13 != 0 {
			q, _ = sjson.Set(q, "question_type", "mcq")
		}
		if i%17 == 0 {
			q, _ = sjson.Set(q, "diagram_instruction",
				fmt.Sprintf("Draw a labeled diagram of %s", concept))
		}

		payload, _ = sjson.SetRaw(payload, "questions.-1", q)
	}

	return payload
}
