package quiz

import (
	"github.com/revisely/backend/internal/models"
)

// MinQuestions is the floor for a served attempt. Smaller pools are
// served whole.
const MinQuestions = 15

// maxMistakeQuestions caps how many previously missed questions a
// reinforcement attempt replays.
const maxMistakeQuestions = 10

// Select picks the questions to serve for a pending set. pool is the
// set's full question list in stored order; history is the learner's
// prior attempts on the same subject and topic, oldest first. The mix
// adapts to the running average score:
//
//	no history or avg < 70   easier questions first
//	avg >= 90                hardest questions first
//	otherwise                replay recent mistakes, fill with Moderate
func Select(pool []models.Question, history []models.AttemptResult) []models.Question {
	if len(pool) <= MinQuestions {
		return pool
	}

	avg, hasHistory := averageScore(history)

	switch {
	case !hasHistory || avg < 70:
		return selectFoundational(pool)
	case avg >= 90:
		return selectMastery(pool)
	default:
		return selectReinforcement(pool, history)
	}
}

func averageScore(history []models.AttemptResult) (float64, bool) {
	if len(history) == 0 {
		return 0, false
	}
	sum := 0
	for _, attempt := range history {
		sum += attempt.Score
	}
	return float64(sum) / float64(len(history)), true
}

// selectFoundational fronts Basic and Moderate questions, then tops up
// from the rest of the pool.
func selectFoundational(pool []models.Question) []models.Question {
	selected := make([]models.Question, 0, MinQuestions)
	for _, q := range pool {
		if len(selected) == MinQuestions {
			return selected
		}
		if q.DifficultyLevel == models.DifficultyBasic || q.DifficultyLevel == models.DifficultyModerate {
			selected = append(selected, q)
		}
	}
	return topUp(selected, pool)
}

// selectMastery fronts the hardest questions, Advanced before
// Challenging.
func selectMastery(pool []models.Question) []models.Question {
	selected := make([]models.Question, 0, MinQuestions)
	for _, q := range pool {
		if len(selected) == MinQuestions {
			return selected
		}
		if q.DifficultyLevel == models.DifficultyAdvanced {
			selected = append(selected, q)
		}
	}
	for _, q := range pool {
		if len(selected) == MinQuestions {
			return selected
		}
		if q.DifficultyLevel == models.DifficultyChallenging {
			selected = append(selected, q)
		}
	}
	return topUp(selected, pool)
}

// selectReinforcement replays up to 10 questions the learner answered
// wrong in earlier attempts, then fills with Moderate questions from
// the pool. Skipped questions are not mistakes; only a recorded answer
// that disagrees with the key counts.
func selectReinforcement(pool []models.Question, history []models.AttemptResult) []models.Question {
	selected := make([]models.Question, 0, MinQuestions)
	seen := make(map[int]bool)

	for _, attempt := range history {
		for _, q := range attempt.Questions {
			if len(selected) == maxMistakeQuestions {
				break
			}
			if seen[q.ID] {
				continue
			}
			answer, answered := attempt.Answers[q.ID]
			if answered && answer != q.CorrectAnswer {
				selected = append(selected, q)
				seen[q.ID] = true
			}
		}
		if len(selected) == maxMistakeQuestions {
			break
		}
	}

	for _, q := range pool {
		if len(selected) == MinQuestions {
			return selected
		}
		if !seen[q.ID] && q.DifficultyLevel == models.DifficultyModerate {
			selected = append(selected, q)
			seen[q.ID] = true
		}
	}

	for _, q := range pool {
		if len(selected) == MinQuestions {
			return selected
		}
		if !seen[q.ID] {
			selected = append(selected, q)
			seen[q.ID] = true
		}
	}
	return selected
}

// topUp extends selected with unchosen pool questions, in pool order,
// until it reaches MinQuestions.
func topUp(selected []models.Question, pool []models.Question) []models.Question {
	if len(selected) >= MinQuestions {
		return selected
	}
	chosen := make(map[int]bool, len(selected))
	for _, q := range selected {
		chosen[q.ID] = true
	}
	for _, q := range pool {
		if len(selected) == MinQuestions {
			break
		}
		if !chosen[q.ID] {
			selected = append(selected, q)
			chosen[q.ID] = true
		}
	}
	return selected
}
