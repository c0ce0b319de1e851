package models

import "time"

type TopicStatus string

const (
	TopicActive    TopicStatus = "active"
	TopicCompleted TopicStatus = "completed"
)

type EntryStatus string

const (
	EntryPending   EntryStatus = "pending"
	EntryCompleted EntryStatus = "completed"
)

// Topic is one learner's 180-day spaced-repetition instance of a
// learning request. It borrows a QuestionBank (the bank may be shared
// with other topics) and owns exactly NumSets schedule entries.
type Topic struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"user_id"`
	BankID      int64       `json:"bank_id"`
	Subject     string      `json:"subject"`
	Chapter     string      `json:"chapter"`
	Topic       string      `json:"topic"`
	Grade       int         `json:"grade"`
	Board       Board       `json:"board"`
	Status      TopicStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
}

// ScheduleEntry is one dated, gradable attempt slot bound to one
// question set by set number. Created once at topic creation, mutated
// only by the completion handler, never deleted.
type ScheduleEntry struct {
	ID            int64          `json:"id"`
	TopicID       int64          `json:"topic_id"`
	SetNumber     int            `json:"set_number"`
	ScheduledDate time.Time      `json:"scheduled_date"`
	Status        EntryStatus    `json:"status"`
	CompletedDate *time.Time     `json:"completed_date,omitempty"`
	Score         *int           `json:"score,omitempty"`
	UserAnswers   map[int]string `json:"user_answers,omitempty"`
}

// AttemptResult is one completed attempt from a topic lineage's
// performance history, resolved against the questions that were served,
// so wrong answers can be mapped back to concrete questions.
type AttemptResult struct {
	Score     int
	Answers   map[int]string
	Questions []Question
}

// AttemptRecord is a completed schedule entry plus the bank it drew
// from, as returned by the lineage history query.
type AttemptRecord struct {
	Entry  ScheduleEntry
	BankID int64
}

// ── Request Types ────────────────────────────────────────

type CompleteAttemptRequest struct {
	Score   *int           `json:"score"`
	Answers map[int]string `json:"answers"`
}

// ── Response Types ───────────────────────────────────────

type TopicDetail struct {
	Topic   Topic           `json:"topic"`
	Entries []ScheduleEntry `json:"schedule"`
}

type TopicListResponse struct {
	Topics []Topic `json:"topics"`
	Total  int     `json:"total"`
}

// DueEntry is a pending schedule entry whose scheduled date has passed,
// flattened with enough topic context to render a "due today" list.
type DueEntry struct {
	EntryID       int64     `json:"entry_id"`
	TopicID       int64     `json:"topic_id"`
	Subject       string    `json:"subject"`
	Chapter       string    `json:"chapter"`
	Topic         string    `json:"topic"`
	Grade         int       `json:"grade"`
	SetNumber     int       `json:"set_number"`
	ScheduledDate time.Time `json:"scheduled_date"`
}

type DueListResponse struct {
	Entries []DueEntry `json:"entries"`
	Total   int        `json:"total"`
}

// AttemptQuestion is a question with grading data stripped for serving.
type AttemptQuestion struct {
	ID              int               `json:"id"`
	QuestionType    QuestionType      `json:"question_type"`
	Text            string            `json:"question"`
	Options         map[string]string `json:"options"`
	BloomTaxonomy   string            `json:"bloom_taxonomy"`
	DifficultyLevel DifficultyLevel   `json:"difficulty_level"`
	SetNumber       int               `json:"set_number"`
	DiagramURL      string            `json:"diagram_url,omitempty"`
}

// ToAttemptQuestion strips the answer key and explanation for serving.
func (q Question) ToAttemptQuestion() AttemptQuestion {
	return AttemptQuestion{
		ID:              q.ID,
		QuestionType:    q.QuestionType,
		Text:            q.Text,
		Options:         q.Options,
		BloomTaxonomy:   q.BloomTaxonomy,
		DifficultyLevel: q.DifficultyLevel,
		SetNumber:       q.SetNumber,
		DiagramURL:      q.DiagramURL,
	}
}

type AttemptResponse struct {
	EntryID   int64             `json:"entry_id"`
	TopicID   int64             `json:"topic_id"`
	SetNumber int               `json:"set_number"`
	Questions []AttemptQuestion `json:"questions"`
	Total     int               `json:"total"`
}

type CompleteAttemptResponse struct {
	Entry          ScheduleEntry `json:"entry"`
	TopicCompleted bool          `json:"topic_completed"`
}

type ReviewResponse struct {
	Entry     ScheduleEntry `json:"entry"`
	Questions []Question    `json:"questions"`
}
