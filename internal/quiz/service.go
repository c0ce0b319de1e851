package quiz

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/revisely/backend/internal/models"
	"github.com/revisely/backend/internal/schedule"
)

// Repository is the persistence surface the service needs. Implemented
// by Store on Postgres and by an in-memory fake in tests.
type Repository interface {
	// FindCompleteBankBySignature returns the newest complete bank for
	// the signature, or nil when none exists.
	FindCompleteBankBySignature(ctx context.Context, sig models.BankSignature) (*models.QuestionBank, error)
	SaveBank(ctx context.Context, bank *models.QuestionBank) error
	GetBankSet(ctx context.Context, bankID int64, setNumber int) (models.QuestionSet, error)

	// CreateTopicWithSchedule persists the topic and all its schedule
	// entries in one transaction. Either everything lands or nothing.
	CreateTopicWithSchedule(ctx context.Context, topic *models.Topic, entries []models.ScheduleEntry) error
	ListTopics(ctx context.Context, userID int64) ([]models.Topic, error)
	GetTopic(ctx context.Context, userID, topicID int64) (*models.Topic, error)
	ListScheduleEntries(ctx context.Context, topicID int64) ([]models.ScheduleEntry, error)
	ListDueEntries(ctx context.Context, userID int64, asOf time.Time) ([]models.DueEntry, error)

	// GetEntryForUser resolves a schedule entry together with its owning
	// topic, scoped to the user. Returns ErrNotFound for entries that do
	// not exist or belong to someone else.
	GetEntryForUser(ctx context.Context, userID, entryID int64) (*models.ScheduleEntry, *models.Topic, error)
	UpdateScheduleEntry(ctx context.Context, entry *models.ScheduleEntry) error
	MarkTopicCompleted(ctx context.Context, topicID int64, completedAt time.Time) error

	// ListCompletedAttempts returns the user's completed entries across
	// every topic sharing the subject and topic name, oldest first.
	ListCompletedAttempts(ctx context.Context, userID int64, subject, topic string) ([]models.AttemptRecord, error)
}

// Service implements the learning workflow: topic creation with bank
// reuse, due-date queries, adaptive attempt serving, and completion.
type Service struct {
	repo    Repository
	builder *BankBuilder
	now     func() time.Time
}

func NewService(repo Repository, builder *BankBuilder) *Service {
	return &Service{repo: repo, builder: builder, now: time.Now}
}

// CreateTopic reuses or generates a question bank for the request, then
// creates the topic and its full review schedule. Nothing is persisted
// for the topic unless the bank is complete and all entries insert.
func (s *Service) CreateTopic(ctx context.Context, userID int64, req models.LearningRequest) (*models.TopicDetail, error) {
	sig := models.NewBankSignature(req)

	// Concurrent first requests for the same signature may each persist
	// a bank; the lookup prefers the newest, so later requests converge.
	bank, err := s.repo.FindCompleteBankBySignature(ctx, sig)
	if err != nil {
		return nil, fmt.Errorf("look up bank: %w", err)
	}
	if bank == nil {
		bank, err = s.builder.Build(ctx, req)
		if err != nil {
			return nil, err
		}
		if err := s.repo.SaveBank(ctx, bank); err != nil {
			return nil, fmt.Errorf("save bank: %w", err)
		}
		log.Printf("[quiz] generated bank %d for %s/%s: %d questions",
			bank.ID, req.Subject, req.Topic, bank.TotalQuestions())
	} else {
		log.Printf("[quiz] reusing bank %d for %s/%s", bank.ID, req.Subject, req.Topic)
	}

	topic := &models.Topic{
		UserID:    userID,
		BankID:    bank.ID,
		Subject:   req.Subject,
		Chapter:   req.Chapter,
		Topic:     req.Topic,
		Grade:     req.Grade,
		Board:     req.Board,
		Status:    models.TopicActive,
		CreatedAt: s.now(),
	}

	dates := schedule.PlanDates(topic.CreatedAt)
	entries := make([]models.ScheduleEntry, models.NumSets)
	for i := range entries {
		entries[i] = models.ScheduleEntry{
			SetNumber:     i + 1,
			ScheduledDate: dates[i],
			Status:        models.EntryPending,
		}
	}

	if err := s.repo.CreateTopicWithSchedule(ctx, topic, entries); err != nil {
		return nil, fmt.Errorf("create topic: %w", err)
	}

	return &models.TopicDetail{Topic: *topic, Entries: entries}, nil
}

func (s *Service) ListTopics(ctx context.Context, userID int64) ([]models.Topic, error) {
	return s.repo.ListTopics(ctx, userID)
}

func (s *Service) GetTopic(ctx context.Context, userID, topicID int64) (*models.TopicDetail, error) {
	topic, err := s.repo.GetTopic(ctx, userID, topicID)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.ListScheduleEntries(ctx, topic.ID)
	if err != nil {
		return nil, fmt.Errorf("list schedule: %w", err)
	}
	return &models.TopicDetail{Topic: *topic, Entries: entries}, nil
}

// DueEntries lists pending entries whose scheduled date is at or before
// now, across all of the user's active topics.
func (s *Service) DueEntries(ctx context.Context, userID int64) ([]models.DueEntry, error) {
	return s.repo.ListDueEntries(ctx, userID, s.now())
}

// AttemptQuestions serves the adaptive question selection for a
// schedule entry, with answer keys and explanations stripped.
func (s *Service) AttemptQuestions(ctx context.Context, userID, entryID int64) (*models.AttemptResponse, error) {
	entry, topic, err := s.repo.GetEntryForUser(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	pool, err := s.repo.GetBankSet(ctx, topic.BankID, entry.SetNumber)
	if err != nil {
		return nil, fmt.Errorf("load question set: %w", err)
	}

	history, err := s.attemptHistory(ctx, userID, topic.Subject, topic.Topic)
	if err != nil {
		// Selection degrades to the no-history mix rather than blocking
		// the attempt.
		log.Printf("WARN: could not load attempt history for user %d: %v", userID, err)
		history = nil
	}

	selected := Select(pool, history)
	questions := make([]models.AttemptQuestion, len(selected))
	for i, q := range selected {
		questions[i] = q.ToAttemptQuestion()
	}

	return &models.AttemptResponse{
		EntryID:   entry.ID,
		TopicID:   topic.ID,
		SetNumber: entry.SetNumber,
		Questions: questions,
		Total:     len(questions),
	}, nil
}

// attemptHistory resolves the lineage's completed entries into attempt
// results, mapping each back to the questions it served from.
func (s *Service) attemptHistory(ctx context.Context, userID int64, subject, topic string) ([]models.AttemptResult, error) {
	records, err := s.repo.ListCompletedAttempts(ctx, userID, subject, topic)
	if err != nil {
		return nil, err
	}

	history := make([]models.AttemptResult, 0, len(records))
	for _, rec := range records {
		if rec.Entry.Score == nil {
			continue
		}
		questions, err := s.repo.GetBankSet(ctx, rec.BankID, rec.Entry.SetNumber)
		if err != nil {
			return nil, err
		}
		history = append(history, models.AttemptResult{
			Score:     *rec.Entry.Score,
			Answers:   rec.Entry.UserAnswers,
			Questions: questions,
		})
	}
	return history, nil
}

// CompleteAttempt records a finished attempt on a schedule entry. A
// repeat completion silently overwrites the previous score and answers.
// When the last pending entry completes, the topic flips to completed.
func (s *Service) CompleteAttempt(ctx context.Context, userID, entryID int64, req models.CompleteAttemptRequest) (*models.CompleteAttemptResponse, error) {
	entry, topic, err := s.repo.GetEntryForUser(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	entry.Status = models.EntryCompleted
	entry.CompletedDate = &now
	entry.Score = req.Score
	entry.UserAnswers = req.Answers

	if err := s.repo.UpdateScheduleEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}

	topicCompleted := false
	if topic.Status == models.TopicActive {
		entries, err := s.repo.ListScheduleEntries(ctx, topic.ID)
		if err != nil {
			return nil, fmt.Errorf("list schedule: %w", err)
		}
		allDone := true
		for _, e := range entries {
			if e.Status != models.EntryCompleted {
				allDone = false
				break
			}
		}
		if allDone {
			if err := s.repo.MarkTopicCompleted(ctx, topic.ID, now); err != nil {
				return nil, fmt.Errorf("complete topic: %w", err)
			}
			topicCompleted = true
			log.Printf("[quiz] topic %d completed by user %d", topic.ID, userID)
		}
	}

	return &models.CompleteAttemptResponse{
		Entry:          *entry,
		TopicCompleted: topicCompleted,
	}, nil
}

// ReviewAttempt returns a completed entry's full questions, answer keys
// and explanations included, alongside the recorded attempt.
func (s *Service) ReviewAttempt(ctx context.Context, userID, entryID int64) (*models.ReviewResponse, error) {
	entry, topic, err := s.repo.GetEntryForUser(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != models.EntryCompleted {
		return nil, fmt.Errorf("%w: entry %d has not been completed", ErrNotFound, entryID)
	}

	questions, err := s.repo.GetBankSet(ctx, topic.BankID, entry.SetNumber)
	if err != nil {
		return nil, fmt.Errorf("load question set: %w", err)
	}

	return &models.ReviewResponse{Entry: *entry, Questions: questions}, nil
}
