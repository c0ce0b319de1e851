package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/revisely/backend/internal/models"
)

// Store is the Postgres-backed Repository.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Question Banks ───────────────────────────────────────

func (s *Store) FindCompleteBankBySignature(ctx context.Context, sig models.BankSignature) (*models.QuestionBank, error) {
	var bank models.QuestionBank
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at FROM question_banks
		WHERE subject = $1 AND topic = $2 AND grade = $3 AND board = $4
		  AND question_types = $5 AND difficulty_levels = $6 AND question_count = $7
		  AND (SELECT COUNT(DISTINCT set_number) FROM questions WHERE bank_id = question_banks.id) = $8
		ORDER BY created_at DESC, id DESC
		LIMIT 1`,
		sig.Subject, sig.Topic, sig.Grade, sig.Board,
		sig.QuestionTypes, sig.DifficultyLevels, sig.QuestionCount, models.NumSets,
	).Scan(&bank.ID, &bank.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query bank by signature: %w", err)
	}
	bank.Signature = sig

	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, question_type, question_text, options, correct_answer,
		       explanation, bloom_taxonomy, difficulty_level, set_number,
		       diagram_instruction, diagram_url
		FROM questions WHERE bank_id = $1 ORDER BY seq`, bank.ID)
	if err != nil {
		return nil, fmt.Errorf("query bank questions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		bank.Sets[q.SetNumber-1] = append(bank.Sets[q.SetNumber-1], q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bank questions: %w", err)
	}
	return &bank, nil
}

func (s *Store) SaveBank(ctx context.Context, bank *models.QuestionBank) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	sig := bank.Signature
	err = tx.QueryRowContext(ctx, `
		INSERT INTO question_banks
			(subject, topic, grade, board, question_types, difficulty_levels, question_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		sig.Subject, sig.Topic, sig.Grade, sig.Board,
		sig.QuestionTypes, sig.DifficultyLevels, sig.QuestionCount,
	).Scan(&bank.ID, &bank.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert bank: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO questions
			(bank_id, seq, question_type, question_text, options, correct_answer,
			 explanation, bloom_taxonomy, difficulty_level, set_number,
			 diagram_instruction, diagram_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`)
	if err != nil {
		return fmt.Errorf("prepare question insert: %w", err)
	}
	defer stmt.Close()

	for _, set := range bank.Sets {
		for _, q := range set {
			options, err := json.Marshal(q.Options)
			if err != nil {
				return fmt.Errorf("marshal options for question %d: %w", q.ID, err)
			}
			if _, err := stmt.ExecContext(ctx,
				bank.ID, q.ID, q.QuestionType, q.Text, options, q.CorrectAnswer,
				q.Explanation, q.BloomTaxonomy, q.DifficultyLevel, q.SetNumber,
				nullString(q.DiagramInstruction), nullString(q.DiagramURL),
			); err != nil {
				return fmt.Errorf("insert question %d: %w", q.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bank: %w", err)
	}
	return nil
}

func (s *Store) GetBankSet(ctx context.Context, bankID int64, setNumber int) (models.QuestionSet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, question_type, question_text, options, correct_answer,
		       explanation, bloom_taxonomy, difficulty_level, set_number,
		       diagram_instruction, diagram_url
		FROM questions
		WHERE bank_id = $1 AND set_number = $2
		ORDER BY seq`, bankID, setNumber)
	if err != nil {
		return nil, fmt.Errorf("query question set: %w", err)
	}
	defer rows.Close()

	var set models.QuestionSet
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		set = append(set, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate question set: %w", err)
	}
	return set, nil
}

func scanQuestion(rows *sql.Rows) (models.Question, error) {
	var q models.Question
	var options []byte
	var diagramInstruction, diagramURL sql.NullString

	if err := rows.Scan(&q.ID, &q.QuestionType, &q.Text, &options, &q.CorrectAnswer,
		&q.Explanation, &q.BloomTaxonomy, &q.DifficultyLevel, &q.SetNumber,
		&diagramInstruction, &diagramURL); err != nil {
		return q, fmt.Errorf("scan question: %w", err)
	}
	if err := json.Unmarshal(options, &q.Options); err != nil {
		return q, fmt.Errorf("unmarshal options for question %d: %w", q.ID, err)
	}
	q.DiagramInstruction = diagramInstruction.String
	q.DiagramURL = diagramURL.String
	return q, nil
}

// ── Topics and Schedules ─────────────────────────────────

func (s *Store) CreateTopicWithSchedule(ctx context.Context, topic *models.Topic, entries []models.ScheduleEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO topics (user_id, bank_id, subject, chapter, topic, grade, board, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		topic.UserID, topic.BankID, topic.Subject, topic.Chapter, topic.Topic,
		topic.Grade, topic.Board, topic.Status, topic.CreatedAt,
	).Scan(&topic.ID)
	if err != nil {
		return fmt.Errorf("insert topic: %w", err)
	}

	for i := range entries {
		entries[i].TopicID = topic.ID
		err := tx.QueryRowContext(ctx, `
			INSERT INTO schedule_entries (topic_id, set_number, scheduled_date, status)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			entries[i].TopicID, entries[i].SetNumber, entries[i].ScheduledDate, entries[i].Status,
		).Scan(&entries[i].ID)
		if err != nil {
			return fmt.Errorf("insert schedule entry for set %d: %w", entries[i].SetNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit topic: %w", err)
	}
	return nil
}

func (s *Store) ListTopics(ctx context.Context, userID int64) ([]models.Topic, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, bank_id, subject, chapter, topic, grade, board, status, created_at, completed_at
		FROM topics WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query topics: %w", err)
	}
	defer rows.Close()

	var topics []models.Topic
	for rows.Next() {
		var t models.Topic
		if err := rows.Scan(&t.ID, &t.UserID, &t.BankID, &t.Subject, &t.Chapter, &t.Topic,
			&t.Grade, &t.Board, &t.Status, &t.CreatedAt, &t.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate topics: %w", err)
	}
	return topics, nil
}

func (s *Store) GetTopic(ctx context.Context, userID, topicID int64) (*models.Topic, error) {
	var t models.Topic
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, bank_id, subject, chapter, topic, grade, board, status, created_at, completed_at
		FROM topics WHERE id = $1 AND user_id = $2`, topicID, userID,
	).Scan(&t.ID, &t.UserID, &t.BankID, &t.Subject, &t.Chapter, &t.Topic,
		&t.Grade, &t.Board, &t.Status, &t.CreatedAt, &t.CompletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query topic: %w", err)
	}
	return &t, nil
}

func (s *Store) ListScheduleEntries(ctx context.Context, topicID int64) ([]models.ScheduleEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, topic_id, set_number, scheduled_date, status, completed_date, score, user_answers
		FROM schedule_entries WHERE topic_id = $1 ORDER BY set_number`, topicID)
	if err != nil {
		return nil, fmt.Errorf("query schedule entries: %w", err)
	}
	defer rows.Close()

	var entries []models.ScheduleEntry
	for rows.Next() {
		e, err := scanScheduleEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedule entries: %w", err)
	}
	return entries, nil
}

func (s *Store) ListDueEntries(ctx context.Context, userID int64, asOf time.Time) ([]models.DueEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, t.id, t.subject, t.chapter, t.topic, t.grade, e.set_number, e.scheduled_date
		FROM schedule_entries e
		JOIN topics t ON t.id = e.topic_id
		WHERE t.user_id = $1 AND e.status = $2 AND e.scheduled_date <= $3
		ORDER BY e.scheduled_date, e.id`, userID, models.EntryPending, asOf)
	if err != nil {
		return nil, fmt.Errorf("query due entries: %w", err)
	}
	defer rows.Close()

	var due []models.DueEntry
	for rows.Next() {
		var d models.DueEntry
		if err := rows.Scan(&d.EntryID, &d.TopicID, &d.Subject, &d.Chapter, &d.Topic,
			&d.Grade, &d.SetNumber, &d.ScheduledDate); err != nil {
			return nil, fmt.Errorf("scan due entry: %w", err)
		}
		due = append(due, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate due entries: %w", err)
	}
	return due, nil
}

func (s *Store) GetEntryForUser(ctx context.Context, userID, entryID int64) (*models.ScheduleEntry, *models.Topic, error) {
	var e models.ScheduleEntry
	var t models.Topic
	var answers []byte

	err := s.db.QueryRowContext(ctx, `
		SELECT e.id, e.topic_id, e.set_number, e.scheduled_date, e.status,
		       e.completed_date, e.score, e.user_answers,
		       t.id, t.user_id, t.bank_id, t.subject, t.chapter, t.topic,
		       t.grade, t.board, t.status, t.created_at, t.completed_at
		FROM schedule_entries e
		JOIN topics t ON t.id = e.topic_id
		WHERE e.id = $1 AND t.user_id = $2`, entryID, userID,
	).Scan(&e.ID, &e.TopicID, &e.SetNumber, &e.ScheduledDate, &e.Status,
		&e.CompletedDate, &e.Score, &answers,
		&t.ID, &t.UserID, &t.BankID, &t.Subject, &t.Chapter, &t.Topic,
		&t.Grade, &t.Board, &t.Status, &t.CreatedAt, &t.CompletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("query schedule entry: %w", err)
	}
	if err := unmarshalAnswers(answers, &e); err != nil {
		return nil, nil, err
	}
	return &e, &t, nil
}

func (s *Store) UpdateScheduleEntry(ctx context.Context, entry *models.ScheduleEntry) error {
	var answers interface{}
	if entry.UserAnswers != nil {
		data, err := json.Marshal(entry.UserAnswers)
		if err != nil {
			return fmt.Errorf("marshal answers: %w", err)
		}
		answers = data
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE schedule_entries
		SET status = $1, completed_date = $2, score = $3, user_answers = $4
		WHERE id = $5`,
		entry.Status, entry.CompletedDate, entry.Score, answers, entry.ID)
	if err != nil {
		return fmt.Errorf("update schedule entry: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) MarkTopicCompleted(ctx context.Context, topicID int64, completedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE topics SET status = $1, completed_at = $2 WHERE id = $3`,
		models.TopicCompleted, completedAt, topicID)
	if err != nil {
		return fmt.Errorf("mark topic completed: %w", err)
	}
	return nil
}

func (s *Store) ListCompletedAttempts(ctx context.Context, userID int64, subject, topic string) ([]models.AttemptRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.topic_id, e.set_number, e.scheduled_date, e.status,
		       e.completed_date, e.score, e.user_answers, t.bank_id
		FROM schedule_entries e
		JOIN topics t ON t.id = e.topic_id
		WHERE t.user_id = $1
		  AND LOWER(t.subject) = LOWER($2)
		  AND LOWER(t.topic) = LOWER($3)
		  AND e.status = $4
		ORDER BY e.completed_date, e.id`,
		userID, subject, topic, models.EntryCompleted)
	if err != nil {
		return nil, fmt.Errorf("query completed attempts: %w", err)
	}
	defer rows.Close()

	var records []models.AttemptRecord
	for rows.Next() {
		var rec models.AttemptRecord
		var answers []byte
		if err := rows.Scan(&rec.Entry.ID, &rec.Entry.TopicID, &rec.Entry.SetNumber,
			&rec.Entry.ScheduledDate, &rec.Entry.Status, &rec.Entry.CompletedDate,
			&rec.Entry.Score, &answers, &rec.BankID); err != nil {
			return nil, fmt.Errorf("scan completed attempt: %w", err)
		}
		if err := unmarshalAnswers(answers, &rec.Entry); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate completed attempts: %w", err)
	}
	return records, nil
}

func scanScheduleEntry(rows *sql.Rows) (models.ScheduleEntry, error) {
	var e models.ScheduleEntry
	var answers []byte
	if err := rows.Scan(&e.ID, &e.TopicID, &e.SetNumber, &e.ScheduledDate,
		&e.Status, &e.CompletedDate, &e.Score, &answers); err != nil {
		return e, fmt.Errorf("scan schedule entry: %w", err)
	}
	if err := unmarshalAnswers(answers, &e); err != nil {
		return e, err
	}
	return e, nil
}

func unmarshalAnswers(data []byte, e *models.ScheduleEntry) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &e.UserAnswers); err != nil {
		return fmt.Errorf("unmarshal answers for entry %d: %w", e.ID, err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
