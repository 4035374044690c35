package repositories

import (
	"context"

	"github.com/exam-sarathi/learning-service/internal/models"
)

// ExamProgressRepository manages the per-(user, exam) progress record.
// Writes are upsert-or-merge operations; the store assigns timestamps.
type ExamProgressRepository interface {
	// Touch creates the record on first interaction (stamping started_at)
	// or refreshes last_accessed_at on an existing one.
	Touch(ctx context.Context, userID, examID, examName string) error

	Get(ctx context.Context, userID, examID string) (*models.ExamProgress, error)
	ListByUser(ctx context.Context, userID string) ([]*models.ExamProgress, error)

	// AddTime atomically adds study minutes and refreshes last_accessed_at.
	AddTime(ctx context.Context, userID, examID string, minutes int) error
}

// ChapterProgressRepository manages per-(user, exam, chapter) records.
// Counters only increment and best_score only max-merges, so concurrent
// sessions commute; last-attempt fields are last-write-wins.
type ChapterProgressRepository interface {
	Get(ctx context.Context, key ChapterKey) (*models.ChapterProgress, error)

	// ListByExam is the batched read used for journey derivation: all
	// chapter records under one exam in a single query.
	ListByExam(ctx context.Context, userID, examID string) ([]*models.ChapterProgress, error)

	// ListByUser scans every chapter record of the user across exams,
	// for statistics and activity aggregation.
	ListByUser(ctx context.Context, userID string) ([]*models.ChapterProgress, error)

	// MarkTutorialComplete upserts the record with tutorial_completed set
	// and the completion timestamp stamped by the store. Idempotent apart
	// from the timestamp advancing.
	MarkTutorialComplete(ctx context.Context, key ChapterKey, meta ChapterMeta) error

	// RecordAttempt upserts the record for one finished test: increments
	// tests_attempted, max-merges best_score and overwrites the
	// last-attempt fields.
	RecordAttempt(ctx context.Context, key ChapterKey, meta ChapterMeta, percentageScore int) error

	// AddTime atomically adds study minutes to an existing record; a
	// missing record is a no-op.
	AddTime(ctx context.Context, key ChapterKey, minutes int) error

	UpdateNotes(ctx context.Context, key ChapterKey, notes string) error
}
