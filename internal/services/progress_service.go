package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/exam-sarathi/learning-service/internal/events"
	"github.com/exam-sarathi/learning-service/internal/models"
	"github.com/exam-sarathi/learning-service/internal/repositories"
	"github.com/exam-sarathi/learning-service/internal/utils"
)

const eventSource = "learning-service"

// ProgressService owns every mutation of the progress store and the
// aggregations derived from it. Every call takes an explicit user id;
// there is no ambient session inside the service.
type ProgressService interface {
	// Exam-level progress
	InitializeExamProgress(ctx context.Context, userID, examID, examName string) error
	GetExamProgress(ctx context.Context, userID, examID string) (*models.ExamProgress, error)
	ListExamProgress(ctx context.Context, userID string) ([]*models.ExamProgress, error)
	AddExamTime(ctx context.Context, userID, examID string, minutes int) error

	// Chapter-level progress
	GetChapterProgress(ctx context.Context, userID, examID, chapterID string) (*models.ChapterProgress, error)
	ListChapterProgress(ctx context.Context, userID, examID string) (map[string]*models.ChapterProgress, error)
	MarkTutorialComplete(ctx context.Context, userID string, req *TutorialCompletionRequest) error
	RecordTestAttempt(ctx context.Context, userID string, req *TestAttemptRequest) (int, error)
	AddChapterTime(ctx context.Context, userID, examID, chapterID string, minutes int) error
	UpdateChapterNotes(ctx context.Context, userID, examID, chapterID, notes string) error

	// Aggregations
	GetUserStatistics(ctx context.Context, userID string) (*models.UserStatistics, error)
	GetRecentActivity(ctx context.Context, userID string, limit int) ([]models.ActivityEvent, error)
	CalculateExamCompletion(ctx context.Context, userID, examID string, totalChapters int) (int, error)
}

// TutorialCompletionRequest marks one chapter's tutorial as finished.
type TutorialCompletionRequest struct {
	ExamID      string `json:"examId" validate:"required"`
	ChapterID   string `json:"chapterId" validate:"required"`
	ChapterName string `json:"chapterName" validate:"required"`
	SubjectID   string `json:"subjectId" validate:"required"`
	ExamName    string `json:"examName"`
}

// TestAttemptRequest records the outcome of one finished chapter test.
// The score recorded against progress is correct/total, the same ratio
// the original client reported, independent of marks weighting.
type TestAttemptRequest struct {
	ExamID         string `json:"examId" validate:"required"`
	ChapterID      string `json:"chapterId" validate:"required"`
	ChapterName    string `json:"chapterName" validate:"required"`
	SubjectID      string `json:"subjectId" validate:"required"`
	ExamName       string `json:"examName"`
	CorrectAnswers int    `json:"correctAnswers" validate:"min=0"`
	TotalQuestions int    `json:"totalQuestions" validate:"min=0"`
}

type progressService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *utils.Validator
	policy    ScoringPolicy
}

func NewProgressService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, validator *utils.Validator) ProgressService {
	return &progressService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
		policy:    DefaultScoringPolicy(),
	}
}

// ===== EXAM PROGRESS =====

func (s *progressService) InitializeExamProgress(ctx context.Context, userID, examID, examName string) error {
	if err := s.repo.Exam().Touch(ctx, userID, examID, examName); err != nil {
		return fmt.Errorf("%w: initialize exam progress: %v", ErrProgressWriteFailed, err)
	}

	s.publish(ctx, &events.ProgressEvent{
		Type:   events.EventExamStarted,
		UserID: userID,
		ExamID: examID,
	})
	return nil
}

func (s *progressService) GetExamProgress(ctx context.Context, userID, examID string) (*models.ExamProgress, error) {
	progress, err := s.repo.Exam().Get(ctx, userID, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamProgressNotFound
		}
		return nil, fmt.Errorf("failed to get exam progress: %w", err)
	}
	return progress, nil
}

func (s *progressService) ListExamProgress(ctx context.Context, userID string) ([]*models.ExamProgress, error) {
	progress, err := s.repo.Exam().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exam progress: %w", err)
	}
	return progress, nil
}

func (s *progressService) AddExamTime(ctx context.Context, userID, examID string, minutes int) error {
	if minutes <= 0 {
		return nil
	}
	if err := s.repo.Exam().AddTime(ctx, userID, examID, minutes); err != nil {
		return fmt.Errorf("%w: add exam time: %v", ErrProgressWriteFailed, err)
	}
	return nil
}

// ===== CHAPTER PROGRESS =====

func (s *progressService) GetChapterProgress(ctx context.Context, userID, examID, chapterID string) (*models.ChapterProgress, error) {
	progress, err := s.repo.Chapter().Get(ctx, repositories.ChapterKey{UserID: userID, ExamID: examID, ChapterID: chapterID})
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrChapterProgressNotFound
		}
		return nil, fmt.Errorf("failed to get chapter progress: %w", err)
	}
	return progress, nil
}

func (s *progressService) ListChapterProgress(ctx context.Context, userID, examID string) (map[string]*models.ChapterProgress, error) {
	chapters, err := s.repo.Chapter().ListByExam(ctx, userID, examID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chapter progress: %w", err)
	}

	byChapterID := make(map[string]*models.ChapterProgress, len(chapters))
	for _, chapter := range chapters {
		byChapterID[chapter.ChapterID] = chapter
	}
	return byChapterID, nil
}

func (s *progressService) MarkTutorialComplete(ctx context.Context, userID string, req *TutorialCompletionRequest) error {
	s.logger.Info("Marking tutorial complete",
		"user_id", userID,
		"exam_id", req.ExamID,
		"chapter_id", req.ChapterID)

	if err := s.validator.Validate(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	key := repositories.ChapterKey{UserID: userID, ExamID: req.ExamID, ChapterID: req.ChapterID}
	meta := repositories.ChapterMeta{ChapterName: req.ChapterName, SubjectID: req.SubjectID}

	if err := s.repo.Chapter().MarkTutorialComplete(ctx, key, meta); err != nil {
		return fmt.Errorf("%w: mark tutorial complete: %v", ErrProgressWriteFailed, err)
	}
	s.touchExam(ctx, userID, req.ExamID, req.ExamName)

	s.publish(ctx, &events.ProgressEvent{
		Type:      events.EventTutorialCompleted,
		UserID:    userID,
		ExamID:    req.ExamID,
		SubjectID: req.SubjectID,
		ChapterID: req.ChapterID,
	})
	return nil
}

func (s *progressService) RecordTestAttempt(ctx context.Context, userID string, req *TestAttemptRequest) (int, error) {
	s.logger.Info("Recording test attempt",
		"user_id", userID,
		"exam_id", req.ExamID,
		"chapter_id", req.ChapterID,
		"correct", req.CorrectAnswers,
		"total", req.TotalQuestions)

	if err := s.validator.Validate(req); err != nil {
		return 0, fmt.Errorf("validation failed: %w", err)
	}

	percentageScore := percentageOf(req.CorrectAnswers, req.TotalQuestions)

	key := repositories.ChapterKey{UserID: userID, ExamID: req.ExamID, ChapterID: req.ChapterID}
	meta := repositories.ChapterMeta{ChapterName: req.ChapterName, SubjectID: req.SubjectID}

	if err := s.repo.Chapter().RecordAttempt(ctx, key, meta, percentageScore); err != nil {
		return percentageScore, fmt.Errorf("%w: record test attempt: %v", ErrProgressWriteFailed, err)
	}
	s.touchExam(ctx, userID, req.ExamID, req.ExamName)

	passed := percentageScore >= s.policy.PassPercent
	stars := s.policy.Stars(percentageScore)
	s.publish(ctx, &events.ProgressEvent{
		Type:      events.EventTestSubmitted,
		UserID:    userID,
		ExamID:    req.ExamID,
		SubjectID: req.SubjectID,
		ChapterID: req.ChapterID,
		Score:     &percentageScore,
		Passed:    &passed,
		Stars:     &stars,
	})
	return percentageScore, nil
}

func (s *progressService) AddChapterTime(ctx context.Context, userID, examID, chapterID string, minutes int) error {
	if minutes <= 0 {
		return nil
	}
	key := repositories.ChapterKey{UserID: userID, ExamID: examID, ChapterID: chapterID}
	if err := s.repo.Chapter().AddTime(ctx, key, minutes); err != nil {
		return fmt.Errorf("%w: add chapter time: %v", ErrProgressWriteFailed, err)
	}
	return nil
}

func (s *progressService) UpdateChapterNotes(ctx context.Context, userID, examID, chapterID, notes string) error {
	key := repositories.ChapterKey{UserID: userID, ExamID: examID, ChapterID: chapterID}
	if err := s.repo.Chapter().UpdateNotes(ctx, key, notes); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrChapterProgressNotFound
		}
		return fmt.Errorf("%w: update chapter notes: %v", ErrProgressWriteFailed, err)
	}
	return nil
}

// ===== AGGREGATIONS =====

func (s *progressService) GetUserStatistics(ctx context.Context, userID string) (*models.UserStatistics, error) {
	exams, chaptersByExamID, err := s.loadAllProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := AggregateStatistics(exams, chaptersByExamID, s.policy)
	return &stats, nil
}

func (s *progressService) GetRecentActivity(ctx context.Context, userID string, limit int) ([]models.ActivityEvent, error) {
	exams, chaptersByExamID, err := s.loadAllProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	return BuildRecentActivity(exams, chaptersByExamID, limit, s.policy), nil
}

func (s *progressService) CalculateExamCompletion(ctx context.Context, userID, examID string, totalChapters int) (int, error) {
	byChapterID, err := s.ListChapterProgress(ctx, userID, examID)
	if err != nil {
		return 0, err
	}
	return CalculateExamCompletion(byChapterID, totalChapters), nil
}

// loadAllProgress reads the user's exam records plus every chapter record
// in two batched queries, then groups chapters per exam.
func (s *progressService) loadAllProgress(ctx context.Context, userID string) ([]*models.ExamProgress, map[string][]*models.ChapterProgress, error) {
	exams, err := s.repo.Exam().ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list exam progress: %w", err)
	}

	chapters, err := s.repo.Chapter().ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list chapter progress: %w", err)
	}

	chaptersByExamID := make(map[string][]*models.ChapterProgress)
	for _, chapter := range chapters {
		chaptersByExamID[chapter.ExamID] = append(chaptersByExamID[chapter.ExamID], chapter)
	}
	return exams, chaptersByExamID, nil
}

// touchExam refreshes the parent exam record after a chapter mutation.
// Failure here never fails the chapter write that already succeeded.
func (s *progressService) touchExam(ctx context.Context, userID, examID, examName string) {
	if err := s.repo.Exam().Touch(ctx, userID, examID, examName); err != nil {
		s.logger.Warn("failed to touch exam progress",
			"user_id", userID,
			"exam_id", examID,
			"error", err)
	}
}

// publish sends a progress event, best effort. The progress store is the
// source of truth; a missed event is only a missed notification.
func (s *progressService) publish(ctx context.Context, event *events.ProgressEvent) {
	if s.publisher == nil {
		return
	}
	event.Source = eventSource
	event.Version = "1"
	event.Timestamp = time.Now().UTC()
	if err := s.publisher.PublishProgressEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish progress event",
			"event_type", event.Type,
			"error", err)
	}
}
