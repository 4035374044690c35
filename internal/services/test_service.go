package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/exam-sarathi/learning-service/internal/content"
	"github.com/exam-sarathi/learning-service/internal/models"
	"github.com/exam-sarathi/learning-service/internal/utils"
)

// TestService runs the chapter-test flow: fetch the paper, score a
// submission deterministically, and fold the outcome into progress.
type TestService interface {
	GetTestPaper(ctx context.Context, examID, subjectID, chapterID string) (*models.TestPaper, error)
	SubmitTest(ctx context.Context, userID string, req *TestSubmissionRequest) (*models.TestAttemptResult, error)
	RescoreTest(ctx context.Context, examID, subjectID, chapterID string, answers models.AnswerMap) (*models.TestAttemptResult, error)
}

// TestSubmissionRequest carries one finished test sitting. Answers index
// questions by their zero-based position in the paper.
type TestSubmissionRequest struct {
	ExamID      string           `json:"examId" validate:"required"`
	SubjectID   string           `json:"subjectId" validate:"required"`
	ChapterID   string           `json:"chapterId" validate:"required"`
	ChapterName string           `json:"chapterName"`
	ExamName    string           `json:"examName"`
	Answers     models.AnswerMap `json:"answers"`
}

type testService struct {
	contentClient content.Client
	progress      ProgressService
	logger        *slog.Logger
	validator     *utils.Validator
	policy        ScoringPolicy
}

func NewTestService(contentClient content.Client, progress ProgressService, logger *slog.Logger, validator *utils.Validator) TestService {
	return &testService{
		contentClient: contentClient,
		progress:      progress,
		logger:        logger,
		validator:     validator,
		policy:        DefaultScoringPolicy(),
	}
}

func (s *testService) GetTestPaper(ctx context.Context, examID, subjectID, chapterID string) (*models.TestPaper, error) {
	paper, err := s.contentClient.GetTestPaper(ctx, examID, subjectID, chapterID)
	if err != nil {
		if content.IsNotFoundError(err) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to load test paper: %w", err)
	}
	return paper, nil
}

// SubmitTest scores the submission and records the attempt. When the
// progress write fails the scored result is still returned alongside a
// write-failure error; the sitting itself is never lost to a storage
// outage.
func (s *testService) SubmitTest(ctx context.Context, userID string, req *TestSubmissionRequest) (*models.TestAttemptResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	paper, err := s.GetTestPaper(ctx, req.ExamID, req.SubjectID, req.ChapterID)
	if err != nil {
		return nil, err
	}
	if len(paper.Questions) == 0 {
		return nil, ErrNoQuestions
	}

	result, err := ScoreTest(paper.Questions, req.Answers, s.policy)
	if err != nil {
		return nil, err
	}

	chapterName := req.ChapterName
	if chapterName == "" {
		chapterName = paper.ChapterName
	}

	_, err = s.progress.RecordTestAttempt(ctx, userID, &TestAttemptRequest{
		ExamID:         req.ExamID,
		ChapterID:      req.ChapterID,
		ChapterName:    chapterName,
		SubjectID:      req.SubjectID,
		ExamName:       req.ExamName,
		CorrectAnswers: result.CorrectAnswers,
		TotalQuestions: result.TotalQuestions,
	})
	if err != nil && errors.Is(err, ErrProgressWriteFailed) {
		s.logger.Error("test scored but attempt not recorded",
			"user_id", userID,
			"exam_id", req.ExamID,
			"chapter_id", req.ChapterID,
			"error", err)
		return result, err
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RescoreTest recomputes a result from the current paper and a saved
// answer map without touching progress. Scoring is pure, so rescoring a
// submission always reproduces the original result for an unchanged
// paper.
func (s *testService) RescoreTest(ctx context.Context, examID, subjectID, chapterID string, answers models.AnswerMap) (*models.TestAttemptResult, error) {
	paper, err := s.GetTestPaper(ctx, examID, subjectID, chapterID)
	if err != nil {
		return nil, err
	}
	if len(paper.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	return ScoreTest(paper.Questions, answers, s.policy)
}
