package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/exam-sarathi/learning-service/internal/events"
	"github.com/exam-sarathi/learning-service/internal/models"
	"github.com/exam-sarathi/learning-service/internal/repositories"
	"github.com/exam-sarathi/learning-service/internal/utils"
)

// MockExamProgressRepository is a mock implementation of ExamProgressRepository
type MockExamProgressRepository struct {
	mock.Mock
}

func (m *MockExamProgressRepository) Touch(ctx context.Context, userID, examID, examName string) error {
	args := m.Called(ctx, userID, examID, examName)
	return args.Error(0)
}

func (m *MockExamProgressRepository) Get(ctx context.Context, userID, examID string) (*models.ExamProgress, error) {
	args := m.Called(ctx, userID, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExamProgress), args.Error(1)
}

func (m *MockExamProgressRepository) ListByUser(ctx context.Context, userID string) ([]*models.ExamProgress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ExamProgress), args.Error(1)
}

func (m *MockExamProgressRepository) AddTime(ctx context.Context, userID, examID string, minutes int) error {
	args := m.Called(ctx, userID, examID, minutes)
	return args.Error(0)
}

// MockChapterProgressRepository is a mock implementation of ChapterProgressRepository
type MockChapterProgressRepository struct {
	mock.Mock
}

func (m *MockChapterProgressRepository) Get(ctx context.Context, key repositories.ChapterKey) (*models.ChapterProgress, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChapterProgress), args.Error(1)
}

func (m *MockChapterProgressRepository) ListByExam(ctx context.Context, userID, examID string) ([]*models.ChapterProgress, error) {
	args := m.Called(ctx, userID, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ChapterProgress), args.Error(1)
}

func (m *MockChapterProgressRepository) ListByUser(ctx context.Context, userID string) ([]*models.ChapterProgress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ChapterProgress), args.Error(1)
}

func (m *MockChapterProgressRepository) MarkTutorialComplete(ctx context.Context, key repositories.ChapterKey, meta repositories.ChapterMeta) error {
	args := m.Called(ctx, key, meta)
	return args.Error(0)
}

func (m *MockChapterProgressRepository) RecordAttempt(ctx context.Context, key repositories.ChapterKey, meta repositories.ChapterMeta, percentageScore int) error {
	args := m.Called(ctx, key, meta, percentageScore)
	return args.Error(0)
}

func (m *MockChapterProgressRepository) AddTime(ctx context.Context, key repositories.ChapterKey, minutes int) error {
	args := m.Called(ctx, key, minutes)
	return args.Error(0)
}

func (m *MockChapterProgressRepository) UpdateNotes(ctx context.Context, key repositories.ChapterKey, notes string) error {
	args := m.Called(ctx, key, notes)
	return args.Error(0)
}

// MockRepository is a mock implementation of the aggregate Repository
type MockRepository struct {
	examRepo    *MockExamProgressRepository
	chapterRepo *MockChapterProgressRepository
}

func newMockRepository() *MockRepository {
	return &MockRepository{
		examRepo:    &MockExamProgressRepository{},
		chapterRepo: &MockChapterProgressRepository{},
	}
}

func (m *MockRepository) Exam() repositories.ExamProgressRepository       { return m.examRepo }
func (m *MockRepository) Chapter() repositories.ChapterProgressRepository { return m.chapterRepo }

func newTestProgressService(repo *MockRepository, publisher *events.MockEventPublisher) ProgressService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewProgressService(repo, publisher, logger, utils.NewValidator())
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProgressService_MarkTutorialComplete(t *testing.T) {
	mockRepo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	service := newTestProgressService(mockRepo, publisher)

	key := repositories.ChapterKey{UserID: "user-1", ExamID: "jee", ChapterID: "ch-1"}
	meta := repositories.ChapterMeta{ChapterName: "Kinematics", SubjectID: "physics"}

	mockRepo.chapterRepo.On("MarkTutorialComplete", mock.Anything, key, meta).Return(nil)
	mockRepo.examRepo.On("Touch", mock.Anything, "user-1", "jee", "JEE Main").Return(nil)

	err := service.MarkTutorialComplete(context.Background(), "user-1", &TutorialCompletionRequest{
		ExamID:      "jee",
		ChapterID:   "ch-1",
		ChapterName: "Kinematics",
		SubjectID:   "physics",
		ExamName:    "JEE Main",
	})
	require.NoError(t, err)

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventTutorialCompleted, published[0].Type)
	assert.Equal(t, "user-1", published[0].UserID)

	mockRepo.chapterRepo.AssertExpectations(t)
	mockRepo.examRepo.AssertExpectations(t)
}

func TestProgressService_MarkTutorialComplete_ValidationFailure(t *testing.T) {
	mockRepo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	service := newTestProgressService(mockRepo, publisher)

	err := service.MarkTutorialComplete(context.Background(), "user-1", &TutorialCompletionRequest{
		ExamID: "jee", // missing chapter fields
	})
	assert.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Empty(t, publisher.GetPublishedEvents())

	mockRepo.chapterRepo.AssertNotCalled(t, "MarkTutorialComplete", mock.Anything, mock.Anything, mock.Anything)
}

func TestProgressService_RecordTestAttempt(t *testing.T) {
	mockRepo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	service := newTestProgressService(mockRepo, publisher)

	key := repositories.ChapterKey{UserID: "user-1", ExamID: "jee", ChapterID: "ch-1"}

	// 7 of 10 correct rounds to 70
	mockRepo.chapterRepo.On("RecordAttempt", mock.Anything, key, mock.Anything, 70).Return(nil)
	mockRepo.examRepo.On("Touch", mock.Anything, "user-1", "jee", "").Return(nil)

	score, err := service.RecordTestAttempt(context.Background(), "user-1", &TestAttemptRequest{
		ExamID:         "jee",
		ChapterID:      "ch-1",
		ChapterName:    "Kinematics",
		SubjectID:      "physics",
		CorrectAnswers: 7,
		TotalQuestions: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 70, score)

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventTestSubmitted, published[0].Type)
	require.NotNil(t, published[0].Score)
	assert.Equal(t, 70, *published[0].Score)
	require.NotNil(t, published[0].Passed)
	assert.True(t, *published[0].Passed)
	require.NotNil(t, published[0].Stars)
	assert.Equal(t, 2, *published[0].Stars)

	mockRepo.chapterRepo.AssertExpectations(t)
}

func TestProgressService_RecordTestAttempt_ZeroQuestions(t *testing.T) {
	mockRepo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	service := newTestProgressService(mockRepo, publisher)

	key := repositories.ChapterKey{UserID: "user-1", ExamID: "jee", ChapterID: "ch-1"}
	mockRepo.chapterRepo.On("RecordAttempt", mock.Anything, key, mock.Anything, 0).Return(nil)
	mockRepo.examRepo.On("Touch", mock.Anything, "user-1", "jee", "").Return(nil)

	// Zero totals record a zero score rather than dividing by zero.
	score, err := service.RecordTestAttempt(context.Background(), "user-1", &TestAttemptRequest{
		ExamID:         "jee",
		ChapterID:      "ch-1",
		ChapterName:    "Kinematics",
		SubjectID:      "physics",
		CorrectAnswers: 0,
		TotalQuestions: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, score)
}

func TestProgressService_RecordTestAttempt_WriteFailure(t *testing.T) {
	mockRepo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	service := newTestProgressService(mockRepo, publisher)

	mockRepo.chapterRepo.On("RecordAttempt", mock.Anything, mock.Anything, mock.Anything, 55).
		Return(errors.New("connection reset"))

	score, err := service.RecordTestAttempt(context.Background(), "user-1", &TestAttemptRequest{
		ExamID:         "jee",
		ChapterID:      "ch-1",
		ChapterName:    "Kinematics",
		SubjectID:      "physics",
		CorrectAnswers: 11,
		TotalQuestions: 20,
	})
	assert.True(t, IsWriteFailure(err))
	// The computed score still comes back so callers can show the result.
	assert.Equal(t, 55, score)
	assert.Empty(t, publisher.GetPublishedEvents())
}

func TestProgressService_TouchFailureDoesNotFailMutation(t *testing.T) {
	mockRepo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	service := newTestProgressService(mockRepo, publisher)

	mockRepo.chapterRepo.On("MarkTutorialComplete", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	mockRepo.examRepo.On("Touch", mock.Anything, "user-1", "jee", "").
		Return(errors.New("deadlock"))

	err := service.MarkTutorialComplete(context.Background(), "user-1", &TutorialCompletionRequest{
		ExamID:      "jee",
		ChapterID:   "ch-1",
		ChapterName: "Kinematics",
		SubjectID:   "physics",
	})
	assert.NoError(t, err)
}

func TestProgressService_GetExamProgress_NotFound(t *testing.T) {
	mockRepo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	service := newTestProgressService(mockRepo, publisher)

	mockRepo.examRepo.On("Get", mock.Anything, "user-1", "jee").
		Return(nil, gorm.ErrRecordNotFound)

	_, err := service.GetExamProgress(context.Background(), "user-1", "jee")
	assert.ErrorIs(t, err, ErrExamProgressNotFound)
}

func TestProgressService_ListChapterProgress_KeyedByChapter(t *testing.T) {
	mockRepo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	service := newTestProgressService(mockRepo, publisher)

	records := []*models.ChapterProgress{
		{ChapterID: "ch-1", BestScore: 80},
		{ChapterID: "ch-2", BestScore: 40},
	}
	mockRepo.chapterRepo.On("ListByExam", mock.Anything, "user-1", "jee").Return(records, nil)

	byChapterID, err := service.ListChapterProgress(context.Background(), "user-1", "jee")
	require.NoError(t, err)
	require.Len(t, byChapterID, 2)
	assert.Equal(t, 80, byChapterID["ch-1"].BestScore)
	assert.Equal(t, 40, byChapterID["ch-2"].BestScore)
}

func TestProgressService_AddExamTime_NonPositiveIsNoop(t *testing.T) {
	mockRepo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	service := newTestProgressService(mockRepo, publisher)

	err := service.AddExamTime(context.Background(), "user-1", "jee", 0)
	assert.NoError(t, err)
	err = service.AddExamTime(context.Background(), "user-1", "jee", -5)
	assert.NoError(t, err)

	mockRepo.examRepo.AssertNotCalled(t, "AddTime", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProgressService_GetUserStatistics(t *testing.T) {
	mockRepo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	service := newTestProgressService(mockRepo, publisher)

	exams := []*models.ExamProgress{{ExamID: "jee", TotalTimeSpent: 90}}
	chapters := []*models.ChapterProgress{
		{ExamID: "jee", TutorialCompleted: true, TestsAttempted: 1, BestScore: 90, LastAttemptScore: 90},
		{ExamID: "jee", TutorialCompleted: true},
	}
	mockRepo.examRepo.On("ListByUser", mock.Anything, "user-1").Return(exams, nil)
	mockRepo.chapterRepo.On("ListByUser", mock.Anything, "user-1").Return(chapters, nil)

	stats, err := service.GetUserStatistics(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, 1, stats.TotalExams)
	assert.Equal(t, 2, stats.TotalChaptersCompleted)
	assert.Equal(t, 1, stats.TotalTestsAttempted)
	assert.Equal(t, 90, stats.AverageScore)
	assert.Equal(t, 90, stats.TotalStudyTime)
	assert.Equal(t, 1, stats.ThreeStarTests)
}
