package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/exam-sarathi/learning-service/internal/events"
	"github.com/exam-sarathi/learning-service/internal/models"
	"github.com/exam-sarathi/learning-service/internal/utils"
)

func syllabusFixture() *models.Syllabus {
	return &models.Syllabus{
		ExamID:   "jee",
		ExamName: "JEE Main",
		Subjects: []models.SyllabusSubject{
			{
				SubjectID: "physics",
				Name:      "Physics",
				Chapters:  chapterList("p-1", "p-2"),
			},
			{
				SubjectID: "chemistry",
				Name:      "Chemistry",
				Chapters:  chapterList("c-1", "c-2"),
			},
		},
	}
}

func newTestJourneyService(contentClient *MockContentClient, repo *MockRepository) JourneyService {
	logger := testLogger()
	progress := NewProgressService(repo, events.NewMockEventPublisher(logger), logger, utils.NewValidator())
	return NewJourneyService(contentClient, progress, logger)
}

func TestJourneyService_GetExamJourney_FreshUser(t *testing.T) {
	contentClient := &MockContentClient{}
	contentClient.On("GetSyllabus", mock.Anything, "jee").Return(syllabusFixture(), nil)

	mockRepo := newMockRepository()
	mockRepo.chapterRepo.On("ListByExam", mock.Anything, "user-1", "jee").
		Return([]*models.ChapterProgress{}, nil)

	service := newTestJourneyService(contentClient, mockRepo)

	journey, err := service.GetExamJourney(context.Background(), "user-1", "jee")
	require.NoError(t, err)

	assert.Equal(t, 0, journey.OverallPercentage)
	require.Len(t, journey.Subjects, 2)

	physics := journey.Subjects[0]
	assert.True(t, physics.Unlocked)
	assert.Equal(t, models.ChapterCurrent, physics.Chapters[0].Status)
	assert.Equal(t, models.ChapterLocked, physics.Chapters[1].Status)

	chemistry := journey.Subjects[1]
	assert.False(t, chemistry.Unlocked)
}

func TestJourneyService_GetExamJourney_MidProgress(t *testing.T) {
	contentClient := &MockContentClient{}
	contentClient.On("GetSyllabus", mock.Anything, "jee").Return(syllabusFixture(), nil)

	mockRepo := newMockRepository()
	mockRepo.chapterRepo.On("ListByExam", mock.Anything, "user-1", "jee").
		Return([]*models.ChapterProgress{
			{ChapterID: "p-1", TutorialCompleted: true, TestsAttempted: 2, BestScore: 88},
		}, nil)

	service := newTestJourneyService(contentClient, mockRepo)

	journey, err := service.GetExamJourney(context.Background(), "user-1", "jee")
	require.NoError(t, err)

	// One of four tutorials done
	assert.Equal(t, 25, journey.OverallPercentage)

	physics := journey.Subjects[0]
	assert.Equal(t, models.ChapterCompleted, physics.Chapters[0].Status)
	assert.Equal(t, 3, physics.Chapters[0].Stars)
	assert.Equal(t, models.ChapterCurrent, physics.Chapters[1].Status)
	assert.Equal(t, 50, physics.Progress.Percentage)

	// Half of physics tutorials done opens chemistry
	assert.True(t, journey.Subjects[1].Unlocked)
}

func TestJourneyService_GetSubjectJourney_UnknownSubject(t *testing.T) {
	contentClient := &MockContentClient{}
	contentClient.On("GetSyllabus", mock.Anything, "jee").Return(syllabusFixture(), nil)

	mockRepo := newMockRepository()
	mockRepo.chapterRepo.On("ListByExam", mock.Anything, "user-1", "jee").
		Return([]*models.ChapterProgress{}, nil)

	service := newTestJourneyService(contentClient, mockRepo)

	_, err := service.GetSubjectJourney(context.Background(), "user-1", "jee", "biology")
	assert.ErrorIs(t, err, ErrContentNotFound)
}
